package transcoder

import (
	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/wire"
)

// Transcoder encodes and decodes whole calls: argument lists and results of
// schema functions. Encoder and Decoder share one plan cache.
type Transcoder struct {
	*Encoder
	*Decoder
	compiler *Compiler
}

func New(s *schema.Schema) *Transcoder {
	c := NewCompiler(s)
	return &Transcoder{
		Encoder:  NewEncoderWithCompiler(c),
		Decoder:  NewDecoderWithCompiler(c),
		compiler: c,
	}
}

// Schema returns the schema values are checked against.
func (t *Transcoder) Schema() *schema.Schema { return t.compiler.Schema() }

// EncodeArgs serializes named arguments in the function's parameter order.
func (t *Transcoder) EncodeArgs(f *schema.Function, args map[string]any) ([]byte, error) {
	values := make([]any, len(f.Params))
	for i, p := range f.Params {
		v, ok := args[p.Name]
		if !ok {
			return nil, errors.FieldMissing(errors.PhaseEncode, []string{f.Qualified()}, p.Name)
		}
		values[i] = v
	}
	if len(args) > len(f.Params) {
		for name := range args {
			if !hasParam(f, name) {
				return nil, errors.FieldUnknown(errors.PhaseEncode, []string{f.Qualified()}, name)
			}
		}
	}
	return t.EncodeArgList(f, values)
}

// EncodeArgList serializes positional arguments.
func (t *Transcoder) EncodeArgList(f *schema.Function, values []any) ([]byte, error) {
	if len(values) != len(f.Params) {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Subject(f.Qualified()).
			Detail("parameter count mismatch: expected %d, got %d", len(f.Params), len(values)).
			Build()
	}
	w := getWriter()
	defer putWriter(w)
	for i, p := range f.Params {
		if err := t.EncodeTo(w, p.Type, values[i]); err != nil {
			return nil, prefix(err, f.Qualified(), p.Name)
		}
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// DecodeArgs is the receiving side of EncodeArgs.
func (t *Transcoder) DecodeArgs(f *schema.Function, data []byte) (map[string]any, error) {
	r := wire.NewReader(data)
	out := make(map[string]any, len(f.Params))
	for _, p := range f.Params {
		v, err := t.DecodeFrom(r, p.Type)
		if err != nil {
			return nil, prefix(err, f.Qualified(), p.Name)
		}
		out[p.Name] = v
	}
	if err := r.Finish(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeResult serializes a function's return value. Functions without a
// result produce an empty payload.
func (t *Transcoder) EncodeResult(f *schema.Function, value any) ([]byte, error) {
	if f.Result == nil {
		if value != nil {
			return nil, errors.InvalidInput(errors.PhaseEncode, f.Qualified()+" has no result")
		}
		return []byte{}, nil
	}
	b, err := t.Encode(f.Result, value)
	if err != nil {
		return nil, prefix(err, f.Qualified(), "result")
	}
	return b, nil
}

// DecodeResult decodes a response payload with the declared return type.
func (t *Transcoder) DecodeResult(f *schema.Function, data []byte) (any, error) {
	if f.Result == nil {
		if err := wire.NewReader(data).Finish(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v, err := t.Decode(f.Result, data)
	if err != nil {
		return nil, prefix(err, f.Qualified(), "result")
	}
	return v, nil
}

func hasParam(f *schema.Function, name string) bool {
	for _, p := range f.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// prefix roots an error path at the function and parameter it came from.
func prefix(err error, fn, param string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Subject = fn
		e.Path = append([]string{param}, e.Path...)
	}
	return err
}
