package transcoder

import (
	"strconv"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/wire"
)

type Decoder struct {
	compiler *Compiler
}

func NewDecoder(s *schema.Schema) *Decoder {
	return &Decoder{compiler: NewCompiler(s)}
}

func NewDecoderWithCompiler(c *Compiler) *Decoder {
	return &Decoder{compiler: c}
}

// Decode reads exactly one value of type t from data.
func (d *Decoder) Decode(t schema.Type, data []byte) (any, error) {
	r := wire.NewReader(data)
	v, err := d.DecodeFrom(r, t)
	if err != nil {
		return nil, err
	}
	if err := r.Finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeFrom reads one value of type t and leaves r positioned after it.
func (d *Decoder) DecodeFrom(r *wire.Reader, t schema.Type) (any, error) {
	p, err := d.compiler.Compile(t)
	if err != nil {
		return nil, err
	}
	return d.decode(r, p, nil, 0)
}

func (d *Decoder) decode(r *wire.Reader, p *Plan, path []string, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, errors.InvalidData(errors.PhaseDecode, path, "value nested deeper than "+strconv.Itoa(MaxDepth))
	}

	var v any
	switch p.Kind {
	case KindBool:
		v = r.ReadBool()
	case KindU8:
		v = r.ReadU8()
	case KindU16:
		v = r.ReadU16()
	case KindU32:
		v = r.ReadU32()
	case KindU64:
		v = r.ReadU64()
	case KindU128:
		v = r.ReadU128()
	case KindS8:
		v = r.ReadS8()
	case KindS16:
		v = r.ReadS16()
	case KindS32:
		v = r.ReadS32()
	case KindS64:
		v = r.ReadS64()
	case KindS128:
		v = r.ReadS128()
	case KindF32:
		v = r.ReadF32()
	case KindF64:
		v = r.ReadF64()
	case KindChar:
		v = r.ReadChar()
	case KindString:
		v = r.ReadString()
	case KindBytes:
		v = r.ReadBytes()
	case KindHandle:
		v = r.ReadHandle()
	case KindEnum:
		idx := r.ReadTag(len(p.Labels))
		if r.Err() == nil {
			v = p.Labels[idx]
		}
	case KindFlags:
		return d.decodeFlags(r, p, path)
	case KindList:
		return d.decodeList(r, p, path, depth)
	case KindTuple, KindStruct:
		return d.decodeFields(r, p, path, depth)
	case KindVariant:
		return d.decodeVariant(r, p, path, depth)
	case KindOption:
		tag := r.ReadTag(2)
		if err := r.Err(); err != nil {
			return nil, withPath(err, path)
		}
		if tag == 0 {
			return None, nil
		}
		inner, err := d.decode(r, p.Elem, path, depth+1)
		if err != nil {
			return nil, err
		}
		return Some(inner), nil
	case KindResult:
		return d.decodeResult(r, p, path, depth)
	default:
		return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported kind: %s", p.Kind).
			Build()
	}
	if err := r.Err(); err != nil {
		return nil, withPath(err, path)
	}
	return v, nil
}

func (d *Decoder) decodeList(r *wire.Reader, p *Plan, path []string, depth int) (any, error) {
	n := r.ReadCount()
	if err := r.Err(); err != nil {
		return nil, withPath(err, path)
	}
	out := make([]any, 0, min(n, r.Remaining()))
	for i := 0; i < n; i++ {
		v, err := d.decode(r, p.Elem, extend(path, "["+strconv.Itoa(i)+"]"), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeFields handles structs (map keyed by field name) and tuples (slice).
func (d *Decoder) decodeFields(r *wire.Reader, p *Plan, path []string, depth int) (any, error) {
	if p.Kind == KindTuple {
		out := make([]any, len(p.Fields))
		for i, f := range p.Fields {
			v, err := d.decode(r, f.Plan, extend(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	out := make(map[string]any, len(p.Fields))
	for _, f := range p.Fields {
		v, err := d.decode(r, f.Plan, extend(path, f.Name), depth+1)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (d *Decoder) decodeVariant(r *wire.Reader, p *Plan, path []string, depth int) (any, error) {
	idx := r.ReadTag(len(p.Cases))
	if err := r.Err(); err != nil {
		return nil, withPath(err, path)
	}
	c := p.Cases[idx]
	if c.Plan == nil {
		return Variant{Case: c.Name}, nil
	}
	v, err := d.decode(r, c.Plan, extend(path, c.Name), depth+1)
	if err != nil {
		return nil, err
	}
	return Variant{Case: c.Name, Value: v}, nil
}

func (d *Decoder) decodeResult(r *wire.Reader, p *Plan, path []string, depth int) (any, error) {
	tag := r.ReadTag(2)
	if err := r.Err(); err != nil {
		return nil, withPath(err, path)
	}
	target, seg := p.Ok, "ok"
	if tag == 1 {
		target, seg = p.Err, "err"
	}
	out := Outcome{IsErr: tag == 1}
	if target == nil {
		return out, nil
	}
	v, err := d.decode(r, target, extend(path, seg), depth+1)
	if err != nil {
		return nil, err
	}
	out.Value = v
	return out, nil
}

func (d *Decoder) decodeFlags(r *wire.Reader, p *Plan, path []string) (any, error) {
	var bits wire.Uint128
	if p.Width == 128 {
		bits = r.ReadU128()
	} else {
		bits.Lo = r.ReadUvarint(p.Width)
	}
	if err := r.Err(); err != nil {
		return nil, withPath(err, path)
	}
	names := make([]string, 0, len(p.Labels))
	for i, name := range p.Labels {
		var set bool
		if i < 64 {
			set = bits.Lo&(1<<uint(i)) != 0
			bits.Lo &^= 1 << uint(i)
		} else {
			set = bits.Hi&(1<<uint(i-64)) != 0
			bits.Hi &^= 1 << uint(i-64)
		}
		if set {
			names = append(names, name)
		}
	}
	if !bits.IsZero() {
		return nil, errors.InvalidData(errors.PhaseDecode, path, "flags "+p.Name+" has bits set beyond its "+strconv.Itoa(len(p.Labels))+" flags")
	}
	return names, nil
}
