package transport

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/transcoder"
)

// Func implements a schema function over dynamic values. args holds one
// entry per parameter in the representation documented by the transcoder
// package; the returned value is encoded with the function's result type
// and must be nil for functions without one.
type Func func(ctx context.Context, args map[string]any) (any, error)

// Host serves schema functions on a Mux. Arguments are decoded and results
// encoded with a transcoder, so implementations need no generated code.
type Host struct {
	schema *schema.Schema
	tc     *transcoder.Transcoder
	mux    *Mux
}

func NewHost(s *schema.Schema, mux *Mux) *Host {
	return &Host{schema: s, tc: transcoder.New(s), mux: mux}
}

// Mux returns the mux the host registers on.
func (h *Host) Mux() *Mux { return h.mux }

// Implement registers fn as the function namespace.name under the command
// its binding uses.
func (h *Host) Implement(namespace, name string, fn Func) error {
	f, ok := h.schema.Function(namespace, name)
	if !ok {
		err := errors.NotFound(errors.PhaseTransport, "function", namespace+"."+name)
		var names []string
		for _, g := range h.schema.Functions() {
			if g.Namespace == namespace {
				names = append(names, g.Name)
			}
		}
		if similar := schema.FindSimilar(name, names); len(similar) > 0 {
			err.Detail += ", did you mean " + schema.PrintList(similar) + "?"
		}
		return err
	}

	if f.Binding == schema.Direct {
		h.mux.Handle(f.Command(), func(ctx context.Context, payload []byte) ([]byte, error) {
			args, err := h.tc.DecodeArgs(f, payload)
			if err != nil {
				return nil, err
			}
			return h.run(ctx, f, fn, args)
		})
	} else {
		h.mux.HandleStructured(f.Command(), func(ctx context.Context, in Args) ([]byte, error) {
			args, err := h.decodeArgs(f, in)
			if err != nil {
				return nil, err
			}
			return h.run(ctx, f, fn, args)
		})
	}
	Logger().Debug("implemented function",
		zap.String("command", f.Command()),
		zap.Stringer("delivery", f.Delivery))
	return nil
}

func (h *Host) decodeArgs(f *schema.Function, in Args) (map[string]any, error) {
	args := make(map[string]any, len(f.Params))
	for _, p := range f.Params {
		data, ok := in[p.Name]
		if !ok {
			return nil, errors.FieldMissing(errors.PhaseDecode, []string{f.Qualified()}, p.Name)
		}
		v, err := h.tc.Decode(p.Type, data)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Subject = f.Qualified()
				e.Path = append([]string{p.Name}, e.Path...)
			}
			return nil, err
		}
		args[p.Name] = v
	}
	if len(in) > len(f.Params) {
		for name := range in {
			if _, ok := args[name]; !ok {
				return nil, errors.FieldUnknown(errors.PhaseDecode, []string{f.Qualified()}, name)
			}
		}
	}
	return args, nil
}

func (h *Host) run(ctx context.Context, f *schema.Function, fn Func, args map[string]any) ([]byte, error) {
	out, err := fn(ctx, args)
	if err != nil {
		return nil, err
	}
	if f.Delivery == schema.FireAndForget {
		return nil, nil
	}
	return h.tc.EncodeResult(f, out)
}
