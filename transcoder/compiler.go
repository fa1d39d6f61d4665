package transcoder

import (
	"sync"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/transcoder/internal/types"
)

// Compiler turns schema types into cached codec plans.
type Compiler struct {
	schema *schema.Schema
	cache  sync.Map // type string -> *Plan
}

func NewCompiler(s *schema.Schema) *Compiler {
	return &Compiler{schema: s}
}

// Schema returns the schema the compiler resolves names against.
func (c *Compiler) Schema() *schema.Schema { return c.schema }

// Compile returns the plan for t. Plans are safe to share between
// goroutines once built.
func (c *Compiler) Compile(t schema.Type) (*Plan, error) {
	if t == nil {
		return nil, errors.InvalidInput(errors.PhaseEncode, "nil type")
	}
	key := t.String()
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*Plan), nil
	}
	p, err := c.compile(t, make(map[schema.TypeID]*Plan), nil)
	if err != nil {
		return nil, err
	}
	actual, _ := c.cache.LoadOrStore(key, p)
	return actual.(*Plan), nil
}

func (c *Compiler) compile(t schema.Type, building map[schema.TypeID]*Plan, path []string) (*Plan, error) {
	switch t := t.(type) {
	case schema.Bool:
		return &Plan{Kind: KindBool, Name: "bool"}, nil
	case schema.Integer:
		k, ok := types.IntegerKind(t.Width, t.Signed)
		if !ok {
			return nil, errors.Unsupported(errors.PhaseEncode, "integer width "+t.String())
		}
		return &Plan{Kind: k, Name: t.String()}, nil
	case schema.Float:
		if t.Width == 32 {
			return &Plan{Kind: KindF32, Name: "f32"}, nil
		}
		return &Plan{Kind: KindF64, Name: "f64"}, nil
	case schema.Char:
		return &Plan{Kind: KindChar, Name: "char"}, nil
	case schema.String:
		return &Plan{Kind: KindString, Name: "string"}, nil
	case schema.Bytes:
		return &Plan{Kind: KindBytes, Name: "bytes"}, nil
	case schema.List:
		elem, err := c.compile(t.Elem, building, extend(path, "[]"))
		if err != nil {
			return nil, err
		}
		return &Plan{Kind: KindList, Name: t.String(), Elem: elem}, nil
	case schema.Option:
		elem, err := c.compile(t.Elem, building, path)
		if err != nil {
			return nil, err
		}
		return &Plan{Kind: KindOption, Name: t.String(), Elem: elem}, nil
	case schema.Result:
		p := &Plan{Kind: KindResult, Name: t.String()}
		var err error
		if t.Ok != nil {
			if p.Ok, err = c.compile(t.Ok, building, path); err != nil {
				return nil, err
			}
		}
		if t.Err != nil {
			if p.Err, err = c.compile(t.Err, building, path); err != nil {
				return nil, err
			}
		}
		return p, nil
	case schema.Tuple:
		p := &Plan{Kind: KindTuple, Name: t.String(), Fields: make([]types.Field, len(t.Elems))}
		for i, e := range t.Elems {
			fp, err := c.compile(e, building, path)
			if err != nil {
				return nil, err
			}
			p.Fields[i] = types.Field{Plan: fp}
		}
		return p, nil
	case schema.Handle:
		return &Plan{Kind: KindHandle, Name: t.String()}, nil
	case schema.Named:
		return c.compileNamed(t, building, path)
	}
	return nil, errors.New(errors.PhaseEncode, errors.KindUnsupported).
		Path(path...).
		Detail("unsupported schema type: %T", t).
		Build()
}

func (c *Compiler) compileNamed(n schema.Named, building map[schema.TypeID]*Plan, path []string) (*Plan, error) {
	if p, ok := building[n.ID]; ok {
		return p, nil
	}
	if cached, ok := c.cache.Load(n.String()); ok {
		return cached.(*Plan), nil
	}
	d := c.schema.Type(n.ID)
	if d == nil {
		return nil, errors.UnresolvedType("", n.String())
	}

	// aliases share the target's plan
	if a, ok := d.Kind.(*schema.Alias); ok {
		return c.compile(a.Target, building, path)
	}

	p := &Plan{Name: d.Name}
	building[n.ID] = p
	path = extend(path, d.Name)

	switch k := d.Kind.(type) {
	case *schema.Struct:
		p.Kind = KindStruct
		p.Fields = make([]types.Field, len(k.Fields))
		for i, f := range k.Fields {
			fp, err := c.compile(f.Type, building, extend(path, f.Name))
			if err != nil {
				return nil, err
			}
			p.Fields[i] = types.Field{Plan: fp, Name: f.Name}
		}
	case *schema.Variant:
		p.Kind = KindVariant
		p.Cases = make([]types.Case, len(k.Cases))
		for i, cs := range k.Cases {
			p.Cases[i].Name = cs.Name
			if cs.Type == nil {
				continue
			}
			cp, err := c.compile(cs.Type, building, extend(path, cs.Name))
			if err != nil {
				return nil, err
			}
			p.Cases[i].Plan = cp
		}
	case *schema.Enum:
		p.Kind = KindEnum
		p.Labels = k.Names()
	case *schema.Flags:
		p.Kind = KindFlags
		p.Width = k.Repr().Width
		p.Labels = make([]string, len(k.Flags))
		for i, f := range k.Flags {
			p.Labels[i] = f.Name
		}
	case *schema.Resource:
		return nil, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			Path(path...).
			Detail("resource %s is only usable through a handle", d.Name).
			Build()
	default:
		return nil, errors.Unsupported(errors.PhaseEncode, "definition kind "+d.Kind.KindName())
	}

	delete(building, n.ID)
	if len(building) == 0 {
		// members of an enclosing cycle stay uncached until it completes
		c.cache.LoadOrStore(n.String(), p)
	}
	return p, nil
}

func extend(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}
