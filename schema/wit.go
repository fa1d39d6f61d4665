package schema

import (
	"fmt"

	"github.com/wippyai/bindgen/errors"
	"go.bytecodealliance.org/wit"
)

// WITImporter converts go.bytecodealliance.org/wit type trees into schema
// types. Each *wit.TypeDef is registered once, keyed by pointer identity,
// so two structurally equal definitions stay distinct.
type WITImporter struct {
	b    *Builder
	seen map[*wit.TypeDef]Type
	anon int
}

// WITParam is a named parameter of a function imported from WIT types.
type WITParam struct {
	Type wit.Type
	Name string
}

// NewWITImporter registers imported definitions on b.
func NewWITImporter(b *Builder) *WITImporter {
	return &WITImporter{b: b, seen: make(map[*wit.TypeDef]Type)}
}

// Function imports a signature and adds it to the builder.
func (im *WITImporter) Function(name string, params []WITParam, result wit.Type, binding Binding) (*Function, error) {
	f := &Function{Name: name, Binding: binding}
	for _, p := range params {
		t, err := im.Type(p.Type)
		if err != nil {
			return nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
				Subject(name).
				Path(p.Name).
				Cause(err).
				Build()
		}
		f.Params = append(f.Params, Param{Name: p.Name, Type: t})
	}
	if result != nil {
		t, err := im.Type(result)
		if err != nil {
			return nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
				Subject(name).
				Detail("result").
				Cause(err).
				Build()
		}
		f.Result = t
	}
	im.b.Function(f)
	return f, nil
}

// Type converts a WIT type.
func (im *WITImporter) Type(t wit.Type) (Type, error) {
	if t == nil {
		return nil, nil
	}
	if st, ok := fromWITPrimitive(t); ok {
		return st, nil
	}
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return nil, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("WIT type %T", t))
	}
	if st, ok := im.seen[td]; ok {
		return st, nil
	}
	return im.typeDef(td)
}

func (im *WITImporter) name(td *wit.TypeDef, kind string) string {
	if td.Name != nil && *td.Name != "" {
		return *td.Name
	}
	im.anon++
	return fmt.Sprintf("%s-%d", kind, im.anon)
}

func (im *WITImporter) typeDef(td *wit.TypeDef) (Type, error) {
	switch k := td.Kind.(type) {
	case *wit.Record:
		n := im.b.Declare(im.name(td, "record"))
		im.seen[td] = n
		fields := make([]Field, len(k.Fields))
		for i, f := range k.Fields {
			ft, err := im.Type(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: f.Name, Type: ft}
		}
		im.b.Define(n, &Struct{Fields: fields})
		return n, nil

	case *wit.Variant:
		n := im.b.Declare(im.name(td, "variant"))
		im.seen[td] = n
		cases := make([]Case, len(k.Cases))
		for i, c := range k.Cases {
			ct, err := im.Type(c.Type)
			if err != nil {
				return nil, err
			}
			cases[i] = Case{Name: c.Name, Type: ct}
		}
		im.b.Define(n, &Variant{Cases: cases})
		return n, nil

	case *wit.Enum:
		names := make([]string, len(k.Cases))
		for i, c := range k.Cases {
			names[i] = c.Name
		}
		n := im.b.Enum(im.name(td, "enum"), names...)
		im.seen[td] = n
		return n, nil

	case *wit.Flags:
		names := make([]string, len(k.Flags))
		for i, f := range k.Flags {
			names[i] = f.Name
		}
		n := im.b.Flags(im.name(td, "flags"), names...)
		im.seen[td] = n
		return n, nil

	case *wit.Resource:
		n := im.b.Resource(im.name(td, "resource"))
		im.seen[td] = n
		return n, nil

	case *wit.Own:
		return im.handle(td, k.Type, false)
	case *wit.Borrow:
		return im.handle(td, k.Type, true)
	}

	anon, err := im.anonymous(td)
	if err != nil {
		return nil, err
	}
	if td.Name != nil && *td.Name != "" {
		n := im.b.Alias(*td.Name, anon)
		im.seen[td] = n
		return n, nil
	}
	im.seen[td] = anon
	return anon, nil
}

func (im *WITImporter) handle(td *wit.TypeDef, res *wit.TypeDef, clone bool) (Type, error) {
	if res == nil {
		return nil, errors.InvalidData(errors.PhaseLoad, nil, "handle without resource")
	}
	rt, err := im.Type(res)
	if err != nil {
		return nil, err
	}
	n, ok := rt.(Named)
	if !ok {
		return nil, errors.InvalidData(errors.PhaseLoad, nil, "handle to non-resource type")
	}
	h := HandleOf(n, clone)
	im.seen[td] = h
	return h, nil
}

func (im *WITImporter) anonymous(td *wit.TypeDef) (Type, error) {
	switch k := td.Kind.(type) {
	case *wit.List:
		elem, err := im.Type(k.Type)
		if err != nil {
			return nil, err
		}
		if elem == U8 {
			return Bytes{}, nil
		}
		return List{Elem: elem}, nil
	case *wit.Option:
		elem, err := im.Type(k.Type)
		if err != nil {
			return nil, err
		}
		return Option{Elem: elem}, nil
	case *wit.Result:
		ok, err := im.Type(k.OK)
		if err != nil {
			return nil, err
		}
		e, err := im.Type(k.Err)
		if err != nil {
			return nil, err
		}
		return Result{Ok: ok, Err: e}, nil
	case *wit.Tuple:
		elems := make([]Type, len(k.Types))
		for i, et := range k.Types {
			t, err := im.Type(et)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return Tuple{Elems: elems}, nil
	case wit.Type:
		// type alias: the kind is itself a type
		return im.Type(k)
	}
	return nil, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("WIT type definition kind %T", td.Kind))
}

func fromWITPrimitive(t wit.Type) (Type, bool) {
	switch t.(type) {
	case wit.Bool:
		return Bool{}, true
	case wit.U8:
		return U8, true
	case wit.U16:
		return U16, true
	case wit.U32:
		return U32, true
	case wit.U64:
		return U64, true
	case wit.S8:
		return S8, true
	case wit.S16:
		return S16, true
	case wit.S32:
		return S32, true
	case wit.S64:
		return S64, true
	case wit.F32:
		return F32, true
	case wit.F64:
		return F64, true
	case wit.Char:
		return Char{}, true
	case wit.String:
		return String{}, true
	}
	return nil, false
}
