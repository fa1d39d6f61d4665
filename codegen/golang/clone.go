package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

// structClone emits a Clone method copying every slice, pointer and
// clone-capable member.
func (e *emitter) structClone(name string, k *schema.Struct) error {
	var body []jen.Code
	for _, fl := range k.Fields {
		fn, ok, err := e.cloner(fl.Type)
		if err != nil {
			return err
		}
		if ok {
			field := jen.Id("v").Dot(e.m.FieldName(fl.Name))
			body = append(body, field.Clone().Op("=").Add(fn).Call(field))
		}
	}
	body = append(body, jen.Return(jen.Id("v")))

	e.f.Commentf("Clone returns a deep copy of v.")
	e.f.Func().Params(jen.Id("v").Id(name)).Id("Clone").Params().Id(name).Block(body...)
	e.f.Line()
	return nil
}

func (e *emitter) variantClone(name string, k *schema.Variant) error {
	for _, c := range k.Cases {
		caseName := e.m.CaseName(name, c.Name)
		var body []jen.Code
		if c.Type != nil {
			fn, ok, err := e.cloner(c.Type)
			if err != nil {
				return err
			}
			if ok {
				value := jen.Id("c").Dot("Value")
				body = append(body, value.Clone().Op("=").Add(fn).Call(value))
			}
		}
		body = append(body, jen.Return(jen.Id("c")))
		e.f.Func().Params(jen.Id("c").Id(caseName)).Id("Clone").Params().Id(name).Block(body...)
		e.f.Line()
	}
	return nil
}

// cloner returns an expression of type func(T) T deep copying values of t.
// ok is false when assignment already copies the value.
func (e *emitter) cloner(t schema.Type) (fn jen.Code, ok bool, err error) {
	// elem renders the element function argument of a wire cloner.
	elem := func(t schema.Type) (jen.Code, *jen.Statement, error) {
		typ, err := e.m.Type(t)
		if err != nil {
			return nil, nil, err
		}
		fn, ok, err := e.cloner(t)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return jen.Nil(), typ, nil
		}
		return fn, typ, nil
	}

	switch t := t.(type) {
	case schema.Bytes:
		return wireQual("SliceCloner").Types(jen.Byte()).Call(jen.Nil()), true, nil
	case schema.List:
		fn, typ, err := elem(t.Elem)
		if err != nil {
			return nil, false, err
		}
		return wireQual("SliceCloner").Types(typ).Call(fn), true, nil
	case schema.Option:
		fn, typ, err := elem(t.Elem)
		if err != nil {
			return nil, false, err
		}
		return wireQual("PointerCloner").Types(typ).Call(fn), true, nil
	case schema.Result:
		return e.resultCloner(t)
	case schema.Tuple:
		return e.tupleCloner(t)
	case schema.Named:
		d := e.schema.Type(t.ID)
		if d == nil {
			return nil, false, nil
		}
		switch k := d.Kind.(type) {
		case *schema.Alias:
			return e.cloner(k.Target)
		case *schema.Struct:
			if d.Clone {
				return jen.Id(e.m.TypeName(d.Name)).Dot("Clone"), true, nil
			}
		case *schema.Variant:
			if folded, isFolded := typemap.Fold(e.schema, d); isFolded {
				return e.cloner(folded)
			}
			if d.Clone {
				name := e.m.TypeName(d.Name)
				return jen.Func().Params(jen.Id("v").Id(name)).Id(name).Block(
					jen.If(jen.Id("v").Op("==").Nil()).Block(jen.Return(jen.Nil())),
					jen.Return(jen.Id("v").Dot("Clone").Call()),
				), true, nil
			}
		}
	}
	return nil, false, nil
}

func (e *emitter) resultCloner(t schema.Result) (jen.Code, bool, error) {
	sides := []schema.Type{t.Ok, t.Err}
	types := make([]jen.Code, 2)
	fns := make([]jen.Code, 2)
	needed := false
	for i, side := range sides {
		if side == nil {
			types[i] = wireQual("Unit")
			fns[i] = jen.Nil()
			continue
		}
		typ, err := e.m.Type(side)
		if err != nil {
			return nil, false, err
		}
		types[i] = typ
		fn, ok, err := e.cloner(side)
		if err != nil {
			return nil, false, err
		}
		fns[i] = jen.Nil()
		if ok {
			fns[i] = fn
			needed = true
		}
	}
	if !needed {
		return nil, false, nil
	}
	return wireQual("ResultCloner").Types(types...).Call(fns...), true, nil
}

func (e *emitter) tupleCloner(t schema.Tuple) (jen.Code, bool, error) {
	var body []jen.Code
	for i, el := range t.Elems {
		fn, ok, err := e.cloner(el)
		if err != nil {
			return nil, false, err
		}
		if ok {
			field := jen.Id("t").Dot("F" + string(rune('0'+i)))
			body = append(body, field.Clone().Op("=").Add(fn).Call(field))
		}
	}
	if len(body) == 0 {
		return nil, false, nil
	}
	typ, err := e.m.Type(t)
	if err != nil {
		return nil, false, err
	}
	body = append(body, jen.Return(jen.Id("t")))
	return jen.Func().Params(jen.Id("t").Add(typ)).Add(typ.Clone()).Block(body...), true, nil
}
