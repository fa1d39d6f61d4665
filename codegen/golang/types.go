package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

func (e *emitter) decl(d *schema.TypeDef) error {
	name := e.m.TypeName(d.Name)
	switch k := d.Kind.(type) {
	case *schema.Struct:
		return e.structDecl(d, name, k)
	case *schema.Variant:
		if folded, ok := typemap.Fold(e.schema, d); ok {
			return e.foldedDecl(d, name, folded)
		}
		return e.variantDecl(d, name, k)
	case *schema.Enum:
		e.enumDecl(d, name, k)
	case *schema.Flags:
		e.flagsDecl(d, name, k)
	case *schema.Alias:
		t, err := e.m.Type(k.Target)
		if err != nil {
			return err
		}
		e.doc(d.Docs)
		e.f.Type().Id(name).Op("=").Add(t)
		e.f.Line()
	case *schema.Resource:
		e.resourceDecl(d, name)
	default:
		return errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Target(typemap.TargetGo).
			Subject(d.Name).
			Detail("unknown kind %T", d.Kind).
			Build()
	}
	return nil
}

// codecFuncs emits WriteX and ReadX around the given bodies.
func (e *emitter) codecFuncs(name string, write, read []jen.Code) {
	e.f.Func().Id(e.m.WriteFunc(name)).
		Params(jen.Id("w").Op("*").Add(wireQual("Writer")), jen.Id("v").Id(name)).
		Block(write...)
	e.f.Line()
	e.f.Func().Id(e.m.ReadFunc(name)).
		Params(jen.Id("r").Op("*").Add(wireQual("Reader"))).
		Id(name).
		Block(read...)
	e.f.Line()
}

func (e *emitter) structDecl(d *schema.TypeDef, name string, k *schema.Struct) error {
	fields := make([]jen.Code, len(k.Fields))
	write := make([]jen.Code, 0, len(k.Fields))
	read := []jen.Code{jen.Var().Id("v").Id(name)}
	for i, fl := range k.Fields {
		field := e.m.FieldName(fl.Name)
		t, err := e.m.Type(fl.Type)
		if err != nil {
			return err
		}
		fields[i] = comment(fl.Docs).Id(field).Add(t)

		wr, err := e.m.Writer(fl.Type)
		if err != nil {
			return err
		}
		rd, err := e.m.Reader(fl.Type)
		if err != nil {
			return err
		}
		write = append(write, wr.Call(jen.Id("w"), jen.Id("v").Dot(field)))
		read = append(read, jen.Id("v").Dot(field).Op("=").Add(rd).Call(jen.Id("r")))
	}
	read = append(read, jen.Return(jen.Id("v")))

	e.doc(d.Docs)
	e.f.Type().Id(name).Struct(fields...)
	e.f.Line()
	e.codecFuncs(name, write, read)
	if d.Clone {
		return e.structClone(name, k)
	}
	return nil
}

// variantDecl emits a sealed interface with one struct per case. The
// unexported marker method keeps other types out of the union.
func (e *emitter) variantDecl(d *schema.TypeDef, name string, k *schema.Variant) error {
	marker := "is" + name
	methods := []jen.Code{jen.Id(marker).Params()}
	if d.Clone {
		methods = append(methods, jen.Id("Clone").Params().Id(name))
	}
	e.doc(d.Docs)
	e.f.Type().Id(name).Interface(methods...)
	e.f.Line()

	cases := make([]jen.Code, 0, len(k.Cases)+1)
	reads := make([]jen.Code, 0, len(k.Cases))
	for i, c := range k.Cases {
		caseName := e.m.CaseName(name, c.Name)
		if c.Docs != "" {
			e.doc(c.Docs)
		} else {
			e.f.Commentf("%s is the %s case of %s.", caseName, c.Name, name)
		}
		tag := jen.Id("w").Dot("WriteTag").Call(jen.Lit(i))
		if c.Type == nil {
			e.f.Type().Id(caseName).Struct()
			cases = append(cases, jen.Case(jen.Id(caseName)).Block(tag))
			reads = append(reads, jen.Case(jen.Lit(i)).Block(jen.Return(jen.Id(caseName).Values())))
		} else {
			t, err := e.m.Type(c.Type)
			if err != nil {
				return err
			}
			wr, err := e.m.Writer(c.Type)
			if err != nil {
				return err
			}
			rd, err := e.m.Reader(c.Type)
			if err != nil {
				return err
			}
			e.f.Type().Id(caseName).Struct(jen.Id("Value").Add(t))
			cases = append(cases, jen.Case(jen.Id(caseName)).Block(
				tag,
				wr.Call(jen.Id("w"), jen.Id("c").Dot("Value")),
			))
			reads = append(reads, jen.Case(jen.Lit(i)).Block(
				jen.Return(jen.Id(caseName).Values(jen.Id("Value").Op(":").Add(rd).Call(jen.Id("r")))),
			))
		}
		e.f.Line()
		e.f.Func().Params(jen.Id(caseName)).Id(marker).Params().Block()
		e.f.Line()
	}
	cases = append(cases, jen.Default().Block(
		jen.Id("w").Dot("FailCase").Call(jen.Lit(name), jen.Id("v")),
	))

	// a variant without payload cases never reads c
	subject := jen.Id("v").Assert(jen.Type())
	if hasPayload(k) {
		subject = jen.Id("c").Op(":=").Add(subject)
	}
	write := []jen.Code{jen.Switch(subject).Block(cases...)}
	read := []jen.Code{
		jen.Switch(jen.Id("r").Dot("ReadTag").Call(jen.Lit(len(k.Cases)))).Block(reads...),
		jen.Return(jen.Nil()),
	}
	e.codecFuncs(name, write, read)
	if d.Clone {
		return e.variantClone(name, k)
	}
	return nil
}

func hasPayload(k *schema.Variant) bool {
	for _, c := range k.Cases {
		if c.Type != nil {
			return true
		}
	}
	return false
}

// foldedDecl declares an option or result shaped variant as an alias of
// its sugar form; the wire bytes are the same.
func (e *emitter) foldedDecl(d *schema.TypeDef, name string, folded schema.Type) error {
	t, err := e.m.Type(folded)
	if err != nil {
		return err
	}
	wr, err := e.m.Writer(folded)
	if err != nil {
		return err
	}
	rd, err := e.m.Reader(folded)
	if err != nil {
		return err
	}
	e.doc(d.Docs)
	e.f.Type().Id(name).Op("=").Add(t)
	e.f.Line()
	e.codecFuncs(name,
		[]jen.Code{wr.Call(jen.Id("w"), jen.Id("v"))},
		[]jen.Code{jen.Return(rd.Call(jen.Id("r")))},
	)
	return nil
}

func (e *emitter) enumDecl(d *schema.TypeDef, name string, k *schema.Enum) {
	names := typemap.GoUnexported(d.Name) + "Names"

	e.doc(d.Docs)
	e.f.Type().Id(name).Uint32()
	e.f.Line()

	consts := make([]jen.Code, len(k.Cases))
	labels := make([]jen.Code, len(k.Cases))
	for i, c := range k.Cases {
		def := comment(c.Docs).Id(e.m.CaseName(name, c.Name))
		if i == 0 {
			def.Id(name).Op("=").Iota()
		}
		consts[i] = def
		labels[i] = jen.Lit(c.Name)
	}
	e.f.Const().Defs(consts...)
	e.f.Line()
	e.f.Var().Id(names).Op("=").Index(jen.Op("...")).String().Values(labels...)
	e.f.Line()

	e.f.Func().Params(jen.Id("v").Id(name)).Id("String").Params().String().Block(
		jen.If(jen.Int().Call(jen.Id("v")).Op("<").Len(jen.Id(names))).Block(
			jen.Return(jen.Id(names).Index(jen.Id("v"))),
		),
		jen.Return(jen.Lit(name+"(").Op("+").Qual("strconv", "Itoa").Call(jen.Int().Call(jen.Id("v"))).Op("+").Lit(")")),
	)
	e.f.Line()

	e.f.Commentf("Parse%s returns the case labelled name.", name)
	e.f.Func().Id("Parse"+name).Params(jen.Id("name").String()).Params(jen.Id(name), jen.Bool()).Block(
		jen.For(jen.List(jen.Id("i"), jen.Id("n")).Op(":=").Range().Id(names)).Block(
			jen.If(jen.Id("n").Op("==").Id("name")).Block(
				jen.Return(jen.Id(name).Call(jen.Id("i")), jen.True()),
			),
		),
		jen.Return(jen.Lit(0), jen.False()),
	)
	e.f.Line()

	e.codecFuncs(name,
		[]jen.Code{jen.Id("w").Dot("WriteEnum").Call(jen.Uint32().Call(jen.Id("v")), jen.Lit(len(k.Cases)))},
		[]jen.Code{jen.Return(jen.Id(name).Call(jen.Id("r").Dot("ReadTag").Call(jen.Lit(len(k.Cases)))))},
	)
}

func (e *emitter) flagsDecl(d *schema.TypeDef, name string, k *schema.Flags) {
	repr := k.Repr()
	count := len(k.Flags)

	e.doc(d.Docs)
	if repr.Width == 128 {
		e.f.Type().Id(name).Add(wireQual("Uint128"))
		e.f.Line()
		defs := make([]jen.Code, count)
		for i, fl := range k.Flags {
			bit := jen.Id("Lo").Op(":").Lit(uint64(1) << uint(i))
			if i >= 64 {
				bit = jen.Id("Hi").Op(":").Lit(uint64(1) << uint(i-64))
			}
			defs[i] = comment(fl.Docs).Id(e.m.CaseName(name, fl.Name)).Op("=").Id(name).Values(bit)
		}
		e.f.Var().Defs(defs...)
		e.f.Line()
		e.codecFuncs(name,
			[]jen.Code{jen.Id("w").Dot("WriteFlags128").Call(wireQual("Uint128").Call(jen.Id("v")), jen.Lit(count))},
			[]jen.Code{jen.Return(jen.Id(name).Call(jen.Id("r").Dot("ReadFlags128").Call(jen.Lit(count))))},
		)
		return
	}

	goRepr, _ := e.m.Type(repr)
	e.f.Type().Id(name).Add(goRepr)
	e.f.Line()
	defs := make([]jen.Code, count)
	for i, fl := range k.Flags {
		def := comment(fl.Docs).Id(e.m.CaseName(name, fl.Name))
		if i == 0 {
			def.Id(name).Op("=").Lit(1).Op("<<").Iota()
		}
		defs[i] = def
	}
	e.f.Const().Defs(defs...)
	e.f.Line()
	e.codecFuncs(name,
		[]jen.Code{jen.Id("w").Dot("WriteFlags").Call(jen.Uint64().Call(jen.Id("v")), jen.Lit(count))},
		[]jen.Code{jen.Return(jen.Id(name).Call(jen.Id("r").Dot("ReadFlags").Call(jen.Lit(repr.Width), jen.Lit(count))))},
	)
}

func (e *emitter) resourceDecl(d *schema.TypeDef, name string) {
	if d.Docs != "" {
		e.doc(d.Docs)
	} else {
		e.f.Commentf("%s is a handle to a host %s resource.", name, d.Name)
	}
	e.f.Type().Id(name).Add(wireQual("ResourceID"))
	e.f.Line()
	e.codecFuncs(name,
		[]jen.Code{jen.Id("w").Dot("WriteHandle").Call(wireQual("ResourceID").Call(jen.Id("v")))},
		[]jen.Code{jen.Return(jen.Id(name).Call(jen.Id("r").Dot("ReadHandle").Call()))},
	)
}
