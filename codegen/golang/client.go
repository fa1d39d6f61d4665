package golang

import (
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

func (e *emitter) client() error {
	ns := e.schema.Namespace
	e.f.Commentf("Client calls the %s functions through a transport.", ns)
	e.f.Type().Id("Client").Struct(
		jen.Id("invoker").Qual(TransportPackage, "Invoker"),
		jen.Id("endpoint").Qual(TransportPackage, "Endpoint"),
	)
	e.f.Line()
	e.f.Comment("NewClient returns a Client. Structured functions go through invoker and")
	e.f.Comment("direct functions through endpoint; either may be nil when no function")
	e.f.Comment("uses it.")
	e.f.Func().Id("NewClient").
		Params(
			jen.Id("invoker").Qual(TransportPackage, "Invoker"),
			jen.Id("endpoint").Qual(TransportPackage, "Endpoint"),
		).
		Op("*").Id("Client").
		Block(jen.Return(jen.Op("&").Id("Client").Values(jen.Dict{
			jen.Id("invoker"):  jen.Id("invoker"),
			jen.Id("endpoint"): jen.Id("endpoint"),
		})))
	e.f.Line()

	for _, f := range e.schema.Functions() {
		if err := e.stub(f); err != nil {
			return err
		}
	}
	return nil
}

// stubResult describes what a call stub returns besides its error.
type stubResult struct {
	typ  jen.Code       // nil when the stub returns only an error
	fold *schema.Result // set when a result return folds into (T, error)
	cast *typemap.Cast  // set when the wire result is converted
	wire schema.Type
}

func (e *emitter) result(f *schema.Function) (stubResult, error) {
	if f.Result == nil || f.Delivery == schema.FireAndForget {
		return stubResult{}, nil
	}
	r := stubResult{wire: f.Result}
	if c, ok := typemap.ResultCast(e.schema, f); ok {
		r.cast = &c
		t, err := e.m.Type(c.To)
		if err != nil {
			return r, err
		}
		r.typ = t
		return r, nil
	}
	if res, ok := e.topResult(f.Result); ok {
		r.fold = &res
		if res.Ok == nil {
			return r, nil
		}
		t, err := e.m.Type(res.Ok)
		if err != nil {
			return r, err
		}
		r.typ = t
		return r, nil
	}
	t, err := e.m.Type(f.Result)
	if err != nil {
		return r, err
	}
	r.typ = t
	return r, nil
}

// topResult reports whether t, after aliases and sugar, is a result.
func (e *emitter) topResult(t schema.Type) (schema.Result, bool) {
	t = e.schema.Resolve(t)
	if n, ok := t.(schema.Named); ok {
		if d := e.schema.Type(n.ID); d != nil {
			if folded, isFolded := typemap.Fold(e.schema, d); isFolded {
				t = folded
			}
		}
	}
	res, ok := t.(schema.Result)
	return res, ok
}

func (e *emitter) stub(f *schema.Function) error {
	name := e.m.FuncName(f, e.plan.Qualify)
	res, err := e.result(f)
	if err != nil {
		return err
	}

	ret := func(errExpr jen.Code) jen.Code {
		if res.typ == nil {
			return jen.Return(errExpr)
		}
		return jen.Return(jen.Id("out"), errExpr)
	}

	params := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	var body []jen.Code
	values := make([]jen.Code, len(f.Params))
	taken := make(map[string]bool, len(f.Params))
	for _, p := range f.Params {
		taken[e.m.ParamName(p.Name)] = true
	}
	for i, p := range f.Params {
		pn := e.m.ParamName(p.Name)
		values[i] = jen.Id(pn)
		if c, ok := typemap.ParamCast(e.schema, p); ok {
			t, err := e.m.Type(c.From)
			if err != nil {
				return err
			}
			params = append(params, jen.Id(pn).Add(t))
			conv := typemap.GoCast(c, jen.Id(pn))
			if c.Fallible() {
				local := freeLocal(taken, pn+"Wire")
				body = append(body,
					jen.List(jen.Id(local), jen.Err()).Op(":=").Add(conv),
					jen.If(jen.Err().Op("!=").Nil()).Block(ret(jen.Err())),
				)
				values[i] = jen.Id(local)
			} else {
				values[i] = conv
			}
			continue
		}
		t, err := e.m.Type(p.Type)
		if err != nil {
			return err
		}
		params = append(params, jen.Id(pn).Add(t))
	}

	var call jen.Code
	if f.Binding == schema.Structured {
		body = append(body, jen.Id("args").Op(":=").Make(jen.Qual(TransportPackage, "Args"), jen.Lit(len(f.Params))))
		for i, p := range f.Params {
			wr, err := e.m.Writer(p.Type)
			if err != nil {
				return err
			}
			body = append(body, jen.If(
				jen.List(jen.Id("args").Index(jen.Lit(p.Name)), jen.Err()).Op("=").Add(wireQual("Marshal")).Call(values[i], wr),
				jen.Err().Op("!=").Nil(),
			).Block(ret(jen.Err())))
		}
		call = jen.Id("c").Dot("invoker").Dot("Invoke").Call(jen.Id("ctx"), jen.Lit(f.Command()), jen.Id("args"))
	} else {
		payload := jen.Code(jen.Nil())
		if len(f.Params) > 0 {
			body = append(body, jen.Id("w").Op(":=").Add(wireQual("NewWriter")).Call(jen.Lit(64)))
			for i, p := range f.Params {
				wr, err := e.m.Writer(p.Type)
				if err != nil {
					return err
				}
				body = append(body, wr.Call(jen.Id("w"), values[i]))
			}
			body = append(body, jen.If(
				jen.Err().Op("=").Id("w").Dot("Err").Call(),
				jen.Err().Op("!=").Nil(),
			).Block(ret(jen.Err())))
			payload = jen.Id("w").Dot("Bytes").Call()
		}
		if f.Delivery == schema.FireAndForget {
			body = append(body, jen.Return(jen.Id("c").Dot("endpoint").Dot("Send").Call(jen.Id("ctx"), jen.Lit(f.Command()), payload)))
			return e.emitStub(f, name, params, res, body)
		}
		call = jen.Id("c").Dot("endpoint").Dot("Call").Call(jen.Id("ctx"), jen.Lit(f.Command()), payload)
	}

	body = append(body,
		jen.List(jen.Id("resp"), jen.Err()).Op(":=").Add(call),
		jen.If(jen.Err().Op("!=").Nil()).Block(ret(jen.Err())),
	)

	decoded, err := e.decode(res)
	if err != nil {
		return err
	}
	body = append(body, decoded...)
	return e.emitStub(f, name, params, res, body)
}

// decode renders the statements turning resp into the stub's return
// values.
func (e *emitter) decode(res stubResult) ([]jen.Code, error) {
	if res.wire == nil {
		return []jen.Code{jen.Return(wireQual("NewReader").Call(jen.Id("resp")).Dot("Finish").Call())}, nil
	}
	rd, err := e.m.Reader(res.wire)
	if err != nil {
		return nil, err
	}
	unmarshal := wireQual("Unmarshal").Call(jen.Id("resp"), rd)

	switch {
	case res.cast != nil:
		out := []jen.Code{
			jen.List(jen.Id("v"), jen.Err()).Op(":=").Add(unmarshal),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Id("out"), jen.Err())),
		}
		conv := typemap.GoCast(*res.cast, jen.Id("v"))
		if res.cast.Fallible() {
			return append(out, jen.Return(conv)), nil
		}
		return append(out, jen.Return(conv, jen.Nil())), nil
	case res.fold != nil:
		out := []jen.Code{jen.List(jen.Id("v"), jen.Err()).Op(":=").Add(unmarshal)}
		if res.typ == nil {
			return append(out,
				jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
				jen.List(jen.Id("_"), jen.Err()).Op("=").Id("v").Dot("Unwrap").Call(),
				jen.Return(jen.Err()),
			), nil
		}
		return append(out,
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Id("out"), jen.Err())),
			jen.Return(jen.Id("v").Dot("Unwrap").Call()),
		), nil
	}
	return []jen.Code{jen.Return(unmarshal)}, nil
}

func (e *emitter) emitStub(f *schema.Function, name string, params []jen.Code, res stubResult, body []jen.Code) error {
	if f.Docs != "" {
		e.doc(f.Docs)
		e.f.Comment("")
	}
	e.f.Commentf("%s calls %q (%s, %s).", name, f.Command(), f.Binding, f.Delivery)
	if res.fold != nil {
		e.f.Comment("An err result is returned as a *wire.ErrorResult.")
	}

	results := []jen.Code{jen.Err().Error()}
	if res.typ != nil {
		results = []jen.Code{jen.Id("out").Add(res.typ), jen.Err().Error()}
	}
	e.f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id(name).
		Params(params...).
		Params(results...).
		Block(body...)
	e.f.Line()
	return nil
}

// freeLocal returns base, or base with the smallest numeric suffix that no
// parameter or earlier local uses, and marks it taken.
func freeLocal(taken map[string]bool, base string) string {
	name := base
	for i := 2; taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	taken[name] = true
	return name
}
