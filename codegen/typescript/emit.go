package typescript

import (
	"strings"

	"github.com/wippyai/bindgen/codegen"
	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

// Header is the first line of every generated file.
const Header = "Code generated by bindgen. DO NOT EDIT."

func init() {
	codegen.Register(typemap.TargetTypeScript, codegen.EmitterFunc(Emit))
}

type emitter struct {
	plan   *codegen.Plan
	schema *schema.Schema
	m      *typemap.TypeScript
	w      *writer
	// used collects the runtime regions the declarations refer to.
	used map[string]bool
}

// Emit renders the plan as one TypeScript module named after
// Options.Name. The module starts with the parts of the runtime its
// declarations use.
func Emit(p *codegen.Plan) (codegen.Files, error) {
	m, ok := p.Mapper.(*typemap.TypeScript)
	if !ok {
		return nil, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Target(typemap.TargetTypeScript).
			Detail("typescript emitter needs the typescript type mapper, got %T", p.Mapper).
			Build()
	}

	e := &emitter{plan: p, schema: p.Schema, m: m, w: &writer{}, used: make(map[string]bool)}
	for _, d := range p.Defs() {
		if err := e.decl(d); err != nil {
			return nil, err
		}
	}
	if err := e.client(); err != nil {
		return nil, err
	}

	var out writer
	out.line("// %s", Header)
	for _, line := range lines(p.Options.Header) {
		out.line("// %s", line)
	}
	out.blank()
	out.doc(p.Schema.Docs)
	out.raw(prelude(e.used))
	out.blank()
	out.raw(e.w.String())
	return codegen.Files{{Path: p.Options.Name + ".ts", Content: []byte(out.String())}}, nil
}

func lines(s string) []string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (e *emitter) typ(t schema.Type) (string, error) {
	return e.m.Type(t, e.used)
}

func (e *emitter) ser(t schema.Type) (string, error) {
	return e.m.Serializer(t, e.used)
}

func (e *emitter) de(t schema.Type) (string, error) {
	return e.m.Deserializer(t, e.used)
}

// cast renders the conversion of x and records its helper.
func (e *emitter) cast(c typemap.Cast, x string) string {
	expr, helper := typemap.TSCast(c, x)
	if helper != "" {
		e.used[helper] = true
	}
	return expr
}
