package golang

import (
	"bytes"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/bindgen/codegen"
	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

// TransportPackage is the transport runtime generated clients import.
const TransportPackage = "github.com/wippyai/bindgen/transport"

// Header is the first line of every generated file.
const Header = "Code generated by bindgen. DO NOT EDIT."

func init() {
	codegen.Register(typemap.TargetGo, codegen.EmitterFunc(Emit))
}

type emitter struct {
	plan   *codegen.Plan
	schema *schema.Schema
	m      *typemap.Go
	f      *jen.File
}

// Emit renders the plan as a single Go source file named after the
// package.
func Emit(p *codegen.Plan) (codegen.Files, error) {
	m, ok := p.Mapper.(*typemap.Go)
	if !ok {
		return nil, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Target(typemap.TargetGo).
			Detail("go emitter needs the go type mapper, got %T", p.Mapper).
			Build()
	}

	f := jen.NewFile(p.Options.Package)
	f.HeaderComment(Header)
	if p.Options.Header != "" {
		for _, line := range strings.Split(strings.TrimSpace(p.Options.Header), "\n") {
			f.HeaderComment(line)
		}
	}
	if p.Schema.Docs != "" {
		for _, line := range strings.Split(strings.TrimSpace(p.Schema.Docs), "\n") {
			f.PackageComment(line)
		}
	}
	f.ImportName(typemap.WirePackage, "wire")
	f.ImportName(TransportPackage, "transport")

	e := &emitter{plan: p, schema: p.Schema, m: m, f: f}
	for _, d := range p.Defs() {
		if err := e.decl(d); err != nil {
			return nil, err
		}
	}
	if err := e.client(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidData, err, "render go source")
	}
	return codegen.Files{{Path: p.Options.Package + ".go", Content: buf.Bytes()}}, nil
}

// doc adds docs as a comment block above the next declaration.
func (e *emitter) doc(docs string) {
	if docs = strings.TrimSpace(docs); docs == "" {
		return
	}
	for _, line := range strings.Split(docs, "\n") {
		e.f.Comment(strings.TrimRight(line, " \t"))
	}
}

// comment renders docs for use inside a struct or const block.
func comment(docs string) *jen.Statement {
	s := jen.Null()
	if docs = strings.TrimSpace(docs); docs == "" {
		return s
	}
	for _, line := range strings.Split(docs, "\n") {
		s.Comment(strings.TrimRight(line, " \t")).Line()
	}
	return s
}

func wireQual(name string) *jen.Statement {
	return jen.Qual(typemap.WirePackage, name)
}
