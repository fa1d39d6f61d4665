package typescript

import (
	"fmt"
	"strings"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

func (e *emitter) decl(d *schema.TypeDef) error {
	name := e.m.TypeName(d.Name)
	var err error
	switch k := d.Kind.(type) {
	case *schema.Struct:
		err = e.structDecl(d, name, k)
	case *schema.Variant:
		if folded, ok := typemap.Fold(e.schema, d); ok {
			err = e.foldedDecl(d, name, folded)
		} else {
			err = e.variantDecl(d, name, k)
		}
	case *schema.Enum:
		e.enumDecl(d, name, k)
	case *schema.Flags:
		e.flagsDecl(d, name, k)
	case *schema.Alias:
		t, terr := e.typ(k.Target)
		if terr != nil {
			return terr
		}
		e.w.doc(d.Docs)
		e.w.line("export type %s = %s;", name, t)
		e.w.blank()
		return nil
	case *schema.Resource:
		if d.Docs != "" {
			e.w.doc(d.Docs)
		} else {
			e.w.doc(fmt.Sprintf("%s is a handle to a host %s resource.", name, d.Name))
		}
		e.w.line("export type %s = number;", name)
		e.w.blank()
		return nil
	default:
		return errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Target(typemap.TargetTypeScript).
			Subject(d.Name).
			Detail("unknown kind %T", d.Kind).
			Build()
	}
	if err != nil {
		return err
	}
	if d.Clone {
		e.w.block("export function %s(v: %s): %s", e.m.CloneFunc(name), name, name)
		e.w.line("return structuredClone(v);")
		e.w.end("")
		e.w.blank()
	}
	return nil
}

func (e *emitter) serHeader(name string) {
	e.w.block("export function %s(out: Serializer, v: %s): void", e.m.SerializeFunc(name), name)
}

func (e *emitter) deHeader(name string) {
	e.w.block("export function %s(de: Deserializer): %s", e.m.DeserializeFunc(name), name)
}

func (e *emitter) structDecl(d *schema.TypeDef, name string, k *schema.Struct) error {
	type member struct{ name, typ, ser, de string }
	members := make([]member, len(k.Fields))
	for i, fl := range k.Fields {
		t, err := e.typ(fl.Type)
		if err != nil {
			return err
		}
		ser, err := e.ser(fl.Type)
		if err != nil {
			return err
		}
		de, err := e.de(fl.Type)
		if err != nil {
			return err
		}
		members[i] = member{e.m.FieldName(fl.Name), t, ser, de}
	}

	e.w.doc(d.Docs)
	e.w.block("export interface %s", name)
	for i, mb := range members {
		e.w.doc(k.Fields[i].Docs)
		e.w.line("%s: %s;", mb.name, mb.typ)
	}
	e.w.end("")
	e.w.blank()

	e.serHeader(name)
	for _, mb := range members {
		e.w.line("%s(out, v.%s);", mb.ser, mb.name)
	}
	e.w.end("")
	e.w.blank()

	e.deHeader(name)
	if len(members) == 0 {
		e.w.line("return {};")
	} else {
		// properties evaluate in source order, which is wire order
		e.w.line("return {")
		e.w.in()
		for _, mb := range members {
			e.w.line("%s: %s(de),", mb.name, mb.de)
		}
		e.w.out()
		e.w.line("};")
	}
	e.w.end("")
	e.w.blank()
	return nil
}

// variantDecl emits one interface per case and their union, discriminated
// by the case label in tag.
func (e *emitter) variantDecl(d *schema.TypeDef, name string, k *schema.Variant) error {
	type arm struct{ ser, de string }
	arms := make([]arm, len(k.Cases))
	caseNames := make([]string, len(k.Cases))
	for i, c := range k.Cases {
		caseName := e.m.CaseName(name, c.Name)
		caseNames[i] = caseName
		e.w.doc(c.Docs)
		if c.Type == nil {
			e.w.line("export interface %s { tag: %s }", caseName, quote(c.Name))
			continue
		}
		t, err := e.typ(c.Type)
		if err != nil {
			return err
		}
		if arms[i].ser, err = e.ser(c.Type); err != nil {
			return err
		}
		if arms[i].de, err = e.de(c.Type); err != nil {
			return err
		}
		e.w.line("export interface %s { tag: %s; val: %s }", caseName, quote(c.Name), t)
	}
	e.w.blank()
	e.w.doc(d.Docs)
	e.w.line("export type %s = %s;", name, strings.Join(caseNames, " | "))
	e.w.blank()

	e.serHeader(name)
	e.w.block("switch (v.tag)")
	for i, c := range k.Cases {
		e.w.line("case %s:", quote(c.Name))
		e.w.in()
		e.w.line("out.varint(%d);", i)
		if c.Type != nil {
			e.w.line("%s(out, v.val);", arms[i].ser)
		}
		e.w.line("return;")
		e.w.out()
	}
	e.w.end("")
	e.w.line("throw new WireError(\"invalid_data\", `${(v as { tag: unknown }).tag} is not a case of %s`);", name)
	e.w.end("")
	e.w.blank()

	e.deHeader(name)
	e.w.block("switch (de.tag(%d))", len(k.Cases))
	for i, c := range k.Cases {
		e.w.line("case %d:", i)
		e.w.in()
		if c.Type == nil {
			e.w.line("return { tag: %s };", quote(c.Name))
		} else {
			e.w.line("return { tag: %s, val: %s(de) };", quote(c.Name), arms[i].de)
		}
		e.w.out()
	}
	e.w.end("")
	e.w.line("throw new WireError(\"invalid_tag\", %s);", quote("tag out of range for "+name))
	e.w.end("")
	e.w.blank()
	return nil
}

// foldedDecl declares an option or result shaped variant as its sugar
// form; the wire bytes are the same.
func (e *emitter) foldedDecl(d *schema.TypeDef, name string, folded schema.Type) error {
	t, err := e.typ(folded)
	if err != nil {
		return err
	}
	ser, err := e.ser(folded)
	if err != nil {
		return err
	}
	de, err := e.de(folded)
	if err != nil {
		return err
	}
	e.w.doc(d.Docs)
	e.w.line("export type %s = %s;", name, t)
	e.w.blank()
	e.serHeader(name)
	e.w.line("%s(out, v);", ser)
	e.w.end("")
	e.w.blank()
	e.deHeader(name)
	e.w.line("return %s(de);", de)
	e.w.end("")
	e.w.blank()
	return nil
}

func (e *emitter) enumDecl(d *schema.TypeDef, name string, k *schema.Enum) {
	labels := make([]string, len(k.Cases))
	for i, c := range k.Cases {
		labels[i] = quote(c.Name)
	}
	e.w.doc(d.Docs)
	e.w.line("export type %s = %s;", name, strings.Join(labels, " | "))
	e.w.blank()
	e.w.line("export const %sNames: readonly %s[] = [%s];", name, name, strings.Join(labels, ", "))
	e.w.blank()
	e.w.block("export const %sOrdinals: Readonly<Record<%s, number>> =", name, name)
	for i, l := range labels {
		e.w.line("%s: %d,", l, i)
	}
	e.w.end(";")
	e.w.blank()

	e.serHeader(name)
	e.w.line("const ordinal = %sNames.indexOf(v);", name)
	e.w.block("if (ordinal < 0)")
	e.w.line("throw new WireError(\"invalid_tag\", `${v} is not a case of %s`);", name)
	e.w.end("")
	e.w.line("out.varint(ordinal);")
	e.w.end("")
	e.w.blank()

	e.deHeader(name)
	e.w.line("return %sNames[de.tag(%d)];", name, len(k.Cases))
	e.w.end("")
	e.w.blank()
}

// flagsDecl emits the bit set as a number (up to 32 flags) or bigint with a
// same-named constant object holding one bit per flag.
func (e *emitter) flagsDecl(d *schema.TypeDef, name string, k *schema.Flags) {
	repr := k.Repr()
	count := len(k.Flags)
	big := repr.Width > 32

	e.w.doc(d.Docs)
	if big {
		e.w.line("export type %s = bigint;", name)
	} else {
		e.w.line("export type %s = number;", name)
	}
	e.w.blank()
	e.w.block("export const %s =", name)
	for i, fl := range k.Flags {
		e.w.doc(fl.Docs)
		e.w.line("%s: %s,", e.m.FieldName(fl.Name), flagBit(i, big))
	}
	e.w.end(" as const;")
	e.w.blank()

	suffix := ""
	if big {
		suffix = "Big"
	}
	e.serHeader(name)
	e.w.line("out.flags%s(v, %d);", suffix, count)
	e.w.end("")
	e.w.blank()
	e.deHeader(name)
	e.w.line("return de.flags%s(%d, %d);", suffix, repr.Width, count)
	e.w.end("")
	e.w.blank()
}

func flagBit(i int, big bool) string {
	switch {
	case !big:
		return fmt.Sprint(uint64(1) << uint(i))
	case i < 64:
		return fmt.Sprintf("%#xn", uint64(1)<<uint(i))
	default:
		return fmt.Sprintf("%#x%016xn", uint64(1)<<uint(i-64), 0)
	}
}
