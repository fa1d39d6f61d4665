package typemap

import (
	"fmt"
	"strings"

	"github.com/wippyai/bindgen/schema"
)

// Markdown renders schema types as documentation text, linking named
// types to their section anchors. Names are kept as declared.
type Markdown struct {
	schema *schema.Schema
}

func NewMarkdown(s *schema.Schema) *Markdown {
	return &Markdown{schema: s}
}

func (*Markdown) Target() string               { return TargetMarkdown }
func (*Markdown) TypeName(name string) string  { return name }
func (*Markdown) FieldName(name string) string { return name }
func (*Markdown) ParamName(name string) string { return name }
func (*Markdown) Reserved(string) bool         { return false }
func (*Markdown) Deferred(Container) bool      { return true }

func (*Markdown) CaseName(typeName, caseName string) string {
	return typeName + "::" + caseName
}

func (*Markdown) FuncName(f *schema.Function, qualify bool) string {
	if qualify {
		return f.Namespace + "::" + f.Name
	}
	return f.Name
}

func (*Markdown) Prelude() []string { return nil }

func (*Markdown) Declared(d *schema.TypeDef) []string {
	return []string{Anchor(d.Name)}
}

// Anchor returns the heading anchor of a type section.
func Anchor(name string) string {
	return "type-" + Kebab(name)
}

func (m *Markdown) Expr(t schema.Type) (string, error) {
	var b strings.Builder
	if err := m.render(&b, t); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (m *Markdown) render(b *strings.Builder, t schema.Type) error {
	list := func(open string, ts ...schema.Type) error {
		b.WriteString(open)
		b.WriteString("<")
		for i, e := range ts {
			if i > 0 {
				b.WriteString(", ")
			}
			if e == nil {
				b.WriteString("_")
				continue
			}
			if err := m.render(b, e); err != nil {
				return err
			}
		}
		b.WriteString(">")
		return nil
	}
	switch t := t.(type) {
	case schema.List:
		return list("list", t.Elem)
	case schema.Option:
		return list("option", t.Elem)
	case schema.Result:
		switch {
		case t.Ok == nil && t.Err == nil:
			b.WriteString("result")
			return nil
		case t.Err == nil:
			return list("result", t.Ok)
		}
		return list("result", t.Ok, t.Err)
	case schema.Tuple:
		return list("tuple", t.Elems...)
	case schema.Named:
		d := m.schema.Type(t.ID)
		if d == nil {
			return unresolved(t.Name)
		}
		fmt.Fprintf(b, "[%s](#%s)", d.Name, Anchor(d.Name))
	case schema.Handle:
		d := m.schema.Type(t.Resource)
		if d == nil {
			return unresolved(t.Name)
		}
		fmt.Fprintf(b, "handle<[%s](#%s)", d.Name, Anchor(d.Name))
		if t.Clone {
			b.WriteString(", clone")
		}
		b.WriteString(">")
	default:
		b.WriteString(t.String())
	}
	return nil
}
