package markdown

import (
	"fmt"
	"strings"

	"github.com/wippyai/bindgen/codegen"
	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

// Header is written as an HTML comment at the top of every generated file.
const Header = "Code generated by bindgen. DO NOT EDIT."

func init() {
	codegen.Register(typemap.TargetMarkdown, codegen.EmitterFunc(Emit))
}

var escaper = strings.NewReplacer("<", `\<`, ">", `\>`, "|", `\|`)

type emitter struct {
	plan   *codegen.Plan
	schema *schema.Schema
	m      *typemap.Markdown
	b      strings.Builder
}

// Emit renders the plan as one document named after Options.Name: the
// reachable types in dependency order, then every function with its
// command identifier and delivery contract.
func Emit(p *codegen.Plan) (codegen.Files, error) {
	m, ok := p.Mapper.(*typemap.Markdown)
	if !ok {
		return nil, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Target(typemap.TargetMarkdown).
			Detail("markdown emitter needs the markdown type mapper, got %T", p.Mapper).
			Build()
	}
	e := &emitter{plan: p, schema: p.Schema, m: m}

	e.printf("<!-- %s -->\n", Header)
	if h := strings.TrimSpace(p.Options.Header); h != "" {
		e.printf("<!--\n%s\n-->\n", strings.ReplaceAll(h, "--", "- -"))
	}
	e.printf("\n# %s\n\n", p.Options.ModuleName)
	e.docs(p.Schema.Docs)

	if defs := p.Defs(); len(defs) > 0 {
		e.printf("## Type definitions\n\n")
		for _, d := range defs {
			if err := e.typedef(d); err != nil {
				return nil, err
			}
		}
	}
	if fns := p.Schema.Functions(); len(fns) > 0 {
		e.printf("## Functions\n\n")
		for _, f := range fns {
			if err := e.function(f); err != nil {
				return nil, err
			}
		}
	}
	if groups := p.Schema.CastGroups(); len(groups) > 0 {
		e.printf("## Cast groups\n\n")
		for _, g := range groups {
			members := make([]string, len(g.Members))
			for i, m := range g.Members {
				members[i] = "`" + m.String() + "`"
			}
			e.printf("- **%s**: %s\n", g.Name, strings.Join(members, ", "))
		}
		e.printf("\n")
	}

	content := strings.TrimRight(e.b.String(), "\n") + "\n"
	return codegen.Files{{Path: p.Options.Name + ".md", Content: []byte(content)}}, nil
}

func (e *emitter) printf(format string, args ...any) {
	fmt.Fprintf(&e.b, format, args...)
}

// docs writes trimmed documentation as its own paragraph.
func (e *emitter) docs(docs string) {
	lines := strings.Split(strings.TrimSpace(docs), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	if text := strings.Join(lines, "\n"); text != "" {
		e.printf("%s\n\n", text)
	}
}

// inline flattens docs for a table cell.
func inline(docs string) string {
	return escaper.Replace(strings.Join(strings.Fields(docs), " "))
}

func (e *emitter) expr(t schema.Type) (string, error) {
	s, err := e.m.Expr(t)
	if err != nil {
		return "", err
	}
	return escaper.Replace(s), nil
}

func (e *emitter) typedef(d *schema.TypeDef) error {
	e.printf("<a id=\"%s\"></a>\n\n", typemap.Anchor(d.Name))
	e.printf("### %s %s\n\n", title(d.Kind.KindName()), d.Name)
	e.docs(d.Docs)

	switch k := d.Kind.(type) {
	case *schema.Struct:
		if len(k.Fields) == 0 {
			e.printf("No fields; encodes as zero bytes.\n\n")
			break
		}
		e.printf("| Field | Type | Description |\n|---|---|---|\n")
		for _, fl := range k.Fields {
			t, err := e.expr(fl.Type)
			if err != nil {
				return err
			}
			e.printf("| `%s` | %s | %s |\n", fl.Name, t, inline(fl.Docs))
		}
		e.printf("\n")

	case *schema.Variant:
		if folded, ok := typemap.Fold(e.schema, d); ok {
			t, err := e.expr(folded)
			if err != nil {
				return err
			}
			e.printf("Same encoding as %s.\n\n", t)
		}
		e.printf("| Tag | Case | Payload | Description |\n|---|---|---|---|\n")
		for i, c := range k.Cases {
			payload := "none"
			if c.Type != nil {
				t, err := e.expr(c.Type)
				if err != nil {
					return err
				}
				payload = t
			}
			e.printf("| %d | `%s` | %s | %s |\n", i, c.Name, payload, inline(c.Docs))
		}
		e.printf("\n")

	case *schema.Enum:
		e.printf("| Ordinal | Case | Description |\n|---|---|---|\n")
		for i, c := range k.Cases {
			e.printf("| %d | `%s` | %s |\n", i, c.Name, inline(c.Docs))
		}
		e.printf("\n")

	case *schema.Flags:
		e.printf("Encoded as `%s`.\n\n", k.Repr())
		e.printf("| Bit | Flag | Description |\n|---|---|---|\n")
		for i, fl := range k.Flags {
			e.printf("| %d | `%s` | %s |\n", i, fl.Name, inline(fl.Docs))
		}
		e.printf("\n")

	case *schema.Alias:
		t, err := e.expr(k.Target)
		if err != nil {
			return err
		}
		e.printf("Alias of %s.\n\n", t)

	case *schema.Resource:
		e.printf("Passed by handle, as `handle<%s>`.\n\n", d.Name)

	default:
		return errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Target(typemap.TargetMarkdown).
			Subject(d.Name).
			Detail("unknown kind %T", d.Kind).
			Build()
	}
	if d.Clone {
		e.printf("Values can be cloned.\n\n")
	}
	return nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (e *emitter) function(f *schema.Function) error {
	name := e.m.FuncName(f, e.plan.Qualify)
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		t, err := e.param(p)
		if err != nil {
			return err
		}
		params[i] = p.Name + ": " + t
	}
	sig := name + "(" + strings.Join(params, ", ") + ")"
	if f.Result != nil {
		t, err := e.result(f)
		if err != nil {
			return err
		}
		sig += " -> " + t
	}

	e.printf("### Function %s\n\n", name)
	e.printf("%s\n\n", sig)
	e.docs(f.Docs)
	e.printf("- Command: `%s`\n", f.Command())
	e.printf("- Binding: %s\n", f.Binding)
	switch f.Delivery {
	case schema.FireAndForget:
		e.printf("- Delivery: %s; returns once the transport accepts the request\n", f.Delivery)
	default:
		e.printf("- Delivery: %s; returns the decoded response\n", f.Delivery)
	}
	e.printf("\n")

	var described bool
	for _, p := range f.Params {
		if strings.TrimSpace(p.Docs) == "" {
			continue
		}
		if !described {
			e.printf("| Parameter | Description |\n|---|---|\n")
			described = true
		}
		e.printf("| `%s` | %s |\n", p.Name, inline(p.Docs))
	}
	if described {
		e.printf("\n")
	}
	return nil
}

// param renders a parameter type, noting the wire type of a cast.
func (e *emitter) param(p schema.Param) (string, error) {
	t, err := e.expr(p.Type)
	if err != nil {
		return "", err
	}
	if c, ok := typemap.ParamCast(e.schema, p); ok {
		return fmt.Sprintf("%s (sent as %s)", c.From, t), nil
	}
	return t, nil
}

func (e *emitter) result(f *schema.Function) (string, error) {
	t, err := e.expr(f.Result)
	if err != nil {
		return "", err
	}
	if c, ok := typemap.ResultCast(e.schema, f); ok {
		return fmt.Sprintf("%s (received as %s)", c.To, t), nil
	}
	return t, nil
}
