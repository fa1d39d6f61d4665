package typemap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/bindgen/schema"
)

// TypeScript maps schema types onto TypeScript. Integers up to 32 bits are
// numbers, wider ones bigints. option<T> is T | null unless T is itself
// optional, in which case the prelude's tagged Option<T> keeps the two
// absent levels apart.
type TypeScript struct {
	schema *schema.Schema
}

func NewTypeScript(s *schema.Schema) *TypeScript {
	return &TypeScript{schema: s}
}

func (*TypeScript) Target() string               { return TargetTypeScript }
func (*TypeScript) TypeName(name string) string  { return UpperCamel(name) }
func (*TypeScript) FieldName(name string) string { return LowerCamel(name) }
func (*TypeScript) ParamName(name string) string { return LowerCamel(name) }
func (*TypeScript) Reserved(ident string) bool   { return IsTSReserved(ident) }
func (*TypeScript) Deferred(Container) bool      { return true }

func (*TypeScript) CaseName(typeName, caseName string) string {
	return typeName + UpperCamel(caseName)
}

func (*TypeScript) FuncName(f *schema.Function, qualify bool) string {
	if qualify {
		return LowerCamel(f.Namespace + "-" + f.Name)
	}
	return LowerCamel(f.Name)
}

// SerializeFunc and DeserializeFunc name the routines emitted per type.
func (*TypeScript) SerializeFunc(typeName string) string   { return "serialize" + typeName }
func (*TypeScript) DeserializeFunc(typeName string) string { return "deserialize" + typeName }

func (*TypeScript) Prelude() []string {
	return []string{"Transport", "Client", "createClient"}
}

func (ts *TypeScript) Declared(d *schema.TypeDef) []string {
	name := ts.TypeName(d.Name)
	switch d.Kind.(type) {
	case *schema.Alias, *schema.Resource:
		return []string{name}
	}
	out := []string{name, ts.SerializeFunc(name), ts.DeserializeFunc(name)}
	switch k := d.Kind.(type) {
	case *schema.Variant:
		if _, folded := Fold(ts.schema, d); !folded {
			for _, c := range k.Cases {
				out = append(out, ts.CaseName(name, c.Name))
			}
		}
	case *schema.Enum:
		out = append(out, name+"Ordinals", name+"Names")
	}
	if d.Clone {
		out = append(out, ts.CloneFunc(name))
	}
	return out
}

// CloneFunc names the deep copy helper of a clone-capable type.
func (*TypeScript) CloneFunc(typeName string) string { return "clone" + typeName }

func (ts *TypeScript) Expr(t schema.Type) (string, error) {
	return ts.Type(t, nil)
}

// Type renders t and records the prelude declarations it refers to in used,
// when used is not nil.
func (ts *TypeScript) Type(t schema.Type, used map[string]bool) (string, error) {
	switch t := t.(type) {
	case schema.Bool:
		return "boolean", nil
	case schema.Integer:
		if t.Width > 32 {
			return "bigint", nil
		}
		return "number", nil
	case schema.Float:
		return "number", nil
	case schema.Char, schema.String:
		return "string", nil
	case schema.Bytes:
		return "Uint8Array", nil
	case schema.List:
		elem, err := ts.Type(t.Elem, used)
		if err != nil {
			return "", err
		}
		if strings.Contains(elem, " | ") {
			elem = "(" + elem + ")"
		}
		return elem + "[]", nil
	case schema.Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			s, err := ts.Type(e, used)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case schema.Option:
		elem, err := ts.Type(t.Elem, used)
		if err != nil {
			return "", err
		}
		if ts.Optional(t.Elem) {
			mark(used, "Option")
			return "Option<" + elem + ">", nil
		}
		return elem + " | null", nil
	case schema.Result:
		mark(used, "Result")
		ok, err := ts.orVoid(t.Ok, used)
		if err != nil {
			return "", err
		}
		e, err := ts.orVoid(t.Err, used)
		if err != nil {
			return "", err
		}
		return "Result<" + ok + ", " + e + ">", nil
	case schema.Named:
		d := ts.schema.Type(t.ID)
		if d == nil {
			return "", unresolved(t.Name)
		}
		return ts.TypeName(d.Name), nil
	case schema.Handle:
		d := ts.schema.Type(t.Resource)
		if d == nil {
			return "", unresolved(t.Name)
		}
		return ts.TypeName(d.Name), nil
	}
	return "", unsupported(TargetTypeScript, fmt.Sprintf("type %T", t))
}

func (ts *TypeScript) orVoid(t schema.Type, used map[string]bool) (string, error) {
	if t == nil {
		return "void", nil
	}
	return ts.Type(t, used)
}

// Optional reports whether t renders with null as one of its values.
func (ts *TypeScript) Optional(t schema.Type) bool {
	t = ts.schema.Resolve(t)
	switch x := t.(type) {
	case schema.Option:
		return !ts.Optional(x.Elem)
	case schema.Named:
		d := ts.schema.Type(x.ID)
		if d == nil {
			return false
		}
		folded, ok := Fold(ts.schema, d)
		if !ok {
			return false
		}
		if opt, isOption := folded.(schema.Option); isOption {
			return !ts.Optional(opt.Elem)
		}
	}
	return false
}

// Serializer renders an expression of type (out: Serializer, v: T) => void
// and records the prelude helpers it calls in used.
func (ts *TypeScript) Serializer(t schema.Type, used map[string]bool) (string, error) {
	return ts.codec(t, "ser", used)
}

// Deserializer renders an expression of type (de: Deserializer) => T.
func (ts *TypeScript) Deserializer(t schema.Type, used map[string]bool) (string, error) {
	return ts.codec(t, "de", used)
}

func (ts *TypeScript) codec(t schema.Type, prefix string, used map[string]bool) (string, error) {
	helper := func(name string, args ...string) string {
		mark(used, prefix+name)
		if args == nil {
			return prefix + name
		}
		return prefix + name + "(" + strings.Join(args, ", ") + ")"
	}
	switch t := t.(type) {
	case schema.List:
		elem, err := ts.codec(t.Elem, prefix, used)
		if err != nil {
			return "", err
		}
		return helper("List", elem), nil
	case schema.Option:
		elem, err := ts.codec(t.Elem, prefix, used)
		if err != nil {
			return "", err
		}
		if ts.Optional(t.Elem) {
			return helper("OptionTagged", elem), nil
		}
		return helper("Option", elem), nil
	case schema.Result:
		sides := make([]string, 2)
		for i, s := range []schema.Type{t.Ok, t.Err} {
			if s == nil {
				sides[i] = helper("Unit")
				continue
			}
			c, err := ts.codec(s, prefix, used)
			if err != nil {
				return "", err
			}
			sides[i] = c
		}
		return helper("Result", sides...), nil
	case schema.Tuple:
		elems := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			c, err := ts.codec(e, prefix, used)
			if err != nil {
				return "", err
			}
			elems[i] = c
		}
		return helper("Tuple", elems...), nil
	case schema.Named:
		d := ts.schema.Type(t.ID)
		if d == nil {
			return "", unresolved(t.Name)
		}
		switch k := d.Kind.(type) {
		case *schema.Alias:
			return ts.codec(k.Target, prefix, used)
		case *schema.Resource:
			return helper("Handle"), nil
		}
		if prefix == "ser" {
			return ts.SerializeFunc(ts.TypeName(d.Name)), nil
		}
		return ts.DeserializeFunc(ts.TypeName(d.Name)), nil
	case schema.Handle:
		return helper("Handle"), nil
	case schema.Bool:
		return helper("Bool"), nil
	case schema.Integer:
		if t.Signed {
			return helper("S" + strconv.Itoa(t.Width)), nil
		}
		return helper("U" + strconv.Itoa(t.Width)), nil
	case schema.Float:
		return helper("F" + strconv.Itoa(t.Width)), nil
	case schema.Char:
		return helper("Char"), nil
	case schema.String:
		return helper("String"), nil
	case schema.Bytes:
		return helper("Bytes"), nil
	}
	return "", unsupported(TargetTypeScript, fmt.Sprintf("type %T", t))
}

func mark(used map[string]bool, name string) {
	if used != nil {
		used[name] = true
	}
}
