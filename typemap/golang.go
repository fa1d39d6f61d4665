package typemap

import (
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
)

// WirePackage is the runtime package generated Go code imports.
const WirePackage = "github.com/wippyai/bindgen/wire"

// MaxGoTuple is the widest tuple the wire package has a Go type for.
const MaxGoTuple = 8

// Go maps schema types onto Go:
//
//	bool, u8..u64, s8..s64   bool, uint8..uint64, int8..int64
//	u128, s128               wire.Uint128, wire.Int128
//	f32, f64, char, string   float32, float64, rune, string
//	bytes, list<T>           []byte, []T
//	tuple<A, B>              wire.Tuple2[A, B]
//	option<T>                *T
//	result<T, E>             wire.Result[T, E] (wire.Unit for a missing side)
//	struct                   struct type
//	variant                  sealed interface, one struct per case
//	enum                     uint32 type with constants
//	flags                    unsigned bit set type with constants
//	alias                    type alias
//	resource, handle         named wire.ResourceID type
type Go struct {
	schema *schema.Schema
}

func NewGo(s *schema.Schema) *Go {
	return &Go{schema: s}
}

func (*Go) Target() string                   { return TargetGo }
func (*Go) TypeName(name string) string      { return GoExported(name) }
func (*Go) FieldName(name string) string     { return GoExported(name) }
func (*Go) ParamName(name string) string     { return GoUnexported(name) }
func (*Go) Reserved(ident string) bool       { return IsGoReserved(ident) }
func (*Go) WriteFunc(typeName string) string { return "Write" + typeName }
func (*Go) ReadFunc(typeName string) string  { return "Read" + typeName }

func (*Go) CaseName(typeName, caseName string) string {
	return typeName + GoExported(caseName)
}

func (*Go) FuncName(f *schema.Function, qualify bool) string {
	if qualify {
		return GoExported(f.Namespace) + GoExported(f.Name)
	}
	return GoExported(f.Name)
}

// Deferred: slices, pointers and interfaces break value cycles; struct
// fields, tuples, results and aliases embed the value.
func (*Go) Deferred(c Container) bool {
	return c == InList || c == InOption || c == InCase
}

func (*Go) Prelude() []string {
	return []string{"Client", "NewClient"}
}

func (g *Go) Declared(d *schema.TypeDef) []string {
	name := g.TypeName(d.Name)
	if _, ok := d.Kind.(*schema.Alias); ok {
		return []string{name}
	}
	out := []string{name, g.WriteFunc(name), g.ReadFunc(name)}
	switch k := d.Kind.(type) {
	case *schema.Variant:
		if _, folded := Fold(g.schema, d); folded {
			break
		}
		for _, c := range k.Cases {
			out = append(out, g.CaseName(name, c.Name))
		}
	case *schema.Enum:
		for _, c := range k.Cases {
			out = append(out, g.CaseName(name, c.Name))
		}
		out = append(out, "Parse"+name)
	case *schema.Flags:
		for _, f := range k.Flags {
			out = append(out, g.CaseName(name, f.Name))
		}
	}
	return out
}

func (g *Go) Expr(t schema.Type) (string, error) {
	s, err := g.Type(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%#v", s), nil
}

// Type returns the Go type of t.
func (g *Go) Type(t schema.Type) (*jen.Statement, error) {
	switch t := t.(type) {
	case schema.Bool:
		return jen.Bool(), nil
	case schema.Integer:
		return goInt(t), nil
	case schema.Float:
		if t.Width == 32 {
			return jen.Float32(), nil
		}
		return jen.Float64(), nil
	case schema.Char:
		return jen.Rune(), nil
	case schema.String:
		return jen.String(), nil
	case schema.Bytes:
		return jen.Index().Byte(), nil
	case schema.List:
		elem, err := g.Type(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	case schema.Option:
		elem, err := g.Type(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil
	case schema.Result:
		ok, err := g.orUnit(t.Ok)
		if err != nil {
			return nil, err
		}
		e, err := g.orUnit(t.Err)
		if err != nil {
			return nil, err
		}
		return jen.Qual(WirePackage, "Result").Types(ok, e), nil
	case schema.Tuple:
		elems, err := g.tupleElems(t, g.Type)
		if err != nil {
			return nil, err
		}
		return jen.Qual(WirePackage, tupleName(t)).Types(elems...), nil
	case schema.Named:
		d, err := g.def(t.ID, t.Name)
		if err != nil {
			return nil, err
		}
		return jen.Id(g.TypeName(d.Name)), nil
	case schema.Handle:
		d, err := g.def(t.Resource, t.Name)
		if err != nil {
			return nil, err
		}
		return jen.Id(g.TypeName(d.Name)), nil
	}
	return nil, unsupported(TargetGo, fmt.Sprintf("type %T", t))
}

// Writer returns an expression of type func(*wire.Writer, T) for t.
func (g *Go) Writer(t schema.Type) (*jen.Statement, error) {
	switch t := t.(type) {
	case schema.List:
		elem, err := g.Writer(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Qual(WirePackage, "ListWriter").Call(elem), nil
	case schema.Option:
		elem, err := g.Writer(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Qual(WirePackage, "OptionWriter").Call(elem), nil
	case schema.Result:
		return g.resultCodec(t, "ResultWriter", g.Writer)
	case schema.Tuple:
		elems, err := g.tupleElems(t, g.Writer)
		if err != nil {
			return nil, err
		}
		return jen.Qual(WirePackage, tupleName(t)+"Writer").Call(elems...), nil
	case schema.Named:
		d, err := g.def(t.ID, t.Name)
		if err != nil {
			return nil, err
		}
		if a, ok := d.Kind.(*schema.Alias); ok {
			return g.Writer(a.Target)
		}
		return jen.Id(g.WriteFunc(g.TypeName(d.Name))), nil
	case schema.Handle:
		d, err := g.def(t.Resource, t.Name)
		if err != nil {
			return nil, err
		}
		return jen.Id(g.WriteFunc(g.TypeName(d.Name))), nil
	}
	name, err := primitiveCodec(t)
	if err != nil {
		return nil, err
	}
	return jen.Qual(WirePackage, "Write"+name), nil
}

// Reader returns an expression of type func(*wire.Reader) T for t.
func (g *Go) Reader(t schema.Type) (*jen.Statement, error) {
	switch t := t.(type) {
	case schema.List:
		elem, err := g.Reader(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Qual(WirePackage, "ListReader").Call(elem), nil
	case schema.Option:
		elem, err := g.Reader(t.Elem)
		if err != nil {
			return nil, err
		}
		return jen.Qual(WirePackage, "OptionReader").Call(elem), nil
	case schema.Result:
		return g.resultCodec(t, "ResultReader", g.Reader)
	case schema.Tuple:
		elems, err := g.tupleElems(t, g.Reader)
		if err != nil {
			return nil, err
		}
		return jen.Qual(WirePackage, tupleName(t)+"Reader").Call(elems...), nil
	case schema.Named:
		d, err := g.def(t.ID, t.Name)
		if err != nil {
			return nil, err
		}
		if a, ok := d.Kind.(*schema.Alias); ok {
			return g.Reader(a.Target)
		}
		return jen.Id(g.ReadFunc(g.TypeName(d.Name))), nil
	case schema.Handle:
		d, err := g.def(t.Resource, t.Name)
		if err != nil {
			return nil, err
		}
		return jen.Id(g.ReadFunc(g.TypeName(d.Name))), nil
	}
	name, err := primitiveCodec(t)
	if err != nil {
		return nil, err
	}
	return jen.Qual(WirePackage, "Read"+name), nil
}

// resultCodec instantiates ResultWriter or ResultReader explicitly: a unit
// side passes nil, which leaves nothing to infer the type from.
func (g *Go) resultCodec(t schema.Result, fn string, side func(schema.Type) (*jen.Statement, error)) (*jen.Statement, error) {
	okT, err := g.orUnit(t.Ok)
	if err != nil {
		return nil, err
	}
	errT, err := g.orUnit(t.Err)
	if err != nil {
		return nil, err
	}
	args := make([]jen.Code, 2)
	for i, s := range []schema.Type{t.Ok, t.Err} {
		if s == nil {
			args[i] = jen.Nil()
			continue
		}
		if args[i], err = side(s); err != nil {
			return nil, err
		}
	}
	return jen.Qual(WirePackage, fn).Types(okT, errT).Call(args...), nil
}

func (g *Go) orUnit(t schema.Type) (*jen.Statement, error) {
	if t == nil {
		return jen.Qual(WirePackage, "Unit"), nil
	}
	return g.Type(t)
}

func (g *Go) tupleElems(t schema.Tuple, each func(schema.Type) (*jen.Statement, error)) ([]jen.Code, error) {
	if len(t.Elems) < 2 || len(t.Elems) > MaxGoTuple {
		return nil, unsupported(TargetGo, fmt.Sprintf("%s has %d elements; Go tuples hold 2 to %d", t, len(t.Elems), MaxGoTuple))
	}
	out := make([]jen.Code, len(t.Elems))
	for i, e := range t.Elems {
		c, err := each(e)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (g *Go) def(id schema.TypeID, name string) (*schema.TypeDef, error) {
	d := g.schema.Type(id)
	if d == nil {
		return nil, errors.UnresolvedType("", name)
	}
	return d, nil
}

func tupleName(t schema.Tuple) string {
	return "Tuple" + strconv.Itoa(len(t.Elems))
}

// primitiveCodec returns the suffix of the wire package's Write/Read
// function for a primitive type.
func primitiveCodec(t schema.Type) (string, error) {
	switch t := t.(type) {
	case schema.Bool:
		return "Bool", nil
	case schema.Integer:
		if t.Signed {
			return "S" + strconv.Itoa(t.Width), nil
		}
		return "U" + strconv.Itoa(t.Width), nil
	case schema.Float:
		return "F" + strconv.Itoa(t.Width), nil
	case schema.Char:
		return "Char", nil
	case schema.String:
		return "String", nil
	case schema.Bytes:
		return "Bytes", nil
	}
	return "", unsupported(TargetGo, fmt.Sprintf("type %T", t))
}
