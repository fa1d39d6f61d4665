package typemap

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"

	bgerrors "github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
)

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func render(c jen.Code) string {
	return compact(fmt.Sprintf("%#v", c))
}

type fixture struct {
	s                        *schema.Schema
	point, num, tree, color  schema.Named
	size, ring, a, b, handle schema.Named
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	bld := schema.NewBuilder("demo")
	f.point = bld.Struct("point",
		schema.Field{Name: "x", Type: schema.S32},
		schema.Field{Name: "y", Type: schema.S32},
	)
	f.num = bld.Variant("num", schema.Case{Name: "none"}, schema.Case{Name: "some", Type: schema.U64})
	f.tree = bld.Declare("tree")
	bld.Define(f.tree, &schema.Variant{Cases: []schema.Case{
		{Name: "leaf"},
		{Name: "node", Type: schema.List{Elem: f.tree}},
	}})
	f.color = bld.Enum("color", "red", "dark-blue")
	f.size = bld.Alias("size", schema.U64)
	f.ring = bld.Declare("ring")
	bld.Define(f.ring, &schema.Alias{Target: schema.List{Elem: f.ring}})
	f.a = bld.Declare("a")
	f.b = bld.Declare("b")
	bld.Define(f.a, &schema.Struct{Fields: []schema.Field{{Name: "next", Type: f.b}}})
	bld.Define(f.b, &schema.Struct{Fields: []schema.Field{{Name: "back", Type: schema.Option{Elem: f.a}}}})
	f.handle = bld.Resource("file")
	s, err := bld.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f.s = s
	return f
}

func TestNaming(t *testing.T) {
	tests := []struct {
		in                           string
		upper, lower, goExp, goUnexp string
	}{
		{"foo-bar", "FooBar", "fooBar", "FooBar", "fooBar"},
		{"user_id", "UserId", "userId", "UserID", "userID"},
		{"HTTPServer", "HttpServer", "httpServer", "HTTPServer", "httpServer"},
		{"u8-list", "U8List", "u8List", "U8List", "u8List"},
		{"id", "Id", "id", "ID", "id"},
		{"getURL", "GetUrl", "getUrl", "GetURL", "getURL"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := UpperCamel(tt.in); got != tt.upper {
				t.Errorf("UpperCamel = %q, want %q", got, tt.upper)
			}
			if got := LowerCamel(tt.in); got != tt.lower {
				t.Errorf("LowerCamel = %q, want %q", got, tt.lower)
			}
			if got := GoExported(tt.in); got != tt.goExp {
				t.Errorf("GoExported = %q, want %q", got, tt.goExp)
			}
			if got := GoUnexported(tt.in); got != tt.goUnexp {
				t.Errorf("GoUnexported = %q, want %q", got, tt.goUnexp)
			}
		})
	}

	if got := Kebab("fooBar_baz"); got != "foo-bar-baz" {
		t.Errorf("Kebab = %q", got)
	}
	if ValidIdent("9lives") || !ValidIdent("_x9") || ValidIdent("") {
		t.Error("ValidIdent misclassified")
	}
}

func TestReserved(t *testing.T) {
	for _, w := range []string{"type", "func", "string", "len", "ctx", "wire", "c"} {
		if !IsGoReserved(w) {
			t.Errorf("IsGoReserved(%q) = false", w)
		}
	}
	if IsGoReserved("shape") {
		t.Error("shape is not reserved in Go")
	}
	for _, w := range []string{"delete", "function", "transport", "Result", "serU32", "deserializePoint", "castBigInt"} {
		if !IsTSReserved(w) {
			t.Errorf("IsTSReserved(%q) = false", w)
		}
	}
	for _, w := range []string{"design", "serial", "cast", "shape"} {
		if IsTSReserved(w) {
			t.Errorf("IsTSReserved(%q) = true", w)
		}
	}
}

func TestRegistry(t *testing.T) {
	fx := newFixture(t)
	if got := Targets(); !reflect.DeepEqual(got, []string{"go", "markdown", "typescript"}) {
		t.Errorf("Targets = %v", got)
	}
	m, err := New("go", fx.s)
	if err != nil || m.Target() != TargetGo {
		t.Fatalf("New(go) = %v, %v", m, err)
	}
	_, err = New("typescipt", fx.s)
	if !errors.Is(err, &bgerrors.Error{Kind: bgerrors.KindNotFound}) {
		t.Fatalf("unknown target: err = %v", err)
	}
	if !strings.Contains(err.Error(), "`typescript`") {
		t.Errorf("expected a suggestion, got %v", err)
	}
}

func TestGoType(t *testing.T) {
	fx := newFixture(t)
	g := NewGo(fx.s)

	tests := []struct {
		typ  schema.Type
		want string
	}{
		{schema.Bool{}, "bool"},
		{schema.S16, "int16"},
		{schema.U128, "wire.Uint128"},
		{schema.Char{}, "rune"},
		{schema.Bytes{}, "[]byte"},
		{schema.List{Elem: schema.U8}, "[]uint8"},
		{schema.Option{Elem: schema.Option{Elem: schema.U64}}, "**uint64"},
		{schema.Result{Ok: schema.U64}, "wire.Result[uint64,wire.Unit]"},
		{schema.Tuple{Elems: []schema.Type{schema.U8, schema.String{}}}, "wire.Tuple2[uint8,string]"},
		{fx.point, "Point"},
		{fx.size, "Size"},
		{schema.HandleOf(fx.handle, false), "File"},
	}
	for _, tt := range tests {
		got, err := g.Type(tt.typ)
		if err != nil {
			t.Errorf("Type(%s): %v", tt.typ, err)
			continue
		}
		if s := render(got); s != tt.want {
			t.Errorf("Type(%s) = %s, want %s", tt.typ, s, tt.want)
		}
	}

	wide := schema.Tuple{Elems: make([]schema.Type, MaxGoTuple+1)}
	for i := range wide.Elems {
		wide.Elems[i] = schema.U8
	}
	if _, err := g.Type(wide); !errors.Is(err, &bgerrors.Error{Kind: bgerrors.KindUnsupported}) {
		t.Errorf("9-tuple: err = %v", err)
	}
}

func TestGoCodecs(t *testing.T) {
	fx := newFixture(t)
	g := NewGo(fx.s)

	tests := []struct {
		typ         schema.Type
		write, read string
	}{
		{schema.U64, "wire.WriteU64", "wire.ReadU64"},
		{fx.size, "wire.WriteU64", "wire.ReadU64"},
		{fx.point, "WritePoint", "ReadPoint"},
		{schema.List{Elem: fx.point}, "wire.ListWriter(WritePoint)", "wire.ListReader(ReadPoint)"},
		{schema.Option{Elem: schema.String{}}, "wire.OptionWriter(wire.WriteString)", "wire.OptionReader(wire.ReadString)"},
		{
			schema.Result{Ok: schema.U64},
			"wire.ResultWriter[uint64,wire.Unit](wire.WriteU64,nil)",
			"wire.ResultReader[uint64,wire.Unit](wire.ReadU64,nil)",
		},
		{
			schema.Tuple{Elems: []schema.Type{schema.Bool{}, schema.S8}},
			"wire.Tuple2Writer(wire.WriteBool,wire.WriteS8)",
			"wire.Tuple2Reader(wire.ReadBool,wire.ReadS8)",
		},
		{schema.HandleOf(fx.handle, true), "WriteFile", "ReadFile"},
	}
	for _, tt := range tests {
		w, err := g.Writer(tt.typ)
		if err != nil {
			t.Fatalf("Writer(%s): %v", tt.typ, err)
		}
		if s := render(w); s != tt.write {
			t.Errorf("Writer(%s) = %s, want %s", tt.typ, s, tt.write)
		}
		r, err := g.Reader(tt.typ)
		if err != nil {
			t.Fatalf("Reader(%s): %v", tt.typ, err)
		}
		if s := render(r); s != tt.read {
			t.Errorf("Reader(%s) = %s, want %s", tt.typ, s, tt.read)
		}
	}
}

func TestDeclared(t *testing.T) {
	fx := newFixture(t)
	g := NewGo(fx.s)
	color := fx.s.Type(fx.color.ID)
	want := []string{"Color", "WriteColor", "ReadColor", "ColorRed", "ColorDarkBlue", "ParseColor"}
	if got := g.Declared(color); !reflect.DeepEqual(got, want) {
		t.Errorf("Go Declared(color) = %v", got)
	}
	// a folded variant declares no case types
	if got := g.Declared(fx.s.Type(fx.num.ID)); len(got) != 3 {
		t.Errorf("Go Declared(num) = %v", got)
	}
	if got := g.Declared(fx.s.Type(fx.tree.ID)); !reflect.DeepEqual(got[3:], []string{"TreeLeaf", "TreeNode"}) {
		t.Errorf("Go Declared(tree) = %v", got)
	}

	ts := NewTypeScript(fx.s)
	if got := ts.Declared(color); !reflect.DeepEqual(got, []string{"Color", "serializeColor", "deserializeColor", "ColorOrdinals", "ColorNames"}) {
		t.Errorf("TS Declared(color) = %v", got)
	}
}

func TestFold(t *testing.T) {
	fx := newFixture(t)
	folded, ok := Fold(fx.s, fx.s.Type(fx.num.ID))
	if !ok || !schema.Equal(folded, schema.Option{Elem: schema.U64}) {
		t.Errorf("Fold(num) = %v, %v", folded, ok)
	}
	if _, ok := Fold(fx.s, fx.s.Type(fx.tree.ID)); ok {
		t.Error("non-sugar variant must not fold")
	}
	if _, ok := Fold(fx.s, fx.s.Type(fx.point.ID)); ok {
		t.Error("struct must not fold")
	}
	if !InCycle(fx.s, fx.tree.ID) || !InCycle(fx.s, fx.a.ID) || InCycle(fx.s, fx.point.ID) {
		t.Error("InCycle misclassified")
	}
}

func TestRefsGuarded(t *testing.T) {
	fx := newFixture(t)
	g := NewGo(fx.s)
	ts := NewTypeScript(fx.s)

	aRefs := Refs(fx.s.Type(fx.a.ID))
	if len(aRefs) != 1 || aRefs[0].To != fx.b.ID || aRefs[0].Guarded(g) {
		t.Errorf("a -> b should be an unguarded field reference: %+v", aRefs)
	}
	bRefs := Refs(fx.s.Type(fx.b.ID))
	if len(bRefs) != 1 || !reflect.DeepEqual(bRefs[0].Via, []Container{InField, InOption}) || !bRefs[0].Guarded(g) {
		t.Errorf("b -> a should be guarded by the option: %+v", bRefs)
	}

	treeRefs := Refs(fx.s.Type(fx.tree.ID))
	if len(treeRefs) != 1 || !treeRefs[0].Guarded(g) {
		t.Errorf("tree -> tree should be guarded: %+v", treeRefs)
	}

	ringRefs := Refs(fx.s.Type(fx.ring.ID))
	if len(ringRefs) != 1 || ringRefs[0].Guarded(g) {
		t.Errorf("a Go alias cycle is never guarded: %+v", ringRefs)
	}
	if !ringRefs[0].Guarded(ts) {
		t.Error("TypeScript aliases may recurse through arrays")
	}
}

func TestCasts(t *testing.T) {
	tests := []struct {
		from, to schema.Integer
		goWant   string
		fallible bool
	}{
		{schema.U8, schema.U8, "x", false},
		{schema.U8, schema.U32, "uint32(x)", false},
		{schema.U32, schema.S64, "int64(x)", false},
		{schema.U64, schema.U32, `wire.Narrow[uint32](x,"u32")`, true},
		{schema.S32, schema.U32, `wire.Narrow[uint32](x,"u32")`, true},
		{schema.U64, schema.U128, "wire.WidenU128(x)", false},
		{schema.S32, schema.S128, "wire.WidenI128(x)", false},
		{schema.S32, schema.U128, `wire.ToU128(x,"u128")`, true},
		{schema.U128, schema.U8, `wire.NarrowU128[uint8](x,"u8")`, true},
		{schema.S128, schema.S64, `wire.NarrowI128[int64](x,"s64")`, true},
		{schema.U128, schema.S128, `wire.U128ToI128(x,"s128")`, true},
	}
	for _, tt := range tests {
		c := Cast{From: tt.from, To: tt.to, Rule: schema.Conversion(tt.from, tt.to)}
		if c.Fallible() != tt.fallible {
			t.Errorf("%s -> %s: Fallible = %v", tt.from, tt.to, c.Fallible())
		}
		if got := render(GoCast(c, jen.Id("x"))); got != tt.goWant {
			t.Errorf("%s -> %s: GoCast = %s, want %s", tt.from, tt.to, got, tt.goWant)
		}
	}

	narrow := Cast{From: schema.U64, To: schema.U32, Rule: schema.Narrow}
	code, helper := TSCast(narrow, "x")
	if code != `Number(castBigInt(x, "0", "4294967295", "u32"))` || helper != "castBigInt" {
		t.Errorf("TSCast = %s, %s", code, helper)
	}
	widen := Cast{From: schema.U32, To: schema.U64, Rule: schema.Widen}
	if code, helper := TSCast(widen, "x"); code != "BigInt(x)" || helper != "" {
		t.Errorf("TSCast widen = %s, %s", code, helper)
	}
}

func TestParamCast(t *testing.T) {
	bld := schema.NewBuilder("demo")
	bld.CastGroup("ints", schema.U32, schema.U64)
	as := schema.U64
	bld.Function(&schema.Function{
		Name:     "f",
		Params:   []schema.Param{{Name: "n", Type: schema.U32, As: &as}},
		Result:   schema.U32,
		ResultAs: &as,
	})
	s, err := bld.Build()
	if err != nil {
		t.Fatal(err)
	}
	f := s.Functions()[0]
	pc, ok := ParamCast(s, f.Params[0])
	if !ok || pc.Rule != schema.Narrow || pc.From != schema.U64 || pc.To != schema.U32 {
		t.Errorf("ParamCast = %+v, %v", pc, ok)
	}
	rc, ok := ResultCast(s, f)
	if !ok || rc.Rule != schema.Widen {
		t.Errorf("ResultCast = %+v, %v", rc, ok)
	}
}

func TestTypeScript(t *testing.T) {
	fx := newFixture(t)
	ts := NewTypeScript(fx.s)

	tests := []struct {
		typ  schema.Type
		want string
	}{
		{schema.U32, "number"},
		{schema.S64, "bigint"},
		{schema.Option{Elem: schema.U64}, "bigint | null"},
		{schema.Option{Elem: schema.Option{Elem: schema.U8}}, "Option<number | null>"},
		{schema.Option{Elem: fx.num}, "Option<Num>"},
		{schema.List{Elem: schema.Option{Elem: schema.U8}}, "(number | null)[]"},
		{schema.Result{Ok: schema.U64}, "Result<bigint, void>"},
		{schema.Tuple{Elems: []schema.Type{schema.String{}, schema.Bytes{}}}, "[string, Uint8Array]"},
		{schema.HandleOf(fx.handle, false), "File"},
	}
	for _, tt := range tests {
		got, err := ts.Expr(tt.typ)
		if err != nil || got != tt.want {
			t.Errorf("Expr(%s) = %q, %v; want %q", tt.typ, got, err, tt.want)
		}
	}

	used := make(map[string]bool)
	ser, err := ts.Serializer(schema.List{Elem: schema.Option{Elem: fx.point}}, used)
	if err != nil || ser != "serList(serOption(serializePoint))" {
		t.Errorf("Serializer = %q, %v", ser, err)
	}
	if !used["serList"] || !used["serOption"] || len(used) != 2 {
		t.Errorf("used = %v", used)
	}
	de, err := ts.Deserializer(schema.Result{Err: fx.size}, used)
	if err != nil || de != "deResult(deUnit, deU64)" {
		t.Errorf("Deserializer = %q, %v", de, err)
	}
	nested, _ := ts.Serializer(schema.Option{Elem: schema.Option{Elem: schema.U8}}, nil)
	if nested != "serOptionTagged(serOption(serU8))" {
		t.Errorf("nested option serializer = %q", nested)
	}
}

func TestMarkdown(t *testing.T) {
	fx := newFixture(t)
	md := NewMarkdown(fx.s)
	got, err := md.Expr(schema.List{Elem: schema.Result{Ok: fx.point}})
	if err != nil || got != "list<result<[point](#type-point)>>" {
		t.Errorf("Expr = %q, %v", got, err)
	}
	got, _ = md.Expr(schema.HandleOf(fx.handle, true))
	if got != "handle<[file](#type-file), clone>" {
		t.Errorf("handle = %q", got)
	}
}

func TestUnsupportedDetailVerbatim(t *testing.T) {
	err := unsupported(TargetGo, "type 100%s wide")
	if !errors.Is(err, &bgerrors.Error{Kind: bgerrors.KindUnsupported}) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "type 100%s wide") {
		t.Errorf("detail was reformatted: %v", err)
	}
}
