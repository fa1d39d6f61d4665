package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	bgerrors "github.com/wippyai/bindgen/errors"
	"go.bytecodealliance.org/wit"
)

func TestParseType(t *testing.T) {
	b := NewBuilder("ns")
	point := b.Struct("point")
	file := b.Resource("file")
	resolve := func(name string) (Named, bool) {
		switch name {
		case "point":
			return point, true
		case "file":
			return file, true
		}
		return Named{}, false
	}

	tests := []struct {
		expr string
		want Type
	}{
		{"u32", U32},
		{"s128", S128},
		{"bytes", Bytes{}},
		{"string", String{}},
		{"char", Char{}},
		{"f64", F64},
		{"list<option<point>>", List{Elem: Option{Elem: point}}},
		{"result", Result{}},
		{"result<u8>", Result{Ok: U8}},
		{"result<_, string>", Result{Err: String{}}},
		{"result<point, string>", Result{Ok: point, Err: String{}}},
		{"tuple<u32, s64, bool>", Tuple{Elems: []Type{U32, S64, Bool{}}}},
		{"handle<file>", HandleOf(file, false)},
		{"handle<file, clone>", HandleOf(file, true)},
		{"borrow<file>", HandleOf(file, true)},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseType(tt.expr, resolve)
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("ParseType = %v, want %v", got, tt.want)
			}
			if _, ok := got.(Named); !ok && got.String() != tt.want.String() {
				t.Errorf("String = %q, want %q", got.String(), tt.want.String())
			}
		})
	}

	for _, bad := range []string{"list<>", "option<u8", "list<u8, u16>", "nope", "tuple<_>", "u32 u32"} {
		if _, err := ParseType(bad, resolve); err == nil {
			t.Errorf("ParseType(%q) should fail", bad)
		}
	}
}

const greetYAML = `
namespace: greet
types:
  - name: tree
    variant:
      - {name: leaf, type: u64}
      - {name: node, type: "list<tree>"}
  - name: mood
    enum: [happy, sad]
  - name: perms
    flags: [read, write]
  - name: empty
    kind: struct
  - name: counter
    resource: true
casts:
  - name: sizes
    members: [u32, u64]
functions:
  - name: hello
    params:
      - {name: who, type: string}
    result: string
  - name: depth
    params:
      - {name: t, type: tree}
      - {name: limit, type: u32, as: u64}
    result: "option<mood>"
    binding: direct
  - name: poke
    params:
      - {name: c, type: "handle<counter>"}
    binding: direct
    delivery: fire-and-forget
`

func TestDecodeYAML(t *testing.T) {
	s, err := DecodeYAML([]byte(greetYAML))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if s.Namespace != "greet" {
		t.Errorf("Namespace = %q", s.Namespace)
	}
	tree, ok := s.Lookup("tree")
	if !ok {
		t.Fatal("tree not defined")
	}
	v := tree.Kind.(*Variant)
	if n := v.Cases[1].Type.(List).Elem.(Named); n.ID != tree.ID {
		t.Errorf("recursive reference = %v", n)
	}
	if d, _ := s.Lookup("empty"); len(d.Kind.(*Struct).Fields) != 0 {
		t.Error("empty struct should have no fields")
	}
	if d, _ := s.Lookup("perms"); d.Kind.(*Flags).Repr() != U8 {
		t.Error("two flags should be carried by u8")
	}

	depth, ok := s.Function("greet", "depth")
	if !ok {
		t.Fatal("depth not found")
	}
	if depth.Binding != Direct || depth.Command() != "greet/depth" {
		t.Errorf("depth binding = %v command = %q", depth.Binding, depth.Command())
	}
	if depth.Params[1].As == nil || *depth.Params[1].As != U64 {
		t.Errorf("limit cast = %v", depth.Params[1].As)
	}
	poke, _ := s.Function("greet", "poke")
	if poke.Delivery != FireAndForget {
		t.Errorf("poke delivery = %v", poke.Delivery)
	}
	if h, ok := poke.Params[0].Type.(Handle); !ok || h.Name != "counter" {
		t.Errorf("poke param = %v", poke.Params[0].Type)
	}
	if p := Validate(s); !p.Empty() {
		t.Errorf("Validate: %v", p)
	}
}

func TestDecodeJSON(t *testing.T) {
	doc := `{
		"namespace": "calc",
		"types": [{"name": "pair", "struct": [{"name": "a", "type": "s32"}, {"name": "b", "type": "s32"}]}],
		"functions": [{"name": "add", "params": [{"name": "p", "type": "pair"}], "result": "s64"}]
	}`
	s, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	f, ok := s.Function("calc", "add")
	if !ok || f.Result != S64 {
		t.Fatalf("add = %+v", f)
	}
}

func TestDecodeYAML_Unresolved(t *testing.T) {
	doc := `
namespace: ns
types:
  - name: point
    struct: [{name: x, type: u32}]
functions:
  - name: f
    params: [{name: p, type: pont}]
`
	_, err := DecodeYAML([]byte(doc))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, &bgerrors.Error{Kind: bgerrors.KindUnresolvedType}) {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "did you mean `point`") {
		t.Errorf("err should suggest point: %v", err)
	}
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greet.yaml")
	if err := os.WriteFile(path, []byte(greetYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(s.Functions()) != 3 {
		t.Errorf("functions = %d, want 3", len(s.Functions()))
	}
	if _, err := LoadDocument(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestWITImporter(t *testing.T) {
	name := func(s string) *string { return &s }

	point := &wit.TypeDef{
		Name: name("point"),
		Kind: &wit.Record{Fields: []wit.Field{
			{Name: "x", Type: wit.S32{}},
			{Name: "y", Type: wit.S32{}},
		}},
	}
	color := &wit.TypeDef{
		Name: name("color"),
		Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "red"}, {Name: "green"}}},
	}
	blob := &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	points := &wit.TypeDef{Kind: &wit.List{Type: point}}
	maybe := &wit.TypeDef{Kind: &wit.Option{Type: color}}
	res := &wit.TypeDef{Kind: &wit.Result{OK: points, Err: wit.String{}}}

	b := NewBuilder("draw")
	im := NewWITImporter(b)
	if _, err := im.Function("plot", []WITParam{
		{Name: "pts", Type: points},
		{Name: "data", Type: blob},
		{Name: "tint", Type: maybe},
	}, res, Direct); err != nil {
		t.Fatalf("Function: %v", err)
	}

	// importing the same definition again must not register it twice
	again, err := im.Type(point)
	if err != nil {
		t.Fatal(err)
	}

	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Types()) != 2 {
		t.Fatalf("types = %d, want 2 (point, color)", len(s.Types()))
	}
	pd, _ := s.Lookup("point")
	if again.(Named).ID != pd.ID {
		t.Error("re-import returned a different id")
	}

	f, _ := s.Function("draw", "plot")
	if _, ok := f.Params[1].Type.(Bytes); !ok {
		t.Errorf("list<u8> imported as %v, want bytes", f.Params[1].Type)
	}
	if f.Params[2].Type.String() != "option<color>" {
		t.Errorf("tint = %v", f.Params[2].Type)
	}
	if f.Result.String() != "result<list<point>, string>" {
		t.Errorf("result = %v", f.Result)
	}
}
