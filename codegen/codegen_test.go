package codegen

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

func names(defs []*schema.TypeDef) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}
	return out
}

func graphSchema(t *testing.T) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder("geo")
	point := b.Struct("point",
		schema.Field{Name: "x", Type: schema.S32},
		schema.Field{Name: "y", Type: schema.S32},
	)
	line := b.Struct("line",
		schema.Field{Name: "from", Type: point},
		schema.Field{Name: "to", Type: point},
	)
	tree := b.Declare("tree")
	b.Define(tree, &schema.Variant{Cases: []schema.Case{
		{Name: "leaf", Type: point},
		{Name: "node", Type: schema.List{Elem: tree}},
	}})
	a := b.Declare("a")
	bb := b.Declare("b")
	b.Define(a, &schema.Struct{Fields: []schema.Field{{Name: "next", Type: schema.Option{Elem: bb}}}})
	b.Define(bb, &schema.Struct{Fields: []schema.Field{{Name: "back", Type: schema.List{Elem: a}}}})
	b.Struct("unused", schema.Field{Name: "n", Type: schema.U8})
	b.Function(&schema.Function{
		Name: "walk",
		Params: []schema.Param{
			{Name: "tree", Type: tree},
			{Name: "start", Type: a},
		},
		Result: line,
	})
	s, err := b.Build()
	require.NoError(t, err)
	return s
}

func TestOrder(t *testing.T) {
	s := graphSchema(t)
	units := Order(s)

	var got [][]string
	var recursive []bool
	for _, u := range units {
		got = append(got, names(u.Defs))
		recursive = append(recursive, u.Recursive)
	}
	require.Equal(t, [][]string{{"point"}, {"line"}, {"tree"}, {"a", "b"}}, got)
	require.Equal(t, []bool{false, false, true, true}, recursive)
	require.Equal(t, []string{"point", "line", "tree", "a", "b"}, names(Flatten(units)))
}

func TestOrder_DependenciesFirst(t *testing.T) {
	b := schema.NewBuilder("ns")
	outer := b.Declare("outer")
	inner := b.Struct("inner", schema.Field{Name: "v", Type: schema.U8})
	b.Define(outer, &schema.Struct{Fields: []schema.Field{{Name: "in", Type: inner}}})
	b.Function(&schema.Function{Name: "f", Params: []schema.Param{{Name: "o", Type: outer}}})
	s, err := b.Build()
	require.NoError(t, err)

	require.Equal(t, []string{"inner", "outer"}, names(Flatten(Order(s))))
}

func check(t *testing.T, s *schema.Schema, target string) *errors.GenerationError {
	t.Helper()
	m, err := typemap.New(target, s)
	require.NoError(t, err)
	return Check(s, m)
}

func kinds(g *errors.GenerationError) []errors.Kind {
	var out []errors.Kind
	for _, p := range g.Problems {
		out = append(out, p.Kind)
	}
	return out
}

func TestCheck_Valid(t *testing.T) {
	s := graphSchema(t)
	for _, target := range []string{typemap.TargetGo, typemap.TargetTypeScript, typemap.TargetMarkdown} {
		problems := check(t, s, target)
		require.True(t, problems.Empty(), "%s: %v", target, problems)
	}
}

func TestCheck_UnguardedCycle(t *testing.T) {
	b := schema.NewBuilder("ns")
	a := b.Declare("a")
	bb := b.Declare("b")
	b.Define(a, &schema.Struct{Fields: []schema.Field{{Name: "b", Type: bb}}})
	b.Define(bb, &schema.Struct{Fields: []schema.Field{{Name: "a", Type: schema.Tuple{Elems: []schema.Type{a, schema.U8}}}}})
	ring := b.Declare("ring")
	b.Define(ring, &schema.Alias{Target: schema.List{Elem: ring}})
	b.Function(&schema.Function{Name: "f", Params: []schema.Param{
		{Name: "x", Type: a},
		{Name: "y", Type: ring},
	}})
	s, err := b.Build()
	require.NoError(t, err)

	problems := check(t, s, typemap.TargetGo)
	require.Equal(t, []errors.Kind{errors.KindTypeCycle, errors.KindTypeCycle}, kinds(problems))
	require.Equal(t, "a", problems.Problems[0].Subject)
	require.Contains(t, problems.Problems[0].Detail, "a -> b -> a")
	require.Equal(t, "ring", problems.Problems[1].Subject)
	require.True(t, stderrors.Is(problems, &errors.Error{Kind: errors.KindTypeCycle}))

	require.True(t, check(t, s, typemap.TargetTypeScript).Empty())
}

func TestCheck_Collisions(t *testing.T) {
	b := schema.NewBuilder("ns")
	dashed := b.Struct("user-id", schema.Field{Name: "v", Type: schema.U8})
	snake := b.Struct("user_id", schema.Field{Name: "v", Type: schema.U8})
	rec := b.Struct("rec",
		schema.Field{Name: "first-name", Type: schema.String{}},
		schema.Field{Name: "first_name", Type: schema.String{}},
	)
	b.Function(&schema.Function{Name: "get-user", Params: []schema.Param{
		{Name: "first", Type: dashed},
		{Name: "second", Type: snake},
		{Name: "record", Type: rec},
	}})
	b.Function(&schema.Function{Name: "get_user"})
	s, err := b.Build()
	require.NoError(t, err)

	problems := check(t, s, typemap.TargetGo)
	var details []string
	for _, p := range problems.Problems {
		require.Equal(t, errors.KindNameCollision, p.Kind)
		details = append(details, p.Subject+": "+p.Detail)
	}
	joined := strings.Join(details, "\n")
	require.Contains(t, joined, `user_id: identifier "UserID" is also declared by user-id`)
	require.Contains(t, joined, `rec: identifier "FirstName" is also declared by field first-name`)
	require.Contains(t, joined, `ns.get_user: identifier "GetUser" is also declared by ns.get-user`)
}

func TestCheck_ReservedAndInvalid(t *testing.T) {
	b := schema.NewBuilder("ns")
	b.Function(&schema.Function{Name: "f", Params: []schema.Param{
		{Name: "type", Type: schema.U8},
		{Name: "ctx", Type: schema.U8},
		{Name: "3d", Type: schema.U8},
	}})
	s, err := b.Build()
	require.NoError(t, err)

	problems := check(t, s, typemap.TargetGo)
	require.Equal(t, []errors.Kind{errors.KindReservedWord, errors.KindReservedWord, errors.KindInvalidInput}, kinds(problems))
	require.Equal(t, "go", problems.Problems[0].Target)

	// markdown keeps names verbatim
	require.True(t, check(t, s, typemap.TargetMarkdown).Empty())
}

func TestCheck_GoTupleLimit(t *testing.T) {
	elems := make([]schema.Type, 9)
	for i := range elems {
		elems[i] = schema.U8
	}
	b := schema.NewBuilder("ns")
	b.Function(&schema.Function{Name: "f", Params: []schema.Param{{Name: "t", Type: schema.Tuple{Elems: elems}}}})
	s, err := b.Build()
	require.NoError(t, err)

	problems := check(t, s, typemap.TargetGo)
	require.Equal(t, []errors.Kind{errors.KindUnsupported}, kinds(problems))
	require.Equal(t, "ns.f", problems.Problems[0].Subject)
	require.True(t, check(t, s, typemap.TargetTypeScript).Empty())
}

func TestCheck_IncludesSchemaRules(t *testing.T) {
	b := schema.NewBuilder("ns")
	b.Function(&schema.Function{Name: "f", Params: []schema.Param{{Name: "n", Type: schema.U32, As: &schema.U64}}})
	s, err := b.Build()
	require.NoError(t, err)

	problems := check(t, s, typemap.TargetGo)
	require.Equal(t, []errors.Kind{errors.KindUndeclaredCast}, kinds(problems))
}

func TestGenerate_UnknownTarget(t *testing.T) {
	Register("pseudo", EmitterFunc(func(*Plan) (Files, error) { return nil, nil }))
	s := graphSchema(t)

	_, err := Generate(s, "pseudp")
	require.Error(t, err)
	require.Contains(t, err.Error(), "did you mean `pseudo`")
	require.True(t, HasTarget("pseudo"))
}

func TestGenerate_Plan(t *testing.T) {
	typemap.Register("plan", func(s *schema.Schema) typemap.Mapper { return typemap.NewMarkdown(s) })
	var seen *Plan
	Register("plan", EmitterFunc(func(p *Plan) (Files, error) {
		seen = p
		return Files{{Path: p.Options.Name + ".txt", Content: []byte(p.Options.Package)}}, nil
	}))

	s := graphSchema(t)
	files, err := Generate(s, "plan", WithPackage("geometry"))
	require.NoError(t, err)
	require.Equal(t, []string{"geo.txt"}, files.Paths())
	f, ok := files.Get("geo.txt")
	require.True(t, ok)
	require.Equal(t, "geometry", string(f.Content))
	require.False(t, seen.Qualify)
	require.True(t, seen.Recursive(seen.Units[2].Defs[0]))
	require.False(t, seen.Recursive(seen.Units[0].Defs[0]))
}

func TestGenerate_RejectsWithoutOutput(t *testing.T) {
	called := false
	typemap.Register("strict", func(s *schema.Schema) typemap.Mapper { return typemap.NewGo(s) })
	Register("strict", EmitterFunc(func(*Plan) (Files, error) {
		called = true
		return nil, nil
	}))

	b := schema.NewBuilder("ns")
	b.Function(&schema.Function{Name: "f", Params: []schema.Param{{Name: "func", Type: schema.U8}}})
	s, err := b.Build()
	require.NoError(t, err)

	_, err = Generate(s, "strict")
	var gen *errors.GenerationError
	require.ErrorAs(t, err, &gen)
	require.Equal(t, "go", gen.Target)
	require.False(t, called)
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions("My Shop")
	require.Equal(t, "my-shop", o.Name)
	require.Equal(t, "myshop", o.Package)
	require.Equal(t, "My Shop", o.ModuleName)

	o = defaultOptions("")
	require.Equal(t, "bindings", o.Name)
	require.Equal(t, "bindings", o.Package)
}

func TestFiles_Write(t *testing.T) {
	dir := t.TempDir()
	files := Files{
		{Path: "a.go", Content: []byte("package a\n")},
		{Path: "sub/b.md", Content: []byte("# b\n")},
	}
	require.NoError(t, files.Write(dir))

	data, err := os.ReadFile(filepath.Join(dir, "sub", "b.md"))
	require.NoError(t, err)
	require.Equal(t, "# b\n", string(data))
}
