// Package schema is the in-memory interface definition consumed by the code
// emitters and the dynamic codec.
//
// A Schema holds named type definitions (structs, variants, enums, flags,
// aliases and resources), function signatures and cast groups. Types are
// referenced structurally through the closed Type set; named definitions are
// referenced by TypeID so identity, not structure, decides deduplication.
//
// Schemas are immutable once built. Three sources produce them:
//
//	b := schema.NewBuilder("greet")
//	point := b.Struct("point", schema.Field{Name: "x", Type: schema.S32})
//	b.Function(&schema.Function{Name: "move", Params: []schema.Param{{Name: "p", Type: point}}})
//	s, err := b.Build()
//
//	s, err := schema.LoadDocument("greet.yaml")
//
//	im := schema.NewWITImporter(b) // go.bytecodealliance.org/wit type trees
//
// Validate applies the target-independent generation rules; target
// specific rules live in the typemap and codegen packages.
package schema
