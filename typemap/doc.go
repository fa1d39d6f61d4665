// Package typemap resolves schema types to the declarations, codec routines
// and conversions of each output language.
//
// A Mapper is registered per target name ("go", "typescript", "markdown")
// and bound to one schema:
//
//	m, err := typemap.New("go", s)
//	expr, err := m.Expr(schema.Option{Elem: schema.U64}) // "*uint64"
//
// Beyond the Mapper interface the concrete mappers expose what their
// emitters need: Go renders jennifer statements for types, writers and
// readers; TypeScript renders type expressions and codec expressions while
// recording the prelude helpers they use.
//
// # Names
//
// Schema names are split into words (kebab, snake and camel case all
// accepted) and rejoined per target convention. Two schema names may map to
// the same target identifier; codegen reports such collisions before any
// output is written.
//
// # Cycles
//
// Refs lists the references between definitions together with the
// containers they pass through. A target defers some containers (Go:
// slices, pointers and interfaces); a cycle with no deferred container on
// it cannot be declared in that target.
//
// # Casts
//
// A parameter or result may declare the integer type the caller works with.
// Widening conversions are plain; narrowing ones are checked at run time
// and fail with a range_violation error.
package typemap
