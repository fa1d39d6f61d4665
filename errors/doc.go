// Package errors provides structured error types for the bindgen module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending type or function name, field path,
// target name and cause chain.
//
// Decoding and casting report the runtime taxonomy:
//
//	errors.TruncatedInput(path, need, have)
//	errors.InvalidTag(path, tag, cases)
//	errors.RangeViolation(path, value, "u32")
//
// Match them regardless of phase with the sentinels:
//
//	if errors.Is(err, bgerrors.ErrTruncatedInput) { ... }
//
// Code generation accumulates problems into a GenerationError so that a
// single run reports every undeclared cast, cycle, collision and reserved
// word at once. Use the Builder for anything else:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("user", "age").
//		SchemaType("u32").
//		Detail("cannot convert string to integer").
//		Build()
package errors
