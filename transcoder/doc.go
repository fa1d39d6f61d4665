// Package transcoder converts dynamic Go values to and from the wire
// encoding, driven by a schema at run time.
//
// Generated Go bindings encode with static code built on package wire. The
// transcoder covers everything that only has a schema: the bindgen CLI's
// -encode and -decode modes, host-side test fakes that answer generated
// clients, and property tests that compare both paths.
//
// # Key Types
//
//	Compiler    - Compiles schema types into cached codec plans
//	Encoder     - Writes dynamic values as wire bytes
//	Decoder     - Reads wire bytes into dynamic values
//	Transcoder  - Encoder and Decoder plus whole-call argument/result helpers
//
// # Example
//
//	tc := transcoder.New(s)
//	f, _ := s.Function("geo", "area")
//	payload, err := tc.EncodeArgs(f, map[string]any{
//		"s": transcoder.Variant{Case: "circle", Value: 2.0},
//	})
//
// Values follow the table in values.go; decoding always yields the
// canonical representation (sized Go integers, map[string]any structs,
// Variant, Optional and Outcome).
//
// # Safety
//
// Nesting is bounded by MaxDepth; lengths are bounded by wire.MaxStringSize
// and wire.MaxListLength. Plans for recursive types are cyclic, so values
// of recursive types are walked with the same bound.
package transcoder
