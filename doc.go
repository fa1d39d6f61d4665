// Package bindgen generates typed client bindings from a language-neutral
// schema of functions and types.
//
// A schema declares named types (structs, variants, enums, flags, aliases,
// resources) and functions grouped in namespaces. From it bindgen emits,
// per target language, type declarations and a client whose stubs encode
// their arguments in the compact binary wire format, hand the bytes to a
// transport and decode the response.
//
// # Architecture Overview
//
//	bindgen/             LoadSchema, Generate, WriteFiles
//	├── schema/          Type and function model, builder, documents, WIT import
//	├── wire/            Binary codec shared by every target (runtime of generated Go code)
//	├── transcoder/      Schema-driven encoding of dynamic Go values
//	├── typemap/         Per-target naming and type mapping
//	├── codegen/         Validation, emission order and the target registry
//	│   ├── golang/      Go emitter
//	│   ├── typescript/  TypeScript emitter
//	│   └── markdown/    Documentation emitter
//	├── transport/       Invoker and Endpoint implementations and the host side
//	├── resource/        Host table for resource handles
//	└── errors/          Structured error types
//
// # Quick Start
//
// Generate a Go client from a schema document:
//
//	s, err := bindgen.LoadSchema("greet.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	files, err := bindgen.Generate(s, []string{"go", "typescript"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := bindgen.WriteFiles("gen", files); err != nil {
//	    log.Fatal(err)
//	}
//
// The generated Go client takes a transport.Invoker for structured
// functions and a transport.Endpoint for direct ones:
//
//	client := greet.NewClient(transport.NewJSONRPCInvoker(url), transport.NewHTTPEndpoint(base))
//	msg, err := client.Hello(ctx, "World")
//
// # Bindings
//
// A structured function sends each argument as its own encoded value,
// keyed by parameter name, under the command "namespace|function". A
// direct function concatenates the encoded arguments into one payload
// sent to the path "namespace/function". Direct functions may be
// fire-and-forget: the stub returns once the transport accepted the bytes
// and no response is read.
//
// # Wire Format
//
// Integers are LEB128 varints (zigzag for signed), floats little-endian
// IEEE 754, strings and lists length-prefixed, variants a varint case tag
// followed by the payload. Decoding is strict: non-canonical varints,
// unknown tags and trailing bytes are errors.
//
// # Thread Safety
//
// Schemas are immutable once built and generation is sequential. The wire
// Writer and Reader are single-use and not shared. Transports and the
// resource Table are safe for concurrent use.
package bindgen
