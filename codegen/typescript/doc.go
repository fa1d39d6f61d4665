// Package typescript is the "typescript" emitter. Importing it registers
// the target with codegen.
//
// The generated module is self-contained: it opens with the part of the
// runtime (Serializer, Deserializer, WireError, Transport and the codec
// helpers) its declarations use, followed by one declaration with
// serialize and deserialize routines per schema definition and a
// createClient factory.
package typescript
