// Package types defines the compiled codec plans used by the transcoder.
//
// A Plan is built once per schema type and cached, so encoding and decoding
// never walk the schema's definition tables.
//
// This package is internal to the transcoder.
package types
