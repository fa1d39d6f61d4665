// Package golang is the "go" emitter. Importing it registers the target
// with codegen.
//
// The generated file declares one Go type per schema definition, a pair of
// WriteX and ReadX codec functions for each, and a Client with one method
// per schema function. Clients depend only on the wire and transport
// packages of this module.
package golang
