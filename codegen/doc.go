// Package codegen turns a schema into client bindings for a target
// language.
//
// Generation is all-or-nothing. Check runs the target-independent schema
// rules and the target's own rules (identifier validity, reserved words,
// collisions after name conversion, cycles without indirection, types the
// target cannot render) and reports every problem in one
// *errors.GenerationError. Only a schema that passes is handed to the
// emitter.
//
// Emitters live in subpackages and register themselves by target name:
//
//	import (
//		"github.com/wippyai/bindgen/codegen"
//		_ "github.com/wippyai/bindgen/codegen/golang"
//	)
//
//	files, err := codegen.Generate(s, "go", codegen.WithPackage("shop"))
//
// Emitters receive a Plan: the definitions reachable from the schema's
// functions, grouped by Order into strongly connected units with
// dependencies first. Members of a recursive unit get standalone named
// codec routines that call each other.
package codegen
