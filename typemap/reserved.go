package typemap

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
)

// goStubLocals are identifiers generated Go stubs declare or import
// themselves; a parameter with one of these names would shadow them.
var goStubLocals = setOf(
	"c", "ctx", "w", "r", "err", "args", "payload", "resp", "out", "v",
	"wire", "context", "transport",
)

// IsGoReserved reports keywords, predeclared identifiers and stub locals.
func IsGoReserved(ident string) bool {
	return jen.IsReservedWord(ident) || goStubLocals[ident]
}

var tsReserved = setOf(
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "enum", "export", "extends", "false",
	"finally", "for", "function", "if", "import", "in", "instanceof", "new",
	"null", "return", "super", "switch", "this", "throw", "true", "try",
	"typeof", "var", "void", "while", "with", "as", "implements",
	"interface", "let", "package", "private", "protected", "public",
	"static", "yield", "any", "boolean", "constructor", "declare", "get",
	"module", "require", "number", "set", "string", "symbol", "type",
	"from", "of", "await", "async", "bigint", "undefined", "unknown",
	"never", "object", "arguments", "eval",

	// stub locals and prelude names
	"transport", "out", "de", "args", "payload", "response", "result",
	"Result", "Option", "Serializer", "Deserializer", "WireError",
)

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// tsRoutinePrefixes start the names of prelude helpers and per-type
// routines ("serU32", "deserializePoint", "castBigInt").
var tsRoutinePrefixes = []string{"ser", "de", "serialize", "deserialize", "clone", "cast"}

// IsTSReserved reports JavaScript/TypeScript reserved words, stub locals
// and names of the form of prelude helpers and generated routines.
func IsTSReserved(ident string) bool {
	if tsReserved[ident] {
		return true
	}
	for _, p := range tsRoutinePrefixes {
		rest, ok := strings.CutPrefix(ident, p)
		if !ok || rest == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
