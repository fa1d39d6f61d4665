package typescript

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// writer builds TypeScript source with two-space indentation.
type writer struct {
	buf    strings.Builder
	indent int
}

// line writes one line at the current indentation.
func (w *writer) line(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if s == "" {
		w.buf.WriteByte('\n')
		return
	}
	w.buf.WriteString(strings.Repeat("  ", w.indent))
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *writer) blank() {
	w.buf.WriteByte('\n')
}

func (w *writer) raw(s string) {
	w.buf.WriteString(s)
}

// block writes the line followed by " {" and indents.
func (w *writer) block(format string, args ...any) {
	w.line("%s {", fmt.Sprintf(format, args...))
	w.indent++
}

// end closes a block, appending suffix after the brace.
func (w *writer) end(suffix string) {
	w.indent--
	w.line("}%s", suffix)
}

func (w *writer) in()  { w.indent++ }
func (w *writer) out() { w.indent-- }

// doc writes docs as a JSDoc comment.
func (w *writer) doc(docs string) {
	docs = strings.TrimSpace(docs)
	if docs == "" {
		return
	}
	docs = strings.ReplaceAll(docs, "*/", "*\\/")
	lines := strings.Split(docs, "\n")
	if len(lines) == 1 {
		w.line("/** %s */", lines[0])
		return
	}
	w.line("/**")
	for _, l := range lines {
		w.line("%s", strings.TrimRight(" * "+l, " "))
	}
	w.line(" */")
}

func (w *writer) String() string {
	return w.buf.String()
}

// quote renders s as a string literal. JSON strings are valid TypeScript.
func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
