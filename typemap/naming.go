package typemap

import (
	"strings"
	"unicode"
)

// Words splits an identifier written in kebab, snake or camel case into
// lower-case words. "HTTPServer-id" yields [http server id].
func Words(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			acronymEnd := i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || acronymEnd {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

// UpperCamel joins the words of name as "FooBarBaz".
func UpperCamel(name string) string {
	var b strings.Builder
	for _, w := range Words(name) {
		b.WriteString(title(w))
	}
	return b.String()
}

// LowerCamel joins the words of name as "fooBarBaz".
func LowerCamel(name string) string {
	words := Words(name)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(title(w))
	}
	return b.String()
}

// Kebab joins the words of name as "foo-bar-baz".
func Kebab(name string) string {
	return strings.Join(Words(name), "-")
}

func title(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// goInitialisms are upper-cased whole when they form a word of a Go name.
var goInitialisms = map[string]bool{
	"api": true, "ascii": true, "cpu": true, "css": true, "dns": true,
	"eof": true, "grpc": true, "html": true, "http": true, "https": true,
	"id": true, "ip": true, "json": true, "rpc": true, "sql": true,
	"tcp": true, "tls": true, "ttl": true, "udp": true, "ui": true,
	"uri": true, "url": true, "utf8": true, "uuid": true, "xml": true,
}

// GoExported converts name to an exported Go identifier, keeping common
// initialisms upper case: "user-id" becomes "UserID".
func GoExported(name string) string {
	var b strings.Builder
	for _, w := range Words(name) {
		if goInitialisms[w] {
			b.WriteString(strings.ToUpper(w))
		} else {
			b.WriteString(title(w))
		}
	}
	return b.String()
}

// GoUnexported converts name to an unexported Go identifier: "user-id"
// becomes "userID", "id" stays "id".
func GoUnexported(name string) string {
	words := Words(name)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		if goInitialisms[w] {
			b.WriteString(strings.ToUpper(w))
		} else {
			b.WriteString(title(w))
		}
	}
	return b.String()
}

// ValidIdent reports whether s is usable as an identifier in Go and
// TypeScript alike.
func ValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
