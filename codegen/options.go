package codegen

import (
	"strings"

	"github.com/wippyai/bindgen/typemap"
)

// Options configures emission. Emitters read the fields they understand
// and ignore the rest.
type Options struct {
	// Package is the Go package clause of the generated file.
	Package string
	// Name is the base name of generated files, without extension.
	Name string
	// Header is prepended to every file as a comment.
	Header string
	// ModuleName is the title of documentation output and the module
	// specifier the TypeScript prelude is documented under.
	ModuleName string
}

// Option configures generation.
type Option func(*Options)

// WithPackage sets the Go package name.
func WithPackage(name string) Option {
	return func(o *Options) {
		o.Package = name
	}
}

// WithName sets the base name of generated files.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithHeader adds a leading comment to every generated file.
func WithHeader(text string) Option {
	return func(o *Options) {
		o.Header = text
	}
}

// WithModuleName sets the title used by documentation output.
func WithModuleName(name string) Option {
	return func(o *Options) {
		o.ModuleName = name
	}
}

func defaultOptions(namespace string) Options {
	base := typemap.Kebab(namespace)
	if base == "" {
		base = "bindings"
	}
	return Options{
		Package:    goPackage(base),
		Name:       base,
		ModuleName: namespace,
	}
}

// goPackage turns a kebab name into a Go package name: lower case letters
// and digits only.
func goPackage(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "bindings"
	}
	return b.String()
}
