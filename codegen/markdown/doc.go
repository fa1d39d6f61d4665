// Package markdown is the "markdown" emitter. Importing it registers the
// target with codegen.
package markdown
