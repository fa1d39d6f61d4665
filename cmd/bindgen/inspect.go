package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/transcoder"
)

// lookup resolves "namespace.function", or a bare function name when it is
// unambiguous.
func lookup(s *schema.Schema, name string) (*schema.Function, error) {
	if ns, fn, ok := strings.Cut(name, "."); ok {
		if f, ok := s.Function(ns, fn); ok {
			return f, nil
		}
	}
	var matches []*schema.Function
	names := make([]string, 0, len(s.Functions()))
	for _, f := range s.Functions() {
		names = append(names, f.Qualified())
		if f.Name == name {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		err := errors.NotFound(errors.PhaseLoad, "function", name)
		if similar := schema.FindSimilar(name, names); len(similar) > 0 {
			err.Detail += ", did you mean " + schema.PrintList(similar) + "?"
		}
		return nil, err
	}
	return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("function name %q is ambiguous, qualify it with its namespace", name))
}

func typeString(t schema.Type) string {
	if t == nil {
		return "_"
	}
	return t.String()
}

// signature renders f with declared types; a cast parameter shows the type
// callers pass before the wire type.
func signature(f *schema.Function) string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		t := typeString(p.Type)
		if p.As != nil {
			t = p.As.String() + " as " + t
		}
		params[i] = p.Name + ": " + t
	}
	sig := f.Qualified() + "(" + strings.Join(params, ", ") + ")"
	if f.Result != nil {
		r := typeString(f.Result)
		if f.ResultAs != nil {
			r += " as " + f.ResultAs.String()
		}
		sig += " -> " + r
	}
	return sig
}

func listFunctions(w io.Writer, s *schema.Schema) {
	fns := append([]*schema.Function(nil), s.Functions()...)
	sort.Slice(fns, func(i, j int) bool { return fns[i].Qualified() < fns[j].Qualified() })
	for _, f := range fns {
		fmt.Fprintf(w, "%-40s %s, %s\n", f.Command(), f.Binding, f.Delivery)
		fmt.Fprintf(w, "    %s\n", signature(f))
	}
}

// parseArgs decodes a JSON object of arguments keyed by parameter name.
// Numbers stay exact.
func parseArgs(data string) (map[string]any, error) {
	if strings.TrimSpace(data) == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "arguments must be a JSON object")
	}
	return args, nil
}

// parseValue decodes one JSON value for a single parameter.
func parseValue(data string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		// a bare word is taken as a string, which covers enum labels
		return data, nil
	}
	return v, nil
}

// encodedCall is what a client stub would hand to its transport.
type encodedCall struct {
	Command string
	Payload []byte            // direct binding
	Args    map[string][]byte // structured binding
}

func encodeCall(tc *transcoder.Transcoder, f *schema.Function, args map[string]any) (*encodedCall, error) {
	call := &encodedCall{Command: f.Command()}
	if f.Binding == schema.Direct {
		payload, err := tc.EncodeArgs(f, args)
		if err != nil {
			return nil, err
		}
		call.Payload = payload
		return call, nil
	}
	// reuse EncodeArgs for the missing and unknown name checks
	if _, err := tc.EncodeArgs(f, args); err != nil {
		return nil, err
	}
	call.Args = make(map[string][]byte, len(f.Params))
	for _, p := range f.Params {
		data, err := tc.Encode(p.Type, args[p.Name])
		if err != nil {
			return nil, err
		}
		call.Args[p.Name] = data
	}
	return call, nil
}

func (c *encodedCall) String() string {
	var b strings.Builder
	b.WriteString(c.Command)
	if c.Args == nil {
		fmt.Fprintf(&b, " %s", hexOrEmpty(c.Payload))
		return b.String()
	}
	names := make([]string, 0, len(c.Args))
	for name := range c.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %s", name, hexOrEmpty(c.Args[name]))
	}
	return b.String()
}

func hexOrEmpty(b []byte) string {
	if len(b) == 0 {
		return "(empty)"
	}
	return hex.EncodeToString(b)
}

// parseHex accepts hex digits with optional whitespace and a 0x prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "payload is not hex")
	}
	return data, nil
}

// decodeResult decodes a response payload and renders it as indented JSON.
func decodeResult(tc *transcoder.Transcoder, f *schema.Function, payload []byte) (string, error) {
	v, err := tc.DecodeResult(f, payload)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
