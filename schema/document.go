package schema

import (
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/bindgen/errors"
)

// Document is the serialized form of a schema, loaded from YAML or JSON.
//
//	namespace: greet
//	types:
//	  - name: point
//	    struct:
//	      - {name: x, type: s32}
//	      - {name: y, type: s32}
//	casts:
//	  - {name: sizes, members: [u32, u64]}
//	functions:
//	  - name: move
//	    params: [{name: p, type: point}, {name: steps, type: u32, as: u64}]
//	    result: point
//	    binding: direct
type Document struct {
	Namespace string        `yaml:"namespace" json:"namespace"`
	Docs      string        `yaml:"docs,omitempty" json:"docs,omitempty"`
	Types     []TypeDoc     `yaml:"types,omitempty" json:"types,omitempty"`
	Casts     []CastDoc     `yaml:"casts,omitempty" json:"casts,omitempty"`
	Functions []FunctionDoc `yaml:"functions,omitempty" json:"functions,omitempty"`
}

// TypeDoc defines one named type. Exactly one body field is set, or Kind
// names the body when it is empty.
type TypeDoc struct {
	Name     string      `yaml:"name" json:"name"`
	Kind     string      `yaml:"kind,omitempty" json:"kind,omitempty"`
	Docs     string      `yaml:"docs,omitempty" json:"docs,omitempty"`
	Alias    string      `yaml:"alias,omitempty" json:"alias,omitempty"`
	Struct   []MemberDoc `yaml:"struct,omitempty" json:"struct,omitempty"`
	Variant  []MemberDoc `yaml:"variant,omitempty" json:"variant,omitempty"`
	Enum     []string    `yaml:"enum,omitempty" json:"enum,omitempty"`
	Flags    []string    `yaml:"flags,omitempty" json:"flags,omitempty"`
	Clone    bool        `yaml:"clone,omitempty" json:"clone,omitempty"`
	Resource bool        `yaml:"resource,omitempty" json:"resource,omitempty"`
}

// MemberDoc is a struct field or a variant case. Type is empty for unit cases.
type MemberDoc struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	Docs string `yaml:"docs,omitempty" json:"docs,omitempty"`
}

type CastDoc struct {
	Name    string   `yaml:"name" json:"name"`
	Members []string `yaml:"members" json:"members"`
}

type FunctionDoc struct {
	Name      string     `yaml:"name" json:"name"`
	Namespace string     `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Docs      string     `yaml:"docs,omitempty" json:"docs,omitempty"`
	Result    string     `yaml:"result,omitempty" json:"result,omitempty"`
	ResultAs  string     `yaml:"result_as,omitempty" json:"result_as,omitempty"`
	Binding   string     `yaml:"binding,omitempty" json:"binding,omitempty"`
	Delivery  string     `yaml:"delivery,omitempty" json:"delivery,omitempty"`
	Params    []ParamDoc `yaml:"params,omitempty" json:"params,omitempty"`
}

type ParamDoc struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	As   string `yaml:"as,omitempty" json:"as,omitempty"`
	Docs string `yaml:"docs,omitempty" json:"docs,omitempty"`
}

// LoadDocument reads a schema document. Files ending in .json are decoded as
// JSON, everything else as YAML.
func LoadDocument(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// DecodeYAML decodes and builds a YAML schema document.
func DecodeYAML(data []byte) (*Schema, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Load("decode yaml schema", err)
	}
	return doc.Build()
}

// DecodeJSON decodes and builds a JSON schema document.
func DecodeJSON(data []byte) (*Schema, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Load("decode json schema", err)
	}
	return doc.Build()
}

// Build converts the document into a Schema. Type names may be used before
// their definition.
func (d *Document) Build() (*Schema, error) {
	b := NewBuilder(d.Namespace).Docs(d.Docs)
	problems := &errors.GenerationError{}

	refs := make(map[string]Named, len(d.Types))
	names := make([]string, 0, len(d.Types))
	for _, td := range d.Types {
		if _, dup := refs[td.Name]; dup {
			problems.Add(errors.NameCollision(td.Name, "type", td.Name))
			continue
		}
		refs[td.Name] = b.Declare(td.Name)
		names = append(names, td.Name)
	}
	resolve := func(name string) (Named, bool) {
		n, ok := refs[name]
		return n, ok
	}
	parse := func(subject, expr string) Type {
		if expr == "" {
			return nil
		}
		t, err := ParseType(expr, resolve)
		if err != nil {
			if e, ok := err.(*errors.Error); ok && e.Kind == errors.KindUnresolvedType {
				e.Subject = subject
				e.Detail += suggest(unresolvedName(e.Detail), names)
				problems.Add(e)
			} else {
				problems.Add(errors.New(errors.PhaseLoad, errors.KindInvalidData).Subject(subject).Cause(err).Build())
			}
			return nil
		}
		return t
	}

	defined := make(map[string]bool, len(d.Types))
	for _, td := range d.Types {
		if defined[td.Name] {
			continue
		}
		defined[td.Name] = true
		n := refs[td.Name]
		kind := td.Kind
		if kind == "" {
			kind = inferKind(td)
		}
		var body Kind
		switch kind {
		case "struct":
			s := &Struct{}
			for _, m := range td.Struct {
				s.Fields = append(s.Fields, Field{Name: m.Name, Type: parse(td.Name, m.Type), Docs: m.Docs})
			}
			body = s
		case "variant":
			v := &Variant{}
			for _, m := range td.Variant {
				v.Cases = append(v.Cases, Case{Name: m.Name, Type: parse(td.Name, m.Type), Docs: m.Docs})
			}
			body = v
		case "enum":
			e := &Enum{}
			for _, c := range td.Enum {
				e.Cases = append(e.Cases, EnumCase{Name: c})
			}
			body = e
		case "flags":
			f := &Flags{}
			for _, c := range td.Flags {
				f.Flags = append(f.Flags, Flag{Name: c})
			}
			body = f
		case "alias":
			body = &Alias{Target: parse(td.Name, td.Alias)}
		case "resource":
			body = &Resource{}
		default:
			problems.Add(errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Subject(td.Name).
				Detail("cannot tell the kind of type; set kind to one of %s",
					PrintList([]string{"struct", "variant", "enum", "flags", "alias", "resource"})).
				Build())
			body = &Struct{}
		}
		def := b.Define(n, body)
		def.Docs = td.Docs
		def.Clone = td.Clone
	}

	for _, c := range d.Casts {
		var members []Integer
		for _, m := range c.Members {
			t := parse("cast group "+c.Name, m)
			if it, ok := t.(Integer); ok {
				members = append(members, it)
			} else if t != nil {
				problems.Add(errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
					Subject("cast group "+c.Name).
					Detail("member %s is not an integer", m).
					Build())
			}
		}
		b.CastGroup(c.Name, members...)
	}

	for _, fd := range d.Functions {
		subject := fd.Name
		f := &Function{Name: fd.Name, Namespace: fd.Namespace, Docs: fd.Docs}
		switch fd.Binding {
		case "", "structured":
			f.Binding = Structured
		case "direct":
			f.Binding = Direct
		default:
			problems.Add(errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Subject(subject).
				Detail("binding %q, expected `structured` or `direct`", fd.Binding).
				Build())
		}
		switch fd.Delivery {
		case "", "awaited":
			f.Delivery = Awaited
		case "fire-and-forget":
			f.Delivery = FireAndForget
		default:
			problems.Add(errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Subject(subject).
				Detail("delivery %q, expected `awaited` or `fire-and-forget`", fd.Delivery).
				Build())
		}
		for _, pd := range fd.Params {
			p := Param{Name: pd.Name, Type: parse(subject, pd.Type), Docs: pd.Docs}
			if pd.As != "" {
				if it, ok := parse(subject, pd.As).(Integer); ok {
					p.As = &it
				} else {
					problems.Add(errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
						Subject(subject).
						Path(pd.Name).
						Detail("cast type %s is not an integer", pd.As).
						Build())
				}
			}
			f.Params = append(f.Params, p)
		}
		f.Result = parse(subject, fd.Result)
		if fd.ResultAs != "" {
			if it, ok := parse(subject, fd.ResultAs).(Integer); ok {
				f.ResultAs = &it
			} else {
				problems.Add(errors.New(errors.PhaseLoad, errors.KindTypeMismatch).
					Subject(subject).
					Detail("result cast type %s is not an integer", fd.ResultAs).
					Build())
			}
		}
		b.Function(f)
	}

	if err := problems.Err(); err != nil {
		return nil, err
	}
	return b.Build()
}

func inferKind(td TypeDoc) string {
	switch {
	case td.Struct != nil:
		return "struct"
	case td.Variant != nil:
		return "variant"
	case td.Enum != nil:
		return "enum"
	case td.Flags != nil:
		return "flags"
	case td.Alias != "":
		return "alias"
	case td.Resource:
		return "resource"
	}
	return ""
}

// unresolvedName extracts the name from an UnresolvedType detail.
func unresolvedName(detail string) string {
	return strings.TrimPrefix(detail, "unresolved type ")
}
