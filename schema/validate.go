package schema

import (
	"github.com/wippyai/bindgen/errors"
)

// Validate applies the target-independent generation rules: name
// collisions, undeclared casts and delivery contracts. The returned
// GenerationError is empty when the schema is valid.
func Validate(s *Schema) *errors.GenerationError {
	problems := &errors.GenerationError{}

	typeNames := make(map[string]bool)
	for _, d := range s.types {
		if typeNames[d.Name] {
			problems.Add(errors.NameCollision(d.Name, "type", d.Name))
		}
		typeNames[d.Name] = true
		validateDef(d, problems)
	}

	fnNames := make(map[string]bool)
	for _, f := range s.functions {
		subject := f.Qualified()
		if f.Namespace == "" {
			problems.Add(errors.InvalidInput(errors.PhaseGenerate, "function "+f.Name+" has no namespace"))
		}
		if fnNames[subject] {
			problems.Add(errors.NameCollision(subject, "function", f.Name))
		}
		fnNames[subject] = true

		params := make(map[string]bool)
		for _, p := range f.Params {
			if params[p.Name] {
				problems.Add(errors.NameCollision(subject, "parameter", p.Name))
			}
			params[p.Name] = true

			if p.As != nil {
				if wire, ok := s.Resolve(p.Type).(Integer); ok && !s.CastDeclared(*p.As, wire) {
					problems.Add(errors.UndeclaredCast(subject, p.As.String(), wire.String()))
				}
			}
		}

		if f.ResultAs != nil {
			if wire, ok := s.Resolve(f.Result).(Integer); ok && !s.CastDeclared(wire, *f.ResultAs) {
				problems.Add(errors.UndeclaredCast(subject, wire.String(), f.ResultAs.String()))
			}
		}

		if f.Delivery == FireAndForget {
			if f.Binding == Structured {
				problems.Add(errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
					Subject(subject).
					Detail("structured binding always awaits its response").
					Build())
			}
			if f.Result != nil {
				problems.Add(errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
					Subject(subject).
					Detail("fire-and-forget function declares result %s", f.Result).
					Build())
			}
		}
	}

	return problems
}

func validateDef(d *TypeDef, problems *errors.GenerationError) {
	dup := func(what string, names []string) {
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			if seen[n] {
				problems.Add(errors.NameCollision(d.Name, what, n))
			}
			seen[n] = true
		}
	}

	switch k := d.Kind.(type) {
	case *Struct:
		names := make([]string, len(k.Fields))
		for i, f := range k.Fields {
			names[i] = f.Name
		}
		dup("field", names)
	case *Variant:
		if len(k.Cases) == 0 {
			problems.Add(errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
				Subject(d.Name).
				Detail("variant has no cases").
				Build())
		}
		names := make([]string, len(k.Cases))
		for i, c := range k.Cases {
			names[i] = c.Name
		}
		dup("case", names)
	case *Enum:
		if len(k.Cases) == 0 {
			problems.Add(errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
				Subject(d.Name).
				Detail("enum has no cases").
				Build())
		}
		dup("case", k.Names())
	case *Flags:
		if len(k.Flags) > 128 {
			problems.Add(errors.New(errors.PhaseGenerate, errors.KindUnsupported).
				Subject(d.Name).
				Detail("%d flags exceed 128 bits", len(k.Flags)).
				Build())
		}
		names := make([]string, len(k.Flags))
		for i, f := range k.Flags {
			names[i] = f.Name
		}
		dup("flag", names)
	}
}
