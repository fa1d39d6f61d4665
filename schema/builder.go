package schema

import (
	"fmt"

	"github.com/wippyai/bindgen/errors"
)

// Builder assembles a Schema. Types may be declared before they are defined
// so that recursive and mutually recursive definitions can reference each
// other.
type Builder struct {
	namespace  string
	docs       string
	types      []*TypeDef
	functions  []*Function
	castGroups []*CastGroup
}

// NewBuilder creates a builder whose functions default to namespace.
func NewBuilder(namespace string) *Builder {
	return &Builder{namespace: namespace}
}

// Docs sets the interface documentation.
func (b *Builder) Docs(docs string) *Builder {
	b.docs = docs
	return b
}

// Declare reserves a type id for name without defining it.
func (b *Builder) Declare(name string) Named {
	d := &TypeDef{ID: TypeID(len(b.types)), Name: name}
	b.types = append(b.types, d)
	return d.Ref()
}

// Define sets the body of a declared type.
func (b *Builder) Define(n Named, kind Kind) *TypeDef {
	d := b.Def(n)
	d.Kind = kind
	return d
}

// Def returns the mutable definition behind n so Docs and Clone can be set
// before Build.
func (b *Builder) Def(n Named) *TypeDef {
	if n.ID < 0 || int(n.ID) >= len(b.types) {
		panic(fmt.Sprintf("schema: type %s was not declared by this builder", n))
	}
	return b.types[n.ID]
}

func (b *Builder) Struct(name string, fields ...Field) Named {
	n := b.Declare(name)
	b.Define(n, &Struct{Fields: fields})
	return n
}

func (b *Builder) Variant(name string, cases ...Case) Named {
	n := b.Declare(name)
	b.Define(n, &Variant{Cases: cases})
	return n
}

func (b *Builder) Enum(name string, cases ...string) Named {
	e := &Enum{Cases: make([]EnumCase, len(cases))}
	for i, c := range cases {
		e.Cases[i] = EnumCase{Name: c}
	}
	n := b.Declare(name)
	b.Define(n, e)
	return n
}

func (b *Builder) Flags(name string, flags ...string) Named {
	f := &Flags{Flags: make([]Flag, len(flags))}
	for i, c := range flags {
		f.Flags[i] = Flag{Name: c}
	}
	n := b.Declare(name)
	b.Define(n, f)
	return n
}

func (b *Builder) Alias(name string, target Type) Named {
	n := b.Declare(name)
	b.Define(n, &Alias{Target: target})
	return n
}

func (b *Builder) Resource(name string) Named {
	n := b.Declare(name)
	b.Define(n, &Resource{})
	return n
}

// HandleOf references the resource declared as n.
func HandleOf(n Named, clone bool) Handle {
	return Handle{Resource: n.ID, Name: n.Name, Clone: clone}
}

// Function adds a function. An empty Namespace takes the builder's.
func (b *Builder) Function(f *Function) *Builder {
	if f.Namespace == "" {
		f.Namespace = b.namespace
	}
	b.functions = append(b.functions, f)
	return b
}

// CastGroup declares a set of interchangeable integer types.
func (b *Builder) CastGroup(name string, members ...Integer) *Builder {
	b.castGroups = append(b.castGroups, &CastGroup{Name: name, Members: members})
	return b
}

// Build checks that every reference resolves and freezes the schema.
// Collisions, casts and other generation rules are checked by Validate.
func (b *Builder) Build() (*Schema, error) {
	problems := &errors.GenerationError{}
	s := &Schema{
		Namespace: b.namespace,
		Docs:      b.docs,
		byName:    make(map[string]*TypeDef, len(b.types)),
	}

	names := make([]string, 0, len(b.types))
	for _, d := range b.types {
		names = append(names, d.Name)
	}

	norm := &normalizer{types: b.types, problems: problems, names: names}
	for _, d := range b.types {
		norm.subject = d.Name
		switch k := d.Kind.(type) {
		case nil:
			problems.Add(errors.UnresolvedType(d.Name, "declared but never defined"))
		case *Struct:
			for i := range k.Fields {
				k.Fields[i].Type = norm.fix(k.Fields[i].Type)
			}
		case *Variant:
			for i := range k.Cases {
				k.Cases[i].Type = norm.fix(k.Cases[i].Type)
			}
		case *Alias:
			k.Target = norm.fix(k.Target)
			if k.Target == nil {
				problems.Add(errors.UnresolvedType(d.Name, "alias without target"))
			}
		}
		if _, dup := s.byName[d.Name]; !dup {
			s.byName[d.Name] = d
		}
	}
	s.types = b.types

	for _, f := range b.functions {
		norm.subject = f.Qualified()
		for i := range f.Params {
			f.Params[i].Type = norm.fix(f.Params[i].Type)
			if f.Params[i].As != nil {
				norm.checkInt(*f.Params[i].As)
				if _, ok := s.Resolve(f.Params[i].Type).(Integer); !ok {
					problems.Add(errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
						Subject(f.Qualified()).
						Path(f.Params[i].Name).
						Detail("cast requested on non-integer parameter of type %s", f.Params[i].Type).
						Build())
				}
			}
		}
		f.Result = norm.fix(f.Result)
		if f.ResultAs != nil {
			norm.checkInt(*f.ResultAs)
			if _, ok := s.Resolve(f.Result).(Integer); !ok {
				problems.Add(errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
					Subject(f.Qualified()).
					Detail("cast requested on non-integer result").
					Build())
			}
		}
	}
	s.functions = b.functions

	for _, g := range b.castGroups {
		norm.subject = "cast group " + g.Name
		for _, m := range g.Members {
			norm.checkInt(m)
		}
	}
	s.castGroups = b.castGroups

	if err := problems.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// normalizer fills display names into references and checks their targets.
type normalizer struct {
	problems *errors.GenerationError
	subject  string
	types    []*TypeDef
	names    []string
}

func (n *normalizer) def(id TypeID) *TypeDef {
	if id < 0 || int(id) >= len(n.types) {
		return nil
	}
	return n.types[id]
}

func (n *normalizer) checkInt(t Integer) {
	switch t.Width {
	case 8, 16, 32, 64, 128:
	default:
		n.problems.Add(errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Subject(n.subject).
			Detail("integer width %d", t.Width).
			Build())
	}
}

func (n *normalizer) fix(t Type) Type {
	switch x := t.(type) {
	case nil:
		return nil
	case Integer:
		n.checkInt(x)
		return x
	case Float:
		if x.Width != 32 && x.Width != 64 {
			n.problems.Add(errors.New(errors.PhaseGenerate, errors.KindUnsupported).
				Subject(n.subject).
				Detail("float width %d", x.Width).
				Build())
		}
		return x
	case List:
		x.Elem = n.fix(x.Elem)
		return x
	case Option:
		x.Elem = n.fix(x.Elem)
		return x
	case Result:
		x.Ok = n.fix(x.Ok)
		x.Err = n.fix(x.Err)
		return x
	case Tuple:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = n.fix(e)
		}
		x.Elems = elems
		return x
	case Named:
		d := n.def(x.ID)
		if d == nil {
			n.problems.Add(errors.UnresolvedType(n.subject, x.String()+suggest(x.Name, n.names)))
			return x
		}
		x.Name = d.Name
		return x
	case Handle:
		d := n.def(x.Resource)
		if d == nil {
			n.problems.Add(errors.UnresolvedType(n.subject, x.String()))
			return x
		}
		if _, ok := d.Kind.(*Resource); !ok {
			n.problems.Add(errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
				Subject(n.subject).
				Detail("handle to %s which is a %s, not a resource", d.Name, kindName(d)).
				Build())
		}
		x.Name = d.Name
		return x
	default:
		return t
	}
}

func kindName(d *TypeDef) string {
	if d.Kind == nil {
		return "undefined type"
	}
	return d.Kind.KindName()
}
