package schema

// TypeID identifies a TypeDef within one Schema. IDs are assigned in
// declaration order starting at zero.
type TypeID int

// TypeDef is a named type definition.
type TypeDef struct {
	Kind  Kind
	Name  string
	Docs  string
	ID    TypeID
	Clone bool
}

// Ref returns a Named reference to the definition.
func (d *TypeDef) Ref() Named {
	return Named{ID: d.ID, Name: d.Name}
}

// Kind is the body of a TypeDef: *Struct, *Variant, *Enum, *Flags, *Alias
// or *Resource.
type Kind interface {
	KindName() string
}

type Struct struct {
	Fields []Field
}

type Field struct {
	Type Type
	Name string
	Docs string
}

// Variant is a tagged union. A case's discriminant is its index in Cases.
type Variant struct {
	Cases []Case
}

// Case is a variant case. A nil Type is a unit case.
type Case struct {
	Type Type
	Name string
	Docs string
}

// Enum is a payload-free variant encoded as its ordinal.
type Enum struct {
	Cases []EnumCase
}

type EnumCase struct {
	Name string
	Docs string
}

// Flags is a named bit set. Flag i is bit i of the representation integer.
type Flags struct {
	Flags []Flag
}

type Flag struct {
	Name string
	Docs string
}

// Alias gives a name to another type. It shares the target's wire encoding.
type Alias struct {
	Target Type
}

// Resource is an opaque host object referenced through Handle types.
type Resource struct{}

func (*Struct) KindName() string   { return "struct" }
func (*Variant) KindName() string  { return "variant" }
func (*Enum) KindName() string     { return "enum" }
func (*Flags) KindName() string    { return "flags" }
func (*Alias) KindName() string    { return "alias" }
func (*Resource) KindName() string { return "resource" }

// Repr returns the unsigned integer carrying the flag bits.
func (f *Flags) Repr() Integer {
	switch n := len(f.Flags); {
	case n <= 8:
		return U8
	case n <= 16:
		return U16
	case n <= 32:
		return U32
	case n <= 64:
		return U64
	default:
		return U128
	}
}

// CaseIndex returns the discriminant of the named case.
func (v *Variant) CaseIndex(name string) (int, bool) {
	for i, c := range v.Cases {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Ordinal returns the wire ordinal of the named enum case.
func (e *Enum) Ordinal(name string) (int, bool) {
	for i, c := range e.Cases {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Names returns the case labels in ordinal order.
func (e *Enum) Names() []string {
	names := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		names[i] = c.Name
	}
	return names
}
