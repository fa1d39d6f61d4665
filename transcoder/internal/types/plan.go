package types

// Plan is a compiled codec description for one schema type. Plans for named
// recursive types refer back to themselves through Elem, Fields or Cases.
type Plan struct {
	Elem   *Plan // list, option
	Ok     *Plan // result
	Err    *Plan // result
	Name   string
	Fields []Field // struct, tuple
	Cases  []Case  // variant
	Labels []string
	Width  int // flags carrier width
	Kind   Kind
}

type Field struct {
	Plan *Plan
	Name string
}

type Case struct {
	Plan *Plan // nil when the case carries no payload
	Name string
}

// CaseIndex returns the discriminant of the named case.
func (p *Plan) CaseIndex(name string) (int, bool) {
	for i, c := range p.Cases {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Label returns the index of an enum case or flag name.
func (p *Plan) Label(name string) (int, bool) {
	for i, l := range p.Labels {
		if l == name {
			return i, true
		}
	}
	return 0, false
}
