package schema

// AsOption reports whether v has the canonical option shape
// {0: none, 1: some(T)} and returns T.
func AsOption(v *Variant) (Type, bool) {
	if len(v.Cases) != 2 {
		return nil, false
	}
	none, some := v.Cases[0], v.Cases[1]
	if none.Name != "none" || none.Type != nil || some.Name != "some" || some.Type == nil {
		return nil, false
	}
	return some.Type, true
}

// AsResult reports whether v has the canonical result shape
// {0: ok(T?), 1: err(E?)} and returns it as a Result.
func AsResult(v *Variant) (Result, bool) {
	if len(v.Cases) != 2 || v.Cases[0].Name != "ok" || v.Cases[1].Name != "err" {
		return Result{}, false
	}
	return Result{Ok: v.Cases[0].Type, Err: v.Cases[1].Type}, true
}

// Fold returns the sugar form of a variant definition when it has one,
// otherwise the Named reference itself. Folding never changes wire bytes.
func (s *Schema) Fold(t Type) Type {
	n, ok := t.(Named)
	if !ok {
		return t
	}
	d := s.Type(n.ID)
	if d == nil {
		return t
	}
	v, ok := d.Kind.(*Variant)
	if !ok {
		return t
	}
	if elem, ok := AsOption(v); ok {
		return Option{Elem: elem}
	}
	if r, ok := AsResult(v); ok {
		return r
	}
	return t
}

// Desugar returns the general variant that t encodes as. It returns nil for
// types other than Option and Result.
func Desugar(t Type) *Variant {
	switch x := t.(type) {
	case Option:
		return &Variant{Cases: []Case{{Name: "none"}, {Name: "some", Type: x.Elem}}}
	case Result:
		return &Variant{Cases: []Case{{Name: "ok", Type: x.Ok}, {Name: "err", Type: x.Err}}}
	}
	return nil
}
