package schema

// Schema is an immutable interface definition. Construct it with a Builder.
type Schema struct {
	byName     map[string]*TypeDef
	Namespace  string
	Docs       string
	types      []*TypeDef
	functions  []*Function
	castGroups []*CastGroup
}

// Types returns all type definitions in declaration order.
func (s *Schema) Types() []*TypeDef {
	return s.types
}

// Type returns the definition with the given id, or nil.
func (s *Schema) Type(id TypeID) *TypeDef {
	if id < 0 || int(id) >= len(s.types) {
		return nil
	}
	return s.types[id]
}

// Lookup finds a type definition by name.
func (s *Schema) Lookup(name string) (*TypeDef, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// Functions returns all functions in declaration order.
func (s *Schema) Functions() []*Function {
	return s.functions
}

// Function finds a function by namespace and name.
func (s *Schema) Function(namespace, name string) (*Function, bool) {
	for _, f := range s.functions {
		if f.Namespace == namespace && f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// CastGroups returns the declared cast groups.
func (s *Schema) CastGroups() []*CastGroup {
	return s.castGroups
}

// Namespaces returns the distinct function namespaces in first-use order.
func (s *Schema) Namespaces() []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range s.functions {
		if !seen[f.Namespace] {
			seen[f.Namespace] = true
			out = append(out, f.Namespace)
		}
	}
	return out
}

// Resolve follows Named references to aliases until it reaches a type that
// is not an alias. Named references to other definitions are returned as is.
func (s *Schema) Resolve(t Type) Type {
	for i := 0; i <= len(s.types); i++ {
		n, ok := t.(Named)
		if !ok {
			return t
		}
		d := s.Type(n.ID)
		if d == nil {
			return t
		}
		a, ok := d.Kind.(*Alias)
		if !ok {
			return t
		}
		t = a.Target
	}
	return t
}

// Deps returns the definitions directly referenced by d, in first-reference
// order. Handles are not dependencies: they encode as an id.
func (s *Schema) Deps(d *TypeDef) []TypeID {
	var out []TypeID
	seen := make(map[TypeID]bool)
	add := func(t Type) {
		Walk(t, func(t Type) {
			if n, ok := t.(Named); ok && !seen[n.ID] {
				seen[n.ID] = true
				out = append(out, n.ID)
			}
		})
	}
	switch k := d.Kind.(type) {
	case *Struct:
		for _, f := range k.Fields {
			add(f.Type)
		}
	case *Variant:
		for _, c := range k.Cases {
			add(c.Type)
		}
	case *Alias:
		add(k.Target)
	}
	return out
}

// Reachable returns every definition reachable from a function signature,
// in declaration order. Resources referenced by handles are included.
func (s *Schema) Reachable() []*TypeDef {
	seen := make(map[TypeID]bool)
	var visit func(t Type)
	var visitDef func(id TypeID)
	visitDef = func(id TypeID) {
		if seen[id] {
			return
		}
		d := s.Type(id)
		if d == nil {
			return
		}
		seen[id] = true
		for _, dep := range s.Deps(d) {
			visitDef(dep)
		}
		switch k := d.Kind.(type) {
		case *Struct:
			for _, f := range k.Fields {
				visit(f.Type)
			}
		case *Variant:
			for _, c := range k.Cases {
				visit(c.Type)
			}
		case *Alias:
			visit(k.Target)
		}
	}
	visit = func(t Type) {
		Walk(t, func(t Type) {
			switch x := t.(type) {
			case Named:
				visitDef(x.ID)
			case Handle:
				visitDef(x.Resource)
			}
		})
	}
	for _, f := range s.functions {
		for _, p := range f.Params {
			visit(p.Type)
		}
		visit(f.Result)
	}

	var out []*TypeDef
	for _, d := range s.types {
		if seen[d.ID] {
			out = append(out, d)
		}
	}
	return out
}
