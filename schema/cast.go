package schema

// CastGroup is a declared set of interchangeable integer types.
type CastGroup struct {
	Name    string
	Members []Integer
}

// Contains reports whether t is a member of the group.
func (g *CastGroup) Contains(t Integer) bool {
	for _, m := range g.Members {
		if m == t {
			return true
		}
	}
	return false
}

// CastRule classifies a conversion between two integer types.
type CastRule int

const (
	// Identity converts between equal types.
	Identity CastRule = iota
	// Widen is lossless: every source value is representable.
	Widen
	// Narrow requires a bounds check that fails with RangeViolation.
	Narrow
)

func (r CastRule) String() string {
	switch r {
	case Identity:
		return "identity"
	case Widen:
		return "widen"
	default:
		return "narrow"
	}
}

// Conversion classifies the cast from -> to. A signedness change at equal
// width is a narrowing, as is any signed to unsigned conversion.
func Conversion(from, to Integer) CastRule {
	switch {
	case from == to:
		return Identity
	case from.Signed == to.Signed && to.Width >= from.Width:
		return Widen
	case !from.Signed && to.Signed && to.Width > from.Width:
		return Widen
	default:
		return Narrow
	}
}

// CastDeclared reports whether a cast between from and to is allowed:
// identical types always are, anything else needs a common cast group.
func (s *Schema) CastDeclared(from, to Integer) bool {
	if from == to {
		return true
	}
	for _, g := range s.castGroups {
		if g.Contains(from) && g.Contains(to) {
			return true
		}
	}
	return false
}
