package typemap

import "github.com/wippyai/bindgen/schema"

// Container names the structural position a reference sits in.
type Container int

const (
	InField Container = iota
	InTuple
	InList
	InOption
	InResult
	InCase
	InAlias
)

func (c Container) String() string {
	switch c {
	case InField:
		return "field"
	case InTuple:
		return "tuple"
	case InList:
		return "list"
	case InOption:
		return "option"
	case InResult:
		return "result"
	case InCase:
		return "case"
	default:
		return "alias"
	}
}

// Ref is one reference from a definition to another, with the chain of
// containers between them, outermost first.
type Ref struct {
	To  schema.TypeID
	Via []Container
}

// Guarded reports whether some container on the reference path gives m a
// level of indirection. An alias the target cannot defer is never guarded,
// whatever its target holds.
func (r Ref) Guarded(m Mapper) bool {
	if len(r.Via) > 0 && r.Via[0] == InAlias && !m.Deferred(InAlias) {
		return false
	}
	for _, c := range r.Via {
		if m.Deferred(c) {
			return true
		}
	}
	return false
}

// Refs lists the references from d to other definitions. Handles are not
// references: they encode as an id.
func Refs(d *schema.TypeDef) []Ref {
	var out []Ref
	var walk func(t schema.Type, via []Container)
	walk = func(t schema.Type, via []Container) {
		push := func(c Container) []Container {
			next := make([]Container, len(via)+1)
			copy(next, via)
			next[len(via)] = c
			return next
		}
		switch x := t.(type) {
		case schema.Named:
			out = append(out, Ref{To: x.ID, Via: via})
		case schema.List:
			walk(x.Elem, push(InList))
		case schema.Option:
			walk(x.Elem, push(InOption))
		case schema.Tuple:
			for _, e := range x.Elems {
				walk(e, push(InTuple))
			}
		case schema.Result:
			if x.Ok != nil {
				walk(x.Ok, push(InResult))
			}
			if x.Err != nil {
				walk(x.Err, push(InResult))
			}
		}
	}

	switch k := d.Kind.(type) {
	case *schema.Struct:
		for _, f := range k.Fields {
			walk(f.Type, []Container{InField})
		}
	case *schema.Variant:
		for _, c := range k.Cases {
			if c.Type != nil {
				walk(c.Type, []Container{InCase})
			}
		}
	case *schema.Alias:
		walk(k.Target, []Container{InAlias})
	}
	return out
}
