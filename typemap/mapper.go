package typemap

import (
	"sort"
	"sync"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
)

// Mapper resolves schema types and names for one output language.
type Mapper interface {
	// Target returns the registered target name.
	Target() string

	TypeName(name string) string
	FieldName(name string) string
	// CaseName names the declaration for one case of a variant, enum or
	// flags type. typeName is already converted.
	CaseName(typeName, caseName string) string
	// FuncName names a call stub; qualify is set when the schema has more
	// than one namespace.
	FuncName(f *schema.Function, qualify bool) string
	ParamName(name string) string

	// Reserved reports identifiers the emitted code cannot declare.
	Reserved(ident string) bool

	// Deferred reports whether a reference held in c is indirect in the
	// target, so a cycle through it is expressible.
	Deferred(c Container) bool

	// Declared lists the top-level identifiers emitted for d.
	Declared(d *schema.TypeDef) []string

	// Prelude lists the top-level identifiers emitted files declare besides
	// the schema's definitions.
	Prelude() []string

	// Expr renders t as a type expression of the target language.
	Expr(t schema.Type) (string, error)
}

// Factory builds a mapper bound to one schema.
type Factory func(s *schema.Schema) Mapper

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a target available to New under name. Registering a name
// twice replaces the earlier factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New returns the mapper for the named target.
func New(target string, s *schema.Schema) (Mapper, error) {
	registryMu.RLock()
	f, ok := registry[target]
	registryMu.RUnlock()
	if !ok {
		err := errors.NotFound(errors.PhaseGenerate, "target", target)
		if similar := schema.FindSimilar(target, Targets()); len(similar) > 0 {
			err.Detail += ", did you mean " + schema.PrintList(similar) + "?"
		}
		return nil, err
	}
	return f(s), nil
}

// Targets returns the registered target names, sorted.
func Targets() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(TargetGo, func(s *schema.Schema) Mapper { return NewGo(s) })
	Register(TargetTypeScript, func(s *schema.Schema) Mapper { return NewTypeScript(s) })
	Register(TargetMarkdown, func(s *schema.Schema) Mapper { return NewMarkdown(s) })
}

const (
	TargetGo         = "go"
	TargetTypeScript = "typescript"
	TargetMarkdown   = "markdown"
)

// Fold returns the option or result sugar a variant definition folds to.
// Recursive variants keep their own declaration: a folded form would be an
// alias referring to itself.
func Fold(s *schema.Schema, d *schema.TypeDef) (schema.Type, bool) {
	if _, ok := d.Kind.(*schema.Variant); !ok {
		return nil, false
	}
	folded := s.Fold(d.Ref())
	if _, named := folded.(schema.Named); named {
		return nil, false
	}
	if InCycle(s, d.ID) {
		return nil, false
	}
	return folded, true
}

// InCycle reports whether the definition id can reach itself.
func InCycle(s *schema.Schema, id schema.TypeID) bool {
	seen := make(map[schema.TypeID]bool)
	var reach func(from schema.TypeID) bool
	reach = func(from schema.TypeID) bool {
		d := s.Type(from)
		if d == nil {
			return false
		}
		for _, r := range Refs(d) {
			if r.To == id {
				return true
			}
			if !seen[r.To] {
				seen[r.To] = true
				if reach(r.To) {
					return true
				}
			}
		}
		return false
	}
	return reach(id)
}

// Qualify reports whether stub names need the namespace to stay unique.
func Qualify(s *schema.Schema) bool {
	return len(s.Namespaces()) > 1
}

func unresolved(name string) *errors.Error {
	return errors.UnresolvedType("", name)
}

func unsupported(target, detail string) *errors.Error {
	return errors.New(errors.PhaseGenerate, errors.KindUnsupported).
		Target(target).
		Detail("%s", detail).
		Build()
}
