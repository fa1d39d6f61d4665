package codegen

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

// Plan is the validated input of an emitter.
type Plan struct {
	Schema  *schema.Schema
	Mapper  typemap.Mapper
	Units   []Unit
	Options Options
	// Qualify is set when stub names carry their namespace.
	Qualify bool
}

// Defs lists the definitions to emit in dependency order.
func (p *Plan) Defs() []*schema.TypeDef {
	return Flatten(p.Units)
}

// Recursive reports whether d is part of a recursive unit.
func (p *Plan) Recursive(d *schema.TypeDef) bool {
	for _, u := range p.Units {
		for _, m := range u.Defs {
			if m.ID == d.ID {
				return u.Recursive
			}
		}
	}
	return false
}

// Emitter renders a plan into files for one target.
type Emitter interface {
	Emit(p *Plan) (Files, error)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(p *Plan) (Files, error)

func (f EmitterFunc) Emit(p *Plan) (Files, error) { return f(p) }

var (
	emittersMu sync.RWMutex
	emitters   = make(map[string]Emitter)
)

// Register makes an emitter available to Generate. The target name must
// also have a typemap.Mapper registered.
func Register(target string, e Emitter) {
	emittersMu.Lock()
	defer emittersMu.Unlock()
	emitters[target] = e
}

// Targets returns the registered emitter names, sorted.
func Targets() []string {
	emittersMu.RLock()
	defer emittersMu.RUnlock()
	names := make([]string, 0, len(emitters))
	for name := range emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTarget checks if an emitter is registered for target.
func HasTarget(target string) bool {
	emittersMu.RLock()
	defer emittersMu.RUnlock()
	_, ok := emitters[target]
	return ok
}

// Generate validates s for target and emits its files. Nothing is emitted
// when validation fails: the returned error is a *errors.GenerationError
// listing every problem.
func Generate(s *schema.Schema, target string, opts ...Option) (Files, error) {
	emittersMu.RLock()
	e, ok := emitters[target]
	emittersMu.RUnlock()
	if !ok {
		err := errors.NotFound(errors.PhaseGenerate, "target", target)
		if similar := schema.FindSimilar(target, Targets()); len(similar) > 0 {
			err.Detail += ", did you mean " + schema.PrintList(similar) + "?"
		}
		return nil, err
	}

	p, err := NewPlan(s, target, opts...)
	if err != nil {
		return nil, err
	}
	files, err := e.Emit(p)
	if err != nil {
		return nil, err
	}
	Logger().Info("generated bindings",
		zap.String("target", target),
		zap.String("namespace", s.Namespace),
		zap.Strings("files", files.Paths()))
	return files, nil
}

// NewPlan validates s for target and orders its definitions.
func NewPlan(s *schema.Schema, target string, opts ...Option) (*Plan, error) {
	m, err := typemap.New(target, s)
	if err != nil {
		return nil, err
	}
	if problems := Check(s, m); !problems.Empty() {
		Logger().Debug("schema rejected",
			zap.String("target", target),
			zap.Int("problems", len(problems.Problems)))
		return nil, problems
	}

	o := defaultOptions(s.Namespace)
	for _, opt := range opts {
		opt(&o)
	}

	p := &Plan{
		Schema:  s,
		Mapper:  m,
		Units:   Order(s),
		Options: o,
		Qualify: typemap.Qualify(s),
	}
	for _, u := range p.Units {
		for _, d := range u.Defs {
			debugf("emit %s %s (recursive=%v)", d.Kind.KindName(), d.Name, u.Recursive)
		}
	}
	return p, nil
}
