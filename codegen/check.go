package codegen

import (
	stderrors "errors"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

// Check validates s for the mapper's target. Every problem is collected;
// the result is empty when generation may proceed.
func Check(s *schema.Schema, m typemap.Mapper) *errors.GenerationError {
	problems := schema.Validate(s)
	problems.Target = m.Target()

	c := &checker{schema: s, mapper: m, problems: problems}
	defs := s.Reachable()
	c.declarations(defs)
	c.members(defs)
	c.functions()
	c.cycles(defs)
	return problems
}

type checker struct {
	schema   *schema.Schema
	mapper   typemap.Mapper
	problems *errors.GenerationError
}

// identifiers are checked only for targets that convert names; markdown
// keeps them verbatim.
func (c *checker) converts() bool {
	return c.mapper.Target() != typemap.TargetMarkdown
}

func (c *checker) ident(subject, ident string) bool {
	if !c.converts() {
		return true
	}
	if !typemap.ValidIdent(ident) {
		c.invalid(subject, ident)
		return false
	}
	if c.mapper.Reserved(ident) {
		c.problems.Add(errors.ReservedWord(c.mapper.Target(), subject, ident))
		return false
	}
	return true
}

func (c *checker) invalid(subject, ident string) {
	c.problems.Add(errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
		Target(c.mapper.Target()).
		Subject(subject).
		Detail("%q is not a valid identifier", ident).
		Build())
}

// declarations checks the top-level identifiers of every emitted
// definition against each other. Routine and case names derive from the
// type name, so only the type name is checked against reserved words.
func (c *checker) declarations(defs []*schema.TypeDef) {
	owners := make(map[string]string)
	for _, ident := range c.mapper.Prelude() {
		owners[ident] = "the generated client"
	}
	for _, d := range defs {
		if !c.ident(d.Name, c.mapper.TypeName(d.Name)) {
			continue
		}
		for _, ident := range c.mapper.Declared(d) {
			if c.converts() && !typemap.ValidIdent(ident) {
				c.invalid(d.Name, ident)
				continue
			}
			if owner, taken := owners[ident]; taken {
				c.problems.Add(collision(c.mapper.Target(), d.Name, ident, owner))
				continue
			}
			owners[ident] = d.Name
		}
	}
}

// members checks field names after conversion and that every member type
// has a rendering in the target.
func (c *checker) members(defs []*schema.TypeDef) {
	for _, d := range defs {
		switch k := d.Kind.(type) {
		case *schema.Struct:
			seen := make(map[string]string)
			for _, f := range k.Fields {
				name := c.mapper.FieldName(f.Name)
				if c.converts() && !typemap.ValidIdent(name) {
					c.invalid(d.Name, name)
				}
				if other, taken := seen[name]; taken {
					c.problems.Add(collision(c.mapper.Target(), d.Name, name, "field "+other))
				}
				seen[name] = f.Name
				c.expr(d.Name, f.Type)
			}
		case *schema.Variant:
			for _, cs := range k.Cases {
				if cs.Type != nil {
					c.expr(d.Name, cs.Type)
				}
			}
		case *schema.Alias:
			c.expr(d.Name, k.Target)
		}
	}
}

func (c *checker) functions() {
	qualify := typemap.Qualify(c.schema)
	owners := make(map[string]string)
	for _, f := range c.schema.Functions() {
		subject := f.Qualified()
		name := c.mapper.FuncName(f, qualify)
		if c.ident(subject, name) {
			if owner, taken := owners[name]; taken {
				c.problems.Add(collision(c.mapper.Target(), subject, name, owner))
			} else {
				owners[name] = subject
			}
		}

		params := make(map[string]string)
		for _, p := range f.Params {
			pn := c.mapper.ParamName(p.Name)
			if !c.ident(subject, pn) {
				continue
			}
			if other, taken := params[pn]; taken && other != p.Name {
				c.problems.Add(collision(c.mapper.Target(), subject, pn, "parameter "+other))
			}
			params[pn] = p.Name
			c.expr(subject, p.Type)
		}
		if f.Result != nil {
			c.expr(subject, f.Result)
		}
	}
}

// cycles reports every group of definitions that refer to each other
// without a container the target can hold by reference.
func (c *checker) cycles(defs []*schema.TypeDef) {
	ids := make([]schema.TypeID, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	self := make(map[schema.TypeID]bool)
	edges := func(id schema.TypeID) []schema.TypeID {
		var out []schema.TypeID
		for _, r := range typemap.Refs(c.schema.Type(id)) {
			if r.Guarded(c.mapper) {
				continue
			}
			if r.To == id {
				self[id] = true
			}
			out = append(out, r.To)
		}
		return out
	}
	for _, comp := range components(ids, edges) {
		if len(comp) == 1 && !self[comp[0]] {
			continue
		}
		names := make([]string, len(comp))
		for i, id := range comp {
			names[i] = c.schema.Type(id).Name
		}
		c.problems.Add(errors.TypeCycle(c.mapper.Target(), names))
	}
}

// expr surfaces types the target cannot render, such as over-long Go
// tuples.
func (c *checker) expr(subject string, t schema.Type) {
	if _, err := c.mapper.Expr(t); err != nil {
		var e *errors.Error
		if !stderrors.As(err, &e) {
			e = errors.Wrap(errors.PhaseGenerate, errors.KindUnsupported, err, "render "+t.String())
		}
		if e.Subject == "" {
			e.Subject = subject
		}
		c.problems.Add(e)
	}
}

func collision(target, subject, ident, owner string) *errors.Error {
	return errors.New(errors.PhaseGenerate, errors.KindNameCollision).
		Target(target).
		Subject(subject).
		Detail("identifier %q is also declared by %s", ident, owner).
		Build()
}
