package codegen

import (
	"sort"

	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/typemap"
)

// Unit is one strongly connected group of definitions. Units are emitted
// dependencies first; members of a recursive unit refer to each other
// through named routines.
type Unit struct {
	Defs      []*schema.TypeDef
	Recursive bool
}

// Order returns the definitions reachable from the schema's functions,
// grouped into strongly connected units in dependency order. Ties are
// broken by declaration order.
func Order(s *schema.Schema) []Unit {
	defs := s.Reachable()
	ids := make([]schema.TypeID, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}

	self := make(map[schema.TypeID]bool)
	edges := func(id schema.TypeID) []schema.TypeID {
		d := s.Type(id)
		var out []schema.TypeID
		for _, r := range typemap.Refs(d) {
			if r.To == id {
				self[id] = true
			}
			out = append(out, r.To)
		}
		return out
	}

	var units []Unit
	for _, comp := range components(ids, edges) {
		u := Unit{Recursive: len(comp) > 1 || self[comp[0]]}
		for _, id := range comp {
			u.Defs = append(u.Defs, s.Type(id))
		}
		units = append(units, u)
	}
	return units
}

// Flatten lists the definitions of units in emission order.
func Flatten(units []Unit) []*schema.TypeDef {
	var out []*schema.TypeDef
	for _, u := range units {
		out = append(out, u.Defs...)
	}
	return out
}

// components runs Tarjan's algorithm over nodes. A component is complete
// only after everything it references, so the result lists dependencies
// first. Neighbors are visited in ascending id order and members of a
// component are sorted, which makes the result independent of map order.
func components(nodes []schema.TypeID, edges func(schema.TypeID) []schema.TypeID) [][]schema.TypeID {
	type state struct {
		index, low int
		onStack    bool
	}
	inSet := make(map[schema.TypeID]bool, len(nodes))
	for _, n := range nodes {
		inSet[n] = true
	}

	var (
		out   [][]schema.TypeID
		stack []schema.TypeID
		next  int
	)
	states := make(map[schema.TypeID]*state, len(nodes))

	var connect func(v schema.TypeID)
	connect = func(v schema.TypeID) {
		sv := &state{index: next, low: next, onStack: true}
		states[v] = sv
		next++
		stack = append(stack, v)

		succ := edges(v)
		sort.Slice(succ, func(i, j int) bool { return succ[i] < succ[j] })
		for _, w := range succ {
			if !inSet[w] {
				continue
			}
			sw, seen := states[w]
			if !seen {
				connect(w)
				sv.low = min(sv.low, states[w].low)
			} else if sw.onStack {
				sv.low = min(sv.low, sw.index)
			}
		}

		if sv.low != sv.index {
			return
		}
		var comp []schema.TypeID
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			states[w].onStack = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		out = append(out, comp)
	}

	for _, n := range nodes {
		if _, seen := states[n]; !seen {
			connect(n)
		}
	}
	return out
}
