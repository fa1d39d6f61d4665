// Package testbed holds schemas and host implementations shared by the
// emitter, transport and end-to-end tests.
package testbed

import "github.com/wippyai/bindgen/schema"

// ShopNamespace is the namespace of the Shop schema.
const ShopNamespace = "shop"

// Shop builds a schema exercising every definition kind, both bindings,
// both delivery contracts, parameter and result casts and result folding.
//
//	point    struct { x: f64, y: f64 }
//	item     struct { sku: string, qty: u32, tags: list<string> }, clone
//	color    enum { red, dark-blue }
//	perms    flags { read, write }
//	shape    variant { circle(f64), square(point), empty }
//	outcome  variant { ok(u64), err(string) }
//	file     resource
//
//	add-item(item, count: u64 as u32, color)      structured, awaited
//	draw(shape, limit: u32 as u64) -> point       direct, awaited
//	touch(f: handle<file>, p: perms)              direct, fire-and-forget
//	check(sku: string) -> outcome                 structured, awaited
//	size() -> u64 as u32                          structured, awaited
//	clear() -> result<_, string>                  structured, awaited
func Shop() *schema.Schema {
	b := schema.NewBuilder(ShopNamespace).Docs("Package shop is a test storefront.")
	point := b.Struct("point",
		schema.Field{Name: "x", Type: schema.F64},
		schema.Field{Name: "y", Type: schema.F64},
	)
	item := b.Struct("item",
		schema.Field{Name: "sku", Type: schema.String{}, Docs: "Stock keeping unit."},
		schema.Field{Name: "qty", Type: schema.U32},
		schema.Field{Name: "tags", Type: schema.List{Elem: schema.String{}}},
	)
	b.Def(item).Clone = true
	color := b.Enum("color", "red", "dark-blue")
	perms := b.Flags("perms", "read", "write")
	shape := b.Variant("shape",
		schema.Case{Name: "circle", Type: schema.F64},
		schema.Case{Name: "square", Type: point},
		schema.Case{Name: "empty"},
	)
	outcome := b.Variant("outcome",
		schema.Case{Name: "ok", Type: schema.U64},
		schema.Case{Name: "err", Type: schema.String{}},
	)
	file := b.Resource("file")
	b.CastGroup("counts", schema.U32, schema.U64)

	u32, u64 := schema.U32, schema.U64
	b.Function(&schema.Function{
		Name: "add-item",
		Docs: "AddItem puts an item in the cart.",
		Params: []schema.Param{
			{Name: "item", Type: item},
			{Name: "count", Type: schema.U64, As: &u32},
			{Name: "color", Type: color},
		},
	})
	b.Function(&schema.Function{
		Name:    "draw",
		Binding: schema.Direct,
		Params: []schema.Param{
			{Name: "shape", Type: shape},
			{Name: "limit", Type: schema.U32, As: &u64},
		},
		Result: point,
	})
	b.Function(&schema.Function{
		Name:     "touch",
		Binding:  schema.Direct,
		Delivery: schema.FireAndForget,
		Params: []schema.Param{
			{Name: "f", Type: schema.HandleOf(file, false)},
			{Name: "p", Type: perms},
		},
	})
	b.Function(&schema.Function{
		Name:   "check",
		Params: []schema.Param{{Name: "sku", Type: schema.String{}}},
		Result: outcome,
	})
	b.Function(&schema.Function{
		Name:     "size",
		Result:   schema.U64,
		ResultAs: &u32,
	})
	b.Function(&schema.Function{
		Name:   "clear",
		Result: schema.Result{Err: schema.String{}},
	})
	s, err := b.Build()
	if err != nil {
		panic("testbed: shop schema: " + err.Error())
	}
	return s
}
