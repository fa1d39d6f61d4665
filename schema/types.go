package schema

import (
	"strconv"
	"strings"
)

// Type is a structural type reference. The set of implementations is closed:
// Bool, Integer, Float, Char, String, Bytes, List, Tuple, Option, Result,
// Named and Handle.
type Type interface {
	String() string
	isType()
}

type Bool struct{}

// Integer is a fixed-width integer. Width is one of 8, 16, 32, 64 or 128.
type Integer struct {
	Width  int
	Signed bool
}

// Float is an IEEE-754 binary float of width 32 or 64.
type Float struct {
	Width int
}

// Char is a single Unicode scalar value.
type Char struct{}

type String struct{}

// Bytes is an opaque byte string, distinct from List(u8) on the wire.
type Bytes struct{}

type List struct {
	Elem Type
}

type Tuple struct {
	Elems []Type
}

type Option struct {
	Elem Type
}

// Result is the ok/err sugar. A nil Ok or Err is a unit case.
type Result struct {
	Ok  Type
	Err Type
}

// Named references a TypeDef by identity. Name is carried for display.
type Named struct {
	ID   TypeID
	Name string
}

// Handle references a resource TypeDef.
type Handle struct {
	Resource TypeID
	Name     string
	Clone    bool
}

var (
	U8   = Integer{Width: 8}
	U16  = Integer{Width: 16}
	U32  = Integer{Width: 32}
	U64  = Integer{Width: 64}
	U128 = Integer{Width: 128}
	S8   = Integer{Width: 8, Signed: true}
	S16  = Integer{Width: 16, Signed: true}
	S32  = Integer{Width: 32, Signed: true}
	S64  = Integer{Width: 64, Signed: true}
	S128 = Integer{Width: 128, Signed: true}
	F32  = Float{Width: 32}
	F64  = Float{Width: 64}
)

func (Bool) isType()    {}
func (Integer) isType() {}
func (Float) isType()   {}
func (Char) isType()    {}
func (String) isType()  {}
func (Bytes) isType()   {}
func (List) isType()    {}
func (Tuple) isType()   {}
func (Option) isType()  {}
func (Result) isType()  {}
func (Named) isType()   {}
func (Handle) isType()  {}

func (Bool) String() string { return "bool" }

func (t Integer) String() string {
	if t.Signed {
		return "s" + strconv.Itoa(t.Width)
	}
	return "u" + strconv.Itoa(t.Width)
}

func (t Float) String() string { return "f" + strconv.Itoa(t.Width) }

func (Char) String() string   { return "char" }
func (String) String() string { return "string" }
func (Bytes) String() string  { return "bytes" }

func (t List) String() string { return "list<" + t.Elem.String() + ">" }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "tuple<" + strings.Join(parts, ", ") + ">"
}

func (t Option) String() string { return "option<" + t.Elem.String() + ">" }

func (t Result) String() string {
	switch {
	case t.Ok == nil && t.Err == nil:
		return "result"
	case t.Err == nil:
		return "result<" + t.Ok.String() + ">"
	case t.Ok == nil:
		return "result<_, " + t.Err.String() + ">"
	default:
		return "result<" + t.Ok.String() + ", " + t.Err.String() + ">"
	}
}

func (t Named) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "#" + strconv.Itoa(int(t.ID))
}

func (t Handle) String() string {
	name := t.Name
	if name == "" {
		name = "#" + strconv.Itoa(int(t.Resource))
	}
	if t.Clone {
		return "handle<" + name + ", clone>"
	}
	return "handle<" + name + ">"
}

// Min returns the smallest representable value as a decimal string.
func (t Integer) Min() string {
	if !t.Signed {
		return "0"
	}
	return "-" + pow2(t.Width-1)
}

// Max returns the largest representable value as a decimal string.
func (t Integer) Max() string {
	if t.Signed {
		return pow2minus1(t.Width - 1)
	}
	return pow2minus1(t.Width)
}

// Equal reports structural equality. Named and Handle compare by identity.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Bool, Char, String, Bytes:
		return a == b
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case List:
		y, ok := b.(List)
		return ok && Equal(x.Elem, y.Elem)
	case Option:
		y, ok := b.(Option)
		return ok && Equal(x.Elem, y.Elem)
	case Result:
		y, ok := b.(Result)
		return ok && Equal(x.Ok, y.Ok) && Equal(x.Err, y.Err)
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case Named:
		y, ok := b.(Named)
		return ok && x.ID == y.ID
	case Handle:
		y, ok := b.(Handle)
		return ok && x.Resource == y.Resource && x.Clone == y.Clone
	}
	return false
}

// Walk calls fn for t and every type nested inside it, outermost first.
// Named types are not followed.
func Walk(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch x := t.(type) {
	case List:
		Walk(x.Elem, fn)
	case Option:
		Walk(x.Elem, fn)
	case Result:
		Walk(x.Ok, fn)
		Walk(x.Err, fn)
	case Tuple:
		for _, e := range x.Elems {
			Walk(e, fn)
		}
	}
}

var powCache = map[int]string{
	7: "128", 8: "256", 15: "32768", 16: "65536",
	31: "2147483648", 32: "4294967296",
	63: "9223372036854775808", 64: "18446744073709551616",
	127: "170141183460469231731687303715884105728",
	128: "340282366920938463463374607431768211456",
}

func pow2(n int) string {
	return powCache[n]
}

var pow2minus1Cache = map[int]string{
	7: "127", 8: "255", 15: "32767", 16: "65535",
	31: "2147483647", 32: "4294967295",
	63: "9223372036854775807", 64: "18446744073709551615",
	127: "170141183460469231731687303715884105727",
	128: "340282366920938463463374607431768211455",
}

func pow2minus1(n int) string {
	return pow2minus1Cache[n]
}
