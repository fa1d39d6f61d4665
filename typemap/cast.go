package typemap

import (
	"github.com/dave/jennifer/jen"

	"github.com/wippyai/bindgen/schema"
)

// Cast is an integer conversion a call stub applies between the type a
// caller works with and the type on the wire.
type Cast struct {
	From schema.Integer
	To   schema.Integer
	Rule schema.CastRule
}

// Fallible reports whether the conversion needs a run-time bounds check.
func (c Cast) Fallible() bool { return c.Rule == schema.Narrow }

// ParamCast returns the conversion from a parameter's declared `As` type to
// its wire type.
func ParamCast(s *schema.Schema, p schema.Param) (Cast, bool) {
	if p.As == nil {
		return Cast{}, false
	}
	to, ok := s.Resolve(p.Type).(schema.Integer)
	if !ok {
		return Cast{}, false
	}
	return Cast{From: *p.As, To: to, Rule: schema.Conversion(*p.As, to)}, true
}

// ResultCast returns the conversion from a function's wire result to the
// integer type the caller receives.
func ResultCast(s *schema.Schema, f *schema.Function) (Cast, bool) {
	if f.ResultAs == nil || f.Result == nil {
		return Cast{}, false
	}
	from, ok := s.Resolve(f.Result).(schema.Integer)
	if !ok {
		return Cast{}, false
	}
	return Cast{From: from, To: *f.ResultAs, Rule: schema.Conversion(from, *f.ResultAs)}, true
}

// GoCast renders the Go conversion of x. Fallible casts render a call
// returning (value, error).
func GoCast(c Cast, x jen.Code) *jen.Statement {
	name := jen.Lit(c.To.String())
	switch {
	case c.Rule == schema.Identity:
		return jen.Add(x)
	case c.From.Width == 128 && c.To.Width == 128:
		if c.To.Signed {
			return jen.Qual(WirePackage, "U128ToI128").Call(x, name)
		}
		return jen.Qual(WirePackage, "I128ToU128").Call(x, name)
	case c.To.Width == 128:
		switch {
		case c.Rule == schema.Narrow:
			return jen.Qual(WirePackage, "ToU128").Call(x, name)
		case c.To.Signed:
			return jen.Qual(WirePackage, "WidenI128").Call(x)
		default:
			return jen.Qual(WirePackage, "WidenU128").Call(x)
		}
	case c.From.Width == 128:
		fn := "NarrowU128"
		if c.From.Signed {
			fn = "NarrowI128"
		}
		return jen.Qual(WirePackage, fn).Types(goInt(c.To)).Call(x, name)
	case c.Rule == schema.Widen:
		return goInt(c.To).Call(x)
	default:
		return jen.Qual(WirePackage, "Narrow").Types(goInt(c.To)).Call(x, name)
	}
}

// goInt returns the Go type of an integer of at most 64 bits, or the wire
// type for 128 bits.
func goInt(t schema.Integer) *jen.Statement {
	switch {
	case t.Width == 128 && t.Signed:
		return jen.Qual(WirePackage, "Int128")
	case t.Width == 128:
		return jen.Qual(WirePackage, "Uint128")
	case t.Signed:
		switch t.Width {
		case 8:
			return jen.Int8()
		case 16:
			return jen.Int16()
		case 32:
			return jen.Int32()
		}
		return jen.Int64()
	}
	switch t.Width {
	case 8:
		return jen.Uint8()
	case 16:
		return jen.Uint16()
	case 32:
		return jen.Uint32()
	}
	return jen.Uint64()
}

// TSCast renders the TypeScript conversion of x and names the prelude
// helper it needs, if any. Values up to 32 bits are numbers, wider ones
// bigints.
func TSCast(c Cast, x string) (string, string) {
	if c.Rule == schema.Identity {
		return x, ""
	}
	fromBig, toBig := c.From.Width > 32, c.To.Width > 32
	bounds := "\"" + c.To.Min() + "\", \"" + c.To.Max() + "\", \"" + c.To.String() + "\""
	if c.Rule == schema.Widen {
		if fromBig == toBig {
			return x, ""
		}
		return "BigInt(" + x + ")", ""
	}
	switch {
	case !fromBig && !toBig:
		return "castNumber(" + x + ", " + bounds + ")", "castNumber"
	case fromBig && !toBig:
		return "Number(castBigInt(" + x + ", " + bounds + "))", "castBigInt"
	case !fromBig && toBig:
		return "castBigInt(BigInt(" + x + "), " + bounds + ")", "castBigInt"
	default:
		return "castBigInt(" + x + ", " + bounds + ")", "castBigInt"
	}
}
