package schema

import (
	"strings"
	"unicode"

	"github.com/wippyai/bindgen/errors"
	"go.bytecodealliance.org/wit"
)

var primitives = map[string]Type{
	"bool": Bool{}, "char": Char{}, "string": String{}, "bytes": Bytes{},
	"u8": U8, "u16": U16, "u32": U32, "u64": U64, "u128": U128,
	"s8": S8, "s16": S16, "s32": S32, "s64": S64, "s128": S128,
	"f32": F32, "f64": F64,
}

// Resolver maps a user type name to a Named reference.
type Resolver func(name string) (Named, bool)

// ParseType parses a type expression such as "list<option<point>>",
// "result<_, string>" or "handle<file, clone>". Primitive names follow WIT;
// "bytes", "u128" and "s128" are accepted in addition.
func ParseType(expr string, resolve Resolver) (Type, error) {
	p := &typeParser{src: expr, resolve: resolve}
	p.next()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok != "" {
		return nil, p.errorf("unexpected %q after type", p.tok)
	}
	return t, nil
}

type typeParser struct {
	resolve Resolver
	src     string
	tok     string
	pos     int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Detail("type %q: "+format, append([]any{p.src}, args...)...).
		Build()
}

func (p *typeParser) next() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.tok = ""
		return
	}
	switch c := p.src[p.pos]; c {
	case '<', '>', ',':
		p.tok = string(c)
		p.pos++
		return
	}
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c != '-' && c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	if p.pos == start {
		p.tok = string(p.src[p.pos])
		p.pos++
		return
	}
	p.tok = p.src[start:p.pos]
}

func (p *typeParser) expect(tok string) error {
	if p.tok != tok {
		if p.tok == "" {
			return p.errorf("expected %q, found end of input", tok)
		}
		return p.errorf("expected %q, found %q", tok, p.tok)
	}
	p.next()
	return nil
}

// args parses "<T, U, ...>" allowing "_" for an absent type.
func (p *typeParser) args() ([]Type, error) {
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	var out []Type
	for {
		if p.tok == "_" {
			p.next()
			out = append(out, nil)
		} else {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		if p.tok == "," {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *typeParser) parseType() (Type, error) {
	name := p.tok
	if name == "" || strings.ContainsAny(name, "<>,") {
		return nil, p.errorf("expected type, found %q", name)
	}
	p.next()

	switch name {
	case "result":
		if p.tok != "<" {
			return Result{}, nil
		}
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		switch len(args) {
		case 1:
			return Result{Ok: args[0]}, nil
		case 2:
			return Result{Ok: args[0], Err: args[1]}, nil
		}
		return nil, p.errorf("result takes one or two type arguments")
	case "list", "option":
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		if len(args) != 1 || args[0] == nil {
			return nil, p.errorf("%s takes exactly one type argument", name)
		}
		if name == "list" {
			return List{Elem: args[0]}, nil
		}
		return Option{Elem: args[0]}, nil
	case "tuple":
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		for _, a := range args {
			if a == nil {
				return nil, p.errorf("tuple elements cannot be omitted")
			}
		}
		return Tuple{Elems: args}, nil
	case "handle", "own", "borrow":
		return p.parseHandle(name)
	}

	if t, ok := primitives[name]; ok {
		return t, nil
	}
	// fall back to whatever else the WIT parser accepts
	if t, err := wit.ParseType(name); err == nil {
		if st, ok := fromWITPrimitive(t); ok {
			return st, nil
		}
	}

	if p.resolve != nil {
		if n, ok := p.resolve(name); ok {
			return n, nil
		}
	}
	return nil, errors.UnresolvedType("", name)
}

func (p *typeParser) parseHandle(kw string) (Type, error) {
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	name := p.tok
	p.next()
	clone := kw == "borrow"
	if kw == "handle" && p.tok == "," {
		p.next()
		if p.tok != "clone" {
			return nil, p.errorf("expected \"clone\", found %q", p.tok)
		}
		p.next()
		clone = true
	}
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	if p.resolve == nil {
		return nil, errors.UnresolvedType("", name)
	}
	n, ok := p.resolve(name)
	if !ok {
		return nil, errors.UnresolvedType("", name)
	}
	return HandleOf(n, clone), nil
}
