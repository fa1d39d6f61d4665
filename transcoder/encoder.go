package transcoder

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
	"github.com/wippyai/bindgen/transcoder/internal/coerce"
	"github.com/wippyai/bindgen/wire"
)

// MaxDepth bounds value nesting on both encode and decode.
const MaxDepth = 512

var typeName = coerce.TypeName

type Encoder struct {
	compiler *Compiler
}

func NewEncoder(s *schema.Schema) *Encoder {
	return &Encoder{compiler: NewCompiler(s)}
}

func NewEncoderWithCompiler(c *Compiler) *Encoder {
	return &Encoder{compiler: c}
}

// Encode returns the wire encoding of value as type t.
func (e *Encoder) Encode(t schema.Type, value any) ([]byte, error) {
	w := getWriter()
	defer putWriter(w)
	if err := e.EncodeTo(w, t, value); err != nil {
		return nil, err
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// EncodeTo appends the encoding of value to w.
func (e *Encoder) EncodeTo(w *wire.Writer, t schema.Type, value any) error {
	p, err := e.compiler.Compile(t)
	if err != nil {
		return err
	}
	return e.encode(w, p, value, nil, 0)
}

func withPath(err error, path []string) error {
	if e, ok := err.(*errors.Error); ok && e.Path == nil && len(path) > 0 {
		e.Path = path
	}
	return err
}

func mismatch(path []string, value any, p *Plan) error {
	return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), p.Name)
}

func (e *Encoder) encode(w *wire.Writer, p *Plan, value any, path []string, depth int) error {
	if depth > MaxDepth {
		return errors.InvalidData(errors.PhaseEncode, path, "value nested deeper than "+strconv.Itoa(MaxDepth))
	}

	switch p.Kind {
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return mismatch(path, value, p)
		}
		w.WriteBool(b)
		return nil

	case KindU8, KindU16, KindU32, KindU64:
		v, ok := coerce.Uint64(value)
		if !ok || (p.Kind.Width() < 64 && v > 1<<uint(p.Kind.Width())-1) {
			return intError(path, value, p)
		}
		w.WriteUvarint(v)
		return nil

	case KindS8, KindS16, KindS32, KindS64:
		v, ok := coerce.Int64(value)
		width := p.Kind.Width()
		if !ok || (width < 64 && (v < -1<<uint(width-1) || v > 1<<uint(width-1)-1)) {
			return intError(path, value, p)
		}
		w.WriteSvarint(v, width)
		return nil

	case KindU128:
		if u, ok := value.(wire.Uint128); ok {
			w.WriteU128(u)
			return nil
		}
		b, ok := coerce.Integer(value)
		if !ok {
			return mismatch(path, value, p)
		}
		u, ok := wire.Uint128FromBig(b)
		if !ok {
			return errors.RangeViolation(path, b, p.Name)
		}
		w.WriteU128(u)
		return nil

	case KindS128:
		if i, ok := value.(wire.Int128); ok {
			w.WriteS128(i)
			return nil
		}
		b, ok := coerce.Integer(value)
		if !ok {
			return mismatch(path, value, p)
		}
		i, ok := wire.Int128FromBig(b)
		if !ok {
			return errors.RangeViolation(path, b, p.Name)
		}
		w.WriteS128(i)
		return nil

	case KindF32:
		f, ok := coerce.Float64(value)
		if !ok {
			return mismatch(path, value, p)
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return errors.RangeViolation(path, value, p.Name)
		}
		w.WriteF32(float32(f))
		return nil

	case KindF64:
		f, ok := coerce.Float64(value)
		if !ok {
			return mismatch(path, value, p)
		}
		w.WriteF64(f)
		return nil

	case KindChar:
		var r rune
		switch v := value.(type) {
		case rune:
			r = v
		case string:
			c, size := utf8.DecodeRuneInString(v)
			if size == 0 || size != len(v) {
				return errors.InvalidData(errors.PhaseEncode, path, "char needs exactly one code point, got "+strconv.Quote(v))
			}
			r = c
		default:
			return mismatch(path, value, p)
		}
		w.WriteChar(r)
		return withPath(w.Err(), path)

	case KindString:
		s, ok := value.(string)
		if !ok {
			return mismatch(path, value, p)
		}
		w.WriteString(s)
		return withPath(w.Err(), path)

	case KindBytes:
		switch v := value.(type) {
		case []byte:
			w.WriteBytes(v)
		case string:
			w.WriteBytes([]byte(v))
		default:
			return mismatch(path, value, p)
		}
		return nil

	case KindList:
		return e.encodeList(w, p, value, path, depth)
	case KindTuple:
		return e.encodeTuple(w, p, value, path, depth)
	case KindStruct:
		return e.encodeStruct(w, p, value, path, depth)
	case KindVariant:
		return e.encodeVariant(w, p, value, path, depth)
	case KindOption:
		return e.encodeOption(w, p, value, path, depth)
	case KindResult:
		return e.encodeResult(w, p, value, path, depth)
	case KindEnum:
		return e.encodeEnum(w, p, value, path)
	case KindFlags:
		return e.encodeFlags(w, p, value, path)

	case KindHandle:
		v, ok := coerce.Uint64(value)
		if !ok || v > math.MaxUint32 {
			return intError(path, value, p)
		}
		w.WriteHandle(wire.ResourceID(v))
		return nil
	}

	return errors.New(errors.PhaseEncode, errors.KindUnsupported).
		Path(path...).
		Detail("unsupported kind: %s", p.Kind).
		Build()
}

// intError distinguishes a number out of range from a value that is not a
// number at all.
func intError(path []string, value any, p *Plan) error {
	if b, ok := coerce.Integer(value); ok {
		return errors.RangeViolation(path, b, p.Name)
	}
	return mismatch(path, value, p)
}

func (e *Encoder) encodeList(w *wire.Writer, p *Plan, value any, path []string, depth int) error {
	switch v := value.(type) {
	case []any:
		w.WriteLen(len(v))
		for i, item := range v {
			if err := e.encode(w, p.Elem, item, extend(path, "["+strconv.Itoa(i)+"]"), depth+1); err != nil {
				return err
			}
		}
		return nil
	case []byte:
		if p.Elem.Kind == KindU8 {
			w.WriteLen(len(v))
			for _, b := range v {
				w.WriteU8(b)
			}
			return nil
		}
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return mismatch(path, value, p)
	}
	n := rv.Len()
	w.WriteLen(n)
	for i := 0; i < n; i++ {
		if err := e.encode(w, p.Elem, rv.Index(i).Interface(), extend(path, "["+strconv.Itoa(i)+"]"), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeTuple(w *wire.Writer, p *Plan, value any, path []string, depth int) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return mismatch(path, value, p)
	}
	if rv.Len() != len(p.Fields) {
		return errors.InvalidData(errors.PhaseEncode, path,
			"tuple needs "+strconv.Itoa(len(p.Fields))+" elements, got "+strconv.Itoa(rv.Len()))
	}
	for i, f := range p.Fields {
		if err := e.encode(w, f.Plan, rv.Index(i).Interface(), extend(path, strconv.Itoa(i)), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeStruct(w *wire.Writer, p *Plan, value any, path []string, depth int) error {
	if m, ok := value.(map[string]any); ok {
		for _, f := range p.Fields {
			fv, ok := m[f.Name]
			if !ok {
				return errors.FieldMissing(errors.PhaseEncode, path, f.Name)
			}
			if err := e.encode(w, f.Plan, fv, extend(path, f.Name), depth+1); err != nil {
				return err
			}
		}
		if len(m) > len(p.Fields) {
			for k := range m {
				if !hasField(p, k) {
					return errors.FieldUnknown(errors.PhaseEncode, path, k)
				}
			}
		}
		return nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return mismatch(path, value, p)
	}
	for _, f := range p.Fields {
		gf, ok := findGoField(rv.Type(), f.Name)
		if !ok {
			return errors.FieldMissing(errors.PhaseEncode, path, f.Name)
		}
		if err := e.encode(w, f.Plan, rv.FieldByIndex(gf.Index).Interface(), extend(path, f.Name), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func hasField(p *Plan, name string) bool {
	for _, f := range p.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// findGoField matches by: 1) wire:"name" tag, 2) case-insensitive, 3) kebab-case of the Go name.
func findGoField(goType reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < goType.NumField(); i++ {
		field := goType.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag := field.Tag.Get("wire"); tag != "" {
			if tag == "-" {
				continue
			}
			if tag == name {
				return field, true
			}
		}
		if strings.EqualFold(field.Name, name) || toKebabCase(field.Name) == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

func toKebabCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteByte('-')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func (e *Encoder) encodeVariant(w *wire.Writer, p *Plan, value any, path []string, depth int) error {
	var name string
	var payload any
	switch v := value.(type) {
	case Variant:
		name, payload = v.Case, v.Value
	case *Variant:
		if v == nil {
			return mismatch(path, value, p)
		}
		name, payload = v.Case, v.Value
	case string:
		name = v
	case map[string]any:
		tag, ok := v["tag"].(string)
		if !ok {
			return errors.FieldMissing(errors.PhaseEncode, path, "tag")
		}
		name, payload = tag, v["val"]
	default:
		return mismatch(path, value, p)
	}

	idx, ok := p.CaseIndex(name)
	if !ok {
		return errors.InvalidData(errors.PhaseEncode, path, "unknown case "+strconv.Quote(name)+" of "+p.Name)
	}
	w.WriteTag(uint32(idx))
	c := p.Cases[idx]
	if c.Plan == nil {
		if payload != nil {
			return errors.InvalidData(errors.PhaseEncode, path, "case "+name+" carries no payload")
		}
		return nil
	}
	return e.encode(w, c.Plan, payload, extend(path, name), depth+1)
}

func (e *Encoder) encodeOption(w *wire.Writer, p *Plan, value any, path []string, depth int) error {
	switch v := value.(type) {
	case nil:
		w.WriteTag(0)
		return nil
	case Optional:
		if !v.Valid {
			w.WriteTag(0)
			return nil
		}
		w.WriteTag(1)
		return e.encode(w, p.Elem, v.Value, path, depth+1)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			w.WriteTag(0)
			return nil
		}
		value = rv.Elem().Interface()
	}
	w.WriteTag(1)
	return e.encode(w, p.Elem, value, path, depth+1)
}

func (e *Encoder) encodeResult(w *wire.Writer, p *Plan, value any, path []string, depth int) error {
	var isErr bool
	var payload any
	switch v := value.(type) {
	case Outcome:
		isErr, payload = v.IsErr, v.Value
	case map[string]any:
		okVal, hasOk := v["ok"]
		errVal, hasErr := v["err"]
		if hasOk == hasErr || len(v) != 1 {
			return errors.InvalidData(errors.PhaseEncode, path, `result needs exactly one of "ok" or "err"`)
		}
		if hasErr {
			isErr, payload = true, errVal
		} else {
			payload = okVal
		}
	default:
		return mismatch(path, value, p)
	}

	target, seg := p.Ok, "ok"
	if isErr {
		w.WriteTag(1)
		target, seg = p.Err, "err"
	} else {
		w.WriteTag(0)
	}
	if target == nil {
		if payload != nil {
			return errors.InvalidData(errors.PhaseEncode, path, seg+" case carries no payload")
		}
		return nil
	}
	return e.encode(w, target, payload, extend(path, seg), depth+1)
}

func (e *Encoder) encodeEnum(w *wire.Writer, p *Plan, value any, path []string) error {
	if s, ok := value.(string); ok {
		idx, found := p.Label(s)
		if !found {
			return errors.InvalidData(errors.PhaseEncode, path, "unknown case "+strconv.Quote(s)+" of "+p.Name)
		}
		w.WriteTag(uint32(idx))
		return nil
	}
	n, ok := coerce.Uint64(value)
	if !ok {
		return mismatch(path, value, p)
	}
	if n >= uint64(len(p.Labels)) {
		return errors.InvalidData(errors.PhaseEncode, path,
			"ordinal "+strconv.FormatUint(n, 10)+" out of range for "+strconv.Itoa(len(p.Labels))+" cases")
	}
	w.WriteTag(uint32(n))
	return nil
}

func (e *Encoder) encodeFlags(w *wire.Writer, p *Plan, value any, path []string) error {
	var names []string
	switch v := value.(type) {
	case []string:
		names = v
	case []any:
		names = make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return errors.TypeMismatch(errors.PhaseEncode, extend(path, strconv.Itoa(i)), typeName(item), "flag name")
			}
			names[i] = s
		}
	default:
		return mismatch(path, value, p)
	}

	var bits wire.Uint128
	for _, name := range names {
		idx, ok := p.Label(name)
		if !ok {
			return errors.InvalidData(errors.PhaseEncode, path, "unknown flag "+strconv.Quote(name)+" of "+p.Name)
		}
		if idx < 64 {
			bits.Lo |= 1 << uint(idx)
		} else {
			bits.Hi |= 1 << uint(idx-64)
		}
	}
	if p.Width == 128 {
		w.WriteU128(bits)
	} else {
		w.WriteUvarint(bits.Lo)
	}
	return nil
}
