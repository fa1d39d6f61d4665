package wire

import "fmt"

// Unit is the payload of cases and results that carry no value.
type Unit struct{}

// Marshal encodes v with enc into a fresh buffer.
func Marshal[T any](v T, enc func(*Writer, T)) ([]byte, error) {
	w := NewWriter(64)
	enc(w, v)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes exactly one value from data with dec.
func Unmarshal[T any](data []byte, dec func(*Reader) T) (T, error) {
	r := NewReader(data)
	v := dec(r)
	if err := r.Finish(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ListWriter returns an encoder for a count-prefixed sequence.
func ListWriter[T any](elem func(*Writer, T)) func(*Writer, []T) {
	return func(w *Writer, vs []T) {
		w.WriteLen(len(vs))
		for _, v := range vs {
			elem(w, v)
		}
	}
}

// ListReader returns a decoder matching ListWriter.
func ListReader[T any](elem func(*Reader) T) func(*Reader) []T {
	return func(r *Reader) []T {
		n := r.ReadCount()
		if r.Err() != nil {
			return nil
		}
		out := make([]T, 0, min(n, r.Remaining()))
		for i := 0; i < n; i++ {
			v := elem(r)
			if r.Err() != nil {
				return nil
			}
			out = append(out, v)
		}
		return out
	}
}

// OptionWriter encodes nil as case 0 and a present value as case 1.
func OptionWriter[T any](elem func(*Writer, T)) func(*Writer, *T) {
	return func(w *Writer, v *T) {
		if v == nil {
			w.WriteTag(0)
			return
		}
		w.WriteTag(1)
		elem(w, *v)
	}
}

// OptionReader returns a decoder matching OptionWriter.
func OptionReader[T any](elem func(*Reader) T) func(*Reader) *T {
	return func(r *Reader) *T {
		if r.ReadTag(2) == 0 || r.Err() != nil {
			return nil
		}
		v := elem(r)
		if r.Err() != nil {
			return nil
		}
		return &v
	}
}

// Result is a two-case value: Ok when IsErr is false, Err otherwise.
type Result[T, E any] struct {
	Ok    T
	Err   E
	IsErr bool
}

// Ok builds a successful Result.
func Ok[T, E any](v T) Result[T, E] { return Result[T, E]{Ok: v} }

// Err builds a failed Result.
func Err[T, E any](e E) Result[T, E] { return Result[T, E]{Err: e, IsErr: true} }

// Unwrap returns the ok value, or the err payload as an *ErrorResult.
func (r Result[T, E]) Unwrap() (T, error) {
	if r.IsErr {
		var zero T
		return zero, &ErrorResult[E]{Value: r.Err}
	}
	return r.Ok, nil
}

// ErrorResult carries the err payload of a result returned by a call.
type ErrorResult[E any] struct {
	Value E
}

func (e *ErrorResult[E]) Error() string {
	if err, ok := any(e.Value).(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("error result: %v", e.Value)
}

// ResultWriter encodes a Result. A nil payload encoder means the case
// carries no bytes.
func ResultWriter[T, E any](ok func(*Writer, T), err func(*Writer, E)) func(*Writer, Result[T, E]) {
	return func(w *Writer, v Result[T, E]) {
		if !v.IsErr {
			w.WriteTag(0)
			if ok != nil {
				ok(w, v.Ok)
			}
			return
		}
		w.WriteTag(1)
		if err != nil {
			err(w, v.Err)
		}
	}
}

// ResultReader returns a decoder matching ResultWriter.
func ResultReader[T, E any](ok func(*Reader) T, err func(*Reader) E) func(*Reader) Result[T, E] {
	return func(r *Reader) Result[T, E] {
		var out Result[T, E]
		switch r.ReadTag(2) {
		case 0:
			if ok != nil && r.Err() == nil {
				out.Ok = ok(r)
			}
		case 1:
			out.IsErr = true
			if err != nil && r.Err() == nil {
				out.Err = err(r)
			}
		}
		return out
	}
}

// Primitive codecs in function form for composition.
func WriteBool(w *Writer, v bool)         { w.WriteBool(v) }
func WriteU8(w *Writer, v uint8)          { w.WriteU8(v) }
func WriteU16(w *Writer, v uint16)        { w.WriteU16(v) }
func WriteU32(w *Writer, v uint32)        { w.WriteU32(v) }
func WriteU64(w *Writer, v uint64)        { w.WriteU64(v) }
func WriteU128(w *Writer, v Uint128)      { w.WriteU128(v) }
func WriteS8(w *Writer, v int8)           { w.WriteS8(v) }
func WriteS16(w *Writer, v int16)         { w.WriteS16(v) }
func WriteS32(w *Writer, v int32)         { w.WriteS32(v) }
func WriteS64(w *Writer, v int64)         { w.WriteS64(v) }
func WriteS128(w *Writer, v Int128)       { w.WriteS128(v) }
func WriteF32(w *Writer, v float32)       { w.WriteF32(v) }
func WriteF64(w *Writer, v float64)       { w.WriteF64(v) }
func WriteChar(w *Writer, v rune)         { w.WriteChar(v) }
func WriteString(w *Writer, v string)     { w.WriteString(v) }
func WriteBytes(w *Writer, v []byte)      { w.WriteBytes(v) }
func WriteHandle(w *Writer, v ResourceID) { w.WriteHandle(v) }

func ReadBool(r *Reader) bool         { return r.ReadBool() }
func ReadU8(r *Reader) uint8          { return r.ReadU8() }
func ReadU16(r *Reader) uint16        { return r.ReadU16() }
func ReadU32(r *Reader) uint32        { return r.ReadU32() }
func ReadU64(r *Reader) uint64        { return r.ReadU64() }
func ReadU128(r *Reader) Uint128      { return r.ReadU128() }
func ReadS8(r *Reader) int8           { return r.ReadS8() }
func ReadS16(r *Reader) int16         { return r.ReadS16() }
func ReadS32(r *Reader) int32         { return r.ReadS32() }
func ReadS64(r *Reader) int64         { return r.ReadS64() }
func ReadS128(r *Reader) Int128       { return r.ReadS128() }
func ReadF32(r *Reader) float32       { return r.ReadF32() }
func ReadF64(r *Reader) float64       { return r.ReadF64() }
func ReadChar(r *Reader) rune         { return r.ReadChar() }
func ReadString(r *Reader) string     { return r.ReadString() }
func ReadBytes(r *Reader) []byte      { return r.ReadBytes() }
func ReadHandle(r *Reader) ResourceID { return r.ReadHandle() }
