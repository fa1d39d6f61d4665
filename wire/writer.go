package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wippyai/bindgen/errors"
)

// ResourceID identifies a host resource referenced through a handle.
type ResourceID uint32

// Writer appends wire encodings to a growing buffer. The first failure is
// kept and every later write is a no-op; check Err before using Bytes.
type Writer struct {
	err error
	buf []byte
}

// NewWriter returns a Writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the encoded bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Err returns the first encoding failure.
func (w *Writer) Err() error { return w.err }

// Fail records err unless a failure is already recorded.
func (w *Writer) Fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Reset empties the buffer and clears the error.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.err = nil
}

func (w *Writer) WriteBool(v bool) {
	if w.err != nil {
		return
	}
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteUvarint writes v as a canonical varint.
func (w *Writer) WriteUvarint(v uint64) {
	if w.err != nil {
		return
	}
	w.buf = AppendUvarint(w.buf, v)
}

// WriteSvarint writes the zigzag encoding of v at the given width.
func (w *Writer) WriteSvarint(v int64, width int) {
	w.WriteUvarint(ZigZag(v, width))
}

func (w *Writer) WriteU8(v uint8)   { w.WriteUvarint(uint64(v)) }
func (w *Writer) WriteU16(v uint16) { w.WriteUvarint(uint64(v)) }
func (w *Writer) WriteU32(v uint32) { w.WriteUvarint(uint64(v)) }
func (w *Writer) WriteU64(v uint64) { w.WriteUvarint(v) }

func (w *Writer) WriteU128(v Uint128) {
	if w.err != nil {
		return
	}
	w.buf = AppendUvarint128(w.buf, v)
}

func (w *Writer) WriteS8(v int8)     { w.WriteSvarint(int64(v), 8) }
func (w *Writer) WriteS16(v int16)   { w.WriteSvarint(int64(v), 16) }
func (w *Writer) WriteS32(v int32)   { w.WriteSvarint(int64(v), 32) }
func (w *Writer) WriteS64(v int64)   { w.WriteSvarint(v, 64) }
func (w *Writer) WriteS128(v Int128) { w.WriteU128(ZigZag128(v)) }

// Canonical NaN bit patterns; every NaN is written as one of these.
const (
	CanonicalNaN32 = 0x7fc00000
	CanonicalNaN64 = 0x7ff8000000000000
)

func (w *Writer) WriteF32(v float32) {
	if w.err != nil {
		return
	}
	bits := math.Float32bits(v)
	if v != v {
		bits = CanonicalNaN32
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, bits)
}

func (w *Writer) WriteF64(v float64) {
	if w.err != nil {
		return
	}
	bits := math.Float64bits(v)
	if v != v {
		bits = CanonicalNaN64
	}
	w.buf = binary.LittleEndian.AppendUint64(w.buf, bits)
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	if !utf8.ValidString(s) {
		w.Fail(errors.InvalidUTF8(errors.PhaseEncode, nil, []byte(s)))
		return
	}
	w.WriteLen(len(s))
	w.buf = append(w.buf, s...)
}

// WriteChar writes a single code point as a one-character string.
func (w *Writer) WriteChar(r rune) {
	if w.err != nil {
		return
	}
	if !utf8.ValidRune(r) {
		w.Fail(errors.InvalidData(errors.PhaseEncode, nil, fmt.Sprintf("invalid code point %U", r)))
		return
	}
	w.WriteLen(utf8.RuneLen(r))
	w.buf = utf8.AppendRune(w.buf, r)
}

// WriteBytes writes a length-prefixed raw byte string.
func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	w.WriteLen(len(b))
	w.buf = append(w.buf, b...)
}

// WriteLen writes a length or element count.
func (w *Writer) WriteLen(n int) { w.WriteUvarint(uint64(n)) }

// WriteTag writes a variant discriminant or enum ordinal.
func (w *Writer) WriteTag(tag uint32) { w.WriteUvarint(uint64(tag)) }

func (w *Writer) WriteHandle(id ResourceID) { w.WriteUvarint(uint64(id)) }

// WriteEnum writes an enum ordinal, failing for values past the last case.
func (w *Writer) WriteEnum(ordinal uint32, cases int) {
	if uint64(ordinal) >= uint64(cases) {
		e := errors.InvalidTag(nil, uint64(ordinal), cases)
		e.Phase = errors.PhaseEncode
		w.Fail(e)
		return
	}
	w.WriteTag(ordinal)
}

// WriteFlags writes a flags value of at most 64 flags, failing when bits
// beyond the first count are set.
func (w *Writer) WriteFlags(v uint64, count int) {
	if count < 64 && v>>uint(count) != 0 {
		w.Fail(errors.InvalidData(errors.PhaseEncode, nil, fmt.Sprintf("flags value %#x has bits set beyond its %d flags", v, count)))
		return
	}
	w.WriteUvarint(v)
}

// WriteFlags128 is WriteFlags for sets of more than 64 flags.
func (w *Writer) WriteFlags128(v Uint128, count int) {
	if count < 128 && v.Hi>>uint(count-64) != 0 {
		w.Fail(errors.InvalidData(errors.PhaseEncode, nil, fmt.Sprintf("flags value %v has bits set beyond its %d flags", v, count)))
		return
	}
	w.WriteU128(v)
}

// FailCase records a variant value that is none of the type's cases, such
// as a nil interface.
func (w *Writer) FailCase(typeName string, v any) {
	w.Fail(errors.InvalidData(errors.PhaseEncode, nil, fmt.Sprintf("%T is not a case of %s", v, typeName)))
}
