package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wippyai/bindgen/errors"
)

// Decoder safety limits.
const (
	MaxStringSize = 16 << 20 // bytes in one string or byte string
	MaxListLength = 1 << 20  // elements in one list
)

// Reader consumes wire encodings from a byte slice. Like Writer it keeps the
// first failure; reads after a failure return zero values.
type Reader struct {
	err  error
	data []byte
	off  int
}

// NewReader returns a Reader over data. The slice is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first decoding failure.
func (r *Reader) Err() error { return r.err }

// Fail records err unless a failure is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// Finish returns the first failure, or a trailing_payload error when bytes
// are left over after a complete value.
func (r *Reader) Finish() error {
	if r.err != nil {
		return r.err
	}
	if n := r.Remaining(); n > 0 {
		return errors.New(errors.PhaseDecode, errors.KindTrailingPayload).
			Detail("%d bytes after value at offset %d", n, r.off).
			Build()
	}
	return nil
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > r.Remaining() {
		r.Fail(errors.TruncatedInput(nil, n, r.Remaining()))
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// ReadUvarint reads a canonical varint of at most width bits.
func (r *Reader) ReadUvarint(width int) uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := DecodeUvarint(r.data[r.off:], width)
	if err != nil {
		r.Fail(err)
		return 0
	}
	r.off += n
	return v
}

// ReadSvarint reads a zigzag varint of the given width.
func (r *Reader) ReadSvarint(width int) int64 {
	return UnZigZag(r.ReadUvarint(width), width)
}

func (r *Reader) ReadBool() bool {
	b := r.take(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	}
	r.Fail(errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("bool byte %#02x", b[0])))
	return false
}

func (r *Reader) ReadU8() uint8   { return uint8(r.ReadUvarint(8)) }
func (r *Reader) ReadU16() uint16 { return uint16(r.ReadUvarint(16)) }
func (r *Reader) ReadU32() uint32 { return uint32(r.ReadUvarint(32)) }
func (r *Reader) ReadU64() uint64 { return r.ReadUvarint(64) }

func (r *Reader) ReadU128() Uint128 {
	if r.err != nil {
		return Uint128{}
	}
	v, n, err := DecodeUvarint128(r.data[r.off:])
	if err != nil {
		r.Fail(err)
		return Uint128{}
	}
	r.off += n
	return v
}

func (r *Reader) ReadS8() int8   { return int8(r.ReadSvarint(8)) }
func (r *Reader) ReadS16() int16 { return int16(r.ReadSvarint(16)) }
func (r *Reader) ReadS32() int32 { return int32(r.ReadSvarint(32)) }
func (r *Reader) ReadS64() int64 { return r.ReadSvarint(64) }

func (r *Reader) ReadS128() Int128 { return UnZigZag128(r.ReadU128()) }

func (r *Reader) ReadF32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *Reader) ReadF64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// ReadLen reads a length prefix or element count.
func (r *Reader) ReadLen() int {
	n := r.ReadUvarint(32)
	if r.err != nil {
		return 0
	}
	return int(n)
}

func (r *Reader) readSized(limit int, what string) []byte {
	n := r.ReadLen()
	if r.err != nil {
		return nil
	}
	if n > r.Remaining() {
		r.Fail(errors.TruncatedInput(nil, n, r.Remaining()))
		return nil
	}
	if n > limit {
		r.Fail(errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("%s length %d exceeds %d", what, n, limit)))
		return nil
	}
	return r.take(n)
}

func (r *Reader) ReadString() string {
	b := r.readSized(MaxStringSize, "string")
	if b == nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.Fail(errors.InvalidUTF8(errors.PhaseDecode, nil, b))
		return ""
	}
	return string(b)
}

// ReadBytes reads a length-prefixed byte string into a fresh slice.
func (r *Reader) ReadBytes() []byte {
	b := r.readSized(MaxStringSize, "bytes")
	if r.err != nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (r *Reader) ReadChar() rune {
	s := r.ReadString()
	if r.err != nil {
		return 0
	}
	c, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		r.Fail(errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("char must hold exactly one code point, got %q", s)))
		return 0
	}
	return c
}

// ReadCount reads a list element count, bounded by MaxListLength. A count
// above the bound that also exceeds the remaining bytes is reported as
// truncated input; zero-sized elements keep smaller counts valid.
func (r *Reader) ReadCount() int {
	n := r.ReadLen()
	if r.err != nil {
		return 0
	}
	if n > MaxListLength && n > r.Remaining() {
		r.Fail(errors.TruncatedInput(nil, n, r.Remaining()))
		return 0
	}
	if n > MaxListLength {
		r.Fail(errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("list length %d exceeds %d", n, MaxListLength)))
		return 0
	}
	return n
}

// ReadTag reads a discriminant and checks it against the number of cases.
func (r *Reader) ReadTag(cases int) uint32 {
	tag := r.ReadUvarint(32)
	if r.err != nil {
		return 0
	}
	if tag >= uint64(cases) {
		r.Fail(errors.InvalidTag(nil, tag, cases))
		return 0
	}
	return uint32(tag)
}

func (r *Reader) ReadHandle() ResourceID { return ResourceID(r.ReadUvarint(32)) }

// ReadFlags reads a flags value of the given representation width and
// rejects bits beyond the first count.
func (r *Reader) ReadFlags(width, count int) uint64 {
	v := r.ReadUvarint(width)
	if r.err != nil {
		return 0
	}
	if count < 64 && v>>uint(count) != 0 {
		r.Fail(unknownFlags(v, count))
		return 0
	}
	return v
}

// ReadFlags128 is ReadFlags for sets of more than 64 flags.
func (r *Reader) ReadFlags128(count int) Uint128 {
	v := r.ReadU128()
	if r.err != nil {
		return Uint128{}
	}
	if count < 128 && v.Hi>>uint(count-64) != 0 {
		r.Fail(unknownFlags(v, count))
		return Uint128{}
	}
	return v
}

func unknownFlags(v any, count int) error {
	return errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf("flags value %v has bits set beyond its %d flags", v, count))
}
