package wire

import (
	"strconv"

	"github.com/wippyai/bindgen/errors"
)

// MaxVarintLen returns the maximum number of 7-bit groups a width-bit
// integer occupies: ceil(width / 7).
func MaxVarintLen(width int) int {
	return (width + 6) / 7
}

// AppendUvarint appends the canonical LEB128 encoding of v.
func AppendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// UvarintLen returns the encoded length of v.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodeUvarint decodes a canonical varint of at most width bits (8..64)
// from the start of data and returns the value and the bytes consumed.
// Trailing zero groups, more than MaxVarintLen groups and bits beyond width
// are rejected.
func DecodeUvarint(data []byte, width int) (uint64, int, error) {
	limit := MaxVarintLen(width)
	var v uint64
	var shift uint
	for i := 0; i < limit; i++ {
		if i >= len(data) {
			return 0, 0, errors.TruncatedInput(nil, i+1, len(data))
		}
		b := data[i]
		g := uint64(b & 0x7f)
		if shift > 0 && g>>(64-shift) != 0 {
			return 0, 0, overflowErr(width)
		}
		v |= g << shift
		if b < 0x80 {
			if i > 0 && b == 0 {
				return 0, 0, errors.NonCanonical(nil, "varint has a trailing zero group")
			}
			if width < 64 && v>>uint(width) != 0 {
				return 0, 0, overflowErr(width)
			}
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.NonCanonical(nil, "varint longer than "+strconv.Itoa(limit)+" groups for "+strconv.Itoa(width)+" bits")
}

// AppendUvarint128 appends the canonical LEB128 encoding of a 128-bit value.
func AppendUvarint128(buf []byte, v Uint128) []byte {
	for v.Hi != 0 || v.Lo >= 0x80 {
		buf = append(buf, byte(v.Lo)|0x80)
		v = v.rsh7()
	}
	return append(buf, byte(v.Lo))
}

// DecodeUvarint128 decodes a canonical varint of at most 128 bits.
func DecodeUvarint128(data []byte) (Uint128, int, error) {
	limit := MaxVarintLen(128)
	var v Uint128
	var shift uint
	for i := 0; i < limit; i++ {
		if i >= len(data) {
			return Uint128{}, 0, errors.TruncatedInput(nil, i+1, len(data))
		}
		b := data[i]
		g := uint64(b & 0x7f)
		switch {
		case shift < 64:
			v.Lo |= g << shift
			if shift > 57 {
				v.Hi |= g >> (64 - shift)
			}
		default:
			if shift > 121 && g>>(128-shift) != 0 {
				return Uint128{}, 0, overflowErr(128)
			}
			v.Hi |= g << (shift - 64)
		}
		if b < 0x80 {
			if i > 0 && b == 0 {
				return Uint128{}, 0, errors.NonCanonical(nil, "varint has a trailing zero group")
			}
			return v, i + 1, nil
		}
		shift += 7
	}
	return Uint128{}, 0, errors.NonCanonical(nil, "varint longer than 19 groups for 128 bits")
}

func overflowErr(width int) error {
	return errors.NonCanonical(nil, "varint exceeds "+strconv.Itoa(width)+" bits")
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// ZigZag maps a signed value of the given width onto [0, 2^width-1].
func ZigZag(n int64, width int) uint64 {
	return uint64((n<<1)^(n>>(uint(width)-1))) & mask(width)
}

// UnZigZag inverts ZigZag. Bits of u beyond width are ignored.
func UnZigZag(u uint64, width int) int64 {
	u &= mask(width)
	return int64(u>>1) ^ -int64(u&1)
}

// ZigZag128 maps a signed 128-bit value onto the unsigned range.
func ZigZag128(n Int128) Uint128 {
	shifted := Uint128{Hi: n.Hi<<1 | n.Lo>>63, Lo: n.Lo << 1}
	if n.Negative() {
		return Uint128{Hi: ^shifted.Hi, Lo: ^shifted.Lo}
	}
	return shifted
}

// UnZigZag128 inverts ZigZag128.
func UnZigZag128(u Uint128) Int128 {
	half := Int128{Hi: u.Hi >> 1, Lo: u.Lo>>1 | u.Hi<<63}
	if u.Lo&1 == 1 {
		return Int128{Hi: ^half.Hi, Lo: ^half.Lo}
	}
	return half
}
