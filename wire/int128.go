package wire

import (
	"math/big"
	"math/bits"
)

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi, Lo uint64
}

// Int128 is a signed 128-bit integer in two's complement.
type Int128 struct {
	Hi, Lo uint64
}

// U128 widens a uint64.
func U128(v uint64) Uint128 { return Uint128{Lo: v} }

// I128 widens an int64 with sign extension.
func I128(v int64) Int128 {
	hi := uint64(0)
	if v < 0 {
		hi = ^uint64(0)
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// I128FromU64 widens a uint64 into the signed range.
func I128FromU64(v uint64) Int128 { return Int128{Lo: v} }

func (u Uint128) rsh7() Uint128 {
	return Uint128{Hi: u.Hi >> 7, Lo: u.Lo>>7 | u.Hi<<57}
}

// IsZero reports whether u is zero.
func (u Uint128) IsZero() bool { return u.Hi == 0 && u.Lo == 0 }

// Cmp compares u and v and returns -1, 0 or +1.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// Add returns u+v, wrapping on overflow.
func (u Uint128) Add(v Uint128) Uint128 {
	lo, carry := bits.Add64(u.Lo, v.Lo, 0)
	hi, _ := bits.Add64(u.Hi, v.Hi, carry)
	return Uint128{Hi: hi, Lo: lo}
}

// Big converts u to a big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string { return u.Big().String() }

// Negative reports whether i is below zero.
func (i Int128) Negative() bool { return int64(i.Hi) < 0 }

// Cmp compares i and j and returns -1, 0 or +1.
func (i Int128) Cmp(j Int128) int {
	switch {
	case int64(i.Hi) < int64(j.Hi):
		return -1
	case int64(i.Hi) > int64(j.Hi):
		return 1
	case i.Lo < j.Lo:
		return -1
	case i.Lo > j.Lo:
		return 1
	}
	return 0
}

// Big converts i to a big.Int.
func (i Int128) Big() *big.Int {
	b := Uint128(i).Big()
	if i.Negative() {
		b.Sub(b, two128)
	}
	return b
}

func (i Int128) String() string { return i.Big().String() }

var (
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
	maxU128 = new(big.Int).Sub(two128, big.NewInt(1))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	mask64  = new(big.Int).SetUint64(^uint64(0))
	bigZero = new(big.Int)
)

// Uint128FromBig converts b, reporting false when it is outside [0, 2^128).
func Uint128FromBig(b *big.Int) (Uint128, bool) {
	if b.Sign() < 0 || b.Cmp(maxU128) > 0 {
		return Uint128{}, false
	}
	lo := new(big.Int).And(b, mask64).Uint64()
	hi := new(big.Int).Rsh(b, 64).Uint64()
	return Uint128{Hi: hi, Lo: lo}, true
}

// Int128FromBig converts b, reporting false when it is outside the signed
// 128-bit range.
func Int128FromBig(b *big.Int) (Int128, bool) {
	if b.Cmp(minI128) < 0 || b.Cmp(maxI128) > 0 {
		return Int128{}, false
	}
	v := new(big.Int).Set(b)
	if v.Cmp(bigZero) < 0 {
		v.Add(v, two128)
	}
	u, _ := Uint128FromBig(v)
	return Int128(u), true
}
