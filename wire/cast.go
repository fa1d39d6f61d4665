package wire

import "github.com/wippyai/bindgen/errors"

// Integer is the set of fixed-width Go integer types.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Narrow converts v to To, failing with a range violation when the value is
// not representable. name is the destination type as shown in the error.
func Narrow[To, From Integer](v From, name string) (To, error) {
	t := To(v)
	if From(t) != v || (v < 0) != (t < 0) {
		return 0, errors.RangeViolation(nil, v, name)
	}
	return t, nil
}

// NarrowU128 converts an unsigned 128-bit value to a smaller integer.
func NarrowU128[To Integer](v Uint128, name string) (To, error) {
	if v.Hi != 0 {
		return 0, errors.RangeViolation(nil, v, name)
	}
	return Narrow[To](v.Lo, name)
}

// NarrowI128 converts a signed 128-bit value to a smaller integer.
func NarrowI128[To Integer](v Int128, name string) (To, error) {
	switch {
	case v.Hi == 0:
		return Narrow[To](v.Lo, name)
	case v.Hi == ^uint64(0) && int64(v.Lo) < 0:
		return Narrow[To](int64(v.Lo), name)
	}
	return 0, errors.RangeViolation(nil, v, name)
}

// WidenU128 widens an unsigned integer.
func WidenU128[From ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint](v From) Uint128 {
	return U128(uint64(v))
}

// WidenI128 widens any 64-bit or smaller integer.
func WidenI128[From Integer](v From) Int128 {
	if v < 0 {
		return I128(int64(v))
	}
	return I128FromU64(uint64(v))
}

// ToU128 converts a possibly negative integer to u128.
func ToU128[From Integer](v From, name string) (Uint128, error) {
	if v < 0 {
		return Uint128{}, errors.RangeViolation(nil, v, name)
	}
	return U128(uint64(v)), nil
}

// U128ToI128 converts between the 128-bit types, failing above 2^127-1.
func U128ToI128(v Uint128, name string) (Int128, error) {
	if int64(v.Hi) < 0 {
		return Int128{}, errors.RangeViolation(nil, v, name)
	}
	return Int128(v), nil
}

// I128ToU128 converts between the 128-bit types, failing below zero.
func I128ToU128(v Int128, name string) (Uint128, error) {
	if v.Negative() {
		return Uint128{}, errors.RangeViolation(nil, v, name)
	}
	return Uint128(v), nil
}
