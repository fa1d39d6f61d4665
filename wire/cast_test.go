package wire

import (
	"errors"
	"math"
	"testing"

	bgerrors "github.com/wippyai/bindgen/errors"
)

func TestNarrow(t *testing.T) {
	if _, err := Narrow[uint32](uint64(5_000_000_000), "u32"); !errors.Is(err, bgerrors.ErrRangeViolation) {
		t.Fatalf("5_000_000_000 into u32: err = %v, want range_violation", err)
	}
	var e *bgerrors.Error
	_, err := Narrow[uint32](uint64(5_000_000_000), "u32")
	if !errors.As(err, &e) || e.SchemaType != "u32" || e.Value != uint64(5_000_000_000) {
		t.Errorf("error fields = %+v", e)
	}

	if v, err := Narrow[uint32](uint64(math.MaxUint32), "u32"); err != nil || v != math.MaxUint32 {
		t.Errorf("u32 max = %d, %v", v, err)
	}
	if _, err := Narrow[uint32](int32(-1), "u32"); err == nil {
		t.Error("-1 into u32 must fail")
	}
	if _, err := Narrow[int32](uint32(math.MaxUint32), "s32"); err == nil {
		t.Error("u32 max into s32 must fail")
	}
	if v, err := Narrow[int8](int64(-128), "s8"); err != nil || v != -128 {
		t.Errorf("s8 min = %d, %v", v, err)
	}
	if _, err := Narrow[int8](int64(128), "s8"); err == nil {
		t.Error("128 into s8 must fail")
	}
	if _, err := Narrow[uint64](int64(math.MinInt64), "u64"); err == nil {
		t.Error("s64 min into u64 must fail")
	}
}

func TestNarrow128(t *testing.T) {
	if v, err := NarrowU128[uint64](U128(math.MaxUint64), "u64"); err != nil || v != math.MaxUint64 {
		t.Errorf("u128 -> u64 = %d, %v", v, err)
	}
	if _, err := NarrowU128[uint64](Uint128{Hi: 1}, "u64"); !errors.Is(err, bgerrors.ErrRangeViolation) {
		t.Errorf("2^64 -> u64: err = %v", err)
	}
	if v, err := NarrowI128[int32](I128(-7), "s32"); err != nil || v != -7 {
		t.Errorf("s128 -7 -> s32 = %d, %v", v, err)
	}
	if v, err := NarrowI128[uint64](I128FromU64(math.MaxUint64), "u64"); err != nil || v != math.MaxUint64 {
		t.Errorf("s128 -> u64 = %d, %v", v, err)
	}
	if _, err := NarrowI128[uint64](I128(-1), "u64"); err == nil {
		t.Error("-1 into u64 must fail")
	}
	if _, err := NarrowI128[int64](Int128{Hi: 1}, "s64"); err == nil {
		t.Error("2^64 into s64 must fail")
	}

	if WidenI128(uint32(7)) != I128(7) || WidenI128(int8(-3)) != I128(-3) {
		t.Error("WidenI128")
	}
	if WidenU128(uint16(9)) != U128(9) {
		t.Error("WidenU128")
	}
	if _, err := ToU128(int64(-1), "u128"); err == nil {
		t.Error("-1 into u128 must fail")
	}
	if _, err := U128ToI128(Uint128{Hi: 1 << 63}, "s128"); err == nil {
		t.Error("2^127 into s128 must fail")
	}
	if _, err := I128ToU128(I128(-1), "u128"); err == nil {
		t.Error("-1 into u128 must fail")
	}
	if v, err := I128ToU128(I128(5), "u128"); err != nil || v != U128(5) {
		t.Errorf("s128 5 -> u128 = %v, %v", v, err)
	}
}
