package types //nolint:revive // package name is used by internal consumers

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"bool", KindBool},
		{"u8", KindU8},
		{"s8", KindS8},
		{"u128", KindU128},
		{"s128", KindS128},
		{"f64", KindF64},
		{"char", KindChar},
		{"bytes", KindBytes},
		{"struct", KindStruct},
		{"variant", KindVariant},
		{"flags", KindFlags},
		{"handle", KindHandle},
		{"unknown", Kind(255)},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestKindIsPrimitive(t *testing.T) {
	for _, k := range []Kind{KindBool, KindU8, KindS128, KindF32, KindChar, KindString, KindBytes} {
		if !k.IsPrimitive() {
			t.Errorf("%s should be primitive", k)
		}
	}
	for _, k := range []Kind{KindStruct, KindList, KindVariant, KindOption, KindResult, KindTuple, KindEnum, KindFlags, KindHandle} {
		if k.IsPrimitive() {
			t.Errorf("%s should not be primitive", k)
		}
	}
}

func TestIntegerKind(t *testing.T) {
	for _, width := range []int{8, 16, 32, 64, 128} {
		for _, signed := range []bool{false, true} {
			k, ok := IntegerKind(width, signed)
			if !ok || !k.IsInteger() || k.Width() != width || k.Signed() != signed {
				t.Errorf("IntegerKind(%d, %v) = %s", width, signed, k)
			}
		}
	}
	if _, ok := IntegerKind(12, false); ok {
		t.Error("width 12 is not an integer kind")
	}
	if KindF32.IsInteger() || KindF32.Width() != 0 {
		t.Error("f32 is not an integer")
	}
}

func TestPlanLookup(t *testing.T) {
	p := &Plan{Kind: KindVariant, Cases: []Case{{Name: "a"}, {Name: "b"}}}
	if i, ok := p.CaseIndex("b"); !ok || i != 1 {
		t.Errorf("CaseIndex(b) = %d, %v", i, ok)
	}
	e := &Plan{Kind: KindEnum, Labels: []string{"red", "green"}}
	if _, ok := e.Label("blue"); ok {
		t.Error("blue is not a label")
	}
}
