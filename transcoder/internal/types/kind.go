package types

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindU128
	KindS128
	KindF32
	KindF64
	KindChar
	KindString
	KindBytes
	KindStruct
	KindList
	KindTuple
	KindVariant
	KindOption
	KindResult
	KindEnum
	KindFlags
	KindHandle
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindU8:      "u8",
	KindS8:      "s8",
	KindU16:     "u16",
	KindS16:     "s16",
	KindU32:     "u32",
	KindS32:     "s32",
	KindU64:     "u64",
	KindS64:     "s64",
	KindU128:    "u128",
	KindS128:    "s128",
	KindF32:     "f32",
	KindF64:     "f64",
	KindChar:    "char",
	KindString:  "string",
	KindBytes:   "bytes",
	KindStruct:  "struct",
	KindList:    "list",
	KindTuple:   "tuple",
	KindVariant: "variant",
	KindOption:  "option",
	KindResult:  "result",
	KindEnum:    "enum",
	KindFlags:   "flags",
	KindHandle:  "handle",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsPrimitive() bool {
	return k <= KindBytes
}

func (k Kind) IsInteger() bool {
	return k >= KindU8 && k <= KindS128
}

// Width returns the bit width of an integer kind, or 0.
func (k Kind) Width() int {
	switch k {
	case KindU8, KindS8:
		return 8
	case KindU16, KindS16:
		return 16
	case KindU32, KindS32:
		return 32
	case KindU64, KindS64:
		return 64
	case KindU128, KindS128:
		return 128
	}
	return 0
}

// Signed reports whether an integer kind is signed.
func (k Kind) Signed() bool {
	switch k {
	case KindS8, KindS16, KindS32, KindS64, KindS128:
		return true
	}
	return false
}

// IntegerKind maps a width and signedness back to a kind.
func IntegerKind(width int, signed bool) (Kind, bool) {
	var k Kind
	switch width {
	case 8:
		k = KindU8
	case 16:
		k = KindU16
	case 32:
		k = KindU32
	case 64:
		k = KindU64
	case 128:
		k = KindU128
	default:
		return 0, false
	}
	if signed {
		k++
	}
	return k, true
}
