package transcoder

import (
	"github.com/goccy/go-json"
)

// Dynamic value representation used by Encode and Decode:
//
//	bool                 bool
//	u8..u64, s8..s64     uint8..uint64, int8..int64 (encode accepts any integer or JSON number)
//	u128, s128           wire.Uint128, wire.Int128
//	f32, f64             float32, float64
//	char                 rune (encode also accepts a one-character string)
//	string               string
//	bytes                []byte
//	list<T>              []any (encode accepts any slice)
//	tuple                []any
//	struct               map[string]any (encode also accepts Go structs)
//	variant              Variant
//	option<T>            Optional (encode also accepts nil or the bare value)
//	result<T, E>         Outcome
//	enum                 string label (encode also accepts the ordinal)
//	flags                []string
//	handle               wire.ResourceID

// Variant is a decoded variant value. Value is nil for unit cases.
type Variant struct {
	Value any    `json:"val,omitempty"`
	Case  string `json:"tag"`
}

// Optional is a decoded option value.
type Optional struct {
	Value any
	Valid bool
}

// Some wraps v as a present option value.
func Some(v any) Optional { return Optional{Value: v, Valid: true} }

// None is the absent option value.
var None = Optional{}

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Outcome is a decoded result value.
type Outcome struct {
	Value any
	IsErr bool
}

// OkOutcome and ErrOutcome build result values.
func OkOutcome(v any) Outcome  { return Outcome{Value: v} }
func ErrOutcome(v any) Outcome { return Outcome{Value: v, IsErr: true} }

func (o Outcome) MarshalJSON() ([]byte, error) {
	key := "ok"
	if o.IsErr {
		key = "err"
	}
	return json.Marshal(map[string]any{key: o.Value})
}
