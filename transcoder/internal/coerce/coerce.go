package coerce

import (
	"math"
	"math/big"
	"reflect"

	"github.com/wippyai/bindgen/wire"
)

// number matches json.Number from encoding/json and goccy/go-json.
type number interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// two64 is 2^64 as a float64; every float below it converts to uint64 exactly.
const two64 = 18446744073709551616.0

// Uint64 handles native integers, JSON decoded numbers (float64 or
// json.Number) and u128 values that fit.
func Uint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case wire.ResourceID:
		return uint64(v), true
	case int8:
		if v >= 0 {
			return uint64(v), true
		}
	case int16:
		if v >= 0 {
			return uint64(v), true
		}
	case int32:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		if v >= 0 && v < two64 && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		f := float64(v)
		if f >= 0 && f < two64 && f == math.Trunc(f) {
			return uint64(f), true
		}
	case wire.Uint128:
		if v.Hi == 0 {
			return v.Lo, true
		}
	default:
		if b, ok := Integer(value); ok && b.IsUint64() {
			return b.Uint64(), true
		}
	}
	return 0, false
}

// Int64 is the signed counterpart of Uint64.
func Int64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= -two64/2 && v < two64/2 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f >= -two64/2 && f < two64/2 && f == math.Trunc(f) {
			return int64(f), true
		}
	default:
		if b, ok := Integer(value); ok && b.IsInt64() {
			return b.Int64(), true
		}
	}
	return 0, false
}

// Integer converts any integer-like value to a big.Int. It is the slow path
// for 128-bit types and for range errors that need the offending value.
func Integer(value any) (*big.Int, bool) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return new(big.Int).Set(v), true
	case big.Int:
		return new(big.Int).Set(&v), true
	case wire.Uint128:
		return v.Big(), true
	case wire.Int128:
		return v.Big(), true
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) || v != math.Trunc(v) {
			return nil, false
		}
		b, _ := big.NewFloat(v).Int(nil)
		return b, true
	case float32:
		return Integer(float64(v))
	case number:
		if b, ok := new(big.Int).SetString(v.String(), 10); ok {
			return b, true
		}
		if f, err := v.Float64(); err == nil {
			return Integer(f)
		}
		return nil, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}

// Float64 accepts any float or integer value.
func Float64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case number:
		f, err := v.Float64()
		return f, err == nil
	}
	if i, ok := Int64(value); ok {
		return float64(i), true
	}
	if u, ok := Uint64(value); ok {
		return float64(u), true
	}
	return 0, false
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}
