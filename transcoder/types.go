package transcoder

import (
	"github.com/wippyai/bindgen/transcoder/internal/types"
)

type (
	TypeKind = types.Kind
	Plan     = types.Plan
)

const (
	KindBool    = types.KindBool
	KindU8      = types.KindU8
	KindS8      = types.KindS8
	KindU16     = types.KindU16
	KindS16     = types.KindS16
	KindU32     = types.KindU32
	KindS32     = types.KindS32
	KindU64     = types.KindU64
	KindS64     = types.KindS64
	KindU128    = types.KindU128
	KindS128    = types.KindS128
	KindF32     = types.KindF32
	KindF64     = types.KindF64
	KindChar    = types.KindChar
	KindString  = types.KindString
	KindBytes   = types.KindBytes
	KindStruct  = types.KindStruct
	KindList    = types.KindList
	KindTuple   = types.KindTuple
	KindVariant = types.KindVariant
	KindOption  = types.KindOption
	KindResult  = types.KindResult
	KindEnum    = types.KindEnum
	KindFlags   = types.KindFlags
	KindHandle  = types.KindHandle
)
