package param

import (
	"fmt"

	"github.com/arloliu/trs/errs"
)

// Type describes the element type of a trace parameter. For the numeric
// types the on-disk code packs the element width in the low nibble and bit
// 0x10 flags floating point; String (0x20) and Bool (0x31) have codes of
// their own, take one byte per element, and are not floating point.
// Whether a parameter is a scalar or an array is not part of the type: a
// scalar is a parameter of length one.
type Type uint8

const (
	TypeByte   Type = 0x01 // signed 8-bit integer
	TypeShort  Type = 0x02 // signed 16-bit integer
	TypeInt    Type = 0x04 // signed 32-bit integer
	TypeFloat  Type = 0x14 // IEEE-754 32-bit float
	TypeLong   Type = 0x08 // signed 64-bit integer
	TypeDouble Type = 0x18 // IEEE-754 64-bit float
	TypeString Type = 0x20 // UTF-8 string, one byte per code unit
	TypeBool   Type = 0x31 // one byte, 0 = false
)

// TypeOf resolves an on-disk type byte.
//
// Returns ErrUnknownParameterType for bytes outside the type set.
func TypeOf(code byte) (Type, error) {
	switch t := Type(code); t {
	case TypeByte, TypeShort, TypeInt, TypeFloat, TypeLong, TypeDouble, TypeString, TypeBool:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownParameterType, code)
	}
}

// Size returns the width of a single element in bytes. Strings occupy one
// byte per UTF-8 code unit.
func (t Type) Size() int {
	if t == TypeString {
		return 1
	}

	return int(t & 0x0F)
}

func (t Type) String() string {
	switch t {
	case TypeByte:
		return "Byte"
	case TypeShort:
		return "Short"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeLong:
		return "Long"
	case TypeDouble:
		return "Double"
	case TypeString:
		return "String"
	case TypeBool:
		return "Bool"
	default:
		return "Unknown"
	}
}
