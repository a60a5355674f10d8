package param

import (
	"fmt"
	"math"

	"github.com/arloliu/trs/endian"
	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/internal/pool"
)

// Value is a tagged variant over the trace parameter types.
//
// Values are stored in array form; a scalar is the length-one case and the
// As<Type> accessors are the convenience path projecting the single element.
// Strings have no array form, their length is the UTF-8 byte length.
type Value struct {
	typ Type
	v   any // []byte, []int16, []int32, []float32, []int64, []float64, []bool or string
}

// ByteValue creates a scalar byte parameter value.
func ByteValue(v byte) Value { return Value{typ: TypeByte, v: []byte{v}} }

// ByteArrayValue creates a byte array parameter value.
func ByteArrayValue(v []byte) Value { return Value{typ: TypeByte, v: v} }

// ShortValue creates a scalar 16-bit integer parameter value.
func ShortValue(v int16) Value { return Value{typ: TypeShort, v: []int16{v}} }

// ShortArrayValue creates a 16-bit integer array parameter value.
func ShortArrayValue(v []int16) Value { return Value{typ: TypeShort, v: v} }

// IntValue creates a scalar 32-bit integer parameter value.
func IntValue(v int32) Value { return Value{typ: TypeInt, v: []int32{v}} }

// IntArrayValue creates a 32-bit integer array parameter value.
func IntArrayValue(v []int32) Value { return Value{typ: TypeInt, v: v} }

// FloatValue creates a scalar 32-bit float parameter value.
func FloatValue(v float32) Value { return Value{typ: TypeFloat, v: []float32{v}} }

// FloatArrayValue creates a 32-bit float array parameter value.
func FloatArrayValue(v []float32) Value { return Value{typ: TypeFloat, v: v} }

// LongValue creates a scalar 64-bit integer parameter value.
func LongValue(v int64) Value { return Value{typ: TypeLong, v: []int64{v}} }

// LongArrayValue creates a 64-bit integer array parameter value.
func LongArrayValue(v []int64) Value { return Value{typ: TypeLong, v: v} }

// DoubleValue creates a scalar 64-bit float parameter value.
func DoubleValue(v float64) Value { return Value{typ: TypeDouble, v: []float64{v}} }

// DoubleArrayValue creates a 64-bit float array parameter value.
func DoubleArrayValue(v []float64) Value { return Value{typ: TypeDouble, v: v} }

// StringValue creates a string parameter value.
func StringValue(v string) Value { return Value{typ: TypeString, v: v} }

// BoolValue creates a scalar boolean parameter value.
func BoolValue(v bool) Value { return Value{typ: TypeBool, v: []bool{v}} }

// BoolArrayValue creates a boolean array parameter value.
func BoolArrayValue(v []bool) Value { return Value{typ: TypeBool, v: v} }

// Type returns the element type of the value.
func (v Value) Type() Type {
	return v.typ
}

// Len returns the number of elements. For strings it is the byte length.
func (v Value) Len() int {
	switch e := v.v.(type) {
	case []byte:
		return len(e)
	case []int16:
		return len(e)
	case []int32:
		return len(e)
	case []float32:
		return len(e)
	case []int64:
		return len(e)
	case []float64:
		return len(e)
	case []bool:
		return len(e)
	case string:
		return len(e)
	default:
		return 0
	}
}

// Size returns the serialized size of the value in bytes.
func (v Value) Size() int {
	return v.Len() * v.typ.Size()
}

// IsScalar reports whether the value can be projected through a scalar
// accessor.
func (v Value) IsScalar() bool {
	return v.typ == TypeString || v.Len() == 1
}

func (v Value) scalarErr(requested Type) error {
	if v.typ != requested {
		return fmt.Errorf("%w: value holds %s, requested %s", errs.ErrTypeMismatch, v.typ, requested)
	}

	return fmt.Errorf("%w: value has %d elements, scalar accessor needs 1", errs.ErrTypeMismatch, v.Len())
}

func (v Value) arrayErr(requested Type) error {
	return fmt.Errorf("%w: value holds %s, requested %s", errs.ErrTypeMismatch, v.typ, requested)
}

// AsByte projects a length-one byte value.
func (v Value) AsByte() (byte, error) {
	if e, ok := v.v.([]byte); ok && len(e) == 1 {
		return e[0], nil
	}

	return 0, v.scalarErr(TypeByte)
}

// AsByteArray returns the byte array. The slice shares memory with the value.
func (v Value) AsByteArray() ([]byte, error) {
	if e, ok := v.v.([]byte); ok {
		return e, nil
	}

	return nil, v.arrayErr(TypeByte)
}

// AsShort projects a length-one 16-bit integer value.
func (v Value) AsShort() (int16, error) {
	if e, ok := v.v.([]int16); ok && len(e) == 1 {
		return e[0], nil
	}

	return 0, v.scalarErr(TypeShort)
}

// AsShortArray returns the 16-bit integer array.
func (v Value) AsShortArray() ([]int16, error) {
	if e, ok := v.v.([]int16); ok {
		return e, nil
	}

	return nil, v.arrayErr(TypeShort)
}

// AsInt projects a length-one 32-bit integer value.
func (v Value) AsInt() (int32, error) {
	if e, ok := v.v.([]int32); ok && len(e) == 1 {
		return e[0], nil
	}

	return 0, v.scalarErr(TypeInt)
}

// AsIntArray returns the 32-bit integer array.
func (v Value) AsIntArray() ([]int32, error) {
	if e, ok := v.v.([]int32); ok {
		return e, nil
	}

	return nil, v.arrayErr(TypeInt)
}

// AsFloat projects a length-one 32-bit float value.
func (v Value) AsFloat() (float32, error) {
	if e, ok := v.v.([]float32); ok && len(e) == 1 {
		return e[0], nil
	}

	return 0, v.scalarErr(TypeFloat)
}

// AsFloatArray returns the 32-bit float array.
func (v Value) AsFloatArray() ([]float32, error) {
	if e, ok := v.v.([]float32); ok {
		return e, nil
	}

	return nil, v.arrayErr(TypeFloat)
}

// AsLong projects a length-one 64-bit integer value.
func (v Value) AsLong() (int64, error) {
	if e, ok := v.v.([]int64); ok && len(e) == 1 {
		return e[0], nil
	}

	return 0, v.scalarErr(TypeLong)
}

// AsLongArray returns the 64-bit integer array.
func (v Value) AsLongArray() ([]int64, error) {
	if e, ok := v.v.([]int64); ok {
		return e, nil
	}

	return nil, v.arrayErr(TypeLong)
}

// AsDouble projects a length-one 64-bit float value.
func (v Value) AsDouble() (float64, error) {
	if e, ok := v.v.([]float64); ok && len(e) == 1 {
		return e[0], nil
	}

	return 0, v.scalarErr(TypeDouble)
}

// AsDoubleArray returns the 64-bit float array.
func (v Value) AsDoubleArray() ([]float64, error) {
	if e, ok := v.v.([]float64); ok {
		return e, nil
	}

	return nil, v.arrayErr(TypeDouble)
}

// AsString returns the string value.
func (v Value) AsString() (string, error) {
	if e, ok := v.v.(string); ok {
		return e, nil
	}

	return "", v.arrayErr(TypeString)
}

// AsBool projects a length-one boolean value.
func (v Value) AsBool() (bool, error) {
	if e, ok := v.v.([]bool); ok && len(e) == 1 {
		return e[0], nil
	}

	return false, v.scalarErr(TypeBool)
}

// AsBoolArray returns the boolean array.
func (v Value) AsBoolArray() ([]bool, error) {
	if e, ok := v.v.([]bool); ok {
		return e, nil
	}

	return nil, v.arrayErr(TypeBool)
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.typ, v.v)
}

// serialize appends the little-endian wire form of the value to bb.
// It writes exactly Size() bytes.
func (v Value) serialize(bb *pool.ByteBuffer, engine endian.EndianEngine) {
	bb.Grow(v.Size())

	switch e := v.v.(type) {
	case []byte:
		bb.MustWrite(e)
	case []int16:
		for _, x := range e {
			bb.B = engine.AppendUint16(bb.B, uint16(x))
		}
	case []int32:
		for _, x := range e {
			bb.B = engine.AppendUint32(bb.B, uint32(x))
		}
	case []float32:
		for _, x := range e {
			bb.B = engine.AppendUint32(bb.B, math.Float32bits(x))
		}
	case []int64:
		for _, x := range e {
			bb.B = engine.AppendUint64(bb.B, uint64(x))
		}
	case []float64:
		for _, x := range e {
			bb.B = engine.AppendUint64(bb.B, math.Float64bits(x))
		}
	case []bool:
		for _, x := range e {
			b := byte(0)
			if x {
				b = 1
			}
			bb.B = append(bb.B, b)
		}
	case string:
		bb.MustWrite([]byte(e))
	}
}

// deserializeValue decodes length elements of the given type from data.
// data must hold exactly length*typ.Size() bytes.
func deserializeValue(data []byte, typ Type, length int, engine endian.EndianEngine) Value {
	switch typ {
	case TypeByte:
		e := make([]byte, length)
		copy(e, data)

		return Value{typ: typ, v: e}
	case TypeShort:
		e := make([]int16, length)
		for i := range e {
			e[i] = int16(engine.Uint16(data[i*2:]))
		}

		return Value{typ: typ, v: e}
	case TypeInt:
		e := make([]int32, length)
		for i := range e {
			e[i] = int32(engine.Uint32(data[i*4:]))
		}

		return Value{typ: typ, v: e}
	case TypeFloat:
		e := make([]float32, length)
		for i := range e {
			e[i] = math.Float32frombits(engine.Uint32(data[i*4:]))
		}

		return Value{typ: typ, v: e}
	case TypeLong:
		e := make([]int64, length)
		for i := range e {
			e[i] = int64(engine.Uint64(data[i*8:]))
		}

		return Value{typ: typ, v: e}
	case TypeDouble:
		e := make([]float64, length)
		for i := range e {
			e[i] = math.Float64frombits(engine.Uint64(data[i*8:]))
		}

		return Value{typ: typ, v: e}
	case TypeString:
		return Value{typ: typ, v: string(data[:length])}
	case TypeBool:
		e := make([]bool, length)
		for i := range e {
			e[i] = data[i] != 0
		}

		return Value{typ: typ, v: e}
	default:
		return Value{}
	}
}
