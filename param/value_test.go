package param

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/trs/errs"
)

func TestTypeOf(t *testing.T) {
	for _, typ := range []Type{TypeByte, TypeShort, TypeInt, TypeFloat, TypeLong, TypeDouble, TypeString, TypeBool} {
		resolved, err := TypeOf(byte(typ))
		require.NoError(t, err)
		require.Equal(t, typ, resolved)
	}

	_, err := TypeOf(0x77)
	require.ErrorIs(t, err, errs.ErrUnknownParameterType)
}

func TestType_Size(t *testing.T) {
	require.Equal(t, 1, TypeByte.Size())
	require.Equal(t, 2, TypeShort.Size())
	require.Equal(t, 4, TypeInt.Size())
	require.Equal(t, 4, TypeFloat.Size())
	require.Equal(t, 8, TypeLong.Size())
	require.Equal(t, 8, TypeDouble.Size())
	require.Equal(t, 1, TypeString.Size())
	require.Equal(t, 1, TypeBool.Size())
}

func TestValue_ScalarAccessors(t *testing.T) {
	b, err := ByteValue(0x7F).AsByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x7F), b)

	s, err := ShortValue(-1234).AsShort()
	require.NoError(t, err)
	require.Equal(t, int16(-1234), s)

	i, err := IntValue(1 << 20).AsInt()
	require.NoError(t, err)
	require.Equal(t, int32(1<<20), i)

	f, err := FloatValue(0.5).AsFloat()
	require.NoError(t, err)
	require.Equal(t, float32(0.5), f)

	l, err := LongValue(1 << 40).AsLong()
	require.NoError(t, err)
	require.Equal(t, int64(1<<40), l)

	d, err := DoubleValue(2.5).AsDouble()
	require.NoError(t, err)
	require.Equal(t, 2.5, d)

	str, err := StringValue("key").AsString()
	require.NoError(t, err)
	require.Equal(t, "key", str)

	ok, err := BoolValue(true).AsBool()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValue_ScalarIsLengthOneArray(t *testing.T) {
	v := ShortValue(7)
	require.Equal(t, 1, v.Len())
	require.True(t, v.IsScalar())

	arr, err := v.AsShortArray()
	require.NoError(t, err)
	require.Equal(t, []int16{7}, arr)

	// A single-element array projects through the scalar accessor too.
	single, err := ShortArrayValue([]int16{7}).AsShort()
	require.NoError(t, err)
	require.Equal(t, int16(7), single)
	require.Equal(t, v, ShortArrayValue([]int16{7}))
}

func TestValue_TypeMismatch(t *testing.T) {
	v := IntArrayValue([]int32{1, 2, 3})

	_, err := v.AsByte()
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = v.AsFloatArray()
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	// Scalar accessor on a multi-element array.
	_, err = v.AsInt()
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
}

func TestValue_Size(t *testing.T) {
	require.Equal(t, 3, ByteArrayValue([]byte{1, 2, 3}).Size())
	require.Equal(t, 6, ShortArrayValue([]int16{1, 2, 3}).Size())
	require.Equal(t, 12, IntArrayValue([]int32{1, 2, 3}).Size())
	require.Equal(t, 16, DoubleArrayValue([]float64{1, 2}).Size())
	require.Equal(t, 5, StringValue("hello").Size())
	require.Equal(t, 2, BoolArrayValue([]bool{true, false}).Size())
}
