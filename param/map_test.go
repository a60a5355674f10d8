package param

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/trs/errs"
)

func newTestMap(t *testing.T) (*Map, *Definitions) {
	t.Helper()

	m := NewMap()
	require.NoError(t, m.Set("iv", ByteArrayValue([]byte{0xDE, 0xAD})))
	require.NoError(t, m.Set("ct", IntArrayValue([]int32{1, 2, 3})))

	defs := NewDefinitions()
	require.NoError(t, defs.Add("iv", TypeByte, 2))
	require.NoError(t, defs.Add("ct", TypeInt, 3))

	return m, defs
}

func TestMap_RoundTrip(t *testing.T) {
	m, defs := newTestMap(t)

	data := m.Serialize()
	require.Len(t, data, defs.TotalSize())

	decoded, err := Deserialize(data, defs)
	require.NoError(t, err)
	require.Equal(t, m.Names(), decoded.Names())

	iv, err := decoded.Get("iv")
	require.NoError(t, err)
	ivBytes, err := iv.AsByteArray()
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD}, ivBytes)

	ct, err := decoded.Get("ct")
	require.NoError(t, err)
	ctInts, err := ct.AsIntArray()
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, ctInts)
}

func TestMap_DeserializedIsImmutable(t *testing.T) {
	m, defs := newTestMap(t)

	decoded, err := Deserialize(m.Serialize(), defs)
	require.NoError(t, err)
	require.True(t, decoded.Frozen())

	err = decoded.Set("iv", ByteValue(0))
	require.ErrorIs(t, err, errs.ErrImmutableMap)

	// The stored value is untouched.
	iv, err := decoded.Get("iv")
	require.NoError(t, err)
	ivBytes, err := iv.AsByteArray()
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD}, ivBytes)
}

func TestMap_AllTypesRoundTrip(t *testing.T) {
	m := NewMap()
	require.NoError(t, m.Set("b", ByteValue(0x80)))
	require.NoError(t, m.Set("s", ShortArrayValue([]int16{-1, 0, 1})))
	require.NoError(t, m.Set("i", IntValue(-123456)))
	require.NoError(t, m.Set("f", FloatArrayValue([]float32{0.5, -0.5})))
	require.NoError(t, m.Set("l", LongValue(-1<<40)))
	require.NoError(t, m.Set("d", DoubleArrayValue([]float64{3.14, 2.71})))
	require.NoError(t, m.Set("str", StringValue("label")))
	require.NoError(t, m.Set("ok", BoolArrayValue([]bool{true, false, true})))

	defs, err := m.Definitions()
	require.NoError(t, err)
	require.Equal(t, m.TotalSize(), defs.TotalSize())

	decoded, derr := Deserialize(m.Serialize(), defs)
	require.NoError(t, derr)
	require.Equal(t, m.Names(), decoded.Names())

	for _, name := range m.Names() {
		want, werr := m.Get(name)
		require.NoError(t, werr)

		got, gerr := decoded.Get(name)
		require.NoError(t, gerr)
		require.Equal(t, want, got, "parameter %q", name)
	}
}

func TestDeserialize_LengthMismatch(t *testing.T) {
	_, defs := newTestMap(t)

	t.Run("Empty data with definitions", func(t *testing.T) {
		_, err := Deserialize(nil, defs)
		require.ErrorIs(t, err, errs.ErrParameterLengthMismatch)
	})

	t.Run("Wrong size", func(t *testing.T) {
		_, err := Deserialize(make([]byte, defs.TotalSize()-1), defs)
		require.ErrorIs(t, err, errs.ErrParameterLengthMismatch)
	})

	t.Run("Empty both", func(t *testing.T) {
		decoded, err := Deserialize(nil, NewDefinitions())
		require.NoError(t, err)
		require.Equal(t, 0, decoded.Len())
	})
}

func TestMap_KeyNotFound(t *testing.T) {
	m, _ := newTestMap(t)

	_, err := m.Get("nope")
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestDefinitions_Offsets(t *testing.T) {
	defs := NewDefinitions()
	require.NoError(t, defs.Add("a", TypeShort, 3))
	require.NoError(t, defs.Add("b", TypeDouble, 2))
	require.NoError(t, defs.Add("c", TypeByte, 1))

	a, err := defs.Get("a")
	require.NoError(t, err)
	require.Equal(t, 0, a.Offset)

	b, err := defs.Get("b")
	require.NoError(t, err)
	require.Equal(t, 6, b.Offset)

	c, err := defs.Get("c")
	require.NoError(t, err)
	require.Equal(t, 22, c.Offset)

	require.Equal(t, 23, defs.TotalSize())
}

func TestDefinitions_RoundTrip(t *testing.T) {
	defs := NewDefinitions()
	require.NoError(t, defs.Add("iv", TypeByte, 16))
	require.NoError(t, defs.Add("label", TypeString, 8))
	require.NoError(t, defs.Add("score", TypeDouble, 1))

	data, err := defs.Bytes()
	require.NoError(t, err)

	parsed, err := ParseDefinitions(data)
	require.NoError(t, err)
	require.Equal(t, defs.Names(), parsed.Names())
	require.Equal(t, defs.TotalSize(), parsed.TotalSize())

	for _, name := range defs.Names() {
		want, werr := defs.Get(name)
		require.NoError(t, werr)

		got, gerr := parsed.Get(name)
		require.NoError(t, gerr)
		require.Equal(t, want, got)
	}
}

func TestDefinitions_Errors(t *testing.T) {
	t.Run("Zero length", func(t *testing.T) {
		defs := NewDefinitions()
		require.ErrorIs(t, defs.Add("x", TypeByte, 0), errs.ErrParameterLengthMismatch)
	})

	t.Run("Truncated serialization", func(t *testing.T) {
		defs := NewDefinitions()
		require.NoError(t, defs.Add("iv", TypeByte, 16))

		data, err := defs.Bytes()
		require.NoError(t, err)

		_, err = ParseDefinitions(data[:len(data)-1])
		require.ErrorIs(t, err, errs.ErrTruncatedHeader)
	})

	t.Run("Unknown type byte", func(t *testing.T) {
		defs := NewDefinitions()
		require.NoError(t, defs.Add("iv", TypeByte, 16))

		data, err := defs.Bytes()
		require.NoError(t, err)

		// The type byte follows the 2-byte count, 2-byte name length and name.
		data[2+2+2] = 0x7E

		_, err = ParseDefinitions(data)
		require.ErrorIs(t, err, errs.ErrUnknownParameterType)
	})
}
