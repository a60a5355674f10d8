package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/trs/errs"
)

func TestSampleCodingOf(t *testing.T) {
	t.Run("Valid codes", func(t *testing.T) {
		cases := []struct {
			code int
			want SampleCoding
		}{
			{0x01, CodingByte},
			{0x02, CodingShort},
			{0x04, CodingInt},
			{0x14, CodingFloat},
		}

		for _, tc := range cases {
			coding, err := SampleCodingOf(tc.code)
			require.NoError(t, err)
			require.Equal(t, tc.want, coding)
		}
	})

	t.Run("Unknown code", func(t *testing.T) {
		for _, code := range []int{0x00, 0x03, 0x08, 0x18, 0xFF} {
			coding, err := SampleCodingOf(code)
			require.ErrorIs(t, err, errs.ErrUnknownSampleCoding)
			require.Equal(t, CodingIllegal, coding)
		}
	})
}

func TestSampleCoding_Size(t *testing.T) {
	require.Equal(t, 1, CodingByte.Size())
	require.Equal(t, 2, CodingShort.Size())
	require.Equal(t, 4, CodingInt.Size())
	require.Equal(t, 4, CodingFloat.Size())
}

func TestSampleCoding_IsFloat(t *testing.T) {
	require.False(t, CodingByte.IsFloat())
	require.False(t, CodingShort.IsFloat())
	require.False(t, CodingInt.IsFloat())
	require.True(t, CodingFloat.IsFloat())
}

func TestSampleCoding_Bounds(t *testing.T) {
	require.Equal(t, float64(math.MinInt8), CodingByte.Min())
	require.Equal(t, float64(math.MaxInt8), CodingByte.Max())
	require.Equal(t, float64(math.MinInt16), CodingShort.Min())
	require.Equal(t, float64(math.MaxInt16), CodingShort.Max())
	require.Equal(t, float64(math.MinInt32), CodingInt.Min())
	require.Equal(t, float64(math.MaxInt32), CodingInt.Max())
}

func TestSampleCoding_String(t *testing.T) {
	require.Equal(t, "Byte", CodingByte.String())
	require.Equal(t, "Short", CodingShort.String())
	require.Equal(t, "Int", CodingInt.String())
	require.Equal(t, "Float", CodingFloat.String())
	require.Equal(t, "Illegal", CodingIllegal.String())
}
