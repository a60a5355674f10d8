package format

import (
	"fmt"
	"math"

	"github.com/arloliu/trs/errs"
)

// SampleCoding describes the on-disk numeric representation of trace samples.
//
// The code stored in the SAMPLE_CODING header tag packs the element width in
// the low nibble and flags floating point with bit 0x10.
type SampleCoding uint8

const (
	CodingByte  SampleCoding = 0x01 // signed 8-bit integer samples
	CodingShort SampleCoding = 0x02 // signed 16-bit integer samples
	CodingInt   SampleCoding = 0x04 // signed 32-bit integer samples
	CodingFloat SampleCoding = 0x14 // IEEE-754 32-bit float samples

	// CodingIllegal marks a code that does not resolve to a valid coding.
	CodingIllegal SampleCoding = 0x00
)

// floatFlag marks a coding as floating point.
const floatFlag = 0x10

// SampleCodingOf resolves an on-disk code to a SampleCoding.
//
// Returns ErrUnknownSampleCoding when the code is not one of the four valid
// codings.
func SampleCodingOf(code int) (SampleCoding, error) {
	switch c := SampleCoding(code); c {
	case CodingByte, CodingShort, CodingInt, CodingFloat:
		return c, nil
	default:
		return CodingIllegal, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownSampleCoding, code)
	}
}

// Size returns the width of a single sample in bytes.
func (c SampleCoding) Size() int {
	return int(c & 0x0F)
}

// IsFloat reports whether samples are stored as IEEE-754 floats.
func (c SampleCoding) IsFloat() bool {
	return c&floatFlag != 0
}

// Min returns the smallest value representable by an integral coding.
// It returns -MaxFloat32 for CodingFloat.
func (c SampleCoding) Min() float64 {
	switch c {
	case CodingByte:
		return math.MinInt8
	case CodingShort:
		return math.MinInt16
	case CodingInt:
		return math.MinInt32
	default:
		return -math.MaxFloat32
	}
}

// Max returns the largest value representable by an integral coding.
// It returns MaxFloat32 for CodingFloat.
func (c SampleCoding) Max() float64 {
	switch c {
	case CodingByte:
		return math.MaxInt8
	case CodingShort:
		return math.MaxInt16
	case CodingInt:
		return math.MaxInt32
	default:
		return math.MaxFloat32
	}
}

func (c SampleCoding) String() string {
	switch c {
	case CodingByte:
		return "Byte"
	case CodingShort:
		return "Short"
	case CodingInt:
		return "Int"
	case CodingFloat:
		return "Float"
	default:
		return "Illegal"
	}
}
