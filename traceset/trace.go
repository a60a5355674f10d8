package traceset

import (
	"math"

	"github.com/arloliu/trs/format"
	"github.com/arloliu/trs/param"
)

// Trace is one captured signal: a title, a raw data blob, a sample vector
// and the sample frequency of the capture.
//
// Samples are always float32 in memory regardless of the on-disk coding; the
// codec widens integral samples on read and narrows them on write.
type Trace struct {
	Title           string
	Data            []byte
	Samples         []float32
	SampleFrequency float32
}

// NewTrace creates a trace with no data blob and a sample frequency of 1.
func NewTrace(title string, samples []float32) Trace {
	return Trace{Title: title, Samples: samples, SampleFrequency: 1}
}

// NewTraceWithData creates a trace with an explicit data blob and sample
// frequency.
func NewTraceWithData(title string, data []byte, samples []float32, frequency float32) Trace {
	return Trace{Title: title, Data: data, Samples: samples, SampleFrequency: frequency}
}

// NewTraceWithParameters creates a trace whose data blob is the serialized
// form of params. The matching definition map belongs in the trace set
// header; see WithParameterDefinitions.
func NewTraceWithParameters(title string, params *param.Map, samples []float32) Trace {
	return Trace{Title: title, Data: params.Serialize(), Samples: samples, SampleFrequency: 1}
}

// Parameters decodes the trace's data blob as a parameter map laid out by
// defs. The returned map is frozen.
func (t Trace) Parameters(defs *param.Definitions) (*param.Map, error) {
	return param.Deserialize(t.Data, defs)
}

// PreferredCoding scans the samples once and picks a coding from their
// largest magnitude m: FLOAT when any sample is non-integral or m exceeds
// 2^31-1, otherwise BYTE when m < 2^7, SHORT when m < 2^15, else INT. The
// test is on magnitude, so -128 yields SHORT and -32768 yields INT even
// though each fits the narrower signed range.
func (t Trace) PreferredCoding() format.SampleCoding {
	var maxAbs float64
	for _, s := range t.Samples {
		f := float64(s)
		if math.Trunc(f) != f || math.Abs(f) > math.MaxInt32 {
			return format.CodingFloat
		}
		if math.Abs(f) > maxAbs {
			maxAbs = math.Abs(f)
		}
	}

	switch {
	case maxAbs < 1<<7:
		return format.CodingByte
	case maxAbs < 1<<15:
		return format.CodingShort
	default:
		return format.CodingInt
	}
}
