package traceset

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/format"
	"github.com/arloliu/trs/section"
)

// writeTestSet writes count traces of the given sample vector and returns
// the file path.
func writeTestSet(t *testing.T, count int, samples []float32, opts ...WriterOption) string {
	t.Helper()

	path := tmpPath(t)
	w, err := OpenWrite(path, opts...)
	require.NoError(t, err)

	for i := 0; i < count; i++ {
		require.NoError(t, w.Add(NewTrace("t", samples)))
	}
	require.NoError(t, w.Close())

	return path
}

func TestReader_SingleTraceRoundTrip(t *testing.T) {
	path := tmpPath(t)

	w, err := OpenWrite(path)
	require.NoError(t, err)
	require.NoError(t, w.Add(NewTrace("t", []float32{1, 2, 3})))
	require.NoError(t, w.Close())

	r, err := OpenRead(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.NumberOfTraces())
	require.Equal(t, format.CodingByte, r.SampleCoding())

	count, err := r.Metadata().Int(section.TagNumberOfTraces)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	trace, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, "t", trace.Title)
	require.Empty(t, trace.Data)
	require.Equal(t, []float32{1, 2, 3}, trace.Samples)
	require.Equal(t, float32(1), trace.SampleFrequency)
}

func TestReader_FloatSamplesExact(t *testing.T) {
	path := tmpPath(t)

	trace := NewTrace("f", []float32{0.5, 1.0})
	require.Equal(t, format.CodingFloat, trace.PreferredCoding())

	w, err := OpenWrite(path)
	require.NoError(t, err)
	require.NoError(t, w.Add(trace))
	require.NoError(t, w.Close())

	r, err := OpenRead(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, format.CodingFloat, r.SampleCoding())

	got, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, []float32{0.5, 1.0}, got.Samples)
}

func TestReader_IntegralCodings(t *testing.T) {
	cases := []struct {
		name    string
		samples []float32
		coding  format.SampleCoding
	}{
		{"Short", []float32{-300, 0, 300}, format.CodingShort},
		{"Int", []float32{-70000, 0, 70000}, format.CodingInt},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTestSet(t, 2, tc.samples)

			r, err := OpenRead(path)
			require.NoError(t, err)
			defer r.Close()

			require.Equal(t, tc.coding, r.SampleCoding())

			trace, terr := r.Get(1)
			require.NoError(t, terr)
			require.Equal(t, tc.samples, trace.Samples)
		})
	}
}

func TestReader_EmptyTitleSynthesis(t *testing.T) {
	path := tmpPath(t)

	w, err := OpenWrite(path, WithGlobalTitle("trace"))
	require.NoError(t, err)
	require.NoError(t, w.Add(NewTrace("   ", []float32{1})))
	require.NoError(t, w.Close())

	r, err := OpenRead(path)
	require.NoError(t, err)
	defer r.Close()

	trace, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, "trace 0", trace.Title)
}

func TestReader_IndexOutOfBounds(t *testing.T) {
	path := writeTestSet(t, 3, []float32{1, 2})

	r, err := OpenRead(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Get(3)
	require.ErrorIs(t, err, errs.ErrIndexOutOfBounds)

	_, err = r.Get(-1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfBounds)
}

func TestReader_RepeatedReadsAreIdentical(t *testing.T) {
	path := writeTestSet(t, 4, []float32{5, -6, 7})

	r, err := OpenRead(path)
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Get(2)
	require.NoError(t, err)

	second, err := r.Get(2)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestReader_FileSizeMismatch(t *testing.T) {
	path := writeTestSet(t, 3, []float32{1, 2, 3, 4})

	// Append a stray byte so the declared layout no longer tiles the file.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{0x00})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = OpenRead(path)
	require.ErrorIs(t, err, errs.ErrFileSizeMismatch)
}

func TestReader_WindowSlide(t *testing.T) {
	// 1024 float samples per trace = 4 KiB records; a 16 KiB window cannot
	// hold the whole 60-trace file, so reading the last index forces a remap.
	samples := make([]float32, 1024)
	for i := range samples {
		samples[i] = 0.5 + float32(i)
	}

	const count = 60
	path := writeTestSet(t, count, samples)

	r, err := OpenRead(path, WithWindowSize(16*1024))
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, samples, first.Samples)

	last, err := r.Get(count - 1)
	require.NoError(t, err)
	require.Equal(t, samples, last.Samples)

	// Sliding back remaps again and still reads the same bytes.
	again, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, first, again)
}

func TestReader_WindowTooSmall(t *testing.T) {
	samples := make([]float32, 4096)
	path := writeTestSet(t, 3, samples)

	pageSize := int64(os.Getpagesize())

	r, err := OpenRead(path, WithWindowSize(pageSize))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Get(1)
	require.ErrorIs(t, err, errs.ErrWindowTooSmall)
}

func TestReader_WrongModeAndClosed(t *testing.T) {
	path := writeTestSet(t, 1, []float32{1})

	r, err := OpenRead(path)
	require.NoError(t, err)

	require.ErrorIs(t, r.Add(NewTrace("t", []float32{1})), errs.ErrWrongMode)

	require.NoError(t, r.Close())
	// Double close is a no-op.
	require.NoError(t, r.Close())

	_, err = r.Get(0)
	require.ErrorIs(t, err, errs.ErrNotOpen)
}

func TestReader_TruncatedHeader(t *testing.T) {
	path := tmpPath(t)
	require.NoError(t, os.WriteFile(path, []byte{byte(section.TagNumberOfTraces), 0x04, 0x01}, 0o644))

	_, err := OpenRead(path)
	require.ErrorIs(t, err, errs.ErrTruncatedHeader)
}

func TestReader_EmptyFile(t *testing.T) {
	path := tmpPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := OpenRead(path)
	require.ErrorIs(t, err, errs.ErrTruncatedHeader)
}
