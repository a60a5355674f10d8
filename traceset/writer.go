package traceset

import (
	"fmt"
	"math"
	"os"

	"github.com/arloliu/trs/endian"
	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/format"
	"github.com/arloliu/trs/internal/options"
	"github.com/arloliu/trs/internal/pool"
	"github.com/arloliu/trs/param"
	"github.com/arloliu/trs/section"
)

// Writer appends traces to a new TRS file.
//
// The layout of the set (sample count, data length, title space, sample
// coding, scale) is bound when the first trace is added: the writer derives
// any field the caller did not supply through WithMetadata, emits a
// placeholder header, and validates every subsequent trace against the
// bound shape. Close patches the header in place with the final trace
// count; the placeholder and the final header span the same bytes because
// integer tags use a canonical 4-byte encoding.
//
// A writer abandoned without Close leaves the placeholder count in the
// header and the file must be treated as corrupt.
type Writer struct {
	f  *os.File
	md *section.MetaData

	defs *param.Definitions

	headerLen  int
	firstTrace bool
	numTraces  int

	numSamples int
	dataLength int
	titleSpace int
	coding     format.SampleCoding
	frequency  float32

	engine endian.EndianEngine
	open   bool
}

// OpenWrite creates (or truncates) a TRS file for writing.
func OpenWrite(path string, opts ...WriterOption) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		f:          f,
		md:         section.NewMetaData(),
		firstTrace: true,
		engine:     endian.GetLittleEndianEngine(),
	}

	if err := options.Apply(w, opts...); err != nil {
		f.Close()
		os.Remove(path)

		return nil, err
	}

	w.open = true

	return w, nil
}

// Add appends a trace to the set.
//
// The first call binds the set layout and writes the placeholder header.
// Later calls validate the trace against the bound shape and fail with
// ErrShapeMismatch on any deviation. Integral sample codings reject values
// outside their range with ErrSampleOutOfRange.
func (w *Writer) Add(t Trace) error {
	if !w.open {
		return errs.ErrNotOpen
	}

	if w.firstTrace {
		if err := w.bindLayout(t); err != nil {
			return err
		}
	}

	if err := w.validateShape(t); err != nil {
		return err
	}

	bb := pool.GetTraceBuffer()
	defer pool.PutTraceBuffer(bb)

	w.encodeTitle(bb, t.Title)
	bb.MustWrite(t.Data)
	if err := w.encodeSamples(bb, t.Samples); err != nil {
		return err
	}

	if _, err := w.f.Write(bb.Bytes()); err != nil {
		return err
	}

	w.numTraces++

	return w.md.Set(section.TagNumberOfTraces, w.numTraces)
}

// bindLayout fixes the set layout from the first trace, derives the header
// fields the caller did not supply, and writes the placeholder header.
func (w *Writer) bindLayout(t Trace) error {
	freq := t.SampleFrequency
	if freq <= 0 {
		freq = 1
	}

	if err := w.setIfAbsent(section.TagNumberOfSamples, len(t.Samples)); err != nil {
		return err
	}
	if err := w.setIfAbsent(section.TagDataLength, len(t.Data)); err != nil {
		return err
	}
	if err := w.setIfAbsent(section.TagTitleSpace, len(t.Title)); err != nil {
		return err
	}
	if err := w.setIfAbsent(section.TagScaleX, 1/freq); err != nil {
		return err
	}
	if err := w.setIfAbsent(section.TagSampleCoding, int(t.PreferredCoding())); err != nil {
		return err
	}
	if err := w.md.Set(section.TagNumberOfTraces, 0); err != nil {
		return err
	}

	var err error
	if w.numSamples, err = w.md.Int(section.TagNumberOfSamples); err != nil {
		return err
	}
	if w.dataLength, err = w.md.Int(section.TagDataLength); err != nil {
		return err
	}
	if w.titleSpace, err = w.md.Int(section.TagTitleSpace); err != nil {
		return err
	}
	if w.coding, err = w.md.SampleCoding(); err != nil {
		return err
	}

	scaleX, err := w.md.Float(section.TagScaleX)
	if err != nil {
		return err
	}
	if w.md.Has(section.TagScaleX) && scaleX != 1/freq {
		// Caller-supplied scale wins; traces are validated against it.
		w.frequency = 1 / scaleX
	} else {
		w.frequency = freq
	}

	if w.defs != nil && w.defs.TotalSize() != w.dataLength {
		return fmt.Errorf("%w: definitions declare %d bytes, DATA_LENGTH is %d",
			errs.ErrParameterLengthMismatch, w.defs.TotalSize(), w.dataLength)
	}

	header, err := w.md.Bytes()
	if err != nil {
		return err
	}

	if _, err := w.f.Write(header); err != nil {
		return err
	}

	w.headerLen = len(header)
	w.firstTrace = false

	return nil
}

func (w *Writer) setIfAbsent(tag section.Tag, value any) error {
	if w.md.Has(tag) {
		return nil
	}

	return w.md.Set(tag, value)
}

// validateShape checks a trace against the layout bound by the first trace.
func (w *Writer) validateShape(t Trace) error {
	if len(t.Samples) != w.numSamples {
		return fmt.Errorf("%w: NUMBER_OF_SAMPLES got %d, expected %d",
			errs.ErrShapeMismatch, len(t.Samples), w.numSamples)
	}
	if len(t.Data) != w.dataLength {
		return fmt.Errorf("%w: DATA_LENGTH got %d, expected %d",
			errs.ErrShapeMismatch, len(t.Data), w.dataLength)
	}

	freq := t.SampleFrequency
	if freq <= 0 {
		freq = 1
	}
	if freq != w.frequency {
		return fmt.Errorf("%w: SCALE_X got frequency %v, expected %v",
			errs.ErrShapeMismatch, freq, w.frequency)
	}

	return nil
}

// encodeTitle writes the title right-padded with spaces, truncated at a byte
// boundary when it exceeds the bound title space.
func (w *Writer) encodeTitle(bb *pool.ByteBuffer, title string) {
	raw := []byte(title)
	if len(raw) > w.titleSpace {
		raw = raw[:w.titleSpace]
	}

	bb.MustWrite(raw)
	for i := len(raw); i < w.titleSpace; i++ {
		bb.B = append(bb.B, ' ')
	}
}

// encodeSamples narrows the float32 samples to the bound coding.
func (w *Writer) encodeSamples(bb *pool.ByteBuffer, samples []float32) error {
	bb.Grow(len(samples) * w.coding.Size())

	if w.coding == format.CodingFloat {
		for _, s := range samples {
			bb.B = w.engine.AppendUint32(bb.B, math.Float32bits(s))
		}

		return nil
	}

	minVal, maxVal := w.coding.Min(), w.coding.Max()
	for _, s := range samples {
		f := float64(s)
		if f < minVal || f > maxVal {
			return fmt.Errorf("%w: sample %v does not fit %s",
				errs.ErrSampleOutOfRange, s, w.coding)
		}

		v := int64(f)
		switch w.coding {
		case format.CodingByte:
			bb.B = append(bb.B, byte(int8(v)))
		case format.CodingShort:
			bb.B = w.engine.AppendUint16(bb.B, uint16(int16(v)))
		case format.CodingInt:
			bb.B = w.engine.AppendUint32(bb.B, uint32(int32(v)))
		}
	}

	return nil
}

// Get always fails on a writer.
func (w *Writer) Get(_ int) (Trace, error) {
	if !w.open {
		return Trace{}, errs.ErrNotOpen
	}

	return Trace{}, fmt.Errorf("%w: cannot read from a trace set opened for writing", errs.ErrWrongMode)
}

// Metadata returns the writer's header metadata. The first Add binds the
// layout and writes the placeholder header from it; Close re-emits the
// header from it again, so later mutations are written too, and Close fails
// with ErrFileSizeMismatch when they change the header's length.
func (w *Writer) Metadata() *section.MetaData {
	return w.md
}

// NumberOfTraces returns the number of traces added so far.
func (w *Writer) NumberOfTraces() int {
	return w.numTraces
}

// Close rewrites the header with the final trace count and closes the file.
// Closing twice is a no-op. When no trace was ever added, Close writes a
// valid header describing an empty set.
//
// The file handle is released on every exit path, including header rewrite
// failures.
func (w *Writer) Close() (err error) {
	if !w.open {
		return nil
	}
	w.open = false

	defer func() {
		if cerr := w.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		w.f = nil
	}()

	if w.firstTrace {
		// Nothing was added; bind an empty layout so the file parses.
		if err = w.setIfAbsent(section.TagNumberOfSamples, 0); err != nil {
			return err
		}
		if err = w.setIfAbsent(section.TagSampleCoding, int(format.CodingFloat)); err != nil {
			return err
		}
		if err = w.md.Set(section.TagNumberOfTraces, 0); err != nil {
			return err
		}
	}

	header, herr := w.md.Bytes()
	if herr != nil {
		return herr
	}

	if !w.firstTrace && len(header) != w.headerLen {
		return fmt.Errorf("%w: final header is %d bytes, placeholder was %d",
			errs.ErrFileSizeMismatch, len(header), w.headerLen)
	}

	if _, werr := w.f.WriteAt(header, 0); werr != nil {
		return werr
	}

	return w.f.Sync()
}
