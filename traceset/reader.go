package traceset

import (
	"fmt"
	"math"
	"os"
	"strings"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/arloliu/trs/endian"
	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/format"
	"github.com/arloliu/trs/internal/options"
	"github.com/arloliu/trs/param"
	"github.com/arloliu/trs/section"
)

// DefaultWindowSize is the default upper bound on the reader's mapped
// window. Files larger than the window are read through a sliding remap.
const DefaultWindowSize = 1 << 30

// titlePadding is the set of bytes trimmed from the end of a stored title.
const titlePadding = "\x00 \t\r\n"

// Reader provides random access to the traces of an existing TRS file
// through a sliding memory-mapped window.
//
// The window caches the most recently needed region of the file; Get remaps
// it only when the requested trace falls outside. A Reader owns its window,
// so parallel readers of the same file need one Reader per goroutine.
type Reader struct {
	f      *os.File
	window mmap.MMap

	winStart int64 // file offset of the mapped window, page aligned
	winSize  int64
	fileSize int64

	md       *section.MetaData
	metaSize int64

	numTraces   int
	numSamples  int
	dataLength  int
	titleSpace  int
	globalTitle string
	coding      format.SampleCoding
	traceSize   int64

	windowSize int64
	pageSize   int64
	engine     endian.EndianEngine
	open       bool
}

// OpenRead opens a TRS file for reading and parses its header.
//
// The initial window covers min(fileSize, windowSize) bytes from offset 0.
// The file size is validated against the header up front: it must equal
// header size + traceSize * NUMBER_OF_TRACES exactly.
func OpenRead(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	r := &Reader{
		f:          f,
		fileSize:   st.Size(),
		windowSize: DefaultWindowSize,
		pageSize:   int64(os.Getpagesize()),
		engine:     endian.GetLittleEndianEngine(),
	}

	if err := options.Apply(r, opts...); err != nil {
		f.Close()
		return nil, err
	}

	if err := r.init(); err != nil {
		r.release()
		return nil, err
	}

	r.open = true

	return r, nil
}

func (r *Reader) init() error {
	if r.fileSize == 0 {
		return fmt.Errorf("%w: empty file", errs.ErrTruncatedHeader)
	}

	if err := r.remap(0); err != nil {
		return err
	}

	md, metaSize, err := section.ParseMetaData(r.window)
	if err != nil {
		return err
	}
	r.md = md
	r.metaSize = int64(metaSize)

	if r.numTraces, err = md.Int(section.TagNumberOfTraces); err != nil {
		return err
	}
	if r.numSamples, err = md.Int(section.TagNumberOfSamples); err != nil {
		return err
	}
	if r.dataLength, err = md.Int(section.TagDataLength); err != nil {
		return err
	}
	if r.titleSpace, err = md.Int(section.TagTitleSpace); err != nil {
		return err
	}
	if r.globalTitle, err = md.Text(section.TagGlobalTitle); err != nil {
		return err
	}
	if r.coding, err = md.SampleCoding(); err != nil {
		return err
	}

	r.traceSize = int64(r.numSamples)*int64(r.coding.Size()) + int64(r.dataLength) + int64(r.titleSpace)

	expected := r.metaSize + r.traceSize*int64(r.numTraces)
	if r.fileSize != expected {
		return fmt.Errorf("%w: file is %d bytes, header declares %d",
			errs.ErrFileSizeMismatch, r.fileSize, expected)
	}

	return nil
}

// remap positions the window so that it starts at or before the given file
// offset. The mapping offset is aligned down to the page size and the
// length is min(fileSize - alignedStart, windowSize).
func (r *Reader) remap(start int64) error {
	aligned := start - start%r.pageSize

	length := r.fileSize - aligned
	if length > r.windowSize {
		length = r.windowSize
	}

	if r.window != nil {
		if err := r.window.Unmap(); err != nil {
			return err
		}
		r.window = nil
	}

	window, err := mmap.MapRegion(r.f, int(length), mmap.RDONLY, 0, aligned)
	if err != nil {
		return err
	}

	r.window = window
	r.winStart = aligned
	r.winSize = length

	return nil
}

// Get returns the trace at the given index, remapping the window when the
// trace record lies outside the current one.
//
// Returns ErrNotOpen on a closed reader, ErrIndexOutOfBounds for indices
// beyond NUMBER_OF_TRACES, and ErrWindowTooSmall when a single trace does
// not fit the configured window.
func (r *Reader) Get(index int) (Trace, error) {
	if !r.open {
		return Trace{}, errs.ErrNotOpen
	}

	if index < 0 || index >= r.numTraces {
		return Trace{}, fmt.Errorf("%w: index %d, set has %d traces",
			errs.ErrIndexOutOfBounds, index, r.numTraces)
	}

	start := r.metaSize + int64(index)*r.traceSize
	end := start + r.traceSize

	if start < r.winStart || end > r.winStart+r.winSize {
		if err := r.remap(start); err != nil {
			return Trace{}, err
		}
		if end > r.winStart+r.winSize {
			return Trace{}, fmt.Errorf("%w: trace is %d bytes, window %d",
				errs.ErrWindowTooSmall, r.traceSize, r.windowSize)
		}
	}

	record := r.window[start-r.winStart : end-r.winStart]

	title := strings.TrimRight(string(record[:r.titleSpace]), titlePadding)
	if title == "" {
		title = fmt.Sprintf("%s %d", r.globalTitle, index)
	}

	data := make([]byte, r.dataLength)
	copy(data, record[r.titleSpace:r.titleSpace+r.dataLength])

	samples := r.decodeSamples(record[r.titleSpace+r.dataLength:])

	scaleX, err := r.md.Float(section.TagScaleX)
	if err != nil {
		return Trace{}, err
	}

	return Trace{
		Title:           title,
		Data:            data,
		Samples:         samples,
		SampleFrequency: 1 / scaleX,
	}, nil
}

// decodeSamples widens the raw little-endian sample payload to float32.
func (r *Reader) decodeSamples(raw []byte) []float32 {
	out := make([]float32, r.numSamples)

	switch r.coding {
	case format.CodingByte:
		for i := range out {
			out[i] = float32(int8(raw[i]))
		}
	case format.CodingShort:
		for i := range out {
			out[i] = float32(int16(r.engine.Uint16(raw[i*2:])))
		}
	case format.CodingInt:
		for i := range out {
			out[i] = float32(int32(r.engine.Uint32(raw[i*4:])))
		}
	case format.CodingFloat:
		if r.numSamples == 0 {
			break
		}
		// Zero-copy widening when the host byte order matches the wire and
		// the mapped payload happens to be 4-byte aligned.
		if endian.IsNativeLittleEndian() && uintptr(unsafe.Pointer(&raw[0]))%4 == 0 {
			src := unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), r.numSamples)
			copy(out, src)
			break
		}
		for i := range out {
			out[i] = math.Float32frombits(r.engine.Uint32(raw[i*4:]))
		}
	}

	return out
}

// Add always fails on a reader.
func (r *Reader) Add(_ Trace) error {
	if !r.open {
		return errs.ErrNotOpen
	}

	return fmt.Errorf("%w: cannot add to a trace set opened for reading", errs.ErrWrongMode)
}

// Metadata returns the parsed header metadata.
func (r *Reader) Metadata() *section.MetaData {
	return r.md
}

// NumberOfTraces returns the trace count declared by the header.
func (r *Reader) NumberOfTraces() int {
	return r.numTraces
}

// NumberOfSamples returns the per-trace sample count.
func (r *Reader) NumberOfSamples() int {
	return r.numSamples
}

// DataLength returns the per-trace data blob size in bytes.
func (r *Reader) DataLength() int {
	return r.dataLength
}

// TitleSpace returns the per-trace title field size in bytes.
func (r *Reader) TitleSpace() int {
	return r.titleSpace
}

// SampleCoding returns the on-disk sample coding of the set.
func (r *Reader) SampleCoding() format.SampleCoding {
	return r.coding
}

// ParameterDefinitions parses the TRACE_PARAMETER_DEFINITIONS header tag.
// It returns an empty definition map when the tag is absent.
func (r *Reader) ParameterDefinitions() (*param.Definitions, error) {
	raw, err := r.md.BytesValue(section.TagTraceParameterDefinitions)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return param.NewDefinitions(), nil
	}

	return param.ParseDefinitions(raw)
}

// Close unmaps the window and closes the file. Closing twice is a no-op.
func (r *Reader) Close() error {
	if !r.open {
		return nil
	}
	r.open = false

	return r.release()
}

// release tears down the mapping and file handle, keeping the first error.
func (r *Reader) release() error {
	var firstErr error

	if r.window != nil {
		if err := r.window.Unmap(); err != nil {
			firstErr = err
		}
		r.window = nil
	}

	if r.f != nil {
		if err := r.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.f = nil
	}

	return firstErr
}
