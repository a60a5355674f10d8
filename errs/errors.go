// Package errs defines the sentinel errors shared across the trs packages.
//
// Call sites wrap these sentinels with fmt.Errorf("%w: ...") to attach
// context such as the offending tag, index, or size. Callers match them
// with errors.Is.
package errs

import "errors"

var (
	// ErrNotOpen is returned when an operation is performed on a closed trace set.
	ErrNotOpen = errors.New("trace set is not open")

	// ErrWrongMode is returned when a read operation is performed on a writer
	// or a write operation on a reader.
	ErrWrongMode = errors.New("operation not permitted in this mode")

	// ErrIndexOutOfBounds is returned by Get when the trace index is not in
	// [0, NUMBER_OF_TRACES).
	ErrIndexOutOfBounds = errors.New("trace index out of bounds")

	// ErrUnknownTag is returned when a header tag identifier is not in the
	// TRS tag registry.
	ErrUnknownTag = errors.New("unknown header tag")

	// ErrUnknownSampleCoding is returned when a sample coding code does not
	// resolve to BYTE, SHORT, INT or FLOAT.
	ErrUnknownSampleCoding = errors.New("unknown sample coding")

	// ErrUnknownParameterType is returned when a parameter type byte does not
	// resolve to a known type.
	ErrUnknownParameterType = errors.New("unknown parameter type")

	// ErrMissingRequiredTag is returned when a required tag is absent after
	// parsing a header or before emitting one.
	ErrMissingRequiredTag = errors.New("missing required header tag")

	// ErrTruncatedHeader is returned when the header ends before the
	// TRACE_BLOCK sentinel tag.
	ErrTruncatedHeader = errors.New("truncated header")

	// ErrFileSizeMismatch is returned when the file size does not equal
	// header size + traceSize * NUMBER_OF_TRACES.
	ErrFileSizeMismatch = errors.New("file size does not match header")

	// ErrInvalidScale is returned when SCALE_X is not strictly positive.
	ErrInvalidScale = errors.New("invalid scale")

	// ErrShapeMismatch is returned by Add when a trace does not match the
	// shape fixed by the first trace.
	ErrShapeMismatch = errors.New("trace shape mismatch")

	// ErrSampleOutOfRange is returned when a sample value does not fit the
	// integral range of the bound sample coding.
	ErrSampleOutOfRange = errors.New("sample value out of range")

	// ErrParameterLengthMismatch is returned when a parameter blob size does
	// not match the total size of the definition map.
	ErrParameterLengthMismatch = errors.New("parameter data length mismatch")

	// ErrTypeMismatch is returned by typed accessors when the stored value
	// has a different kind than requested.
	ErrTypeMismatch = errors.New("value type mismatch")

	// ErrKeyNotFound is returned on a parameter map lookup miss.
	ErrKeyNotFound = errors.New("key not found")

	// ErrImmutableMap is returned when mutating a deserialized parameter map.
	ErrImmutableMap = errors.New("parameter map is immutable")

	// ErrValueTooLarge is returned when a value does not fit its wire
	// representation, e.g. a definition offset beyond uint16.
	ErrValueTooLarge = errors.New("value too large for wire format")

	// ErrWindowTooSmall is returned when a single trace record does not fit
	// the reader's mapped window.
	ErrWindowTooSmall = errors.New("trace record exceeds window size")
)
