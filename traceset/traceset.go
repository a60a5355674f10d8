package traceset

import "github.com/arloliu/trs/section"

// TraceSet is the common surface of a trace set opened for reading or
// writing. A set is never simultaneously readable and writable: Add on a
// reader and Get on a writer fail with ErrWrongMode, and Get and Add on a
// closed set fail with ErrNotOpen.
type TraceSet interface {
	// Get returns the trace at the given index.
	Get(index int) (Trace, error)

	// Add appends a trace to the set.
	Add(t Trace) error

	// Metadata returns the header metadata of the set.
	Metadata() *section.MetaData

	// Close releases the underlying file handle and, for writers, patches
	// the final header. Closing twice is a no-op.
	Close() error
}

var (
	_ TraceSet = (*Reader)(nil)
	_ TraceSet = (*Writer)(nil)
)
