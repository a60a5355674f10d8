// Package trs reads and writes TRS trace set files: the binary container
// format for sequences of measurement traces (typically side-channel power
// or electromagnetic captures) with structured header metadata and typed
// per-trace parameters.
//
// A TRS file is a little-endian TLV header followed by fixed-size trace
// records (title, data blob, samples). Samples are stored in one of four
// codings (byte, short, int, float) and are always float32 in memory.
//
// # Reading
//
//	ts, err := trs.Open("captures.trs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ts.Close()
//
//	for i := 0; i < ts.NumberOfTraces(); i++ {
//	    t, err := ts.Get(i)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    process(t.Samples)
//	}
//
// Readers access traces through a sliding memory-mapped window, so files
// far larger than memory can be read by index without loading them whole.
//
// # Writing
//
//	ts, err := trs.Create("out.trs", traceset.WithGlobalTitle("aes128"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range traces {
//	    if err := ts.Add(t); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if err := ts.Close(); err != nil {
//	    log.Fatal(err)
//	}
//
// The first Add binds the set layout (sample count, data length, title
// space, coding, scale) and writes a placeholder header; Close patches the
// final trace count in place. A writer abandoned without Close leaves a
// corrupt file.
//
// # Package structure
//
// This package provides thin wrappers over the traceset package for the
// common cases. The subpackages expose the individual pieces: traceset
// (reader, writer, trace record), section (header tags and the TLV codec),
// param (typed trace parameters) and format (sample codings).
package trs

import "github.com/arloliu/trs/traceset"

// Trace is one captured signal. See traceset.Trace.
type Trace = traceset.Trace

// TraceSet is the common read/write surface. See traceset.TraceSet.
type TraceSet = traceset.TraceSet

// Open opens an existing TRS file for random-access reading.
func Open(path string, opts ...traceset.ReaderOption) (*traceset.Reader, error) {
	return traceset.OpenRead(path, opts...)
}

// Create creates a TRS file for writing.
func Create(path string, opts ...traceset.WriterOption) (*traceset.Writer, error) {
	return traceset.OpenWrite(path, opts...)
}

// Save writes all traces to a new TRS file and closes it.
//
// It is the convenience path over Create / Add / Close. On an Add error the
// partially written file is closed and the first error is returned.
func Save(path string, traces []Trace, opts ...traceset.WriterOption) error {
	ts, err := Create(path, opts...)
	if err != nil {
		return err
	}

	for _, t := range traces {
		if err := ts.Add(t); err != nil {
			ts.Close()
			return err
		}
	}

	return ts.Close()
}
