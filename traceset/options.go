package traceset

import (
	"fmt"

	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/internal/options"
	"github.com/arloliu/trs/param"
	"github.com/arloliu/trs/section"
)

// ReaderOption represents a functional option for configuring a Reader.
type ReaderOption = options.Option[*Reader]

// WithWindowSize overrides the maximum size of the reader's mapped window.
//
// The default is DefaultWindowSize. A single trace record must fit the
// window; Get fails with ErrWindowTooSmall otherwise.
func WithWindowSize(size int64) ReaderOption {
	return options.New(func(r *Reader) error {
		if size <= 0 {
			return fmt.Errorf("%w: window size %d", errs.ErrWindowTooSmall, size)
		}
		r.windowSize = size

		return nil
	})
}

// WriterOption represents a functional option for configuring a Writer.
type WriterOption = options.Option[*Writer]

// WithMetadata seeds the writer's header with a copy of md. Values supplied
// here take precedence over the fields the writer derives from the first
// trace.
func WithMetadata(md *section.MetaData) WriterOption {
	return options.NoError(func(w *Writer) {
		w.md = md.Clone()
	})
}

// WithGlobalTitle sets the GLOBAL_TITLE header tag, used to synthesize
// titles for traces stored without one.
func WithGlobalTitle(title string) WriterOption {
	return options.New(func(w *Writer) error {
		return w.md.Set(section.TagGlobalTitle, title)
	})
}

// WithDescription sets the DESCRIPTION header tag.
func WithDescription(description string) WriterOption {
	return options.New(func(w *Writer) error {
		return w.md.Set(section.TagDescription, description)
	})
}

// WithParameterDefinitions embeds a parameter definition map in the header
// and binds DATA_LENGTH to its total size. Traces added to the set must
// carry a data blob laid out by defs.
func WithParameterDefinitions(defs *param.Definitions) WriterOption {
	return options.New(func(w *Writer) error {
		raw, err := defs.Bytes()
		if err != nil {
			return err
		}
		if err := w.md.Set(section.TagTraceParameterDefinitions, raw); err != nil {
			return err
		}
		if err := w.md.Set(section.TagDataLength, defs.TotalSize()); err != nil {
			return err
		}
		w.defs = defs

		return nil
	})
}
