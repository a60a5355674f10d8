package param

import (
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/arloliu/trs/endian"
	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/internal/pool"
)

// Definition describes the layout of one parameter inside the per-trace
// parameter blob: its element type, element count and byte offset.
type Definition struct {
	Type   Type
	Length int
	Offset int
}

// Size returns the number of blob bytes the definition covers.
func (d Definition) Size() int {
	return d.Length * d.Type.Size()
}

// Definitions is the insertion-ordered schema of a parameter blob. Offsets
// are assigned monotonically as entries are added, so the entries exactly
// tile the blob.
//
// The definition map is serialized into the TRACE_PARAMETER_DEFINITIONS
// header tag; the per-trace blob itself carries no framing.
type Definitions struct {
	m *orderedmap.OrderedMap[string, Definition]
}

// NewDefinitions creates an empty definition map.
func NewDefinitions() *Definitions {
	return &Definitions{
		m: orderedmap.New[string, Definition](),
	}
}

// Add appends a definition for name with the next free offset.
//
// length must be at least 1. Returns ErrValueTooLarge when the name, length
// or resulting offset does not fit the u16 wire fields.
func (d *Definitions) Add(name string, typ Type, length int) error {
	if length < 1 {
		return fmt.Errorf("%w: parameter %q length %d", errs.ErrParameterLengthMismatch, name, length)
	}

	offset := d.TotalSize()
	if len(name) > math.MaxUint16 || length > math.MaxUint16 || offset > math.MaxUint16 {
		return fmt.Errorf("%w: parameter %q", errs.ErrValueTooLarge, name)
	}

	d.m.Set(name, Definition{Type: typ, Length: length, Offset: offset})

	return nil
}

// Get returns the definition for name.
//
// Returns ErrKeyNotFound when the name is absent.
func (d *Definitions) Get(name string) (Definition, error) {
	def, ok := d.m.Get(name)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", errs.ErrKeyNotFound, name)
	}

	return def, nil
}

// Has reports whether name is defined.
func (d *Definitions) Has(name string) bool {
	_, ok := d.m.Get(name)
	return ok
}

// Len returns the number of definitions.
func (d *Definitions) Len() int {
	return d.m.Len()
}

// Names returns the defined names in insertion order.
func (d *Definitions) Names() []string {
	names := make([]string, 0, d.m.Len())
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

// TotalSize returns the size in bytes of a parameter blob laid out by this
// definition map.
func (d *Definitions) TotalSize() int {
	total := 0
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		total += pair.Value.Size()
	}

	return total
}

// Bytes serializes the definition map for embedding in the
// TRACE_PARAMETER_DEFINITIONS header tag.
//
// Wire form: u16 entry count, then per entry u16 name length, name bytes,
// type byte, u16 element count, u16 offset. All integers little-endian.
func (d *Definitions) Bytes() ([]byte, error) {
	if d.m.Len() > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d definitions", errs.ErrValueTooLarge, d.m.Len())
	}

	bb := pool.GetHeaderBuffer()
	defer pool.PutHeaderBuffer(bb)

	engine := endian.GetLittleEndianEngine()
	bb.B = engine.AppendUint16(bb.B, uint16(d.m.Len()))

	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		def := pair.Value
		bb.B = engine.AppendUint16(bb.B, uint16(len(pair.Key)))
		bb.B = append(bb.B, pair.Key...)
		bb.B = append(bb.B, byte(def.Type))
		bb.B = engine.AppendUint16(bb.B, uint16(def.Length))
		bb.B = engine.AppendUint16(bb.B, uint16(def.Offset))
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out, nil
}

// ParseDefinitions decodes a definition map produced by Bytes.
func ParseDefinitions(data []byte) (*Definitions, error) {
	engine := endian.GetLittleEndianEngine()
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: definition map", errs.ErrTruncatedHeader)
	}

	count := int(engine.Uint16(data))
	pos := 2

	defs := NewDefinitions()
	for i := 0; i < count; i++ {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("%w: definition name length", errs.ErrTruncatedHeader)
		}
		nameLen := int(engine.Uint16(data[pos:]))
		pos += 2

		if pos+nameLen+5 > len(data) {
			return nil, fmt.Errorf("%w: definition entry", errs.ErrTruncatedHeader)
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen

		typ, err := TypeOf(data[pos])
		if err != nil {
			return nil, err
		}
		pos++

		length := int(engine.Uint16(data[pos:]))
		pos += 2
		offset := int(engine.Uint16(data[pos:]))
		pos += 2

		expected := defs.TotalSize()
		if offset != expected {
			return nil, fmt.Errorf("%w: parameter %q offset %d, expected %d",
				errs.ErrParameterLengthMismatch, name, offset, expected)
		}

		if err := defs.Add(name, typ, length); err != nil {
			return nil, err
		}
	}

	return defs, nil
}
