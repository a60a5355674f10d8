package param

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/arloliu/trs/endian"
	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/internal/pool"
)

// Map is the insertion-ordered mapping from parameter name to value.
//
// A map obtained from Deserialize is frozen: further mutation fails with
// ErrImmutableMap. Maps built by the caller stay mutable; serializing one
// into a trace does not freeze it.
//
// Map is not safe for concurrent mutation.
type Map struct {
	m      *orderedmap.OrderedMap[string, Value]
	frozen bool
}

// NewMap creates an empty, mutable parameter map.
func NewMap() *Map {
	return &Map{
		m: orderedmap.New[string, Value](),
	}
}

// Set stores a value under name, appending it to the insertion order when
// the name is new.
//
// Returns ErrImmutableMap on a frozen map.
func (m *Map) Set(name string, value Value) error {
	if m.frozen {
		return fmt.Errorf("%w: cannot set %q", errs.ErrImmutableMap, name)
	}

	m.m.Set(name, value)

	return nil
}

// Get returns the value stored under name.
//
// Returns ErrKeyNotFound when the name is absent.
func (m *Map) Get(name string) (Value, error) {
	v, ok := m.m.Get(name)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", errs.ErrKeyNotFound, name)
	}

	return v, nil
}

// Has reports whether name is present.
func (m *Map) Has(name string) bool {
	_, ok := m.m.Get(name)
	return ok
}

// Len returns the number of parameters.
func (m *Map) Len() int {
	return m.m.Len()
}

// Names returns the parameter names in insertion order.
func (m *Map) Names() []string {
	names := make([]string, 0, m.m.Len())
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

// Frozen reports whether the map rejects mutation.
func (m *Map) Frozen() bool {
	return m.frozen
}

// TotalSize returns the serialized size of all values in bytes.
func (m *Map) TotalSize() int {
	total := 0
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		total += pair.Value.Size()
	}

	return total
}

// Definitions derives a definition map matching this parameter map: same
// names in the same order, offsets tiling the blob.
func (m *Map) Definitions() (*Definitions, error) {
	defs := NewDefinitions()
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		if err := defs.Add(pair.Key, pair.Value.Type(), pair.Value.Len()); err != nil {
			return nil, err
		}
	}

	return defs, nil
}

// Serialize emits the values back-to-back in insertion order with no
// per-entry framing; the framing lives in the definition map.
func (m *Map) Serialize() []byte {
	bb := pool.GetTraceBuffer()
	defer pool.PutTraceBuffer(bb)

	engine := endian.GetLittleEndianEngine()
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.serialize(bb, engine)
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out
}

// Deserialize decodes a parameter blob using the layout in defs and returns
// a frozen map.
//
// Returns ErrParameterLengthMismatch when the blob size does not equal
// defs.TotalSize(), including the empty-blob-with-definitions case.
func Deserialize(data []byte, defs *Definitions) (*Map, error) {
	expected := defs.TotalSize()
	if len(data) == 0 && expected != 0 {
		return nil, fmt.Errorf("%w: empty data but definitions declare %d bytes",
			errs.ErrParameterLengthMismatch, expected)
	}
	if len(data) != expected {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d",
			errs.ErrParameterLengthMismatch, len(data), expected)
	}

	engine := endian.GetLittleEndianEngine()

	m := NewMap()
	for pair := defs.m.Oldest(); pair != nil; pair = pair.Next() {
		def := pair.Value
		raw := data[def.Offset : def.Offset+def.Size()]
		m.m.Set(pair.Key, deserializeValue(raw, def.Type, def.Length, engine))
	}
	m.frozen = true

	return m, nil
}
