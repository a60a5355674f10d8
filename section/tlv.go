package section

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/trs/endian"
	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/internal/pool"
)

// The header is a sequence of (tag, length, value) records terminated by the
// TRACE_BLOCK tag. Lengths below 0x80 occupy a single byte; larger lengths
// store 0x80|n followed by n little-endian length bytes.

// maxLengthBytes bounds the number of extension bytes in a length varint.
const maxLengthBytes = 8

// EncodeLength appends the varint wire form of n to dst and returns the
// extended slice. n must be non-negative.
func EncodeLength(dst []byte, n int) []byte {
	if n < 0x80 {
		return append(dst, byte(n))
	}

	var scratch [maxLengthBytes]byte
	count := 0
	for v := uint64(n); v > 0; v >>= 8 {
		scratch[count] = byte(v)
		count++
	}

	dst = append(dst, 0x80|byte(count))

	return append(dst, scratch[:count]...)
}

// DecodeLength reads a varint length at data[pos] and returns the value and
// the position just past it.
func DecodeLength(data []byte, pos int) (int, int, error) {
	if pos >= len(data) {
		return 0, 0, fmt.Errorf("%w: length at offset %d", errs.ErrTruncatedHeader, pos)
	}

	first := data[pos]
	pos++
	if first&0x80 == 0 {
		return int(first), pos, nil
	}

	count := int(first & 0x7F)
	if count > maxLengthBytes {
		return 0, 0, fmt.Errorf("%w: %d length bytes", errs.ErrValueTooLarge, count)
	}
	if pos+count > len(data) {
		return 0, 0, fmt.Errorf("%w: length at offset %d", errs.ErrTruncatedHeader, pos)
	}

	var v uint64
	for i := 0; i < count; i++ {
		v |= uint64(data[pos+i]) << (8 * i)
	}
	pos += count

	if v > math.MaxInt {
		return 0, 0, fmt.Errorf("%w: length %d", errs.ErrValueTooLarge, v)
	}

	return int(v), pos, nil
}

// ParseMetaData parses a TLV header from the start of data.
//
// Parsing stops at the TRACE_BLOCK sentinel. The returned int is the total
// header length in bytes, which is also the file offset of the first trace
// record.
//
// Returns ErrUnknownTag, ErrTruncatedHeader or ErrMissingRequiredTag on
// malformed headers.
func ParseMetaData(data []byte) (*MetaData, int, error) {
	md := NewMetaData()
	pos := 0

	for {
		if pos >= len(data) {
			return nil, 0, fmt.Errorf("%w: no TRACE_BLOCK sentinel", errs.ErrTruncatedHeader)
		}

		tag, err := TagByID(data[pos])
		if err != nil {
			return nil, 0, err
		}
		pos++

		var length int
		length, pos, err = DecodeLength(data, pos)
		if err != nil {
			return nil, 0, err
		}
		if pos+length > len(data) {
			return nil, 0, fmt.Errorf("%w: tag %s declares %d value bytes",
				errs.ErrTruncatedHeader, tag.Name(), length)
		}

		raw := data[pos : pos+length]
		pos += length

		if tag == TagTraceBlock {
			break
		}

		value, err := decodeValue(tag, raw)
		if err != nil {
			return nil, 0, err
		}
		md.m.Set(tag, value)
	}

	for _, tag := range requiredTags {
		if !md.Has(tag) {
			return nil, 0, fmt.Errorf("%w: %s", errs.ErrMissingRequiredTag, tag.Name())
		}
	}

	return md, pos, nil
}

// decodeValue interprets a raw TLV value per the tag's kind.
func decodeValue(tag Tag, raw []byte) (any, error) {
	switch tag.Kind() {
	case KindInt:
		return decodeIntValue(raw), nil
	case KindFloat:
		if len(raw) != 4 {
			return nil, fmt.Errorf("%w: tag %s float value is %d bytes",
				errs.ErrTruncatedHeader, tag.Name(), len(raw))
		}

		return math.Float32frombits(endian.GetLittleEndianEngine().Uint32(raw)), nil
	case KindString:
		return string(raw), nil
	case KindBool:
		return len(raw) > 0 && raw[0] != 0, nil
	case KindBytes:
		value := make([]byte, len(raw))
		copy(value, raw)

		return value, nil
	default:
		return nil, fmt.Errorf("%w: tag %s", errs.ErrUnknownTag, tag.Name())
	}
}

// decodeIntValue reads a little-endian integer of up to 8 bytes. Four-byte
// values are interpreted as signed int32; shorter values are zero-extended.
func decodeIntValue(raw []byte) int {
	var u uint64
	for i, b := range raw {
		if i >= 8 {
			break
		}
		u |= uint64(b) << (8 * i)
	}

	if len(raw) == 4 {
		return int(int32(u))
	}

	return int(u)
}

// Bytes emits the TLV wire form of the metadata.
//
// Tags are emitted in insertion order; a tag is written when it is required
// or its value differs from the registry default. Integer and float values
// use a canonical 4-byte encoding, so re-emitting after changing only the
// value of a required integer tag (notably NUMBER_OF_TRACES) yields a header
// of the same length. An optional tag whose value moves to or from its
// default is dropped or added, which changes the length.
//
// Returns ErrMissingRequiredTag, ErrInvalidScale or ErrUnknownSampleCoding
// when the emission invariants do not hold.
func (md *MetaData) Bytes() ([]byte, error) {
	if err := md.validate(); err != nil {
		return nil, err
	}

	bb := pool.GetHeaderBuffer()
	defer pool.PutHeaderBuffer(bb)

	engine := endian.GetLittleEndianEngine()

	for pair := md.m.Oldest(); pair != nil; pair = pair.Next() {
		tag := pair.Key
		if tag == TagTraceBlock {
			continue
		}
		if !tag.Required() && valueEqualsDefault(tag, pair.Value) {
			continue
		}

		emitRecord(bb, engine, tag, pair.Value)
	}

	// Header terminator.
	bb.MustWrite([]byte{byte(TagTraceBlock), 0})

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out, nil
}

func valueEqualsDefault(tag Tag, value any) bool {
	def := tag.Default()
	if b, ok := value.([]byte); ok {
		d, _ := def.([]byte)
		return bytes.Equal(b, d)
	}

	return value == def
}

func emitRecord(bb *pool.ByteBuffer, engine endian.EndianEngine, tag Tag, value any) {
	bb.B = append(bb.B, byte(tag))

	switch tag.Kind() {
	case KindInt:
		bb.B = EncodeLength(bb.B, 4)
		bb.B = engine.AppendUint32(bb.B, uint32(int32(value.(int))))
	case KindFloat:
		bb.B = EncodeLength(bb.B, 4)
		bb.B = engine.AppendUint32(bb.B, math.Float32bits(value.(float32)))
	case KindString:
		s := value.(string)
		bb.B = EncodeLength(bb.B, len(s))
		bb.B = append(bb.B, s...)
	case KindBool:
		bb.B = EncodeLength(bb.B, 1)
		b := byte(0)
		if value.(bool) {
			b = 1
		}
		bb.B = append(bb.B, b)
	case KindBytes:
		raw := value.([]byte)
		bb.B = EncodeLength(bb.B, len(raw))
		bb.B = append(bb.B, raw...)
	}
}
