package section

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/format"
)

// MetaData is the insertion-ordered mapping from header tag to value.
//
// Values are kind-checked on Set against the tag registry; typed getters
// return the registry default when a tag is absent. The insertion order
// drives the emission order of the TLV header, which keeps serialization
// deterministic.
//
// MetaData is not safe for concurrent mutation.
type MetaData struct {
	m *orderedmap.OrderedMap[Tag, any]
}

// NewMetaData creates an empty metadata map.
func NewMetaData() *MetaData {
	return &MetaData{
		m: orderedmap.New[Tag, any](),
	}
}

// Set stores a value for the given tag after kind-checking it.
//
// Integer kinds accept int, int32 and int64; float kinds accept float32 and
// float64. Values are normalized to the canonical representation (int,
// float32, string, bool, []byte).
//
// Returns ErrUnknownTag for tags outside the registry and ErrTypeMismatch
// when the value does not match the tag's kind.
func (md *MetaData) Set(tag Tag, value any) error {
	info, ok := tagRegistry[tag]
	if !ok {
		return fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, uint8(tag))
	}

	normalized, err := normalizeValue(info.kind, value)
	if err != nil {
		return fmt.Errorf("%w: tag %s", err, info.name)
	}

	md.m.Set(tag, normalized)

	return nil
}

// normalizeValue coerces value to the canonical in-memory representation of
// the given kind.
func normalizeValue(kind ValueKind, value any) (any, error) {
	switch kind {
	case KindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int32:
			return int(v), nil
		case int64:
			return int(v), nil
		case format.SampleCoding:
			return int(v), nil
		}
	case KindFloat:
		switch v := value.(type) {
		case float32:
			return v, nil
		case float64:
			return float32(v), nil
		}
	case KindString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case KindBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case KindBytes:
		if v, ok := value.([]byte); ok {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%w: cannot store %T as %s", errs.ErrTypeMismatch, value, kind)
}

// Has reports whether the tag has an explicitly stored value.
func (md *MetaData) Has(tag Tag) bool {
	_, ok := md.m.Get(tag)
	return ok
}

// Len returns the number of explicitly stored tags.
func (md *MetaData) Len() int {
	return md.m.Len()
}

// Tags returns the stored tags in insertion order.
func (md *MetaData) Tags() []Tag {
	tags := make([]Tag, 0, md.m.Len())
	for pair := md.m.Oldest(); pair != nil; pair = pair.Next() {
		tags = append(tags, pair.Key)
	}

	return tags
}

// Int returns the integer value of the tag, or the registry default when the
// tag is absent. Returns ErrTypeMismatch when the tag is not an integer tag.
func (md *MetaData) Int(tag Tag) (int, error) {
	v, err := md.value(tag, KindInt)
	if err != nil {
		return 0, err
	}

	return v.(int), nil
}

// Float returns the float value of the tag, or the registry default when the
// tag is absent.
func (md *MetaData) Float(tag Tag) (float32, error) {
	v, err := md.value(tag, KindFloat)
	if err != nil {
		return 0, err
	}

	return v.(float32), nil
}

// Text returns the string value of the tag, or the registry default when the
// tag is absent.
func (md *MetaData) Text(tag Tag) (string, error) {
	v, err := md.value(tag, KindString)
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Bool returns the boolean value of the tag, or the registry default when
// the tag is absent.
func (md *MetaData) Bool(tag Tag) (bool, error) {
	v, err := md.value(tag, KindBool)
	if err != nil {
		return false, err
	}

	return v.(bool), nil
}

// BytesValue returns the raw byte value of the tag, or nil when the tag is
// absent. The returned slice shares memory with the stored value.
func (md *MetaData) BytesValue(tag Tag) ([]byte, error) {
	v, err := md.value(tag, KindBytes)
	if err != nil {
		return nil, err
	}

	b, _ := v.([]byte)

	return b, nil
}

func (md *MetaData) value(tag Tag, kind ValueKind) (any, error) {
	info, ok := tagRegistry[tag]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, uint8(tag))
	}
	if info.kind != kind {
		return nil, fmt.Errorf("%w: tag %s holds %s, requested %s",
			errs.ErrTypeMismatch, info.name, info.kind, kind)
	}

	if v, present := md.m.Get(tag); present {
		return v, nil
	}

	return info.defaultValue, nil
}

// SampleCoding resolves the SAMPLE_CODING tag to a coding.
func (md *MetaData) SampleCoding() (format.SampleCoding, error) {
	code, err := md.Int(TagSampleCoding)
	if err != nil {
		return format.CodingIllegal, err
	}

	return format.SampleCodingOf(code)
}

// Clone returns a deep-enough copy of the metadata: the map structure is
// copied, byte values are shared.
func (md *MetaData) Clone() *MetaData {
	clone := NewMetaData()
	for pair := md.m.Oldest(); pair != nil; pair = pair.Next() {
		clone.m.Set(pair.Key, pair.Value)
	}

	return clone
}

// validate checks the emission invariants: required tags present, SCALE_X
// strictly positive when present, SAMPLE_CODING resolving to a legal coding.
func (md *MetaData) validate() error {
	for _, tag := range requiredTags {
		if !md.Has(tag) {
			return fmt.Errorf("%w: %s", errs.ErrMissingRequiredTag, tag.Name())
		}
	}

	if md.Has(TagScaleX) {
		scale, err := md.Float(TagScaleX)
		if err != nil {
			return err
		}
		if scale <= 0 {
			return fmt.Errorf("%w: SCALE_X = %v", errs.ErrInvalidScale, scale)
		}
	}

	if _, err := md.SampleCoding(); err != nil {
		return err
	}

	return nil
}
