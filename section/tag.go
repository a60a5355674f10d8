package section

import (
	"fmt"

	"github.com/arloliu/trs/errs"
	"github.com/arloliu/trs/format"
)

// Tag identifies a TRS header field. The identifier byte is written as-is to
// the TLV header.
type Tag uint8

const (
	TagNumberOfTraces             Tag = 0x41
	TagNumberOfSamples            Tag = 0x42
	TagSampleCoding               Tag = 0x43
	TagDataLength                 Tag = 0x44
	TagTitleSpace                 Tag = 0x45
	TagGlobalTitle                Tag = 0x46
	TagDescription                Tag = 0x47
	TagOffsetX                    Tag = 0x48
	TagLabelX                     Tag = 0x49
	TagLabelY                     Tag = 0x4A
	TagScaleX                     Tag = 0x4B
	TagScaleY                     Tag = 0x4C
	TagTraceOffset                Tag = 0x4D
	TagLogarithmicScale           Tag = 0x4E
	TagTRSVersion                 Tag = 0x4F
	TagScopeRange                 Tag = 0x55
	TagScopeCoupling              Tag = 0x56
	TagScopeOffset                Tag = 0x57
	TagScopeInputImpedance        Tag = 0x58
	TagScopeID                    Tag = 0x59
	TagFilterType                 Tag = 0x5A
	TagFilterFrequency            Tag = 0x5B
	TagFilterRange                Tag = 0x5C
	TagTraceBlock                 Tag = 0x5F
	TagExternalClockUsed          Tag = 0x60
	TagExternalClockThreshold     Tag = 0x61
	TagExternalClockMultiplier    Tag = 0x62
	TagExternalClockPhaseShift    Tag = 0x63
	TagExternalClockResamplerMask Tag = 0x64
	TagExternalClockResamplerOn   Tag = 0x65
	TagExternalClockFrequency     Tag = 0x66
	TagExternalClockTimeBase      Tag = 0x67
	TagTraceSetParameters         Tag = 0x76
	TagTraceParameterDefinitions  Tag = 0x77
)

// ValueKind enumerates the header value representations.
type ValueKind uint8

const (
	KindInt ValueKind = iota + 1
	KindFloat
	KindString
	KindBool
	KindBytes
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindBytes:
		return "Bytes"
	default:
		return "Unknown"
	}
}

// tagInfo carries the registry entry for a single header tag.
type tagInfo struct {
	shortName    string
	name         string
	kind         ValueKind
	defaultValue any
	required     bool
}

var tagRegistry = map[Tag]tagInfo{
	TagNumberOfTraces:   {"NT", "NUMBER_OF_TRACES", KindInt, 0, true},
	TagNumberOfSamples:  {"NS", "NUMBER_OF_SAMPLES", KindInt, 0, true},
	TagSampleCoding:     {"SC", "SAMPLE_CODING", KindInt, int(format.CodingFloat), true},
	TagDataLength:       {"DS", "DATA_LENGTH", KindInt, 0, false},
	TagTitleSpace:       {"TS", "TITLE_SPACE", KindInt, 0, false},
	TagGlobalTitle:      {"GT", "GLOBAL_TITLE", KindString, "trace", false},
	TagDescription:      {"DC", "DESCRIPTION", KindString, "", false},
	TagOffsetX:          {"XO", "OFFSET_X", KindInt, 0, false},
	TagLabelX:           {"XL", "LABEL_X", KindString, "", false},
	TagLabelY:           {"YL", "LABEL_Y", KindString, "", false},
	TagScaleX:           {"XS", "SCALE_X", KindFloat, float32(1), false},
	TagScaleY:           {"YS", "SCALE_Y", KindFloat, float32(1), false},
	TagTraceOffset:      {"TO", "TRACE_OFFSET", KindInt, 0, false},
	TagLogarithmicScale: {"LS", "LOGARITHMIC_SCALE", KindBool, false, false},
	TagTRSVersion:       {"VS", "TRS_VERSION", KindInt, 0, false},

	TagScopeRange:          {"RG", "ACQUISITION_RANGE_OF_SCOPE", KindFloat, float32(0), false},
	TagScopeCoupling:       {"CL", "ACQUISITION_COUPLING_OF_SCOPE", KindInt, 0, false},
	TagScopeOffset:         {"OS", "ACQUISITION_OFFSET_OF_SCOPE", KindFloat, float32(0), false},
	TagScopeInputImpedance: {"II", "ACQUISITION_INPUT_IMPEDANCE", KindFloat, float32(0), false},
	TagScopeID:             {"AI", "ACQUISITION_DEVICE_ID", KindString, "", false},
	TagFilterType:          {"FT", "ACQUISITION_TYPE_FILTER", KindInt, 0, false},
	TagFilterFrequency:     {"FF", "ACQUISITION_FREQUENCY_FILTER", KindFloat, float32(0), false},
	TagFilterRange:         {"RL", "ACQUISITION_RANGE_FILTER", KindFloat, float32(0), false},

	TagTraceBlock: {"TB", "TRACE_BLOCK", KindInt, 0, true},

	TagExternalClockUsed:          {"EU", "EXTERNAL_CLOCK_USED", KindBool, false, false},
	TagExternalClockThreshold:     {"ET", "EXTERNAL_CLOCK_THRESHOLD", KindFloat, float32(0), false},
	TagExternalClockMultiplier:    {"EM", "EXTERNAL_CLOCK_MULTIPLIER", KindInt, 0, false},
	TagExternalClockPhaseShift:    {"EP", "EXTERNAL_CLOCK_PHASE_SHIFT", KindInt, 0, false},
	TagExternalClockResamplerMask: {"ER", "EXTERNAL_CLOCK_RESAMPLER_MASK", KindInt, 0, false},
	TagExternalClockResamplerOn:   {"RE", "EXTERNAL_CLOCK_RESAMPLER_ENABLED", KindBool, false, false},
	TagExternalClockFrequency:     {"EF", "EXTERNAL_CLOCK_FREQUENCY", KindFloat, float32(0), false},
	TagExternalClockTimeBase:      {"EB", "EXTERNAL_CLOCK_TIME_BASE", KindInt, 0, false},

	TagTraceSetParameters:        {"GP", "TRACE_SET_PARAMETERS", KindBytes, []byte(nil), false},
	TagTraceParameterDefinitions: {"LP", "TRACE_PARAMETER_DEFINITIONS", KindBytes, []byte(nil), false},
}

// requiredTags lists the tags that must be present in every header, in
// canonical emission order. TRACE_BLOCK is the header terminator and is
// emitted implicitly.
var requiredTags = []Tag{TagNumberOfTraces, TagNumberOfSamples, TagSampleCoding}

// TagByID resolves an identifier byte read from a header.
//
// Returns ErrUnknownTag for identifiers outside the registry.
func TagByID(id byte) (Tag, error) {
	t := Tag(id)
	if _, ok := tagRegistry[t]; !ok {
		return 0, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownTag, id)
	}

	return t, nil
}

// TagByName resolves a tag by its long name, e.g. "SAMPLE_CODING", or by its
// two-letter short name, e.g. "SC".
func TagByName(name string) (Tag, error) {
	for t, info := range tagRegistry {
		if info.name == name || info.shortName == name {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownTag, name)
}

// Name returns the long name of the tag.
func (t Tag) Name() string {
	return tagRegistry[t].name
}

// ShortName returns the two-letter mnemonic of the tag.
func (t Tag) ShortName() string {
	return tagRegistry[t].shortName
}

// Kind returns the value kind of the tag.
func (t Tag) Kind() ValueKind {
	return tagRegistry[t].kind
}

// Default returns the default value of the tag.
func (t Tag) Default() any {
	return tagRegistry[t].defaultValue
}

// Required reports whether the tag must be present in a valid header.
func (t Tag) Required() bool {
	return tagRegistry[t].required
}

func (t Tag) String() string {
	info, ok := tagRegistry[t]
	if !ok {
		return fmt.Sprintf("Tag(0x%02x)", uint8(t))
	}

	return info.name
}
