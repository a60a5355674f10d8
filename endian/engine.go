// Package endian provides byte order utilities for the TRS wire format.
//
// The TRS container is little-endian throughout, so most code obtains the
// engine via GetLittleEndianEngine and passes it down to the codecs. The
// EndianEngine interface combines ByteOrder and AppendByteOrder from
// encoding/binary so encoders can use the faster append forms without a
// scratch buffer.
//
// The native-endianness probe exists for one purpose: decoders may take a
// zero-copy path over sample payloads when the host byte order matches the
// wire order.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary. It is satisfied by binary.LittleEndian and
// binary.BigEndian, and instances are immutable and safe for concurrent use.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Native returns the host's byte order.
func Native() binary.ByteOrder {
	// For a little-endian host the low byte of 0x0100 sits at the lowest
	// address.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host byte order matches the TRS
// wire order.
func IsNativeLittleEndian() bool {
	return Native() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine used by the TRS
// wire format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. The TRS format never
// uses it; it exists for tests that need a mismatched engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
