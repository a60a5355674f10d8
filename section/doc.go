// Package section implements the TRS header: the tag registry, the
// insertion-ordered metadata map, and the TLV codec that serializes the
// header to and from its little-endian wire form.
package section
