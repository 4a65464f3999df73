// Package frame implements the sampler's SysEx frame builders and
// decoders: C2 composes outbound frames from typed arguments, C3
// recognizes and decodes inbound ones. Every builder output and every
// decoder input obeys the 0xF0...0xF7 framing contract; payload bytes
// are always 7-bit clean.
package frame

import "github.com/fenwick-audio/sampler-core/pkg/codec"

// builder accumulates an outbound frame body between the fixed header
// and the terminating 0xF7.
type builder struct {
	buf []byte
}

// newS1000 starts a builder with the S1000/S3000 family header
// [0xF0, 0x47, 0x00, opcode, 0x48].
func newS1000(opcode byte) *builder {
	b := &builder{buf: make([]byte, 0, 16)}
	b.buf = append(b.buf, startOfExclusive, ManufacturerID, 0x00, opcode, IdentityID)
	return b
}

func (b *builder) byte(v byte) *builder {
	b.buf = append(b.buf, v)
	return b
}

func (b *builder) bytes(v []byte) *builder {
	b.buf = append(b.buf, v...)
	return b
}

// u16 appends a 7-bit LSB/MSB split pair.
func (b *builder) u16(v uint16) *builder {
	s := codec.SplitU16(v)
	return b.bytes(s[:])
}

// nibbled appends the nibble-packed (2x-length) encoding of v.
func (b *builder) nibbled(v []byte) *builder {
	return b.bytes(codec.Nibble(v))
}

// finish appends the terminating 0xF7 and returns the completed frame.
func (b *builder) finish() []byte {
	return append(b.buf, endOfExclusive)
}

// itemOffsetLength appends the common S3000 body prefix shared by every
// Request/Response pair: item number, a selector/keygroup byte, an
// offset, and a byte count, all as 7-bit pairs except the selector.
func (b *builder) itemOffsetLength(item uint16, selector byte, offset, nbytes uint16) *builder {
	return b.u16(item).byte(selector).u16(offset).u16(nbytes)
}
