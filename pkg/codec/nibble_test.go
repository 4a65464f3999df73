package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNibbleProducesTwoBytesPerSource(t *testing.T) {
	wire := Nibble([]byte{0xAB, 0x01})
	assert.Equal(t, []byte{0x0B, 0x0A, 0x01, 0x00}, wire)
}

func TestUnnibbleRoundTrip(t *testing.T) {
	for _, src := range [][]byte{
		{},
		{0x00},
		{0xFF, 0x00, 0x7F},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	} {
		assert.Equal(t, src, Unnibble(Nibble(src)), "src=%v", src)
	}
}

func TestUnnibbleDropsOddTrailingByte(t *testing.T) {
	out := Unnibble([]byte{0x0A, 0x0B, 0x0C})
	assert.Equal(t, []byte{0xBA}, out)
}
