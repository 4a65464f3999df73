package codec

import "strings"

// alphabet is the 41-symbol Akai name charset: digits, space, then A-Z,
// then the four punctuation symbols sampler names allow.
var alphabet = [41]byte{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	' ',
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
	'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	'*', '+', '-', '.',
}

const nameLen = 12

// Name is a 12-byte fixed-width sampler name, stored as indices into the
// 41-symbol alphabet rather than raw ASCII, matching the wire format.
type Name [nameLen]byte

// MustIndex returns c's index in the alphabet, or 0 ('0') if c is not a
// member. Encoding never fails; unrecognized characters fall back to 0.
func MustIndex(c byte) byte {
	for i, a := range alphabet {
		if a == c {
			return byte(i)
		}
	}
	return 0
}

// CharAt returns the alphabet character at index i, or false if i is
// outside the 41-entry table.
func CharAt(i byte) (byte, bool) {
	if int(i) >= len(alphabet) {
		return 0, false
	}
	return alphabet[i], true
}

// ParseName encodes s into a Name: each byte maps to its alphabet index
// (unknowns fold to 0), truncated or space-padded to 12 bytes.
func ParseName(s string) Name {
	s = strings.ToUpper(s)
	var n Name
	for i := range n {
		if i < len(s) {
			n[i] = MustIndex(s[i])
		} else {
			n[i] = 10 // ' '
		}
	}
	return n
}

// String decodes n back to its display form: every byte under 41 emits its
// alphabet character; the first out-of-range byte ends decoding early.
// Trailing spaces are trimmed, matching the device's own display
// convention.
func (n Name) String() string {
	var b strings.Builder
	for _, idx := range n {
		c, ok := CharAt(idx)
		if !ok {
			break
		}
		b.WriteByte(c)
	}
	return strings.TrimRight(b.String(), " ")
}
