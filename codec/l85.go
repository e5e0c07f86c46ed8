// Package codec implements the byte encoding used by Expr to emit
// already-encoded string literals into a pushdown condition string when
// the caller configures one, instead of the default double-quoted form.
package codec

import (
	"errors"
	"fmt"
)

// Alphabet is a lexicographically-sortable Base85 variant: encoding two
// strings that compare a < b always produces encoded forms that compare
// the same way, which keeps range conditions meaningful on encoded
// columns.
const Alphabet = "!$%&()+,-./" +
	"0123456789:;<=>@" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ[]_`" +
	"abcdefghijklmnopqrstuvwxyz{}"

var (
	decodeTable [256]byte

	// ErrInvalidCharacter indicates an invalid character in input.
	ErrInvalidCharacter = errors.New("invalid encoded character")
)

func init() {
	for i, c := range Alphabet {
		decodeTable[byte(c)] = byte(i + 1)
	}
}

// Encode encodes bytes to the sortable Base85 form.
func Encode(src []byte) string {
	if len(src) == 0 {
		return ""
	}

	result := make([]byte, 0, len(src)*5/4+5)

	for i := 0; i+4 <= len(src); i += 4 {
		v := uint32(src[i])<<24 | uint32(src[i+1])<<16 |
			uint32(src[i+2])<<8 | uint32(src[i+3])

		chars := [5]byte{}
		for j := 4; j >= 0; j-- {
			chars[j] = Alphabet[v%85]
			v /= 85
		}
		result = append(result, chars[:]...)
	}

	remainder := len(src) % 4
	if remainder > 0 {
		padded := [4]byte{}
		copy(padded[:], src[len(src)-remainder:])

		v := uint32(padded[0])<<24 | uint32(padded[1])<<16 |
			uint32(padded[2])<<8 | uint32(padded[3])

		chars := [5]byte{}
		for j := 4; j >= 0; j-- {
			chars[j] = Alphabet[v%85]
			v /= 85
		}

		result = append(result, chars[:remainder+1]...)
	}

	return string(result)
}

// Decode decodes the sortable Base85 form back to bytes.
func Decode(src string) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	for i, c := range src {
		if c >= 256 || decodeTable[byte(c)] == 0 {
			return nil, fmt.Errorf("%w at position %d: %c", ErrInvalidCharacter, i, c)
		}
	}

	result := make([]byte, 0, len(src)*4/5+4)

	for i := 0; i+5 <= len(src); i += 5 {
		v := uint32(0)
		for j := 0; j < 5; j++ {
			v = v*85 + uint32(decodeTable[src[i+j]]-1)
		}

		bytes := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		result = append(result, bytes[:]...)
	}

	remainder := len(src) % 5
	if remainder > 0 {
		numBytes := remainder - 1
		if numBytes <= 0 {
			return nil, errors.New("invalid encoding: incomplete group")
		}

		padded := src[len(src)-remainder:]
		for len(padded) < 5 {
			padded += string(Alphabet[len(Alphabet)-1])
		}

		v := uint32(0)
		for j := 0; j < 5; j++ {
			v = v*85 + uint32(decodeTable[padded[j]]-1)
		}

		bytes := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		result = append(result, bytes[:numBytes]...)
	}

	return result, nil
}
