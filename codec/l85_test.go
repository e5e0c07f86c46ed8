package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("bar"),
		[]byte("hello world"),
		[]byte("x"),
		{0x00, 0xff, 0x10, 0x20, 0x30, 0x40},
	}

	for _, c := range cases {
		encoded := Encode(c)
		decoded, err := Decode(encoded)
		assert.NoError(t, err)
		assert.Equal(t, c, decoded)
	}
}

func TestEncodePreservesOrder(t *testing.T) {
	assert.Less(t, Encode([]byte("bar")), Encode([]byte("baz")))
	assert.Less(t, Encode([]byte("a")), Encode([]byte("ab")))
}

func TestDecodeInvalidCharacter(t *testing.T) {
	_, err := Decode("\x01\x02")
	assert.ErrorIs(t, err, ErrInvalidCharacter)
}
