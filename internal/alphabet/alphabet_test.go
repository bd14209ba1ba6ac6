package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeLetterBijection(t *testing.T) {
	for code := 0; code < Size; code++ {
		lower := Letter(code, false)
		upper := Letter(code, true)
		assert.Equal(t, code, Code(lower), "lower %q", lower)
		assert.Equal(t, code, Code(upper), "upper %q", upper)
		assert.True(t, IsLetter(lower))
		assert.True(t, IsUpper(upper))
		assert.False(t, IsUpper(lower))
	}
}

func TestIsLetter(t *testing.T) {
	for _, r := range []rune{'0', ' ', '.', '@', '[', '`', '{', 'é', 'ß'} {
		assert.False(t, IsLetter(r), "%q", r)
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{25, 25},
		{26, 0},
		{27, 1},
		{-1, 25},
		{-26, 0},
		{-27, 25},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mod(tt.in), "Mod(%d)", tt.in)
	}
}

func TestShift(t *testing.T) {
	assert.Equal(t, 'c', Shift('a', 2))
	assert.Equal(t, 'B', Shift('Z', 2))
	assert.Equal(t, 'z', Shift('a', -1))
	assert.Equal(t, '!', Shift('!', 5))
	assert.Equal(t, 'q', ToLower('Q'))
	assert.Equal(t, '5', ToLower('5'))
}
