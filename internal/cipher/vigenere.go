package cipher

import (
	"strings"

	"github.com/RowanDark/cipherkit/internal/alphabet"
)

// Key is a Vigenère password: a non-empty run of letters, each naming a
// shift ('a'/'A' = 0 ... 'z'/'Z' = 25). Only values from ParseKey or
// KeyFromShifts are valid; a Key converted from an arbitrary string is not
// checked, and the empty Key leaves text unchanged. EncryptVigenere and
// DecryptVigenere validate a raw password first.
type Key string

// ParseKey validates s as a Vigenère key.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return "", ErrInvalidKey
	}
	for _, r := range s {
		if !alphabet.IsLetter(r) {
			return "", ErrInvalidKey
		}
	}
	return Key(s), nil
}

// Shifts returns the shift of each key letter, taken from its lowercase form.
func (k Key) Shifts() []int {
	shifts := make([]int, 0, len(k))
	for _, r := range string(k) {
		shifts = append(shifts, alphabet.Code(alphabet.ToLower(r)))
	}
	return shifts
}

// KeyFromShifts builds the lowercase key whose letters have the given shifts.
func KeyFromShifts(shifts []int) Key {
	var b strings.Builder
	b.Grow(len(shifts))
	for _, s := range shifts {
		b.WriteRune(alphabet.Letter(s, false))
	}
	return Key(b.String())
}

// VigenereEncrypt shifts the rune at position p of text by key[p mod len(key)].
// Every rune consumes a key position, but only letters are changed; case is
// preserved. An empty key returns text unchanged; use ParseKey to reject it.
func VigenereEncrypt(text string, key Key) string {
	return vigenere(text, key, 1)
}

// VigenereDecrypt reverses VigenereEncrypt under the same key.
func VigenereDecrypt(text string, key Key) string {
	return vigenere(text, key, -1)
}

func vigenere(text string, key Key, dir int) string {
	shifts := key.Shifts()
	if len(shifts) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	p := 0
	for _, r := range text {
		b.WriteRune(alphabet.Shift(r, dir*shifts[p%len(shifts)]))
		p++
	}
	return b.String()
}

// EncryptVigenere validates password and encrypts text with it.
func EncryptVigenere(text, password string) (string, error) {
	key, err := ParseKey(password)
	if err != nil {
		return "", err
	}
	return VigenereEncrypt(text, key), nil
}

// DecryptVigenere validates password and decrypts text with it.
func DecryptVigenere(text, password string) (string, error) {
	key, err := ParseKey(password)
	if err != nil {
		return "", err
	}
	return VigenereDecrypt(text, key), nil
}

// CaesarEncrypt shifts every letter by shift positions. It is a Vigenère
// cipher with a one-letter key.
func CaesarEncrypt(text string, shift int) string {
	return VigenereEncrypt(text, KeyFromShifts([]int{shift}))
}

// CaesarDecrypt reverses CaesarEncrypt.
func CaesarDecrypt(text string, shift int) string {
	return VigenereDecrypt(text, KeyFromShifts([]int{shift}))
}
