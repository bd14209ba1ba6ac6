package cipher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RowanDark/cipherkit/internal/alphabet"
)

// SubstitutionMap is an approximate substitution: a plain rune-to-rune
// mapping that may be partial or map two keys to the same value. Maps
// recovered by frequency analysis have this type.
type SubstitutionMap map[rune]rune

// Inverse swaps keys and values. When several keys share a value, the key
// that sorts last wins.
func (m SubstitutionMap) Inverse() SubstitutionMap {
	keys := make([]rune, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	inv := make(SubstitutionMap, len(m))
	for _, k := range keys {
		inv[m[k]] = k
	}
	return inv
}

// IsBijection reports whether m maps the 26 lowercase letters one-to-one
// onto themselves.
func (m SubstitutionMap) IsBijection() bool {
	if len(m) != alphabet.Size {
		return false
	}
	seen := make(map[rune]bool, alphabet.Size)
	for k, v := range m {
		if k < 'a' || k > 'z' || v < 'a' || v > 'z' || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// SubstitutionEncrypt replaces every rune of text that is a key of m with
// its value. Everything else passes through unchanged.
func SubstitutionEncrypt(text string, m SubstitutionMap) string {
	return substitute(text, m)
}

// SubstitutionDecrypt applies the inverse of m.
func SubstitutionDecrypt(text string, m SubstitutionMap) string {
	return substitute(text, m.Inverse())
}

func substitute(text string, m SubstitutionMap) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if v, ok := m[r]; ok {
			b.WriteRune(v)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Permutation is a verified bijection over the lowercase alphabet.
type Permutation struct {
	forward [alphabet.Size]rune
	inverse [alphabet.Size]rune
}

// NewPermutation validates m as a bijection over a-z.
func NewPermutation(m SubstitutionMap) (Permutation, error) {
	if !m.IsBijection() {
		return Permutation{}, ErrInvalidPermutation
	}
	var p Permutation
	for k, v := range m {
		p.forward[alphabet.Code(k)] = v
		p.inverse[alphabet.Code(v)] = k
	}
	return p, nil
}

// ParsePermutation reads a 26-letter cipher alphabet: the i-th letter is the
// image of the i-th plain letter. Case is ignored.
func ParsePermutation(s string) (Permutation, error) {
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))
	if len(runes) != alphabet.Size {
		return Permutation{}, fmt.Errorf("%w: got %d letters", ErrInvalidPermutation, len(runes))
	}
	m := make(SubstitutionMap, alphabet.Size)
	for i, r := range runes {
		m[alphabet.Letter(i, false)] = r
	}
	return NewPermutation(m)
}

// Map returns the permutation as a SubstitutionMap over lowercase letters.
func (p Permutation) Map() SubstitutionMap {
	m := make(SubstitutionMap, alphabet.Size)
	for i, v := range p.forward {
		m[alphabet.Letter(i, false)] = v
	}
	return m
}

// String returns the cipher alphabet in plain-letter order.
func (p Permutation) String() string {
	return string(p.forward[:])
}

// Encrypt substitutes every letter of text, keeping its case.
func (p Permutation) Encrypt(text string) string {
	return p.apply(text, &p.forward)
}

// Decrypt inverts Encrypt.
func (p Permutation) Decrypt(text string) string {
	return p.apply(text, &p.inverse)
}

func (p Permutation) apply(text string, table *[alphabet.Size]rune) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !alphabet.IsLetter(r) {
			b.WriteRune(r)
			continue
		}
		out := table[alphabet.Code(r)]
		if alphabet.IsUpper(r) {
			out = alphabet.Letter(alphabet.Code(out), true)
		}
		b.WriteRune(out)
	}
	return b.String()
}
