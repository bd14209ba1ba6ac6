package analysis

import (
	"go.uber.org/zap"

	"github.com/RowanDark/cipherkit/internal/alphabet"
	"github.com/RowanDark/cipherkit/internal/cipher"
)

// RecoverMapping guesses a substitution mapping by pairing the ciphertext
// letters, most frequent first, with EnglishFrequencyOrder. Letters are
// case-folded and everything else is ignored. Texts with fewer than 26
// distinct letters give a partial map; the result is not checked for
// plausibility.
func RecoverMapping(ciphertext string) cipher.SubstitutionMap {
	return defaultAnalyzer.RecoverMapping(ciphertext)
}

// RecoverMapping is the Analyzer form of the package-level RecoverMapping.
func (a *Analyzer) RecoverMapping(ciphertext string) cipher.SubstitutionMap {
	ranked := RankByFrequency(foldLetters(ciphertext))
	english := []rune(EnglishFrequencyOrder)

	m := make(cipher.SubstitutionMap, len(ranked))
	for i, r := range ranked {
		if i >= len(english) {
			break
		}
		m[r] = english[i]
	}

	a.logger.Debug("recovered substitution mapping", zap.Int("letters", len(m)))
	return m
}

// foldLetters keeps the ASCII letters of s, lowercased.
func foldLetters(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if alphabet.IsLetter(r) {
			out = append(out, alphabet.ToLower(r))
		}
	}
	return string(out)
}

// SolveSubstitution recovers a mapping for ciphertext and applies it. Letters
// are looked up case-insensitively and keep their case; other characters
// pass through.
func SolveSubstitution(ciphertext string) (string, cipher.SubstitutionMap) {
	return defaultAnalyzer.SolveSubstitution(ciphertext)
}

// SolveSubstitution is the Analyzer form of the package-level
// SolveSubstitution.
func (a *Analyzer) SolveSubstitution(ciphertext string) (string, cipher.SubstitutionMap) {
	m := a.RecoverMapping(ciphertext)
	out := make([]rune, 0, len(ciphertext))
	for _, r := range ciphertext {
		if !alphabet.IsLetter(r) {
			out = append(out, r)
			continue
		}
		v := m[alphabet.ToLower(r)]
		if alphabet.IsUpper(r) && alphabet.IsLetter(v) {
			v = alphabet.Letter(alphabet.Code(v), true)
		}
		out = append(out, v)
	}
	return string(out), m
}
