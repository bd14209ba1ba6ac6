package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/RowanDark/cipherkit/internal/alphabet"
	"github.com/RowanDark/cipherkit/internal/cipher"
)

const (
	// minDetectLetters is the fewest letters Detect will classify.
	minDetectLetters = 20
	// englishLikeness is the cosine similarity above which a letter
	// distribution reads as English.
	englishLikeness = 0.9
	// minConfidence drops weak guesses from Detect results.
	minConfidence = 0.3
)

// ClassicalDetector tells plaintext, shift, substitution and Vigenère
// ciphertexts apart from letter statistics alone.
type ClassicalDetector struct {
	analyzer *Analyzer
}

var _ cipher.Detector = (*ClassicalDetector)(nil)

// NewClassicalDetector returns a detector backed by a. A nil analyzer uses
// the package default.
func NewClassicalDetector(a *Analyzer) *ClassicalDetector {
	if a == nil {
		a = defaultAnalyzer
	}
	return &ClassicalDetector{analyzer: a}
}

// SupportedCiphers lists the families Detect can report.
func (d *ClassicalDetector) SupportedCiphers() []string {
	return []string{"plaintext", "caesar", "substitution", "vigenere"}
}

// Detect ranks the plausible ciphers for input, most likely first.
// Guesses below 0.3 confidence are dropped.
func (d *ClassicalDetector) Detect(ctx context.Context, input []byte) ([]cipher.DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	letters := foldLetters(string(input))
	counts, total := letterCounts(letters)
	if total < minDetectLetters {
		return nil, fmt.Errorf("%w: detection needs at least %d letters, got %d",
			ErrTextTooShort, minDetectLetters, total)
	}

	ic := indexOfCoincidence(counts, total)
	var results []cipher.DetectionResult
	if ic >= monoalphabeticIC {
		results = d.monoalphabetic(letters, counts, ic)
	} else {
		r, err := d.polyalphabetic(letters, ic)
		if err != nil {
			return nil, err
		}
		results = r
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	filtered := results[:0]
	for _, r := range results {
		if r.Confidence >= minConfidence {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// monoalphabetic classifies text whose IC is close to English.
func (d *ClassicalDetector) monoalphabetic(letters string, counts [alphabet.Size]int, ic float64) []cipher.DetectionResult {
	similarity := englishSimilarity(counts)
	if similarity >= englishLikeness {
		return []cipher.DetectionResult{{
			Cipher:     "plaintext",
			Confidence: similarity,
			Reasoning:  fmt.Sprintf("IC %.4f and letter frequencies match English (similarity %.2f)", ic, similarity),
		}}
	}

	key, err := d.analyzer.RecoverKey(letters, 1)
	if err == nil {
		shift := key.Shifts()[0]
		shifted, _ := letterCounts(cipher.CaesarDecrypt(letters, shift))
		if s := englishSimilarity(shifted); s >= englishLikeness {
			return []cipher.DetectionResult{
				{
					Cipher:     "caesar",
					Confidence: 0.9,
					Reasoning:  fmt.Sprintf("shifting back by %d (key %q) gives English frequencies (similarity %.2f)", shift, key, s),
					Operation:  "caesar_attack",
				},
				{
					Cipher:     "substitution",
					Confidence: 0.6,
					Reasoning:  "a shift cipher is a special case of substitution",
					Operation:  "substitution_attack",
				},
			}
		}
	}

	return []cipher.DetectionResult{{
		Cipher:     "substitution",
		Confidence: 0.85,
		Reasoning:  fmt.Sprintf("IC %.4f is English-like (%.4f) but the letters are rearranged", ic, englishIC),
		Operation:  "substitution_attack",
	}}
}

// polyalphabetic checks whether splitting text at the estimated period
// restores an English-like IC in each column.
func (d *ClassicalDetector) polyalphabetic(letters string, ic float64) ([]cipher.DetectionResult, error) {
	length, err := d.analyzer.EstimateKeyLength(letters)
	if err != nil {
		return nil, err
	}

	columns := make([][alphabet.Size]int, length)
	sizes := make([]int, length)
	for i, r := range letters {
		columns[i%length][alphabet.Code(r)]++
		sizes[i%length]++
	}
	mean := 0.0
	for i := range columns {
		mean += indexOfCoincidence(columns[i], sizes[i])
	}
	mean /= float64(length)

	confidence := 0.45
	if mean >= monoalphabeticIC {
		confidence = 0.9
	}
	return []cipher.DetectionResult{{
		Cipher:     "vigenere",
		Confidence: confidence,
		Reasoning: fmt.Sprintf("IC %.4f is near random (%.4f); period %d gives mean column IC %.4f",
			ic, randomIC, length, mean),
		Operation: "vigenere_attack",
	}}, nil
}
