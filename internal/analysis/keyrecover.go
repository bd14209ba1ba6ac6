package analysis

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RowanDark/cipherkit/internal/alphabet"
	"github.com/RowanDark/cipherkit/internal/cipher"
)

// RecoverKey guesses a Vigenère key of the given length. Each letter of
// ciphertext joins column p mod length, where p is its rune position in the
// whole text (or its index among letters with WithLetterIndexedColumns).
// Non-letters are dropped and case is folded. The most frequent letter of
// each column is taken to be an enciphered 'e'. An empty column yields 'a'.
func (a *Analyzer) RecoverKey(ciphertext string, length int) (cipher.Key, error) {
	n := len([]rune(ciphertext))
	if length < 1 || length > max(n, 1) {
		return "", fmt.Errorf("%w: %d for text of %d characters", ErrInvalidKeyLength, length, n)
	}

	columns := a.columns(ciphertext, length)
	shifts := make([]int, length)

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, col := range columns {
		i, col := i, col
		g.Go(func() error {
			shifts[i] = columnShift(col)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	key := cipher.KeyFromShifts(shifts)
	a.logger.Debug("recovered key", zap.Int("length", length), zap.String("key", string(key)))
	return key, nil
}

func (a *Analyzer) columns(ciphertext string, length int) [][]rune {
	columns := make([][]rune, length)
	p := 0
	for _, r := range ciphertext {
		if alphabet.IsLetter(r) {
			columns[p%length] = append(columns[p%length], alphabet.ToLower(r))
			p++
			continue
		}
		if !a.letterIndexed {
			p++
		}
	}
	return columns
}

// columnShift assumes the most frequent letter of col stands for 'e'.
func columnShift(col []rune) int {
	top, ok := mostFrequent(col)
	if !ok {
		return 0
	}
	return alphabet.Mod(alphabet.Code(top) - alphabet.Code('e'))
}
