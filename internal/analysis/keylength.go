package analysis

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// minEstimateLength is the shortest text for which at least one candidate
// length (n/3 >= 1) exists.
const minEstimateLength = 3

// Candidate is the coincidence score of one candidate key length.
type Candidate struct {
	Length int     `json:"length"`
	Score  float64 `json:"score"`
}

// Profile holds candidate scores in ascending order of length.
type Profile []Candidate

// Best returns the highest-scoring candidate. The earliest (shortest) wins
// ties. ok is false for an empty profile.
func (p Profile) Best() (best Candidate, ok bool) {
	for i, c := range p {
		if i == 0 || c.Score > best.Score {
			best = c
		}
	}
	return best, len(p) > 0
}

// CoincidenceProfile scores every candidate key length L from 1 to
// min(n/3, max key length), where n is the number of runes. The score is the
// fraction of positions i in [0, n-L) with s[i] == s[i+L].
func (a *Analyzer) CoincidenceProfile(ciphertext string) (Profile, error) {
	text := []rune(ciphertext)
	n := len(text)
	if n < minEstimateLength {
		return nil, fmt.Errorf("%w: key length estimation needs at least %d characters, got %d",
			ErrTextTooShort, minEstimateLength, n)
	}

	maxLen := min(n/3, a.maxKeyLength)
	profile := make(Profile, maxLen)

	var g errgroup.Group
	g.SetLimit(a.workers)
	for length := 1; length <= maxLen; length++ {
		length := length
		g.Go(func() error {
			profile[length-1] = Candidate{Length: length, Score: coincidenceScore(text, length)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return profile, nil
}

// EstimateKeyLength returns the candidate length with the highest
// coincidence score.
func (a *Analyzer) EstimateKeyLength(ciphertext string) (int, error) {
	profile, err := a.CoincidenceProfile(ciphertext)
	if err != nil {
		return 0, err
	}
	best, _ := profile.Best()
	a.logger.Debug("estimated key length",
		zap.Int("length", best.Length),
		zap.Float64("score", best.Score),
		zap.Int("candidates", len(profile)))
	return best.Length, nil
}

func coincidenceScore(text []rune, lag int) float64 {
	span := len(text) - lag
	if span <= 0 {
		return 0
	}
	hits := 0
	for i := 0; i < span; i++ {
		if text[i] == text[i+lag] {
			hits++
		}
	}
	return float64(hits) / float64(span)
}
