package analysis

import (
	"math"
	"sort"

	"github.com/RowanDark/cipherkit/internal/alphabet"
)

// Distribution maps each character of a text to its number of occurrences.
type Distribution map[rune]int

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// LetterCount is one entry of a frequency ranking.
type LetterCount struct {
	Letter rune `json:"letter"`
	Count  int  `json:"count"`
}

// LetterDistribution counts every character of text. No filtering is done;
// callers pass normalized text when they want letters only.
func LetterDistribution(text string) Distribution {
	d := make(Distribution)
	for _, r := range text {
		d[r]++
	}
	return d
}

// RankedCounts orders the characters of text by descending count. Characters
// with equal counts keep the order of their first occurrence in text.
func RankedCounts(text string) []LetterCount {
	index := make(map[rune]int)
	ranked := make([]LetterCount, 0, alphabet.Size)
	for _, r := range text {
		i, ok := index[r]
		if !ok {
			i = len(ranked)
			index[r] = i
			ranked = append(ranked, LetterCount{Letter: r})
		}
		ranked[i].Count++
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// RankByFrequency returns the characters of text, most frequent first.
func RankByFrequency(text string) []rune {
	ranked := RankedCounts(text)
	out := make([]rune, len(ranked))
	for i, lc := range ranked {
		out[i] = lc.Letter
	}
	return out
}

// mostFrequent returns the most common rune of s; ties go to the rune that
// occurs first. ok is false for an empty slice.
func mostFrequent(s []rune) (best rune, ok bool) {
	counts := make(map[rune]int, alphabet.Size)
	for _, r := range s {
		counts[r]++
	}
	bestCount := 0
	for _, r := range s {
		if counts[r] > bestCount {
			best, bestCount = r, counts[r]
		}
	}
	return best, bestCount > 0
}

// letterCounts counts the letters of text case-insensitively, ignoring
// everything else.
func letterCounts(text string) (counts [alphabet.Size]int, total int) {
	for _, r := range text {
		if alphabet.IsLetter(r) {
			counts[alphabet.Code(r)]++
			total++
		}
	}
	return counts, total
}

// IndexOfCoincidence returns the probability that two letters drawn without
// replacement from text are equal. Non-letters are ignored and case is
// folded. Texts with fewer than two letters score 0.
func IndexOfCoincidence(text string) float64 {
	counts, total := letterCounts(text)
	return indexOfCoincidence(counts, total)
}

func indexOfCoincidence(counts [alphabet.Size]int, total int) float64 {
	if total < 2 {
		return 0
	}
	sum := 0
	for _, n := range counts {
		sum += n * (n - 1)
	}
	return float64(sum) / float64(total*(total-1))
}

// englishSimilarity is the cosine similarity between the letter counts and
// English letter frequencies, in [0,1].
func englishSimilarity(counts [alphabet.Size]int) float64 {
	var dot, normA, normB float64
	for i, n := range counts {
		a := float64(n)
		dot += a * englishFrequencies[i]
		normA += a * a
		normB += englishFrequencies[i] * englishFrequencies[i]
	}
	if normA == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
