package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

func TestEstimateKeyLength(t *testing.T) {
	plain := loadEnglish(t)

	for _, password := range []string{"lemon", "erase"} {
		t.Run(password, func(t *testing.T) {
			ciphertext := cipher.VigenereEncrypt(plain, cipher.Key(password))
			length, err := EstimateKeyLength(ciphertext)
			require.NoError(t, err)
			assert.Equal(t, len(password), length)
		})
	}
}

func TestEstimateKeyLengthSmallest(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"all scores zero", "abcabc", 1},
		{"constant text ties everywhere", "aaaaaaaaa", 1},
		{"exact period", "abcabcabc", 3},
		{"minimum length", "xyz", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateKeyLength(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateKeyLengthTooShort(t *testing.T) {
	for _, text := range []string{"", "a", "ab", "éé"} {
		_, err := EstimateKeyLength(text)
		assert.ErrorIs(t, err, ErrTextTooShort, "text %q", text)
	}
}

func TestCoincidenceProfile(t *testing.T) {
	plain := loadEnglish(t)
	ciphertext := cipher.VigenereEncrypt(plain, "lemon")

	profile, err := CoincidenceProfile(ciphertext)
	require.NoError(t, err)
	require.Len(t, profile, DefaultMaxKeyLength)
	for i, c := range profile {
		assert.Equal(t, i+1, c.Length)
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 1.0)
	}

	best, ok := profile.Best()
	require.True(t, ok)
	assert.Equal(t, 5, best.Length)
}

func TestCoincidenceProfileCandidates(t *testing.T) {
	// n/3 bounds the candidates for short texts.
	profile, err := CoincidenceProfile("abcdefghijkl")
	require.NoError(t, err)
	assert.Len(t, profile, 4)

	a := New(WithMaxKeyLength(3))
	profile, err = a.CoincidenceProfile(loadEnglish(t))
	require.NoError(t, err)
	assert.Len(t, profile, 3)
}

func TestCoincidenceProfileWorkers(t *testing.T) {
	ciphertext := cipher.VigenereEncrypt(loadEnglish(t), "secret")

	serial, err := New(WithWorkers(1)).CoincidenceProfile(ciphertext)
	require.NoError(t, err)
	parallel, err := New(WithWorkers(8)).CoincidenceProfile(ciphertext)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestProfileBestEmpty(t *testing.T) {
	_, ok := Profile(nil).Best()
	assert.False(t, ok)
}

func TestCoincidenceScore(t *testing.T) {
	assert.InDelta(t, 1.0, coincidenceScore([]rune("abab"), 2), 1e-9)
	// Pairs (a,a) (a,b) (b,b): two hits over n-L = 3.
	assert.InDelta(t, 2.0/3, coincidenceScore([]rune("aabb"), 1), 1e-9)
	// Lag 2 splits the run: pairs (a,a) (a,b) (a,b), one hit over 3.
	assert.InDelta(t, 1.0/3, coincidenceScore([]rune("aaabb"), 2), 1e-9)
	assert.Zero(t, coincidenceScore([]rune("ab"), 2))
}
