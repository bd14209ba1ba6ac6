package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

func TestClassicalDetector(t *testing.T) {
	plain := loadEnglish(t)
	perm, err := cipher.ParsePermutation("qwertyuiopasdfghjklzxcvbnm")
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     string
		cipher    string
		operation string
	}{
		{"plaintext", plain, "plaintext", ""},
		{"substitution", perm.Encrypt(plain), "substitution", "substitution_attack"},
		{"vigenere", cipher.VigenereEncrypt(plain, "lemon"), "vigenere", "vigenere_attack"},
		{"caesar", cipher.CaesarEncrypt(plain, 3), "caesar", "caesar_attack"},
	}

	d := NewClassicalDetector(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := d.Detect(context.Background(), []byte(tt.input))
			require.NoError(t, err)
			require.NotEmpty(t, results)

			assert.Equal(t, tt.cipher, results[0].Cipher)
			assert.Equal(t, tt.operation, results[0].Operation)
			assert.NotEmpty(t, results[0].Reasoning)

			for i, r := range results {
				assert.GreaterOrEqual(t, r.Confidence, minConfidence)
				assert.LessOrEqual(t, r.Confidence, 1.0)
				if i > 0 {
					assert.GreaterOrEqual(t, results[i-1].Confidence, r.Confidence)
				}
			}
		})
	}
}

func TestClassicalDetectorCaesarAlsoSubstitution(t *testing.T) {
	results, err := NewClassicalDetector(New()).Detect(context.Background(),
		[]byte(cipher.CaesarEncrypt(loadEnglish(t), 3)))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "substitution", results[1].Cipher)
}

func TestClassicalDetectorTooShort(t *testing.T) {
	d := NewClassicalDetector(nil)
	_, err := d.Detect(context.Background(), []byte("only a few letters, 123456789"))
	assert.ErrorIs(t, err, ErrTextTooShort)
}

func TestClassicalDetectorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClassicalDetector(nil).Detect(ctx, []byte(loadEnglish(t)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassicalDetectorSupportedCiphers(t *testing.T) {
	got := NewClassicalDetector(nil).SupportedCiphers()
	assert.ElementsMatch(t, []string{"plaintext", "caesar", "substitution", "vigenere"}, got)
}
