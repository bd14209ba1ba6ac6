package analysis

import (
	"go.uber.org/zap"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

// AttackResult is the outcome of a ciphertext-only Vigenère attack.
type AttackResult struct {
	Key       cipher.Key `json:"key"`
	KeyLength int        `json:"key_length"`
	Plaintext string     `json:"plaintext"`
	Profile   Profile    `json:"profile,omitempty"`
}

// Attack estimates the key length of ciphertext, recovers a key of that
// length and decrypts with it. The plaintext is not validated; a wrong
// estimate yields readable-looking garbage rather than an error.
func (a *Analyzer) Attack(ciphertext string) (AttackResult, error) {
	profile, err := a.CoincidenceProfile(ciphertext)
	if err != nil {
		return AttackResult{}, err
	}
	best, _ := profile.Best()

	key, err := a.RecoverKey(ciphertext, best.Length)
	if err != nil {
		return AttackResult{}, err
	}

	a.logger.Debug("vigenere attack finished",
		zap.Int("key_length", best.Length),
		zap.String("key", string(key)))

	return AttackResult{
		Key:       key,
		KeyLength: best.Length,
		Plaintext: cipher.VigenereDecrypt(ciphertext, key),
		Profile:   profile,
	}, nil
}

// AttackWithLength skips the estimate: it recovers a key of the given length
// and decrypts with it. The result carries no profile.
func (a *Analyzer) AttackWithLength(ciphertext string, length int) (AttackResult, error) {
	key, err := a.RecoverKey(ciphertext, length)
	if err != nil {
		return AttackResult{}, err
	}
	return AttackResult{
		Key:       key,
		KeyLength: length,
		Plaintext: cipher.VigenereDecrypt(ciphertext, key),
	}, nil
}
