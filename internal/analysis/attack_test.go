package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

func TestAttack(t *testing.T) {
	plain := loadEnglish(t)

	for _, password := range []string{"lemon", "erase"} {
		t.Run(password, func(t *testing.T) {
			ciphertext := cipher.VigenereEncrypt(plain, cipher.Key(password))

			result, err := Attack(ciphertext)
			require.NoError(t, err)
			assert.Equal(t, cipher.Key(password), result.Key)
			assert.Equal(t, len(password), result.KeyLength)
			assert.Equal(t, plain, result.Plaintext)
			assert.Len(t, result.Profile, DefaultMaxKeyLength)
		})
	}
}

func TestAttackWithLength(t *testing.T) {
	ciphertext := cipher.VigenereEncrypt(loadEnglish(t), "lemon")

	result, err := AttackWithLength(ciphertext, 5)
	require.NoError(t, err)
	assert.Equal(t, cipher.Key("lemon"), result.Key)
	assert.Equal(t, 5, result.KeyLength)
	assert.Empty(t, result.Profile)

	// A multiple of the period repeats the key.
	result, err = AttackWithLength(ciphertext, 10)
	require.NoError(t, err)
	assert.Equal(t, cipher.Key("lemonlemon"), result.Key)

	_, err = AttackWithLength(ciphertext, 0)
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestAttackTooShort(t *testing.T) {
	_, err := Attack("no")
	assert.ErrorIs(t, err, ErrTextTooShort)
}

func TestAttackLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := New(WithLogger(zap.New(core)))

	_, err := a.Attack(cipher.VigenereEncrypt(loadEnglish(t), "lemon"))
	require.NoError(t, err)

	entries := logs.FilterMessage("vigenere attack finished").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "lemon", entries[0].ContextMap()["key"])
	assert.EqualValues(t, 5, entries[0].ContextMap()["key_length"])
}
