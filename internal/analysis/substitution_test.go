package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

func TestRecoverMapping(t *testing.T) {
	m := RecoverMapping("bbaac")
	assert.Equal(t, cipher.SubstitutionMap{'b': 'e', 'a': 't', 'c': 'a'}, m)

	assert.Equal(t, m, RecoverMapping("BB, aa C!"))
	assert.Empty(t, RecoverMapping("1234"))
}

func TestRecoverMappingEnglishFixture(t *testing.T) {
	perm, err := cipher.ParsePermutation("qwertyuiopasdfghjklzxcvbnm")
	require.NoError(t, err)
	ciphertext := perm.Encrypt(loadEnglish(t))

	m := RecoverMapping(ciphertext)
	assert.LessOrEqual(t, len(m), 26)
	for k := range m {
		assert.Contains(t, ciphertext, string(k))
	}

	// e, t and a have distinct counts in the fixture, so they are
	// recovered exactly.
	assert.Equal(t, 'e', m['t'])
	assert.Equal(t, 't', m['z'])
	assert.Equal(t, 'a', m['q'])
}

func TestSolveSubstitution(t *testing.T) {
	plaintext, m := SolveSubstitution("Bba, c")
	assert.Equal(t, "Eet, a", plaintext)
	assert.Len(t, m, 3)
}
