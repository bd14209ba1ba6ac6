// Package cipher implements classical ciphers and the operation pipeline that
// chains them.
//
// # Ciphers
//
// Two engines work on already-normalized text:
//   - Monoalphabetic substitution: SubstitutionEncrypt/SubstitutionDecrypt
//     over a SubstitutionMap (approximate, possibly partial), and the
//     verified Permutation type for true bijections.
//   - Vigenère: VigenereEncrypt/VigenereDecrypt under a Key. Every rune of
//     the text consumes a key position; only letters are shifted and their
//     case is kept. Caesar is the one-letter-key special case.
//
// Quick start:
//
//	key, _ := cipher.ParseKey("lemon")
//	ct := cipher.VigenereEncrypt("attack at dawn", key)
//	pt := cipher.VigenereDecrypt(ct, key)
//
// # Operations and Pipelines
//
// Each cipher is also exposed as a registered Operation so that it can be
// chained:
//
//	pipeline := &cipher.Pipeline{
//	    Operations: []cipher.OperationConfig{
//	        {Name: "text_strip"},
//	        {Name: "vigenere_encrypt", Parameters: map[string]interface{}{"password": "lemon"}},
//	    },
//	}
//	out, _ := pipeline.Execute(ctx, []byte("Attack at dawn!"))
//
// Built-in operations:
//   - substitution_encrypt/decrypt - param mapping (26-letter alphabet or object)
//   - vigenere_encrypt/decrypt - param password
//   - caesar_encrypt/decrypt - param shift (0-25 or a letter)
//   - text_strip - keep letters only, lowercased
//
// The analysis package registers the cryptanalysis operations.
//
// # Recipes
//
// RecipeManager saves named pipelines, optionally as YAML files in a
// directory.
//
// # Thread Safety
//
// Registries and RecipeManager lock internally. Operations are stateless.
package cipher
