package cipher

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RowanDark/cipherkit/internal/alphabet"
	"github.com/RowanDark/cipherkit/internal/textstrip"
)

// Substitution Operations

// SubstitutionEncryptOp encrypts under the "mapping" parameter
type SubstitutionEncryptOp struct {
	BaseOperation
}

func (op *SubstitutionEncryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	sub, err := mappingParam(params)
	if err != nil {
		return nil, err
	}
	return []byte(sub.Encrypt(string(input))), nil
}

// SubstitutionDecryptOp decrypts under the inverse of the "mapping" parameter
type SubstitutionDecryptOp struct {
	BaseOperation
}

func (op *SubstitutionDecryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	sub, err := mappingParam(params)
	if err != nil {
		return nil, err
	}
	return []byte(sub.Decrypt(string(input))), nil
}

// Vigenère Operations

// VigenereEncryptOp encrypts with the "password" parameter
type VigenereEncryptOp struct {
	BaseOperation
}

func (op *VigenereEncryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	key, err := keyParam(params)
	if err != nil {
		return nil, err
	}
	return []byte(VigenereEncrypt(string(input), key)), nil
}

// VigenereDecryptOp decrypts with the "password" parameter
type VigenereDecryptOp struct {
	BaseOperation
}

func (op *VigenereDecryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	key, err := keyParam(params)
	if err != nil {
		return nil, err
	}
	return []byte(VigenereDecrypt(string(input), key)), nil
}

// Caesar Operations

// CaesarEncryptOp shifts letters by the "shift" parameter
type CaesarEncryptOp struct {
	BaseOperation
}

func (op *CaesarEncryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	shift, err := shiftParam(params)
	if err != nil {
		return nil, err
	}
	return []byte(CaesarEncrypt(string(input), shift)), nil
}

// CaesarDecryptOp shifts letters back by the "shift" parameter
type CaesarDecryptOp struct {
	BaseOperation
}

func (op *CaesarDecryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	shift, err := shiftParam(params)
	if err != nil {
		return nil, err
	}
	return []byte(CaesarDecrypt(string(input), shift)), nil
}

// TextStripOp keeps only letters and lowercases them
type TextStripOp struct {
	BaseOperation
}

func (op *TextStripOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	return []byte(textstrip.Strip(string(input))), nil
}

// substituter is a substitution that can be applied both ways.
type substituter interface {
	Encrypt(text string) string
	Decrypt(text string) string
}

// exactMap applies a possibly partial SubstitutionMap by exact rune lookup.
type exactMap SubstitutionMap

func (m exactMap) Encrypt(text string) string { return SubstitutionEncrypt(text, SubstitutionMap(m)) }
func (m exactMap) Decrypt(text string) string { return SubstitutionDecrypt(text, SubstitutionMap(m)) }

// mappingParam accepts either a 26-letter cipher alphabet or an object of
// single-letter pairs. An alphabet becomes a case-preserving Permutation;
// objects may be partial and are applied rune for rune.
func mappingParam(params map[string]interface{}) (substituter, error) {
	raw, ok := params["mapping"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: mapping parameter required", ErrInvalidParams)
	}

	switch v := raw.(type) {
	case string:
		p, err := ParsePermutation(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		return p, nil
	case Permutation:
		return v, nil
	case SubstitutionMap:
		return exactMap(v), nil
	case map[string]string:
		generic := make(map[string]interface{}, len(v))
		for k, val := range v {
			generic[k] = val
		}
		m, err := pairsToMap(generic)
		return exactMap(m), err
	case map[string]interface{}:
		m, err := pairsToMap(v)
		return exactMap(m), err
	default:
		return nil, fmt.Errorf("%w: mapping must be a string or an object, got %T", ErrInvalidParams, raw)
	}
}

func pairsToMap(pairs map[string]interface{}) (SubstitutionMap, error) {
	m := make(SubstitutionMap, len(pairs))
	for k, raw := range pairs {
		v, ok := raw.(string)
		if !ok || utf8.RuneCountInString(k) != 1 || utf8.RuneCountInString(v) != 1 {
			return nil, fmt.Errorf("%w: mapping entry %q must pair single characters", ErrInvalidParams, k)
		}
		kr, _ := utf8.DecodeRuneInString(k)
		vr, _ := utf8.DecodeRuneInString(v)
		m[kr] = vr
	}
	return m, nil
}

func keyParam(params map[string]interface{}) (Key, error) {
	password, _ := params["password"].(string)
	key, err := ParseKey(strings.TrimSpace(password))
	if err != nil {
		return "", fmt.Errorf("%w: password: %w", ErrInvalidParams, err)
	}
	return key, nil
}

// shiftParam accepts a number in [0,25] or a single letter.
func shiftParam(params map[string]interface{}) (int, error) {
	raw, ok := params["shift"]
	if !ok {
		return 0, fmt.Errorf("%w: shift parameter required", ErrInvalidParams)
	}

	var shift int
	switch v := raw.(type) {
	case int:
		shift = v
	case int64:
		shift = int(v)
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: shift must be a whole number", ErrInvalidParams)
		}
		shift = int(v)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			shift = n
			break
		}
		r, size := utf8.DecodeRuneInString(s)
		if size != len(s) || !alphabet.IsLetter(r) {
			return 0, fmt.Errorf("%w: shift %q is neither a number nor a letter", ErrInvalidParams, v)
		}
		shift = alphabet.Code(r)
	default:
		return 0, fmt.Errorf("%w: shift has unsupported type %T", ErrInvalidParams, raw)
	}

	if shift < 0 || shift >= alphabet.Size {
		return 0, fmt.Errorf("%w: shift %d outside [0,%d]", ErrInvalidParams, shift, alphabet.Size-1)
	}
	return shift, nil
}

// keyParamNames maps each cipher family to the parameter carrying its key.
var keyParamNames = map[string]string{
	"substitution": "mapping",
	"vigenere":     "password",
	"caesar":       "shift",
}

// CipherStep returns the pipeline step that encrypts (or, with decrypt,
// decrypts) with the named cipher family under key. ok is false for an
// unknown family.
func CipherStep(family, key string, decrypt bool) (step OperationConfig, ok bool) {
	family = strings.ToLower(strings.TrimSpace(family))
	param, ok := keyParamNames[family]
	if !ok {
		return OperationConfig{}, false
	}
	direction := "_encrypt"
	if decrypt {
		direction = "_decrypt"
	}
	return OperationConfig{
		Name:       family + direction,
		Parameters: map[string]interface{}{param: key},
	}, true
}

// CipherFamilies lists the families CipherStep accepts.
func CipherFamilies() []string {
	return []string{"caesar", "substitution", "vigenere"}
}

// init registers the cipher and normalization operations
func init() {
	substitutionEncrypt := &SubstitutionEncryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "substitution_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Encrypt with a monoalphabetic substitution (param: mapping)",
		},
	}
	substitutionDecrypt := &SubstitutionDecryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "substitution_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Decrypt a monoalphabetic substitution (param: mapping)",
		},
	}
	substitutionEncrypt.ReverseOp = substitutionDecrypt
	substitutionDecrypt.ReverseOp = substitutionEncrypt

	vigenereEncrypt := &VigenereEncryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "vigenere_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Encrypt with the Vigenère cipher (param: password)",
		},
	}
	vigenereDecrypt := &VigenereDecryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "vigenere_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Decrypt the Vigenère cipher (param: password)",
		},
	}
	vigenereEncrypt.ReverseOp = vigenereDecrypt
	vigenereDecrypt.ReverseOp = vigenereEncrypt

	caesarEncrypt := &CaesarEncryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "caesar_encrypt",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Shift every letter forward (param: shift)",
		},
	}
	caesarDecrypt := &CaesarDecryptOp{
		BaseOperation: BaseOperation{
			NameValue:        "caesar_decrypt",
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Shift every letter back (param: shift)",
		},
	}
	caesarEncrypt.ReverseOp = caesarDecrypt
	caesarDecrypt.ReverseOp = caesarEncrypt

	textStrip := &TextStripOp{
		BaseOperation: BaseOperation{
			NameValue:        "text_strip",
			TypeValue:        OperationTypeNormalize,
			DescriptionValue: "Drop non-letters and lowercase the rest",
		},
	}

	MustRegister(
		substitutionEncrypt,
		substitutionDecrypt,
		vigenereEncrypt,
		vigenereDecrypt,
		caesarEncrypt,
		caesarDecrypt,
		textStrip,
	)
}
