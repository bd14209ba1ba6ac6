package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

// LetterDistributionOp reports the ranked character counts of its input as
// JSON.
type LetterDistributionOp struct {
	cipher.BaseOperation
}

func (op *LetterDistributionOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	return json.Marshal(RankedCounts(string(input)))
}

// SubstitutionAttackOp decrypts its input with the mapping guessed by
// RecoverMapping.
type SubstitutionAttackOp struct {
	cipher.BaseOperation
	analyzer *Analyzer
}

func (op *SubstitutionAttackOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	plaintext, _ := op.analyzer.SolveSubstitution(string(input))
	return []byte(plaintext), nil
}

// VigenereAttackOp breaks a Vigenère ciphertext. The optional "key_length"
// parameter skips the estimate.
type VigenereAttackOp struct {
	cipher.BaseOperation
	analyzer *Analyzer
}

func (op *VigenereAttackOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	text := string(input)

	length, ok, err := keyLengthParam(params)
	if err != nil {
		return nil, err
	}

	var result AttackResult
	if ok {
		result, err = op.analyzer.AttackWithLength(text, length)
	} else {
		result, err = op.analyzer.Attack(text)
	}
	if err != nil {
		return nil, err
	}
	return []byte(result.Plaintext), nil
}

// VigenereKeyLengthOp outputs the estimated Vigenère key length.
type VigenereKeyLengthOp struct {
	cipher.BaseOperation
	analyzer *Analyzer
}

func (op *VigenereKeyLengthOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	length, err := op.analyzer.EstimateKeyLength(string(input))
	if err != nil {
		return nil, err
	}
	return []byte(strconv.Itoa(length)), nil
}

// CaesarAttackOp undoes the shift that makes the most frequent letter an 'e'.
type CaesarAttackOp struct {
	cipher.BaseOperation
	analyzer *Analyzer
}

func (op *CaesarAttackOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	result, err := op.analyzer.AttackWithLength(string(input), 1)
	if err != nil {
		return nil, err
	}
	return []byte(result.Plaintext), nil
}

func keyLengthParam(params map[string]interface{}) (int, bool, error) {
	raw, ok := params["key_length"]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if v != float64(int(v)) {
			return 0, false, fmt.Errorf("%w: key_length must be a whole number", cipher.ErrInvalidParams)
		}
		return int(v), true, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false, fmt.Errorf("%w: key_length %q: %w", cipher.ErrInvalidParams, v, err)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("%w: key_length has unsupported type %T", cipher.ErrInvalidParams, raw)
	}
}

// Operations returns the cryptanalysis operations bound to a. A nil a
// selects the default Analyzer.
func Operations(a *Analyzer) []cipher.Operation {
	if a == nil {
		a = defaultAnalyzer
	}
	return []cipher.Operation{
		&LetterDistributionOp{BaseOperation: cipher.BaseOperation{
			NameValue:        "letter_distribution",
			TypeValue:        cipher.OperationTypeAnalyze,
			DescriptionValue: "Count characters, most frequent first, as JSON",
		}},
		&SubstitutionAttackOp{BaseOperation: cipher.BaseOperation{
			NameValue:        "substitution_attack",
			TypeValue:        cipher.OperationTypeAnalyze,
			DescriptionValue: "Decrypt a substitution by matching letter frequencies to English",
		}, analyzer: a},
		&VigenereAttackOp{BaseOperation: cipher.BaseOperation{
			NameValue:        "vigenere_attack",
			TypeValue:        cipher.OperationTypeAnalyze,
			DescriptionValue: "Break a Vigenère ciphertext (optional param: key_length)",
		}, analyzer: a},
		&VigenereKeyLengthOp{BaseOperation: cipher.BaseOperation{
			NameValue:        "vigenere_key_length",
			TypeValue:        cipher.OperationTypeAnalyze,
			DescriptionValue: "Estimate the Vigenère key length",
		}, analyzer: a},
		&CaesarAttackOp{BaseOperation: cipher.BaseOperation{
			NameValue:        "caesar_attack",
			TypeValue:        cipher.OperationTypeAnalyze,
			DescriptionValue: "Break a shift cipher by assuming the commonest letter is 'e'",
		}, analyzer: a},
	}
}

// RegisterOperations installs the cryptanalysis operations bound to a in
// reg, replacing any registered under the same names.
func RegisterOperations(reg *cipher.Registry, a *Analyzer) error {
	for _, op := range Operations(a) {
		reg.Unregister(op.Name())
		if err := reg.Register(op); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a copy of the default registry whose cryptanalysis
// operations run on a.
func NewRegistry(a *Analyzer) (*cipher.Registry, error) {
	reg := cipher.DefaultRegistry().Clone()
	if err := RegisterOperations(reg, a); err != nil {
		return nil, err
	}
	return reg, nil
}

// init registers the cryptanalysis operations, bound to the default
// Analyzer, in the default registry
func init() {
	cipher.MustRegister(Operations(nil)...)
}
