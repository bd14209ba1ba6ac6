package cipher

import (
	"context"
	"fmt"
)

// OperationType defines the category of a transformation operation
type OperationType string

const (
	OperationTypeEncrypt   OperationType = "encrypt"
	OperationTypeDecrypt   OperationType = "decrypt"
	OperationTypeNormalize OperationType = "normalize"
	OperationTypeAnalyze   OperationType = "analyze"
)

// Operation is a single text transformation that can be chained in a pipeline
type Operation interface {
	// Name returns the unique identifier for this operation
	Name() string

	// Type returns the category of this operation
	Type() OperationType

	// Description returns a human-readable description
	Description() string

	// Execute applies the operation to the input text
	Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error)

	// Reverse returns the inverse operation if available
	Reverse() (Operation, bool)
}

// OperationConfig names an operation and its parameters inside a pipeline
type OperationConfig struct {
	Name       string                 `json:"name" yaml:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Pipeline is a chain of operations applied sequentially
type Pipeline struct {
	Operations []OperationConfig `json:"operations" yaml:"operations"`
	Reversible bool              `json:"reversible" yaml:"reversible"`
}

// Execute runs the pipeline against the default registry.
func (p *Pipeline) Execute(ctx context.Context, input []byte) ([]byte, error) {
	return p.ExecuteWith(ctx, DefaultRegistry(), input)
}

// ExecuteWith runs the pipeline, resolving operations in reg.
func (p *Pipeline) ExecuteWith(ctx context.Context, reg *Registry, input []byte) ([]byte, error) {
	result := input
	var err error

	for i, opConfig := range p.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		op, exists := reg.Get(opConfig.Name)
		if !exists {
			return nil, fmt.Errorf("step %d: %w: %s", i, ErrUnknownOperation, opConfig.Name)
		}

		result, err = op.Execute(ctx, result, opConfig.Parameters)
		if err != nil {
			return nil, fmt.Errorf("operation %s failed at step %d: %w", opConfig.Name, i, err)
		}
	}

	return result, nil
}

// Reverse builds the inverse pipeline against the default registry.
func (p *Pipeline) Reverse() (*Pipeline, error) {
	return p.ReverseWith(DefaultRegistry())
}

// ReverseWith builds the inverse pipeline: operations in reverse order, each
// replaced by its inverse and keeping its parameters.
func (p *Pipeline) ReverseWith(reg *Registry) (*Pipeline, error) {
	if !p.Reversible {
		return nil, fmt.Errorf("pipeline is not reversible")
	}

	reversed := &Pipeline{
		Operations: make([]OperationConfig, len(p.Operations)),
		Reversible: true,
	}

	for i, opConfig := range p.Operations {
		op, exists := reg.Get(opConfig.Name)
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, opConfig.Name)
		}

		reverseOp, ok := op.Reverse()
		if !ok {
			return nil, fmt.Errorf("operation %s is not reversible", opConfig.Name)
		}

		reversed.Operations[len(p.Operations)-1-i] = OperationConfig{
			Name:       reverseOp.Name(),
			Parameters: opConfig.Parameters,
		}
	}

	return reversed, nil
}

// Recipe is a named, reusable pipeline
type Recipe struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Pipeline    Pipeline `json:"pipeline" yaml:"pipeline"`
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
	UpdatedAt   string   `json:"updated_at" yaml:"updated_at"`
}

// DetectionResult is one guess about which cipher produced a text
type DetectionResult struct {
	Cipher     string  `json:"cipher"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Reasoning  string  `json:"reasoning"`
	Operation  string  `json:"operation"` // Suggested operation to recover plaintext
}

// Detector identifies the cipher family of a text
type Detector interface {
	// Detect ranks the plausible ciphers for input, most likely first
	Detect(ctx context.Context, input []byte) ([]DetectionResult, error)

	// SupportedCiphers lists the cipher families this detector can identify
	SupportedCiphers() []string
}

// BaseOperation provides the metadata half of Operation
type BaseOperation struct {
	NameValue        string
	TypeValue        OperationType
	DescriptionValue string
	ReverseOp        Operation
}

func (b *BaseOperation) Name() string {
	return b.NameValue
}

func (b *BaseOperation) Type() OperationType {
	return b.TypeValue
}

func (b *BaseOperation) Description() string {
	return b.DescriptionValue
}

func (b *BaseOperation) Reverse() (Operation, bool) {
	if b.ReverseOp == nil {
		return nil, false
	}
	return b.ReverseOp, true
}
