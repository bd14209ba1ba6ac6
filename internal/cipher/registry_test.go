package cipher

import (
	"context"
	"testing"
)

// mockOperation is a test implementation of Operation
type mockOperation struct {
	BaseOperation
}

func (m *mockOperation) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	return input, nil
}

func newMock(name string, opType OperationType) *mockOperation {
	return &mockOperation{
		BaseOperation: BaseOperation{
			NameValue:        name,
			TypeValue:        opType,
			DescriptionValue: "Mock operation for testing",
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(newMock("mock", OperationTypeEncrypt)); err != nil {
		t.Fatalf("failed to register operation: %v", err)
	}

	if err := reg.Register(newMock("mock", OperationTypeDecrypt)); err == nil {
		t.Fatal("expected error when registering duplicate operation")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("expected error registering nil operation")
	}
	if err := reg.Register(newMock("", OperationTypeEncrypt)); err == nil {
		t.Fatal("expected error registering unnamed operation")
	}
}

func TestRegistryGetListUnregister(t *testing.T) {
	reg := NewRegistry()
	for _, op := range []*mockOperation{
		newMock("zeta", OperationTypeEncrypt),
		newMock("alpha", OperationTypeDecrypt),
		newMock("mid", OperationTypeEncrypt),
	} {
		if err := reg.Register(op); err != nil {
			t.Fatalf("register %s: %v", op.Name(), err)
		}
	}

	retrieved, exists := reg.Get("mid")
	if !exists || retrieved.Name() != "mid" {
		t.Fatalf("expected to find mid, got %v", retrieved)
	}

	all := reg.List()
	if len(all) != 3 || all[0].Name() != "alpha" || all[2].Name() != "zeta" {
		t.Errorf("expected sorted list alpha..zeta, got %d entries", len(all))
	}

	encrypters := reg.ListByType(OperationTypeEncrypt)
	if len(encrypters) != 2 || encrypters[0].Name() != "mid" {
		t.Errorf("expected [mid zeta], got %d entries", len(encrypters))
	}

	reg.Unregister("mid")
	if _, exists := reg.Get("mid"); exists {
		t.Error("mid should be gone after Unregister")
	}
}

func TestRegistryClone(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(newMock("alpha", OperationTypeEncrypt)); err != nil {
		t.Fatalf("register: %v", err)
	}

	clone := reg.Clone()
	if _, ok := clone.Get("alpha"); !ok {
		t.Fatal("clone should hold alpha")
	}

	clone.Unregister("alpha")
	if err := clone.Register(newMock("beta", OperationTypeDecrypt)); err != nil {
		t.Fatalf("register on clone: %v", err)
	}
	if _, ok := reg.Get("alpha"); !ok {
		t.Error("unregistering from the clone removed alpha from the original")
	}
	if _, ok := reg.Get("beta"); ok {
		t.Error("registering on the clone leaked beta into the original")
	}
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	for _, name := range []string{
		"substitution_encrypt", "substitution_decrypt",
		"vigenere_encrypt", "vigenere_decrypt",
		"caesar_encrypt", "caesar_decrypt",
		"text_strip",
	} {
		op, ok := GetOperation(name)
		if !ok {
			t.Errorf("operation %s should be registered", name)
			continue
		}
		if op.Description() == "" {
			t.Errorf("operation %s has no description", name)
		}
	}

	if got := len(ListOperationsByType(OperationTypeEncrypt)); got < 3 {
		t.Errorf("expected at least 3 encrypt operations, got %d", got)
	}
	if len(ListOperations()) < 7 {
		t.Error("expected at least 7 operations in the default registry")
	}
}

func TestReverseLinks(t *testing.T) {
	for _, pair := range [][2]string{
		{"substitution_encrypt", "substitution_decrypt"},
		{"vigenere_encrypt", "vigenere_decrypt"},
		{"caesar_encrypt", "caesar_decrypt"},
	} {
		op, _ := GetOperation(pair[0])
		rev, ok := op.Reverse()
		if !ok || rev.Name() != pair[1] {
			t.Errorf("%s should reverse to %s", pair[0], pair[1])
		}
		back, ok := rev.Reverse()
		if !ok || back.Name() != pair[0] {
			t.Errorf("%s should reverse to %s", pair[1], pair[0])
		}
	}
}
