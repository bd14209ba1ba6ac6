package cipher

import (
	"context"
	"errors"
	"testing"
)

func TestVigenereOperations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		password string
		expected string
	}{
		{"pinned vector", "HELLO", "ABC", "HFNLP"},
		{"mixed text", "Attack at dawn!", "lemon", "Lxfopv mh oeib!"},
		{"empty input", "", "lemon", ""},
	}

	ctx := context.Background()
	encrypter, _ := GetOperation("vigenere_encrypt")
	decrypter, _ := GetOperation("vigenere_decrypt")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]interface{}{"password": tt.password}

			encrypted, err := encrypter.Execute(ctx, []byte(tt.input), params)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			if string(encrypted) != tt.expected {
				t.Errorf("encrypt: expected %q, got %q", tt.expected, string(encrypted))
			}

			decrypted, err := decrypter.Execute(ctx, encrypted, params)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if string(decrypted) != tt.input {
				t.Errorf("decrypt: expected %q, got %q", tt.input, string(decrypted))
			}
		})
	}
}

func TestVigenereOperationRequiresPassword(t *testing.T) {
	op, _ := GetOperation("vigenere_encrypt")

	for _, params := range []map[string]interface{}{nil, {}, {"password": ""}, {"password": "abc1"}, {"password": 7}} {
		_, err := op.Execute(context.Background(), []byte("text"), params)
		if !errors.Is(err, ErrInvalidParams) {
			t.Errorf("params %v: expected ErrInvalidParams, got %v", params, err)
		}
	}
}

func TestSubstitutionOperations(t *testing.T) {
	tests := []struct {
		name     string
		mapping  interface{}
		input    string
		expected string
	}{
		{"alphabet string", "bcdefghijklmnopqrstuvwxyza", "hello world", "ifmmp xpsme"},
		{"alphabet keeps case", "qwertyuiopasdfghjklzxcvbnm", "Hello, World", "Itssg, Vgksr"},
		{"partial object", map[string]interface{}{"h": "j", "o": "0"}, "hello", "jell0"},
		{"string object", map[string]string{"l": "L"}, "hello", "heLLo"},
	}

	ctx := context.Background()
	encrypter, _ := GetOperation("substitution_encrypt")
	decrypter, _ := GetOperation("substitution_decrypt")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]interface{}{"mapping": tt.mapping}

			encrypted, err := encrypter.Execute(ctx, []byte(tt.input), params)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			if string(encrypted) != tt.expected {
				t.Errorf("encrypt: expected %q, got %q", tt.expected, string(encrypted))
			}

			decrypted, err := decrypter.Execute(ctx, encrypted, params)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if string(decrypted) != tt.input {
				t.Errorf("decrypt: expected %q, got %q", tt.input, string(decrypted))
			}
		})
	}
}

func TestSubstitutionOperationInvalidMapping(t *testing.T) {
	op, _ := GetOperation("substitution_encrypt")

	for _, mapping := range []interface{}{nil, "abc", 42, map[string]interface{}{"ab": "c"}, map[string]interface{}{"a": 1}} {
		_, err := op.Execute(context.Background(), []byte("text"), map[string]interface{}{"mapping": mapping})
		if !errors.Is(err, ErrInvalidParams) {
			t.Errorf("mapping %v: expected ErrInvalidParams, got %v", mapping, err)
		}
	}
}

func TestCaesarOperations(t *testing.T) {
	tests := []struct {
		name     string
		shift    interface{}
		expected string
	}{
		{"int", 3, "Dwwdfn!"},
		{"json number", float64(3), "Dwwdfn!"},
		{"numeric string", "3", "Dwwdfn!"},
		{"letter", "d", "Dwwdfn!"},
	}

	ctx := context.Background()
	encrypter, _ := GetOperation("caesar_encrypt")
	decrypter, _ := GetOperation("caesar_decrypt")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]interface{}{"shift": tt.shift}
			encrypted, err := encrypter.Execute(ctx, []byte("Attack!"), params)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			if string(encrypted) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(encrypted))
			}
			decrypted, err := decrypter.Execute(ctx, encrypted, params)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if string(decrypted) != "Attack!" {
				t.Errorf("roundtrip failed: got %q", string(decrypted))
			}
		})
	}

	for _, shift := range []interface{}{26, -1, 2.5, "ab", true} {
		if _, err := encrypter.Execute(ctx, []byte("x"), map[string]interface{}{"shift": shift}); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("shift %v: expected ErrInvalidParams, got %v", shift, err)
		}
	}
}

func TestTextStripOperation(t *testing.T) {
	op, ok := GetOperation("text_strip")
	if !ok {
		t.Fatal("text_strip should be registered")
	}
	out, err := op.Execute(context.Background(), []byte("Hello, Wörld 42!"), nil)
	if err != nil {
		t.Fatalf("strip failed: %v", err)
	}
	if string(out) != "helloworld" {
		t.Errorf("expected %q, got %q", "helloworld", string(out))
	}
	if _, ok := op.Reverse(); ok {
		t.Error("text_strip should not be reversible")
	}
}

func TestCipherStep(t *testing.T) {
	for _, family := range CipherFamilies() {
		step, ok := CipherStep(family, "k", false)
		if !ok {
			t.Fatalf("expected %s to be supported", family)
		}
		if _, exists := GetOperation(step.Name); !exists {
			t.Errorf("step %s is not registered", step.Name)
		}
		rev, _ := CipherStep(family, "k", true)
		if rev.Name != family+"_decrypt" {
			t.Errorf("unexpected decrypt step %s", rev.Name)
		}
	}

	step, ok := CipherStep(" Vigenere ", "lemon", false)
	if !ok || step.Name != "vigenere_encrypt" || step.Parameters["password"] != "lemon" {
		t.Errorf("unexpected step %+v", step)
	}

	if _, ok := CipherStep("enigma", "abc", false); ok {
		t.Error("expected enigma to be rejected")
	}
}
