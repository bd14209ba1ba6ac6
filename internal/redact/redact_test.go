package redact

import (
	"testing"
)

func TestParamsMasksKeyMaterial(t *testing.T) {
	input := map[string]any{
		"password":   "lemon",
		"Mapping":    "qwertyuiopasdfghjklzxcvbnm",
		"shift":      3,
		"key_length": 5,
		"nested":     []any{"password=lemon"},
	}
	masked := Params(input)

	for _, k := range []string{"password", "Mapping", "shift"} {
		if masked[k] != Secret {
			t.Fatalf("expected %s to be masked, got %#v", k, masked[k])
		}
	}
	if masked["key_length"] != 5 {
		t.Fatalf("key_length should pass through, got %#v", masked["key_length"])
	}
	nested, ok := masked["nested"].([]any)
	if !ok || len(nested) != 1 {
		t.Fatalf("expected nested slice to be preserved, got %#v", masked["nested"])
	}
	if item, _ := nested[0].(string); item != "password="+Secret {
		t.Fatalf("expected nested value to be redacted, got %q", item)
	}
	if input["password"] != "lemon" {
		t.Fatalf("input must not be modified")
	}
}

func TestParamsEmpty(t *testing.T) {
	if Params(nil) != nil {
		t.Fatalf("expected nil for empty params")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"password=lemon", "password=" + Secret},
		{`{"key": "abc"}`, `{"key": "` + Secret + `"}`},
		{"shift: 3 and more", "shift: " + Secret + " and more"},
		{"nothing secret here", "nothing secret here"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := String(tt.in); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
