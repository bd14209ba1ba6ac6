package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestAnalysisFrequency(t *testing.T) {
	h := setupTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/analysis/frequency", `{"input": "abbccc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp FrequencyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Counts) != 3 || resp.Counts[0].Letter != 'c' || resp.Counts[0].Count != 3 {
		t.Fatalf("unexpected ranking %+v", resp.Counts)
	}
	if resp.IC <= 0 {
		t.Fatalf("expected positive index of coincidence, got %f", resp.IC)
	}
}

func TestAnalysisKeyLength(t *testing.T) {
	h := setupTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/analysis/keylength", `{"input": "`+strings.Repeat("oic", 10)+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp KeyLengthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.KeyLength != 3 {
		t.Errorf("expected key length 3, got %d", resp.KeyLength)
	}
	if len(resp.Profile) != 10 {
		t.Errorf("expected 10 candidates, got %d", len(resp.Profile))
	}

	rec = do(t, h, http.MethodPost, "/api/v1/analysis/keylength", `{"input": "ab"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for short text, got %d", rec.Code)
	}
}

func TestAnalysisVigenereAttack(t *testing.T) {
	h := setupTestServer(t).Handler()
	ciphertext := strings.Repeat("oic", 10)

	tests := []struct {
		name    string
		payload string
		wantKey string
	}{
		{"estimated length", `{"input": "` + ciphertext + `"}`, "key"},
		{"known length", `{"input": "` + ciphertext + `", "key_length": 3}`, "key"},
		{"doubled length", `{"input": "` + ciphertext + `", "key_length": 6}`, "keykey"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/analysis/attack/vigenere", tt.payload)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Key       string `json:"key"`
				KeyLength int    `json:"key_length"`
				Plaintext string `json:"plaintext"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Key != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, resp.Key)
			}
			if resp.Plaintext != strings.Repeat("e", 30) {
				t.Errorf("unexpected plaintext %q", resp.Plaintext)
			}
		})
	}

	rec := do(t, h, http.MethodPost, "/api/v1/analysis/attack/vigenere", `{"input": "abc", "key_length": 9}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for key length longer than text, got %d", rec.Code)
	}
}

func TestAnalysisSubstitutionAttack(t *testing.T) {
	h := setupTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/analysis/attack/substitution", `{"input": "Bba, c"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SubstitutionAttackResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Plaintext != "Eet, a" {
		t.Errorf("unexpected plaintext %q", resp.Plaintext)
	}
	if resp.Mapping["b"] != "e" || resp.Mapping["a"] != "t" || resp.Mapping["c"] != "a" {
		t.Errorf("unexpected mapping %v", resp.Mapping)
	}
}
