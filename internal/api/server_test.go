package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/RowanDark/cipherkit/internal/cipher"
)

// setupTestServer creates a server backed by a recipe store in a temp dir
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	server, err := NewServer(Config{
		Addr:    "127.0.0.1:0",
		Recipes: cipher.NewRecipeManager(t.TempDir()),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

// do sends a request through the routed handler and returns the recorder
func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantError bool
	}{
		{
			name:      "valid config",
			cfg:       Config{Addr: ":8080", Recipes: cipher.NewRecipeManager("")},
			wantError: false,
		},
		{
			name:      "missing address",
			cfg:       Config{Addr: " ", Recipes: cipher.NewRecipeManager("")},
			wantError: true,
		},
		{
			name:      "missing recipe manager",
			cfg:       Config{Addr: ":8080"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServer(tt.cfg)
			if (err != nil) != tt.wantError {
				t.Errorf("NewServer() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	h := setupTestServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := setupTestServer(t).Handler()

	// Generate at least one instrumented request first.
	do(t, h, http.MethodGet, "/api/v1/cipher/operations", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cipherkit_rpc_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := setupTestServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	id := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected generated uuid request id, got %q", id)
	}

	// A valid incoming id is echoed back.
	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != incoming {
		t.Fatalf("expected echoed request id %s, got %s", incoming, got)
	}

	// Garbage is replaced.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not a uuid" || got == "" {
		t.Fatalf("expected replaced request id, got %q", got)
	}
}

func TestErrorResponseCarriesRequestID(t *testing.T) {
	h := setupTestServer(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/cipher/execute", `{invalid json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != "invalid json" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
	if resp.RequestID != rec.Header().Get(RequestIDHeader) {
		t.Errorf("request id mismatch: body %q header %q", resp.RequestID, rec.Header().Get(RequestIDHeader))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := setupTestServer(t).Handler()

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/v1/cipher/execute"},
		{http.MethodGet, "/api/v1/analysis/attack/vigenere"},
		{http.MethodPut, "/api/v1/recipes"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, "")
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected 405, got %d", rec.Code)
			}
		})
	}
}

func TestServerRunAndShutdown(t *testing.T) {
	server := setupTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx)
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("Server did not shut down in time")
	}
}

func TestStatusFor(t *testing.T) {
	ctx := context.Background()
	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{"unknown operation", ctx, cipher.ErrUnknownOperation, http.StatusBadRequest},
		{"bad key", ctx, cipher.ErrInvalidKey, http.StatusBadRequest},
		{"cancelled", cancelled, context.Canceled, http.StatusRequestTimeout},
		{"deadline", ctx, context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"anything else", ctx, io.ErrUnexpectedEOF, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.ctx, tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
