package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func setupFile(t *testing.T) (string, func(context.Context) error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spans", "spans.jsonl")
	shutdown, err := Setup(context.Background(), Config{ServiceName: "cipherkit-test", SampleRatio: 1, FilePath: path})
	require.NoError(t, err)
	return path, shutdown
}

func readSpans(t *testing.T, path string) []SpanSnapshot {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var spans []SpanSnapshot
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var snap SpanSnapshot
		require.NoError(t, json.Unmarshal([]byte(line), &snap))
		spans = append(spans, snap)
	}
	return spans
}

func TestStartSpanWritesFile(t *testing.T) {
	path, shutdown := setupFile(t)

	ctx, span := StartSpan(context.Background(), "vigenere_attack", attribute.Int("key_length", 5))
	assert.Len(t, TraceIDFromContext(ctx), 32)
	End(span, nil)

	_, failed := StartSpan(ctx, "recover_key")
	End(failed, errors.New("boom"))

	require.NoError(t, shutdown(context.Background()))

	spans := readSpans(t, path)
	require.Len(t, spans, 2)

	byName := map[string]SpanSnapshot{}
	for _, s := range spans {
		byName[s.Name] = s
	}
	attack := byName["vigenere_attack"]
	assert.Equal(t, "ok", attack.Status)
	assert.Equal(t, "cipherkit-test", attack.ServiceName)
	assert.EqualValues(t, 5, attack.Attributes["key_length"])

	child := byName["recover_key"]
	assert.Equal(t, "error", child.Status)
	assert.Equal(t, "boom", child.StatusMsg)
	assert.Equal(t, attack.TraceID, child.TraceID)
	assert.Equal(t, attack.SpanID, child.ParentSpanID)
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{SampleRatio: 0})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTraceIDFromContextEmpty(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestUnaryServerInterceptor(t *testing.T) {
	path, shutdown := setupFile(t)

	const parent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("traceparent", parent))

	var seen string
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = TraceIDFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/cipherkit.v1.Cipher/Attack"}

	resp, err := UnaryServerInterceptor()(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", seen)

	require.NoError(t, shutdown(context.Background()))
	spans := readSpans(t, path)
	require.Len(t, spans, 1)
	assert.Equal(t, "cipherkit.v1.Cipher", spans[0].Attributes["rpc.service"])
	assert.Equal(t, "Attack", spans[0].Attributes["rpc.method"])
	assert.Equal(t, "00f067aa0ba902b7", spans[0].ParentSpanID)
}

func TestMiddleware(t *testing.T) {
	path, shutdown := setupFile(t)

	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/cipher/execute", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Len(t, seen, 32)

	require.NoError(t, shutdown(context.Background()))
	spans := readSpans(t, path)
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /api/v1/cipher/execute", spans[0].Name)
	assert.EqualValues(t, http.StatusTeapot, spans[0].Attributes["http.response.status_code"])
}
