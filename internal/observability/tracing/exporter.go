package tracing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanSnapshot is the JSONL record written for each finished span.
type SpanSnapshot struct {
	TraceID      string         `json:"trace_id"`
	SpanID       string         `json:"span_id"`
	ParentSpanID string         `json:"parent_span_id,omitempty"`
	Name         string         `json:"name"`
	Kind         string         `json:"kind"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Status       string         `json:"status"`
	StatusMsg    string         `json:"status_message,omitempty"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	ServiceName  string         `json:"service_name,omitempty"`
}

type fileExporter struct {
	mu      sync.Mutex
	fw      *os.File
	enc     *json.Encoder
	service string
}

var _ sdktrace.SpanExporter = (*fileExporter)(nil)

func newFileExporter(path, service string) (*fileExporter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &fileExporter{fw: f, enc: json.NewEncoder(f), service: service}, nil
}

func (f *fileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fw == nil {
		return nil
	}
	for _, span := range spans {
		if err := f.enc.Encode(f.snapshot(span)); err != nil {
			return err
		}
	}
	return nil
}

func (f *fileExporter) Shutdown(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fw == nil {
		return nil
	}
	err := f.fw.Close()
	f.fw = nil
	return err
}

func (f *fileExporter) snapshot(span sdktrace.ReadOnlySpan) SpanSnapshot {
	sc := span.SpanContext()
	snap := SpanSnapshot{
		TraceID:     sc.TraceID().String(),
		SpanID:      sc.SpanID().String(),
		Name:        span.Name(),
		Kind:        span.SpanKind().String(),
		Status:      statusName(span.Status().Code),
		StatusMsg:   span.Status().Description,
		StartTime:   span.StartTime(),
		EndTime:     span.EndTime(),
		ServiceName: f.service,
	}
	if parent := span.Parent(); parent.IsValid() {
		snap.ParentSpanID = parent.SpanID().String()
	}
	if attrs := span.Attributes(); len(attrs) > 0 {
		snap.Attributes = make(map[string]any, len(attrs))
		for _, kv := range attrs {
			snap.Attributes[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	return snap
}

func statusName(code codes.Code) string {
	switch code {
	case codes.Ok:
		return "ok"
	case codes.Error:
		return "error"
	default:
		return "unset"
	}
}
