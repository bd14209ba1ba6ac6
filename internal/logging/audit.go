package logging

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/RowanDark/cipherkit/internal/redact"
)

type EventType string

const (
	EventOperationExecuted EventType = "operation_executed"
	EventPipelineExecuted  EventType = "pipeline_executed"
	EventAttackCompleted   EventType = "attack_completed"
	EventDetection         EventType = "detection_completed"
	EventRecipeSaved       EventType = "recipe_saved"
	EventRecipeDeleted     EventType = "recipe_deleted"
	EventRequestRejected   EventType = "request_rejected"
	EventServerLifecycle   EventType = "server_lifecycle"
)

type Outcome string

const (
	OutcomeInfo    Outcome = "info"
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

type AuditEvent struct {
	Timestamp time.Time
	Component string
	EventType EventType
	Operation string
	Metadata  map[string]any
	Outcome   Outcome
	Reason    string
}

// AuditLogger records cipher activity as structured log entries. Key
// material in Reason and Metadata is masked before it is written.
type AuditLogger struct {
	component string
	logger    *zap.Logger
}

func NewAuditLogger(component string, logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{component: component, logger: logger.Named("audit")}
}

func (l *AuditLogger) Emit(event AuditEvent) error {
	if l == nil || l.logger == nil {
		return errors.New("nil audit logger")
	}
	if event.EventType == "" {
		return errors.New("audit event type is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Component == "" {
		event.Component = l.component
	}
	if event.Outcome == "" {
		event.Outcome = OutcomeInfo
	}

	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.String("component", event.Component),
		zap.String("outcome", string(event.Outcome)),
		zap.Time("event_time", event.Timestamp.UTC()),
	}
	if event.Operation != "" {
		fields = append(fields, zap.String("operation", event.Operation))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", redact.String(event.Reason)))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", redact.Params(event.Metadata)))
	}

	if event.Outcome == OutcomeFailure {
		l.logger.Warn("audit", fields...)
	} else {
		l.logger.Info("audit", fields...)
	}
	return nil
}

func (l *AuditLogger) WithComponent(component string) *AuditLogger {
	if l == nil {
		return nil
	}
	return &AuditLogger{component: component, logger: l.logger}
}
