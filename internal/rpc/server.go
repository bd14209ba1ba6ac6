package rpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/RowanDark/cipherkit/internal/analysis"
	"github.com/RowanDark/cipherkit/internal/cipher"
	"github.com/RowanDark/cipherkit/internal/logging"
	"github.com/RowanDark/cipherkit/internal/observability/metrics"
)

// Server implements the Cipher gRPC service on top of the operation
// registry and the analyzer.
type Server struct {
	registry *cipher.Registry
	analyzer *analysis.Analyzer
	logger   *zap.Logger
	audit    *logging.AuditLogger
}

var _ CipherServer = (*Server)(nil)

// ServerOption configures the server.
type ServerOption func(*Server)

// WithRegistry resolves operations in reg instead of the default registry.
func WithRegistry(reg *cipher.Registry) ServerOption {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithAnalyzer overrides the analyzer used by Attack.
func WithAnalyzer(a *analysis.Analyzer) ServerOption {
	return func(s *Server) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithLogger sets the logger for call logging and audit events.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer constructs the Cipher service.
func NewServer(opts ...ServerOption) *Server {
	srv := &Server{
		registry: cipher.DefaultRegistry(),
		analyzer: analysis.New(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.logger = srv.logger.Named("rpc")
	srv.audit = logging.NewAuditLogger("rpc", srv.logger)
	return srv
}

// Encrypt enciphers the request text.
func (s *Server) Encrypt(ctx context.Context, req *CipherRequest) (*CipherResponse, error) {
	return s.transform(ctx, req, false)
}

// Decrypt deciphers the request text.
func (s *Server) Decrypt(ctx context.Context, req *CipherRequest) (*CipherResponse, error) {
	return s.transform(ctx, req, true)
}

func (s *Server) transform(ctx context.Context, req *CipherRequest, decrypt bool) (*CipherResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	step, ok := cipher.CipherStep(req.Cipher, req.Key, decrypt)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unsupported cipher %q", req.Cipher)
	}

	op, ok := s.registry.Get(step.Name)
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "operation %s is not registered", step.Name)
	}

	out, err := op.Execute(ctx, []byte(req.Text), step.Parameters)
	metrics.RecordOperation(step.Name, err)
	s.emit(logging.EventOperationExecuted, step.Name, step.Parameters, err)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CipherResponse{Text: string(out)}, nil
}

// Attack breaks a vigenere or substitution ciphertext without its key.
func (s *Server) Attack(ctx context.Context, req *AttackRequest) (*AttackResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	kind := strings.ToLower(strings.TrimSpace(req.Cipher))
	start := time.Now()
	var (
		resp *AttackResponse
		err  error
	)
	switch kind {
	case "vigenere":
		resp, err = s.attackVigenere(req)
	case "substitution":
		plaintext, mapping := s.analyzer.SolveSubstitution(req.Text)
		resp = &AttackResponse{Plaintext: plaintext, Mapping: make(map[string]string, len(mapping))}
		for from, to := range mapping {
			resp.Mapping[string(from)] = string(to)
		}
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unsupported attack %q", req.Cipher)
	}
	metrics.ObserveAttack(kind, time.Since(start))
	s.emit(logging.EventAttackCompleted, kind+"_attack", nil, err)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

func (s *Server) attackVigenere(req *AttackRequest) (*AttackResponse, error) {
	var (
		result analysis.AttackResult
		err    error
	)
	if req.KeyLength > 0 {
		result, err = s.analyzer.AttackWithLength(req.Text, req.KeyLength)
	} else if result, err = s.analyzer.Attack(req.Text); err == nil {
		metrics.ObserveKeyLength(result.KeyLength)
	}
	if err != nil {
		return nil, err
	}
	return &AttackResponse{
		Key:       string(result.Key),
		KeyLength: result.KeyLength,
		Plaintext: result.Plaintext,
	}, nil
}

func (s *Server) emit(event logging.EventType, operation string, params map[string]any, err error) {
	ev := logging.AuditEvent{
		EventType: event,
		Operation: operation,
		Metadata:  params,
		Outcome:   logging.OutcomeSuccess,
	}
	if err != nil {
		ev.Outcome = logging.OutcomeFailure
		ev.Reason = err.Error()
	}
	_ = s.audit.Emit(ev)
}

// toStatus maps library errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, cipher.ErrInvalidKey),
		errors.Is(err, cipher.ErrInvalidPermutation),
		errors.Is(err, cipher.ErrInvalidParams),
		errors.Is(err, analysis.ErrInvalidKeyLength),
		errors.Is(err, analysis.ErrTextTooShort):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, cipher.ErrUnknownOperation):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// NewGRPCServer builds a gRPC server with tracing, metrics and call logging
// interceptors, and registers the Cipher and health services. The health
// status of ServiceName and of the whole server starts as SERVING.
func NewGRPCServer(svc *Server, interceptors ...grpc.UnaryServerInterceptor) (*grpc.Server, *health.Server) {
	chain := make([]grpc.UnaryServerInterceptor, 0, len(interceptors)+2)
	chain = append(chain, interceptors...)
	chain = append(chain, metricsInterceptor(), loggingInterceptor(svc.logger))
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	RegisterCipherServer(srv, svc)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}
