package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/RowanDark/cipherkit/internal/analysis"
	"github.com/RowanDark/cipherkit/internal/cipher"
	"github.com/RowanDark/cipherkit/internal/logging"
	"github.com/RowanDark/cipherkit/internal/observability/metrics"
	"github.com/RowanDark/cipherkit/internal/observability/tracing"
)

// Config configures the REST API server.
type Config struct {
	Addr           string
	Recipes        *cipher.RecipeManager
	Analyzer       *analysis.Analyzer
	Registry       *cipher.Registry
	Logger         *zap.Logger
	Audit          *logging.AuditLogger
	RequestTimeout time.Duration
}

// Server exposes the cipher toolkit over JSON/HTTP.
type Server struct {
	cfg        Config
	httpServer *http.Server
	recipes    *cipher.RecipeManager
	analyzer   *analysis.Analyzer
	detector   *analysis.ClassicalDetector
	registry   *cipher.Registry
	logger     *zap.Logger
	audit      *logging.AuditLogger
}

// NewServer constructs a REST API server using the provided configuration.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("api address must be provided")
	}
	if cfg.Recipes == nil {
		return nil, errors.New("recipe manager is required")
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = analysis.New()
	}
	if cfg.Registry == nil {
		cfg.Registry = cipher.DefaultRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Audit == nil {
		cfg.Audit = logging.NewAuditLogger("api", cfg.Logger)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	return &Server{
		cfg:      cfg,
		recipes:  cfg.Recipes,
		analyzer: cfg.Analyzer,
		detector: analysis.NewClassicalDetector(cfg.Analyzer),
		registry: cfg.Registry,
		logger:   cfg.Logger.Named("api"),
		audit:    cfg.Audit,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.Recoverer)
	r.Use(tracing.Middleware)
	r.Use(s.accessLog)
	r.Use(instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Timeout(s.cfg.RequestTimeout))

		r.Get("/cipher/operations", s.handleCipherListOperations)
		r.Post("/cipher/execute", s.handleCipherExecute)
		r.Post("/cipher/pipeline", s.handleCipherPipeline)
		r.Post("/cipher/detect", s.handleCipherDetect)

		r.Post("/analysis/frequency", s.handleFrequency)
		r.Post("/analysis/keylength", s.handleKeyLength)
		r.Post("/analysis/attack/vigenere", s.handleVigenereAttack)
		r.Post("/analysis/attack/substitution", s.handleSubstitutionAttack)

		r.Get("/recipes", s.handleRecipeList)
		r.Post("/recipes", s.handleRecipeSave)
		r.Get("/recipes/{name}", s.handleRecipeLoad)
		r.Delete("/recipes/{name}", s.handleRecipeDelete)
		r.Post("/recipes/{name}/run", s.handleRecipeRun)
	})

	return r
}

// Run serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	_ = s.audit.Emit(logging.AuditEvent{
		EventType: logging.EventServerLifecycle,
		Reason:    "http listening on " + s.cfg.Addr,
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return <-errCh
	case err := <-errCh:
		return err
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", RequestIDFromContext(r.Context())), zap.String("error", msg))
	}
	s.writeJSON(w, status, errorResponse{Error: msg, RequestID: RequestIDFromContext(r.Context())})
}

// decode reads a JSON body into dst, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// statusFor maps library errors onto HTTP status codes.
func statusFor(ctx context.Context, err error) int {
	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return http.StatusRequestTimeout
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, cipher.ErrUnknownOperation),
		errors.Is(err, cipher.ErrInvalidParams),
		errors.Is(err, cipher.ErrInvalidKey),
		errors.Is(err, cipher.ErrInvalidPermutation),
		errors.Is(err, analysis.ErrInvalidKeyLength):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
