package api

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/RowanDark/cipherkit/internal/analysis"
	"github.com/RowanDark/cipherkit/internal/logging"
	"github.com/RowanDark/cipherkit/internal/observability/metrics"
	"github.com/RowanDark/cipherkit/internal/observability/tracing"
)

// AnalysisRequest carries a ciphertext for any analysis endpoint.
type AnalysisRequest struct {
	Input string `json:"input"`
	// KeyLength skips key length estimation in the Vigenère attack.
	KeyLength *int `json:"key_length,omitempty"`
}

// FrequencyResponse reports the character ranking and index of coincidence.
type FrequencyResponse struct {
	Counts []analysis.LetterCount `json:"counts"`
	IC     float64                `json:"index_of_coincidence"`
}

// KeyLengthResponse reports the estimated period and every candidate score.
type KeyLengthResponse struct {
	KeyLength int              `json:"key_length"`
	Profile   analysis.Profile `json:"profile"`
}

// SubstitutionAttackResponse reports the decryption and the mapping used.
type SubstitutionAttackResponse struct {
	Plaintext string            `json:"plaintext"`
	Mapping   map[string]string `json:"mapping"`
}

func (s *Server) handleFrequency(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if !s.decode(w, r, &req) {
		return
	}

	counts := analysis.RankedCounts(req.Input)
	if counts == nil {
		counts = []analysis.LetterCount{}
	}
	s.writeJSON(w, http.StatusOK, FrequencyResponse{
		Counts: counts,
		IC:     analysis.IndexOfCoincidence(req.Input),
	})
}

func (s *Server) handleKeyLength(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, span := tracing.StartSpan(r.Context(), "analysis.keylength")
	profile, err := s.analyzer.CoincidenceProfile(req.Input)
	tracing.End(span, err)
	if err != nil {
		s.writeError(w, r, statusFor(ctx, err), err.Error())
		return
	}

	best, _ := profile.Best()
	metrics.ObserveKeyLength(best.Length)
	s.writeJSON(w, http.StatusOK, KeyLengthResponse{KeyLength: best.Length, Profile: profile})
}

func (s *Server) handleVigenereAttack(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, span := tracing.StartSpan(r.Context(), "analysis.attack.vigenere")
	start := time.Now()
	result, err := s.vigenereAttack(req)
	metrics.ObserveAttack("vigenere", time.Since(start))
	if err == nil {
		span.SetAttributes(attribute.Int("cipher.key_length", result.KeyLength))
	}
	tracing.End(span, err)
	s.auditAttack("vigenere", err)
	if err != nil {
		s.writeError(w, r, statusFor(ctx, err), err.Error())
		return
	}

	metrics.ObserveKeyLength(result.KeyLength)
	s.writeJSON(w, http.StatusOK, result)
}

// vigenereAttack runs the full attack, or only key recovery when the caller
// already knows the period.
func (s *Server) vigenereAttack(req AnalysisRequest) (analysis.AttackResult, error) {
	if req.KeyLength == nil {
		return s.analyzer.Attack(req.Input)
	}
	return s.analyzer.AttackWithLength(req.Input, *req.KeyLength)
}

func (s *Server) handleSubstitutionAttack(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if !s.decode(w, r, &req) {
		return
	}

	_, span := tracing.StartSpan(r.Context(), "analysis.attack.substitution")
	start := time.Now()
	plaintext, mapping := s.analyzer.SolveSubstitution(req.Input)
	metrics.ObserveAttack("substitution", time.Since(start))
	tracing.End(span, nil)
	s.auditAttack("substitution", nil)

	out := make(map[string]string, len(mapping))
	for from, to := range mapping {
		out[string(from)] = string(to)
	}
	s.writeJSON(w, http.StatusOK, SubstitutionAttackResponse{Plaintext: plaintext, Mapping: out})
}

func (s *Server) auditAttack(kind string, err error) {
	s.auditOperation(logging.EventAttackCompleted, kind+"_attack", nil, err)
}
