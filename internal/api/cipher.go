package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RowanDark/cipherkit/internal/cipher"
	"github.com/RowanDark/cipherkit/internal/logging"
	"github.com/RowanDark/cipherkit/internal/observability/metrics"
	"github.com/RowanDark/cipherkit/internal/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// CipherOperationRequest represents a request to execute a cipher operation
type CipherOperationRequest struct {
	Operation string                 `json:"operation"`
	Input     string                 `json:"input"`
	Config    map[string]interface{} `json:"config,omitempty"`
}

// CipherOperationResponse represents the result of a cipher operation
type CipherOperationResponse struct {
	Output string `json:"output"`
}

// CipherPipelineRequest represents a request to execute a pipeline of operations
type CipherPipelineRequest struct {
	Input      string                   `json:"input"`
	Operations []cipher.OperationConfig `json:"operations"`
	Reverse    bool                     `json:"reverse,omitempty"`
}

// CipherPipelineResponse represents the result of a pipeline execution
type CipherPipelineResponse struct {
	Output string `json:"output"`
}

// CipherDetectRequest represents a request to identify the cipher of a text
type CipherDetectRequest struct {
	Input string `json:"input"`
}

// CipherDetectResponse represents the detection result
type CipherDetectResponse struct {
	Detections []cipher.DetectionResult `json:"detections"`
}

// OperationInfo describes a registered operation
type OperationInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Reversible  bool   `json:"reversible"`
}

// RecipeSaveRequest represents a request to save a recipe
type RecipeSaveRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Tags        []string                 `json:"tags,omitempty"`
	Operations  []cipher.OperationConfig `json:"operations"`
	Reversible  bool                     `json:"reversible,omitempty"`
}

// RecipeRunRequest represents a request to run a stored recipe
type RecipeRunRequest struct {
	Input   string `json:"input"`
	Reverse bool   `json:"reverse,omitempty"`
}

// RecipeListResponse represents the list of recipes
type RecipeListResponse struct {
	Recipes []cipher.Recipe `json:"recipes"`
}

// RecipeExportResponse represents an exported recipe
type RecipeExportResponse struct {
	Recipe cipher.Recipe `json:"recipe"`
}

// handleCipherExecute handles execution of a single cipher operation
func (s *Server) handleCipherExecute(w http.ResponseWriter, r *http.Request) {
	var req CipherOperationRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Operation == "" {
		s.writeError(w, r, http.StatusBadRequest, "operation field is required")
		return
	}

	op, exists := s.registry.Get(req.Operation)
	if !exists {
		s.writeError(w, r, http.StatusBadRequest, "unknown operation: "+req.Operation)
		return
	}

	ctx, span := tracing.StartSpan(r.Context(), "cipher.execute", attribute.String("cipher.operation", req.Operation))
	params := req.Config
	if params == nil {
		params = make(map[string]interface{})
	}
	result, err := op.Execute(ctx, []byte(req.Input), params)
	tracing.End(span, err)
	metrics.RecordOperation(req.Operation, err)
	s.auditOperation(logging.EventOperationExecuted, req.Operation, params, err)
	if err != nil {
		s.writeError(w, r, statusFor(ctx, err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, CipherOperationResponse{Output: string(result)})
}

// handleCipherPipeline handles execution of a pipeline of operations
func (s *Server) handleCipherPipeline(w http.ResponseWriter, r *http.Request) {
	var req CipherPipelineRequest
	if !s.decode(w, r, &req) {
		return
	}

	if len(req.Operations) == 0 {
		s.writeError(w, r, http.StatusBadRequest, "operations field is required and must not be empty")
		return
	}

	pipeline := &cipher.Pipeline{Operations: req.Operations, Reversible: req.Reverse}
	s.runPipeline(w, r, "pipeline", pipeline, req.Reverse, req.Input)
}

func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request, name string, pipeline *cipher.Pipeline, reverse bool, input string) {
	if reverse {
		reversed, err := pipeline.ReverseWith(s.registry)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		pipeline = reversed
	}

	ctx, span := tracing.StartSpan(r.Context(), "cipher.pipeline",
		attribute.String("cipher.pipeline", name),
		attribute.Int("cipher.steps", len(pipeline.Operations)))
	result, err := pipeline.ExecuteWith(ctx, s.registry, []byte(input))
	tracing.End(span, err)
	s.auditOperation(logging.EventPipelineExecuted, name, map[string]any{"steps": len(pipeline.Operations)}, err)
	if err != nil {
		s.writeError(w, r, statusFor(ctx, err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, CipherPipelineResponse{Output: string(result)})
}

// handleCipherDetect ranks the classical ciphers that could have produced the input
func (s *Server) handleCipherDetect(w http.ResponseWriter, r *http.Request) {
	var req CipherDetectRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Input == "" {
		s.writeError(w, r, http.StatusBadRequest, "input field is required")
		return
	}

	ctx, span := tracing.StartSpan(r.Context(), "cipher.detect")
	detections, err := s.detector.Detect(ctx, []byte(req.Input))
	tracing.End(span, err)
	if err != nil {
		s.writeError(w, r, statusFor(ctx, err), err.Error())
		return
	}
	if len(detections) > 0 {
		metrics.RecordDetection(detections[0].Cipher)
		s.auditOperation(logging.EventDetection, detections[0].Cipher, nil, nil)
	}
	if detections == nil {
		detections = []cipher.DetectionResult{}
	}

	s.writeJSON(w, http.StatusOK, CipherDetectResponse{Detections: detections})
}

// handleCipherListOperations handles listing all available operations
func (s *Server) handleCipherListOperations(w http.ResponseWriter, r *http.Request) {
	var ops []cipher.Operation
	if t := r.URL.Query().Get("type"); t != "" {
		ops = s.registry.ListByType(cipher.OperationType(t))
	} else {
		ops = s.registry.List()
	}

	opList := make([]OperationInfo, 0, len(ops))
	for _, op := range ops {
		_, reversible := op.Reverse()
		opList = append(opList, OperationInfo{
			Name:        op.Name(),
			Type:        string(op.Type()),
			Description: op.Description(),
			Reversible:  reversible,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"operations": opList,
	})
}

// handleRecipeSave handles saving a new recipe
func (s *Server) handleRecipeSave(w http.ResponseWriter, r *http.Request) {
	var req RecipeSaveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Operations) == 0 {
		s.writeError(w, r, http.StatusBadRequest, "operations field is required and must not be empty")
		return
	}
	for _, opConfig := range req.Operations {
		if _, ok := s.registry.Get(opConfig.Name); !ok {
			s.writeError(w, r, http.StatusBadRequest, "unknown operation: "+opConfig.Name)
			return
		}
	}

	recipe := &cipher.Recipe{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Pipeline: cipher.Pipeline{
			Operations: req.Operations,
			Reversible: req.Reversible,
		},
	}

	if err := s.recipes.SaveRecipe(recipe); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cipher.ErrInvalidRecipe) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err.Error())
		return
	}
	metrics.SetRecipeCount(len(s.recipes.ListRecipes()))
	s.auditOperation(logging.EventRecipeSaved, recipe.Name, nil, nil)

	s.writeJSON(w, http.StatusCreated, RecipeExportResponse{Recipe: *recipe})
}

// handleRecipeList handles listing all recipes, optionally filtered by ?q=
func (s *Server) handleRecipeList(w http.ResponseWriter, r *http.Request) {
	var recipes []*cipher.Recipe
	if q := r.URL.Query().Get("q"); q != "" {
		recipes = s.recipes.SearchRecipes(q)
	} else {
		recipes = s.recipes.ListRecipes()
	}

	recipeList := make([]cipher.Recipe, len(recipes))
	for i, recipe := range recipes {
		recipeList[i] = *recipe
	}

	s.writeJSON(w, http.StatusOK, RecipeListResponse{Recipes: recipeList})
}

// handleRecipeLoad handles loading a specific recipe
func (s *Server) handleRecipeLoad(w http.ResponseWriter, r *http.Request) {
	recipe, ok := s.recipes.GetRecipe(chi.URLParam(r, "name"))
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "recipe not found")
		return
	}

	s.writeJSON(w, http.StatusOK, RecipeExportResponse{Recipe: *recipe})
}

// handleRecipeDelete removes a stored recipe
func (s *Server) handleRecipeDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.recipes.GetRecipe(name); !ok {
		s.writeError(w, r, http.StatusNotFound, "recipe not found")
		return
	}
	if err := s.recipes.DeleteRecipe(name); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.SetRecipeCount(len(s.recipes.ListRecipes()))
	s.auditOperation(logging.EventRecipeDeleted, name, nil, nil)

	w.WriteHeader(http.StatusNoContent)
}

// handleRecipeRun executes a stored recipe, forwards or reversed
func (s *Server) handleRecipeRun(w http.ResponseWriter, r *http.Request) {
	recipe, ok := s.recipes.GetRecipe(chi.URLParam(r, "name"))
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "recipe not found")
		return
	}

	var req RecipeRunRequest
	if !s.decode(w, r, &req) {
		return
	}

	pipeline := recipe.Pipeline
	s.runPipeline(w, r, recipe.Name, &pipeline, req.Reverse, req.Input)
}

func (s *Server) auditOperation(event logging.EventType, operation string, params map[string]any, err error) {
	ev := logging.AuditEvent{
		Timestamp: time.Now().UTC(),
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
