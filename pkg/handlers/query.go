package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/logging"
	"github.com/finsight-io/finsight-engine/pkg/patterns"
	"github.com/finsight-io/finsight-engine/pkg/schema"
	"github.com/finsight-io/finsight-engine/pkg/translate"
)

// QueryRequest is the body of a translate or suggest call.
type QueryRequest struct {
	Question string `json:"question"`
}

// TranslateResponse is the body of a successful SQL-based translation.
type TranslateResponse struct {
	SQL         string `json:"sql"`
	Explanation string `json:"explanation"`
}

// SuggestResponse carries fallback suggestions for an untranslatable question.
type SuggestResponse struct {
	Suggestions string `json:"suggestions"`
}

// QueryHandler exposes the translation engine over HTTP.
type QueryHandler struct {
	translator *translate.Translator
	library    *patterns.Library
	registry   *schema.Registry
	logger     *zap.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(
	translator *translate.Translator,
	library *patterns.Library,
	registry *schema.Registry,
	logger *zap.Logger,
) *QueryHandler {
	return &QueryHandler{
		translator: translator,
		library:    library,
		registry:   registry,
		logger:     logger.Named("query-handler"),
	}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/translate", h.Translate)
	mux.HandleFunc("POST /api/suggest", h.Suggest)
	mux.HandleFunc("GET /api/examples", h.Examples)
	mux.HandleFunc("POST /api/patterns/reload", h.ReloadPatterns)
	mux.HandleFunc("POST /api/patterns/save", h.SavePatterns)
}

// Translate handles POST /api/translate. An untranslatable question gets a
// 422 with suggestions so the client can guide the user.
func (h *QueryHandler) Translate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeQuestion(w, r)
	if !ok {
		return
	}

	requestID := uuid.New()
	outcome := h.translator.Translate(r.Context(), req.Question)
	if outcome == nil {
		h.logger.Info("Question could not be translated",
			zap.String("request_id", requestID.String()))
		_ = WriteJSON(w, http.StatusUnprocessableEntity, SuggestResponse{
			Suggestions: h.translator.Suggest(req.Question),
		})
		return
	}

	if outcome.IsIntentBased() {
		h.logger.Info("Question answered through intent routing",
			zap.String("request_id", requestID.String()),
			zap.Int("row_count", outcome.Table.RowCount))
		_ = WriteJSON(w, http.StatusOK, outcome.Table)
		return
	}

	h.logger.Info("Question translated to SQL",
		zap.String("request_id", requestID.String()),
		zap.String("sql", logging.TruncateQuery(outcome.SQL)))
	_ = WriteJSON(w, http.StatusOK, TranslateResponse{
		SQL:         outcome.SQL,
		Explanation: outcome.Explanation,
	})
}

// Suggest handles POST /api/suggest.
func (h *QueryHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeQuestion(w, r)
	if !ok {
		return
	}
	_ = WriteJSON(w, http.StatusOK, SuggestResponse{
		Suggestions: h.translator.Suggest(req.Question),
	})
}

// Examples handles GET /api/examples with table-derived example questions.
func (h *QueryHandler) Examples(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string][]string{
		"examples": h.translator.Examples(),
	})
}

// ReloadPatterns handles POST /api/patterns/reload. Reload is the explicit
// caller-initiated action; the library's internal lock keeps it from
// interleaving with in-flight translations.
func (h *QueryHandler) ReloadPatterns(w http.ResponseWriter, r *http.Request) {
	h.library.Load()
	h.registry.Load()
	h.logger.Info("Reloaded pattern library and schema registry",
		zap.Int("patterns", h.library.Len()),
		zap.Int("tables", len(h.registry.Tables())))
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// SavePatterns handles POST /api/patterns/save.
func (h *QueryHandler) SavePatterns(w http.ResponseWriter, r *http.Request) {
	if err := h.library.Save(); err != nil {
		h.logger.Error("Failed to save pattern library", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "save_failed", "could not persist pattern library")
		return
	}
	if err := h.registry.Save(); err != nil {
		h.logger.Error("Failed to save schema registry", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "save_failed", "could not persist schema registry")
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// decodeQuestion parses the request body and rejects empty questions.
func (h *QueryHandler) decodeQuestion(w http.ResponseWriter, r *http.Request) (*QueryRequest, bool) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a question field")
		return nil, false
	}
	if req.Question == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "question must not be empty")
		return nil, false
	}
	return &req, true
}
