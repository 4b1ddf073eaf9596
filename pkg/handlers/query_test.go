package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/patterns"
	"github.com/finsight-io/finsight-engine/pkg/schema"
	"github.com/finsight-io/finsight-engine/pkg/translate"
)

func newTestQueryHandler(t *testing.T) *QueryHandler {
	t.Helper()

	registry := schema.DefaultRegistry(filepath.Join(t.TempDir(), "schema.json"), zap.NewNop())
	library := patterns.NewLibrary(filepath.Join(t.TempDir(), "patterns.json"), zap.NewNop())
	library.Load()
	translator := translate.New(registry, library, translate.DefaultMappings(), nil, zap.NewNop())

	return NewQueryHandler(translator, library, registry, zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestTranslateHandlerReturnsSQL(t *testing.T) {
	h := newTestQueryHandler(t)

	rec := postJSON(t, h.Translate, `{"question": "Show me invoices over $5,000"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TranslateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SELECT * FROM invoices WHERE amount > 5000 ORDER BY amount DESC", resp.SQL)
	assert.NotEmpty(t, resp.Explanation)
}

func TestTranslateHandlerSuggestsOnMiss(t *testing.T) {
	h := newTestQueryHandler(t)

	rec := postJSON(t, h.Translate, `{"question": "asdf qwerty zxcv"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp SuggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Suggestions, "I don't understand that query")
}

func TestTranslateHandlerRejectsBadRequests(t *testing.T) {
	h := newTestQueryHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{broken`},
		{"empty question", `{"question": ""}`},
		{"missing question", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Translate, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSuggestHandler(t *testing.T) {
	h := newTestQueryHandler(t)

	rec := postJSON(t, h.Suggest, `{"question": "something about vendors"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SuggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Suggestions, "Show me all vendors")
}

func TestExamplesHandler(t *testing.T) {
	h := newTestQueryHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/examples", nil)
	rec := httptest.NewRecorder()
	h.Examples(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["examples"])
}

func TestSaveAndReloadPatterns(t *testing.T) {
	h := newTestQueryHandler(t)

	rec := httptest.NewRecorder()
	h.SavePatterns(rec, httptest.NewRequest(http.MethodPost, "/api/patterns/save", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ReloadPatterns(rec, httptest.NewRequest(http.MethodPost, "/api/patterns/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, len(patterns.DefaultEntries()), h.library.Len())
}
