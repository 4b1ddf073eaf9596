package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestKeywordBuckets(t *testing.T) {
	s := NewSuggestionEngine(func() []string { return nil })

	tests := []struct {
		name        string
		question    string
		wantExample string
	}{
		{"vendor keyword", "something about vendor payments maybe", "Show me all vendors"},
		{"invoice keyword", "invoice stuff please", "Show me unpaid invoices"},
		{"employee keyword", "employee things", "Show me all active employees"},
		{"fund keyword", "fund question", "Show me all funds"},
		{"money keyword", "where did the money go", "What's our total spend this year?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Suggest(tt.question)
			assert.Contains(t, got, tt.wantExample)
		})
	}
}

func TestSuggestAlwaysOffersEnough(t *testing.T) {
	s := NewSuggestionEngine(func() []string { return nil })

	tests := []string{
		"asdf qwerty zxcv",
		"",
		"vendor",
		"show me the money for invoices and vendors and funds",
	}

	for _, question := range tests {
		got := s.Suggest(question)
		bullets := strings.Count(got, "•")
		assert.GreaterOrEqual(t, bullets, minSuggestions, "question %q", question)
		assert.LessOrEqual(t, bullets, maxSuggestions, "question %q", question)
		assert.Contains(t, got, "I don't understand that query")
	}
}

func TestTemplateExamples(t *testing.T) {
	s := NewSuggestionEngine(func() []string { return []string{"invoices"} })

	examples := s.TemplateExamples()
	require.NotEmpty(t, examples)
	assert.LessOrEqual(t, len(examples), maxSuggestions)
	assert.Contains(t, examples, "Show all invoices")
}

func TestTemplateExamplesWithoutTables(t *testing.T) {
	s := NewSuggestionEngine(func() []string { return nil })

	examples := s.TemplateExamples()
	assert.Len(t, examples, minSuggestions)
}
