package translate

import (
	"strings"
	"time"

	"github.com/jinzhu/inflection"
)

// suggestionBucket pairs trigger keywords with curated example questions.
type suggestionBucket struct {
	keywords []string
	examples []string
}

// SuggestionEngine produces example questions when no strategy could
// translate the input. It is invoked by the caller after a total miss, not
// by the translation cascade itself.
type SuggestionEngine struct {
	tables func() []string
	now    func() time.Time
}

// NewSuggestionEngine creates the engine. The tables function supplies the
// live known-table list for the template-derived suggestions.
func NewSuggestionEngine(tables func() []string) *SuggestionEngine {
	return &SuggestionEngine{tables: tables, now: time.Now}
}

const (
	minSuggestions = 3
	maxSuggestions = 5
)

var suggestionBuckets = []suggestionBucket{
	{
		keywords: []string{"vendor", "suppliers", "companies"},
		examples: []string{
			"Show me all vendors",
			"Which vendors are active?",
			"Who are our top 5 vendors by invoice amount?",
		},
	},
	{
		keywords: []string{"invoice", "bill", "payment"},
		examples: []string{
			"Show me unpaid invoices",
			"Show me invoices over $5,000",
			"What's our largest invoice this year?",
		},
	},
	{
		keywords: []string{"employee", "staff", "team"},
		examples: []string{
			"Show me all active employees",
			"How many employees do we have?",
		},
	},
	{
		keywords: []string{"fund", "allocation", "investment"},
		examples: []string{
			"Show me all funds",
			"What's our total spend by fund?",
		},
	},
	{
		keywords: []string{"money", "amount", "total", "spend", "paid"},
		examples: []string{
			"What's our total spend this year?",
			"Show me total spend by vendor",
			"What's our largest payment?",
		},
	},
}

var generalSuggestions = []string{
	"Show me all unpaid invoices",
	"Which vendors haven't been paid this month?",
	"Show me invoices over $5,000",
	"Who has the most unpaid invoices?",
	"What's our total spend by category this year?",
	"Show me our active vendors",
	"What are our most recent invoices?",
}

// Suggest scans the failed question for keyword buckets and returns a
// bulleted message with 3 to 5 example questions. It always returns a
// non-empty string.
func (s *SuggestionEngine) Suggest(text string) string {
	lower := strings.ToLower(text)

	var suggestions []string
	for _, bucket := range suggestionBuckets {
		if !containsAny(lower, bucket.keywords) {
			continue
		}
		for _, ex := range bucket.examples {
			suggestions = appendSuggestion(suggestions, ex)
		}
	}

	// Top up from the general list until we have at least the minimum.
	if len(suggestions) < minSuggestions {
		for _, ex := range generalSuggestions {
			suggestions = appendSuggestion(suggestions, ex)
			if len(suggestions) >= maxSuggestions {
				break
			}
		}
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	var b strings.Builder
	b.WriteString("I don't understand that query. Here are some suggestions:\n\n")
	for _, sg := range suggestions {
		b.WriteString("• ")
		b.WriteString(sg)
		b.WriteString("\n")
	}
	b.WriteString("\nYou can also try more specific financial queries like counting items or filtering by dates.")
	return b.String()
}

// TemplateExamples derives example questions from the known tables, used
// when the caller wants suggestions without a failed question to react to.
func (s *SuggestionEngine) TemplateExamples() []string {
	templates := []string{
		"Show all {table}",
		"How many {table} do I have",
		"What is the total amount of {table}",
		"Show {table} from {month}",
	}

	month := s.now().Month().String()

	var examples []string
	for _, table := range s.tables() {
		display := strings.ReplaceAll(strings.ToLower(table), "_", " ")
		for _, tmpl := range templates {
			ex := strings.ReplaceAll(tmpl, "{table}", inflection.Plural(display))
			ex = strings.ReplaceAll(ex, "{month}", month)
			examples = appendSuggestion(examples, ex)
			if len(examples) >= maxSuggestions {
				return examples
			}
		}
	}

	if len(examples) == 0 {
		examples = append(examples, generalSuggestions[:minSuggestions]...)
	}
	return examples
}

// appendSuggestion appends without duplicates.
func appendSuggestion(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
