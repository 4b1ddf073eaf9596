// Package translate turns free-text questions about financial records into
// executable SQL or ready-made tabular answers. Translation runs an ordered
// cascade of strategies; the first one that produces an outcome wins, and a
// total miss is reported as a nil outcome rather than an error.
package translate

// Tabular is an already-materialized result produced by an intent handler.
// It is returned instead of SQL for question shapes that are answered
// through pre-vetted safe data-access calls.
type Tabular struct {
	Columns     []string `json:"columns"`
	Rows        [][]any  `json:"rows"`
	RowCount    int      `json:"row_count"`
	IntentBased bool     `json:"intent_based"`
}

// Outcome is the result of one translation. Exactly one of SQL or Table is
// set, never both. SQL outcomes carry a human-readable explanation.
type Outcome struct {
	SQL         string
	Explanation string
	Table       *Tabular
}

// IsIntentBased reports whether the outcome carries a materialized table
// rather than SQL to execute.
func (o *Outcome) IsIntentBased() bool {
	return o != nil && o.Table != nil
}

// sqlOutcome builds a SQL-based outcome.
func sqlOutcome(sql, explanation string) *Outcome {
	return &Outcome{SQL: sql, Explanation: explanation}
}

// tableOutcome builds an intent-based outcome, marking the table as such.
func tableOutcome(table *Tabular, explanation string) *Outcome {
	table.IntentBased = true
	return &Outcome{Table: table, Explanation: explanation}
}
