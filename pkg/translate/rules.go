package translate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// FinancialRules is the ordered list of domain-specific detectors for common
// financial questions. Order is significant: specific phrasings ("most
// unpaid") are checked before general ones ("total amount") so a general
// detector cannot steal a specific intent. The first matching detector wins;
// a detector that fails to build is logged and treated as a non-match.
type FinancialRules struct {
	clauses *ClauseBuilder
	logger  *zap.Logger
}

// NewFinancialRules creates the rule-based parser.
func NewFinancialRules(clauses *ClauseBuilder, logger *zap.Logger) *FinancialRules {
	return &FinancialRules{clauses: clauses, logger: logger.Named("financial-rules")}
}

// detector pairs a predicate over the lowercased question with a SQL builder.
type detector struct {
	name  string
	match func(lower string) bool
	build func(lower string) (*Outcome, error)
}

var (
	topNPattern    = regexp.MustCompile(`(?:top|highest|largest) ([0-9]+)`)
	recentNPattern = regexp.MustCompile(`(?:last|recent|latest) ([0-9]+)`)
)

// Parse runs the detectors in order and returns the first outcome.
func (f *FinancialRules) Parse(text string) (*Outcome, error) {
	lower := strings.ToLower(text)

	for _, d := range f.detectors() {
		if !d.match(lower) {
			continue
		}
		outcome, err := d.build(lower)
		if err != nil {
			f.logger.Warn("Financial rule failed to build, treating as non-match",
				zap.String("rule", d.name), zap.Error(err))
			continue
		}
		if outcome != nil {
			return outcome, nil
		}
	}

	return nil, nil
}

func (f *FinancialRules) detectors() []detector {
	return []detector{
		{
			name: "unpaid-vendors",
			match: func(lower string) bool {
				return containsAny(lower, []string{
					"unpaid vendors", "vendors not paid", "which vendors haven't been paid",
				})
			},
			build: func(lower string) (*Outcome, error) {
				where := " WHERE check_number = ''"
				if period := f.clauses.ExtractPeriod(lower, "invoices"); period != nil {
					where += " AND " + period.Clause
				}
				sql := "SELECT DISTINCT vendor FROM invoices" + where + " ORDER BY vendor"
				return sqlOutcome(sql, "I'm showing vendors who have unpaid invoices for the specified time period."), nil
			},
		},
		{
			name: "invoices-over-amount",
			match: func(lower string) bool {
				return containsAny(lower, []string{
					"invoices over", "bills over", "invoices more than", "invoices greater than",
				})
			},
			build: func(lower string) (*Outcome, error) {
				amount, ok := f.clauses.ExtractAmount(lower)
				if !ok {
					return nil, nil
				}
				sql := fmt.Sprintf("SELECT * FROM invoices WHERE amount > %s ORDER BY amount DESC", formatAmount(amount))
				explanation := fmt.Sprintf("I'm showing invoices with amounts greater than $%.2f.", amount)
				return sqlOutcome(sql, explanation), nil
			},
		},
		{
			name: "most-unpaid-by-vendor",
			match: func(lower string) bool {
				return containsAny(lower, []string{
					"most unpaid", "highest number of unpaid", "who has the most unpaid",
				})
			},
			build: func(lower string) (*Outcome, error) {
				sql := "SELECT vendor, COUNT(*) AS unpaid_count FROM invoices WHERE check_number = '' GROUP BY vendor ORDER BY unpaid_count DESC"
				return sqlOutcome(sql, "I'm showing vendors ranked by the number of unpaid invoices they have."), nil
			},
		},
		{
			name: "total-spend-grouped",
			match: func(lower string) bool {
				return strings.Contains(lower, "total spend") || strings.Contains(lower, "total amount")
			},
			build: func(lower string) (*Outcome, error) {
				groupBy := "vendor"
				if strings.Contains(lower, "category") {
					groupBy = "category"
				} else if strings.Contains(lower, "fund") {
					groupBy = "fund_paid_by"
				}

				where := ""
				if period := f.clauses.ExtractPeriod(lower, "invoices"); period != nil {
					where = " WHERE " + period.Clause
				}

				sql := fmt.Sprintf(
					"SELECT %s, SUM(amount) AS total_spend FROM invoices%s GROUP BY %s ORDER BY total_spend DESC",
					groupBy, where, groupBy,
				)
				explanation := fmt.Sprintf("I'm showing total spend grouped by %s.", strings.ReplaceAll(groupBy, "_", " "))
				return sqlOutcome(sql, explanation), nil
			},
		},
		{
			name: "largest-invoices",
			match: func(lower string) bool {
				return containsAny(lower, []string{
					"largest invoice", "biggest invoice", "highest amount", "largest payment",
				})
			},
			build: func(lower string) (*Outcome, error) {
				limit := capturedLimit(topNPattern, lower, 1)
				sql := fmt.Sprintf("SELECT * FROM invoices ORDER BY amount DESC LIMIT %d", limit)
				explanation := fmt.Sprintf("I'm showing the %d largest invoice(s) by amount.", limit)
				return sqlOutcome(sql, explanation), nil
			},
		},
		{
			name: "recent-invoices",
			match: func(lower string) bool {
				return containsAny(lower, []string{
					"recent invoice", "latest invoice", "newest invoice", "last invoice",
				})
			},
			build: func(lower string) (*Outcome, error) {
				limit := capturedLimit(recentNPattern, lower, 5)
				sql := fmt.Sprintf("SELECT * FROM invoices ORDER BY invoice_date DESC LIMIT %d", limit)
				explanation := fmt.Sprintf("I'm showing the %d most recent invoice(s).", limit)
				return sqlOutcome(sql, explanation), nil
			},
		},
		{
			name: "overdue-invoices",
			match: func(lower string) bool {
				return strings.Contains(lower, "overdue")
			},
			build: func(lower string) (*Outcome, error) {
				sql := "SELECT * FROM invoices WHERE days_overdue > 0 ORDER BY days_overdue DESC"
				return sqlOutcome(sql, "I'm showing overdue invoices, ordered by the most overdue first."), nil
			},
		},
		{
			// "inactive" must come before "active" because it contains it.
			name: "inactive-records",
			match: func(lower string) bool {
				return strings.Contains(lower, "inactive")
			},
			build: func(lower string) (*Outcome, error) {
				table := activeStatusTable(lower)
				sql := fmt.Sprintf("SELECT * FROM %s WHERE is_active = FALSE", table)
				explanation := fmt.Sprintf("I'm showing inactive records from the %s table.", table)
				return sqlOutcome(sql, explanation), nil
			},
		},
		{
			name: "active-records",
			match: func(lower string) bool {
				return strings.Contains(lower, "active")
			},
			build: func(lower string) (*Outcome, error) {
				table := activeStatusTable(lower)
				sql := fmt.Sprintf("SELECT * FROM %s WHERE is_active = TRUE", table)
				explanation := fmt.Sprintf("I'm showing active records from the %s table.", table)
				return sqlOutcome(sql, explanation), nil
			},
		},
		{
			name: "top-vendors-by-spend",
			match: func(lower string) bool {
				return containsAny(lower, []string{
					"top vendors", "biggest vendors", "highest spending vendors",
				})
			},
			build: func(lower string) (*Outcome, error) {
				limit := capturedLimit(topNPattern, lower, 5)
				sql := fmt.Sprintf(
					"SELECT vendor, SUM(amount) AS total_amount FROM invoices GROUP BY vendor ORDER BY total_amount DESC LIMIT %d",
					limit,
				)
				explanation := fmt.Sprintf("I'm showing the top %d vendors by total invoice amount.", limit)
				return sqlOutcome(sql, explanation), nil
			},
		},
		{
			// Before the generic payment summary, which its phrases contain.
			name: "payment-summary-by-vendor",
			match: func(lower string) bool {
				return containsAny(lower, []string{
					"payment summary by vendor", "which vendors are paid",
				})
			},
			build: func(lower string) (*Outcome, error) {
				sql := "SELECT vendor, " +
					"SUM(CASE WHEN check_number = '' THEN 0 ELSE amount END) AS paid_amount, " +
					"SUM(CASE WHEN check_number = '' THEN amount ELSE 0 END) AS unpaid_amount, " +
					"COUNT(CASE WHEN check_number = '' THEN NULL ELSE 1 END) AS paid_count, " +
					"COUNT(CASE WHEN check_number = '' THEN 1 ELSE NULL END) AS unpaid_count " +
					"FROM invoices GROUP BY vendor ORDER BY SUM(amount) DESC"
				return sqlOutcome(sql, "I'm showing a payment summary for each vendor, with paid and unpaid amounts."), nil
			},
		},
		{
			name: "paid-vs-unpaid-summary",
			match: func(lower string) bool {
				return containsAny(lower, []string{
					"payment summary", "payment status", "paid vs unpaid",
				})
			},
			build: func(lower string) (*Outcome, error) {
				sql := "SELECT CASE WHEN check_number = '' THEN 'Unpaid' ELSE 'Paid' END AS payment_status, " +
					"COUNT(*) AS invoice_count, SUM(amount) AS total_amount " +
					"FROM invoices " +
					"GROUP BY CASE WHEN check_number = '' THEN 'Unpaid' ELSE 'Paid' END"
				return sqlOutcome(sql, "I'm showing a summary of paid versus unpaid invoices."), nil
			},
		},
	}
}

// activeStatusTable picks which table an active/inactive question refers to.
func activeStatusTable(lower string) string {
	if strings.Contains(lower, "vendor") {
		return "vendors"
	}
	return "employees"
}

// capturedLimit extracts a top-N/last-N number from the question, falling
// back to def when none is present.
func capturedLimit(re *regexp.Regexp, lower string, def int) int {
	m := re.FindStringSubmatch(lower)
	if m == nil {
		return def
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return def
	}
	return n
}

// formatAmount renders an extracted amount as a SQL numeric literal,
// dropping a trailing .00 for whole amounts.
func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return strconv.FormatInt(int64(amount), 10)
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
