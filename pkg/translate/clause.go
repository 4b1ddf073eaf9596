package translate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/finsight-io/finsight-engine/pkg/sqlguard"
)

// FragmentKind classifies a rendered filter fragment.
type FragmentKind int

const (
	KindTime FragmentKind = iota
	KindAmount
	KindStatus
)

// Fragment is a rendered boolean/comparison clause extracted from natural
// phrasing, without the leading WHERE/AND keyword.
type Fragment struct {
	Kind   FragmentKind
	Clause string
}

// ClauseBuilder extracts time periods, amounts, and status keywords from
// text and renders them into SQL filter fragments against the canonical
// schema. The clock is injectable so relative periods are testable.
type ClauseBuilder struct {
	maps *Mappings
	now  func() time.Time
}

// NewClauseBuilder creates a builder over the given mappings using the
// system clock.
func NewClauseBuilder(maps *Mappings) *ClauseBuilder {
	return &ClauseBuilder{maps: maps, now: time.Now}
}

// NewClauseBuilderAt creates a builder with a fixed clock.
func NewClauseBuilderAt(maps *Mappings, now func() time.Time) *ClauseBuilder {
	return &ClauseBuilder{maps: maps, now: now}
}

var (
	monthNamePattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\b`)
	yearPattern      = regexp.MustCompile(`\b(20\d{2})\b`)

	amountCurrency   = regexp.MustCompile(`(?i)\$\s*([0-9][0-9,]*\.?[0-9]*)\s*(k|m|thousand|million)?`)
	amountSuffixed   = regexp.MustCompile(`(?i)\b([0-9][0-9,]*\.?[0-9]*)\s*(k|m|thousand|million|dollars|usd)\b`)
	amountComparison = regexp.MustCompile(`(?i)\b(?:over|above|more than|greater than|exceeding|at least)\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)\s*(k|m|thousand|million)?`)

	amountGreater = regexp.MustCompile(`(?:greater than|over|more than|above|>)\s*\$?([0-9][0-9,]*\.?[0-9]*)`)
	amountLess    = regexp.MustCompile(`(?:less than|under|below|<)\s*\$?([0-9][0-9,]*\.?[0-9]*)`)

	vendorFilterPattern   = regexp.MustCompile(`(?i)from\s+(?:vendor|supplier)?s?\s*([a-z0-9][a-z0-9\s&.\-]*)`)
	categoryFilterPattern = regexp.MustCompile(`(?i)(?:category|type)\s+([a-z0-9][a-z0-9\s&.\-]*)`)
)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ExtractPeriod extracts a time-period filter from text, rendered against
// the table's date column. Priority: relative phrases, then a named month,
// then a quarter keyword, then an explicit 4-digit year. Returns nil when no
// period is found.
func (b *ClauseBuilder) ExtractPeriod(text, table string) *Fragment {
	lower := strings.ToLower(text)
	col := b.maps.DateColumn(table)

	if clause, ok := b.relativePeriod(lower, col); ok {
		return &Fragment{Kind: KindTime, Clause: clause}
	}

	if m := monthNamePattern.FindStringSubmatch(lower); m != nil {
		month := monthNumbers[m[1]]
		return &Fragment{Kind: KindTime, Clause: monthEquals(col, month)}
	}

	if from, to, ok := quarterRange(lower); ok {
		return &Fragment{
			Kind:   KindTime,
			Clause: fmt.Sprintf("EXTRACT(MONTH FROM %s) BETWEEN %d AND %d", col, from, to),
		}
	}

	if m := yearPattern.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		return &Fragment{Kind: KindTime, Clause: yearEquals(col, year)}
	}

	return nil
}

// relativePeriod renders "this month" style phrases using the injected
// clock. "Last month" in January resolves to December of the previous year.
func (b *ClauseBuilder) relativePeriod(lower, col string) (string, bool) {
	now := b.now()

	switch {
	case strings.Contains(lower, "this month"):
		return monthEquals(col, int(now.Month())) + " AND " + yearEquals(col, now.Year()), true
	case strings.Contains(lower, "last month"):
		month := int(now.Month()) - 1
		year := now.Year()
		if month == 0 {
			month = 12
			year--
		}
		return monthEquals(col, month) + " AND " + yearEquals(col, year), true
	case strings.Contains(lower, "this year"), strings.Contains(lower, "year to date"), strings.Contains(lower, "ytd"):
		return yearEquals(col, now.Year()), true
	case strings.Contains(lower, "last year"):
		return yearEquals(col, now.Year()-1), true
	}
	return "", false
}

func monthEquals(col string, month int) string {
	return fmt.Sprintf("EXTRACT(MONTH FROM %s) = %d", col, month)
}

func yearEquals(col string, year int) string {
	return fmt.Sprintf("EXTRACT(YEAR FROM %s) = %d", col, year)
}

// quarterRange maps quarter keywords to month ranges.
func quarterRange(lower string) (int, int, bool) {
	switch {
	case strings.Contains(lower, "q1"), strings.Contains(lower, "first quarter"):
		return 1, 3, true
	case strings.Contains(lower, "q2"), strings.Contains(lower, "second quarter"):
		return 4, 6, true
	case strings.Contains(lower, "q3"), strings.Contains(lower, "third quarter"):
		return 7, 9, true
	case strings.Contains(lower, "q4"), strings.Contains(lower, "fourth quarter"):
		return 10, 12, true
	}
	return 0, 0, false
}

// ExtractAmount extracts a monetary amount from text. It tries the "$N[kM]"
// form, then "N thousand/million/dollars", then a comparison phrase
// ("over 5000"). Commas are stripped before parsing. The second return value
// is false when no amount is present.
func (b *ClauseBuilder) ExtractAmount(text string) (float64, bool) {
	for _, re := range []*regexp.Regexp{amountCurrency, amountSuffixed, amountComparison} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return amount * suffixMultiplier(m[2]), true
	}
	return 0, false
}

// suffixMultiplier maps a magnitude suffix to its multiplier.
func suffixMultiplier(suffix string) float64 {
	switch strings.ToLower(suffix) {
	case "k", "thousand":
		return 1_000
	case "m", "million":
		return 1_000_000
	default:
		return 1
	}
}

// ExtractStatus extracts a status filter for the table from text. Personnel
// and vendor tables understand active/inactive; invoices understand
// unpaid/paid/overdue. The longer keywords are checked first because
// "inactive" contains "active" and "unpaid" contains "paid".
func (b *ClauseBuilder) ExtractStatus(text, table string) *Fragment {
	lower := strings.ToLower(text)

	if b.maps.HasActiveStatus(table) {
		if strings.Contains(lower, "inactive") {
			return &Fragment{Kind: KindStatus, Clause: "is_active = FALSE"}
		}
		if strings.Contains(lower, "active") {
			return &Fragment{Kind: KindStatus, Clause: "is_active = TRUE"}
		}
	}

	if table == "invoices" {
		switch {
		case strings.Contains(lower, "unpaid"), strings.Contains(lower, "pending"):
			return &Fragment{Kind: KindStatus, Clause: "check_number = ''"}
		case strings.Contains(lower, "overdue"):
			return &Fragment{Kind: KindStatus, Clause: "days_overdue > 0"}
		case strings.Contains(lower, "paid"):
			return &Fragment{Kind: KindStatus, Clause: "check_number <> ''"}
		}
	}

	return nil
}

// BuildWhere renders a WHERE clause from a captured filter fragment. The
// status lookup also consults the full original question because status
// words often appear outside the matched filter group ("show all unpaid
// invoices from March"). Returns "" when nothing applies, and an error when
// a user-derived value fails the injection screen.
func (b *ClauseBuilder) BuildWhere(filterText, fullText, table string) (string, error) {
	filter := strings.TrimSpace(strings.ToLower(filterText))

	if status := b.ExtractStatus(fullText, table); status != nil {
		if filter == "" {
			return "WHERE " + status.Clause, nil
		}
		if period := b.ExtractPeriod(filter, table); period != nil {
			return "WHERE " + status.Clause + " AND " + period.Clause, nil
		}
		return "WHERE " + status.Clause, nil
	}

	if filter == "" {
		return "", nil
	}

	if period := b.ExtractPeriod(filter, table); period != nil {
		return "WHERE " + period.Clause, nil
	}

	if m := amountGreater.FindStringSubmatch(filter); m != nil {
		return "WHERE amount > " + strings.ReplaceAll(m[1], ",", ""), nil
	}
	if m := amountLess.FindStringSubmatch(filter); m != nil {
		return "WHERE amount < " + strings.ReplaceAll(m[1], ",", ""), nil
	}

	if m := vendorFilterPattern.FindStringSubmatch(filterText); m != nil {
		clause, err := likeClause("vendor", m[1])
		if err != nil || clause != "" {
			return clause, err
		}
	}

	if table == "expenses" || table == "revenue" {
		if m := categoryFilterPattern.FindStringSubmatch(filterText); m != nil {
			clause, err := likeClause("category", m[1])
			if err != nil || clause != "" {
				return clause, err
			}
		}
	}

	return "", nil
}

// likeClause renders a LIKE filter for a user-supplied name, screening it
// for injection patterns and quoting it before embedding.
func likeClause(column, value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", nil
	}
	if err := sqlguard.ScreenValue(column, name); err != nil {
		return "", err
	}
	return fmt.Sprintf("WHERE %s LIKE '%%%s%%'", column, sqlguard.QuoteLiteral(name)), nil
}
