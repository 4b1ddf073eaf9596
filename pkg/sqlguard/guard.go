// Package sqlguard screens generated SQL and the free-text values embedded
// into it. Every SQL-producing strategy runs its finished statement through
// ValidateStatement, and any value captured from user text is screened with
// ScreenValue before it may appear inside a string literal.
package sqlguard

import (
	"fmt"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/finsight-io/finsight-engine/pkg/apperrors"
)

// ScreenValue checks a user-derived value for SQL injection patterns before
// it is embedded into a statement. Returns ErrInjectionDetected with the
// libinjection fingerprint when a pattern is found.
func ScreenValue(name, value string) error {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if isSQLi {
		return fmt.Errorf("%w: %s (fingerprint %s)", apperrors.ErrInjectionDetected, name, fingerprint)
	}
	return nil
}

// QuoteLiteral doubles single quotes so the value is safe to embed inside a
// SQL string literal. Callers must still run ScreenValue first.
func QuoteLiteral(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// ValidateStatement checks that a generated statement is a single SQL
// statement and contains no unresolved template placeholders.
func ValidateStatement(sqlQuery string) error {
	trimmed := strings.TrimSuffix(strings.TrimSpace(sqlQuery), ";")
	if hasSemicolonOutsideStrings(trimmed) {
		return apperrors.ErrMultipleStatements
	}
	if i := strings.IndexByte(trimmed, '{'); i >= 0 && strings.IndexByte(trimmed[i:], '}') > 0 {
		return apperrors.ErrUnresolvedTemplate
	}
	return nil
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// SQL standard doubled quote ('') exits and immediately re-enters,
			// which correctly keeps us inside the string.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}
