package sqlguard

import (
	"errors"
	"testing"

	"github.com/finsight-io/finsight-engine/pkg/apperrors"
)

func TestScreenValue(t *testing.T) {
	tests := []struct {
		name            string
		value           string
		expectInjection bool
	}{
		{
			name:            "clean vendor name",
			value:           "Acme Corp",
			expectInjection: false,
		},
		{
			name:            "name with ampersand",
			value:           "Smith & Sons",
			expectInjection: false,
		},
		{
			name:            "name with period",
			value:           "Acme Inc.",
			expectInjection: false,
		},
		{
			name:            "classic or injection",
			value:           "x' OR '1'='1",
			expectInjection: true,
		},
		{
			name:            "union select",
			value:           "a' UNION SELECT password FROM users --",
			expectInjection: true,
		},
		{
			name:            "stacked statement",
			value:           "x'; DROP TABLE invoices; --",
			expectInjection: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ScreenValue("vendor", tt.value)
			if tt.expectInjection {
				if err == nil {
					t.Fatalf("expected injection to be detected for %q", tt.value)
				}
				if !errors.Is(err, apperrors.ErrInjectionDetected) {
					t.Errorf("expected ErrInjectionDetected, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected clean value %q to pass, got %v", tt.value, err)
			}
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "Acme Corp"},
		{"O'Brien", "O''Brien"},
		{"it's a 'test'", "it''s a ''test''"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := QuoteLiteral(tt.in); got != tt.want {
			t.Errorf("QuoteLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateStatement(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr error
	}{
		{
			name: "single statement",
			sql:  "SELECT * FROM invoices WHERE amount > 100",
		},
		{
			name: "trailing semicolon allowed",
			sql:  "SELECT * FROM invoices;",
		},
		{
			name: "semicolon inside string literal",
			sql:  "SELECT * FROM invoices WHERE vendor LIKE '%a;b%'",
		},
		{
			name:    "stacked statements",
			sql:     "SELECT * FROM invoices; DROP TABLE invoices",
			wantErr: apperrors.ErrMultipleStatements,
		},
		{
			name:    "unresolved placeholder",
			sql:     "SELECT * FROM {table} WHERE amount > 100",
			wantErr: apperrors.ErrUnresolvedTemplate,
		},
		{
			name: "braces without closing are fine",
			sql:  "SELECT * FROM invoices WHERE note = '{'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatement(tt.sql)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
