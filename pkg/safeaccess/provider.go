// Package safeaccess implements the translate.SafeAccess capability over a
// PostgreSQL pool. Every statement it runs names tables and columns from
// the schema registry with quoted identifiers, never from user text, which
// is what makes these reads safe for the intent router to call directly.
package safeaccess

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/apperrors"
	"github.com/finsight-io/finsight-engine/pkg/schema"
	"github.com/finsight-io/finsight-engine/pkg/translate"
)

// maxSafeRows bounds full-table safe reads.
const maxSafeRows = 500

// PGProvider is the PostgreSQL safe data-access provider.
type PGProvider struct {
	pool     *pgxpool.Pool
	registry *schema.Registry
	logger   *zap.Logger
}

// NewPGProvider creates a provider over an existing pool.
func NewPGProvider(pool *pgxpool.Pool, registry *schema.Registry, logger *zap.Logger) *PGProvider {
	return &PGProvider{
		pool:     pool,
		registry: registry,
		logger:   logger.Named("safe-access"),
	}
}

// InvoiceTotals returns the aggregate amount and count over all invoices.
func (p *PGProvider) InvoiceTotals(ctx context.Context) (*translate.InvoiceTotals, error) {
	var totals translate.InvoiceTotals
	row := p.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM invoices`)
	if err := row.Scan(&totals.TotalAmount, &totals.InvoiceCount); err != nil {
		return nil, fmt.Errorf("query invoice totals: %w", err)
	}
	return &totals, nil
}

// InvoiceRows returns all invoices, reading only the vetted column set.
func (p *PGProvider) InvoiceRows(ctx context.Context) (*translate.Tabular, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, invoice_number, vendor, amount, invoice_date, due_date, check_number
		 FROM invoices ORDER BY invoice_date DESC LIMIT $1`, maxSafeRows)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	return collectTabular(rows)
}

// VendorRows returns all vendors.
func (p *PGProvider) VendorRows(ctx context.Context) (*translate.Tabular, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, contact, phone, email, is_active FROM vendors ORDER BY name LIMIT $1`,
		maxSafeRows)
	if err != nil {
		return nil, fmt.Errorf("query vendors: %w", err)
	}
	return collectTabular(rows)
}

// TableRows returns all rows of a known table. The table must be registered;
// its identifier and every declared column are quoted before being placed in
// the statement.
func (p *PGProvider) TableRows(ctx context.Context, table string) (*translate.Tabular, error) {
	cols := p.registry.Columns(table)
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownTable, table)
	}

	selectList := ""
	for i, col := range cols {
		if i > 0 {
			selectList += ", "
		}
		selectList += pgx.Identifier{col.Name}.Sanitize()
	}

	query := fmt.Sprintf("SELECT %s FROM %s LIMIT %d",
		selectList, pgx.Identifier{table}.Sanitize(), maxSafeRows)

	p.logger.Debug("Safe table read", zap.String("table", table))

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", table, err)
	}
	return collectTabular(rows)
}

// collectTabular drains a result set into a Tabular.
func collectTabular(rows pgx.Rows) (*translate.Tabular, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var data [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &translate.Tabular{
		Columns:  columns,
		Rows:     data,
		RowCount: len(data),
	}, nil
}
