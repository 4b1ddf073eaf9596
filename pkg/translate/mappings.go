package translate

// synonym is one ordered phrase → identifier pair. Slices of synonyms are
// scanned front to back, so earlier entries win when several keys appear in
// the same phrase.
type synonym struct {
	Key   string
	Value string
}

// Mappings is the immutable synonym configuration consumed by the entity
// resolver and clause builder. Construct it once with DefaultMappings (or a
// test-specific alternative) and pass it in explicitly; nothing mutates it
// after construction.
type Mappings struct {
	// Direct noun → table synonyms, tried before any fuzzy matching.
	TableSynonyms []synonym
	// Financial-domain noun → table synonyms, tried after fuzzy matching.
	DomainSynonyms []synonym
	// Single context keywords that hint at a default table.
	ContextClues []synonym
	// Per-table phrase → column synonyms.
	ColumnSynonyms map[string][]synonym
	// Per-table date column used when rendering time filters. Tables absent
	// from this map fall back to their identifier column, which disables
	// meaningful date filtering for them.
	DateColumns []synonym
	// Tables whose active/inactive status is an is_active boolean.
	ActiveStatusTables []string
}

// DefaultMappings returns the canonical financial-domain synonym tables.
func DefaultMappings() *Mappings {
	return &Mappings{
		TableSynonyms: []synonym{
			{"deal allocations", "deal_allocations"},
			{"deal allocation", "deal_allocations"},
			{"vendors", "vendors"},
			{"vendor", "vendors"},
			{"invoices", "invoices"},
			{"invoice", "invoices"},
			{"funds", "funds"},
			{"fund", "funds"},
			{"employees", "employees"},
			{"employee", "employees"},
		},
		DomainSynonyms: []synonym{
			{"expenses", "expenses"},
			{"expense", "expenses"},
			{"costs", "expenses"},
			{"bills", "invoices"},
			{"payments", "invoices"},
			{"transactions", "invoices"},
			{"clients", "vendors"},
			{"customers", "vendors"},
			{"suppliers", "vendors"},
			{"sales", "revenue"},
			{"revenue", "revenue"},
			{"income", "revenue"},
			{"staff", "employees"},
			{"personnel", "employees"},
			{"team", "employees"},
			{"investments", "deal_allocations"},
			{"investment", "deal_allocations"},
			{"deals", "deal_allocations"},
			{"projects", "deal_allocations"},
			{"allocations", "deal_allocations"},
		},
		ContextClues: []synonym{
			{"amount", "invoices"},
			{"paid", "invoices"},
			{"check", "invoices"},
			{"date", "invoices"},
			{"total", "invoices"},
			{"due", "invoices"},
			{"name", "vendors"},
			{"contact", "vendors"},
			{"email", "vendors"},
			{"address", "vendors"},
			{"company", "vendors"},
			{"fund", "funds"},
			{"salary", "employees"},
			{"hire", "employees"},
			{"manager", "employees"},
			{"project", "deal_allocations"},
			{"deal", "deal_allocations"},
			{"invest", "deal_allocations"},
		},
		ColumnSynonyms: map[string][]synonym{
			"expenses": {
				{"amount", "amount"},
				{"total", "amount"},
				{"cost", "amount"},
				{"money", "amount"},
				{"price", "amount"},
				{"expense", "amount"},
				{"date", "expense_date"},
				{"when", "expense_date"},
				{"category", "category"},
				{"type", "category"},
				{"description", "description"},
				{"details", "description"},
				{"notes", "description"},
				{"vendor", "vendor"},
				{"supplier", "vendor"},
				{"company", "vendor"},
				{"who", "vendor"},
			},
			"invoices": {
				{"invoice number", "invoice_number"},
				{"invoice date", "invoice_date"},
				{"due date", "due_date"},
				{"past due", "days_overdue"},
				{"amount", "amount"},
				{"total", "amount"},
				{"cost", "amount"},
				{"money", "amount"},
				{"price", "amount"},
				{"invoice", "invoice_number"},
				{"number", "invoice_number"},
				{"date", "invoice_date"},
				{"deadline", "due_date"},
				{"fund", "fund_paid_by"},
				{"client", "vendor"},
				{"customer", "vendor"},
				{"vendor", "vendor"},
				{"supplier", "vendor"},
				{"company", "vendor"},
				{"overdue", "days_overdue"},
				{"late", "days_overdue"},
				{"check", "check_number"},
				{"payment", "check_number"},
			},
			"vendors": {
				{"name", "name"},
				{"vendor", "name"},
				{"supplier", "name"},
				{"company", "name"},
				{"contact", "contact"},
				{"person", "contact"},
				{"phone", "phone"},
				{"telephone", "phone"},
				{"number", "phone"},
				{"email", "email"},
				{"mail", "email"},
				{"address", "address"},
				{"location", "address"},
			},
			"revenue": {
				{"amount", "amount"},
				{"total", "amount"},
				{"revenue", "amount"},
				{"income", "amount"},
				{"money", "amount"},
				{"date", "revenue_date"},
				{"when", "revenue_date"},
				{"category", "category"},
				{"type", "category"},
				{"description", "description"},
				{"details", "description"},
				{"notes", "description"},
				{"client", "client"},
				{"customer", "client"},
				{"company", "client"},
				{"who", "client"},
			},
			"employees": {
				{"name", "name"},
				{"salary", "salary"},
				{"pay", "salary"},
				{"hire", "hire_date"},
				{"date", "hire_date"},
				{"manager", "manager"},
			},
		},
		DateColumns: []synonym{
			{"invoices", "invoice_date"},
			{"expenses", "expense_date"},
			{"revenue", "revenue_date"},
			{"employees", "hire_date"},
			{"deal_allocations", "allocation_date"},
		},
		ActiveStatusTables: []string{"vendors", "employees"},
	}
}

// DateColumn returns the date column used for time filters on the table,
// falling back to the identifier column for tables without one.
func (m *Mappings) DateColumn(table string) string {
	for _, s := range m.DateColumns {
		if s.Key == table {
			return s.Value
		}
	}
	return "id"
}

// HasActiveStatus reports whether the table carries an is_active flag.
func (m *Mappings) HasActiveStatus(table string) bool {
	for _, t := range m.ActiveStatusTables {
		if t == table {
			return true
		}
	}
	return false
}
