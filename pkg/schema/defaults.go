package schema

import "go.uber.org/zap"

// DefaultRegistry returns a registry seeded with the canonical financial
// schema. It is used when no schema cache has been persisted yet so the
// engine can answer questions before any discovery run.
func DefaultRegistry(path string, logger *zap.Logger) *Registry {
	r := NewRegistry(path, logger)

	r.SetTable("invoices", []Column{
		{Name: "id", Type: "integer"},
		{Name: "invoice_number", Type: "text"},
		{Name: "vendor", Type: "text"},
		{Name: "vendor_id", Type: "integer"},
		{Name: "amount", Type: "numeric"},
		{Name: "invoice_date", Type: "date"},
		{Name: "due_date", Type: "date"},
		{Name: "days_overdue", Type: "integer"},
		{Name: "check_number", Type: "text"},
		{Name: "category", Type: "text"},
		{Name: "fund_paid_by", Type: "text"},
		{Name: "fund_id", Type: "integer"},
	})
	r.SetTable("vendors", []Column{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "text"},
		{Name: "contact", Type: "text"},
		{Name: "phone", Type: "text"},
		{Name: "email", Type: "text"},
		{Name: "address", Type: "text"},
		{Name: "is_active", Type: "boolean"},
	})
	r.SetTable("employees", []Column{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "text"},
		{Name: "salary", Type: "numeric"},
		{Name: "hire_date", Type: "date"},
		{Name: "manager", Type: "text"},
		{Name: "is_active", Type: "boolean"},
	})
	r.SetTable("expenses", []Column{
		{Name: "id", Type: "integer"},
		{Name: "amount", Type: "numeric"},
		{Name: "expense_date", Type: "date"},
		{Name: "category", Type: "text"},
		{Name: "description", Type: "text"},
		{Name: "vendor", Type: "text"},
	})
	r.SetTable("revenue", []Column{
		{Name: "id", Type: "integer"},
		{Name: "amount", Type: "numeric"},
		{Name: "revenue_date", Type: "date"},
		{Name: "category", Type: "text"},
		{Name: "description", Type: "text"},
		{Name: "client", Type: "text"},
	})
	r.SetTable("funds", []Column{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "text"},
		{Name: "balance", Type: "numeric"},
	})
	r.SetTable("deal_allocations", []Column{
		{Name: "id", Type: "integer"},
		{Name: "deal", Type: "text"},
		{Name: "fund_id", Type: "integer"},
		{Name: "amount", Type: "numeric"},
		{Name: "allocation_date", Type: "date"},
	})

	r.AddRelationship(Relationship{
		ParentTable: "vendors", ParentColumn: "id",
		ChildTable: "invoices", ChildColumn: "vendor_id",
		Cardinality: "one-to-many",
	})
	r.AddRelationship(Relationship{
		ParentTable: "funds", ParentColumn: "id",
		ChildTable: "invoices", ChildColumn: "fund_id",
		Cardinality: "one-to-many",
	})
	r.AddRelationship(Relationship{
		ParentTable: "funds", ParentColumn: "id",
		ChildTable: "deal_allocations", ChildColumn: "fund_id",
		Cardinality: "one-to-many",
	})

	return r
}
