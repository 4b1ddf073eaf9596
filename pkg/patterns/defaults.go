package patterns

// DefaultEntries returns the built-in seed patterns. They are matched against
// lowercased input, so the regexes are all lowercase. The filter keywords are
// boundary-anchored so nouns that merely start with one ("invoices",
// "income") stay in the subject group. Order matters: the
// catch-all "show" pattern only claims listing verbs, the aggregate patterns
// claim the "what is" questions, and the join pattern is last because its
// trigger words ("for", "with") appear in many unrelated questions.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Pattern:     `(?:show|list|get|display|what are)(?: the)? (?:all )?(?:of )?(?:my )?(.*?)(?:\b(?:from|in|during|between|after|before)\b ?(.*))?$`,
			SQLTemplate: "SELECT * FROM {table} {where_clause}",
			Example:     "Show all expenses from January",
			Description: "show all records from a table, optionally with a date filter",
		},
		{
			Pattern:     `(?:count|how many|total number of) (.*?) (?:are there|do i have|do we have|exists?|we have|are active|is active)(?:.*?(?:\b(?:from|in|during|between|after|before)\b)? ?(.*))?`,
			SQLTemplate: "SELECT COUNT(*) FROM {table} {where_clause}",
			Example:     "How many invoices do I have from last month",
			Description: "count records in a table, optionally with a filter",
		},
		{
			Pattern:     `(?:what is|what's|show|get|calculate) (?:the )?(?:total|sum of|sum)(?: the)? (.*?)(?:\b(?:from|in|during|between|after|before)\b ?(.*))?$`,
			SQLTemplate: "SELECT SUM({column}) FROM {table} {where_clause}",
			Example:     "What is the total revenue in March",
			Description: "sum a column, optionally with a filter",
		},
		{
			Pattern:     `(?:what is|what's|show|get|calculate) (?:the )?(?:average|avg|mean)(?: of)?(?: the)? (.*?)(?:\b(?:from|in|during|between|after|before)\b ?(.*))?$`,
			SQLTemplate: "SELECT AVG({column}) FROM {table} {where_clause}",
			Example:     "What is the average expense amount",
			Description: "calculate the average of a column, optionally with a filter",
		},
		{
			Pattern:     `(?:what is|what's|show|get|find) (?:the )?(?:largest|highest|maximum|max|biggest|most expensive)(?: of)?(?: the)? (.*?)(?:\b(?:from|in|during|between|after|before)\b ?(.*))?$`,
			SQLTemplate: "SELECT MAX({column}) FROM {table} {where_clause}",
			Example:     "What is the largest expense in February",
			Description: "find the maximum value in a column, optionally with a filter",
		},
		{
			Pattern:     `(?:what is|what's|show|get|find) (?:the )?(?:smallest|lowest|minimum|min|cheapest|least expensive)(?: of)?(?: the)? (.*?)(?:\b(?:from|in|during|between|after|before)\b ?(.*))?$`,
			SQLTemplate: "SELECT MIN({column}) FROM {table} {where_clause}",
			Example:     "What is the smallest payment received",
			Description: "find the minimum value in a column, optionally with a filter",
		},
		{
			Pattern:     `(?:show|display|get|list) (.*?) (?:for|related to|associated with|joined with|connected to) (.*?)(?: where| with| having)? ?(.*)?`,
			SQLTemplate: "SELECT * FROM {primary_table} JOIN {related_table} ON {join_condition} {where_clause}",
			Example:     "Show invoices for customer XYZ Corp",
			Description: "answer questions spanning multiple related tables",
		},
	}
}
