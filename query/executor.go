package query

// ExecOptions controls the stages after filtering.
type ExecOptions struct {
	SortColumn string
	DedupKey   string
	Page       *Page
}

// Execute filters, sorts, deduplicates and pages records.
// The input slice is never modified.
func Execute(records []Record, pred Predicate, opts ExecOptions) SearchResult {
	rows := ApplyFilter(records, pred)
	return Arrange(rows, opts)
}

// Arrange runs the post-filter stages on rows that have already been filtered.
func Arrange(rows []Record, opts ExecOptions) SearchResult {
	rows = ApplyOrderBy(rows, opts.SortColumn)
	rows = ApplyDedup(rows, opts.DedupKey)
	total := len(rows)
	rows = ApplyPage(rows, opts.Page)
	if rows == nil {
		rows = []Record{}
	}
	return SearchResult{Rows: rows, TotalCount: total}
}

// ValidateRequest checks the sort key, page and match spec of a request and
// returns the options for the post-filter stages. The query text is not
// looked at.
func ValidateRequest(req SearchRequest, schema Schema) (ExecOptions, error) {
	sortColumn, err := schema.SortColumn(req.Sort)
	if err != nil {
		return ExecOptions{}, err
	}
	if req.Page != nil && (req.Page.Number < 1 || req.Page.Size < 1) {
		return ExecOptions{}, invalidConfig("page %d size %d", req.Page.Number, req.Page.Size)
	}
	if err := req.Match.Validate(); err != nil {
		return ExecOptions{}, err
	}
	return ExecOptions{SortColumn: sortColumn, DedupKey: req.DedupKey, Page: req.Page}, nil
}

// Prepare validates a request and compiles its query. It returns a nil
// predicate for a blank query.
func Prepare(req SearchRequest, schema Schema) (Predicate, ExecOptions, error) {
	opts, err := ValidateRequest(req, schema)
	if err != nil {
		return nil, opts, err
	}

	tree, err := ParseString(req.Query)
	if err != nil {
		return nil, opts, err
	}
	if tree == nil {
		return nil, opts, nil
	}
	pred, err := Compile(tree, req.Match)
	if err != nil {
		return nil, opts, err
	}
	return pred, opts, nil
}

// Search runs a request against an in-memory record set
func Search(records []Record, req SearchRequest, schema Schema) (SearchResult, error) {
	pred, opts, err := Prepare(req, schema)
	if err != nil {
		return SearchResult{}, err
	}
	return Execute(records, pred, opts), nil
}
