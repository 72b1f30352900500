package query

import (
	"strings"
)

// Record is one row of the dataset, keyed by column name.
// Columns absent from the map read as the empty string.
type Record map[string]string

// TokenType represents the type of a token
type TokenType int

const (
	TokenGroupOpen  TokenType = iota // (
	TokenGroupClose                  // )
	TokenAnd
	TokenOr
	TokenNot
	TokenTerm
)

var tokenNames = [...]string{
	TokenGroupOpen:  "(",
	TokenGroupClose: ")",
	TokenAnd:        "AND",
	TokenOr:         "OR",
	TokenNot:        "NOT",
	TokenTerm:       "TERM",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// Token represents a lexical token of a search query
type Token struct {
	Type  TokenType
	Value string
}

// Node is a parsed predicate tree: one of *Atom, *AllOf or *AnyOf.
type Node interface {
	String() string
	node()
}

// Atom tests a single term against the configured columns.
type Atom struct {
	Term    string
	Negated bool
}

// AllOf is a conjunction of its children.
type AllOf struct {
	Children []Node
}

// AnyOf is a disjunction of its children.
type AnyOf struct {
	Children []Node
}

func (*Atom) node()  {}
func (*AllOf) node() {}
func (*AnyOf) node() {}

func (a *Atom) String() string {
	term := a.Term
	if strings.ContainsAny(term, " \t\r\n()") {
		term = `"` + term + `"`
	}
	if a.Negated {
		return "NOT " + term
	}
	return term
}

func (a *AllOf) String() string {
	return joinNodes("AND", a.Children)
}

func (a *AnyOf) String() string {
	return joinNodes("OR", a.Children)
}

func joinNodes(op string, children []Node) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(op)
	for _, c := range children {
		b.WriteString(" ")
		b.WriteString(c.String())
	}
	b.WriteString(")")
	return b.String()
}

// SearchType selects how a term is matched against a column value.
type SearchType string

const (
	SearchExact      SearchType = "exact"
	SearchStartsWith SearchType = "starts_with"
	SearchEndsWith   SearchType = "ends_with"
	SearchPartial    SearchType = "partial"
)

// ParseSearchType validates a search type name. The empty string means partial.
func ParseSearchType(s string) (SearchType, error) {
	switch t := SearchType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return SearchPartial, nil
	case SearchExact, SearchStartsWith, SearchEndsWith, SearchPartial:
		return t, nil
	default:
		return "", invalidConfig("unknown search type %q", s)
	}
}

// MatchSpec configures how atoms are compiled.
// UseFuzzy only has an effect for SearchPartial.
type MatchSpec struct {
	SearchType SearchType
	Columns    []string
	UseFuzzy   bool
}

// SortKey names the column a result is ordered by.
type SortKey string

const (
	SortByID    SortKey = "id"
	SortByGroup SortKey = "group"
)

// Schema maps the dataset's roles onto concrete column names.
type Schema struct {
	IDColumn     string
	GroupColumn  string
	DedupColumn  string
	SourceColumn string
}

// DefaultSchema is the column layout of the code-list dataset.
var DefaultSchema = Schema{
	IDColumn:     "Med_Code_ID",
	GroupColumn:  "Codelist_Name",
	DedupColumn:  "SNOMED_CT_Concept_ID",
	SourceColumn: "Source_Codelist",
}

// DefaultColumns are searched when a request names no columns.
var DefaultColumns = []string{"Description", "Codelist_Name"}

// DefaultPageSize is used when paging is requested without a size.
const DefaultPageSize = 20

// SortColumn resolves a sort key to a column name. The empty key sorts by ID.
func (s Schema) SortColumn(key SortKey) (string, error) {
	switch key {
	case "", SortByID:
		return s.IDColumn, nil
	case SortByGroup:
		return s.GroupColumn, nil
	default:
		return "", invalidConfig("unknown sort key %q", string(key))
	}
}

// Page is a 1-based page window.
type Page struct {
	Number int
	Size   int
}

// SearchRequest is one search against the dataset.
type SearchRequest struct {
	Query    string
	Match    MatchSpec
	Sort     SortKey
	DedupKey string
	Page     *Page
}

// SearchResult holds the rows of one search.
// TotalCount is taken after deduplication and before paging.
type SearchResult struct {
	Rows       []Record `json:"rows"`
	TotalCount int      `json:"total_count"`
}
