// Package query implements boolean free-text search over code-list records.
//
// A query is a string of terms, quoted phrases, parenthesised groups and the
// operators AND, OR and NOT (case-insensitive):
//
//	asthma                          records mentioning asthma
//	"acute bronchitis"              the phrase, whitespace included
//	bronchitis chronic              both terms (adjacent slots are ANDed)
//	asthma OR bronchitis            either term
//	(asthma OR bronchitis) AND NOT chronic
//
// OR binds tighter than AND, so "a b OR c" requires a and one of b or c.
// NOT negates the term or group that follows it.
//
// # Pipeline
//
// Tokenize splits the input, Parse builds a tree of *Atom, *AllOf and *AnyOf
// nodes, and Compile turns the tree into a Predicate for a MatchSpec:
//
//	tree, err := query.ParseString(`(asthma OR bronchitis) AND NOT chronic`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := query.Compile(tree, query.MatchSpec{
//	    SearchType: query.SearchPartial,
//	    Columns:    []string{"Description"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := query.Execute(records, pred, query.ExecOptions{SortColumn: "Med_Code_ID"})
//
// Search runs the whole pipeline for a SearchRequest.
//
// # Match types
//
// All comparisons are case-insensitive:
//   - exact: the column value equals the term
//   - starts_with, ends_with: prefix or suffix match
//   - partial: substring match; with fuzzy enabled the last rune of the
//     term may be missing, wrong or followed by one extra rune
//
// An atom matches when any configured column matches.
//
// # Errors
//
// An unmatched ")" fails with a *ParseError (errors.Is(err, ErrParse)).
// A "(" left open is closed at the end of the input. An empty column list,
// unknown search type or sort key, or a page below 1 fails with
// ErrInvalidConfiguration. An empty query is not an error and matches
// every record.
package query
