package query

import (
	"strings"
)

// Predicate reports whether a record satisfies a compiled query.
// Predicates hold no mutable state and are safe for concurrent use.
type Predicate func(r Record) bool

// Validate checks that the match settings can be compiled
func (s MatchSpec) Validate() error {
	if len(s.Columns) == 0 {
		return invalidConfig("no target columns")
	}
	for _, col := range s.Columns {
		if col == "" {
			return invalidConfig("empty column name")
		}
	}
	if _, err := ParseSearchType(string(s.SearchType)); err != nil {
		return err
	}
	return nil
}

// Compile turns a predicate tree into an executable predicate.
// A nil tree compiles to a predicate that accepts every record.
func Compile(tree Node, spec MatchSpec) (Predicate, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	searchType, _ := ParseSearchType(string(spec.SearchType))
	fuzzy := spec.UseFuzzy && searchType == SearchPartial
	columns := append([]string(nil), spec.Columns...)

	if tree == nil {
		return func(Record) bool { return true }, nil
	}
	return compileNode(tree, searchType, fuzzy, columns), nil
}

func compileNode(n Node, searchType SearchType, fuzzy bool, columns []string) Predicate {
	switch v := n.(type) {
	case *Atom:
		return compileAtom(v, searchType, fuzzy, columns)
	case *AllOf:
		children := compileChildren(v.Children, searchType, fuzzy, columns)
		return func(r Record) bool {
			for _, c := range children {
				if !c(r) {
					return false
				}
			}
			return true
		}
	case *AnyOf:
		children := compileChildren(v.Children, searchType, fuzzy, columns)
		return func(r Record) bool {
			for _, c := range children {
				if c(r) {
					return true
				}
			}
			return false
		}
	default:
		panic("query: unknown node type")
	}
}

func compileChildren(nodes []Node, searchType SearchType, fuzzy bool, columns []string) []Predicate {
	out := make([]Predicate, len(nodes))
	for i, n := range nodes {
		out[i] = compileNode(n, searchType, fuzzy, columns)
	}
	return out
}

func compileAtom(a *Atom, searchType SearchType, fuzzy bool, columns []string) Predicate {
	match := termMatcher(strings.ToLower(a.Term), searchType, fuzzy)
	negated := a.Negated
	return func(r Record) bool {
		hit := false
		for _, col := range columns {
			if match(strings.ToLower(r[col])) {
				hit = true
				break
			}
		}
		return hit != negated
	}
}

// termMatcher returns a test of a lower-cased column value against a
// lower-cased term
func termMatcher(term string, searchType SearchType, fuzzy bool) func(value string) bool {
	switch searchType {
	case SearchExact:
		return func(v string) bool { return v == term }
	case SearchStartsWith:
		return func(v string) bool { return strings.HasPrefix(v, term) }
	case SearchEndsWith:
		return func(v string) bool { return strings.HasSuffix(v, term) }
	}
	if !fuzzy {
		return func(v string) bool { return strings.Contains(v, term) }
	}
	return fuzzyMatcher(term)
}

// fuzzyMatcher matches a value containing the term without its last rune, the
// term itself, or the term followed by any one rune. Only the shortened term
// widens the match: the last check implies the second, so a trailing
// substitution is tolerated through the shortened term alone.
func fuzzyMatcher(term string) func(value string) bool {
	runes := []rune(term)
	shortened := ""
	if len(runes) > 1 {
		shortened = string(runes[:len(runes)-1])
	}
	return func(v string) bool {
		if shortened != "" && strings.Contains(v, shortened) {
			return true
		}
		if strings.Contains(v, term) {
			return true
		}
		return containsFollowed(v, term)
	}
}

// containsFollowed reports whether sub occurs in s with at least one rune after it
func containsFollowed(s, sub string) bool {
	i := strings.Index(s, sub)
	return i >= 0 && i+len(sub) < len(s)
}
