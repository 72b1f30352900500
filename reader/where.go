package reader

import (
	"strings"

	"github.com/vegasq/codesearch/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildWhere translates a predicate tree into a SQL condition with bound
// parameters, matching query.Compile record for record. Columns missing from
// known are treated as empty, as they are in memory. A nil tree yields an
// empty condition.
func BuildWhere(tree query.Node, spec query.MatchSpec, known map[string]bool) (string, []interface{}, error) {
	if err := spec.Validate(); err != nil {
		return "", nil, err
	}
	if tree == nil {
		return "", nil, nil
	}

	searchType, _ := query.ParseSearchType(string(spec.SearchType))
	b := &whereBuilder{
		searchType: searchType,
		fuzzy:      spec.UseFuzzy && searchType == query.SearchPartial,
	}
	for _, col := range spec.Columns {
		if known[col] {
			b.columns = append(b.columns, "LOWER(COALESCE("+QuoteIdent(col)+", ''))")
		} else {
			b.columns = append(b.columns, "''")
		}
	}

	var sb strings.Builder
	b.write(&sb, tree)
	return sb.String(), b.args, nil
}

type whereBuilder struct {
	searchType query.SearchType
	fuzzy      bool
	columns    []string
	args       []interface{}
}

func (b *whereBuilder) write(sb *strings.Builder, n query.Node) {
	switch v := n.(type) {
	case *query.Atom:
		b.writeAtom(sb, v)
	case *query.AllOf:
		b.writeList(sb, " AND ", v.Children)
	case *query.AnyOf:
		b.writeList(sb, " OR ", v.Children)
	default:
		panic("reader: unknown node type")
	}
}

func (b *whereBuilder) writeList(sb *strings.Builder, sep string, children []query.Node) {
	sb.WriteString("(")
	for i, c := range children {
		if i > 0 {
			sb.WriteString(sep)
		}
		b.write(sb, c)
	}
	sb.WriteString(")")
}

func (b *whereBuilder) writeAtom(sb *strings.Builder, a *query.Atom) {
	term := strings.ToLower(a.Term)
	if a.Negated {
		sb.WriteString("NOT ")
	}
	sb.WriteString("(")
	for i, col := range b.columns {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		b.writeColumnTest(sb, col, term)
	}
	sb.WriteString(")")
}

func (b *whereBuilder) writeColumnTest(sb *strings.Builder, col, term string) {
	escaped := likeEscaper.Replace(term)
	switch b.searchType {
	case query.SearchExact:
		b.cond(sb, col+" = ?", term)
	case query.SearchStartsWith:
		b.like(sb, col, escaped+"%")
	case query.SearchEndsWith:
		b.like(sb, col, "%"+escaped)
	default:
		if !b.fuzzy {
			b.like(sb, col, "%"+escaped+"%")
			return
		}
		sb.WriteString("(")
		if runes := []rune(term); len(runes) > 1 {
			b.like(sb, col, "%"+likeEscaper.Replace(string(runes[:len(runes)-1]))+"%")
			sb.WriteString(" OR ")
		}
		b.like(sb, col, "%"+escaped+"%")
		sb.WriteString(" OR ")
		b.like(sb, col, "%"+escaped+"_%")
		sb.WriteString(")")
	}
}

func (b *whereBuilder) like(sb *strings.Builder, col, pattern string) {
	b.cond(sb, col+` LIKE ? ESCAPE '\'`, pattern)
}

func (b *whereBuilder) cond(sb *strings.Builder, expr string, arg interface{}) {
	sb.WriteString(expr)
	b.args = append(b.args, arg)
}
