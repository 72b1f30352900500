package query

// Parser builds a predicate tree from query tokens.
//
// Adjacent slots are ANDed, OR joins alternatives inside a slot, and NOT
// negates the term or group that follows it:
//
//	group := ( slot | AND | OR )*
//	slot  := unary ( OR unary )*
//	unary := NOT* ( TERM | "(" group [")"] )
//
// A ")" without a matching "(" is an error. A "(" still open at the end of
// the input is closed there.
type Parser struct {
	tokens []Token
	pos    int
	depth  int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses tokens into a predicate tree. A query without any terms
// yields a nil Node, which matches every record.
func Parse(tokens []Token) (Node, error) {
	return NewParser(tokens).Parse()
}

// ParseString tokenizes and parses a query string
func ParseString(query string) (Node, error) {
	return Parse(Tokenize(query))
}

// Parse parses the whole token stream
func (p *Parser) Parse() (Node, error) {
	p.pos = 0
	p.depth = 0
	return p.parseGroup()
}

func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// parseGroup collects slots until a group close or the end of input.
// The closing token is left for the caller.
func (p *Parser) parseGroup() (Node, error) {
	var slots []Node
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		if tok.Type == TokenGroupClose {
			if p.depth == 0 {
				return nil, &ParseError{Pos: p.pos, Msg: "unmatched ')'"}
			}
			break
		}
		if tok.Type == TokenAnd || tok.Type == TokenOr {
			// stray connective, nothing to join
			p.pos++
			continue
		}

		slot, err := p.parseSlot()
		if err != nil {
			return nil, err
		}
		if slot != nil {
			slots = append(slots, slot)
		}
	}
	return allOf(slots), nil
}

// parseSlot parses one or more alternatives joined by OR
func (p *Parser) parseSlot() (Node, error) {
	var alts []Node
	for {
		n, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if n != nil {
			alts = append(alts, n)
		}

		tok, ok := p.peek()
		if !ok || tok.Type != TokenOr {
			break
		}
		p.pos++
	}
	return anyOf(alts), nil
}

// parseUnary parses a term or parenthesised group with any leading NOTs.
// It returns nil without consuming anything else when no operand follows.
func (p *Parser) parseUnary() (Node, error) {
	negate := false
	for {
		tok, ok := p.peek()
		if !ok || tok.Type != TokenNot {
			break
		}
		negate = !negate
		p.pos++
	}

	tok, ok := p.peek()
	if !ok {
		return nil, nil
	}

	switch tok.Type {
	case TokenTerm:
		p.pos++
		return &Atom{Term: tok.Value, Negated: negate}, nil
	case TokenGroupOpen:
		p.pos++
		p.depth++
		inner, err := p.parseGroup()
		p.depth--
		if err != nil {
			return nil, err
		}
		if next, ok := p.peek(); ok && next.Type == TokenGroupClose {
			p.pos++
		}
		if inner != nil && negate {
			inner = Negate(inner)
		}
		return inner, nil
	default:
		return nil, nil
	}
}

// Negate returns the logical negation of n, pushed down to the atoms.
func Negate(n Node) Node {
	switch v := n.(type) {
	case *Atom:
		return &Atom{Term: v.Term, Negated: !v.Negated}
	case *AllOf:
		return &AnyOf{Children: negateAll(v.Children)}
	case *AnyOf:
		return &AllOf{Children: negateAll(v.Children)}
	default:
		panic("query: unknown node type")
	}
}

func negateAll(children []Node) []Node {
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = Negate(c)
	}
	return out
}

func allOf(children []Node) Node {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &AllOf{Children: children}
}

func anyOf(children []Node) Node {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &AnyOf{Children: children}
}
