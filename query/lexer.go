package query

import (
	"strings"
	"unicode"
)

// Lexer tokenizes free-text search queries
type Lexer struct {
	input []rune
	pos   int
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: []rune(input)}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

func (l *Lexer) atEOF() bool {
	return l.pos > len(l.input)
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readPhrase reads a double-quoted phrase. An unterminated phrase runs to
// the end of the input.
func (l *Lexer) readPhrase() string {
	var result strings.Builder
	l.readChar() // skip opening quote

	for !l.atEOF() && l.ch != '"' {
		result.WriteRune(l.ch)
		l.readChar()
	}

	if !l.atEOF() {
		l.readChar() // skip closing quote
	}

	return result.String()
}

// readWord reads an unquoted run up to whitespace, a quote or a parenthesis
func (l *Lexer) readWord() string {
	var result strings.Builder
	for !l.atEOF() && !unicode.IsSpace(l.ch) && l.ch != '"' && l.ch != '(' && l.ch != ')' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// NextToken returns the next token. ok is false once the input is exhausted.
func (l *Lexer) NextToken() (tok Token, ok bool) {
	for {
		l.skipWhitespace()
		if l.atEOF() {
			return Token{}, false
		}

		switch l.ch {
		case '(':
			l.readChar()
			return Token{Type: TokenGroupOpen, Value: "("}, true
		case ')':
			l.readChar()
			return Token{Type: TokenGroupClose, Value: ")"}, true
		case '"':
			phrase := l.readPhrase()
			if phrase == "" {
				continue
			}
			return Token{Type: TokenTerm, Value: phrase}, true
		default:
			word := l.readWord()
			return Token{Type: wordType(word), Value: word}, true
		}
	}
}

// wordType determines if an unquoted word is an operator keyword
func wordType(word string) TokenType {
	switch strings.ToUpper(word) {
	case "AND":
		return TokenAnd
	case "OR":
		return TokenOr
	case "NOT":
		return TokenNot
	}
	return TokenTerm
}

// Tokenize returns all tokens from the input
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	tokens := []Token{}

	for {
		tok, ok := lexer.NextToken()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}

	return tokens
}
