package query

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("parse error")

	// ErrInvalidConfiguration reports a search that cannot be compiled or executed
	// as configured, such as an empty column list.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ParseError reports malformed grouping in a query.
// Pos is the index of the offending token.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at token %d: %s", e.Pos, e.Msg)
}

// Is lets errors.Is(err, ErrParse) match.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func invalidConfig(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
