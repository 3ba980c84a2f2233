package cpp

import (
	"errors"
	"fmt"
)

// Fatal error kinds. Every error returned by the lexer, classifier or
// expander wraps exactly one of these, so callers can use errors.Is.
var (
	ErrUnterminatedComment      = errors.New("unterminated comment")
	ErrUnterminatedLiteral      = errors.New("unterminated literal")
	ErrEmptyCharLiteral         = errors.New("empty character literal")
	ErrBadEscapeSequence        = errors.New("bad escape sequence")
	ErrMalformedRawString       = errors.New("malformed raw string literal")
	ErrBadDirectiveSyntax       = errors.New("bad directive syntax")
	ErrUnbalancedMacroArguments = errors.New("unbalanced macro arguments")
	ErrMacroArgumentCount       = errors.New("wrong number of macro arguments")
)

type ErrorLoc struct {
	Err error
	Pos FilePos
}

func ErrWithLoc(e error, pos FilePos) error {
	return ErrorLoc{
		Err: e,
		Pos: pos,
	}
}

func (e ErrorLoc) Error() string {
	return fmt.Sprintf("%s at %s", e.Err, e.Pos)
}

func (e ErrorLoc) Unwrap() error {
	return e.Err
}
