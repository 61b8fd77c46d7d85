package calc

import (
	"errors"
	"strconv"
)

// Sentinel errors for the kinds of invalid input. Every *Error unwraps to
// exactly one of these.
var (
	// ErrIllegalCharacter indicates text the lexer does not recognize.
	ErrIllegalCharacter = errors.New("illegal character")
	// ErrExpectedExpression indicates a missing term, e.g. in empty input
	// or after a trailing operator.
	ErrExpectedExpression = errors.New("expected expression")
	// ErrExpectedClosingParenthesis indicates an open parenthesis with no
	// matching close.
	ErrExpectedClosingParenthesis = errors.New("expected closing parenthesis")
	// ErrChainedOperators indicates an operator directly following another
	// where a term is required.
	ErrChainedOperators = errors.New("chained operators")
	// ErrNumberRange indicates an integer literal too large to represent.
	ErrNumberRange = errors.New("number out of range")
	// ErrUnexpectedToken indicates input remaining after a complete
	// expression.
	ErrUnexpectedToken = errors.New("unexpected token")
)

// Error is an error resulting from invalid input. It implements InputError.
type Error struct {
	// Kind is the sentinel error describing the problem.
	Kind error
	// Col is the position of the token that caused the error.
	Col int
	// Text is the text of that token. It is empty at the end of input.
	Text string
}

func (err *Error) Error() string {
	if err.Text == "" {
		if err.Col <= 1 {
			return errpos(err.Col, err.Kind.Error())
		}
		return errpos(err.Col, err.Kind.Error()+" at end")
	}
	return errpos(err.Col, err.Kind.Error()+" at "+strconv.Quote(err.Text))
}

func (err *Error) Unwrap() error {
	return err.Kind
}

func (err *Error) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var _ InputError = (*Error)(nil)
