package querytpl

import (
	"errors"
	"fmt"
)

var (
	ErrArrayArgumentRequired = errors.New("?a argument should be a list or a map")
	ErrInvalidArgumentType   = errors.New("invalid argument type")
	ErrArgumentCountMismatch = errors.New("placeholder and argument count mismatch")
	ErrSkipOutsideFragment   = errors.New("skip value used outside of a {...} fragment")
	ErrUnsupportedArgument   = errors.New("unsupported argument")
	ErrUnknownDialect        = errors.New("no dialect matched with driver")
)

// PlaceholderError reports which placeholder of a template failed.
type PlaceholderError struct {
	// Index is the zero based position of the placeholder in the template.
	Index     int
	Specifier Specifier
	Arg       Arg
	Err       error
}

func (e *PlaceholderError) Error() string {
	return fmt.Sprintf("placeholder #%d (%s) with argument %s: %v", e.Index+1, e.Specifier, e.Arg, e.Err)
}

func (e *PlaceholderError) Unwrap() error {
	return e.Err
}
