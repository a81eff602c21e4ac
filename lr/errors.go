package lr

import (
	"errors"
	"fmt"
)

// Errors returned by grammar construction and table generation. Errors carrying
// more context wrap one of these, so clients may test with errors.Is.
var (
	ErrUndefinedNonTerminal = errors.New("undefined non-terminal")
	ErrStartSymbol          = errors.New("malformed start rule")
	ErrReservedSymbol       = errors.New("reserved symbol used in grammar")
	ErrInternal             = errors.New("internal error in table construction")
	ErrConflicts            = errors.New("grammar is not LALR(1)")
)

// GrammarError reports a malformed grammar, together with the offending symbol.
type GrammarError struct {
	Symbol string // offending symbol
	Detail string // optional explanation
	Err    error  // one of the sentinel errors
}

func (e *GrammarError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Symbol)
	}
	return fmt.Sprintf("%v: %s (%s)", e.Err, e.Symbol, e.Detail)
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}

// internalError flags a broken invariant of the table construction.
func internalError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}
