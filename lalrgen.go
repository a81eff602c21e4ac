package lalrgen

import "fmt"

// --- Tokens ----------------------------------------------------------------

// TokType is a category type for a Token. Package lr maps its terminal kinds
// onto token types, scanners produce them.
type TokType int

// Token represents an input token, produced by a scanner and consumed by a parser.
// A token for a numeric literal might look like this:
//
//    TokType = NUM         // kind of the terminal this token matches
//    Lexeme  = "3.1416"    // lexeme as it appeared in the input stream
//    Value   = nil         // scanners may attach a converted value
//    Span    = 67…73       // occurred from position 67 in the input stream
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans -----------------------------------------------------------------

// Span captures a run of input positions: a start position and the position
// just behind the end. Parsers track spans for every symbol on their stack.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y).
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering s and other.
// A null span does not contribute.
func (s Span) Extend(other Span) Span {
	if other.IsNull() {
		return s
	}
	if s.IsNull() {
		return other
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
