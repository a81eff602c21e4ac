/*
Package scanner defines an interface for scanners to be used with parsers
driven by lalrgen parse tables.

Scanners deliver tokens whose token type is one of the terminal kinds of
package lr (ID, NUM, SYM, KEY, STR, CHR, COMMENT), or lr.KindEOF at the end of
input. The parser matches a token against the terminals of a grammar by kind
and lexeme.

Three scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', (2) LangTokenizer, a tokenizer for a small C-like language
with '#'-comments and newline tokens, and (3) an adapter for lexmachine,
living in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/lalrgen"
	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrgen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.scanner")
}

// Token types delivered by the scanners of this package.
const (
	EOF     = lalrgen.TokType(lr.KindEOF)
	ID      = lalrgen.TokType(lr.KindID)
	NUM     = lalrgen.TokType(lr.KindNum)
	SYM     = lalrgen.TokType(lr.KindSym)
	KEY     = lalrgen.TokType(lr.KindKey)
	STR     = lalrgen.TokType(lr.KindStr)
	CHR     = lalrgen.TokType(lr.KindChr)
	COMMENT = lalrgen.TokType(lr.KindComment)
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() lalrgen.Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune            // last token this scanner has produced
	Error        func(error)     // error handler
	unifyStrings bool            // report single chars as strings
	keywords     map[string]bool // identifiers to report as KEY
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
// Go identifiers are reported as ID (or KEY, see option Keywords), numbers as NUM,
// strings and raw strings as STR, character literals as CHR, comments as COMMENT,
// and every other character as SYM.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Position, msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() lalrgen.Token {
	t.lastToken = t.Scan()
	lexeme := t.TokenText()
	var kind lalrgen.TokType
	switch t.lastToken {
	case scanner.EOF:
		tracer().Debugf("DefaultTokenizer reached end of input")
		kind, lexeme = EOF, ""
	case scanner.Ident:
		kind = ID
		if t.keywords[lexeme] {
			kind = KEY
		}
	case scanner.Int, scanner.Float:
		kind = NUM
	case scanner.String, scanner.RawString:
		kind = STR
	case scanner.Char:
		kind = CHR
		if t.unifyStrings {
			kind = STR
		}
	case scanner.Comment:
		kind = COMMENT
	default:
		kind = SYM
	}
	return DefaultToken{
		kind:   kind,
		lexeme: lexeme,
		span:   lalrgen.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the
// tokenizers of this package as well as the LexMachine scanner.
type DefaultToken struct {
	kind   lalrgen.TokType
	lexeme string
	Val    interface{}
	span   lalrgen.Span
}

// MakeDefaultToken creates a token.
func MakeDefaultToken(typ lalrgen.TokType, lexeme string, span lalrgen.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// TokType is part of the lalrgen.Token interface.
func (t DefaultToken) TokType() lalrgen.TokType {
	return t.kind
}

// Value is part of the lalrgen.Token interface.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is part of the lalrgen.Token interface.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is part of the lalrgen.Token interface.
func (t DefaultToken) Span() lalrgen.Span {
	return t.span
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("%v(%q)", lr.TermKind(t.kind), t.lexeme)
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenizer.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// report single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// Keywords lets the tokenizer report the given identifiers as KEY tokens.
func Keywords(keywords ...string) Option {
	return func(t *DefaultTokenizer) {
		if t.keywords == nil {
			t.keywords = make(map[string]bool, len(keywords))
		}
		for _, k := range keywords {
			t.keywords[k] = true
		}
	}
}
