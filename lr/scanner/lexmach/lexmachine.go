package lexmach

import (
	"strings"
	"unicode"

	"github.com/npillmayer/lalrgen"
	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/lalrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'lalrgen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …) to be reported as SYM tokens and a list of
// keywords ("if", "for", …) to be reported as KEY tokens. Literals and
// keywords take precedence over the patterns added by init.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	for _, lit := range literals {
		adapter.Lexer.Add([]byte(quote(lit)), MakeToken(scanner.SYM))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(quote(name)), MakeToken(scanner.KEY))
	}
	if init != nil {
		init(adapter.Lexer)
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// FromGrammar creates a lexmachine adapter for the terminals of a grammar.
// Literal SYM terminals become literals, literal KEY terminals become keywords.
// Patterns for all other terminals have to be added by init, e.g., by
// StandardPatterns.
func FromGrammar(g *lr.Grammar, init func(*lexmachine.Lexer)) (*LMAdapter, error) {
	var literals, keywords []string
	for _, id := range g.Terminals() {
		sym := g.Symbol(id)
		lit, ok := sym.Literal()
		if !ok {
			continue
		}
		switch sym.Kind() {
		case lr.KindSym:
			literals = append(literals, lit)
		case lr.KindKey:
			keywords = append(keywords, lit)
		default:
			tracer().Infof("lexmachine adapter ignores literal terminal %v", sym)
		}
	}
	return NewLMAdapter(init, literals, keywords)
}

// StandardPatterns adds patterns for identifiers, numbers, strings,
// characters, '#'-comments and whitespace. Strings, characters and comments
// carry the text between their delimiters as value.
func StandardPatterns(lexer *lexmachine.Lexer) {
	lexer.Add([]byte(`#[^#]*#`), MakeDelimitedToken(scanner.COMMENT))
	lexer.Add([]byte(`\"[^"]*\"`), MakeDelimitedToken(scanner.STR))
	lexer.Add([]byte(`'[^']*'`), MakeDelimitedToken(scanner.CHR))
	lexer.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), MakeToken(scanner.ID))
	lexer.Add([]byte(`[0-9]+(\.[0-9]+)?`), MakeToken(scanner.NUM))
	lexer.Add([]byte(`( |\t|\n|\r)+`), Skip)
}

// quote escapes every rune of a literal which is not a letter or digit.
func quote(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError, length: uint64(len(input))}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	length  uint64
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface.
// Unconsumed input is reported to the error handler and skipped.
func (lms *LMScanner) NextToken() lalrgen.Token {
	if lms.scanner == nil {
		return scanner.MakeDefaultToken(scanner.EOF, "", lalrgen.Span{})
	}
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return scanner.MakeDefaultToken(scanner.EOF, "", lalrgen.Span{lms.length, lms.length})
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	token := tok.(*lexmachine.Token)
	t := scanner.MakeDefaultToken(
		lalrgen.TokType(token.Type),
		string(token.Lexeme),
		lalrgen.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	)
	t.Val = token.Value
	return t
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token
// of the given type.
func MakeToken(typ lalrgen.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(typ), string(m.Bytes), m), nil
	}
}

// MakeDelimitedToken is like MakeToken, but strips the first and last byte
// from the token's value.
func MakeDelimitedToken(typ lalrgen.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		text := string(m.Bytes)
		if len(text) >= 2 {
			text = text[1 : len(text)-1]
		}
		return s.Token(int(typ), text, m), nil
	}
}
