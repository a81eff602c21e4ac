package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/npillmayer/lalrgen"
)

// Category codes of LangTokenizer.
const (
	catSpace CatCode = iota + 1
	catSymbol
	catAlnum
	catQuote
	catApos
	catHash
)

// langSymbolChars are the runes LangTokenizer combines into SYM tokens.
const langSymbolChars = "!()*+,-./:;<=>[]{|}"

type langCategorizer struct{}

func (langCategorizer) Cat(r rune) (CatCode, bool) {
	switch {
	case unicode.IsSpace(r):
		return catSpace, false
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		return catAlnum, false
	case strings.ContainsRune(langSymbolChars, r):
		return catSymbol, false
	case r == '"':
		return catQuote, true
	case r == '\'':
		return catApos, true
	case r == '#':
		return catHash, true
	}
	return IllegalCatCode, true
}

// LangTokenizer is a tokenizer for small C-like languages. It produces
//
//   - ID for runs of letters and digits starting with a letter (KEY for keywords)
//   - NUM for runs of letters and digits starting with a digit
//   - SYM for runs of the characters  ! ( ) * + , - . / : ; < = > [ ] { | }
//   - SYM("\n") for whitespace containing a newline, other whitespace is skipped
//   - STR for "…", CHR for '…' and COMMENT for #…#, holding the text
//     between the delimiters
//
// Inside delimited blocks a backslash escapes the following character.
// Any other character is reported to the error handler and skipped.
type LangTokenizer struct {
	reader   *CatSeqReader
	keywords map[string]bool
	Error    func(error) // error handler
	done     bool
}

var _ Tokenizer = (*LangTokenizer)(nil)

// NewLangTokenizer creates a LangTokenizer for an input. Identifiers listed
// as keywords will be reported as KEY tokens.
func NewLangTokenizer(input io.Reader, keywords ...string) *LangTokenizer {
	rr, ok := input.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(input)
	}
	t := &LangTokenizer{
		reader:   NewCatSeqReader(rr),
		keywords: make(map[string]bool, len(keywords)),
		Error:    logError,
	}
	for _, k := range keywords {
		t.keywords[k] = true
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *LangTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *LangTokenizer) NextToken() lalrgen.Token {
	for !t.done {
		t.reader.ResetOutput()
		csq, err := t.reader.Next(langCategorizer{})
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			t.Error(err)
			break
		}
		lexeme := t.reader.OutputString()
		switch csq.Cat {
		case catSpace:
			if strings.ContainsRune(lexeme, '\n') {
				return t.token(SYM, "\n")
			}
		case catSymbol:
			return t.token(SYM, lexeme)
		case catAlnum:
			if unicode.IsDigit([]rune(lexeme)[0]) {
				return t.token(NUM, lexeme)
			}
			if t.keywords[lexeme] {
				return t.token(KEY, lexeme)
			}
			return t.token(ID, lexeme)
		case catQuote:
			return t.block('"', STR)
		case catApos:
			return t.block('\'', CHR)
		case catHash:
			return t.block('#', COMMENT)
		default:
			t.Error(fmt.Errorf("unrecognized symbol %q at %d", lexeme, t.reader.Span().From()))
		}
	}
	t.done = true
	tracer().Debugf("LangTokenizer reached end of input")
	t.reader.ResetOutput()
	return t.token(EOF, "")
}

func (t *LangTokenizer) block(end rune, kind lalrgen.TokType) lalrgen.Token {
	text, err := t.reader.Block(end)
	if err != nil {
		t.Error(fmt.Errorf("at %d: %w", t.reader.Span().From(), err))
		t.done = true
	}
	return t.token(kind, text)
}

func (t *LangTokenizer) token(kind lalrgen.TokType, lexeme string) DefaultToken {
	return MakeDefaultToken(kind, lexeme, t.reader.Span())
}
