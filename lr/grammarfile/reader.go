/*
Package grammarfile reads grammars from text.

A grammar file lists rules of the form

	START > Expr ;
	Expr  > Expr SYM(+) Term | Term ;
	Term  > NUM() | SYM(() Expr SYM()) ;
	List  > ID() List | EPSILON() ;

Non-terminals are names made of letters, digits and underscores. Terminals are
written as KIND(value), where KIND is one of ID, NUM, SYM, KEY, STR, CHR or
EPSILON. An empty value or 'ε' denotes a wildcard terminal matching every token
of its kind. A closing parenthesis is written as SYM()). Alternatives are
separated by '|', rules end with ';'. An empty alternative or EPSILON() is
an ε-production. Every non-terminal is defined by exactly one rule, and START
has to be defined. Line comments start with '//'.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammarfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/npillmayer/lalrgen"
	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/lalrgen/lr/scanner"
	"github.com/npillmayer/lalrgen/lr/scanner/lexmach"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
	"modernc.org/token"
)

// tracer traces with key 'lalrgen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.grammar")
}

// ErrSyntax is wrapped by every malformed-input error of the reader.
var ErrSyntax = errors.New("grammar syntax error")

// SyntaxError is an error in a grammar file, together with its position.
type SyntaxError struct {
	Pos token.Position
	Msg string
	Err error // ErrSyntax or one of the sentinel errors of package lr
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// --- Lexer -----------------------------------------------------------------

// Token types of the grammar lexer, in addition to scanner.SYM for '>', '|' and ';'.
const (
	tokNonTerminal lalrgen.TokType = iota + 100
	tokTerminal
)

var (
	lexerOnce sync.Once
	lexer     *lexmach.LMAdapter
	lexerErr  error
)

func grammarLexer() (*lexmach.LMAdapter, error) {
	lexerOnce.Do(func() {
		lexer, lexerErr = lexmach.NewLMAdapter(func(lx *lexmachine.Lexer) {
			lx.Add([]byte(`//[^\n]*`), lexmach.Skip)
			lx.Add([]byte(`( |\t|\n|\r)+`), lexmach.Skip)
			lx.Add([]byte(`([a-z]|[A-Z]|[0-9]|_)+\([^\)]*\)\)?`), lexmach.MakeToken(tokTerminal))
			lx.Add([]byte(`([a-z]|[A-Z]|[0-9]|_)+`), lexmach.MakeToken(tokNonTerminal))
		}, []string{">", "|", ";"}, nil)
	})
	return lexer, lexerErr
}

// --- Reader ----------------------------------------------------------------

type reader struct {
	file   *token.File
	scan   *lexmach.LMScanner
	tok    lalrgen.Token
	lexErr error
}

// Parse reads a grammar from src. name is used for error positions and, without
// directory and extension, as the name of the grammar.
func Parse(name string, src []byte) (*lr.Grammar, error) {
	lm, err := grammarLexer()
	if err != nil {
		return nil, err
	}
	r := &reader{file: token.NewFile(name, len(src))}
	for i, c := range src {
		if c == '\n' {
			r.file.AddLine(i + 1)
		}
	}
	if r.scan, err = lm.Scanner(string(src)); err != nil {
		return nil, err
	}
	r.scan.SetErrorHandler(func(e error) {
		if r.lexErr != nil {
			return
		}
		var ui *machines.UnconsumedInput
		if errors.As(e, &ui) && ui.StartTC < len(src) {
			r.lexErr = r.errorAt(ui.StartTC, ErrSyntax, "unknown symbol %q", src[ui.StartTC])
			return
		}
		r.lexErr = fmt.Errorf("%w: %v", ErrSyntax, e)
	})
	gname := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	b := lr.NewGrammarBuilder(gname).SetTracer(tracer())
	if err := r.rules(b); err != nil {
		tracer().Errorf("%v", err)
		return nil, err
	}
	return b.Grammar()
}

// LoadFile memory-maps a grammar file and reads it.
func LoadFile(path string) (*lr.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 { // empty files cannot be mapped
		return Parse(path, nil)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer m.Unmap()
	tracer().Debugf("mapped %d bytes of grammar file %s", len(m), path)
	return Parse(path, m)
}

func (r *reader) next() error {
	r.tok = r.scan.NextToken()
	return r.lexErr
}

func (r *reader) is(typ lalrgen.TokType, lexeme string) bool {
	return r.tok.TokType() == typ && (lexeme == "" || r.tok.Lexeme() == lexeme)
}

func (r *reader) errorAt(offset int, err error, format string, args ...interface{}) *SyntaxError {
	pos := r.file.PositionFor(token.Pos(r.file.Base()+offset), false)
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (r *reader) errorf(err error, format string, args ...interface{}) *SyntaxError {
	return r.errorAt(int(r.tok.Span().From()), err, format, args...)
}

// rules reads
//
//    rule ➞ NonTerminal '>' alt { '|' alt } ';'
//    alt  ➞ { NonTerminal | Terminal }
//
func (r *reader) rules(b *lr.GrammarBuilder) error {
	defined := make(map[string]bool)
	if err := r.next(); err != nil {
		return err
	}
	for !r.is(scanner.EOF, "") {
		if !r.is(tokNonTerminal, "") {
			return r.errorf(ErrSyntax, "expected a non-terminal, got %q", r.tok.Lexeme())
		}
		lhs := r.tok.Lexeme()
		if defined[lhs] {
			if lhs == lr.StartName {
				return r.errorf(lr.ErrStartSymbol, "%s can only be defined once", lhs)
			}
			return r.errorf(ErrSyntax, "non-terminal %s is already defined", lhs)
		}
		defined[lhs] = true
		if err := r.next(); err != nil {
			return err
		}
		if !r.is(scanner.SYM, ">") {
			return r.errorf(ErrSyntax, "expected '>' after %s, got %q", lhs, r.tok.Lexeme())
		}
		if err := r.alternatives(b, lhs); err != nil {
			return err
		}
		if err := r.next(); err != nil {
			return err
		}
	}
	return nil
}

// alternatives reads the right hand sides of a rule up to and including ';'.
func (r *reader) alternatives(b *lr.GrammarBuilder, lhs string) error {
	alt := b.LHS(lhs)
	for {
		if err := r.next(); err != nil {
			return err
		}
		switch {
		case r.is(scanner.EOF, ""):
			return r.errorf(ErrSyntax, "end of file while defining %s", lhs)
		case r.is(scanner.SYM, ";"):
			alt.End()
			return nil
		case r.is(scanner.SYM, "|"):
			alt.End()
			alt = b.LHS(lhs)
		case r.is(scanner.SYM, ">"):
			return r.errorf(ErrSyntax, "missing ';' after rule for %s", lhs)
		case r.is(tokNonTerminal, ""):
			if r.tok.Lexeme() == lr.StartName {
				return r.errorf(lr.ErrStartSymbol, "%s must not appear on a right hand side", lr.StartName)
			}
			alt.N(r.tok.Lexeme())
		case r.is(tokTerminal, ""):
			sym, err := r.terminal(r.tok.Lexeme())
			if err != nil {
				return err
			}
			alt.Sym(sym)
		default:
			return r.errorf(ErrSyntax, "unexpected %q", r.tok.Lexeme())
		}
	}
}

// terminal converts KIND(value) to a terminal symbol.
func (r *reader) terminal(lexeme string) (lr.Symbol, error) {
	i := strings.IndexByte(lexeme, '(')
	name, value := lexeme[:i], lexeme[i+1:len(lexeme)-1]
	kind, ok := lr.ParseTermKind(name)
	if !ok || kind == lr.KindComment || (kind.IsReserved() && kind != lr.KindEpsilon) {
		return lr.Symbol{}, r.errorf(ErrSyntax, "illegal terminal type %s", name)
	}
	if kind == lr.KindEpsilon || value == "ε" {
		value = ""
	}
	return lr.Terminal(kind, value), nil
}
