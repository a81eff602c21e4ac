/*
Package lalr provides a table-driven LALR(1)-parser. Clients have to use the
tools of package lr to prepare the parse table. The parser uses the table to
create a right derivation for a given input, provided through a scanner
interface.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse table from a grammar and use the
parser directly, without a code-generation or compile step. If you want, you
can create a grammar from user input and use a parser for it in a couple of
lines of code.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("START").N("Var").End()
	b.LHS("Var").N("Sign").T(lr.KindID).End()      // Var  ➞ Sign ID
	b.LHS("Sign").Lit(lr.KindSym, "+").End()       // Sign ➞ +
	b.LHS("Sign").Lit(lr.KindSym, "-").End()       // Sign ➞ -
	b.LHS("Sign").Epsilon()                        // Sign ➞ ε
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	if err := lrgen.CreateTables(); err != nil { ... }
	if lrgen.HasConflicts { ... }  // parser will follow the retained actions

Finally parse some input:

	p := lalr.NewParser(lrgen.ParseTable())
	accepted, err := p.Parse(scanner.GoTokenizer("input", strings.NewReader("+a")))

Every step of the parser is recorded and may be inspected with Steps(), or
observed while parsing with option OnStep. With option BuildTree, the parser
constructs a parse tree on the fly:

	p := lalr.NewParser(lrgen.ParseTable(), lalr.BuildTree(true))
	if accepted, _ := p.Parse(scan); accepted {
		p.Tree().Walk(func(n *lalr.Node, depth int) { … })
	}

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lalr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/lalrgen"
	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/lalrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrgen.lalr'.
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.lalr")
}

// ErrSyntax is wrapped by every syntax error the parser reports.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports an input token for which the parse table has no action.
type SyntaxError struct {
	Token    lalrgen.Token // offending token
	State    int           // parser state at the time of the error
	Expected []string      // terminals with an action in State
}

func (e *SyntaxError) Error() string {
	lexeme := e.Token.Lexeme()
	if e.Token.TokType() == scanner.EOF {
		lexeme = "end of input"
	}
	return fmt.Sprintf("%v at %v: unexpected %q, expected one of {%s}", ErrSyntax,
		e.Token.Span(), lexeme, strings.Join(e.Expected, " "))
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Step is a single parser action, taken in a state on a symbol.
type Step struct {
	State  int
	Symbol lr.SymID
	Action lr.Action
}

// Parser is an LALR(1)-parser type. Create and initialize one with lalr.NewParser(...)
type Parser struct {
	G            *lr.Grammar
	table        *lr.ParseTable
	stack        []stackitem // parser stack
	steps        []Step
	listener     func(Step)
	keepComments bool
	buildTree    bool
	root         *Node
}

// We store pairs of state-IDs and symbol-IDs on the parse stack.
type stackitem struct {
	stateID int          // ID of a CFSM state
	symID   lr.SymID     // ID of a grammar symbol (terminal or non-terminal)
	span    lalrgen.Span // input span over which this symbol reaches
	node    *Node        // parse tree node, if trees are built
}

// Option configures a parser.
type Option func(p *Parser)

// OnStep installs a listener which is called for every step of the parser.
func OnStep(listener func(Step)) Option {
	return func(p *Parser) {
		p.listener = listener
	}
}

// KeepComments lets the parser hand COMMENT tokens to the parse table.
// Per default, comments are skipped.
func KeepComments(b bool) Option {
	return func(p *Parser) {
		p.keepComments = b
	}
}

// NewParser creates an LALR(1) parser for a parse table.
func NewParser(pt *lr.ParseTable, opts ...Option) *Parser {
	parser := &Parser{
		table: pt,
		stack: make([]stackitem, 0, 512),
	}
	if pt != nil {
		parser.G = pt.Grammar()
	}
	for _, opt := range opts {
		opt(parser)
	}
	return parser
}

// Steps returns the steps of the most recent parse.
func (p *Parser) Steps() []Step {
	return p.steps
}

// Parse starts a new parse, given a scanner tokenizing the input.
//
// The parser returns true if the input string has been accepted.
// Input not matching the grammar results in a *SyntaxError.
func (p *Parser) Parse(scan scanner.Tokenizer) (bool, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.G == nil || p.table == nil {
		tracer().Errorf("LALR(1)-parser not initialized")
		return false, fmt.Errorf("LALR(1)-parser not initialized")
	}
	p.stack = append(p.stack[:0], stackitem{stateID: 0, symID: lr.NoSymbol})
	p.steps = p.steps[:0]
	p.root = nil
	token, tokval := p.nextToken(scan)
	for {
		tracer().Debugf("got token %q/%d from scanner", token.Lexeme(), tokval)
		state := p.stack[len(p.stack)-1] // TOS
		action, ok := lr.Action{}, false
		if tokval != lr.NoSymbol {
			action, ok = p.table.Action(state.stateID, tokval)
		}
		if !ok || action.Kind == lr.GotoAction {
			return false, p.syntaxError(state.stateID, token)
		}
		tracer().Debugf("action(%d,%v)=%v", state.stateID, p.G.Symbol(tokval), action)
		p.record(Step{State: state.stateID, Symbol: tokval, Action: action})
		switch action.Kind {
		case lr.AcceptAction:
			if p.buildTree {
				p.root = &Node{Symbol: p.G.Start(), Prod: 0, Span: state.span,
					Children: []*Node{state.node}}
			}
			return true, nil
		case lr.ShiftAction:
			tracer().Debugf("shifting, next state = %d", action.Target)
			item := stackitem{stateID: action.Target, symID: tokval, span: token.Span()}
			if p.buildTree {
				item.node = leaf(tokval, token)
			}
			p.stack = append(p.stack, item) // push a terminal state onto stack
			token, tokval = p.nextToken(scan)
		case lr.ReduceAction:
			nextstate, err := p.reduce(p.G.Production(action.Target), token)
			if err != nil {
				return false, err
			}
			tracer().Debugf("reduced to next state = %d", nextstate)
		default:
			return false, fmt.Errorf("%w: unknown action %v", lr.ErrInternal, action)
		}
	}
}

// reduce performs a reduce action for a production
//
//    LHS ➞ X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn should be represented on the stack as states
//
//    [TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
// The reduced non-terminal is pushed with the span covering the handle. An
// ε-handle gets an empty span in front of the lookahead token.
func (p *Parser) reduce(prod *lr.Production, la lalrgen.Token) (int, error) {
	tracer().Infof("reduce %v", p.G.ProductionString(prod))
	rhs := prod.RHS()
	if len(rhs) >= len(p.stack) {
		return 0, fmt.Errorf("%w: stack underflow reducing %s", lr.ErrInternal,
			p.G.ProductionString(prod))
	}
	var handlespan lalrgen.Span
	var children []*Node
	if p.buildTree {
		children = make([]*Node, len(rhs))
	}
	for i := len(rhs) - 1; i >= 0; i-- {
		tos := p.stack[len(p.stack)-1]
		if tos.symID != rhs[i] {
			tracer().Errorf("Expected %v on top of stack, got %v", p.G.Symbol(rhs[i]), p.G.Symbol(tos.symID))
		}
		handlespan = handlespan.Extend(tos.span)
		if p.buildTree {
			children[i] = tos.node
		}
		p.stack = p.stack[:len(p.stack)-1] // pop TOS
	}
	if len(rhs) == 0 { // epsilon was just before lookahead
		pos := la.Span().From()
		handlespan = lalrgen.Span{pos, pos}
	}
	state := p.stack[len(p.stack)-1] // TOS
	G, ok := p.table.Action(state.stateID, prod.LHS)
	if !ok || G.Kind != lr.GotoAction {
		return 0, fmt.Errorf("%w: no goto for %v in state %d", lr.ErrInternal,
			p.G.Symbol(prod.LHS), state.stateID)
	}
	item := stackitem{stateID: G.Target, symID: prod.LHS, span: handlespan}
	if p.buildTree {
		item.node = &Node{Symbol: prod.LHS, Prod: prod.Serial, Span: handlespan, Children: children}
	}
	p.stack = append(p.stack, item) // push a non-terminal state onto stack
	return G.Target, nil
}

// nextToken reads the next token and classifies it as a terminal of the
// grammar. Tokens matching no terminal are classified as lr.NoSymbol.
func (p *Parser) nextToken(scan scanner.Tokenizer) (lalrgen.Token, lr.SymID) {
	token := scan.NextToken()
	for !p.keepComments && token.TokType() == scanner.COMMENT {
		tracer().Debugf("skipping comment %q", token.Lexeme())
		token = scan.NextToken()
	}
	kind := lr.TermKind(token.TokType())
	return token, p.G.Symbols().Classify(kind, token.Lexeme())
}

func (p *Parser) record(step Step) {
	p.steps = append(p.steps, step)
	if p.listener != nil {
		p.listener(step)
	}
}

func (p *Parser) syntaxError(state int, token lalrgen.Token) error {
	e := &SyntaxError{Token: token, State: state}
	for _, A := range p.table.Expected(state) {
		e.Expected = append(e.Expected, p.G.Symbol(A).String())
	}
	tracer().Infof("%v", e)
	return e
}
