package lr

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
	"modernc.org/strutil"
)

// StartName is the name of the distinguished start non-terminal.
const StartName = "START"

// --- Productions -----------------------------------------------------------

// Production is a grammar rule LHS ➞ RHS. An empty RHS denotes an
// epsilon-production.
type Production struct {
	Serial int   // index of this production within its grammar
	LHS    SymID // non-terminal on the left hand side
	rhs    []SymID
}

// RHS returns the symbols of the right hand side. Clients must not modify it.
func (p *Production) RHS() []SymID {
	return p.rhs
}

// Len returns the number of RHS symbols.
func (p *Production) Len() int {
	return len(p.rhs)
}

// IsEpsilon is true for productions with an empty RHS.
func (p *Production) IsEpsilon() bool {
	return len(p.rhs) == 0
}

// --- Grammar ---------------------------------------------------------------

// Grammar is the production store of a context-free grammar: an ordered list of
// productions, where the productions of each non-terminal occupy a contiguous
// range [from, to). Production 0 is the single production of START.
//
// Grammars are created by a GrammarBuilder and are immutable afterwards.
type Grammar struct {
	Name     string
	symbols  *SymbolTable
	prods    []*Production
	ranges   []prange // indexed by SymID, empty for terminals
	nonterms []SymID  // in order of definition, START first
	terms    []SymID  // ordinary terminals in id order
	start    SymID
}

type prange struct {
	from, to int
}

// Symbols returns the symbol table of the grammar.
func (g *Grammar) Symbols() *SymbolTable {
	return g.symbols
}

// Symbol returns the symbol for an id.
func (g *Grammar) Symbol(id SymID) Symbol {
	return g.symbols.Symbol(id)
}

// IsTerminal is true if id denotes a terminal.
func (g *Grammar) IsTerminal(id SymID) bool {
	return g.symbols.IsTerminal(id)
}

// Start returns the id of non-terminal START.
func (g *Grammar) Start() SymID {
	return g.start
}

// Size returns the number of productions.
func (g *Grammar) Size() int {
	return len(g.prods)
}

// Production returns production number i.
func (g *Grammar) Production(i int) *Production {
	return g.prods[i]
}

// StartProduction returns the production of START.
func (g *Grammar) StartProduction() *Production {
	return g.prods[0]
}

// Range returns the half-open range of productions for non-terminal A.
// For terminals the range is empty.
func (g *Grammar) Range(A SymID) (from, to int) {
	r := g.ranges[A]
	return r.from, r.to
}

// Productions returns the productions of non-terminal A.
func (g *Grammar) Productions(A SymID) []*Production {
	r := g.ranges[A]
	return g.prods[r.from:r.to]
}

// NonTerminals returns the ids of all non-terminals, START first.
func (g *Grammar) NonTerminals() []SymID {
	return g.nonterms
}

// Terminals returns the ids of all ordinary terminals, ascending.
func (g *Grammar) Terminals() []SymID {
	return g.terms
}

// EachNonTerminal iterates over the non-terminals in order of definition.
func (g *Grammar) EachNonTerminal(f func(A Symbol)) {
	for _, A := range g.nonterms {
		f(g.symbols.Symbol(A))
	}
}

// EachProduction iterates over all productions in order.
func (g *Grammar) EachProduction(f func(p *Production)) {
	for _, p := range g.prods {
		f(p)
	}
}

// ProductionString returns a production as 'LHS ➞ RHS'.
func (g *Grammar) ProductionString(p *Production) string {
	var b strings.Builder
	b.WriteString(g.Symbol(p.LHS).String())
	b.WriteString(" ➞")
	if p.IsEpsilon() {
		b.WriteString(" ε")
	}
	for _, s := range p.rhs {
		b.WriteByte(' ')
		b.WriteString(g.Symbol(s).String())
	}
	return b.String()
}

// SetString returns a set of symbol ids as a string of symbols.
func (g *Grammar) SetString(set *intsets.Sparse) string {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, id := range set.AppendTo(nil) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(g.Symbol(SymID(id)).String())
	}
	b.WriteByte('}')
	return b.String()
}

// Dump writes the productions of g to w.
func (g *Grammar) Dump(w io.Writer) {
	f := strutil.IndentFormatter(w, "  ")
	f.Format("grammar %s%i\n", g.Name)
	for _, p := range g.prods {
		f.Format("%d: %s\n", p.Serial, g.ProductionString(p))
	}
	f.Format("%u")
}

// --- Grammar builder -------------------------------------------------------

// GrammarBuilder collects rules for a grammar. Use as
//
//    b := NewGrammarBuilder("Expressions")
//    b.LHS("START").N("E").End()
//    b.LHS("E").N("E").Lit(KindSym, "+").T(KindNum).End()
//    b.LHS("E").T(KindNum).End()
//    g, err := b.Grammar()
//
// Rules for the same non-terminal need not be added consecutively.
type GrammarBuilder struct {
	name  string
	rules []*RuleBuilder
	trace tracing.Trace
}

// RuleBuilder is a helper type to add symbols to the RHS of a rule.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs string
	rhs []Symbol
}

// NewGrammarBuilder creates a builder for a named grammar.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{name: name}
}

// SetTracer sets an observer for Grammar(), which reports statistics and
// unreachable non-terminals. The default is the tracer with key 'lalrgen.lr'.
func (gb *GrammarBuilder) SetTracer(t tracing.Trace) *GrammarBuilder {
	gb.trace = t
	return gb
}

// LHS starts a new rule for non-terminal name.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{gb: gb, lhs: name}
}

// N appends a non-terminal.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, NonTerminal(name))
	return rb
}

// T appends a wildcard terminal of a kind.
func (rb *RuleBuilder) T(kind TermKind) *RuleBuilder {
	rb.rhs = append(rb.rhs, Terminal(kind, ""))
	return rb
}

// Lit appends a terminal with a literal.
func (rb *RuleBuilder) Lit(kind TermKind, literal string) *RuleBuilder {
	rb.rhs = append(rb.rhs, Terminal(kind, literal))
	return rb
}

// Sym appends an arbitrary symbol. An ε-terminal is dropped when the grammar
// is built.
func (rb *RuleBuilder) Sym(sym Symbol) *RuleBuilder {
	rb.rhs = append(rb.rhs, sym)
	return rb
}

// End completes the rule.
func (rb *RuleBuilder) End() {
	rb.gb.rules = append(rb.gb.rules, rb)
}

// Epsilon completes the rule as an epsilon-production. Symbols appended
// before are discarded.
func (rb *RuleBuilder) Epsilon() {
	rb.rhs = nil
	rb.End()
}

func isEpsilonSymbol(sym Symbol) bool {
	return sym.terminal && sym.kind == KindEpsilon
}

// Grammar validates the rules and creates the grammar. The following conditions
// are fatal: START is not defined, has more than one production, its production
// does not consist of exactly one non-terminal, START appears on a RHS, a
// non-terminal is used but never defined, or a reserved symbol is used.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if err := gb.checkStart(); err != nil {
		return nil, err
	}
	g := &Grammar{
		Name:    gb.name,
		symbols: NewSymbolTable(),
	}
	// group rules by LHS, in order of first definition, START first
	var order []string
	groups := make(map[string][]*RuleBuilder)
	for _, r := range gb.rules {
		if _, ok := groups[r.lhs]; !ok && r.lhs != StartName {
			order = append(order, r.lhs)
		}
		groups[r.lhs] = append(groups[r.lhs], r)
	}
	order = append([]string{StartName}, order...)
	for _, lhs := range order {
		A, err := g.symbols.Intern(NonTerminal(lhs))
		if err != nil {
			return nil, err
		}
		g.nonterms = append(g.nonterms, A)
	}
	g.start = g.nonterms[0]
	var undefined []string
	for _, lhs := range order {
		A, _ := g.symbols.Lookup(NonTerminal(lhs))
		for _, r := range groups[lhs] {
			p := &Production{Serial: len(g.prods), LHS: A}
			for _, sym := range r.rhs {
				if isEpsilonSymbol(sym) {
					continue
				}
				id, err := g.symbols.Intern(sym)
				if err != nil {
					return nil, err
				}
				if !sym.terminal {
					if _, defined := groups[sym.name]; !defined && !slices.Contains(undefined, sym.name) {
						undefined = append(undefined, sym.name)
					}
				}
				p.rhs = append(p.rhs, id)
			}
			g.prods = append(g.prods, p)
		}
	}
	if len(undefined) > 0 {
		return nil, &GrammarError{Symbol: strings.Join(undefined, ", "), Err: ErrUndefinedNonTerminal}
	}
	g.ranges = make([]prange, g.symbols.Size())
	for _, p := range g.prods {
		r := &g.ranges[p.LHS]
		if r.to == 0 {
			r.from = p.Serial
		}
		r.to = p.Serial + 1
	}
	g.symbols.Each(func(sym Symbol) {
		if sym.terminal && !sym.kind.IsReserved() {
			g.terms = append(g.terms, sym.id)
		}
	})
	trace := gb.trace
	if trace == nil {
		trace = tracer()
	}
	g.reportUnreachable(trace)
	trace.Infof("grammar %q: %d symbols, %d productions", g.Name, g.symbols.Size(), len(g.prods))
	return g, nil
}

func (gb *GrammarBuilder) checkStart() error {
	var startRules []*RuleBuilder
	for _, r := range gb.rules {
		if r.lhs == StartName {
			startRules = append(startRules, r)
		}
		for _, sym := range r.rhs {
			if !sym.terminal && sym.name == StartName {
				return &GrammarError{Symbol: StartName, Detail: "START must not appear on a right hand side",
					Err: ErrStartSymbol}
			}
		}
	}
	if len(startRules) == 0 {
		return &GrammarError{Symbol: StartName, Detail: "START is not defined", Err: ErrStartSymbol}
	}
	if len(startRules) > 1 {
		return &GrammarError{Symbol: StartName, Detail: "START must have exactly one production",
			Err: ErrStartSymbol}
	}
	var rhs []Symbol
	for _, sym := range startRules[0].rhs {
		if !isEpsilonSymbol(sym) {
			rhs = append(rhs, sym)
		}
	}
	if len(rhs) != 1 || rhs[0].terminal {
		return &GrammarError{Symbol: StartName, Detail: "START must derive exactly one non-terminal",
			Err: ErrStartSymbol}
	}
	return nil
}

// reportUnreachable traces non-terminals which cannot be reached from START.
func (g *Grammar) reportUnreachable(trace tracing.Trace) {
	reached := make([]bool, g.symbols.Size())
	stack := []SymID{g.start}
	reached[g.start] = true
	for len(stack) > 0 {
		A := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range g.Productions(A) {
			for _, s := range p.rhs {
				if !g.IsTerminal(s) && !reached[s] {
					reached[s] = true
					stack = append(stack, s)
				}
			}
		}
	}
	for _, A := range g.nonterms {
		if !reached[A] {
			trace.Infof("non-terminal %s is unreachable from %s", g.Symbol(A), StartName)
		}
	}
}

// String returns a short description of the grammar.
func (g *Grammar) String() string {
	return fmt.Sprintf("grammar %s[%d]", g.Name, len(g.prods))
}
