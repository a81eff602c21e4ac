package lr

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/tools/container/intsets"
)

// LRAnalysis is an object for static analysis of a grammar: nullable
// non-terminals, FIRST sets and derivation relations. Create one with
//
//     ga := lr.Analysis(g)
//
// All sets are computed on creation and are read-only afterwards.
type LRAnalysis struct {
	g           *Grammar
	nullable    []bool
	first       []*intsets.Sparse // per non-terminal, without ε
	derivations []*intsets.Sparse // reachable through nullable prefixes, reflexive
	leftCorner  []*intsets.Sparse // reachable through first RHS symbols, reflexive
	seqCache    *lru.Cache[string, *intsets.Sparse]
	trace       tracing.Trace
}

// AnalysisOption configures a grammar analysis.
type AnalysisOption func(*LRAnalysis)

// AnalysisTracer sets an observer for the analysis, receiving the FIRST sets
// at level Debug. The default is the tracer with key 'lalrgen.lr'.
func AnalysisTracer(t tracing.Trace) AnalysisOption {
	return func(ga *LRAnalysis) {
		if t != nil {
			ga.trace = t
		}
	}
}

const firstCacheSize = 4096

// Analysis analyses a grammar.
func Analysis(g *Grammar, opts ...AnalysisOption) *LRAnalysis {
	n := g.Symbols().Size()
	ga := &LRAnalysis{
		g:           g,
		nullable:    make([]bool, n),
		first:       make([]*intsets.Sparse, n),
		derivations: make([]*intsets.Sparse, n),
		leftCorner:  make([]*intsets.Sparse, n),
		trace:       tracer(),
	}
	for _, opt := range opts {
		opt(ga)
	}
	for _, A := range g.NonTerminals() {
		ga.first[A] = &intsets.Sparse{}
		ga.derivations[A] = &intsets.Sparse{}
		ga.leftCorner[A] = &intsets.Sparse{}
	}
	if cache, err := lru.New[string, *intsets.Sparse](firstCacheSize); err == nil {
		ga.seqCache = cache
	}
	dots := ga.markNullable()
	ga.computeFirst(dots)
	ga.computeLeftCorners()
	if ga.trace.GetTraceLevel() >= tracing.LevelDebug {
		for _, A := range g.NonTerminals() {
			ga.trace.Debugf("FIRST(%v) = %s", g.Symbol(A), g.SetString(ga.First(A)))
		}
	}
	return ga
}

// Grammar returns the grammar this analysis is for.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// markNullable finds the nullable non-terminals. Every production carries a
// dot, which is moved past nullable symbols as long as possible. A production
// whose dot reaches the end makes its LHS nullable. Dots never move backwards,
// thus the iteration terminates. The final dots are returned.
func (ga *LRAnalysis) markNullable() []int {
	dots := make([]int, ga.g.Size())
	for changed := true; changed; {
		changed = false
		for _, p := range ga.g.prods {
			d := dots[p.Serial]
			for d < len(p.rhs) && !ga.g.IsTerminal(p.rhs[d]) && ga.nullable[p.rhs[d]] {
				d++
			}
			dots[p.Serial] = d
			if d == len(p.rhs) && !ga.nullable[p.LHS] {
				ga.nullable[p.LHS] = true
				changed = true
			}
		}
	}
	return dots
}

// computeFirst collects the terminals directly behind the nullable prefix of
// every production, and the non-terminals within the nullable prefix (plus the
// one at the dot). The latter form the derivation relation. Once it is closed
// transitively, FIRST(A) is the union of the direct terminals of all
// derivations B of A.
func (ga *LRAnalysis) computeFirst(dots []int) {
	direct := make([]*intsets.Sparse, len(ga.first))
	for _, A := range ga.g.NonTerminals() {
		direct[A] = &intsets.Sparse{}
	}
	for _, p := range ga.g.prods {
		d := dots[p.Serial]
		for i := 0; i <= d && i < len(p.rhs); i++ {
			if s := p.rhs[i]; !ga.g.IsTerminal(s) {
				direct[p.LHS].Insert(int(s))
			}
		}
		if d < len(p.rhs) && ga.g.IsTerminal(p.rhs[d]) {
			ga.first[p.LHS].Insert(int(p.rhs[d]))
		}
	}
	for _, A := range ga.g.NonTerminals() {
		ga.derivations[A].Insert(int(A))
		ga.derivations[A].UnionWith(direct[A])
	}
	ga.closeTransitively(ga.derivations)
	terms := make([]*intsets.Sparse, len(ga.first))
	for _, A := range ga.g.NonTerminals() {
		terms[A] = &intsets.Sparse{}
		terms[A].Copy(ga.first[A])
	}
	for _, A := range ga.g.NonTerminals() {
		for _, B := range ga.derivations[A].AppendTo(nil) {
			ga.first[A].UnionWith(terms[B])
		}
	}
}

// computeLeftCorners builds the reflexive-transitive relation "B is the first
// RHS symbol of a production of A". The CFSM uses it to enumerate the closure
// of an item with a non-terminal after the dot.
func (ga *LRAnalysis) computeLeftCorners() {
	for _, A := range ga.g.NonTerminals() {
		ga.leftCorner[A].Insert(int(A))
		for _, p := range ga.g.Productions(A) {
			if len(p.rhs) > 0 && !ga.g.IsTerminal(p.rhs[0]) {
				ga.leftCorner[A].Insert(int(p.rhs[0]))
			}
		}
	}
	ga.closeTransitively(ga.leftCorner)
}

func (ga *LRAnalysis) closeTransitively(rel []*intsets.Sparse) {
	for changed := true; changed; {
		changed = false
		for _, A := range ga.g.NonTerminals() {
			for _, B := range rel[A].AppendTo(nil) {
				if B != int(A) && rel[A].UnionWith(rel[B]) {
					changed = true
				}
			}
		}
	}
}

// Nullable is true if non-terminal A derives the empty word.
func (ga *LRAnalysis) Nullable(A SymID) bool {
	return ga.nullable[A]
}

// First returns FIRST(A) as a fresh set of symbol ids. For a terminal this is
// the terminal itself. For a nullable non-terminal the set contains Epsilon.
func (ga *LRAnalysis) First(A SymID) *intsets.Sparse {
	set := &intsets.Sparse{}
	if ga.g.IsTerminal(A) {
		set.Insert(int(A))
		return set
	}
	set.Copy(ga.first[A])
	if ga.nullable[A] {
		set.Insert(int(Epsilon))
	}
	return set
}

// Derivations returns the non-terminals reachable from A through chains of
// nullable prefixes, A included. Clients must not modify the set.
func (ga *LRAnalysis) Derivations(A SymID) *intsets.Sparse {
	return ga.derivations[A]
}

// LeftCorners returns the non-terminals reachable from A through first RHS
// symbols, A included. Clients must not modify the set.
func (ga *LRAnalysis) LeftCorners(A SymID) *intsets.Sparse {
	return ga.leftCorner[A]
}

// FirstOfSequence returns the terminals which may begin a string derived from
// beta followed by la. FIRST of the symbols is collected from left to right,
// stopping at the first symbol which is not nullable. If all of beta is
// nullable, la is included. Results are cached, clients must not modify them.
func (ga *LRAnalysis) FirstOfSequence(beta []SymID, la SymID) *intsets.Sparse {
	var key string
	if ga.seqCache != nil {
		key = seqKey(beta, la)
		if set, ok := ga.seqCache.Get(key); ok {
			return set
		}
	}
	set := &intsets.Sparse{}
	nullable := true
	for _, s := range beta {
		if ga.g.IsTerminal(s) {
			set.Insert(int(s))
			nullable = false
			break
		}
		set.UnionWith(ga.first[s])
		if !ga.nullable[s] {
			nullable = false
			break
		}
	}
	if nullable {
		set.Insert(int(la))
	}
	if ga.seqCache != nil {
		ga.seqCache.Add(key, set)
	}
	return set
}

func seqKey(beta []SymID, la SymID) string {
	var b strings.Builder
	for _, s := range beta {
		b.WriteString(strconv.Itoa(int(s)))
		b.WriteByte(' ')
	}
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(int(la)))
	return b.String()
}
