package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/lalrgen/lr/sparse"
	"github.com/npillmayer/schuko/tracing"
	"modernc.org/mathutil"
	"modernc.org/strutil"
)

// --- Actions ---------------------------------------------------------------

// ActionKind is the kind of a parser action.
type ActionKind int8

// Kinds of parser actions.
const (
	NoAction ActionKind = iota
	ShiftAction
	ReduceAction
	GotoAction
	AcceptAction
)

func (k ActionKind) String() string {
	switch k {
	case ShiftAction:
		return "shift"
	case ReduceAction:
		return "reduce"
	case GotoAction:
		return "goto"
	case AcceptAction:
		return "accept"
	}
	return "none"
}

// Action is an entry of a parse table. Target is the successor state for
// shift and goto actions, and the production for reduce actions.
type Action struct {
	Kind   ActionKind
	Target int
}

// Shift creates a shift action.
func Shift(state int) Action { return Action{Kind: ShiftAction, Target: state} }

// Reduce creates a reduce action.
func Reduce(prod int) Action { return Action{Kind: ReduceAction, Target: prod} }

// Goto creates a goto action.
func Goto(state int) Action { return Action{Kind: GotoAction, Target: state} }

// Accept creates an accept action.
func Accept() Action { return Action{Kind: AcceptAction} }

func (a Action) String() string {
	if a.Kind == AcceptAction || a.Kind == NoAction {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s %d", a.Kind, a.Target)
}

// Actions are stored in a sparse matrix as kind | target << 3.
func (a Action) encode() int32 {
	return int32(a.Target)<<3 | int32(a.Kind)
}

func decodeAction(v int32) (Action, bool) {
	if v == sparse.DefaultNullValue {
		return Action{}, false
	}
	return Action{Kind: ActionKind(v & 7), Target: int(v >> 3)}, true
}

// --- Table generator -------------------------------------------------------

// TableGenerator is a generator object to construct LALR(1) parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM, the lookahead channels and the parse table for G.
type TableGenerator struct {
	g                *Grammar
	ga               *LRAnalysis
	dfa              *CFSM
	channels         *Channels
	table            *ParseTable
	conflicts        []Conflict
	HasConflicts     bool
	trace            tracing.Trace
	strict           bool
	eagerPropagation bool
}

// Option configures a TableGenerator.
type Option func(*TableGenerator)

// WithTracer sets an observer for the table construction. It receives all
// diagnostic output of the generator. The default is the tracer with key
// 'lalrgen.lr'.
func WithTracer(t tracing.Trace) Option {
	return func(lrgen *TableGenerator) {
		if t != nil {
			lrgen.trace = t
		}
	}
}

// Strict makes CreateTables fail with ErrConflicts if the grammar is not LALR(1).
func Strict(b bool) Option {
	return func(lrgen *TableGenerator) {
		lrgen.strict = b
	}
}

// EagerPropagation connects a closure item carrying a terminal lookahead to
// its goto-successor by a propagation channel as well. This results in
// larger lookahead sets than LALR(1) lookaheads, and possibly in conflicts
// which a LALR(1) parser would not have. Off by default.
func EagerPropagation(b bool) Option {
	return func(lrgen *TableGenerator) {
		lrgen.eagerPropagation = b
	}
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis, opts ...Option) *TableGenerator {
	lrgen := &TableGenerator{
		g:     ga.Grammar(),
		ga:    ga,
		trace: tracer(),
	}
	for _, opt := range opts {
		opt(lrgen)
	}
	return lrgen
}

// CreateTables builds the CFSM, computes the lookahead channels and
// synthesizes the parse table. Conflicts do not stop the construction,
// unless the generator is in strict mode.
func (lrgen *TableGenerator) CreateTables() error {
	var err error
	if lrgen.dfa, err = lrgen.buildCFSM(); err != nil {
		return err
	}
	if lrgen.channels, err = lrgen.buildChannels(lrgen.dfa); err != nil {
		return err
	}
	if lrgen.table, err = lrgen.synthesize(); err != nil {
		return err
	}
	lrgen.HasConflicts = len(lrgen.conflicts) > 0
	if lrgen.HasConflicts {
		for _, c := range lrgen.conflicts {
			lrgen.trace.Infof("%s", c.Describe(lrgen.g))
		}
		if lrgen.strict {
			return fmt.Errorf("%w: %d conflicts", ErrConflicts, len(lrgen.conflicts))
		}
	}
	return nil
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously. Returns nil if construction fails.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		dfa, err := lrgen.buildCFSM()
		if err != nil {
			lrgen.trace.Errorf("cannot build CFSM: %v", err)
			return nil
		}
		lrgen.dfa = dfa
	}
	return lrgen.dfa
}

// Channels returns the lookahead channels, available after CreateTables().
func (lrgen *TableGenerator) Channels() *Channels {
	return lrgen.channels
}

// ParseTable returns the parse table, available after CreateTables().
func (lrgen *TableGenerator) ParseTable() *ParseTable {
	if lrgen.table == nil {
		lrgen.trace.Errorf("tables not yet generated; call CreateTables() first")
	}
	return lrgen.table
}

// Conflicts returns the conflicts detected during table synthesis.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return lrgen.conflicts
}

// synthesize merges states, lookaheads and transitions into a parse table.
// For every state, reductions are written first, ordered by production, then
// shifts and gotos, ordered by symbol. Transitions on ε are folded after all
// states have been written: the actions of the ε-successor are copied into
// the predecessor. A later write to a cell wins; the cell keeps the
// displaced action as its second value.
func (lrgen *TableGenerator) synthesize() (*ParseTable, error) {
	trace := lrgen.trace
	trace.Debugf("=== synthesize parse table ======================================")
	g := lrgen.g
	pt := newParseTable(g, lrgen.dfa.Size())
	lrgen.conflicts = nil
	var folds [][2]int
	lrgen.dfa.EachState(func(s *CFSMState) {
		for _, si := range lrgen.channels.ItemsOf(s.ID) {
			if !g.IsComplete(si.Item) {
				continue
			}
			A := Reduce(si.Item.Prod)
			if si.Item.Prod == 0 {
				A = Accept()
			}
			for _, la := range lrgen.channels.Lookaheads(si).AppendTo(nil) {
				lrgen.write(pt, s.ID, SymID(la), A)
			}
		}
		s.EachTransition(func(X SymID, to *CFSMState) {
			switch {
			case X == Epsilon:
				folds = append(folds, [2]int{s.ID, to.ID})
			case g.IsTerminal(X):
				lrgen.write(pt, s.ID, X, Shift(to.ID))
			default:
				lrgen.write(pt, s.ID, X, Goto(to.ID))
			}
		})
	})
	for _, fold := range folds {
		from, to := fold[0], fold[1]
		pt.folded[to] = true
		for _, e := range pt.Actions(to) {
			trace.Debugf("fold ε-state %d into %d: %v %v", to, from, g.Symbol(e.Symbol), e.Action)
			lrgen.write(pt, from, e.Symbol, e.Action)
		}
	}
	trace.Infof("parse table has %d states and %d entries", pt.StateCount(), pt.matrix.ValueCount())
	return pt, nil
}

func (lrgen *TableGenerator) write(pt *ParseTable, state int, X SymID, A Action) {
	if old, ok := pt.Action(state, X); ok && old != A {
		c := Conflict{
			State:     state,
			Symbol:    X,
			Kind:      conflictKind(old, A),
			Retained:  A,
			Displaced: old,
		}
		lrgen.conflicts = append(lrgen.conflicts, c)
		lrgen.trace.Debugf("%s", c.Describe(lrgen.g))
	}
	pt.matrix.Push(state, int(X), A.encode())
}

// AcceptingStates returns all states with an accept action.
// Clients have to call CreateTables() first.
func (lrgen *TableGenerator) AcceptingStates() []int {
	if lrgen.table == nil {
		lrgen.trace.Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	var acc []int
	for state := 0; state < lrgen.table.StateCount(); state++ {
		if A, ok := lrgen.table.Action(state, EOF); ok && A.Kind == AcceptAction {
			acc = append(acc, state)
		}
	}
	return acc
}

// --- Parse table -----------------------------------------------------------

// ParseTable maps (state, symbol) to parser actions. Terminals map to shift,
// reduce or accept actions, non-terminals map to goto actions. A missing entry
// denotes a syntax error.
//
// States reached by ε-transitions only are folded into their predecessors.
// They keep their rows, so state IDs stay dense, but a parser never enters them.
type ParseTable struct {
	g      *Grammar
	matrix *sparse.IntMatrix
	folded []bool
}

// Entry is a single entry of a parse table row.
type Entry struct {
	Symbol SymID
	Action Action
}

func newParseTable(g *Grammar, states int) *ParseTable {
	return &ParseTable{
		g:      g,
		matrix: sparse.NewIntMatrix(states, g.Symbols().Size(), sparse.DefaultNullValue),
		folded: make([]bool, states),
	}
}

// Grammar returns the grammar the table has been generated for.
func (pt *ParseTable) Grammar() *Grammar {
	return pt.g
}

// StateCount returns the number of states.
func (pt *ParseTable) StateCount() int {
	return pt.matrix.M()
}

// IsFolded is true for ε-states which have been folded into their predecessors.
func (pt *ParseTable) IsFolded(state int) bool {
	return state >= 0 && state < len(pt.folded) && pt.folded[state]
}

// EntryCount returns the number of occupied table cells.
func (pt *ParseTable) EntryCount() int {
	return pt.matrix.ValueCount()
}

func (pt *ParseTable) inRange(state int, X SymID) bool {
	return state >= 0 && state < pt.matrix.M() && X >= 0 && int(X) < pt.matrix.N()
}

// Action returns the action for a state and a symbol.
func (pt *ParseTable) Action(state int, X SymID) (Action, bool) {
	if !pt.inRange(state, X) {
		return Action{}, false
	}
	return decodeAction(pt.matrix.Value(state, int(X)))
}

// Displaced returns the action which has been overwritten by the action for
// (state, X), if any.
func (pt *ParseTable) Displaced(state int, X SymID) (Action, bool) {
	if !pt.inRange(state, X) {
		return Action{}, false
	}
	_, v := pt.matrix.Values(state, int(X))
	return decodeAction(v)
}

// Actions returns all entries for a state, ordered by symbol.
func (pt *ParseTable) Actions(state int) []Entry {
	var row []Entry
	pt.matrix.EachInRow(state, func(j int, a, _ int32) {
		if A, ok := decodeAction(a); ok {
			row = append(row, Entry{Symbol: SymID(j), Action: A})
		}
	})
	return row
}

// Expected returns the terminals for which a state has an action.
func (pt *ParseTable) Expected(state int) []SymID {
	var terms []SymID
	for _, e := range pt.Actions(state) {
		if pt.g.IsTerminal(e.Symbol) {
			terms = append(terms, e.Symbol)
		}
	}
	return terms
}

// Dump writes the table to w, one block per state.
func (pt *ParseTable) Dump(w io.Writer) {
	width := 0
	pt.g.Symbols().Each(func(A Symbol) {
		width = mathutil.Max(width, len([]rune(A.String())))
	})
	f := strutil.IndentFormatter(w, "  ")
	f.Format("Actions:%i\n")
	for state := 0; state < pt.StateCount(); state++ {
		if pt.IsFolded(state) {
			f.Format("state %d (folded ε-state)%i\n", state)
		} else {
			f.Format("state %d%i\n", state)
		}
		for _, e := range pt.Actions(state) {
			name := pt.g.Symbol(e.Symbol).String()
			pad := strings.Repeat(" ", width-len([]rune(name)))
			if d, ok := pt.Displaced(state, e.Symbol); ok {
				f.Format("%s%s  %v  (displaced %v)\n", name, pad, e.Action, d)
			} else {
				f.Format("%s%s  %v\n", name, pad, e.Action)
			}
		}
		f.Format("%u")
	}
	f.Format("%u")
}

// ParseTableAsHTML exports a parse table in HTML-format. Cells with a
// displaced action show both actions.
func ParseTableAsHTML(pt *ParseTable, w io.Writer) error {
	var b strings.Builder
	var columns []Symbol
	pt.g.Symbols().Each(func(A Symbol) {
		if A.ID() != Epsilon && A.ID() != Placeholder {
			columns = append(columns, A)
		}
	})
	b.WriteString("<html><body>\n")
	fmt.Fprintf(&b, "<p>%s: %d states, %d entries</p>\n", pt.g, pt.StateCount(), pt.matrix.ValueCount())
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>")
	for _, A := range columns {
		fmt.Fprintf(&b, "<td>%s</td>", htmlEscaper.Replace(A.String()))
	}
	b.WriteString("</tr>\n")
	for state := 0; state < pt.StateCount(); state++ {
		if pt.IsFolded(state) {
			fmt.Fprintf(&b, "<tr bgcolor=#eeeeee><td>state %d (folded ε-state)</td>", state)
		} else {
			fmt.Fprintf(&b, "<tr><td>state %d</td>", state)
		}
		for _, A := range columns {
			td := "&nbsp;"
			if a, ok := pt.Action(state, A.ID()); ok {
				td = a.String()
				if d, ok := pt.Displaced(state, A.ID()); ok {
					td = fmt.Sprintf("<b>%v</b>/%v", a, d)
				}
			}
			fmt.Fprintf(&b, "<td>%s</td>", td)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
