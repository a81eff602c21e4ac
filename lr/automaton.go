package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/treemap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar. A state is identified by
// its kernel, a set of core items.
type CFSMState struct {
	ID          int          // serial ID of this state, in order of discovery
	kernel      kernel       // core items defining this state
	transitions *treemap.Map // SymID → *CFSMState
	Accept      bool         // does the state contain the completed start item?
}

func newState(id int, k kernel) *CFSMState {
	return &CFSMState{
		ID:          id,
		kernel:      k,
		transitions: treemap.NewWithIntComparator(),
	}
}

// Kernel returns the kernel items of the state. Clients must not modify them.
func (s *CFSMState) Kernel() []Item {
	return s.kernel
}

// Transition returns the successor state for a symbol, or nil.
func (s *CFSMState) Transition(sym SymID) *CFSMState {
	if v, found := s.transitions.Get(int(sym)); found {
		return v.(*CFSMState)
	}
	return nil
}

// EachTransition iterates over the transitions of s in order of ascending
// symbol id.
func (s *CFSMState) EachTransition(f func(sym SymID, to *CFSMState)) {
	it := s.transitions.Iterator()
	for it.Next() {
		f(SymID(it.Key().(int)), it.Value().(*CFSMState))
	}
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, len(s.kernel))
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. It will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some
// methods defined on it, e.g., for debugging purposes.
type CFSM struct {
	g       *Grammar
	byID    []*CFSMState          // states indexed by ID
	kernels map[string]*CFSMState // kernel key → state
	S0      *CFSMState            // start state
}

func emptyCFSM(g *Grammar) *CFSM {
	return &CFSM{
		g:       g,
		kernels: make(map[string]*CFSMState),
	}
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return len(c.byID)
}

// State returns the state with a given ID.
func (c *CFSM) State(id int) (*CFSMState, error) {
	if id < 0 || id >= len(c.byID) {
		return nil, internalError("no state with ID %d", id)
	}
	return c.byID[id], nil
}

// EachState iterates over all states in order of their IDs.
func (c *CFSM) EachState(f func(s *CFSMState)) {
	for _, s := range c.byID {
		f(s)
	}
}

// addState finds the state for a kernel or creates a new one. The second
// return value is true for new states.
func (c *CFSM) addState(k kernel) (*CFSMState, bool) {
	key := k.sorted().key()
	if s, ok := c.kernels[key]; ok {
		return s, false
	}
	s := newState(len(c.byID), k)
	for _, i := range k {
		if i.Prod == 0 && c.g.IsComplete(i) {
			s.Accept = true
		}
	}
	c.kernels[key] = s
	c.byID = append(c.byID, s)
	return s, true
}

// Construct the characteristic finite state machine CFSM for a grammar.
// States are discovered breadth first, starting with the kernel
// { START ➞ • S }. Instead of materializing the closure of a state, every
// kernel item with a non-terminal X after the dot is expanded by the
// productions of the left corners of X: those productions have the dot
// after their first symbol in the successor state. Epsilon-productions are
// collected under the pseudo goto-symbol ε.
func (lrgen *TableGenerator) buildCFSM() (*CFSM, error) {
	trace := lrgen.trace
	trace.Debugf("=== build CFSM ==================================================")
	g := lrgen.g
	cfsm := emptyCFSM(g)
	cfsm.S0, _ = cfsm.addState(kernel{CoreItem(0, 0)})
	queue := arraylist.New()
	queue.Add(cfsm.S0)
	for !queue.Empty() {
		v, _ := queue.Get(0)
		queue.Remove(0)
		s := v.(*CFSMState)
		groups, err := lrgen.gotoKernels(s)
		if err != nil {
			return nil, err
		}
		syms := maps.Keys(groups)
		slices.Sort(syms)
		for _, A := range syms {
			to, isNew := cfsm.addState(groups[A])
			if isNew {
				queue.Add(to)
			}
			s.transitions.Put(int(A), to)
			trace.Debugf("goto(%d, %v) = %d", s.ID, g.Symbol(A), to.ID)
		}
	}
	trace.Infof("CFSM for %s has %d states", g, cfsm.Size())
	return cfsm, nil
}

// gotoKernels computes the successor kernels of a state, grouped by goto symbol.
func (lrgen *TableGenerator) gotoKernels(s *CFSMState) (map[SymID]kernel, error) {
	g := lrgen.g
	groups := make(map[SymID]kernel)
	for _, i := range s.kernel {
		if err := g.checkItem(i); err != nil {
			return nil, err
		}
		X := g.PeekSymbol(i)
		if X == NoSymbol {
			continue
		}
		groups[X] = groups[X].add(i.Advance())
		if g.IsTerminal(X) {
			continue
		}
		for _, B := range lrgen.ga.LeftCorners(X).AppendTo(nil) {
			for _, p := range g.Productions(SymID(B)) {
				if p.IsEpsilon() {
					groups[Epsilon] = groups[Epsilon].add(CoreItem(p.Serial, 0))
				} else {
					groups[p.rhs[0]] = groups[p.rhs[0]].add(CoreItem(p.Serial, 1))
				}
			}
		}
	}
	return groups, nil
}

// --- Export ----------------------------------------------------------------

// ToGraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) ToGraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	c.EachState(func(s *CFSMState) {
		fmt.Fprintf(&b, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, c.kernelForGraphviz(s))
	})
	c.EachState(func(s *CFSMState) {
		s.EachTransition(func(A SymID, to *CFSMState) {
			fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%s\"]\n", s.ID, to.ID,
				escapeGraphviz(c.g.Symbol(A).String()))
		})
	})
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (c *CFSM) kernelForGraphviz(s *CFSMState) string {
	items := make([]string, len(s.kernel))
	for k, i := range s.kernel {
		items[k] = escapeGraphviz(c.g.ItemString(i))
	}
	return strings.Join(items, "\\l") + "\\l"
}

var graphvizEscaper = strings.NewReplacer(
	`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escapeGraphviz(s string) string {
	return graphvizEscaper.Replace(s)
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}
