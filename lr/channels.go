package lr

import (
	"io"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
	"modernc.org/strutil"
)

// Channels holds the lookahead channels of a CFSM: spontaneously generated
// lookaheads and propagation edges between signed items, as well as the
// lookahead sets after flooding the channels.
//
// Signed items are mapped to dense integers in order of their first
// appearance; all relations are kept as bit sets over these integers.
type Channels struct {
	g           *Grammar
	items       []SignedItem       // arena of signed items
	index       map[SignedItem]int // signed item → arena index
	spontaneous []*intsets.Sparse  // per signed item: terminals
	propagated  []*intsets.Sparse  // per signed item: arena indices of targets
	lookaheads  []*intsets.Sparse  // per signed item: terminals, after flooding
}

func newChannels(g *Grammar) *Channels {
	return &Channels{
		g:     g,
		index: make(map[SignedItem]int),
	}
}

// node returns the arena index of a signed item, allocating it if necessary.
func (ch *Channels) node(si SignedItem) int {
	si.Item = si.Item.Core()
	if n, ok := ch.index[si]; ok {
		return n
	}
	n := len(ch.items)
	ch.items = append(ch.items, si)
	ch.index[si] = n
	ch.spontaneous = append(ch.spontaneous, &intsets.Sparse{})
	ch.propagated = append(ch.propagated, &intsets.Sparse{})
	ch.lookaheads = append(ch.lookaheads, &intsets.Sparse{})
	return n
}

func (ch *Channels) addSpontaneous(si SignedItem, la SymID) {
	ch.spontaneous[ch.node(si)].Insert(int(la))
}

func (ch *Channels) addPropagation(from, to SignedItem) {
	f := ch.node(from)
	ch.propagated[f].Insert(ch.node(to))
}

// Size returns the number of signed items taking part in lookahead channels.
func (ch *Channels) Size() int {
	return len(ch.items)
}

// Spontaneous returns the lookaheads generated spontaneously for a signed
// item. Clients must not modify the set.
func (ch *Channels) Spontaneous(si SignedItem) *intsets.Sparse {
	if n, ok := ch.index[SignedItem{si.State, si.Item.Core()}]; ok {
		return ch.spontaneous[n]
	}
	return &intsets.Sparse{}
}

// Propagated returns the signed items which receive the lookaheads of si.
func (ch *Channels) Propagated(si SignedItem) []SignedItem {
	n, ok := ch.index[SignedItem{si.State, si.Item.Core()}]
	if !ok {
		return nil
	}
	var targets []SignedItem
	for _, t := range ch.propagated[n].AppendTo(nil) {
		targets = append(targets, ch.items[t])
	}
	return targets
}

// Lookaheads returns the flooded lookahead set of a signed item.
// Clients must not modify the set.
func (ch *Channels) Lookaheads(si SignedItem) *intsets.Sparse {
	if n, ok := ch.index[SignedItem{si.State, si.Item.Core()}]; ok {
		return ch.lookaheads[n]
	}
	return &intsets.Sparse{}
}

// ItemsOf returns the signed items of a state which take part in lookahead
// channels, ordered by production and dot.
func (ch *Channels) ItemsOf(state int) []SignedItem {
	var sis []SignedItem
	for _, si := range ch.items {
		if si.State == state {
			sis = append(sis, si)
		}
	}
	slices.SortFunc(sis, func(a, b SignedItem) bool {
		return itemLess(a.Item, b.Item)
	})
	return sis
}

// flood saturates the lookahead sets. It starts from the spontaneous
// lookaheads and pushes them along propagation edges, re-visiting a signed
// item whenever its lookahead set grows.
func (ch *Channels) flood() {
	queued := make([]bool, len(ch.items))
	var worklist []int
	for n := range ch.items {
		ch.lookaheads[n].Copy(ch.spontaneous[n])
		if !ch.lookaheads[n].IsEmpty() {
			worklist = append(worklist, n)
			queued[n] = true
		}
	}
	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]
		queued[n] = false
		for _, t := range ch.propagated[n].AppendTo(nil) {
			if ch.lookaheads[t].UnionWith(ch.lookaheads[n]) && !queued[t] {
				worklist = append(worklist, t)
				queued[t] = true
			}
		}
	}
}

// Dump writes spontaneous lookaheads, propagation edges and flooded
// lookaheads to w.
func (ch *Channels) Dump(w io.Writer) {
	f := strutil.IndentFormatter(w, "  ")
	f.Format("Channels:%i\nSpontaneous%i\n")
	for n, si := range ch.items {
		if !ch.spontaneous[n].IsEmpty() {
			f.Format("%s ⇒ %s\n", ch.g.SignedItemString(si), ch.g.SetString(ch.spontaneous[n]))
		}
	}
	f.Format("%uPropagated%i\n")
	for n, si := range ch.items {
		for _, t := range ch.propagated[n].AppendTo(nil) {
			f.Format("%s → %s\n", ch.g.SignedItemString(si), ch.g.SignedItemString(ch.items[t]))
		}
	}
	f.Format("%u%uLookaheads:%i\n")
	for n, si := range ch.items {
		f.Format("%s %s\n", ch.g.SignedItemString(si), ch.g.SetString(ch.lookaheads[n]))
	}
	f.Format("%u")
}

// === Channel construction ==================================================

// buildChannels computes the lookahead channels for a CFSM. For every kernel
// item of every state an LR(1) closure is computed, seeded with the
// placeholder lookahead '#'. Every item of the closure tells us something:
//
//   - a complete item with lookahead '#' receives the lookaheads of the seed
//   - a complete item with a terminal lookahead a has a spontaneous lookahead a
//   - an incomplete item B ➞ α • X β, [a] passes a on to B ➞ α X • β in the
//     X-successor state, spontaneously if a is a terminal, and by propagation
//     from the seed if a is '#'
//
// The start item of state 0 is seeded with lookahead $.
func (lrgen *TableGenerator) buildChannels(cfsm *CFSM) (*Channels, error) {
	trace := lrgen.trace
	trace.Debugf("=== build lookahead channels ====================================")
	g := lrgen.g
	ch := newChannels(g)
	var err error
	cfsm.EachState(func(s *CFSMState) {
		if err != nil {
			return
		}
		for _, k := range s.kernel {
			seed := SignedItem{State: s.ID, Item: k}
			ch.node(seed)
			closure := lrgen.closure1(k.WithLookahead(Placeholder))
			trace.Debugf("closure of %s = %d items", g.SignedItemString(seed), len(closure))
			for _, B := range closure {
				if g.IsComplete(B) {
					here := SignedItem{State: s.ID, Item: B.Core()}
					if B.LA == Placeholder {
						ch.addPropagation(seed, here)
					} else {
						ch.addSpontaneous(here, B.LA)
					}
					continue
				}
				X := g.PeekSymbol(B)
				to := s.Transition(X)
				if to == nil {
					err = internalError("state %d has no transition on %v for item %s",
						s.ID, g.Symbol(X), g.ItemString(B))
					return
				}
				there := SignedItem{State: to.ID, Item: B.Advance().Core()}
				if B.LA != Placeholder {
					ch.addSpontaneous(there, B.LA)
					if !lrgen.eagerPropagation {
						continue
					}
				}
				ch.addPropagation(seed, there)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	ch.addSpontaneous(SignedItem{State: cfsm.S0.ID, Item: CoreItem(0, 0)}, EOF)
	ch.flood()
	trace.Infof("lookahead channels connect %d signed items", ch.Size())
	return ch, nil
}

// closure1 computes the LR(1) closure of a single item. For every item
// A ➞ α • B β, [a] the items B ➞ • γ, [b] are added for every production of B
// and every terminal b in FIRST(β a). The result is ordered by discovery.
func (lrgen *TableGenerator) closure1(seed Item) []Item {
	g := lrgen.g
	closure := []Item{seed}
	seen := map[Item]bool{seed: true}
	for n := 0; n < len(closure); n++ {
		i := closure[n]
		B := g.PeekSymbol(i)
		if B == NoSymbol || g.IsTerminal(B) {
			continue
		}
		first := lrgen.ga.FirstOfSequence(g.Beta(i), i.LA).AppendTo(nil)
		for _, p := range g.Productions(B) {
			for _, b := range first {
				item := Item{Prod: p.Serial, Dot: 0, LA: SymID(b)}
				if !seen[item] {
					seen[item] = true
					closure = append(closure, item)
				}
			}
		}
	}
	return closure
}
