package lr

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"golang.org/x/exp/slices"
)

// Item is an LR item (production, dot position, lookahead). LR(0) items, also
// called core items, carry lookahead NoSymbol.
type Item struct {
	Prod int   // index of the production
	Dot  int   // number of RHS symbols already matched
	LA   SymID `hash:"-"` // lookahead terminal or NoSymbol
}

// CoreItem creates an LR(0) item.
func CoreItem(prod, dot int) Item {
	return Item{Prod: prod, Dot: dot, LA: NoSymbol}
}

// Core strips the lookahead from an item.
func (i Item) Core() Item {
	i.LA = NoSymbol
	return i
}

// Advance moves the dot by one symbol. The lookahead is preserved.
func (i Item) Advance() Item {
	i.Dot++
	return i
}

// WithLookahead returns a copy of i with lookahead la.
func (i Item) WithLookahead(la SymID) Item {
	i.LA = la
	return i
}

// IsComplete is true if the dot is behind the last RHS symbol.
func (g *Grammar) IsComplete(i Item) bool {
	return i.Dot >= g.prods[i.Prod].Len()
}

// PeekSymbol returns the symbol after the dot, or NoSymbol for complete items.
func (g *Grammar) PeekSymbol(i Item) SymID {
	p := g.prods[i.Prod]
	if i.Dot >= p.Len() {
		return NoSymbol
	}
	return p.rhs[i.Dot]
}

// Beta returns the RHS symbols following the symbol after the dot.
func (g *Grammar) Beta(i Item) []SymID {
	p := g.prods[i.Prod]
	if i.Dot+1 >= p.Len() {
		return nil
	}
	return p.rhs[i.Dot+1:]
}

// checkItem verifies that an item refers to an existing production and its
// dot stays within the production.
func (g *Grammar) checkItem(i Item) error {
	if i.Prod < 0 || i.Prod >= len(g.prods) {
		return internalError("item refers to unknown production %d", i.Prod)
	}
	if i.Dot < 0 || i.Dot > g.prods[i.Prod].Len() {
		return internalError("dot of item %d.%d exceeds production length", i.Prod, i.Dot)
	}
	return nil
}

// ItemString returns an item as 'A ➞ B • c, [$]'.
func (g *Grammar) ItemString(i Item) string {
	p := g.prods[i.Prod]
	var b strings.Builder
	b.WriteString(g.Symbol(p.LHS).String())
	b.WriteString(" ➞")
	for k, s := range p.rhs {
		if k == i.Dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(g.Symbol(s).String())
	}
	if i.Dot >= p.Len() {
		b.WriteString(" •")
	}
	if i.LA != NoSymbol {
		fmt.Fprintf(&b, ", [%s]", g.Symbol(i.LA))
	}
	return b.String()
}

func itemLess(a, b Item) bool {
	if a.Prod != b.Prod {
		return a.Prod < b.Prod
	}
	if a.Dot != b.Dot {
		return a.Dot < b.Dot
	}
	return a.LA < b.LA
}

// --- Kernels ---------------------------------------------------------------

// kernel is a set of core items, kept sorted and free of duplicates.
type kernel []Item

func (k kernel) add(i Item) kernel {
	i = i.Core()
	if slices.Contains(k, i) {
		return k
	}
	return append(k, i)
}

func (k kernel) sorted() kernel {
	slices.SortFunc(k, itemLess)
	return k
}

// key identifies a kernel. States with equal kernel keys are the same state.
func (k kernel) key() string {
	return string(structhash.Dump(struct{ Items []Item }{Items: k}, 1))
}

// --- Signed items ----------------------------------------------------------

// SignedItem is a core item within a specific state; lookaheads are
// accumulated per signed item.
type SignedItem struct {
	State int
	Item  Item
}

// SignedItemString returns a signed item as '(3, A ➞ B • c)'.
func (g *Grammar) SignedItemString(si SignedItem) string {
	return fmt.Sprintf("(%d, %s)", si.State, g.ItemString(si.Item))
}
