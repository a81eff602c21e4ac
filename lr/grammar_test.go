package lr

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// Grammars used throughout the tests of this package.

// START ➞ E ; E ➞ E + T | T ; T ➞ T * F | F ; F ➞ ( E ) | id
func makeExpressionGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Expressions")
	b.LHS("START").N("E").End()
	b.LHS("E").N("E").Lit(KindSym, "+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").N("T").Lit(KindSym, "*").N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").Lit(KindSym, "(").N("E").Lit(KindSym, ")").End()
	b.LHS("F").T(KindID).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// START ➞ R ; R ➞ - R | NUM
func makeNegationGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Negation")
	b.LHS("START").N("R").End()
	b.LHS("R").Lit(KindSym, "-").N("R").End()
	b.LHS("R").T(KindNum).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// START ➞ L ; L ➞ a L | ε
func makeListGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("List")
	b.LHS("START").N("L").End()
	b.LHS("L").Lit(KindID, "a").N("L").End()
	b.LHS("L").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// START ➞ A ; A ➞ B D ; B ➞ b | ε ; D ➞ NUM | ε
func makeNullableGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("G")
	b.LHS("START").N("A").End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").Lit(KindKey, "b").End()
	b.LHS("B").Epsilon()
	b.LHS("D").T(KindNum).End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func sym(t *testing.T, g *Grammar, s Symbol) SymID {
	id, ok := g.Symbols().Lookup(s)
	if !ok {
		t.Fatalf("symbol %v not found in grammar %s", s, g.Name)
	}
	return id
}

// --- Tests -----------------------------------------------------------------

func TestGrammarLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Interleaved")
	b.LHS("A").Lit(KindSym, "x").End()
	b.LHS("START").N("A").End()
	b.LHS("B").Lit(KindSym, "y").End()
	b.LHS("A").N("B").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.Start() != 3 {
		t.Errorf("expected START to have id 3, has %d", g.Start())
	}
	if p := g.StartProduction(); p.LHS != g.Start() || p.Serial != 0 {
		t.Errorf("expected production 0 to be the start production")
	}
	A := sym(t, g, NonTerminal("A"))
	from, to := g.Range(A)
	if from != 1 || to != 3 {
		t.Errorf("expected productions of A at [1,3), are at [%d,%d)", from, to)
	}
	for _, p := range g.Productions(A) {
		if p.LHS != A {
			t.Errorf("production %d in range of A has LHS %v", p.Serial, g.Symbol(p.LHS))
		}
	}
	if from, to = g.Range(sym(t, g, Terminal(KindSym, "x"))); from != to {
		t.Errorf("expected empty range for terminal")
	}
	if len(g.NonTerminals()) != 3 || len(g.Terminals()) != 2 {
		t.Errorf("expected 3 non-terminals and 2 terminals, have %d and %d",
			len(g.NonTerminals()), len(g.Terminals()))
	}
}

func TestGrammarEpsilonStripped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Eps")
	b.LHS("START").N("A").Sym(Terminal(KindEpsilon, "")).End()
	b.LHS("A").Sym(Terminal(KindEpsilon, "")).End()
	b.LHS("A").Lit(KindSym, "x").Sym(Terminal(KindEpsilon, "")).N("A").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if !g.Production(1).IsEpsilon() {
		t.Errorf("expected A ➞ ε to be an epsilon production, is %s", g.ProductionString(g.Production(1)))
	}
	if g.Production(2).Len() != 2 {
		t.Errorf("expected ε to be stripped from A ➞ x ε A")
	}
	if s := g.ProductionString(g.Production(1)); s != "A ➞ ε" {
		t.Errorf("unexpected production string %q", s)
	}
}

func TestGrammarErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.lr")
	defer teardown()
	//
	tests := []struct {
		name  string
		build func(b *GrammarBuilder)
		err   error
	}{
		{"undefined", func(b *GrammarBuilder) {
			b.LHS("START").N("A").End()
			b.LHS("A").N("X").N("Y").End()
		}, ErrUndefinedNonTerminal},
		{"no start", func(b *GrammarBuilder) {
			b.LHS("A").Lit(KindSym, "x").End()
		}, ErrStartSymbol},
		{"start twice", func(b *GrammarBuilder) {
			b.LHS("START").N("A").End()
			b.LHS("START").N("A").End()
			b.LHS("A").Lit(KindSym, "x").End()
		}, ErrStartSymbol},
		{"start with terminal", func(b *GrammarBuilder) {
			b.LHS("START").Lit(KindSym, "x").End()
		}, ErrStartSymbol},
		{"start with two symbols", func(b *GrammarBuilder) {
			b.LHS("START").N("A").N("A").End()
			b.LHS("A").Lit(KindSym, "x").End()
		}, ErrStartSymbol},
		{"start on rhs", func(b *GrammarBuilder) {
			b.LHS("START").N("A").End()
			b.LHS("A").N("START").End()
		}, ErrStartSymbol},
		{"reserved", func(b *GrammarBuilder) {
			b.LHS("START").N("A").End()
			b.LHS("A").Sym(Terminal(KindEOF, "")).End()
		}, ErrReservedSymbol},
		{"placeholder", func(b *GrammarBuilder) {
			b.LHS("START").N("A").End()
			b.LHS("A").Sym(Terminal(KindPlaceholder, "")).End()
		}, ErrReservedSymbol},
	}
	for _, test := range tests {
		b := NewGrammarBuilder(test.name)
		test.build(b)
		g, err := b.Grammar()
		if err == nil {
			t.Errorf("%s: expected error, got grammar %v", test.name, g)
			continue
		}
		if !errors.Is(err, test.err) {
			t.Errorf("%s: expected %v, got %v", test.name, test.err, err)
		}
		var gerr *GrammarError
		if !errors.As(err, &gerr) || gerr.Symbol == "" {
			t.Errorf("%s: expected a GrammarError naming a symbol, got %v", test.name, err)
		}
	}
}

func TestGrammarUndefinedNamesAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Undefined")
	b.LHS("START").N("A").End()
	b.LHS("A").N("X").N("Y").N("X").End()
	_, err := b.Grammar()
	var gerr *GrammarError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GrammarError, got %v", err)
	}
	if gerr.Symbol != "X, Y" {
		t.Errorf("expected undefined symbols 'X, Y', got %q", gerr.Symbol)
	}
}

func TestGrammarDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.lr")
	defer teardown()
	//
	g := makeNullableGrammar(t)
	var buf bytes.Buffer
	g.Dump(&buf)
	for _, line := range []string{"0: START ➞ A", "2: B ➞ KEY(b)", "3: B ➞ ε", "4: D ➞ NUM()"} {
		if !strings.Contains(buf.String(), line) {
			t.Errorf("expected dump to contain %q, is\n%s", line, buf.String())
		}
	}
}
