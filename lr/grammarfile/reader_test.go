package grammarfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/tools/txtar"
)

func productions(g *lr.Grammar) string {
	var b strings.Builder
	g.EachProduction(func(p *lr.Production) {
		b.WriteString(g.ProductionString(p))
		b.WriteByte('\n')
	})
	return b.String()
}

func TestGrammarFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.grammar")
	defer teardown()
	//
	archive, err := txtar.ParseFile(filepath.Join("testdata", "grammars.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	golden := make(map[string]string)
	for _, f := range archive.Files {
		golden[f.Name] = string(f.Data)
	}
	count := 0
	for _, f := range archive.Files {
		if filepath.Ext(f.Name) != ".grammar" {
			continue
		}
		count++
		g, err := Parse(f.Name, f.Data)
		if err != nil {
			t.Errorf("%s: %v", f.Name, err)
			continue
		}
		if g.Name != strings.TrimSuffix(f.Name, ".grammar") {
			t.Errorf("expected grammar to be named after its file, is %q", g.Name)
		}
		want := golden[strings.TrimSuffix(f.Name, ".grammar")+".productions"]
		if have := productions(g); have != want {
			diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(want),
				B:        difflib.SplitLines(have),
				FromFile: "expected",
				ToFile:   "parsed",
				Context:  2,
			})
			t.Errorf("%s: productions differ:\n%s", f.Name, diff)
		}
	}
	if count != 3 {
		t.Errorf("expected 3 grammars in archive, found %d", count)
	}
}

func TestGrammarFileErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.grammar")
	defer teardown()
	//
	for i, test := range []struct {
		src  string
		err  error
		text string
	}{
		{"START > A\nA > ID() ;", ErrSyntax, "t.grammar:2:3: missing ';'"},
		{"START > A ;\nA > ID() @ ;", ErrSyntax, "t.grammar:2:10: unknown symbol"},
		{"START > A ;\nA > FOO(x) ;", ErrSyntax, "t.grammar:2:5: illegal terminal type FOO"},
		{"START > A ;\nA > COMMENT() ;", ErrSyntax, "illegal terminal type COMMENT"},
		{"START > A ;\nA > ID() ;\nA > NUM() ;", ErrSyntax, "t.grammar:3:1: non-terminal A is already defined"},
		{"START > A ;\nSTART > B ;", lr.ErrStartSymbol, "t.grammar:2:1: START can only be defined once"},
		{"START > A ;\nA > SYM(() START ;", lr.ErrStartSymbol, "t.grammar:2:12"},
		{"START > A", ErrSyntax, "end of file while defining START"},
		{"START A ;", ErrSyntax, "expected '>' after START"},
		{"START > A ;\nA > B ;", lr.ErrUndefinedNonTerminal, "B"},
		{"START > A | B ;\nA > ;\nB > ;", lr.ErrStartSymbol, ""},
		{"", lr.ErrStartSymbol, ""},
	} {
		_, err := Parse("t.grammar", []byte(test.src))
		if !errors.Is(err, test.err) {
			t.Errorf("test #%d: expected error %v, have %v", i, test.err, err)
			continue
		}
		if !strings.Contains(err.Error(), test.text) {
			t.Errorf("test #%d: expected error message to contain %q, is %q", i, test.text, err.Error())
		}
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.grammar")
	defer teardown()
	//
	_, err := Parse("pos.grammar", []byte("START > A ;\n// comment\n  A > ; ;"))
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a *SyntaxError, have %v", err)
	}
	if serr.Pos.Line != 3 || serr.Pos.Column != 9 {
		t.Errorf("expected error at 3:9, is at %d:%d", serr.Pos.Line, serr.Pos.Column)
	}
}

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.grammar")
	defer teardown()
	//
	dir := t.TempDir()
	path := filepath.Join(dir, "list.grammar")
	src := "START > L ;\nL > ID(a) L | ;\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "list" || g.Size() != 3 {
		t.Errorf("expected grammar 'list' with 3 productions, have %q with %d", g.Name, g.Size())
	}
	empty := filepath.Join(dir, "empty.grammar")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(empty); !errors.Is(err, lr.ErrStartSymbol) {
		t.Errorf("expected empty grammar to lack START, have %v", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.grammar")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing file to be reported, have %v", err)
	}
}
