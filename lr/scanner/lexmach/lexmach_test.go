package lexmach

import (
	"testing"

	"github.com/npillmayer/lalrgen"
	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/lalrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/timtadh/lexmachine"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var TokenCounts = []int{1, 3, 2, 3, 3}

var literals = []string{"'", "(", ")", "[", "]", "=", "+", "-", "*", "/"}

var keywords = []string{"nil", "t"}

func TestLM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.scanner")
	defer teardown()
	//
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`//[^\n]*\n?`), Skip)
		lexer.Add([]byte(`\"[^"]*\"`), MakeToken(scanner.STR))
		lexer.Add([]byte(`#?([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_|-)*[!\?]?`), MakeToken(scanner.ID))
		lexer.Add([]byte(`[1-9][0-9]*`), MakeToken(scanner.NUM))
		lexer.Add([]byte(`( |\,|\t|\n|\r)+`), Skip)
	}
	LM, err := NewLMAdapter(init, literals, keywords)
	if err != nil {
		t.Fatal(err)
	}
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		sc, err := LM.Scanner(input)
		if err != nil {
			t.Error(err)
		}
		token := sc.NextToken()
		count := 0
		for token.TokType() != scanner.EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = sc.NextToken()
			count++
		}
		if count != TokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, TokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestLMFromGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.scanner")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Assign")
	b.LHS("START").N("S").End()
	b.LHS("S").Lit(lr.KindKey, "let").T(lr.KindID).Lit(lr.KindSym, ":=").N("V").End()
	b.LHS("V").T(lr.KindNum).End()
	b.LHS("V").T(lr.KindStr).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	LM, err := FromGrammar(g, StandardPatterns)
	if err != nil {
		t.Fatal(err)
	}
	sc, err := LM.Scanner(`let letter := "abc" # done #`)
	if err != nil {
		t.Fatal(err)
	}
	expected := []struct {
		typ    lalrgen.TokType
		lexeme string
		span   lalrgen.Span
	}{
		{scanner.KEY, "let", lalrgen.Span{0, 3}},
		{scanner.ID, "letter", lalrgen.Span{4, 10}},
		{scanner.SYM, ":=", lalrgen.Span{11, 13}},
		{scanner.STR, `"abc"`, lalrgen.Span{14, 19}},
		{scanner.COMMENT, "# done #", lalrgen.Span{20, 28}},
		{scanner.EOF, "", lalrgen.Span{28, 28}},
	}
	for i, exp := range expected {
		tok := sc.NextToken()
		if tok.TokType() != exp.typ || tok.Lexeme() != exp.lexeme || tok.Span() != exp.span {
			t.Errorf("token #%d: expected %d %q %v, have %d %q %v", i, exp.typ, exp.lexeme, exp.span,
				tok.TokType(), tok.Lexeme(), tok.Span())
		}
		if exp.typ == scanner.STR && tok.Value() != "abc" {
			t.Errorf("expected string value without quotes, have %v", tok.Value())
		}
	}
}

func TestLMUnconsumedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.scanner")
	defer teardown()
	//
	LM, err := NewLMAdapter(StandardPatterns, []string{"+"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := LM.Scanner("a @ b")
	errcnt := 0
	sc.SetErrorHandler(func(error) { errcnt++ })
	count := 0
	for tok := sc.NextToken(); tok.TokType() != scanner.EOF; tok = sc.NextToken() {
		count++
	}
	if count != 2 || errcnt == 0 {
		t.Errorf("expected 2 tokens and an error, have %d tokens and %d errors", count, errcnt)
	}
}
