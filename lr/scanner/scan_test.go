package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/lalrgen"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestScan1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := GoTokenizer(name, reader)
		token := scanner.NextToken()
		count := 0
		for token.TokType() != EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestGoTokenizerKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.scanner")
	defer teardown()
	//
	input := `if x1 == 3.5 { s = "a" + 'c' } // done`
	scanner := GoTokenizer("kinds", strings.NewReader(input), Keywords("if"), SkipComments(false))
	expected := []string{`KEY("if")`, `ID("x1")`, `SYM("=")`, `SYM("=")`, `NUM("3.5")`, `SYM("{")`,
		`ID("s")`, `SYM("=")`, `STR("\"a\"")`, `SYM("+")`, `CHR("'c'")`, `SYM("}")`,
		`COMMENT("// done")`}
	for i, exp := range expected {
		tok := scanner.NextToken()
		if s := tok.(DefaultToken).String(); s != exp {
			t.Errorf("token #%d: expected %s, have %s", i, exp, s)
		}
	}
	if tok := scanner.NextToken(); tok.TokType() != EOF || tok.Lexeme() != "" {
		t.Errorf("expected EOF with empty lexeme, have %v", tok)
	}
	scanner = GoTokenizer("unify", strings.NewReader(`'c'`), UnifyStrings(true))
	if tok := scanner.NextToken(); tok.TokType() != STR {
		t.Errorf("expected unified character literal to be STR, is %v", tok)
	}
}

func TestLangTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.scanner")
	defer teardown()
	//
	input := "while x1 <= 10 {\n  s := \"a\\\"b\" + 'c' # note #\n}  12ab"
	scanner := NewLangTokenizer(strings.NewReader(input), "while")
	expected := []string{`KEY("while")`, `ID("x1")`, `SYM("<=")`, `NUM("10")`, `SYM("{")`,
		`SYM("\n")`, `ID("s")`, `SYM(":=")`, `STR("a\\\"b")`, `SYM("+")`, `CHR("c")`,
		`COMMENT(" note ")`, `SYM("\n")`, `SYM("}")`, `NUM("12ab")`}
	for i, exp := range expected {
		tok := scanner.NextToken()
		if s := tok.(DefaultToken).String(); s != exp {
			t.Errorf("token #%d: expected %s, have %s", i, exp, s)
		}
	}
	if tok := scanner.NextToken(); tok.TokType() != EOF {
		t.Errorf("expected EOF, have %v", tok)
	}
	if tok := scanner.NextToken(); tok.TokType() != EOF {
		t.Errorf("expected EOF to repeat, have %v", tok)
	}
}

func TestLangTokenizerSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.scanner")
	defer teardown()
	//
	scanner := NewLangTokenizer(strings.NewReader(`ab  "xy"`))
	if tok := scanner.NextToken(); tok.Span() != (lalrgen.Span{0, 2}) {
		t.Errorf("expected span of ID to be (0…2), is %v", tok.Span())
	}
	if tok := scanner.NextToken(); tok.Span() != (lalrgen.Span{4, 8}) {
		t.Errorf("expected span of STR to include its quotes, is %v", tok.Span())
	}
}

func TestLangTokenizerErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.scanner")
	defer teardown()
	//
	var errs []error
	scanner := NewLangTokenizer(strings.NewReader(`a @ b "open`))
	scanner.SetErrorHandler(func(e error) { errs = append(errs, e) })
	var kinds []lalrgen.TokType
	for tok := scanner.NextToken(); tok.TokType() != EOF; tok = scanner.NextToken() {
		kinds = append(kinds, tok.TokType())
	}
	if len(kinds) != 3 || kinds[0] != ID || kinds[1] != ID || kinds[2] != STR {
		t.Errorf("expected tokens ID ID STR, have %v", kinds)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, have %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), `"@"`) {
		t.Errorf("expected first error to name '@', is %v", errs[0])
	}
}
