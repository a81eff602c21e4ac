package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/lalrgen/lr/lalr"
	"github.com/npillmayer/lalrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const stmtsGrammar = `
// statements
START > Stmts ;
Stmts > Stmt SYM(;) Stmts | ;
Stmt  > KEY(let) ID() SYM(:=) Value | KEY(print) Value ;
Value > STR() | NUM() | ID() ;
`

func writeTemp(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigureFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.cmd")
	defer teardown()
	//
	fs := flag.NewFlagSet("lalrgen", flag.ContinueOnError)
	conf, err := configure(fs, []string{"-strict", "-keywords", "let, print", "-dump", "-",
		"stmts.grammar", "let x := 1;"})
	if err != nil {
		t.Fatal(err)
	}
	if conf.Grammar != "stmts.grammar" || !conf.Strict || conf.Output.Dump != "-" {
		t.Errorf("flags not applied: %+v", conf)
	}
	if strings.Join(conf.Keywords, "|") != "let|print" {
		t.Errorf("expected keywords let and print, have %v", conf.Keywords)
	}
	if len(conf.Inputs) != 1 || conf.Inputs[0] != "let x := 1;" {
		t.Errorf("expected one input line, have %v", conf.Inputs)
	}
	if conf.Trace != "Info" {
		t.Errorf("expected default trace level Info, have %s", conf.Trace)
	}
}

func TestConfigureFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.cmd")
	defer teardown()
	//
	path := writeTemp(t, "lalrgen.yaml", `
grammar: expr.grammar
trace: Debug
strict: true
keywords: [let]
output:
  html: expr.html
  dot: expr.dot
`)
	fs := flag.NewFlagSet("lalrgen", flag.ContinueOnError)
	conf, err := configure(fs, []string{"-config", path, "-trace", "Error", "-strict=false"})
	if err != nil {
		t.Fatal(err)
	}
	if conf.Grammar != "expr.grammar" || conf.Output.HTML != "expr.html" || conf.Output.Dot != "expr.dot" {
		t.Errorf("config file not applied: %+v", conf)
	}
	if conf.Trace != "Error" || conf.Strict {
		t.Errorf("expected flags to override config file, have trace=%s strict=%v", conf.Trace, conf.Strict)
	}
	if len(conf.Keywords) != 1 || conf.Keywords[0] != "let" {
		t.Errorf("expected keyword let from config file, have %v", conf.Keywords)
	}
}

func TestConfigureErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.cmd")
	defer teardown()
	//
	fs := flag.NewFlagSet("lalrgen", flag.ContinueOnError)
	if _, err := configure(fs, nil); err == nil {
		t.Errorf("expected missing grammar file to be an error")
	}
	bad := writeTemp(t, "bad.yaml", "strict: [\n")
	fs = flag.NewFlagSet("lalrgen", flag.ContinueOnError)
	if _, err := configure(fs, []string{"-config", bad, "x.grammar"}); err == nil {
		t.Errorf("expected malformed config file to be an error")
	}
}

func TestGenerateAndExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.cmd")
	defer teardown()
	//
	dir := t.TempDir()
	conf := defaultConfig()
	conf.Grammar = writeTemp(t, "stmts.grammar", stmtsGrammar)
	conf.Strict = true
	conf.Output.HTML = filepath.Join(dir, "stmts.html")
	conf.Output.Dot = filepath.Join(dir, "stmts.dot")
	conf.Output.Dump = filepath.Join(dir, "stmts.txt")
	lrgen, err := generate(conf, tracer())
	if err != nil {
		t.Fatal(err)
	}
	if err := export(conf, lrgen); err != nil {
		t.Fatal(err)
	}
	for path, fragment := range map[string]string{
		conf.Output.HTML: "<table",
		conf.Output.Dot:  "digraph",
		conf.Output.Dump: "Lookaheads:",
	} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("expected %s to be written: %v", path, err)
			continue
		}
		if !strings.Contains(string(data), fragment) {
			t.Errorf("expected %s to contain %q", filepath.Base(path), fragment)
		}
	}
}

func TestGenerateStrictConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.cmd")
	defer teardown()
	//
	conf := defaultConfig()
	conf.Grammar = writeTemp(t, "ambiguous.grammar", "START > E ;\nE > E SYM(+) E | NUM() ;\n")
	conf.Strict = true
	if _, err := generate(conf, tracer()); !errors.Is(err, lr.ErrConflicts) {
		t.Errorf("expected conflicts to be an error in strict mode, have %v", err)
	}
	conf.Strict = false
	lrgen, err := generate(conf, tracer())
	if err != nil {
		t.Fatal(err)
	}
	if !lrgen.HasConflicts {
		t.Errorf("expected conflicts to be reported")
	}
}

func TestEval(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.cmd")
	defer teardown()
	//
	conf := defaultConfig()
	conf.Grammar = writeTemp(t, "stmts.grammar", stmtsGrammar)
	lrgen, err := generate(conf, tracer())
	if err != nil {
		t.Fatal(err)
	}
	intp := newIntp(lrgen.ParseTable(), nil)
	if strings.Join(intp.keywords, " ") != "let print" {
		t.Errorf("expected keywords from grammar, have %v", intp.keywords)
	}
	intp.showSteps = true
	for _, input := range []string{"", `let x := "abc"; print x;`, "print 7 ; # done #"} {
		if err := intp.Eval(input); err != nil {
			t.Errorf("expected %q to be accepted, have %v", input, err)
		}
	}
	if err := intp.Eval("let x print"); !errors.Is(err, lalr.ErrSyntax) {
		t.Errorf("expected syntax error, have %v", err)
	}
	if err := intp.Eval("print 7 ; @"); err == nil {
		t.Errorf("expected unknown character to be reported")
	}
	if quit := intp.command(":tree"); quit || !intp.showTree {
		t.Errorf("expected :tree to switch on tree display")
	}
	if err := intp.Eval("print 7;"); err != nil {
		t.Errorf("expected tree display to succeed, have %v", err)
	}
	if quit := intp.command(":q"); !quit {
		t.Errorf("expected :q to quit")
	}
}

type recorder struct {
	level    tracing.TraceLevel
	messages []string
}

func (r *recorder) Errorf(f string, args ...interface{}) { r.record(f, args) }
func (r *recorder) Infof(f string, args ...interface{})  { r.record(f, args) }
func (r *recorder) Debugf(f string, args ...interface{}) { r.record(f, args) }
func (r *recorder) P(string, interface{}) tracing.Trace   { return r }
func (r *recorder) SetTraceLevel(l tracing.TraceLevel)   { r.level = l }
func (r *recorder) GetTraceLevel() tracing.TraceLevel    { return r.level }
func (r *recorder) SetOutput(io.Writer)                  {}

func (r *recorder) record(f string, args []interface{}) {
	r.messages = append(r.messages, fmt.Sprintf(f, args...))
}

func (r *recorder) contains(fragment string) bool {
	for _, msg := range r.messages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func TestLeveledTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.cmd")
	defer teardown()
	//
	conf := defaultConfig()
	conf.Grammar = writeTemp(t, "stmts.grammar", stmtsGrammar)
	lrgen, err := generate(conf, tracer())
	if err != nil {
		t.Fatal(err)
	}
	intp := newIntp(lrgen.ParseTable(), nil)
	sc := scanner.NewLangTokenizer(strings.NewReader("print 7;"), intp.keywords...)
	parser := lalr.NewParser(intp.table, lalr.BuildTree(true))
	if accepted, err := parser.Parse(sc); !accepted || err != nil {
		t.Fatalf("expected input to be accepted, have %v", err)
	}
	var lines []string
	for _, item := range intp.leveledTree(parser.Tree()) {
		lines = append(lines, fmt.Sprintf("%d:%s", item.Level, item.Text))
	}
	expected := []string{
		"0:START", "1:Stmts", "2:Stmt", `3:KEY(print) "print"`, "3:Value", `4:NUM() "7"`,
		`2:SYM(;) ";"`, "2:Stmts ε",
	}
	if strings.Join(lines, "|") != strings.Join(expected, "|") {
		t.Errorf("expected tree\n%v\nhave\n%v", expected, lines)
	}
}

func TestInstallTracingDebug(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrgen.cmd")
	defer teardown()
	//
	rec := &recorder{}
	trace := installTracing(tracing.LevelDebug, func() tracing.Trace { return rec })
	if trace != tracing.Trace(rec) {
		t.Fatalf("expected table construction to trace to the installed adapter")
	}
	if rec.level != tracing.LevelDebug {
		t.Errorf("expected trace level Debug, have %s", rec.level)
	}
	conf := defaultConfig()
	conf.Grammar = writeTemp(t, "stmts.grammar", stmtsGrammar)
	lrgen, err := generate(conf, trace)
	if err != nil {
		t.Fatal(err)
	}
	if err := newIntp(lrgen.ParseTable(), nil).Eval("print 7;"); err != nil {
		t.Fatal(err)
	}
	for _, fragment := range []string{
		"Trace level is Debug", // cmd
		"mapped",               // grammar file reader
		"grammar \"stmts\"",    // grammar builder
		"FIRST(",               // analysis
		"CFSM for",             // table generator
		"got token",            // parser driver, Debug
		"reduce Value",         // parser driver, Info
	} {
		if !rec.contains(fragment) {
			t.Errorf("expected trace output to contain %q", fragment)
		}
	}
}
