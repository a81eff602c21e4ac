package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/lalrgen/lr/lalr"
	"github.com/npillmayer/lalrgen/lr/scanner"
	"github.com/pterm/pterm"
)

// Intp parses input lines with a generated parse table.
type Intp struct {
	table     *lr.ParseTable
	keywords  []string
	showSteps bool
	showTree  bool
}

// newIntp creates an interpreter for a table. Without explicit keywords,
// the literals of the grammar's KEY terminals are used.
func newIntp(pt *lr.ParseTable, keywords []string) *Intp {
	if len(keywords) == 0 {
		keywords = grammarKeywords(pt.Grammar())
	}
	return &Intp{table: pt, keywords: keywords}
}

func grammarKeywords(g *lr.Grammar) []string {
	var kw []string
	g.Symbols().Each(func(A lr.Symbol) {
		if A.IsTerminal() && A.Kind() == lr.KindKey {
			if lit, ok := A.Literal(); ok {
				kw = append(kw, lit)
			}
		}
	})
	return kw
}

// REPL starts interactive mode. Lines starting with ':' are commands.
func (intp *Intp) REPL() error {
	repl, err := readline.New("lalrgen> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	pterm.Info.Println("Enter input lines, :steps or :tree to toggle display, quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if quit := intp.command(line); quit {
			break
		}
	}
	pterm.Println("Good bye!")
	return nil
}

func (intp *Intp) command(line string) bool {
	switch line {
	case ":quit", ":q":
		return true
	case ":steps":
		intp.showSteps = !intp.showSteps
		pterm.Info.Printfln("Step display is %v", intp.showSteps)
	case ":tree":
		intp.showTree = !intp.showTree
		pterm.Info.Printfln("Tree display is %v", intp.showTree)
	case ":table":
		intp.table.Dump(os.Stdout)
	default:
		_ = intp.Eval(line) // errors have been displayed
	}
	return false
}

// Eval parses a line of input and displays the result.
func (intp *Intp) Eval(line string) error {
	tracer().Debugf("parsing %q", line)
	sc := scanner.NewLangTokenizer(strings.NewReader(line), intp.keywords...)
	var lexErr error
	sc.SetErrorHandler(func(err error) {
		pterm.Warning.Println(err.Error())
		if lexErr == nil {
			lexErr = err
		}
	})
	parser := lalr.NewParser(intp.table, lalr.BuildTree(intp.showTree))
	accepted, err := parser.Parse(sc)
	if intp.showSteps {
		intp.printSteps(parser.Steps())
	}
	if err == nil && !accepted {
		err = fmt.Errorf("input not accepted")
	}
	if err == nil {
		err = lexErr
	}
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	pterm.Success.Printfln("Accepted %q", line)
	if intp.showTree && parser.Tree() != nil {
		root := pterm.NewTreeFromLeveledList(intp.leveledTree(parser.Tree()))
		if err := pterm.DefaultTree.WithRoot(root).Render(); err != nil {
			tracer().Errorf("cannot display tree: %v", err)
		}
	}
	return nil
}

// leveledTree flattens a parse tree for display, one item per node.
func (intp *Intp) leveledTree(root *lalr.Node) pterm.LeveledList {
	g := intp.table.Grammar()
	var ll pterm.LeveledList
	root.Walk(func(n *lalr.Node, depth int) {
		text := g.Symbol(n.Symbol).String()
		if n.IsLeaf() {
			text = fmt.Sprintf("%s %q", text, n.Token.Lexeme())
		} else if len(n.Children) == 0 {
			text += " ε"
		}
		ll = append(ll, pterm.LeveledListItem{Level: depth, Text: text})
	})
	return ll
}

func (intp *Intp) printSteps(steps []lalr.Step) {
	g := intp.table.Grammar()
	data := pterm.TableData{{"State", "Symbol", "Action"}}
	for _, step := range steps {
		action := step.Action.String()
		if step.Action.Kind == lr.ReduceAction {
			action = "reduce " + g.ProductionString(g.Production(step.Action.Target))
		}
		sym := "$"
		if step.Symbol != lr.NoSymbol {
			sym = g.Symbol(step.Symbol).String()
		}
		data = append(data, []string{strconv.Itoa(step.State), sym, action})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf("cannot display steps: %v", err)
	}
}
