package main

import (
	"bufio"
	"flag"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/lalrgen/lr/grammarfile"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
)

var traceKeys = []string{
	"lalrgen.cmd", "lalrgen.lr", "lalrgen.grammar", "lalrgen.lalr", "lalrgen.scanner", "lalrgen.earley",
}

// main loads a grammar, generates its LALR(1) table, writes the requested
// exports and parses input lines, either from the command line or
// interactively.
func main() {
	initDisplay()
	conf, err := configure(flag.CommandLine, os.Args[1:])
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	trace := installTracing(traceLevel(conf.Trace), gologadapter.New)
	lrgen, err := generate(conf, trace)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	if err := export(conf, lrgen); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	intp := newIntp(lrgen.ParseTable(), conf.Keywords)
	failed := false
	for _, input := range conf.Inputs {
		if err := intp.Eval(input); err != nil {
			failed = true
		}
	}
	if conf.REPL {
		if err := intp.REPL(); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(3)
		}
	}
	if failed {
		os.Exit(4)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}

// installTracing makes adapter the source of all tracers and sets their
// level. It returns the tracer for table construction.
func installTracing(level tracing.TraceLevel, adapter tracing.Adapter) tracing.Trace {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(adapter))
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("Trace level is %s", level)
	return tracing.Select("lalrgen.lr")
}

// generate loads the grammar file and creates the parse table. trace
// observes the table construction.
func generate(conf *Config, trace tracing.Trace) (*lr.TableGenerator, error) {
	info, err := os.Stat(conf.Grammar)
	if err != nil {
		return nil, err
	}
	g, err := grammarfile.LoadFile(conf.Grammar)
	if err != nil {
		return nil, err
	}
	pterm.Info.Printfln("Grammar %s: %s, %d productions", g.Name,
		humanize.Bytes(uint64(info.Size())), g.Size())
	lrgen := lr.NewTableGenerator(lr.Analysis(g, lr.AnalysisTracer(trace)),
		lr.WithTracer(trace),
		lr.Strict(conf.Strict),
		lr.EagerPropagation(conf.Eager),
	)
	err = lrgen.CreateTables()
	for _, c := range lrgen.Conflicts() {
		pterm.Warning.Println(c.Describe(g))
	}
	if err != nil {
		return nil, err
	}
	pt := lrgen.ParseTable()
	pterm.Info.Printfln("%s states, %s table entries, %s lookahead channel nodes",
		humanize.Comma(int64(pt.StateCount())),
		humanize.Comma(int64(pt.EntryCount())),
		humanize.Comma(int64(lrgen.Channels().Size())))
	if lrgen.HasConflicts {
		pterm.Warning.Printfln("Grammar %s is not LALR(1): %d conflicts", g.Name, len(lrgen.Conflicts()))
	}
	return lrgen, nil
}

// export writes the HTML table, the Dot graph of the CFSM and the dump,
// as far as configured.
func export(conf *Config, lrgen *lr.TableGenerator) error {
	pt := lrgen.ParseTable()
	if conf.Output.HTML != "" {
		err := writeFile(conf.Output.HTML, func(w io.Writer) error {
			return lr.ParseTableAsHTML(pt, w)
		})
		if err != nil {
			return err
		}
	}
	if conf.Output.Dot != "" {
		if err := writeFile(conf.Output.Dot, lrgen.CFSM().ToGraphViz); err != nil {
			return err
		}
	}
	if conf.Output.Dump != "" {
		err := writeFile(conf.Output.Dump, func(w io.Writer) error {
			pt.Grammar().Dump(w)
			lrgen.Channels().Dump(w)
			pt.Dump(w)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// writeFile creates a file and hands it to write. Path "-" denotes stdout.
func writeFile(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		pterm.Success.Printfln("Wrote %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	}
	return nil
}
