package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a generator run. Values are read from an
// optional YAML file first, then overridden by command line flags.
//
//    grammar: expr.grammar
//    trace: Info
//    strict: true
//    keywords: [let, print]
//    output:
//      html: expr.html
//      dot: expr.dot
//      dump: "-"
//
type Config struct {
	Grammar  string       `yaml:"grammar"`
	Trace    string       `yaml:"trace"`
	Strict   bool         `yaml:"strict"`
	Eager    bool         `yaml:"eager"`
	Keywords []string     `yaml:"keywords"`
	Output   OutputConfig `yaml:"output"`
	REPL     bool         `yaml:"repl"`
	Inputs   []string     `yaml:"-"` // input lines to parse with the generated table
}

// OutputConfig names the export files. A dump to "-" goes to stdout.
type OutputConfig struct {
	HTML string `yaml:"html"`
	Dot  string `yaml:"dot"`
	Dump string `yaml:"dump"`
}

func defaultConfig() *Config {
	return &Config{Trace: "Info"}
}

// loadConfig reads a YAML configuration file.
func loadConfig(path string, conf *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// configure parses the command line. A config file given with -config is
// loaded before explicitly set flags are applied. The first positional
// argument names the grammar file, further arguments are input lines.
func configure(fs *flag.FlagSet, args []string) (*Config, error) {
	confFile := fs.String("config", "", "YAML configuration file")
	trace := fs.String("trace", "Info", "Trace level [Debug|Info|Error]")
	strict := fs.Bool("strict", false, "Fail if the grammar is not LALR(1)")
	eager := fs.Bool("eager", false, "Propagate terminal lookaheads eagerly")
	keywords := fs.String("keywords", "", "Comma separated keywords for the input tokenizer")
	html := fs.String("html", "", "Export the parse table as HTML")
	dot := fs.String("dot", "", "Export the CFSM in Graphviz Dot format")
	dump := fs.String("dump", "", "Dump grammar, channels and table ('-' for stdout)")
	repl := fs.Bool("repl", false, "Parse input lines interactively")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	conf := defaultConfig()
	if *confFile != "" {
		if err := loadConfig(*confFile, conf); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trace":
			conf.Trace = *trace
		case "strict":
			conf.Strict = *strict
		case "eager":
			conf.Eager = *eager
		case "keywords":
			conf.Keywords = splitList(*keywords)
		case "html":
			conf.Output.HTML = *html
		case "dot":
			conf.Output.Dot = *dot
		case "dump":
			conf.Output.Dump = *dump
		case "repl":
			conf.REPL = *repl
		}
	})
	if fs.NArg() > 0 {
		conf.Grammar = fs.Arg(0)
		conf.Inputs = fs.Args()[1:]
	}
	if conf.Grammar == "" {
		return nil, fmt.Errorf("no grammar file given")
	}
	return conf, nil
}

func splitList(s string) []string {
	var l []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			l = append(l, item)
		}
	}
	return l
}
