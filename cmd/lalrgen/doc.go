/*
Command lalrgen generates LALR(1) parse tables for grammars in the text
format of package grammarfile.

    lalrgen [flags] file.grammar [input ...]

It reports the size of the generated table and any conflicts, and exports
the table as HTML, the CFSM as a Graphviz Dot file, or a textual dump of
grammar, lookahead channels and actions. Remaining arguments are parsed as
input lines with the generated table. With -repl, lalrgen reads input lines
interactively. Settings may be given in a YAML file with -config; flags
override them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrgen.cmd'
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.cmd")
}
