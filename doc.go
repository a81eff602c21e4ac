/*
Package lalrgen is an LALR(1) parser table generator.

It takes a context-free grammar, analyses it (nullable non-terminals, FIRST
sets, derivation relations) and constructs a minimal LALR(1) action table,
using the "channels" technique of DeRemer and Pennello: lookaheads are
computed per (state, item) pair on top of an LR(0) automaton instead of being
folded into state identity. Package structure is as follows:

■ lr: Package lr implements the grammar model, the grammar analysis, the LR(0)
automaton, lookahead channels and the synthesis of parse tables.

■ lr/lalr: Package lalr is a table-driven shift/reduce parser consuming
generated tables.

■ lr/grammarfile: Package grammarfile reads grammars from a small textual format.

■ lr/scanner: Package scanner defines tokenizers feeding the parser.

■ lr/scanner/lexmach: Package lexmach adapts lexmachine lexers, possibly derived
from the terminals of a grammar.

■ lr/earley: Package earley is an Earley recognizer, used to cross-check
generated tables.

■ cmd/lalrgen: Command lalrgen generates, exports and tries out parse tables
for grammar files.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lalrgen
