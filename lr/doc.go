/*
Package lr implements the construction of LALR(1) parse tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals are of a
kind (ID, NUM, SYM, KEY, …) and may carry a literal. A terminal without a
literal is a wildcard and matches every token of its kind. Grammars may contain
epsilon-productions. The start rule is the single rule for non-terminal START.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("START").N("A").End()                    // START ➞ A
    b.LHS("A").N("B").N("D").End()                 // A     ➞ B D
    b.LHS("B").Lit(lr.KindKey, "b").End()          // B     ➞ b
    b.LHS("B").Epsilon()                           // B     ➞
    b.LHS("D").T(lr.KindNum).End()                 // D     ➞ NUM
    b.LHS("D").Epsilon()                           // D     ➞
    g, err := b.Grammar()

Every non-terminal owns a contiguous range of productions, with the start
production always at index 0:

    g.Dump(os.Stdout)

    0: START ➞ A
    1: A ➞ B D
    2: B ➞ KEY(b)
    3: B ➞ ε
    4: D ➞ NUM()
    5: D ➞ ε

Static Grammar Analysis

After the grammar is complete, it has to be analysed. An LRAnalysis object
computes the set of nullable non-terminals, FIRST sets and the derivation
relations between non-terminals.

    ga := lr.Analysis(g)
    g.EachNonTerminal(func(A lr.Symbol) {
        fmt.Printf("FIRST(%s) = %s\n", A, g.SetString(ga.First(A.ID())))
    })

    // Output:
    FIRST(START) = {ε KEY(b) NUM()}
    FIRST(A) = {ε KEY(b) NUM()}
    FIRST(B) = {ε KEY(b)}
    FIRST(D) = {ε NUM()}

Parser Construction

Using grammar analysis as input, a TableGenerator first builds the LR(0)
characteristic finite state machine (CFSM). It then computes lookahead
channels: for every kernel item of every state, an LR(1) closure seeded with
a placeholder lookahead tells which lookaheads are generated spontaneously and
which ones are propagated from one (state, item) pair to another. A fixpoint
iteration floods the propagated lookaheads. Finally, states, lookaheads and
transitions are merged into a ParseTable.

    lrgen := lr.NewTableGenerator(ga)
    if err := lrgen.CreateTables(); err != nil { … }
    if lrgen.HasConflicts { … }    // see lrgen.Conflicts()
    pt := lrgen.ParseTable()

Conflicts are not resolved by heuristics. They are reported, and the table
keeps the action written last: reductions are written before shifts, thus a
shift/reduce conflict keeps the shift.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.lr")
}
