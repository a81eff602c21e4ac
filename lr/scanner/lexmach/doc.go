/*
Package lexmach wraps lexers generated by lexmachine
(https://github.com/timtadh/lexmachine) as scanner.Tokenizer.

An LMAdapter owns a compiled lexmachine DFA. It is set up from three
ingredients: literal strings, reported as SYM tokens; keywords, reported as
KEY tokens; and an init function adding regular expressions for everything
else. Literals and keywords are added first, so they take precedence over
patterns matching the same text, e.g. keyword 'let' over an identifier pattern.

	lm, err := lexmach.NewLMAdapter(func(lx *lexmachine.Lexer) {
		lx.Add([]byte(`( |\t|\n)+`), lexmach.Skip)
		lx.Add([]byte(`[a-z]+`), lexmach.MakeToken(scanner.ID))
	}, []string{":=", ";"}, []string{"let"})

Compiling the DFA may fail, which is reported by NewLMAdapter. The adapter
hands out an independent scanner for every input:

	scan, err := lm.Scanner("let x := y;")
	for tok := scan.NextToken(); tok.TokType() != scanner.EOF; tok = scan.NextToken() {
		…
	}

Input no pattern matches is skipped and reported to the scanner's error
handler.

FromGrammar derives literals and keywords from the SYM and KEY terminals of a
grammar. StandardPatterns covers identifiers, numbers, strings, characters
and '#'-comments of the input language used throughout lalrgen:

	lm, err := lexmach.FromGrammar(g, lexmach.StandardPatterns)

Package lalrgen/lr/lalr shows how to drive a parser with such a tokenizer.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
