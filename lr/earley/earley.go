/*
Package earley provides an Earley recognizer for grammars of package lr.

The recognizer accepts every context-free grammar, including ambiguous ones,
and does not depend on parse tables. Its main use is as a reference for
table-driven parsers: for a conflict-free grammar, an LALR(1) parser driven by
the generated parse table has to accept exactly the inputs the Earley
recognizer accepts.

ε-productions are handled as proposed by Aycock and Horspool ("Practical
Earley Parsing", 2002): when predicting a nullable non-terminal, the predicting
item is advanced over it right away.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package earley

import (
	"github.com/npillmayer/lalrgen"
	"github.com/npillmayer/lalrgen/lr"
	"github.com/npillmayer/lalrgen/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrgen.earley'.
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.earley")
}

// Parser is an Earley recognizer. Create one with NewParser.
type Parser struct {
	ga     *lr.LRAnalysis
	g      *lr.Grammar
	states []*itemset      // Earley states S0 … Sn
	tokens []lalrgen.Token // input tokens, if read from a scanner
}

// NewParser creates an Earley recognizer for an analyzed grammar.
func NewParser(ga *lr.LRAnalysis) *Parser {
	return &Parser{ga: ga, g: ga.Grammar()}
}

// Parse reads tokens from a scanner until EOF and recognizes them. COMMENT
// tokens are skipped. A token matching no terminal of the grammar makes the
// input invalid.
func (p *Parser) Parse(scan scanner.Tokenizer) bool {
	p.tokens = p.tokens[:0]
	var input []lr.SymID
	for {
		token := scan.NextToken()
		if token.TokType() == scanner.EOF {
			break
		}
		if token.TokType() == scanner.COMMENT {
			continue
		}
		A := p.g.Symbols().Classify(lr.TermKind(token.TokType()), token.Lexeme())
		if A == lr.NoSymbol {
			tracer().Infof("token %q matches no terminal", token.Lexeme())
			return false
		}
		p.tokens = append(p.tokens, token)
		input = append(input, A)
	}
	return p.Recognize(input)
}

// TokenAt returns the input token at position pos, if the input has been read
// from a scanner.
func (p *Parser) TokenAt(pos int) lalrgen.Token {
	if pos >= 0 && pos < len(p.tokens) {
		return p.tokens[pos]
	}
	return nil
}

// Recognize is true if a sequence of terminals is a sentence of the grammar.
func (p *Parser) Recognize(input []lr.SymID) bool {
	n := len(input)
	p.states = make([]*itemset, n+1)
	for i := range p.states {
		p.states[i] = &itemset{}
	}
	p.states[0].add(item{Item: lr.CoreItem(0, 0)})
	for i := 0; i <= n; i++ {
		S := p.states[i]
		for k := 0; k < S.size(); k++ { // S grows while we iterate
			it := S.items[k]
			if p.g.IsComplete(it.Item) {
				p.complete(it, i)
				continue
			}
			X := p.g.PeekSymbol(it.Item)
			if p.g.IsTerminal(X) {
				if i < n && input[i] == X {
					p.states[i+1].add(item{Item: it.Advance(), origin: it.origin})
				}
				continue
			}
			p.predict(it, X, i)
		}
		if tracer().GetTraceLevel() == tracing.LevelDebug {
			dumpState(p.g, p.states, i)
		}
		if i < n && p.states[i+1].size() == 0 {
			tracer().Debugf("no item scans %v at position %d in %s", p.g.Symbol(input[i]), i,
				itemSetString(p.g, S))
			return false
		}
	}
	accept := item{Item: lr.CoreItem(0, 1)}
	return p.states[n].contains(accept)
}

// predict adds the productions of X to state i. If X is nullable, the
// predicting item is advanced over X as well.
func (p *Parser) predict(it item, X lr.SymID, i int) {
	from, to := p.g.Range(X)
	for prod := from; prod < to; prod++ {
		p.states[i].add(item{Item: lr.CoreItem(prod, 0), origin: i})
	}
	if p.ga.Nullable(X) {
		p.states[i].add(item{Item: it.Advance(), origin: it.origin})
	}
}

// complete advances all items of the origin state of a complete item which are
// waiting for its left hand side.
func (p *Parser) complete(it item, i int) {
	A := p.g.Production(it.Prod).LHS
	origin := p.states[it.origin]
	for k := 0; k < origin.size(); k++ {
		waiting := origin.items[k]
		if p.g.PeekSymbol(waiting.Item) == A {
			p.states[i].add(item{Item: waiting.Advance(), origin: waiting.origin})
		}
	}
}
