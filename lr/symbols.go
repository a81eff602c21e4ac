package lr

import (
	"fmt"
	"text/scanner"

	"github.com/npillmayer/lalrgen"
)

// --- Terminal kinds --------------------------------------------------------

// TermKind is the kind of a terminal symbol. Scanners deliver tokens with a
// token type equal to one of these kinds.
type TermKind int

// Reserved kinds. Grammars must not use them for ordinary terminals.
const (
	KindEOF         TermKind = TermKind(scanner.EOF) // end of input, printed as '$'
	KindEpsilon     TermKind = -2                    // the empty word
	KindPlaceholder TermKind = -3                    // closure-time lookahead marker '#'
)

// Kinds of ordinary terminals.
const (
	KindID TermKind = iota + 1
	KindNum
	KindSym
	KindKey
	KindStr
	KindChr
	KindComment
)

var kindNames = map[TermKind]string{
	KindEOF:         "EOF",
	KindEpsilon:     "EPSILON",
	KindPlaceholder: "TEST",
	KindID:          "ID",
	KindNum:         "NUM",
	KindSym:         "SYM",
	KindKey:         "KEY",
	KindStr:         "STR",
	KindChr:         "CHR",
	KindComment:     "COMMENT",
}

func (k TermKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("KIND%d", int(k))
}

// IsReserved is true for the kinds of sentinel symbols.
func (k TermKind) IsReserved() bool {
	return k < 0
}

// TokType returns the token type scanners use for tokens of kind k.
func (k TermKind) TokType() lalrgen.TokType {
	return lalrgen.TokType(k)
}

// ParseTermKind finds a kind by its name, e.g. "NUM".
func ParseTermKind(name string) (TermKind, bool) {
	for k, s := range kindNames {
		if s == name {
			return k, true
		}
	}
	return 0, false
}

// --- Symbols ---------------------------------------------------------------

// SymID is the dense integer id of an interned symbol.
type SymID int

// Sentinel symbols occupy the first ids of every symbol table.
const (
	Epsilon     SymID = 0  // ε
	EOF         SymID = 1  // end of input
	Placeholder SymID = 2  // lookahead marker during closure computation
	NoSymbol    SymID = -1 // no symbol at all
)

// Symbol is either a terminal or a non-terminal. Terminals have a kind and
// an optional literal; a terminal without a literal is a wildcard for its kind.
// Non-terminals have a name.
//
// Symbols are plain values. Their identity within a grammar is the id the
// symbol table assigned when interning them.
type Symbol struct {
	id       SymID
	terminal bool
	name     string   // non-terminals only
	kind     TermKind // terminals only
	literal  string   // terminals only, empty for wildcards
}

// Terminal creates a terminal symbol of a kind. An empty literal denotes
// a wildcard.
func Terminal(kind TermKind, literal string) Symbol {
	return Symbol{id: NoSymbol, terminal: true, kind: kind, literal: literal}
}

// NonTerminal creates a non-terminal symbol.
func NonTerminal(name string) Symbol {
	return Symbol{id: NoSymbol, name: name}
}

// ID returns the id of an interned symbol, or NoSymbol.
func (sym Symbol) ID() SymID {
	return sym.id
}

// IsTerminal is true for terminals, including the sentinels.
func (sym Symbol) IsTerminal() bool {
	return sym.terminal
}

// Name returns the name of a non-terminal or the string form of a terminal.
func (sym Symbol) Name() string {
	if sym.terminal {
		return sym.String()
	}
	return sym.name
}

// Kind returns the kind of a terminal.
func (sym Symbol) Kind() TermKind {
	return sym.kind
}

// Literal returns the literal of a terminal and false for wildcards.
func (sym Symbol) Literal() (string, bool) {
	return sym.literal, sym.literal != ""
}

// IsWildcard is true for terminals without a literal.
func (sym Symbol) IsWildcard() bool {
	return sym.terminal && sym.literal == ""
}

func (sym Symbol) String() string {
	if !sym.terminal {
		return sym.name
	}
	switch sym.kind {
	case KindEpsilon:
		return "ε"
	case KindEOF:
		return "$"
	case KindPlaceholder:
		return "#"
	}
	return fmt.Sprintf("%s(%s)", sym.kind, sym.literal)
}

type symkey struct {
	terminal bool
	name     string
	kind     TermKind
	literal  string
}

func (sym Symbol) key() symkey {
	return symkey{terminal: sym.terminal, name: sym.name, kind: sym.kind, literal: sym.literal}
}

// --- Symbol table ----------------------------------------------------------

// SymbolTable interns symbols into dense ids. Structurally equal symbols
// get the same id. A new table already contains the sentinels ε, $ and #.
//
// Symbol tables are filled during grammar construction and are read-only
// afterwards.
type SymbolTable struct {
	symbols []Symbol
	index   map[symkey]SymID
}

// NewSymbolTable creates a symbol table holding just the sentinels.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{
		symbols: make([]Symbol, 0, 32),
		index:   make(map[symkey]SymID),
	}
	st.define(Terminal(KindEpsilon, ""))
	st.define(Terminal(KindEOF, "$"))
	st.define(Terminal(KindPlaceholder, "#"))
	return st
}

func (st *SymbolTable) define(sym Symbol) SymID {
	sym.id = SymID(len(st.symbols))
	st.symbols = append(st.symbols, sym)
	st.index[sym.key()] = sym.id
	return sym.id
}

// Intern finds or defines a symbol and returns its id.
// Terminals of reserved kinds and a non-terminal without a name are rejected.
func (st *SymbolTable) Intern(sym Symbol) (SymID, error) {
	if sym.terminal && sym.kind.IsReserved() {
		return NoSymbol, &GrammarError{Symbol: sym.String(), Err: ErrReservedSymbol}
	}
	if !sym.terminal && sym.name == "" {
		return NoSymbol, &GrammarError{Symbol: "<unnamed>", Err: ErrReservedSymbol}
	}
	if id, ok := st.index[sym.key()]; ok {
		return id, nil
	}
	id := st.define(sym)
	tracer().Debugf("symbol %d = %v", id, sym)
	return id, nil
}

// Lookup finds the id of a symbol, if it has been interned.
func (st *SymbolTable) Lookup(sym Symbol) (SymID, bool) {
	id, ok := st.index[sym.key()]
	return id, ok
}

// Symbol returns the symbol for an id. It panics for ids not issued by st.
func (st *SymbolTable) Symbol(id SymID) Symbol {
	return st.symbols[id]
}

// Size returns the number of symbols, sentinels included.
func (st *SymbolTable) Size() int {
	return len(st.symbols)
}

// IsTerminal is true if id denotes a terminal.
func (st *SymbolTable) IsTerminal(id SymID) bool {
	return st.symbols[id].terminal
}

// Each calls f for every symbol in id order.
func (st *SymbolTable) Each(f func(Symbol)) {
	for _, sym := range st.symbols {
		f(sym)
	}
}

// Classify finds the terminal matching a token of a given kind and lexeme.
// A terminal with the lexeme as its literal is preferred over the wildcard of
// the kind. Returns NoSymbol if no terminal matches.
func (st *SymbolTable) Classify(kind TermKind, lexeme string) SymID {
	if kind == KindEOF {
		return EOF
	}
	if lexeme != "" {
		if id, ok := st.index[Terminal(kind, lexeme).key()]; ok {
			return id
		}
	}
	if id, ok := st.index[Terminal(kind, "").key()]; ok {
		return id
	}
	return NoSymbol
}
