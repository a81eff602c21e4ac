package lalr

import (
	"github.com/npillmayer/lalrgen"
	"github.com/npillmayer/lalrgen/lr"
)

// Node is a node of a parse tree. Leafs are terminals and carry their input
// token. Inner nodes are non-terminals with a child for every RHS symbol of
// the production they have been reduced by; an ε-reduction yields a node
// without children.
type Node struct {
	Symbol   lr.SymID
	Prod     int           // production serial, inner nodes only
	Token    lalrgen.Token // terminals only
	Span     lalrgen.Span
	Children []*Node
}

// IsLeaf is true for terminal nodes.
func (n *Node) IsLeaf() bool {
	return n.Token != nil
}

// Walk calls f for n and all of its descendents, in pre-order. depth is 0 for n.
func (n *Node) Walk(f func(node *Node, depth int)) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(*Node, int), depth int) {
	f(n, depth)
	for _, ch := range n.Children {
		ch.walk(f, depth+1)
	}
}

// BuildTree lets the parser construct a parse tree, available with Tree()
// after the input has been accepted.
func BuildTree(b bool) Option {
	return func(p *Parser) {
		p.buildTree = b
	}
}

// Tree returns the parse tree of the most recent parse, if it has been
// accepted and the parser has been created with option BuildTree.
// The root is a node for START.
func (p *Parser) Tree() *Node {
	return p.root
}

func leaf(sym lr.SymID, token lalrgen.Token) *Node {
	return &Node{Symbol: sym, Prod: -1, Token: token, Span: token.Span()}
}
