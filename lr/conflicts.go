package lr

import "fmt"

// ConflictKind classifies table conflicts.
type ConflictKind int

// Kinds of conflicts.
const (
	ShiftReduce ConflictKind = iota + 1
	ReduceReduce
)

func (k ConflictKind) String() string {
	switch k {
	case ShiftReduce:
		return "shift/reduce"
	case ReduceReduce:
		return "reduce/reduce"
	}
	return "unknown"
}

// Conflict records two different actions written to the same table cell.
// The table retains the later action.
type Conflict struct {
	State     int
	Symbol    SymID
	Kind      ConflictKind
	Retained  Action
	Displaced Action
}

func conflictKind(a, b Action) ConflictKind {
	if a.Kind == ShiftAction || b.Kind == ShiftAction {
		return ShiftReduce
	}
	return ReduceReduce
}

// Describe returns a human readable description of the conflict.
func (c Conflict) Describe(g *Grammar) string {
	return fmt.Sprintf("%v conflict in state %d on %v: %s retained, %s displaced",
		c.Kind, c.State, g.Symbol(c.Symbol), c.actionString(g, c.Retained), c.actionString(g, c.Displaced))
}

func (c Conflict) actionString(g *Grammar, A Action) string {
	if A.Kind == ReduceAction {
		return fmt.Sprintf("reduce [%s]", g.ProductionString(g.Production(A.Target)))
	}
	return A.String()
}

func (c Conflict) String() string {
	return fmt.Sprintf("%v conflict (state %d, symbol %d)", c.Kind, c.State, c.Symbol)
}
