package earley

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lalrgen/lr"
)

func dumpState(g *lr.Grammar, states []*itemset, stateno int) {
	tracer().Debugf("--- State %04d ------------------------------------", stateno)
	for n, it := range states[stateno].items {
		tracer().Debugf("[%2d] %s", n+1, itemString(g, it))
	}
}

func itemString(g *lr.Grammar, it item) string {
	return fmt.Sprintf("%s @%d", g.ItemString(it.Item), it.origin)
}

func itemSetString(g *lr.Grammar, S *itemset) string {
	var b strings.Builder
	b.WriteString("{")
	for i, it := range S.items {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ")
		b.WriteString(itemString(g, it))
	}
	b.WriteString(" }")
	return b.String()
}
