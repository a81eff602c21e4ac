package earley

import "github.com/npillmayer/lalrgen/lr"

// item is an Earley item: a dotted production together with the input
// position where recognition of the production started.
type item struct {
	lr.Item
	origin int
}

// itemset is an Earley state. Items keep their insertion order, as
// the recognizer appends to a state while working through it.
type itemset struct {
	items []item
	index map[item]struct{}
}

var exists = struct{}{}

func (set *itemset) add(it item) bool {
	if set.index == nil {
		set.index = make(map[item]struct{})
	}
	if _, ok := set.index[it]; ok {
		return false
	}
	set.index[it] = exists
	set.items = append(set.items, it)
	return true
}

func (set *itemset) contains(it item) bool {
	if set == nil {
		return false
	}
	_, ok := set.index[it]
	return ok
}

func (set *itemset) size() int {
	if set == nil {
		return 0
	}
	return len(set.items)
}
