package cpu

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// SymbolTable maps labels to addresses. Labels are case sensitive.
type SymbolTable map[string]Word

// Bind label to addr. A label that is already bound keeps its first address.
func (st SymbolTable) Bind(label string, addr Word) (err error) {
	_, ok := st[label]
	if ok {
		err = ErrLabelDuplicate(label)
		return
	}

	st[label] = addr
	return
}

// Lookup the address of label.
func (st SymbolTable) Lookup(label string) (addr Word, ok bool) {
	addr, ok = st[label]
	return
}

// All iterates over the symbols in address order, then by name.
func (st SymbolTable) All() iter.Seq2[string, Word] {
	labels := slices.SortedFunc(maps.Keys(st), func(a, b string) int {
		return cmp.Or(cmp.Compare(st[a], st[b]), cmp.Compare(a, b))
	})

	return func(yield func(label string, addr Word) bool) {
		for _, label := range labels {
			if !yield(label, st[label]) {
				return
			}
		}
	}
}
