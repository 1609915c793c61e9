package symtab

import (
	"sort"

	"github.com/slowlang/mapdiff/mapfile/ast"
)

type (
	Symbol struct {
		Address uint64
		Name    string
		Size    uint64

		// Sized is set for symbols finalized with an explicit size.
		// Unsized symbols get their size from the next symbol address, see Table.Resolve.
		Sized bool

		Span ast.Base
	}

	// Table is a list of symbols in the order they were finalized
	// and the total of fill bytes found in the memory map.
	Table struct {
		Symbols []Symbol
		Padding uint64
	}

	// SizeMap maps symbol name to its size.
	SizeMap map[string]uint64
)

// Resolve returns a copy of the symbols in table order with derived sizes set.
//
// Unsized symbols are ordered by address keeping relative order of equal addresses
// and each one gets the distance to the next one.
// The last unsized symbol is left unsized as there is nothing to measure it against.
func (t *Table) Resolve() []Symbol {
	syms := append([]Symbol(nil), t.Symbols...)

	var unsized []int

	for i, s := range syms {
		if !s.Sized {
			unsized = append(unsized, i)
		}
	}

	sort.SliceStable(unsized, func(i, j int) bool {
		return syms[unsized[i]].Address < syms[unsized[j]].Address
	})

	for k := 0; k+1 < len(unsized); k++ {
		s, next := &syms[unsized[k]], syms[unsized[k+1]]

		s.Size = next.Address - s.Address
		s.Sized = true
	}

	return syms
}

// Sizes builds SizeMap from resolved symbols.
// Later symbols in table order overwrite earlier ones with the same name.
func (t *Table) Sizes() SizeMap {
	m := make(SizeMap, len(t.Symbols))

	for _, s := range t.Resolve() {
		if s.Sized {
			m[s.Name] = s.Size
		}
	}

	return m
}
