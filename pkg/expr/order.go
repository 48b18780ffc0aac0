package expr

import (
	"sort"
	"strings"
)

// compare orders nodes by kind, then rendering, then structure. It is a
// total order on interned nodes and is stable across runs.
func compare(a, b Expr) int {
	if a == b {
		return 0
	}
	if ka, kb := a.Kind(), b.Kind(); ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.String(), b.String()); c != 0 {
		return c
	}
	switch x := a.(type) {
	case *Symbol:
		return strings.Compare(x.declared.String(), b.(*Symbol).declared.String())
	case *Func:
		if y := b.(*Func); x.fn != y.fn {
			if x.fn < y.fn {
				return -1
			}
			return 1
		}
	}
	aa, ba := a.Args(), b.Args()
	for i := 0; i < len(aa) && i < len(ba); i++ {
		if c := compare(aa[i], ba[i]); c != 0 {
			return c
		}
	}
	return len(aa) - len(ba)
}

func sortArgs(args []Expr) {
	sort.SliceStable(args, func(i, j int) bool { return compare(args[i], args[j]) < 0 })
}

// idList renders node ids for use in intern keys.
func idList(args []Expr) string {
	return opKey("", args...)
}
