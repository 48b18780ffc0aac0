package expr

import (
	"github.com/pkg/errors"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
)

// NewSymbol returns the symbol called name carrying the given
// assumptions, closed under implication. Symbols with the same name and
// the same closed assumptions are the same node. It panics when the
// assumptions contradict each other.
func NewSymbol(name string, props map[assume.Property]bool) *Symbol {
	f, err := assume.Deduce(assume.FromMap(props))
	if err != nil {
		panic(errors.Wrapf(err, "symbol %s", name))
	}
	s := &Symbol{name: name, declared: f}
	s.key = "s" + name + "|" + f.String()
	return intern(s).(*Symbol)
}

// Sym is NewSymbol with every listed property set to true.
func Sym(name string, props ...assume.Property) *Symbol {
	m := make(map[assume.Property]bool, len(props))
	for _, p := range props {
		m[p] = true
	}
	return NewSymbol(name, m)
}

// Declared returns the symbol's own assumptions.
func (s *Symbol) Declared() assume.Facts { return s.declared }
