package assume

import (
	"github.com/pkg/errors"

	"github.com/wildfunctions/symbolic_power/pkg/logic"
)

type literal struct {
	p Property
	v logic.Tri
}

func is(p Property) literal    { return literal{p, logic.True} }
func isNot(p Property) literal { return literal{p, logic.False} }

func (l literal) negate() literal { return literal{l.p, l.v.Not()} }

type rule struct {
	when []literal
	then literal
}

// implications are single-premise rules; their contrapositives are added
// when the rule table is built.
var implications = [][2]literal{
	{is(Integer), is(Rational)},
	{is(Rational), is(Real)},
	{is(Rational), is(Algebraic)},
	{is(Even), is(Integer)},
	{is(Odd), is(Integer)},
	{is(Even), isNot(Odd)},
	{is(Real), is(ExtendedReal)},
	{is(Real), is(Finite)},
	{is(Irrational), is(Real)},
	{is(Irrational), isNot(Rational)},
	{is(Algebraic), is(Finite)},
	{is(Transcendental), is(Finite)},
	{is(Transcendental), isNot(Algebraic)},

	{is(Zero), is(Even)},
	{is(Zero), is(Nonnegative)},
	{is(Zero), is(Nonpositive)},
	{is(Zero), isNot(Positive)},
	{is(Zero), isNot(Negative)},
	{is(Zero), isNot(Nonzero)},
	{is(Zero), isNot(ExtendedPositive)},
	{is(Zero), isNot(ExtendedNegative)},
	{is(Zero), is(Finite)},

	{is(Positive), is(Nonnegative)},
	{is(Positive), is(Nonzero)},
	{is(Positive), is(ExtendedPositive)},
	{is(Negative), is(Nonpositive)},
	{is(Negative), is(Nonzero)},
	{is(Negative), is(ExtendedNegative)},
	{is(Nonnegative), is(Real)},
	{is(Nonnegative), isNot(Negative)},
	{is(Nonnegative), isNot(ExtendedNegative)},
	{is(Nonpositive), is(Real)},
	{is(Nonpositive), isNot(Positive)},
	{is(Nonpositive), isNot(ExtendedPositive)},

	{is(ExtendedPositive), is(ExtendedReal)},
	{is(ExtendedPositive), isNot(ExtendedNegative)},
	{is(ExtendedNegative), is(ExtendedReal)},

	{is(Imaginary), isNot(ExtendedReal)},
	{is(Imaginary), is(Nonzero)},

	{is(Nonzero), is(Finite)},
	{is(Finite), isNot(Infinite)},
	{is(Infinite), isNot(Finite)},
}

// conjunctions have two or more premises and are not contraposed.
var conjunctions = []rule{
	{[]literal{is(Integer), isNot(Odd)}, is(Even)},
	{[]literal{is(Integer), isNot(Even)}, is(Odd)},
	{[]literal{is(Real), isNot(Rational)}, is(Irrational)},
	{[]literal{is(Finite), isNot(Algebraic)}, is(Transcendental)},
	{[]literal{is(Finite), isNot(Zero)}, is(Nonzero)},
	{[]literal{is(Finite), isNot(Nonzero)}, is(Zero)},
	{[]literal{is(Nonnegative), isNot(Zero)}, is(Positive)},
	{[]literal{is(Nonpositive), isNot(Zero)}, is(Negative)},
	{[]literal{is(Nonnegative), is(Nonpositive)}, is(Zero)},
	{[]literal{is(Real), isNot(Negative)}, is(Nonnegative)},
	{[]literal{is(Real), isNot(Positive)}, is(Nonpositive)},
	{[]literal{is(ExtendedPositive), is(Finite)}, is(Positive)},
	{[]literal{is(ExtendedNegative), is(Finite)}, is(Negative)},
	{[]literal{is(ExtendedReal), is(Finite)}, is(Real)},
	{[]literal{is(ExtendedReal), isNot(ExtendedPositive), isNot(ExtendedNegative)}, is(Zero)},
	{[]literal{is(ExtendedReal), isNot(Zero), isNot(ExtendedNegative)}, is(ExtendedPositive)},
	{[]literal{is(ExtendedReal), isNot(Zero), isNot(ExtendedPositive)}, is(ExtendedNegative)},
	{[]literal{is(Real), isNot(Positive), isNot(Negative)}, is(Zero)},
}

var rules = buildRules()

func buildRules() []rule {
	out := make([]rule, 0, 2*len(implications)+len(conjunctions))
	for _, imp := range implications {
		out = append(out,
			rule{[]literal{imp[0]}, imp[1]},
			rule{[]literal{imp[1].negate()}, imp[0].negate()},
		)
	}
	return append(out, conjunctions...)
}

// Deduce closes f under the implication rules. It fails with
// ErrInconsistent when two rules (or an input fact and a rule) disagree.
func Deduce(f Facts) (Facts, error) {
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			fire := true
			for _, l := range r.when {
				if f[l.p] != l.v {
					fire = false
					break
				}
			}
			if !fire {
				continue
			}
			switch f[r.then.p] {
			case r.then.v:
			case logic.Unknown:
				f[r.then.p] = r.then.v
				changed = true
			default:
				return f, errors.Wrapf(ErrInconsistent, "%s contradicts %s", r.then.p, f.String())
			}
		}
	}
	return f, nil
}

// MustDeduce is Deduce for tables that are consistent by construction.
func MustDeduce(f Facts) Facts {
	out, err := Deduce(f)
	if err != nil {
		panic(err)
	}
	return out
}

// FromMap builds a fact table from a property→bool assignment.
func FromMap(m map[Property]bool) Facts {
	var f Facts
	for p, v := range m {
		f[p] = logic.FromBool(v)
	}
	return f
}
