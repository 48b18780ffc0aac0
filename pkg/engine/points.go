package engine

import (
	"math/rand"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/expr"
)

// point binds every pool symbol to an exact value and its float image.
type point struct {
	exact map[*expr.Symbol]expr.Expr
	num   map[*expr.Symbol]complex128
}

// render shows the binding in symbol order.
func (pt point) render(syms []*expr.Symbol) string {
	s := "{"
	for i, sym := range syms {
		if i > 0 {
			s += ", "
		}
		s += sym.Name() + ": " + pt.exact[sym].String()
	}
	return s + "}"
}

// samplePoints draws n bindings that respect each symbol's declared
// assumptions.
func samplePoints(syms []*expr.Symbol, n int, rng *rand.Rand) []point {
	pts := make([]point, n)
	for i := range pts {
		pt := point{
			exact: make(map[*expr.Symbol]expr.Expr, len(syms)),
			num:   make(map[*expr.Symbol]complex128, len(syms)),
		}
		for _, s := range syms {
			v := sampleValue(s.Declared(), rng)
			c, _ := expr.EvalComplex128(v, nil)
			pt.exact[s] = v
			pt.num[s] = c
		}
		pts[i] = pt
	}
	return pts
}

func sampleValue(f assume.Facts, rng *rand.Rand) expr.Expr {
	switch {
	case f.Get(assume.Imaginary).IsTrue():
		return expr.NewMul(nonzeroRat(rng), expr.I)
	case f.Get(assume.Integer).IsTrue():
		k := int64(rng.Intn(6))
		switch {
		case f.Get(assume.Even).IsTrue():
			return expr.NewInt(2 * (k - 3))
		case f.Get(assume.Odd).IsTrue():
			return expr.NewInt(2*(k-3) + 1)
		case f.Get(assume.Positive).IsTrue():
			return expr.NewInt(k + 1)
		case f.Get(assume.Negative).IsTrue():
			return expr.NewInt(-k - 1)
		case f.Get(assume.Nonnegative).IsTrue():
			return expr.NewInt(k)
		}
		return expr.NewInt(k - 3 + int64(rng.Intn(2)))
	case f.Get(assume.Positive).IsTrue():
		return positiveRat(rng)
	case f.Get(assume.Negative).IsTrue():
		return expr.Neg(positiveRat(rng))
	case f.Get(assume.Nonnegative).IsTrue():
		if rng.Intn(8) == 0 {
			return expr.Zero
		}
		return positiveRat(rng)
	case f.Get(assume.Real).IsTrue():
		return expr.NewRat(int64(rng.Intn(25)-12), int64(rng.Intn(4)+1))
	}
	return expr.NewAdd(expr.NewRat(int64(rng.Intn(25)-12), int64(rng.Intn(4)+1)),
		expr.NewMul(nonzeroRat(rng), expr.I))
}

func positiveRat(rng *rand.Rand) *expr.Number {
	return expr.NewRat(int64(rng.Intn(12)+1), int64(rng.Intn(4)+1))
}

func nonzeroRat(rng *rand.Rand) *expr.Number {
	v := positiveRat(rng)
	if rng.Intn(2) == 0 {
		return expr.NewRat(-v.Num().Int64(), v.Den().Int64())
	}
	return v
}
