package engine

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/expr"
	"github.com/wildfunctions/symbolic_power/pkg/logic"
	"github.com/wildfunctions/symbolic_power/pkg/pool"
)

// ErrUnknownCheck is returned for a check name that is not registered.
var ErrUnknownCheck = errors.New("unknown check")

// outcome is the result of one check on one sample.
type outcome int

const (
	outcomeSkip outcome = iota
	outcomePass
	outcomeFail
)

var outcomeNames = [...]string{"skip", "pass", "fail"}

func (o outcome) String() string { return outcomeNames[o] }

// sample is one random tree with its canonical build and the points it is
// checked at.
type sample struct {
	tree  *pool.Tree
	e     expr.Expr
	syms  []*expr.Symbol
	pts   []point
	tol   float64
	hints expr.Hints
}

// checkFunc decides a property of s. The string explains a failure.
type checkFunc func(s *sample) (outcome, string)

type check struct {
	name string
	fn   checkFunc
}

var allChecks = []check{
	{"value", checkValue},
	{"idempotent", checkIdempotent},
	{"expand", checkExpand},
	{"numer-denom", checkNumerDenom},
	{"content-primitive", checkContentPrimitive},
	{"real-imag", checkRealImag},
	{"subs", checkSubs},
	{"diff", checkDiff},
	{"facts", checkFacts},
}

func checkByName(name string) (check, bool) {
	for _, c := range allChecks {
		if c.name == name {
			return c, true
		}
	}
	return check{}, false
}

// CheckNames returns all check names, sorted.
func CheckNames() []string {
	names := make([]string, len(allChecks))
	for i, c := range allChecks {
		names[i] = c.name
	}
	sort.Strings(names)
	return names
}

// run applies c to s, turning a panic in the kernel into a failure.
func (c check) run(s *sample) (o outcome, detail string) {
	defer func() {
		if r := recover(); r != nil {
			o, detail = outcomeFail, fmt.Sprintf("panic: %v", r)
		}
	}()
	return c.fn(s)
}

// near reports whether a and b agree to a relative tolerance.
func near(a, b complex128, tol float64) bool {
	scale := math.Max(1, math.Max(cmplx.Abs(a), cmplx.Abs(b)))
	return cmplx.Abs(a-b) <= tol*scale
}

// agree compares two values at every point where both are defined.
func (s *sample) agree(what string, values func(pt point) (want, got complex128, ok bool)) (outcome, string) {
	o := outcomeSkip
	for _, pt := range s.pts {
		want, got, ok := values(pt)
		if !ok {
			continue
		}
		if !near(want, got, s.tol) {
			return outcomeFail, fmt.Sprintf("%s at %s: want %v, got %v", what, pt.render(s.syms), want, got)
		}
		o = outcomePass
	}
	return o, ""
}

// sameValue compares e and other at every point.
func (s *sample) sameValue(what string, other expr.Expr) (outcome, string) {
	return s.agree(what+" "+other.String(), func(pt point) (complex128, complex128, bool) {
		want, ok1 := expr.EvalComplex128(s.e, pt.num)
		got, ok2 := expr.EvalComplex128(other, pt.num)
		return want, got, ok1 && ok2
	})
}

// checkValue compares the canonical form against the construction as
// written, evaluated with principal branches.
func checkValue(s *sample) (outcome, string) {
	return s.agree("literal value", func(pt point) (complex128, complex128, bool) {
		want, ok1 := s.tree.Eval(pt.num)
		got, ok2 := expr.EvalComplex128(s.e, pt.num)
		return want, got, ok1 && ok2
	})
}

func reconstruct(e expr.Expr) expr.Expr {
	switch x := e.(type) {
	case *expr.Add:
		return expr.NewAdd(x.Args()...)
	case *expr.Mul:
		return expr.NewMul(x.Args()...)
	case *expr.Pow:
		return expr.NewPow(x.Base(), x.Exp())
	case *expr.Func:
		return expr.NewFunc(x.Fn(), x.Args()...)
	}
	return e
}

// checkIdempotent rebuilds every node of the canonical form through the
// constructors, which must give the same node back.
func checkIdempotent(s *sample) (outcome, string) {
	if r := expr.Transform(s.e, reconstruct); r != s.e {
		return outcomeFail, "rebuilt as " + r.String()
	}
	return outcomePass, ""
}

func checkExpand(s *sample) (outcome, string) {
	return s.sameValue("expanded to", expr.Expand(s.e, s.hints))
}

func checkNumerDenom(s *sample) (outcome, string) {
	n, d := expr.AsNumerDenom(s.e)
	return s.sameValue("numer/denom", expr.Quo(n, d))
}

func checkContentPrimitive(s *sample) (outcome, string) {
	c, p := expr.AsContentPrimitive(s.e)
	return s.sameValue("content*primitive", expr.NewMul(c, p))
}

func checkRealImag(s *sample) (outcome, string) {
	re, im := expr.AsRealImag(s.e)
	return s.sameValue("re + I*im", expr.NewAdd(re, expr.NewMul(expr.I, im)))
}

// checkSubs substitutes each point exactly and compares with the float
// evaluation of the symbolic form.
func checkSubs(s *sample) (outcome, string) {
	o := outcomeSkip
	for _, pt := range s.pts {
		pairs := make([][2]expr.Expr, len(s.syms))
		for i, sym := range s.syms {
			pairs[i] = [2]expr.Expr{sym, pt.exact[sym]}
		}
		sub := expr.SubsMap(s.e, pairs)
		if free := expr.FreeSymbols(sub); len(free) > 0 {
			return outcomeFail, fmt.Sprintf("substitution at %s left %s", pt.render(s.syms), sub)
		}
		want, ok1 := expr.EvalComplex128(s.e, pt.num)
		got, ok2 := expr.EvalComplex128(sub, nil)
		if !ok1 || !ok2 {
			continue
		}
		if !near(want, got, s.tol) {
			return outcomeFail, fmt.Sprintf("substitution at %s gave %s = %v, want %v", pt.render(s.syms), sub, got, want)
		}
		o = outcomePass
	}
	return o, ""
}

// diffTol bounds the error of the central difference. Points where the
// one-sided slopes differ by more than smoothTol are skipped, and so are
// points where float rounding of large terms exceeds diffTol.
const (
	diffTol   = 1e-4
	smoothTol = 1e-2
)

// checkDiff compares the derivative in the first non-integer free symbol
// with a central difference along the real axis.
func checkDiff(s *sample) (outcome, string) {
	var sym *expr.Symbol
	for _, f := range expr.FreeSymbols(s.e) {
		if decl := f.Declared(); !decl.Get(assume.Integer).IsTrue() {
			sym = f
			break
		}
	}
	if sym == nil {
		return outcomeSkip, ""
	}
	d, ok := expr.Diff(s.e, sym)
	if !ok {
		return outcomeSkip, ""
	}
	o := outcomeSkip
	for _, pt := range s.pts {
		v := pt.num[sym]
		h := 1e-6 * math.Max(1, cmplx.Abs(v))
		f0, ok0 := expr.EvalComplex128(s.e, pt.num)
		fp, ok1 := expr.EvalComplex128(s.e, shifted(pt.num, sym, v+complex(h, 0)))
		fm, ok2 := expr.EvalComplex128(s.e, shifted(pt.num, sym, v-complex(h, 0)))
		got, ok3 := expr.EvalComplex128(d, pt.num)
		if !ok0 || !ok1 || !ok2 || !ok3 {
			continue
		}
		// one-sided slopes disagree across a branch cut or a kink
		hc := complex(h, 0)
		if !near((fp-f0)/hc, (f0-fm)/hc, smoothTol) {
			continue
		}
		want := (fp - fm) / (2 * hc)
		// rounding in the largest term swamps the difference quotient
		if noise := epsilon * magnitude(s.e, pt.num) / h; noise > diffTol*scaleOf(got)/10 {
			continue
		}
		if !near(want, got, diffTol) {
			return outcomeFail, fmt.Sprintf("d/d%s = %s at %s: want %v, got %v", sym.Name(), d, pt.render(s.syms), want, got)
		}
		o = outcomePass
	}
	return o, ""
}

// epsilon is the float64 machine epsilon.
const epsilon = 0x1p-52

// magnitude is the largest modulus of any subexpression of e at m.
func magnitude(e expr.Expr, m map[*expr.Symbol]complex128) float64 {
	var top float64
	seen := map[expr.Expr]bool{}
	var walk func(e expr.Expr)
	walk = func(e expr.Expr) {
		if seen[e] {
			return
		}
		seen[e] = true
		if v, ok := expr.EvalComplex128(e, m); ok {
			top = math.Max(top, cmplx.Abs(v))
		}
		for _, a := range e.Args() {
			walk(a)
		}
	}
	walk(e)
	return top
}

func shifted(m map[*expr.Symbol]complex128, s *expr.Symbol, v complex128) map[*expr.Symbol]complex128 {
	out := make(map[*expr.Symbol]complex128, len(m))
	for k, w := range m {
		out[k] = w
	}
	out[s] = v
	return out
}

// numericFact decides a property of a value, Unknown when v is too close
// to the boundary to tell.
type numericFact func(v complex128, tol float64) logic.Tri

var numericFacts = []struct {
	prop   assume.Property
	decide numericFact
}{
	{assume.Zero, func(v complex128, tol float64) logic.Tri {
		if cmplx.Abs(v) > tol {
			return logic.False
		}
		return logic.Unknown
	}},
	{assume.Nonzero, func(v complex128, tol float64) logic.Tri {
		if cmplx.Abs(v) > tol {
			return logic.True
		}
		return logic.Unknown
	}},
	{assume.Real, func(v complex128, tol float64) logic.Tri {
		switch {
		case imag(v) == 0:
			return logic.True
		case math.Abs(imag(v)) > tol*scaleOf(v):
			return logic.False
		}
		return logic.Unknown
	}},
	{assume.Positive, signFact(1)},
	{assume.Negative, signFact(-1)},
	{assume.Nonnegative, signFact(-1).not()},
	{assume.Nonpositive, signFact(1).not()},
	{assume.Imaginary, func(v complex128, tol float64) logic.Tri {
		t := tol * scaleOf(v)
		switch {
		case math.Abs(real(v)) > t:
			return logic.False
		case math.Abs(imag(v)) > t:
			return logic.True
		}
		return logic.Unknown
	}},
	{assume.Integer, func(v complex128, tol float64) logic.Tri {
		t := tol * scaleOf(v)
		frac := math.Abs(real(v) - math.Round(real(v)))
		switch {
		case math.Abs(imag(v)) > t:
			return logic.False
		case frac == 0 && imag(v) == 0 && math.Abs(real(v)) > t:
			return logic.True
		case frac <= t:
			// an integer and a nearby non-integer round alike
			return logic.Unknown
		case frac > 1e3*t:
			return logic.False
		}
		return logic.Unknown
	}},
}

func scaleOf(v complex128) float64 { return math.Max(1, cmplx.Abs(v)) }

// signFact decides whether v is a real of the given sign.
func signFact(sign float64) numericFact {
	return func(v complex128, tol float64) logic.Tri {
		t := tol * scaleOf(v)
		switch {
		case math.Abs(imag(v)) > t:
			return logic.False
		case imag(v) != 0:
			return logic.Unknown
		case real(v)*sign > t:
			return logic.True
		case real(v)*sign < -t:
			return logic.False
		}
		return logic.Unknown
	}
}

// not negates a fact on reals: v is nonnegative when it is real and not
// negative.
func (f numericFact) not() numericFact {
	return func(v complex128, tol float64) logic.Tri {
		switch {
		case math.Abs(imag(v)) > tol*scaleOf(v):
			return logic.False
		case imag(v) != 0:
			return logic.Unknown
		}
		return f(v, tol).Not()
	}
}

// checkFacts confirms the deduced facts of every subexpression at each
// point where it is finite.
func checkFacts(s *sample) (outcome, string) {
	o := outcomeSkip
	seen := map[expr.Expr]bool{}
	var visit func(n expr.Expr) string
	visit = func(n expr.Expr) string {
		if seen[n] {
			return ""
		}
		seen[n] = true
		for _, a := range n.Args() {
			if msg := visit(a); msg != "" {
				return msg
			}
		}
		for _, pt := range s.pts {
			v, ok := expr.EvalComplex128(n, pt.num)
			if !ok {
				continue
			}
			o = outcomePass
			for _, f := range numericFacts {
				claimed := n.Is(f.prop)
				if !claimed.Known() {
					continue
				}
				if got := f.decide(v, s.tol); got.Known() && got != claimed {
					return fmt.Sprintf("%s is %s = %s, but its value at %s is %v", n, f.prop, claimed, pt.render(s.syms), v)
				}
			}
		}
		return ""
	}
	if msg := visit(s.e); msg != "" {
		return outcomeFail, msg
	}
	return o, ""
}
