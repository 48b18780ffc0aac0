package expr

import (
	"math"
	"math/cmplx"
)

// EvalComplex128 evaluates e in machine precision with symbols bound by
// subs. It reports false for unbound symbols, poles, infinities and nan.
// Principal branches match Evalf.
func EvalComplex128(e Expr, subs map[*Symbol]complex128) (complex128, bool) {
	memo := make(map[Expr]complex128)
	var eval func(Expr) (complex128, bool)
	eval = func(n Expr) (complex128, bool) {
		if v, ok := memo[n]; ok {
			return v, true
		}
		v, ok := evalC128(n, subs, eval)
		if !ok || cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return 0, false
		}
		// -0 imaginary parts would flip the branch of log and sqrt
		if imag(v) == 0 {
			v = complex(real(v), 0)
		}
		memo[n] = v
		return v, true
	}
	return eval(e)
}

func evalC128(e Expr, subs map[*Symbol]complex128, eval func(Expr) (complex128, bool)) (complex128, bool) {
	switch x := e.(type) {
	case *Number:
		f, _ := x.val.Float64()
		return complex(f, 0), true

	case *Constant:
		switch x {
		case Pi:
			return math.Pi, true
		case E:
			return math.E, true
		case I:
			return 1i, true
		}
		return 0, false

	case *Symbol:
		v, ok := subs[x]
		return v, ok

	case *Add:
		var sum complex128
		for _, t := range x.args {
			v, ok := eval(t)
			if !ok {
				return 0, false
			}
			sum += v
		}
		return sum, true

	case *Mul:
		prod := complex128(1)
		for _, f := range x.args {
			v, ok := eval(f)
			if !ok {
				return 0, false
			}
			prod *= v
		}
		return prod, true

	case *Pow:
		w, ok := eval(x.args[1])
		if !ok {
			return 0, false
		}
		if x.args[0] == E {
			return cmplx.Exp(w), true
		}
		z, ok := eval(x.args[0])
		if !ok {
			return 0, false
		}
		return powC128(z, w)

	case *Func:
		return funcC128(x, eval)
	}
	return 0, false
}

// powC128 returns the principal z**w. Integer and half-integer exponents
// are computed by squaring so that real bases give real results.
func powC128(z, w complex128) (complex128, bool) {
	if imag(w) == 0 && real(w) == math.Trunc(real(w)) && math.Abs(real(w)) <= 1<<16 {
		n := int64(real(w))
		if z == 0 {
			switch {
			case n > 0:
				return 0, true
			case n == 0:
				return 1, true
			}
			return 0, false
		}
		neg := n < 0
		if neg {
			n = -n
		}
		out, b := complex128(1), z
		for ; n > 0; n >>= 1 {
			if n&1 == 1 {
				out *= b
			}
			b *= b
		}
		if neg {
			return 1 / out, true
		}
		return out, true
	}
	if z == 0 {
		if real(w) > 0 {
			return 0, true
		}
		return 0, false
	}
	if imag(z) == 0 && real(z) > 0 && imag(w) == 0 {
		return complex(math.Pow(real(z), real(w)), 0), true
	}
	if h := 2 * real(w); imag(w) == 0 && h == math.Trunc(h) && math.Abs(h) <= 1<<16 {
		// half-integer powers go through the exact principal square root
		return powC128(cmplx.Sqrt(z), complex(h, 0))
	}
	return cmplx.Exp(w * cmplx.Log(z)), true
}

func funcC128(f *Func, eval func(Expr) (complex128, bool)) (complex128, bool) {
	if f.fn == FnOrder {
		return 0, false
	}
	z, ok := eval(f.args[0])
	if !ok {
		return 0, false
	}
	switch f.fn {
	case FnLog:
		if z == 0 {
			return 0, false
		}
		return cmplx.Log(z), true
	case FnAbs:
		return complex(cmplx.Abs(z), 0), true
	case FnRe:
		return complex(real(z), 0), true
	case FnIm:
		return complex(imag(z), 0), true
	case FnArg:
		if z == 0 {
			return 0, false
		}
		return complex(cmplx.Phase(z), 0), true
	case FnSign:
		if z == 0 {
			return 0, true
		}
		return z / complex(cmplx.Abs(z), 0), true
	case FnFloor:
		if imag(z) != 0 {
			return 0, false
		}
		return complex(math.Floor(real(z)), 0), true
	case FnConjugate:
		return cmplx.Conj(z), true
	case FnSin:
		return cmplx.Sin(z), true
	case FnCos:
		return cmplx.Cos(z), true
	case FnAtan2:
		x, ok := eval(f.args[1])
		if !ok || imag(z) != 0 || imag(x) != 0 || (z == 0 && x == 0) {
			return 0, false
		}
		return complex(math.Atan2(real(z), real(x)), 0), true
	}
	return 0, false
}
