package expr

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
)

// ErrArity is returned by NewFuncChecked for a wrong argument count.
var ErrArity = errors.New("wrong number of arguments")

// Arity returns the number of arguments fn takes.
func (f FuncKind) Arity() int {
	if f == FnAtan2 {
		return 2
	}
	return 1
}

// NewFunc applies fn to args and canonicalizes the result. It panics on a
// wrong argument count; see NewFuncChecked.
func NewFunc(fn FuncKind, args ...Expr) Expr {
	e, err := NewFuncChecked(fn, args...)
	if err != nil {
		panic(err)
	}
	return e
}

// NewFuncChecked is NewFunc with an error for a wrong argument count.
func NewFuncChecked(fn FuncKind, args ...Expr) (Expr, error) {
	if len(args) != fn.Arity() {
		return nil, errors.Wrapf(ErrArity, "%s takes %d, got %d", fn, fn.Arity(), len(args))
	}
	args = append([]Expr(nil), args...)
	return memoized(opKey("F"+fn.String(), args...), func() Expr { return buildFunc(fn, args) }), nil
}

func newFuncRaw(fn FuncKind, args ...Expr) Expr {
	f := &Func{fn: fn}
	f.args = args
	f.key = "f" + fn.String() + idList(args)
	return intern(f)
}

func buildFunc(fn FuncKind, args []Expr) Expr {
	x := args[0]
	if x == NaN || (len(args) > 1 && args[1] == NaN) {
		return NaN
	}
	var r Expr
	switch fn {
	case FnLog:
		r = logCanon(x)
	case FnAbs:
		r = absCanon(x)
	case FnRe:
		r = reCanon(x)
	case FnIm:
		r = imCanon(x)
	case FnArg:
		r = argCanon(x)
	case FnSign:
		r = signCanon(x)
	case FnFloor:
		r = floorCanon(x)
	case FnConjugate:
		r = conjugateCanon(x)
	case FnSin:
		r = sinCanon(x)
	case FnCos:
		r = cosCanon(x)
	case FnAtan2:
		r = atan2Canon(args[0], args[1])
	case FnOrder:
		r = orderCanon(x)
	}
	if r != nil {
		return r
	}
	return newFuncRaw(fn, args...)
}

// Log returns the principal natural logarithm.
func Log(x Expr) Expr { return NewFunc(FnLog, x) }

// Abs returns |x|.
func Abs(x Expr) Expr { return NewFunc(FnAbs, x) }

// Re returns the real part.
func Re(x Expr) Expr { return NewFunc(FnRe, x) }

// Im returns the imaginary part.
func Im(x Expr) Expr { return NewFunc(FnIm, x) }

// Arg returns the principal argument in (-pi, pi].
func Arg(x Expr) Expr { return NewFunc(FnArg, x) }

// Sign returns x/|x|, or 0 for x = 0.
func Sign(x Expr) Expr { return NewFunc(FnSign, x) }

// Floor returns the greatest integer not above x.
func Floor(x Expr) Expr { return NewFunc(FnFloor, x) }

// Conjugate returns the complex conjugate.
func Conjugate(x Expr) Expr { return NewFunc(FnConjugate, x) }

func Sin(x Expr) Expr { return NewFunc(FnSin, x) }
func Cos(x Expr) Expr { return NewFunc(FnCos, x) }

// Atan2 returns the angle of the point (x, y).
func Atan2(y, x Expr) Expr { return NewFunc(FnAtan2, y, x) }

// Order returns the big-O term O(x).
func Order(x Expr) Expr { return NewFunc(FnOrder, x) }

func isFn(e Expr, fn FuncKind) (*Func, bool) {
	f, ok := e.(*Func)
	if !ok || f.fn != fn {
		return nil, false
	}
	return f, true
}

// halfPiI is I*pi/2 times s.
func halfPiI(s int64) Expr { return NewMul(NewRat(s, 2), I, Pi) }

func logCanon(x Expr) Expr {
	switch x {
	case One:
		return Zero
	case E:
		return One
	case Zero:
		return ComplexInfinity
	case Infinity, NegativeInfinity:
		return Infinity
	case ComplexInfinity:
		return ComplexInfinity
	case I:
		return halfPiI(1)
	}
	switch v := x.(type) {
	case *Number:
		if v.Sign() < 0 {
			return NewAdd(Log(numNeg(v)), NewMul(I, Pi))
		}
		if !v.IsInt() && v.val.Num().Cmp(big.NewInt(1)) == 0 {
			return Neg(Log(NewBigInt(v.Den())))
		}
	case *Pow:
		if v.args[0] == E && v.args[1].Is(assume.Real).IsTrue() {
			return v.args[1]
		}
	case *Mul:
		// log(c*I) for a rational c
		if len(v.args) == 2 && v.args[1] == I {
			if c, ok := v.args[0].(*Number); ok {
				if c.Sign() > 0 {
					return NewAdd(Log(c), halfPiI(1))
				}
				return NewAdd(Log(numNeg(c)), halfPiI(-1))
			}
		}
	}
	return nil
}

func absCanon(x Expr) Expr {
	switch x {
	case I, NegativeOne:
		return One
	case Infinity, NegativeInfinity, ComplexInfinity:
		return Infinity
	}
	if n, ok := x.(*Number); ok {
		return numAbs(n)
	}
	switch {
	case x.Is(assume.ExtendedReal).IsTrue() && x.Is(assume.ExtendedNegative).IsFalse():
		return x
	case x.Is(assume.ExtendedReal).IsTrue() && x.Is(assume.ExtendedPositive).IsFalse():
		return Neg(x)
	case x.Is(assume.Imaginary).IsTrue():
		y := NewMul(NegativeOne, I, x)
		switch {
		case y.Is(assume.Nonnegative).IsTrue():
			return y
		case y.Is(assume.Nonpositive).IsTrue():
			return Neg(y)
		}
	}
	switch v := x.(type) {
	case *Mul:
		var known, unknown []Expr
		for _, f := range v.args {
			a := Abs(f)
			if g, ok := isFn(a, FnAbs); ok && g.args[0] == f {
				unknown = append(unknown, f)
				continue
			}
			known = append(known, a)
		}
		if len(known) > 0 {
			if len(unknown) > 0 {
				known = append(known, Abs(NewMul(unknown...)))
			}
			return NewMul(known...)
		}
	case *Pow:
		b, e := AsBaseExp(v)
		if b.Is(assume.ExtendedReal).IsTrue() {
			if e.Is(assume.Integer).IsTrue() {
				if e.Is(assume.Even).IsTrue() {
					return x
				}
				return NewPow(Abs(b), e)
			}
			switch {
			case b.Is(assume.Nonnegative).IsTrue():
				return NewPow(b, Re(e))
			case b.Is(assume.Negative).IsTrue():
				return NewMul(NewPow(Neg(b), Re(e)), Exp(NewMul(NegativeOne, Pi, Im(e))))
			}
			return nil
		}
		if !b.hdr().free && b.Is(assume.Finite).IsTrue() && b.Is(assume.Zero).IsFalse() {
			// |b**e| = exp(re(e*log(b)))
			if r := Re(NewMul(e, Log(b))); !containsFn(r, FnRe, FnIm) {
				return Exp(r)
			}
		}
		return nil
	case *Func:
		switch v.fn {
		case FnAbs:
			return v
		case FnConjugate:
			return Abs(v.args[0])
		}
	}
	if !x.hdr().free && x.Is(assume.Finite).IsTrue() {
		re, im := Re(x), Im(x)
		if !containsFn(re, FnRe, FnIm) && !containsFn(im, FnRe, FnIm) {
			return Sqrt(NewAdd(NewPow(re, Two), NewPow(im, Two)))
		}
	}
	return nil
}

// containsFn reports whether some subexpression of e applies one of fns.
func containsFn(e Expr, fns ...FuncKind) bool {
	found := false
	walk(e, func(n Expr) bool {
		if f, ok := n.(*Func); ok {
			for _, fn := range fns {
				if f.fn == fn {
					found = true
				}
			}
		}
		return !found
	})
	return found
}

// splitReal separates the finite real factors of a product from the rest
// and reports whether a factor I was among the rest.
func splitReal(m *Mul) (reals []Expr, rest []Expr, hasI bool) {
	for _, f := range m.args {
		switch {
		case f == I:
			hasI = true
		case f.Is(assume.Real).IsTrue():
			reals = append(reals, f)
		default:
			rest = append(rest, f)
		}
	}
	return reals, rest, hasI
}

// distribute maps fn over the terms of a sum, or returns nil when no term
// simplifies.
func distribute(fn FuncKind, a *Add) Expr {
	parts := make([]Expr, len(a.args))
	simplified := false
	for i, t := range a.args {
		parts[i] = NewFunc(fn, t)
		if f, ok := isFn(parts[i], fn); !ok || f.args[0] != t {
			simplified = true
		}
	}
	if !simplified {
		return nil
	}
	return NewAdd(parts...)
}

func reCanon(x Expr) Expr {
	switch {
	case x == ComplexInfinity:
		return NaN
	case x.Is(assume.ExtendedReal).IsTrue():
		return x
	case x.Is(assume.Imaginary).IsTrue(), NewMul(I, x).Is(assume.ExtendedReal).IsTrue():
		return Zero
	}
	switch v := x.(type) {
	case *Add:
		return distribute(FnRe, v)
	case *Mul:
		reals, rest, hasI := splitReal(v)
		if len(reals) == 0 && !hasI {
			return nil
		}
		if hasI {
			// re(I*y) = -im(y)
			return NewMul(append(reals, NegativeOne, Im(NewMul(rest...)))...)
		}
		return NewMul(append(reals, Re(NewMul(rest...)))...)
	case *Func:
		switch v.fn {
		case FnConjugate:
			return Re(v.args[0])
		case FnLog:
			return Log(Abs(v.args[0]))
		}
	}
	return nil
}

func imCanon(x Expr) Expr {
	switch {
	case x == ComplexInfinity:
		return NaN
	case x.Is(assume.ExtendedReal).IsTrue():
		return Zero
	case x.Is(assume.Imaginary).IsTrue(), NewMul(I, x).Is(assume.ExtendedReal).IsTrue():
		return NewMul(NegativeOne, I, x)
	}
	switch v := x.(type) {
	case *Add:
		return distribute(FnIm, v)
	case *Mul:
		reals, rest, hasI := splitReal(v)
		if len(reals) == 0 && !hasI {
			return nil
		}
		if hasI {
			// im(I*y) = re(y)
			return NewMul(append(reals, Re(NewMul(rest...)))...)
		}
		return NewMul(append(reals, Im(NewMul(rest...)))...)
	case *Func:
		switch v.fn {
		case FnConjugate:
			return Neg(Im(v.args[0]))
		case FnLog:
			return Arg(v.args[0])
		}
	}
	return nil
}

func argCanon(x Expr) Expr {
	switch x {
	case Zero, ComplexInfinity:
		return NaN
	case Infinity:
		return Zero
	case NegativeInfinity:
		return Pi
	}
	switch {
	case x.Is(assume.Positive).IsTrue():
		return Zero
	case x.Is(assume.Negative).IsTrue():
		return Pi
	case x.Is(assume.Imaginary).IsTrue():
		y := NewMul(NegativeOne, I, x)
		switch {
		case y.Is(assume.Positive).IsTrue():
			return NewMul(Half, Pi)
		case y.Is(assume.Negative).IsTrue():
			return NewMul(NewRat(-1, 2), Pi)
		}
	}
	if m, ok := x.(*Mul); ok {
		var kept []Expr
		for _, f := range m.args {
			if !f.Is(assume.Positive).IsTrue() {
				kept = append(kept, f)
			}
		}
		if len(kept) < len(m.args) {
			return Arg(NewMul(kept...))
		}
	}
	return nil
}

func signCanon(x Expr) Expr {
	switch {
	case x.Is(assume.Zero).IsTrue():
		return Zero
	case x.Is(assume.ExtendedPositive).IsTrue():
		return One
	case x.Is(assume.ExtendedNegative).IsTrue():
		return NegativeOne
	case x.Is(assume.Imaginary).IsTrue():
		y := NewMul(NegativeOne, I, x)
		switch {
		case y.Is(assume.Positive).IsTrue():
			return I
		case y.Is(assume.Negative).IsTrue():
			return Neg(I)
		}
	}
	if m, ok := x.(*Mul); ok {
		var known, unknown []Expr
		for _, f := range m.args {
			s := Sign(f)
			if g, ok := isFn(s, FnSign); ok && g.args[0] == f {
				unknown = append(unknown, f)
				continue
			}
			known = append(known, s)
		}
		if len(known) > 0 {
			if len(unknown) > 0 {
				known = append(known, Sign(NewMul(unknown...)))
			}
			return NewMul(known...)
		}
	}
	return nil
}

func floorCanon(x Expr) Expr {
	switch x {
	case Infinity, NegativeInfinity:
		return x
	case ComplexInfinity:
		return NaN
	}
	if n, ok := x.(*Number); ok {
		q, _ := floorDivmod(n.val.Num(), n.val.Denom())
		return NewBigInt(q)
	}
	if x.Is(assume.Integer).IsTrue() {
		return x
	}
	if a, ok := x.(*Add); ok {
		var ints, rest []Expr
		for _, t := range a.args {
			if t.Is(assume.Integer).IsTrue() {
				ints = append(ints, t)
			} else {
				rest = append(rest, t)
			}
		}
		if len(ints) > 0 {
			return NewAdd(append(ints, Floor(NewAdd(rest...)))...)
		}
	}
	if !x.hdr().free && x.Is(assume.Real).IsTrue() {
		if q, err := certifiedFloor(x); err == nil {
			return NewBigInt(q)
		}
	}
	return nil
}

func conjugateCanon(x Expr) Expr {
	switch {
	case x.Is(assume.ExtendedReal).IsTrue():
		return x
	case x.Is(assume.Imaginary).IsTrue():
		return Neg(x)
	}
	switch v := x.(type) {
	case *Add:
		out := make([]Expr, len(v.args))
		for i, t := range v.args {
			out[i] = Conjugate(t)
		}
		return NewAdd(out...)
	case *Mul:
		out := make([]Expr, len(v.args))
		for i, f := range v.args {
			out[i] = Conjugate(f)
		}
		return NewMul(out...)
	case *Pow:
		b, e := v.args[0], v.args[1]
		integer, positive := e.Is(assume.Integer), b.Is(assume.Positive)
		switch {
		case integer.IsTrue():
			return NewPow(Conjugate(b), e)
		case positive.IsTrue():
			return NewPow(b, Conjugate(e))
		case integer.IsFalse() && positive.IsFalse():
			re, im := AsRealImag(v)
			if !containsFn(re, FnRe, FnIm) && !containsFn(im, FnRe, FnIm) {
				return NewAdd(re, NewMul(NegativeOne, I, im))
			}
		}
	case *Func:
		switch v.fn {
		case FnConjugate:
			return v.args[0]
		case FnSin, FnCos:
			return NewFunc(v.fn, Conjugate(v.args[0]))
		}
	}
	return nil
}

// piMultiple returns c for x = c*pi with a rational c.
func piMultiple(x Expr) (*Number, bool) {
	if x == Pi {
		return One, true
	}
	m, ok := x.(*Mul)
	if !ok || len(m.args) != 2 || m.args[1] != Pi {
		return nil, false
	}
	c, ok := m.args[0].(*Number)
	return c, ok
}

func sinCanon(x Expr) Expr {
	if x == Zero {
		return Zero
	}
	if c, ok := piMultiple(x); ok {
		twice := numMul(Two, c)
		if twice.IsInt() {
			if c.IsInt() {
				return Zero
			}
			// sin((2k+1)*pi/2) = (-1)**k
			k, _ := floorDivmod(twice.val.Num(), big.NewInt(2))
			return NewPow(NegativeOne, NewBigInt(k))
		}
	}
	if coeffIsNeg(x) {
		return Neg(Sin(Neg(x)))
	}
	return nil
}

func cosCanon(x Expr) Expr {
	if x == Zero {
		return One
	}
	if c, ok := piMultiple(x); ok {
		twice := numMul(Two, c)
		if twice.IsInt() {
			if c.IsInt() {
				return NewPow(NegativeOne, c)
			}
			return Zero
		}
	}
	if coeffIsNeg(x) {
		return Cos(Neg(x))
	}
	return nil
}

func atan2Canon(y, x Expr) Expr {
	switch {
	case x.Is(assume.Zero).IsTrue():
		switch {
		case y.Is(assume.Positive).IsTrue():
			return NewMul(Half, Pi)
		case y.Is(assume.Negative).IsTrue():
			return NewMul(NewRat(-1, 2), Pi)
		case y.Is(assume.Zero).IsTrue():
			return NaN
		}
	case y.Is(assume.Zero).IsTrue():
		switch {
		case x.Is(assume.Positive).IsTrue():
			return Zero
		case x.Is(assume.Negative).IsTrue():
			return Pi
		}
	}
	yn, ok1 := y.(*Number)
	xn, ok2 := x.(*Number)
	if ok1 && ok2 && numAbs(yn) == numAbs(xn) {
		// the diagonals
		q := NewRat(1, 4)
		if xn.Sign() < 0 {
			q = NewRat(3, 4)
		}
		if yn.Sign() < 0 {
			q = numNeg(q)
		}
		return NewMul(q, Pi)
	}
	return nil
}

func orderCanon(x Expr) Expr {
	switch v := x.(type) {
	case *Number:
		if v.Sign() == 0 {
			return Zero
		}
		if v != One {
			return Order(One)
		}
	case *Mul:
		if _, ok := v.args[0].(*Number); ok {
			return Order(NewMul(v.args[1:]...))
		}
	}
	return nil
}
