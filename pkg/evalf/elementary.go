package evalf

import (
	"math/big"
	"sync"

	"github.com/ALTree/bigfloat"
)

// Pi is cached at the highest precision requested so far.
var piCache struct {
	mu  sync.RWMutex
	val *big.Float
}

// Pi returns pi rounded to prec bits, via Machin's formula
// pi = 16 atan(1/5) - 4 atan(1/239).
func Pi(prec uint) *big.Float {
	piCache.mu.RLock()
	if piCache.val != nil && piCache.val.Prec() >= prec {
		out := newFloat(prec).Set(piCache.val)
		piCache.mu.RUnlock()
		return out
	}
	piCache.mu.RUnlock()

	wp := prec + guard
	a := atanInv(5, wp)
	b := atanInv(239, wp)
	a.Mul(a, newFloat(wp).SetInt64(16))
	b.Mul(b, newFloat(wp).SetInt64(4))
	v := a.Sub(a, b)

	piCache.mu.Lock()
	if piCache.val == nil || piCache.val.Prec() < wp {
		piCache.val = v
	}
	piCache.mu.Unlock()
	return newFloat(prec).Set(v)
}

// atanInv returns atan(1/k) by its Taylor series.
func atanInv(k int64, prec uint) *big.Float {
	x := newFloat(prec).Quo(newFloat(prec).SetInt64(1), newFloat(prec).SetInt64(k))
	return atanSeries(x, prec)
}

// atanSeries sums x - x^3/3 + x^5/5 - ... for |x| < 1/2.
func atanSeries(x *big.Float, prec uint) *big.Float {
	sum := newFloat(prec).Set(x)
	x2 := newFloat(prec).Mul(x, x)
	pow := newFloat(prec).Set(x)
	term := newFloat(prec)
	limit := -int(prec) - 2
	for n := int64(3); ; n += 2 {
		pow.Mul(pow, x2)
		pow.Neg(pow)
		term.Quo(pow, newFloat(prec).SetInt64(n))
		if term.Sign() == 0 || term.MantExp(nil) < limit {
			break
		}
		sum.Add(sum, term)
	}
	return sum
}

// Atan returns the arctangent of a real x.
func Atan(x *big.Float) *big.Float {
	p := x.Prec()
	wp := p + guard
	if x.Sign() == 0 {
		return newFloat(p)
	}
	if x.IsInf() {
		h := Pi(wp)
		h.Quo(h, newFloat(wp).SetInt64(2))
		if x.Sign() < 0 {
			h.Neg(h)
		}
		return h.SetPrec(p)
	}
	// atan(x) = 2 atan(x / (1 + sqrt(1 + x^2))) until |x| is small.
	y := newFloat(wp).Set(x)
	halvings := uint(0)
	small := newFloat(wp).SetFloat64(1.0 / 16)
	for newFloat(wp).Abs(y).Cmp(small) > 0 {
		s := newFloat(wp).Mul(y, y)
		s.Add(s, newFloat(wp).SetInt64(1))
		s.Sqrt(s)
		s.Add(s, newFloat(wp).SetInt64(1))
		y.Quo(y, s)
		halvings++
	}
	r := atanSeries(y, wp)
	r.SetMantExp(r, int(halvings))
	return r.SetPrec(p)
}

// Atan2 returns the angle of (x, y) in (-pi, pi]. A zero y of either
// sign on the negative real axis gives +pi.
func Atan2(y, x *big.Float) *big.Float {
	p := x.Prec()
	if y.Prec() > p {
		p = y.Prec()
	}
	wp := p + guard
	switch {
	case x.Sign() == 0 && y.Sign() == 0:
		return newFloat(p)
	case x.Sign() == 0:
		h := Pi(wp)
		h.Quo(h, newFloat(wp).SetInt64(2))
		if y.Sign() < 0 {
			h.Neg(h)
		}
		return h.SetPrec(p)
	}
	q := newFloat(wp).Quo(y, x)
	a := Atan(q)
	if x.Sign() > 0 {
		return a.SetPrec(p)
	}
	pi := Pi(wp)
	if y.Sign() >= 0 {
		return a.Add(a, pi).SetPrec(p)
	}
	return a.Sub(a, pi).SetPrec(p)
}

// SinCos returns sin(x) and cos(x) for a real x.
func SinCos(x *big.Float) (sin, cos *big.Float) {
	p := x.Prec()
	if x.Sign() == 0 {
		return newFloat(p), newFloat(p).SetInt64(1)
	}
	// Reduce by multiples of pi/2; the reduction needs extra bits for
	// large arguments.
	extra := uint(0)
	if e := x.MantExp(nil); e > 0 {
		extra = uint(e)
	}
	wp := p + guard + extra
	halfPi := Pi(wp)
	halfPi.Quo(halfPi, newFloat(wp).SetInt64(2))
	k := newFloat(wp).Quo(x, halfPi)
	ki := roundInt(k)
	r := newFloat(wp).Mul(newFloat(wp).SetInt(ki), halfPi)
	r.Sub(newFloat(wp).Set(x), r)

	s, c := taylorSinCos(r, wp)
	switch new(big.Int).And(ki, big.NewInt(3)).Int64() {
	case 1:
		s, c = c, s.Neg(s)
	case 2:
		s, c = s.Neg(s), c.Neg(c)
	case 3:
		s, c = c.Neg(c), s
	}
	return s.SetPrec(p), c.SetPrec(p)
}

func roundInt(x *big.Float) *big.Int {
	h := newFloat(x.Prec()).SetFloat64(0.5)
	if x.Sign() < 0 {
		h.Neg(h)
	}
	i, _ := newFloat(x.Prec()).Add(x, h).Int(nil)
	return i
}

// taylorSinCos sums both series for |r| <= pi/4.
func taylorSinCos(r *big.Float, prec uint) (*big.Float, *big.Float) {
	sin := newFloat(prec).Set(r)
	cos := newFloat(prec).SetInt64(1)
	term := newFloat(prec).Set(r)
	limit := -int(prec) - 2
	for n := int64(1); ; n++ {
		// term is r^(n+1)/(n+1)!; even powers feed cos, odd powers sin.
		term.Mul(term, r)
		term.Quo(term, newFloat(prec).SetInt64(n+1))
		if term.Sign() == 0 || term.MantExp(nil) < limit {
			break
		}
		if n%2 == 1 {
			if n%4 == 1 {
				cos.Sub(cos, term)
			} else {
				cos.Add(cos, term)
			}
		} else {
			if n%4 == 2 {
				sin.Sub(sin, term)
			} else {
				sin.Add(sin, term)
			}
		}
	}
	return sin, cos
}

// Sin returns sin(z) = sin(a)cosh(b) + i cos(a)sinh(b).
func Sin(z Num) Num {
	s, c := SinCos(z.Re)
	if z.IsReal() {
		return Real(s)
	}
	ch, sh := coshSinh(z.Im)
	p := z.Prec()
	return Num{newFloat(p).Mul(s, ch), newFloat(p).Mul(c, sh)}
}

// Cos returns cos(z) = cos(a)cosh(b) - i sin(a)sinh(b).
func Cos(z Num) Num {
	s, c := SinCos(z.Re)
	if z.IsReal() {
		return Real(c)
	}
	ch, sh := coshSinh(z.Im)
	p := z.Prec()
	im := newFloat(p).Mul(s, sh)
	return Num{newFloat(p).Mul(c, ch), im.Neg(im)}
}

func coshSinh(x *big.Float) (*big.Float, *big.Float) {
	p := x.Prec()
	wp := p + guard
	ep := bigfloat.Exp(newFloat(wp).Set(x))
	em := newFloat(wp).Quo(newFloat(wp).SetInt64(1), ep)
	ch := newFloat(wp).Add(ep, em)
	sh := newFloat(wp).Sub(ep, em)
	ch.SetMantExp(ch, -1)
	sh.SetMantExp(sh, -1)
	return ch.SetPrec(p), sh.SetPrec(p)
}
