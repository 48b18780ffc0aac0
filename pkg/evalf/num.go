// Package evalf is an arbitrary-precision complex evaluator. It never
// returns a value it cannot vouch for: callers that need a sign or an
// integer part get ErrPrecisionExhausted instead of a guess.
package evalf

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/pkg/errors"
)

var (
	// ErrPrecisionExhausted means the working precision was not enough to
	// certify the requested answer.
	ErrPrecisionExhausted = errors.New("precision exhausted")
	// ErrUndefined is returned for poles and other undefined values.
	ErrUndefined = errors.New("undefined value")
	// ErrNotNumeric is returned when an expression has no numeric value,
	// e.g. it contains an unbound symbol or an infinity.
	ErrNotNumeric = errors.New("not a numeric value")
)

// guard bits added to every intermediate computation.
const guard = 32

// Num is a complex number with big.Float parts of equal precision.
type Num struct {
	Re, Im *big.Float
}

func newFloat(prec uint) *big.Float { return new(big.Float).SetPrec(prec) }

// FromRat converts an exact rational.
func FromRat(r *big.Rat, prec uint) Num {
	return Num{newFloat(prec).SetRat(r), newFloat(prec)}
}

// FromInt64 converts a machine integer.
func FromInt64(v int64, prec uint) Num {
	return Num{newFloat(prec).SetInt64(v), newFloat(prec)}
}

// Real wraps a real value.
func Real(x *big.Float) Num {
	return Num{x, newFloat(x.Prec())}
}

// Complex builds re + i*im.
func Complex(re, im *big.Float) Num { return Num{re, im} }

// Unit returns the imaginary unit.
func Unit(prec uint) Num {
	return Num{newFloat(prec), newFloat(prec).SetInt64(1)}
}

// Prec returns the precision of the real part.
func (z Num) Prec() uint { return z.Re.Prec() }

// IsReal reports whether the imaginary part is exactly zero.
func (z Num) IsReal() bool { return z.Im.Sign() == 0 }

// IsZero reports whether both parts are exactly zero.
func (z Num) IsZero() bool { return z.Re.Sign() == 0 && z.Im.Sign() == 0 }

// Complex128 rounds z to machine precision.
func (z Num) Complex128() complex128 {
	re, _ := z.Re.Float64()
	im, _ := z.Im.Float64()
	return complex(re, im)
}

func (z Num) String() string {
	if z.IsReal() {
		return z.Re.Text('g', 20)
	}
	return fmt.Sprintf("(%s%+si)", z.Re.Text('g', 20), z.Im.Text('g', 20))
}

// Add returns z + w.
func Add(z, w Num) Num {
	p := z.Prec()
	return Num{newFloat(p).Add(z.Re, w.Re), newFloat(p).Add(z.Im, w.Im)}
}

// Sub returns z - w.
func Sub(z, w Num) Num {
	p := z.Prec()
	return Num{newFloat(p).Sub(z.Re, w.Re), newFloat(p).Sub(z.Im, w.Im)}
}

// Neg returns -z.
func Neg(z Num) Num {
	p := z.Prec()
	return Num{newFloat(p).Neg(z.Re), newFloat(p).Neg(z.Im)}
}

// Mul returns z*w.
func Mul(z, w Num) Num {
	p := z.Prec()
	if z.IsReal() && w.IsReal() {
		return Real(newFloat(p).Mul(z.Re, w.Re))
	}
	a, b := newFloat(p).Mul(z.Re, w.Re), newFloat(p).Mul(z.Im, w.Im)
	c, d := newFloat(p).Mul(z.Re, w.Im), newFloat(p).Mul(z.Im, w.Re)
	return Num{a.Sub(a, b), c.Add(c, d)}
}

// Conj returns the complex conjugate of z.
func Conj(z Num) Num {
	return Num{newFloat(z.Prec()).Set(z.Re), newFloat(z.Prec()).Neg(z.Im)}
}

// Quo returns z/w, failing with ErrUndefined when w is zero.
func Quo(z, w Num) (Num, error) {
	if w.IsZero() {
		return Num{}, errors.Wrap(ErrUndefined, "division by zero")
	}
	p := z.Prec()
	if w.IsReal() {
		return Num{newFloat(p).Quo(z.Re, w.Re), newFloat(p).Quo(z.Im, w.Re)}, nil
	}
	den := newFloat(p).Mul(w.Re, w.Re)
	den.Add(den, newFloat(p).Mul(w.Im, w.Im))
	n := Mul(z, Conj(w))
	return Num{n.Re.Quo(n.Re, den), n.Im.Quo(n.Im, den)}, nil
}

// Abs returns |z|.
func Abs(z Num) *big.Float {
	p := z.Prec()
	if z.IsReal() {
		return newFloat(p).Abs(z.Re)
	}
	if z.Re.Sign() == 0 {
		return newFloat(p).Abs(z.Im)
	}
	s := newFloat(p).Mul(z.Re, z.Re)
	s.Add(s, newFloat(p).Mul(z.Im, z.Im))
	return s.Sqrt(s)
}

// Arg returns the principal argument of z in (-pi, pi]. Arg(0) is 0.
func Arg(z Num) *big.Float {
	return Atan2(z.Im, z.Re)
}

// Exp returns e**z.
func Exp(z Num) Num {
	p := z.Prec()
	r := bigfloat.Exp(newFloat(p + guard).Set(z.Re))
	if z.Im.Sign() == 0 {
		return Real(r.SetPrec(p))
	}
	s, c := SinCos(z.Im)
	return Num{
		newFloat(p).Mul(r, c),
		newFloat(p).Mul(r, s),
	}
}

// Log returns the principal logarithm of z.
func Log(z Num) (Num, error) {
	if z.IsZero() {
		return Num{}, errors.Wrap(ErrUndefined, "log(0)")
	}
	p := z.Prec()
	m := Abs(z)
	re := bigfloat.Log(m.SetPrec(p + guard)).SetPrec(p)
	if z.IsReal() && z.Re.Sign() > 0 {
		return Real(re), nil
	}
	return Num{re, Arg(z)}, nil
}

// Pow returns the principal value of z**w. Small integer exponents use
// repeated squaring so exact inputs stay exact as long as possible.
func Pow(z, w Num) (Num, error) {
	p := z.Prec()
	if w.IsReal() && w.Re.IsInt() {
		if n, acc := w.Re.Int64(); acc == big.Exact && n > -1<<16 && n < 1<<16 {
			return powInt(z, n)
		}
	}
	if z.IsZero() {
		switch w.Re.Sign() {
		case 1:
			return Num{newFloat(p), newFloat(p)}, nil
		default:
			return Num{}, errors.Wrap(ErrUndefined, "0 raised to a non-positive power")
		}
	}
	if z.IsReal() && z.Re.Sign() > 0 && w.IsReal() {
		r := bigfloat.Pow(newFloat(p+guard).Set(z.Re), newFloat(p+guard).Set(w.Re))
		return Real(r.SetPrec(p)), nil
	}
	lz, err := Log(z)
	if err != nil {
		return Num{}, err
	}
	return Exp(Mul(w, lz)), nil
}

func powInt(z Num, n int64) (Num, error) {
	p := z.Prec()
	if n == 0 {
		return FromInt64(1, p), nil
	}
	neg := n < 0
	if neg {
		if z.IsZero() {
			return Num{}, errors.Wrap(ErrUndefined, "0 raised to a negative power")
		}
		n = -n
	}
	out := FromInt64(1, p)
	b := z
	for n > 0 {
		if n&1 == 1 {
			out = Mul(out, b)
		}
		b = Mul(b, b)
		n >>= 1
	}
	if neg {
		return Quo(FromInt64(1, p), out)
	}
	return out, nil
}

// Certified reports whether x is far enough from zero for its sign to be
// trusted at the given working precision.
func Certified(x *big.Float, prec uint) bool {
	if x.Sign() == 0 {
		return false
	}
	return x.MantExp(nil) > -int(prec/2)
}

// Sign returns the certified sign of x, or ErrPrecisionExhausted.
func Sign(x *big.Float, prec uint) (int, error) {
	if !Certified(x, prec) {
		return 0, errors.Wrapf(ErrPrecisionExhausted, "sign of %s at %d bits", x.Text('g', 10), prec)
	}
	return x.Sign(), nil
}

// Floor returns the certified floor of x. It fails when x lies within
// 2**-(prec/2) of an integer.
func Floor(x *big.Float, prec uint) (*big.Int, error) {
	if x.IsInf() {
		return nil, errors.Wrap(ErrNotNumeric, "floor of infinity")
	}
	fl, _ := x.Int(nil)
	if x.Sign() < 0 && !x.IsInt() {
		fl.Sub(fl, big.NewInt(1))
	}
	frac := newFloat(x.Prec()).Sub(x, newFloat(x.Prec()).SetInt(fl))
	one := newFloat(x.Prec()).SetInt64(1)
	near := newFloat(x.Prec()).Sub(one, frac)
	if !Certified(frac, prec) || !Certified(near, prec) {
		return nil, errors.Wrapf(ErrPrecisionExhausted, "floor of %s at %d bits", x.Text('g', 10), prec)
	}
	return fl, nil
}

// Float64 returns a finite machine approximation of x.
func Float64(x *big.Float) (float64, bool) {
	f, _ := x.Float64()
	return f, !math.IsInf(f, 0) && !math.IsNaN(f)
}
