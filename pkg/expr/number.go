package expr

import (
	"math"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotExpr is returned by FromLiteral for values with no expression
// form.
var ErrNotExpr = errors.New("value is not convertible to an expression")

// Singletons. They are package-level variables so that Go's dependency
// ordering builds them before any other package state that constructs
// nodes.
var (
	Zero        = NewInt(0)
	One         = NewInt(1)
	NegativeOne = NewInt(-1)
	Two         = NewInt(2)
	Half        = NewRat(1, 2)

	Infinity         = newConstant("oo")
	NegativeInfinity = newConstant("-oo")
	ComplexInfinity  = newConstant("zoo")
	NaN              = newConstant("nan")
	I                = newConstant("I")
	Pi               = newConstant("pi")
	E                = newConstant("E")
)

func newConstant(name string) *Constant {
	c := &Constant{name: name}
	c.key = "c" + name
	return intern(c).(*Constant)
}

// NewBigRat returns the Number with value r. r is copied.
func NewBigRat(r *big.Rat) *Number {
	n := &Number{}
	n.val.Set(r)
	n.key = "n" + n.val.RatString()
	return intern(n).(*Number)
}

// NewBigInt returns the Number with integer value v.
func NewBigInt(v *big.Int) *Number {
	return NewBigRat(new(big.Rat).SetInt(v))
}

// NewInt returns the Number with value v.
func NewInt(v int64) *Number {
	return NewBigRat(new(big.Rat).SetInt64(v))
}

// NewRat returns the Number a/b. It panics if b is zero.
func NewRat(a, b int64) *Number {
	if b == 0 {
		panic("expr: NewRat with zero denominator")
	}
	return NewBigRat(big.NewRat(a, b))
}

func numAdd(a, b *Number) *Number {
	return NewBigRat(new(big.Rat).Add(&a.val, &b.val))
}

func numMul(a, b *Number) *Number {
	return NewBigRat(new(big.Rat).Mul(&a.val, &b.val))
}

func numNeg(a *Number) *Number {
	return NewBigRat(new(big.Rat).Neg(&a.val))
}

// numQuo returns a/b; b must be nonzero.
func numQuo(a, b *Number) *Number {
	return NewBigRat(new(big.Rat).Quo(&a.val, &b.val))
}

func numAbs(a *Number) *Number {
	if a.Sign() >= 0 {
		return a
	}
	return numNeg(a)
}

// maxPowBits bounds the size of exact integer powers the canonicalizer
// will compute; larger powers stay unevaluated.
const maxPowBits = 1 << 16

// numPowInt returns a**k exactly, or nil when the result would be too
// large. a must be nonzero when k is negative.
func numPowInt(a *Number, k *big.Int) *Number {
	bits := a.val.Num().BitLen()
	if d := a.val.Denom().BitLen(); d > bits {
		bits = d
	}
	if !k.IsInt64() || (bits > 1 && new(big.Int).Mul(big.NewInt(int64(bits)), new(big.Int).Abs(k)).Cmp(big.NewInt(maxPowBits)) > 0) {
		if bits <= 1 {
			// |num|, |den| in {0, 1}
			return numPowUnit(a, k)
		}
		return nil
	}
	e := new(big.Int).Abs(k)
	num := new(big.Int).Exp(a.val.Num(), e, nil)
	den := new(big.Int).Exp(a.val.Denom(), e, nil)
	if k.Sign() < 0 {
		num, den = den, num
	}
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	return NewBigRat(new(big.Rat).SetFrac(num, den))
}

// numPowUnit handles huge exponents of 0, 1 and -1.
func numPowUnit(a *Number, k *big.Int) *Number {
	switch {
	case a.Sign() == 0:
		return Zero
	case a.Sign() > 0:
		return One
	case k.Bit(0) == 0:
		return One
	}
	return NegativeOne
}

// floorDivmod returns q, r with a = q*b + r and 0 <= r < b, for b > 0.
func floorDivmod(a, b *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).DivMod(a, b, new(big.Int))
	return q, r
}

// FromLiteral coerces a Go value into an expression. Integers, big.Int,
// big.Rat, finite float64 (converted exactly) and rational strings such
// as "-3/4" are accepted; Expr values pass through.
func FromLiteral(v any) (Expr, error) {
	switch x := v.(type) {
	case Expr:
		if x == nil {
			return nil, errors.Wrap(ErrNotExpr, "nil expression")
		}
		return x, nil
	case int:
		return NewInt(int64(x)), nil
	case int8:
		return NewInt(int64(x)), nil
	case int16:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case int64:
		return NewInt(x), nil
	case uint:
		return NewBigInt(new(big.Int).SetUint64(uint64(x))), nil
	case uint8:
		return NewInt(int64(x)), nil
	case uint16:
		return NewInt(int64(x)), nil
	case uint32:
		return NewInt(int64(x)), nil
	case uint64:
		return NewBigInt(new(big.Int).SetUint64(x)), nil
	case *big.Int:
		if x == nil {
			return nil, errors.Wrap(ErrNotExpr, "nil *big.Int")
		}
		return NewBigInt(x), nil
	case *big.Rat:
		if x == nil {
			return nil, errors.Wrap(ErrNotExpr, "nil *big.Rat")
		}
		return NewBigRat(x), nil
	case big.Rat:
		return NewBigRat(&x), nil
	case float64:
		switch {
		case math.IsNaN(x):
			return NaN, nil
		case math.IsInf(x, 1):
			return Infinity, nil
		case math.IsInf(x, -1):
			return NegativeInfinity, nil
		}
		r, _ := new(big.Rat).SetString(big.NewFloat(x).Text('f', -1))
		return NewBigRat(r), nil
	case string:
		if c := constantByName(strings.TrimSpace(x)); c != nil {
			return c, nil
		}
		r, ok := new(big.Rat).SetString(strings.TrimSpace(x))
		if !ok {
			return nil, errors.Wrapf(ErrNotExpr, "cannot parse %q as a rational", x)
		}
		return NewBigRat(r), nil
	}
	return nil, errors.Wrapf(ErrNotExpr, "unsupported literal of type %T", v)
}

// Lit is FromLiteral for values known to be valid. It panics otherwise.
func Lit(v any) Expr {
	e, err := FromLiteral(v)
	if err != nil {
		panic(err)
	}
	return e
}

func constantByName(name string) *Constant {
	for _, c := range []*Constant{Infinity, NegativeInfinity, ComplexInfinity, NaN, I, Pi, E} {
		if c.name == name {
			return c
		}
	}
	return nil
}
