// Package ntheory holds the exact integer utilities used by the power
// canonicalizer: integer nth roots, factorization into prime powers and
// multinomial coefficients.
package ntheory

import (
	"math"
	"math/big"

	"github.com/pkg/errors"
)

// ErrDomain is returned for arguments outside a function's domain.
var ErrDomain = errors.New("argument out of domain")

var (
	bigOne   = big.NewInt(1)
	newtonAt = new(big.Int).Lsh(bigOne, 50)
)

// IntegerNthRoot returns x = floor(y**(1/n)) and whether x**n == y.
// y must be non-negative and n positive.
func IntegerNthRoot(y *big.Int, n int) (*big.Int, bool, error) {
	if y.Sign() < 0 {
		return nil, false, errors.Wrapf(ErrDomain, "integer nth root of negative %s", y)
	}
	if n < 1 {
		return nil, false, errors.Wrapf(ErrDomain, "integer nth root with n=%d", n)
	}
	if y.Sign() == 0 || y.Cmp(bigOne) == 0 || n == 1 {
		return new(big.Int).Set(y), true, nil
	}
	if n == 2 {
		x := new(big.Int).Sqrt(y)
		sq := new(big.Int).Mul(x, x)
		return x, sq.Cmp(y) == 0, nil
	}
	if y.IsInt64() && int64(n) > y.Int64() {
		return big.NewInt(1), false, nil
	}

	x := initialGuess(y, n)
	if x.Cmp(newtonAt) > 0 {
		bn := big.NewInt(int64(n))
		bn1 := big.NewInt(int64(n - 1))
		two := big.NewInt(2)
		t, q, diff := new(big.Int), new(big.Int), new(big.Int)
		for {
			t.Exp(x, bn1, nil)
			q.Quo(y, t)
			next := new(big.Int).Mul(bn1, x)
			next.Add(next, q)
			next.Quo(next, bn)
			diff.Sub(next, x)
			x = next
			if diff.CmpAbs(two) < 0 {
				break
			}
		}
	}

	// Walk to the exact floor to absorb float and Newton error.
	bn := big.NewInt(int64(n))
	t := new(big.Int).Exp(x, bn, nil)
	for t.Cmp(y) < 0 {
		x.Add(x, bigOne)
		t.Exp(x, bn, nil)
	}
	for t.Cmp(y) > 0 {
		x.Sub(x, bigOne)
		t.Exp(x, bn, nil)
	}
	return x, t.Cmp(y) == 0, nil
}

// initialGuess estimates y**(1/n) in floating point, switching to a
// log2 estimate shifted into range when y overflows a float64.
func initialGuess(y *big.Int, n int) *big.Int {
	yf, _ := new(big.Float).SetInt(y).Float64()
	if !math.IsInf(yf, 0) {
		g := math.Pow(yf, 1/float64(n)) + 0.5
		if !math.IsInf(g, 0) {
			out, _ := big.NewFloat(g).Int(nil)
			return out
		}
	}
	mant := new(big.Float)
	e := new(big.Float).SetInt(y).MantExp(mant)
	m, _ := mant.Float64()
	exp := (float64(e) + math.Log2(m)) / float64(n)
	if exp > 53 {
		shift := uint(exp - 53)
		g, _ := big.NewFloat(math.Pow(2, exp-float64(shift)) + 1).Int(nil)
		return g.Lsh(g, shift)
	}
	g, _ := big.NewFloat(math.Pow(2, exp)).Int(nil)
	return g
}

// smallPrimes are used for trial division in Factor.
var smallPrimes = sieve(1 << 15)

func sieve(limit int) []int64 {
	composite := make([]bool, limit+1)
	var out []int64
	for i := 2; i <= limit; i++ {
		if composite[i] {
			continue
		}
		out = append(out, int64(i))
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	return out
}

// PrimePower is one factor base**Exp of a factorization.
type PrimePower struct {
	Base *big.Int
	Exp  int
}

// Factor splits a positive y into pairwise coprime powers, ordered by
// base. Primes below 2**15 are found by trial division; whatever is left
// is reported as a single entry, written as a perfect power when it is
// one, so its base need not be prime.
func Factor(y *big.Int) ([]PrimePower, error) {
	if y.Sign() <= 0 {
		return nil, errors.Wrapf(ErrDomain, "factorization of non-positive %s", y)
	}
	rest := new(big.Int).Set(y)
	var out []PrimePower
	rem, p, q := new(big.Int), new(big.Int), new(big.Int)
	for _, sp := range smallPrimes {
		p.SetInt64(sp)
		if q.Mul(p, p).Cmp(rest) > 0 {
			break
		}
		k := 0
		for {
			q.QuoRem(rest, p, rem)
			if rem.Sign() != 0 {
				break
			}
			rest.Set(q)
			k++
		}
		if k > 0 {
			out = append(out, PrimePower{Base: big.NewInt(sp), Exp: k})
		}
	}
	if rest.Cmp(bigOne) > 0 {
		base, k := perfectPower(rest)
		out = append(out, PrimePower{Base: base, Exp: k})
	}
	return out, nil
}

// perfectPower returns the largest k with y == b**k.
func perfectPower(y *big.Int) (*big.Int, int) {
	for k := y.BitLen(); k >= 2; k-- {
		if r, exact, _ := IntegerNthRoot(y, k); exact && r.Cmp(bigOne) > 0 {
			return r, k
		}
	}
	return new(big.Int).Set(y), 1
}
