package ntheory

import (
	"math/big"

	"github.com/pkg/errors"
)

// Term is one entry of a multinomial expansion: the coefficient of
// x1**Exponents[0] * ... * xm**Exponents[m-1].
type Term struct {
	Exponents []int
	Coeff     *big.Int
}

// Binomial returns C(n, k), zero when k is out of range.
func Binomial(n, k int) *big.Int {
	if k < 0 || k > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}

// MultinomialCoefficients returns the expansion of (x1 + ... + xm)**n as
// a list of terms. Terms are ordered lexicographically by exponent tuple,
// largest first, so the first term is x1**n.
func MultinomialCoefficients(m, n int) ([]Term, error) {
	if m < 1 || n < 0 {
		return nil, errors.Wrapf(ErrDomain, "multinomial coefficients for m=%d n=%d", m, n)
	}
	fact := make([]*big.Int, n+1)
	fact[0] = big.NewInt(1)
	for i := 1; i <= n; i++ {
		fact[i] = new(big.Int).Mul(fact[i-1], big.NewInt(int64(i)))
	}

	var out []Term
	cur := make([]int, m)
	var walk func(pos, left int)
	walk = func(pos, left int) {
		if pos == m-1 {
			cur[pos] = left
			c := new(big.Int).Set(fact[n])
			for _, k := range cur {
				c.Quo(c, fact[k])
			}
			out = append(out, Term{Exponents: append([]int(nil), cur...), Coeff: c})
			return
		}
		for k := left; k >= 0; k-- {
			cur[pos] = k
			walk(pos+1, left-k)
		}
	}
	walk(0, n)
	return out, nil
}
