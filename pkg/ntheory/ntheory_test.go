package ntheory

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerNthRootCases(t *testing.T) {
	cases := []struct {
		y     int64
		n     int
		x     int64
		exact bool
	}{
		{0, 3, 0, true},
		{1, 7, 1, true},
		{16, 2, 4, true},
		{26, 2, 5, false},
		{1000, 3, 10, true},
		{999, 3, 9, false},
		{5, 1, 5, true},
		{3, 5, 1, false},
		{1 << 40, 4, 1 << 10, true},
	}
	for _, tc := range cases {
		x, exact, err := IntegerNthRoot(big.NewInt(tc.y), tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.x, x.Int64(), "root(%d, %d)", tc.y, tc.n)
		assert.Equal(t, tc.exact, exact, "root(%d, %d)", tc.y, tc.n)
	}
}

func checkRoot(t *testing.T, y *big.Int, n int) {
	t.Helper()
	x, exact, err := IntegerNthRoot(y, n)
	require.NoError(t, err)
	bn := big.NewInt(int64(n))
	lo := new(big.Int).Exp(x, bn, nil)
	hi := new(big.Int).Exp(new(big.Int).Add(x, big.NewInt(1)), bn, nil)
	if lo.Cmp(y) > 0 || hi.Cmp(y) <= 0 {
		t.Fatalf("root(%s, %d) = %s is not the floor", y, n, x)
	}
	assert.Equal(t, lo.Cmp(y) == 0, exact, "root(%s, %d)", y, n)
}

func TestIntegerNthRootFloorLaw(t *testing.T) {
	for n := 1; n <= 10; n++ {
		for y := int64(0); y < 1_000_000; y += 997 {
			checkRoot(t, big.NewInt(y), n)
		}
		for x := int64(1); x < 40; x++ {
			p := new(big.Int).Exp(big.NewInt(x), big.NewInt(int64(n)), nil)
			checkRoot(t, p, n)
			checkRoot(t, new(big.Int).Sub(p, big.NewInt(1)), n)
		}
	}
}

func TestIntegerNthRootHuge(t *testing.T) {
	base, _ := new(big.Int).SetString("123456789012345678901234567890123", 10)
	for _, n := range []int{3, 7, 40} {
		p := new(big.Int).Exp(base, big.NewInt(int64(n)), nil)
		x, exact, err := IntegerNthRoot(p, n)
		require.NoError(t, err)
		assert.True(t, exact)
		assert.Equal(t, 0, x.Cmp(base))

		checkRoot(t, new(big.Int).Add(p, big.NewInt(1)), n)
		checkRoot(t, new(big.Int).Sub(p, big.NewInt(1)), n)
	}
}

func TestIntegerNthRootDomain(t *testing.T) {
	_, _, err := IntegerNthRoot(big.NewInt(-1), 2)
	assert.Equal(t, ErrDomain, errors.Cause(err))
	_, _, err = IntegerNthRoot(big.NewInt(8), 0)
	assert.Equal(t, ErrDomain, errors.Cause(err))
}

func TestFactor(t *testing.T) {
	cases := []struct {
		y    int64
		want map[int64]int
	}{
		{1, map[int64]int{}},
		{12, map[int64]int{2: 2, 3: 1}},
		{1024, map[int64]int{2: 10}},
		{360, map[int64]int{2: 3, 3: 2, 5: 1}},
		{32771 * 32771, map[int64]int{32771: 2}},
		{2 * 32771 * 32779, map[int64]int{2: 1, 32771 * 32779: 1}},
	}
	for _, tc := range cases {
		fs, err := Factor(big.NewInt(tc.y))
		require.NoError(t, err)
		got := map[int64]int{}
		prod := big.NewInt(1)
		for _, f := range fs {
			got[f.Base.Int64()] = f.Exp
			prod.Mul(prod, new(big.Int).Exp(f.Base, big.NewInt(int64(f.Exp)), nil))
		}
		assert.Equal(t, tc.want, got, "Factor(%d)", tc.y)
		assert.Equal(t, tc.y, prod.Int64())
	}
	_, err := Factor(big.NewInt(0))
	assert.Equal(t, ErrDomain, errors.Cause(err))
}

func TestMultinomialCoefficients(t *testing.T) {
	terms, err := MultinomialCoefficients(2, 3)
	require.NoError(t, err)
	got := map[[2]int]int64{}
	for _, tm := range terms {
		got[[2]int{tm.Exponents[0], tm.Exponents[1]}] = tm.Coeff.Int64()
	}
	assert.Equal(t, map[[2]int]int64{{3, 0}: 1, {2, 1}: 3, {1, 2}: 3, {0, 3}: 1}, got)
	assert.Equal(t, []int{3, 0}, terms[0].Exponents)

	terms, err = MultinomialCoefficients(3, 4)
	require.NoError(t, err)
	assert.Len(t, terms, 15)
	sum := new(big.Int)
	for _, tm := range terms {
		sum.Add(sum, tm.Coeff)
	}
	assert.Equal(t, int64(81), sum.Int64())

	_, err = MultinomialCoefficients(0, 2)
	assert.Error(t, err)
	assert.Equal(t, int64(10), Binomial(5, 2).Int64())
	assert.Equal(t, int64(0), Binomial(5, 6).Int64())
}
