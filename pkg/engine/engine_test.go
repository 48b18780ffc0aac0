package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/wildfunctions/symbolic_power/pkg/assume"
	"github.com/wildfunctions/symbolic_power/pkg/expr"
	"github.com/wildfunctions/symbolic_power/pkg/logic"
	"github.com/wildfunctions/symbolic_power/pkg/pool"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Pool = "conservative"
	cfg.Samples = 40
	cfg.MaxDepth = 3
	cfg.Seed = 42
	cfg.Workers = 4
	return cfg
}

func TestEngine_SmallRun(t *testing.T) {
	e, err := New(smallConfig(), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	report, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, report.Samples)
	assert.Equal(t, int64(42), report.Seed)
	require.Len(t, report.Checks, len(allChecks))
	for _, c := range report.Checks {
		assert.Equal(t, 40, c.Pass+c.Fail+c.Skip, c.Name)
	}
	assert.Positive(t, report.Checks[0].Pass, "value check never applied")
	assert.Positive(t, report.CacheNodes)

	for _, f := range report.Failures {
		t.Logf("sample %d %s: %s", f.Sample, f.Check, f.Detail)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	cfg := smallConfig()
	cfg.Pool = "moderate"
	cfg.Checks = []string{"value", "facts", "subs"}

	cfg.Workers = 1
	e1, err := New(cfg)
	require.NoError(t, err)
	r1, err := e1.Run(context.Background())
	require.NoError(t, err)

	cfg.Workers = 8
	e2, err := New(cfg)
	require.NoError(t, err)
	r2, err := e2.Run(context.Background())
	require.NoError(t, err)

	ignore := cmpopts.IgnoreFields(Report{}, "Elapsed", "CacheNodes", "CacheCalls")
	if diff := cmp.Diff(r1, r2, ignore); diff != "" {
		t.Errorf("reports differ with worker count (-1 +8):\n%s", diff)
	}
}

func TestEngine_Cancelled(t *testing.T) {
	e, err := New(smallConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_SelectedChecks(t *testing.T) {
	cfg := smallConfig()
	cfg.Checks = []string{"idempotent", "diff"}
	e, err := New(cfg)
	require.NoError(t, err)

	report, err := e.Run(context.Background())
	require.NoError(t, err)
	names := make([]string, len(report.Checks))
	for i, c := range report.Checks {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"idempotent", "diff"}, names)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		is     error
	}{
		{"unknown pool", func(c *Config) { c.Pool = "nope" }, pool.ErrUnknownPool},
		{"unknown check", func(c *Config) { c.Checks = []string{"value", "nope"} }, ErrUnknownCheck},
		{"no samples", func(c *Config) { c.Samples = 0 }, nil},
		{"no points", func(c *Config) { c.Points = 0 }, nil},
		{"no workers", func(c *Config) { c.Workers = 0 }, nil},
		{"zero tolerance", func(c *Config) { c.Tolerance = 0 }, nil},
		{"bad format", func(c *Config) { c.Format = "xml" }, nil},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			_, err = New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `
pool: kitchensink
samples: 10
checks: [value, facts]
hints:
  force: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "kitchensink", cfg.Pool)
	assert.Equal(t, 10, cfg.Samples)
	assert.Equal(t, []string{"value", "facts"}, cfg.Checks)
	assert.True(t, cfg.Hints.Force)
	assert.Equal(t, DefaultConfig().Points, cfg.Points)
	assert.Equal(t, DefaultConfig().Tolerance, cfg.Tolerance)

	require.NoError(t, os.WriteFile(path, []byte("samples: [1"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// sampleOf builds a checkable sample at fixed points over x and y.
func sampleOf(tree *pool.Tree) *sample {
	x, y := expr.Sym("x"), expr.Sym("y")
	syms := []*expr.Symbol{x, y}
	pts := samplePoints(syms, 3, rand.New(rand.NewSource(3)))
	return &sample{tree: tree, e: tree.Build(), syms: syms, pts: pts, tol: 1e-8, hints: expr.DefaultHints()}
}

func TestChecksPassOnCanonicalForms(t *testing.T) {
	x, y := expr.Sym("x"), expr.Sym("y")
	pow := func(b, e *pool.Tree) *pool.Tree { return &pool.Tree{Op: pool.OpPow, Args: []*pool.Tree{b, e}} }
	mul := func(a, b *pool.Tree) *pool.Tree { return &pool.Tree{Op: pool.OpMul, Args: []*pool.Tree{a, b}} }
	add := func(a, b *pool.Tree) *pool.Tree { return &pool.Tree{Op: pool.OpAdd, Args: []*pool.Tree{a, b}} }
	lx, ly := pool.Leaf(x), pool.Leaf(y)

	trees := []*pool.Tree{
		pow(add(lx, pool.Leaf(expr.One)), pool.Leaf(expr.NewInt(3))),
		mul(pow(lx, pool.Leaf(expr.Two)), ly),
		pow(mul(pool.Leaf(expr.NewInt(4)), lx), pool.Leaf(expr.Half)),
		pow(pow(lx, pool.Leaf(expr.Two)), pool.Leaf(expr.Half)),
		pow(pool.Leaf(expr.Two), add(lx, pool.Leaf(expr.Two))),
	}
	for _, tree := range trees {
		s := sampleOf(tree)
		for _, c := range allChecks {
			o, detail := c.run(s)
			assert.NotEqual(t, outcomeFail, o, "%s on %s: %s", c.name, tree, detail)
		}
	}
}

func TestValueCheckCatchesMismatch(t *testing.T) {
	x := expr.Sym("x")
	s := sampleOf(pool.Leaf(x))
	s.e = expr.NewAdd(x, expr.One)

	o, detail := checkValue(s)
	assert.Equal(t, outcomeFail, o)
	assert.Contains(t, detail, "literal value")

	o, _ = checkIdempotent(s)
	assert.Equal(t, outcomePass, o)
}

func TestChecksRecoverPanics(t *testing.T) {
	c := check{name: "boom", fn: func(*sample) (outcome, string) { panic("bad node") }}
	o, detail := c.run(sampleOf(pool.Leaf(expr.One)))
	assert.Equal(t, outcomeFail, o)
	assert.Equal(t, "panic: bad node", detail)
}

func TestNumericFacts(t *testing.T) {
	const tol = 1e-8
	positive := signFact(1)
	nonneg := signFact(-1).not()

	assert.Equal(t, logic.True, positive(2, tol))
	assert.Equal(t, logic.False, positive(-2, tol))
	assert.Equal(t, logic.False, positive(2i, tol))
	assert.Equal(t, logic.Unknown, positive(1e-12, tol))

	assert.Equal(t, logic.True, nonneg(3, tol))
	assert.Equal(t, logic.False, nonneg(-3, tol))
	assert.Equal(t, logic.False, nonneg(1+1i, tol))
	assert.Equal(t, logic.Unknown, nonneg(-1e-12, tol))

	decide := map[assume.Property]numericFact{}
	for _, f := range numericFacts {
		decide[f.prop] = f.decide
	}
	assert.Equal(t, logic.True, decide[assume.Integer](3, tol))
	assert.Equal(t, logic.Unknown, decide[assume.Integer](complex(3+1e-12, 0), tol))
	assert.Equal(t, logic.Unknown, decide[assume.Integer](2.76e-9, tol))
	assert.Equal(t, logic.Unknown, decide[assume.Integer](0, tol))
	assert.Equal(t, logic.False, decide[assume.Integer](2.5, tol))
	assert.Equal(t, logic.True, decide[assume.Imaginary](-2i, tol))
	assert.Equal(t, logic.False, decide[assume.Imaginary](1+2i, tol))
	assert.Equal(t, logic.False, decide[assume.Zero](1e-3, tol))
	assert.Equal(t, logic.False, decide[assume.Real](1i, tol))
	assert.Equal(t, logic.True, decide[assume.Real](-7, tol))
	assert.Equal(t, logic.Unknown, decide[assume.Real](4.59e-10i, tol))
	assert.Equal(t, logic.Unknown, positive(complex(2, 1e-12), tol))
	assert.Equal(t, logic.Unknown, nonneg(complex(2, -1e-12), tol))
}

func TestDiffSkipsLostPrecision(t *testing.T) {
	x, w := expr.Sym("x"), expr.Sym("w", assume.Integer)
	syms := []*expr.Symbol{x, w}
	pts := []point{{
		exact: map[*expr.Symbol]expr.Expr{x: expr.Half, w: expr.One},
		num:   map[*expr.Symbol]complex128{x: 0.5, w: 1},
	}}
	at := func(e expr.Expr) *sample {
		return &sample{tree: pool.Leaf(e), e: e, syms: syms, pts: pts, tol: 1e-8, hints: expr.DefaultHints()}
	}

	// 2**60 hides a unit change in x from the difference quotient
	huge := expr.NewAdd(x, expr.NewPow(expr.Two, expr.NewMul(expr.NewInt(60), w)))
	o, detail := checkDiff(at(huge))
	assert.Equal(t, outcomeSkip, o, detail)

	o, detail = checkDiff(at(expr.NewAdd(x, expr.NewPow(expr.Two, w))))
	assert.Equal(t, outcomePass, o, detail)
}

func TestSamplePointsRespectAssumptions(t *testing.T) {
	props := []assume.Property{
		assume.Positive, assume.Negative, assume.Nonnegative, assume.Real,
		assume.Integer, assume.Even, assume.Odd, assume.Imaginary,
	}
	for _, name := range pool.Names() {
		p, err := pool.Get(name)
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(11))
		for _, pt := range samplePoints(p.Symbols(), 50, rng) {
			for _, s := range p.Symbols() {
				decl := s.Declared()
				v := pt.exact[s]
				for _, prop := range props {
					if decl.Get(prop).IsTrue() {
						assert.Equal(t, logic.True, v.Is(prop), "%s = %s should be %s", s.Name(), v, prop)
					}
				}
				_, ok := expr.EvalComplex128(v, nil)
				assert.True(t, ok)
			}
		}
	}
}

func TestWriteText(t *testing.T) {
	r := Report{
		Pool: "moderate", Seed: 7, Samples: 3,
		Checks: []CheckSummary{
			{Name: "value", Pass: 3},
			{Name: "facts", Pass: 1, Fail: 2},
		},
		Failures: []Failure{
			{Sample: 1, Check: "facts", Tree: "pow(q, 2)", Expr: "q**2", Detail: "wrong sign", Shrunk: "q", ShrunkExpr: "q"},
		},
	}
	var buf bytes.Buffer
	WriteText(&buf, r)
	out := buf.String()

	assert.Less(t, strings.Index(out, "facts"), strings.Index(out, "value"), "failing checks come first")
	assert.Contains(t, out, "#1: [sample 1, facts] wrong sign")
	assert.Contains(t, out, "shrunk: q => q")
	assert.Contains(t, out, "Failures:  1")
}

func TestWriteJSON(t *testing.T) {
	r := Report{
		Pool: "conservative", Seed: 1, Samples: 2,
		Checks:   []CheckSummary{{Name: "value", Pass: 1, Skip: 1}},
		Failures: []Failure{{Sample: 0, Check: "value", Tree: "x", Detail: "d"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
