package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
	"github.com/wildfunctions/symbolic_power/pkg/pool"
	"github.com/wildfunctions/symbolic_power/pkg/shrink"
)

var checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "symbolic_power_engine_checks_total",
	Help: "Property checks run by the engine, by check and outcome.",
}, []string{"check", "result"})

// Engine samples random expression trees from a pool and checks
// properties of their canonical forms.
type Engine struct {
	cfg    Config
	pool   pool.Pool
	checks []check
	seed   int64
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a new engine from the given config.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	p, err := pool.Get(cfg.Pool)
	if err != nil {
		return nil, err
	}

	checks := allChecks
	if len(cfg.Checks) > 0 {
		checks = make([]check, len(cfg.Checks))
		for i, name := range cfg.Checks {
			checks[i], _ = checkByName(name)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	e := &Engine{
		cfg:    cfg,
		pool:   p,
		checks: checks,
		seed:   seed,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// sampleResult holds the outcomes of every check on one sample.
type sampleResult struct {
	outcomes []outcome
	failures []Failure
}

// Run checks cfg.Samples random trees, spread over cfg.Workers
// goroutines. Sample i draws from its own generator seeded with seed+i,
// so a report depends only on the seed, never on scheduling. Run stops
// early with ctx's error when ctx is cancelled.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	e.logger.Info("starting run",
		zap.String("pool", e.cfg.Pool),
		zap.Int("samples", e.cfg.Samples),
		zap.Int("workers", e.cfg.Workers),
		zap.Int64("seed", e.seed))

	results := make([]sampleResult, e.cfg.Samples)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := range results {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.runSample(i)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return Report{}, errors.Wrap(err, "run interrupted")
	}

	report := e.aggregate(results)
	report.Elapsed = time.Since(start)
	e.logger.Info("run finished",
		zap.Int("failures", len(report.Failures)),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

func (e *Engine) runSample(i int) sampleResult {
	rng := rand.New(rand.NewSource(e.seed + int64(i)))
	tree := e.pool.RandomTree(rng, e.cfg.MaxDepth)
	pts := samplePoints(e.pool.Symbols(), e.cfg.Points, rng)

	res := sampleResult{outcomes: make([]outcome, len(e.checks))}
	s, err := e.newSample(tree, pts)
	if err != nil {
		// construction itself failed; every check reports it
		for j, c := range e.checks {
			res.outcomes[j] = outcomeFail
			checksTotal.WithLabelValues(c.name, outcomeFail.String()).Inc()
			res.failures = append(res.failures, Failure{
				Sample: i, Check: c.name, Tree: tree.String(), Detail: err.Error(),
			})
		}
		return res
	}

	for j, c := range e.checks {
		o, detail := c.run(s)
		res.outcomes[j] = o
		checksTotal.WithLabelValues(c.name, o.String()).Inc()
		if o != outcomeFail {
			continue
		}
		f := Failure{
			Sample: i,
			Check:  c.name,
			Tree:   tree.String(),
			Expr:   s.e.String(),
			Detail: detail,
		}
		if e.cfg.Shrink {
			small := shrink.Minimize(tree, e.pool, rng, func(t *pool.Tree) bool {
				ts, err := e.newSample(t, pts)
				if err != nil {
					return false
				}
				o, _ := c.run(ts)
				return o == outcomeFail
			})
			if small.Size() < tree.Size() {
				f.Shrunk = small.String()
				f.ShrunkExpr = small.Build().String()
			}
		}
		log := e.logger.Debug
		if e.cfg.Verbose {
			log = e.logger.Info
		}
		log("check failed",
			zap.Int("sample", i),
			zap.String("check", c.name),
			zap.String("expr", f.Expr),
			zap.String("detail", detail))
		res.failures = append(res.failures, f)
	}
	return res
}

// newSample builds the canonical form of tree, reporting a panic in the
// constructors as an error.
func (e *Engine) newSample(tree *pool.Tree, pts []point) (s *sample, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, errors.Errorf("construction panicked: %v", r)
		}
	}()
	return &sample{
		tree:  tree,
		e:     tree.Build(),
		syms:  e.pool.Symbols(),
		pts:   pts,
		tol:   e.cfg.Tolerance,
		hints: e.cfg.Hints,
	}, nil
}

func (e *Engine) aggregate(results []sampleResult) Report {
	r := Report{
		Pool:    e.cfg.Pool,
		Seed:    e.seed,
		Samples: len(results),
		Checks:  make([]CheckSummary, len(e.checks)),
	}
	for j, c := range e.checks {
		r.Checks[j].Name = c.name
	}
	for _, res := range results {
		for j, o := range res.outcomes {
			switch o {
			case outcomePass:
				r.Checks[j].Pass++
			case outcomeFail:
				r.Checks[j].Fail++
			default:
				r.Checks[j].Skip++
			}
		}
		r.Failures = append(r.Failures, res.failures...)
	}
	nodes, calls := expr.CacheSize()
	r.CacheNodes, r.CacheCalls = nodes, calls
	return r
}
