package engine

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/symbolic_power/pkg/expr"
	"github.com/wildfunctions/symbolic_power/pkg/pool"
)

// Config holds all parameters for a property-checking run.
type Config struct {
	Pool     string `yaml:"pool"`
	Samples  int    `yaml:"samples"`
	MaxDepth int    `yaml:"max_depth"`
	// Points is the number of evaluation points per sample.
	Points    int     `yaml:"points"`
	Seed      int64   `yaml:"seed"`
	Workers   int     `yaml:"workers"`
	Format    string  `yaml:"format"` // "text" or "json"
	Tolerance float64 `yaml:"tolerance"`
	// Checks names the checks to run; empty runs all of them.
	Checks  []string   `yaml:"checks"`
	Hints   expr.Hints `yaml:"hints"`
	Shrink  bool       `yaml:"shrink"`
	Verbose bool       `yaml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Pool:      "moderate",
		Samples:   500,
		MaxDepth:  4,
		Points:    3,
		Seed:      0, // 0 = random
		Workers:   runtime.NumCPU(),
		Format:    "text",
		Tolerance: 1e-8,
		Hints:     expr.DefaultHints(),
		Shrink:    true,
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, err := pool.Get(c.Pool); err != nil {
		return err
	}
	switch {
	case c.Samples <= 0:
		return errors.Errorf("samples must be positive, got %d", c.Samples)
	case c.MaxDepth <= 0:
		return errors.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	case c.Points <= 0:
		return errors.Errorf("points must be positive, got %d", c.Points)
	case c.Workers <= 0:
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	case c.Tolerance <= 0:
		return errors.Errorf("tolerance must be positive, got %g", c.Tolerance)
	case c.Format != "text" && c.Format != "json":
		return errors.Errorf("unknown format %q (available: text, json)", c.Format)
	}
	for _, name := range c.Checks {
		if _, ok := checkByName(name); !ok {
			return errors.Wrapf(ErrUnknownCheck, "%q (available: %v)", name, CheckNames())
		}
	}
	return nil
}
