// Package config loads logitdx settings from defaults, an optional YAML
// file and LOGITDX_* environment variables, in that order of precedence,
// and turns them into fitter and estimator options.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/YuminosukeSato/logitdx/bootstrap"
	"github.com/YuminosukeSato/logitdx/core/minimize"
	"github.com/YuminosukeSato/logitdx/linear"
	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"github.com/YuminosukeSato/logitdx/pkg/log"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LOGITDX_"

// Config is the complete logitdx configuration.
type Config struct {
	Fit       FitConfig       `yaml:"fit"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Log       LogConfig       `yaml:"log"`
}

// FitConfig controls the logistic fitter.
type FitConfig struct {
	MaxIterations int           `yaml:"max_iterations" validate:"min=1"`
	Tolerance     float64       `yaml:"tolerance" validate:"gt=0,lt=1"`
	Timeout       time.Duration `yaml:"timeout" validate:"min=0"`
}

// BootstrapConfig controls the bootstrap estimator.
type BootstrapConfig struct {
	Replications int     `yaml:"replications" validate:"min=1"`
	Alpha        float64 `yaml:"alpha" validate:"gt=0,lt=0.5"`
	Workers      int     `yaml:"workers" validate:"min=0"`
	// Seed fixes resampling when set.
	Seed    *uint64       `yaml:"seed,omitempty"`
	Timeout time.Duration `yaml:"timeout" validate:"min=0"`
}

// LogConfig controls the slog setup applied by Apply.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Fit: FitConfig{
			MaxIterations: minimize.DefaultMaxIterations,
			Tolerance:     minimize.DefaultTolerance,
		},
		Bootstrap: BootstrapConfig{
			Replications: bootstrap.DefaultReplications,
			Alpha:        0.05,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load builds a Config from defaults, then path (if non-empty and present),
// then the environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, errors.Wrap(err, "load config file")
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, errors.Wrap(err, "load config from environment")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) error {
	if err := envInt("FIT_MAX_ITERATIONS", &cfg.Fit.MaxIterations); err != nil {
		return err
	}
	if err := envFloat("FIT_TOLERANCE", &cfg.Fit.Tolerance); err != nil {
		return err
	}
	if err := envDuration("FIT_TIMEOUT", &cfg.Fit.Timeout); err != nil {
		return err
	}
	if err := envInt("BOOTSTRAP_REPLICATIONS", &cfg.Bootstrap.Replications); err != nil {
		return err
	}
	if err := envFloat("BOOTSTRAP_ALPHA", &cfg.Bootstrap.Alpha); err != nil {
		return err
	}
	if err := envInt("BOOTSTRAP_WORKERS", &cfg.Bootstrap.Workers); err != nil {
		return err
	}
	if err := envDuration("BOOTSTRAP_TIMEOUT", &cfg.Bootstrap.Timeout); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvPrefix + "BOOTSTRAP_SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.NewValidationError(EnvPrefix+"BOOTSTRAP_SEED", "not an unsigned integer", v)
		}
		cfg.Bootstrap.Seed = &seed
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return errors.NewValidationError(EnvPrefix+key, "not an integer", v)
	}
	*dst = i
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.NewValidationError(EnvPrefix+key, "not a number", v)
	}
	*dst = f
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.NewValidationError(EnvPrefix+key, "not a duration", v)
	}
	*dst = d
	return nil
}

// Validate checks every field against its constraints. The first failure
// is returned as a *errors.ValidationError naming the field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(fe.Namespace(), "failed '"+fe.ActualTag()+"' constraint", fe.Value())
	}
	return errors.Wrap(err, "validate config")
}

// FitterOptions translates the fit section into linear options.
func (c Config) FitterOptions() []linear.FitterOption {
	return []linear.FitterOption{
		linear.WithMaxIter(c.Fit.MaxIterations),
		linear.WithTolerance(c.Fit.Tolerance),
		linear.WithTimeout(c.Fit.Timeout),
	}
}

// EstimatorOptions translates the bootstrap section into estimator options.
// The refit uses a fitter built from FitterOptions plus fitterOpts.
func (c Config) EstimatorOptions(fitterOpts ...linear.FitterOption) []bootstrap.Option {
	fopts := append(c.FitterOptions(), fitterOpts...)
	opts := []bootstrap.Option{
		bootstrap.WithReplications(c.Bootstrap.Replications),
		bootstrap.WithWorkers(c.Bootstrap.Workers),
		bootstrap.WithTimeout(c.Bootstrap.Timeout),
		bootstrap.WithFitter(linear.NewLogisticFitter(fopts...)),
	}
	if c.Bootstrap.Seed != nil {
		opts = append(opts, bootstrap.WithSeed(*c.Bootstrap.Seed))
	}
	return opts
}

// Apply installs the slog logger at the configured level.
func (l LogConfig) Apply() error {
	return log.SetupLogger(l.Level)
}
