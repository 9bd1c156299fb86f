package goToken

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goToken/jwt"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the runtime verification policy of a Manager. Secrets and TTLs are
// not part of it: they are bound to the subject type.
//
// Config instances are intended to be configured during initialization and then
// treated as immutable.
type Config struct {
	Algorithm jwt.Algorithm `env:"ALGORITHM" envDefault:"HS256" mapstructure:"algorithm" validate:"oneof=HS256 HS384 HS512"`
	Leeway    time.Duration `env:"LEEWAY" envDefault:"60s" mapstructure:"leeway" validate:"gte=0,lte=2m"`
	Metrics   MetricsConfig `envPrefix:"METRICS_" mapstructure:"metrics"`
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns HS256 with the default leeway and metrics disabled.
func DefaultConfig() Config {
	return Config{
		Algorithm: jwt.HS256,
		Leeway:    jwt.DefaultLeeway,
	}
}

// LoadConfig reads a Config from environment variables, each name prefixed with
// prefix (for example "TOKEN_" reads TOKEN_LEEWAY, TOKEN_ALGORITHM,
// TOKEN_METRICS_ENABLED). Unset variables keep the DefaultConfig values.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the algorithm and bounds the leeway to [0, 2m].
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := configValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: %s failed %q (got %v)", ErrInvalidConfig, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) options() []Option {
	return []Option{
		WithAlgorithm(c.Algorithm),
		WithLeeway(c.Leeway),
	}
}
