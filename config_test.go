package goToken

import (
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goToken/jwt"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "default valid",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name: "leeway zero valid",
			mutate: func(c *Config) {
				c.Leeway = 0
			},
			wantValid: true,
		},
		{
			name: "leeway at bound valid",
			mutate: func(c *Config) {
				c.Leeway = 2 * time.Minute
			},
			wantValid: true,
		},
		{
			name: "leeway too large invalid",
			mutate: func(c *Config) {
				c.Leeway = 3 * time.Minute
			},
			wantValid: false,
		},
		{
			name: "leeway negative invalid",
			mutate: func(c *Config) {
				c.Leeway = -time.Second
			},
			wantValid: false,
		},
		{
			name: "hs512 valid",
			mutate: func(c *Config) {
				c.Algorithm = jwt.HS512
			},
			wantValid: true,
		},
		{
			name: "asymmetric algorithm invalid",
			mutate: func(c *Config) {
				c.Algorithm = "RS256"
			},
			wantValid: false,
		},
		{
			name: "empty algorithm invalid",
			mutate: func(c *Config) {
				c.Algorithm = ""
			},
			wantValid: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid {
				if err == nil {
					t.Fatal("expected invalid config")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
			}
		})
	}
}

func TestConfigValidateNil(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for nil config, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("GOTOKEN_DEFAULTS_TEST_")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults %+v, got %+v", DefaultConfig(), cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GOTOKEN_TEST_ALGORITHM", "HS384")
	t.Setenv("GOTOKEN_TEST_LEEWAY", "15s")
	t.Setenv("GOTOKEN_TEST_METRICS_ENABLED", "true")
	t.Setenv("GOTOKEN_TEST_METRICS_LATENCY_HISTOGRAMS", "true")

	cfg, err := LoadConfig("GOTOKEN_TEST_")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Algorithm != jwt.HS384 {
		t.Fatalf("expected HS384, got %s", cfg.Algorithm)
	}
	if cfg.Leeway != 15*time.Second {
		t.Fatalf("expected 15s leeway, got %s", cfg.Leeway)
	}
	if !cfg.Metrics.Enabled || !cfg.Metrics.EnableLatencyHistograms {
		t.Fatalf("expected metrics enabled, got %+v", cfg.Metrics)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("GOTOKEN_BAD_ALGORITHM", "none")
	if _, err := LoadConfig("GOTOKEN_BAD_"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for bad algorithm, got %v", err)
	}

	t.Setenv("GOTOKEN_BADLEEWAY_LEEWAY", "soon")
	if _, err := LoadConfig("GOTOKEN_BADLEEWAY_"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for unparsable leeway, got %v", err)
	}
}
