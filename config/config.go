package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the runtime settings of the collector, loaded from the
// environment (optionally seeded from a .env file by main).
type Config struct {
	// Directory holding one cached JSON blob per listing URL.
	CacheDir string `env:"HOMESCOUT_CACHE_DIR" envDefault:"output"`

	// Auxiliary POI collection data files.
	BikeMiPath string `env:"HOMESCOUT_BIKEMI_PATH" envDefault:"data/bikemi.json"`
	ATMPath    string `env:"HOMESCOUT_ATM_PATH" envDefault:"data/atm.csv"`

	// Only listings on this host are fetched on a cache miss.
	ListingDomain string `env:"HOMESCOUT_LISTING_DOMAIN" envDefault:"www.immobiliare.it"`

	// HTTP client timeout in seconds; 0 relies on the transport defaults.
	HTTPTimeoutSeconds int `env:"HOMESCOUT_HTTP_TIMEOUT" envDefault:"0"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
