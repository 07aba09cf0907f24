package config

import (
	"time"

	"towdash/internal/utils"
)

// ClientConfig is passed explicitly into the API client instead of a
// process-wide mutable base URL override.
type ClientConfig struct {
	BaseURL          string        `yaml:"base_url"`
	BootstrapTimeout time.Duration `yaml:"bootstrap_timeout"`
}

func loadClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:          getEnv("TOWDASH_API_BASE_URL", "http://localhost:8080"),
		BootstrapTimeout: getEnvAsDuration("TOWDASH_BOOTSTRAP_TIMEOUT", utils.BootstrapTimeout),
	}
}
