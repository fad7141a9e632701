// pkg/apiclient/config.go

package apiclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"
)

// insightsPath is the fixed API path composed onto the tenant domain.
const insightsPath = "/api/platform/ai-ops-insights/v1/insights"

// Config holds the HTTP client configuration for the insights API.
type Config struct {
	// Domain is the tenant base URL, e.g. https://tenant.example.com.
	Domain string

	// Token is the bearer token; empty means anonymous requests.
	Token string

	Timeout   time.Duration
	UserAgent string

	// DryRun short-circuits writes to log output only.
	DryRun bool

	// TLS settings.
	InsecureSkipVerify bool
	MinTLSVersion      uint16
}

// DefaultConfig returns the standard client configuration: a short fixed
// timeout so a stalled endpoint fails fast with a clear report.
func DefaultConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		UserAgent:     "aiopsgen/1.0",
		MinTLSVersion: tls.VersionTLS12,
	}
}

// TestConfig returns a configuration suitable for tests.
func TestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	cfg.InsecureSkipVerify = true
	return cfg
}

// Validate checks the configuration before a client is built.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return &ConfigError{Field: "Domain", Message: "is required"}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Field: "Timeout", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Message)
}

// newTransport builds the HTTP transport with the configured TLS floor.
func newTransport(c *Config) *http.Transport {
	return &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion:         c.MinTLSVersion,
			InsecureSkipVerify: c.InsecureSkipVerify,
		},
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
}
