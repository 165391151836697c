package server

import (
	"fmt"

	"github.com/kbukum/authkit/security"
	"github.com/kbukum/authkit/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string                `mapstructure:"host"`
	Port         int                   `mapstructure:"port"`
	ReadTimeout  int                   `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int                   `mapstructure:"write_timeout"` // seconds
	IdleTimeout  int                   `mapstructure:"idle_timeout"`  // seconds
	MaxBodySize  string                `mapstructure:"max_body_size"` // e.g. "64KB"
	CORS         middleware.CORSConfig `mapstructure:"cors"`

	// TLS serves HTTPS when a certificate is configured.
	TLS security.TLSConfig `mapstructure:"tls"`

	// LoginRateLimit caps login attempts per client IP per minute; 0 disables it.
	LoginRateLimit int `mapstructure:"login_rate_limit"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "64KB"
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "token"}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if c.LoginRateLimit < 0 {
		return fmt.Errorf("server.login_rate_limit must be non-negative (got: %d)", c.LoginRateLimit)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("server.tls: %w", err)
	}
	return nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
