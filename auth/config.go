package auth

import (
	"fmt"

	"github.com/kbukum/authkit/auth/jwt"
	"github.com/kbukum/authkit/auth/password"
)

// Config holds token and password hashing configuration.
type Config struct {
	JWT      jwt.Config      `mapstructure:"jwt"`
	Password password.Config `mapstructure:"password"`
}

// ApplyDefaults sets defaults on both sub-configurations.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks both sub-configurations.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// Build constructs the token service and password hasher.
func (c *Config) Build() (*jwt.Service, password.Hasher, error) {
	tokens, err := jwt.NewService(&c.JWT)
	if err != nil {
		return nil, nil, err
	}
	return tokens, password.NewHasher(c.Password), nil
}

// Describe returns a one-liner for the startup summary.
// Example: "JWT(HS256) TTL=none password=bcrypt(cost=10)"
func (c *Config) Describe() string {
	ttl := "none"
	if c.JWT.TTL > 0 {
		ttl = c.JWT.TTL.String()
	}
	hash := string(c.Password.Algorithm)
	if c.Password.Algorithm == password.AlgorithmBcrypt {
		hash = fmt.Sprintf("bcrypt(cost=%d)", c.Password.BcryptCost)
	}
	return fmt.Sprintf("JWT(%s) TTL=%s password=%s", c.JWT.Method, ttl, hash)
}
