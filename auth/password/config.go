package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Algorithm represents supported password hashing algorithms.
type Algorithm string

const (
	// AlgorithmBcrypt is bcrypt hashing.
	AlgorithmBcrypt Algorithm = "bcrypt"

	// AlgorithmArgon2id is argon2id hashing.
	AlgorithmArgon2id Algorithm = "argon2id"
)

// Config configures password hashing behavior.
type Config struct {
	// Algorithm selects the hashing algorithm (default: "bcrypt").
	Algorithm Algorithm `mapstructure:"algorithm" validate:"oneof=bcrypt argon2id"`

	// BcryptCost is the bcrypt cost parameter (default: 10).
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`

	// Argon2Time is the number of iterations for argon2id (default: 1).
	Argon2Time uint32 `mapstructure:"argon2_time" validate:"gte=1"`

	// Argon2Memory is the memory usage in KiB for argon2id (default: 65536).
	Argon2Memory uint32 `mapstructure:"argon2_memory" validate:"gte=8"`

	// Argon2Threads is the parallelism for argon2id (default: 4).
	Argon2Threads uint8 `mapstructure:"argon2_threads" validate:"gte=1"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2id:
	default:
		return fmt.Errorf("unsupported algorithm: %s (use bcrypt or argon2id)", c.Algorithm)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d (got: %d)", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}

// NewHasher creates a Hasher from configuration.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	switch cfg.Algorithm {
	case AlgorithmArgon2id:
		return NewArgon2Hasher(
			WithArgon2Time(cfg.Argon2Time),
			WithArgon2Memory(cfg.Argon2Memory),
			WithArgon2Threads(cfg.Argon2Threads),
		)
	default:
		return NewBcryptHasher(WithCost(cfg.BcryptCost))
	}
}
