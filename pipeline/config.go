package pipeline

import (
	"errors"

	"github.com/kbukum/authkit/auth"
	"github.com/kbukum/authkit/auth/password"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
)

// DefaultTokenHeader is the request header the guard reads.
const DefaultTokenHeader = "token"

// Config is the immutable input of an Assembler.
type Config struct {
	Spec   identity.Spec
	Store  identity.Store
	Tokens auth.TokenService
	Hasher password.Hasher

	// TokenHeader names the header carrying the token. "Authorization"
	// accepts a "Bearer " prefix.
	TokenHeader string

	// UniformLoginFailure answers unknown identity and wrong password with
	// the same 401 and runs a hash comparison on both paths.
	UniformLoginFailure bool

	// Normalize trims and lowercases identity values before lookup and storage.
	Normalize bool

	Logger  *logger.Logger
	Metrics *observability.AuthMetrics
}

func (c *Config) applyDefaults() {
	if c.TokenHeader == "" {
		c.TokenHeader = DefaultTokenHeader
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Spec.IsZero() {
		errs = append(errs, errors.New("identity spec is required"))
	}
	if c.Store == nil {
		errs = append(errs, errors.New("store is required"))
	}
	if c.Tokens == nil {
		errs = append(errs, errors.New("token service is required"))
	}
	if c.Hasher == nil {
		errs = append(errs, errors.New("password hasher is required"))
	}
	return errors.Join(errs...)
}
