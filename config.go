package authkit

import (
	"fmt"
	"strings"

	"github.com/kbukum/authkit/auth"
	"github.com/kbukum/authkit/config"
	"github.com/kbukum/authkit/database"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
	"github.com/kbukum/authkit/pipeline"
	"github.com/kbukum/authkit/server"
)

// ServiceName is the name config files and env files are resolved under.
const ServiceName = "authkit"

// DefaultIdentities is the identity spec used when none is configured.
var DefaultIdentities = []string{"email"}

// Config is the full authkit configuration. jwt and password sit at the top
// level of the file:
//
//	identities: [email, username]
//	jwt:
//	  secret: ${AUTHKIT_JWT_SECRET}
//	password:
//	  bcrypt_cost: 10
//	database:
//	  driver: postgres
//	  dsn: postgres://app@db/auth
type Config struct {
	config.ServiceConfig `mapstructure:",squash" validate:"-"`

	// Identities is the ordered identity spec; the first entry is used for login.
	Identities []string `mapstructure:"identities"`

	// TokenHeader names the request header the guard reads.
	TokenHeader string `mapstructure:"token_header"`

	// UniformLoginFailure answers unknown identity and wrong password alike.
	UniformLoginFailure bool `mapstructure:"uniform_login_failure"`

	// NormalizeIdentities trims and lowercases identity values.
	NormalizeIdentities bool `mapstructure:"normalize_identities"`

	Auth          auth.Config          `mapstructure:",squash"`
	Database      database.Config      `mapstructure:"database"`
	Server        server.Config        `mapstructure:"server"`
	Observability observability.Config `mapstructure:"observability"`
}

// Load reads the configuration with config.LoadConfig, then applies
// defaults and validates it.
func Load(opts ...config.LoaderOption) (*Config, error) {
	var cfg Config
	if err := config.LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every section's defaults.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if len(c.Identities) == 0 {
		c.Identities = append([]string(nil), DefaultIdentities...)
	}
	for i, f := range c.Identities {
		c.Identities[i] = strings.TrimSpace(f)
	}
	if c.TokenHeader == "" {
		c.TokenHeader = pipeline.DefaultTokenHeader
	}
	c.Auth.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if _, err := c.Spec(); err != nil {
		return fmt.Errorf("identities: %w", err)
	}
	if strings.TrimSpace(c.TokenHeader) == "" {
		return fmt.Errorf("token_header must not be blank")
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

// Spec builds the identity spec from Identities.
func (c *Config) Spec() (identity.Spec, error) {
	return identity.NewSpec(c.Identities...)
}

// PipelineConfig builds the token service and hasher and returns the
// pipeline configuration for store.
func (c *Config) PipelineConfig(store identity.Store, log *logger.Logger, metrics *observability.AuthMetrics) (pipeline.Config, error) {
	spec, err := c.Spec()
	if err != nil {
		return pipeline.Config{}, err
	}
	tokens, hasher, err := c.Auth.Build()
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		Spec:                spec,
		Store:               store,
		Tokens:              tokens,
		Hasher:              hasher,
		TokenHeader:         c.TokenHeader,
		UniformLoginFailure: c.UniformLoginFailure,
		Normalize:           c.NormalizeIdentities,
		Logger:              log,
		Metrics:             metrics,
	}, nil
}

// Describe returns a one-line summary of the auth settings, without secrets.
func (c *Config) Describe() string {
	return fmt.Sprintf("identities=[%s] header=%s uniform=%t normalize=%t %s",
		strings.Join(c.Identities, ", "), c.TokenHeader, c.UniformLoginFailure, c.NormalizeIdentities, c.Auth.Describe())
}
