package jwt

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
	ES256 SigningMethod = "ES256"
)

// Config configures the token service.
type Config struct {
	// Secret is the HMAC signing key (required for HS* methods).
	Secret string `mapstructure:"secret"`

	// PrivateKey is the RSA or ECDSA private key for RS256/ES256.
	PrivateKey interface{} `mapstructure:"-"`

	// PublicKey verifies RS256/ES256 tokens. Derived from PrivateKey when unset.
	PublicKey interface{} `mapstructure:"-"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `mapstructure:"method"`

	// Issuer is the "iss" claim. When set, verification requires it.
	Issuer string `mapstructure:"issuer"`

	// TTL bounds token lifetime. Zero issues tokens without an expiry.
	TTL time.Duration `mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
}

// Validate checks required fields based on the signing method.
func (c *Config) Validate() error {
	if c.TTL < 0 {
		return errors.New("jwt: ttl must not be negative")
	}
	switch c.Method {
	case HS256, HS384, HS512:
		if c.Secret == "" {
			return errors.New("jwt: secret is required for HMAC signing methods")
		}
	case RS256:
		if _, ok := c.PrivateKey.(*rsa.PrivateKey); !ok {
			return errors.New("jwt: private key must be *rsa.PrivateKey for RS256")
		}
	case ES256:
		if _, ok := c.PrivateKey.(*ecdsa.PrivateKey); !ok {
			return errors.New("jwt: private key must be *ecdsa.PrivateKey for ES256")
		}
	default:
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
	return nil
}

// signingMethod returns the golang-jwt SigningMethod instance.
func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	case RS256:
		return gojwt.SigningMethodRS256
	case ES256:
		return gojwt.SigningMethodES256
	default:
		return gojwt.SigningMethodHS256
	}
}

// signKey returns the key used for signing tokens.
func (c *Config) signKey() interface{} {
	switch c.Method {
	case RS256, ES256:
		return c.PrivateKey
	default:
		return []byte(c.Secret)
	}
}

// verifyKey returns the key used for verifying tokens.
func (c *Config) verifyKey() interface{} {
	if c.PublicKey != nil {
		return c.PublicKey
	}
	switch pk := c.PrivateKey.(type) {
	case *rsa.PrivateKey:
		return &pk.PublicKey
	case *ecdsa.PrivateKey:
		return &pk.PublicKey
	}
	return []byte(c.Secret)
}
