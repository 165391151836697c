// Package jwt issues and verifies signed, stateless tokens that carry a
// subject id.
//
//	svc, err := jwt.NewService(&jwt.Config{Secret: secret})
//	token, err := svc.Issue(user.ID)
//	subject, err := svc.Verify(token)
//
// Verify failures are *InvalidTokenError values classified as malformed,
// signature-invalid or expired.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Kind classifies a token verification failure.
type Kind int

const (
	Malformed Kind = iota
	SignatureInvalid
	Expired
)

func (k Kind) String() string {
	switch k {
	case SignatureInvalid:
		return "signature_invalid"
	case Expired:
		return "expired"
	default:
		return "malformed"
	}
}

// InvalidTokenError is returned by Verify for any token that cannot be trusted.
type InvalidTokenError struct {
	Kind Kind
	Err  error
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("jwt: invalid token (%s): %v", e.Kind, e.Err)
}

func (e *InvalidTokenError) Unwrap() error { return e.Err }

// ErrEmptySubject is returned by Issue when no subject is given.
var ErrEmptySubject = errors.New("jwt: subject is required")

// Service issues and verifies tokens.
type Service struct {
	cfg Config
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for iat/exp.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a token service. The config is copied; later changes
// to cfg do not affect the service.
func NewService(cfg *Config, opts ...Option) (*Service, error) {
	c := *cfg
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := &Service{cfg: c, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subject.
func (s *Service) Issue(subject string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	now := s.now()
	claims := gojwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   s.cfg.Issuer,
		IssuedAt: gojwt.NewNumericDate(now),
	}
	if s.cfg.TTL > 0 {
		claims.ExpiresAt = gojwt.NewNumericDate(now.Add(s.cfg.TTL))
	}

	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString(s.cfg.signKey())
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token and returns its subject.
func (s *Service) Verify(token string) (string, error) {
	claims := &gojwt.RegisteredClaims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return "", classify(err)
	}
	if !parsed.Valid {
		return "", &InvalidTokenError{Kind: Malformed, Err: errors.New("token not valid")}
	}
	if claims.Subject == "" {
		return "", &InvalidTokenError{Kind: Malformed, Err: errors.New("missing subject")}
	}
	return claims.Subject, nil
}

// TTL reports the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.cfg.TTL }

func classify(err error) *InvalidTokenError {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return &InvalidTokenError{Kind: Expired, Err: err}
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid),
		errors.Is(err, gojwt.ErrTokenUnverifiable):
		return &InvalidTokenError{Kind: SignatureInvalid, Err: err}
	default:
		return &InvalidTokenError{Kind: Malformed, Err: err}
	}
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return s.cfg.verifyKey(), nil
}

// parserOptions returns jwt.ParserOption based on config.
func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
