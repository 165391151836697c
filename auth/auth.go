package auth

// TokenIssuer signs a token for a subject id.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// TokenVerifier checks a token and returns the subject it was issued for.
// Implementations return *jwt.InvalidTokenError, or a comparable typed
// error, for tokens that cannot be trusted.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// TokenService issues and verifies tokens. *jwt.Service implements it.
type TokenService interface {
	TokenIssuer
	TokenVerifier
}
