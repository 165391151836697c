// Package password provides password hashing and verification.
//
// A Hasher is built once with a fixed work factor and shared by every
// request. Verify reports a mismatch as (false, nil); only a failure of the
// hashing primitive or an unreadable stored hash is an error.
//
//	hasher := password.NewBcryptHasher(password.WithCost(10))
//	hash, err := hasher.Hash(ctx, "my-password")
//	ok, err := hasher.Verify(ctx, "my-password", hash)
package password

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// BcryptMaxBytes is the longest password bcrypt accepts.
const BcryptMaxBytes = 72

var (
	// ErrEmpty is returned when hashing an empty password.
	ErrEmpty = errors.New("password: empty")
	// ErrTooLong is returned when a password exceeds what the algorithm can hash.
	ErrTooLong = errors.New("password: exceeds 72 bytes")
	// ErrMalformedHash is returned when a stored hash cannot be parsed.
	ErrMalformedHash = errors.New("password: malformed hash")
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	// Hash returns an encoded one-way hash of plaintext.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Verify reports whether plaintext matches hash.
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
}

// --- Bcrypt Implementation ---

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost parameter (default: 10, range: 4-31).
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// MaxBytes returns the longest password bcrypt can hash.
func (h *BcryptHasher) MaxBytes() int { return BcryptMaxBytes }

func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if plaintext == "" {
		return "", ErrEmpty
	}
	if len(plaintext) > BcryptMaxBytes {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrTooLong
		}
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// --- Argon2id Implementation ---

// Argon2Hasher implements Hasher using argon2id.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// Argon2Option configures the argon2id hasher.
type Argon2Option func(*Argon2Hasher)

// WithArgon2Time sets the number of iterations (default: 1).
func WithArgon2Time(t uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.time = t }
}

// WithArgon2Memory sets the memory usage in KiB (default: 64*1024).
func WithArgon2Memory(m uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.memory = m }
}

// WithArgon2Threads sets the parallelism (default: 4).
func WithArgon2Threads(t uint8) Argon2Option {
	return func(h *Argon2Hasher) { h.threads = t }
}

// NewArgon2Hasher creates an argon2id-based password hasher.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Argon2Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if plaintext == "" {
		return "", ErrEmpty
	}

	salt, err := generateRandomBytes(h.saltLen)
	if err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.threads, h.keyLen)

	// $argon2id$v=19$m=MEMORY,t=TIME,p=THREADS$SALT$KEY
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(ctx context.Context, plaintext, encoded string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("%w: params: %v", ErrMalformedHash, err)
	}
	if iterations == 0 || threads == 0 {
		return false, fmt.Errorf("%w: t and p must be positive", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	if len(expected) == 0 {
		return false, fmt.Errorf("%w: empty key", ErrMalformedHash)
	}

	key := argon2.IDKey([]byte(plaintext), salt, iterations, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
