package identity

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrSchemaAbsent is returned when the backing table or collection is missing.
	ErrSchemaAbsent = errors.New("identity: store schema absent")
	// ErrConflict matches any *ConflictError.
	ErrConflict = errors.New("identity: already exists")
	// ErrUnavailable wraps errors from a store that cannot be reached.
	ErrUnavailable = errors.New("identity: store unavailable")
	// ErrUnknownField is returned when looking up a field that is not an identity field.
	ErrUnknownField = errors.New("identity: unknown field")
)

// ConflictError reports a uniqueness violation. Field is empty when the
// store cannot tell which identity field collided.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("identity: %s already exists", e.Field)
}

// Is makes errors.Is(err, ErrConflict) true for every ConflictError.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func (e *ConflictError) Unwrap() error { return e.Err }

// Store persists records keyed by identity fields. Implementations must
// enforce uniqueness of every identity field atomically on Create.
type Store interface {
	// Exists reports whether the store's schema is provisioned.
	Exists(ctx context.Context) (bool, error)

	// FindByField returns the record whose identity field equals value,
	// or (nil, nil) when there is none.
	FindByField(ctx context.Context, field, value string) (*Record, error)

	// Create persists rec. A uniqueness violation returns *ConflictError.
	Create(ctx context.Context, rec *Record) (*Record, error)
}
