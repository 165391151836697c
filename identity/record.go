package identity

import (
	"time"

	"github.com/google/uuid"
)

// Record is a stored user. Records are created by registration and never
// mutated afterwards.
type Record struct {
	ID           string            `json:"id"`
	Identities   map[string]string `json:"identities"`
	PasswordHash string            `json:"-"`
	Profile      map[string]any    `json:"profile,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

// NewRecord builds a record with a fresh id from already-validated values.
func NewRecord(identities map[string]string, passwordHash string, profile map[string]any) *Record {
	return &Record{
		ID:           NewID(),
		Identities:   identities,
		PasswordHash: passwordHash,
		Profile:      profile,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Identities = make(map[string]string, len(r.Identities))
	for k, v := range r.Identities {
		out.Identities[k] = v
	}
	if r.Profile != nil {
		out.Profile = make(map[string]any, len(r.Profile))
		for k, v := range r.Profile {
			out.Profile[k] = v
		}
	}
	return &out
}
