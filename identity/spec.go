package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kbukum/authkit/validation"
)

// PasswordField is the credential key that carries the plaintext password.
const PasswordField = "password"

// reserved names collide with password or with columns every store keeps.
var reserved = map[string]bool{
	PasswordField: true,
	"id":          true,
	"profile":     true,
	"created_at":  true,
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Spec is an immutable, ordered, non-empty set of identity field names.
type Spec struct {
	fields []string
}

// NewSpec validates and builds a Spec. Fields must be non-empty, unique,
// legal identifiers and must not use a reserved name such as "password".
func NewSpec(fields ...string) (Spec, error) {
	if len(fields) == 0 {
		return Spec{}, fmt.Errorf("identity: at least one identity field is required")
	}

	v := validation.New()
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := fmt.Sprintf("identities[%d]", i)
		v.Required(name, f)
		v.Pattern(name, f, identifierPattern)
		v.Custom(!reserved[strings.ToLower(f)], name, fmt.Sprintf("%q is reserved", f))
		v.Custom(!seen[f], name, fmt.Sprintf("%q is listed twice", f))
		seen[f] = true
	}
	if err := v.Validate(); err != nil {
		return Spec{}, fmt.Errorf("identity: invalid spec: %s", err.Message)
	}

	return Spec{fields: append([]string(nil), fields...)}, nil
}

// MustSpec is NewSpec that panics on error.
func MustSpec(fields ...string) Spec {
	s, err := NewSpec(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns a copy of the identity fields in order.
func (s Spec) Fields() []string {
	return append([]string(nil), s.fields...)
}

// Primary returns the login identity field.
func (s Spec) Primary() string {
	if len(s.fields) == 0 {
		return ""
	}
	return s.fields[0]
}

// Len returns the number of identity fields.
func (s Spec) Len() int { return len(s.fields) }

// IsZero reports whether s was not built with NewSpec.
func (s Spec) IsZero() bool { return len(s.fields) == 0 }

// Contains reports whether field is one of the identity fields.
func (s Spec) Contains(field string) bool {
	for _, f := range s.fields {
		if f == field {
			return true
		}
	}
	return false
}

func (s Spec) String() string {
	return "[" + strings.Join(s.fields, ", ") + "]"
}
