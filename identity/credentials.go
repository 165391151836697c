package identity

import (
	"fmt"
	"strconv"
	"strings"
)

// Credentials is a decoded registration or login body.
type Credentials map[string]any

// Value returns the identity value for field as a string. Missing and null
// values return "".
func (c Credentials) Value(field string) string {
	switch v := c[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Password returns the plaintext password, or "" when absent or not a string.
func (c Credentials) Password() string {
	s, _ := c[PasswordField].(string)
	return s
}

// Identities extracts every spec field, optionally normalized.
func (c Credentials) Identities(spec Spec, normalize bool) map[string]string {
	out := make(map[string]string, spec.Len())
	for _, f := range spec.fields {
		v := c.Value(f)
		if normalize {
			v = Normalize(v)
		}
		out[f] = v
	}
	return out
}

// Profile returns the pass-through fields: everything except identity
// fields, the password and reserved record columns.
func (c Credentials) Profile(spec Spec) map[string]any {
	out := make(map[string]any)
	for k, v := range c {
		if spec.Contains(k) || reserved[strings.ToLower(k)] {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Normalize trims surrounding whitespace and lowercases an identity value.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
