// Package identity defines the identity field set, the credential body, the
// stored user record, and the store contract the authentication pipeline
// runs against.
//
// A Spec is the ordered list of identity fields, e.g. ["email"] or
// ["email", "username"]. The first field is the primary identity used for
// login lookup; every field is checked for uniqueness on registration.
package identity
