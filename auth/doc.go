// Package auth defines the credential and token contracts the authkit
// pipeline depends on, and the configuration that builds them.
//
//   - auth/jwt      signed stateless tokens carrying a subject id
//   - auth/password bcrypt and argon2id password hashing
//   - auth/authctx  request context propagation of the authenticated subject
package auth
