// Package authctx carries the authenticated subject through a request context.
//
//	ctx = authctx.WithSubject(ctx, userID)
//	id, ok := authctx.Subject(ctx)
package authctx

import "context"

// subjectKey is an unexported type to prevent collisions with other packages.
type subjectKey struct{}

// WithSubject attaches the authenticated subject id to ctx.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// Subject returns the subject attached by the guard.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
