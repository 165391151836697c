package pipeline

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authkit/auth/authctx"
	"github.com/kbukum/authkit/auth/jwt"
	apperrors "github.com/kbukum/authkit/errors"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
)

// Guard protects downstream handlers. A missing token answers 403, an
// untrusted one 401; on success the subject is attached to the request.
func (a *Assembler) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanGuard)
		c.Request = c.Request.WithContext(ctx)
		c.Set(chainKey, ChainGuard)

		outcome, subject := a.guard(c)
		span.SetAttributes(observability.AttrOutcome.String(outcome))
		span.End()
		a.cfg.Metrics.RecordGuard(ctx, outcome)
		if subject == "" {
			return
		}

		c.Set(subjectKey, subject)
		ctx = authctx.WithSubject(c.Request.Context(), subject)
		ctx = logger.ContextWithUserID(ctx, subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (a *Assembler) guard(c *gin.Context) (outcome, subject string) {
	token := a.extractToken(c.Request)
	if token == "" {
		a.fail(c, OutcomeForbidden, apperrors.Forbidden("no token provided"))
		return OutcomeForbidden, ""
	}

	subject, err := a.cfg.Tokens.Verify(token)
	if err == nil && subject == "" {
		err = errors.New("token carries no subject")
	}
	if err != nil {
		appErr := apperrors.InvalidToken()
		var invalid *jwt.InvalidTokenError
		if errors.As(err, &invalid) {
			if invalid.Kind == jwt.Expired {
				appErr = apperrors.TokenExpired()
			}
			appErr = appErr.WithDetail("reason", invalid.Kind.String())
		}
		a.fail(c, OutcomeUnauthorized, appErr.WithCause(err))
		return OutcomeUnauthorized, ""
	}
	return OutcomeOK, subject
}

func (a *Assembler) extractToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get(a.cfg.TokenHeader))
	if strings.EqualFold(a.cfg.TokenHeader, "Authorization") {
		scheme, rest, _ := strings.Cut(raw, " ")
		if strings.EqualFold(scheme, "Bearer") {
			raw = strings.TrimSpace(rest)
		}
	}
	return raw
}
