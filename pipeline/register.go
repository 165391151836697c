package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authkit/errors"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/logger"
)

// TokenResponse is the success body of register and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register hashes the password, persists the record and issues a token.
// A uniqueness violation raised by the store answers 409 like the pre-check.
func (a *Assembler) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := credentials(c)

		ctx, op := a.startStage(c, "hash")
		hash, err := a.cfg.Hasher.Hash(ctx, creds.Password())
		if err != nil {
			op.End(ctx, OutcomeError, err)
			a.fail(c, OutcomeError, apperrors.Internal(fmt.Errorf("hash password: %w", err)))
			return
		}
		op.End(ctx, OutcomeOK, nil)

		rec := identity.NewRecord(creds.Identities(a.cfg.Spec, a.cfg.Normalize), hash, creds.Profile(a.cfg.Spec))

		ctx, op = a.startStage(c, "persist")
		created, err := a.cfg.Store.Create(ctx, rec)
		if err != nil {
			var conflict *identity.ConflictError
			if errors.As(err, &conflict) {
				op.End(ctx, OutcomeConflict, nil)
				a.fail(c, OutcomeConflict, apperrors.AlreadyExists("user", a.conflictField(ctx, c, conflict, rec)))
				return
			}
			op.End(ctx, OutcomeError, err)
			a.storeFailure(c, err)
			return
		}
		op.End(ctx, OutcomeOK, nil)

		token, ok := a.issue(c, created.ID)
		if !ok {
			return
		}

		a.logFor(c).Info("user registered", logger.Fields(logger.FieldUserID, created.ID))
		c.JSON(http.StatusOK, TokenResponse{Token: token})
	}
}

// conflictField names the field behind a store conflict. When the store
// cannot tell, the identity fields are looked up again in order; the primary field is the last resort.
func (a *Assembler) conflictField(ctx context.Context, c *gin.Context, conflict *identity.ConflictError, rec *identity.Record) string {
	if conflict.Field != "" {
		return conflict.Field
	}
	field, err := a.takenField(ctx, rec.Identities)
	if err != nil {
		a.logFor(c).WithError(err).Warn("conflict field lookup failed")
	}
	if field == "" {
		return a.cfg.Spec.Primary()
	}
	return field
}

func (a *Assembler) issue(c *gin.Context, subject string) (string, bool) {
	ctx, op := a.startStage(c, "issue")
	token, err := a.cfg.Tokens.Issue(subject)
	if err != nil {
		op.End(ctx, OutcomeError, err)
		a.fail(c, OutcomeError, apperrors.Internal(fmt.Errorf("issue token: %w", err)))
		return "", false
	}
	op.End(ctx, OutcomeOK, nil)
	c.Set(outcomeKey, OutcomeOK)
	return token, true
}
