package pipeline

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authkit/errors"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/logger"
)

// Login looks the user up by the primary identity, verifies the password
// and issues a token.
func (a *Assembler) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := credentials(c)
		primary := a.cfg.Spec.Primary()

		value := creds.Value(primary)
		if a.cfg.Normalize {
			value = identity.Normalize(value)
		}

		ctx, op := a.startStage(c, "lookup")
		rec, err := a.cfg.Store.FindByField(ctx, primary, value)
		if err != nil {
			op.End(ctx, OutcomeError, err)
			a.storeFailure(c, err)
			return
		}
		op.End(ctx, OutcomeOK, nil)

		hash := a.dummyHash
		if rec != nil {
			hash = rec.PasswordHash
		}
		if rec == nil && !a.cfg.UniformLoginFailure {
			a.fail(c, OutcomeNotFound, apperrors.New(apperrors.ErrCodeNotFound, "user not found", http.StatusNotFound))
			return
		}

		ctx, op = a.startStage(c, "verify")
		match, err := a.cfg.Hasher.Verify(ctx, creds.Password(), hash)
		if err != nil {
			op.End(ctx, OutcomeError, err)
			a.fail(c, OutcomeError, apperrors.Internal(fmt.Errorf("verify password: %w", err)))
			return
		}
		op.End(ctx, OutcomeOK, nil)

		switch {
		case rec == nil:
			a.fail(c, OutcomeUnauthorized, apperrors.InvalidCredentials())
			return
		case !match && a.cfg.UniformLoginFailure:
			a.fail(c, OutcomeUnauthorized, apperrors.InvalidCredentials())
			return
		case !match:
			a.fail(c, OutcomeUnauthorized, apperrors.Unauthorized("incorrect password"))
			return
		}

		token, ok := a.issue(c, rec.ID)
		if !ok {
			return
		}

		a.logFor(c).Info("user logged in", logger.Fields(logger.FieldUserID, rec.ID))
		c.JSON(http.StatusOK, TokenResponse{Token: token})
	}
}
