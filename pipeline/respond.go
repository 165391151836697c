package pipeline

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authkit/errors"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
	"github.com/kbukum/authkit/server"
)

// gin context keys
const (
	chainKey       = "authkit.chain"
	outcomeKey     = "authkit.outcome"
	credentialsKey = "authkit.credentials"
	subjectKey     = "authkit.subject"
	stageKey       = "authkit.stage"
)

// Outcomes recorded on metrics and spans.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeConflict     = "conflict"
	OutcomeNotFound     = "not_found"
	OutcomeUnauthorized = "unauthorized"
	OutcomeForbidden    = "forbidden"
	OutcomeSchemaAbsent = "schema_absent"
	OutcomeError        = "error"
)

// fail aborts the chain with appErr. Server-side failures are logged with
// their cause; the client only sees the generic message.
func (a *Assembler) fail(c *gin.Context, outcome string, appErr *apperrors.AppError) {
	c.Set(outcomeKey, outcome)
	observability.SetSpanError(c.Request.Context(), appErr)

	log := a.logFor(c)
	fields := logger.Fields(logger.FieldStatus, appErr.HTTPStatus, "code", string(appErr.Code))
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		if appErr.Cause != nil {
			log = log.WithError(appErr.Cause)
		}
		log.Error("request failed", fields)
	} else {
		log.Debug("request rejected", fields)
	}

	server.RespondWithError(c, appErr)
	c.Abort()
}

// storeFailure maps a store error to the response it deserves.
func (a *Assembler) storeFailure(c *gin.Context, err error) {
	if errors.Is(err, identity.ErrSchemaAbsent) {
		a.fail(c, OutcomeSchemaAbsent, apperrors.SchemaAbsent("user").WithCause(err))
		return
	}
	if errors.Is(err, identity.ErrUnavailable) {
		a.fail(c, OutcomeError, apperrors.DatabaseError(err))
		return
	}
	a.fail(c, OutcomeError, apperrors.Internal(err))
}

func outcomeFromStatus(status int) string {
	switch {
	case status < 300:
		return OutcomeOK
	case status == http.StatusBadRequest:
		return OutcomeInvalid
	case status == http.StatusUnauthorized:
		return OutcomeUnauthorized
	case status == http.StatusForbidden:
		return OutcomeForbidden
	case status == http.StatusNotFound:
		return OutcomeNotFound
	case status == http.StatusConflict:
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
