package pipeline

import (
	"context"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authkit/errors"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/observability"
	"github.com/kbukum/authkit/validation"
)

// Instrument opens the chain span, runs the rest of the chain and records
// the outcome. It must be the first handler of a chain.
func (a *Assembler) Instrument(chain string) gin.HandlerFunc {
	record := a.cfg.Metrics.RecordRegister
	switch chain {
	case ChainLogin:
		record = a.cfg.Metrics.RecordLogin
	case ChainGuard:
		record = a.cfg.Metrics.RecordGuard
	}

	return func(c *gin.Context) {
		ctx, span := observability.StartSpan(c.Request.Context(), "authkit."+chain)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Set(chainKey, chain)

		c.Next()

		status := c.Writer.Status()
		outcome := c.GetString(outcomeKey)
		if outcome == "" {
			outcome = outcomeFromStatus(status)
		}
		span.SetAttributes(
			observability.AttrStatus.Int(status),
			observability.AttrOutcome.String(outcome),
		)
		record(c.Request.Context(), outcome)
	}
}

// Bind decodes the JSON body into identity.Credentials.
func (a *Assembler) Bind() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(stageKey, "bind")
		var creds identity.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			a.fail(c, OutcomeInvalid, apperrors.Validation("request body must be a JSON object").WithCause(err))
			return
		}
		if creds == nil {
			creds = identity.Credentials{}
		}
		c.Set(credentialsKey, creds)
		c.Next()
	}
}

// SchemaCheck answers 404 when the store has no schema.
func (a *Assembler) SchemaCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, op := a.startStage(c, "schema")
		ok, err := a.cfg.Store.Exists(ctx)
		switch {
		case err != nil:
			op.End(ctx, OutcomeError, err)
			a.storeFailure(c, err)
			return
		case !ok:
			op.End(ctx, OutcomeSchemaAbsent, nil)
			a.fail(c, OutcomeSchemaAbsent, apperrors.SchemaAbsent("user"))
			return
		}
		op.End(ctx, OutcomeOK, nil)
		c.Next()
	}
}

// Validate checks that every named identity field and the password are
// present and non-empty, reporting all failures at once in field order.
func (a *Assembler) Validate(fields ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(stageKey, "validate")
		creds := credentials(c)
		v := validation.New()
		for _, f := range fields {
			v.Present(f, creds[f])
		}
		switch pw := creds[identity.PasswordField].(type) {
		case string:
			v.Present(identity.PasswordField, pw)
			if max := a.passwordLimit(); max > 0 && c.GetString(chainKey) == ChainRegister {
				v.MaxLength(identity.PasswordField, pw, max)
			}
		case nil:
			v.Present(identity.PasswordField, pw)
		default:
			v.AddError(identity.PasswordField, "must be a string")
		}
		if appErr := v.Validate(); appErr != nil {
			a.fail(c, OutcomeInvalid, appErr)
			return
		}
		c.Next()
	}
}

// DuplicateCheck rejects a registration whose identity values are already
// taken, naming the first taken field in spec order.
func (a *Assembler) DuplicateCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, op := a.startStage(c, "duplicate_check")
		field, err := a.takenField(ctx, credentials(c).Identities(a.cfg.Spec, a.cfg.Normalize))
		if err != nil {
			op.End(ctx, OutcomeError, err)
			a.storeFailure(c, err)
			return
		}
		if field != "" {
			op.End(ctx, OutcomeConflict, nil)
			a.fail(c, OutcomeConflict, apperrors.AlreadyExists("user", field))
			return
		}
		op.End(ctx, OutcomeOK, nil)
		c.Next()
	}
}

// startStage opens the named stage's operation and tags the request's logs
// with it.
func (a *Assembler) startStage(c *gin.Context, stage string) (context.Context, *observability.Operation) {
	c.Set(stageKey, stage)
	return observability.StartOperation(c.Request.Context(), a.cfg.Metrics, c.GetString(chainKey), stage)
}

// takenField returns the first identity field whose value already exists.
func (a *Assembler) takenField(ctx context.Context, idents map[string]string) (string, error) {
	for _, f := range a.cfg.Spec.Fields() {
		rec, err := a.cfg.Store.FindByField(ctx, f, idents[f])
		if err != nil {
			return "", err
		}
		if rec != nil {
			return f, nil
		}
	}
	return "", nil
}

// passwordLimit is the hasher's maximum password length in bytes, 0 when
// it has none.
func (a *Assembler) passwordLimit() int {
	if l, ok := a.cfg.Hasher.(interface{ MaxBytes() int }); ok {
		return l.MaxBytes()
	}
	return 0
}

func credentials(c *gin.Context) identity.Credentials {
	if v, ok := c.Get(credentialsKey); ok {
		if creds, ok := v.(identity.Credentials); ok {
			return creds
		}
	}
	return identity.Credentials{}
}
