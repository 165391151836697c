package pipeline

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/authkit/auth/authctx"
	"github.com/kbukum/authkit/logger"
)

// Chain names, used for spans, metrics and log components.
const (
	ChainRegister = "register"
	ChainLogin    = "login"
	ChainGuard    = "guard"
)

// Assembler builds the mountable chains. It is safe for concurrent use.
type Assembler struct {
	cfg Config

	// dummyHash is compared against on unknown identities when
	// UniformLoginFailure is set.
	dummyHash string

	logs map[string]*logger.Logger
}

// New validates cfg and returns an Assembler.
func New(cfg Config) (*Assembler, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	a := &Assembler{
		cfg: cfg,
		logs: map[string]*logger.Logger{
			ChainRegister: cfg.Logger.WithComponent("authkit." + ChainRegister),
			ChainLogin:    cfg.Logger.WithComponent("authkit." + ChainLogin),
			ChainGuard:    cfg.Logger.WithComponent("authkit." + ChainGuard),
		},
	}

	if cfg.UniformLoginFailure {
		h, err := cfg.Hasher.Hash(context.Background(), uuid.NewString())
		if err != nil {
			return nil, fmt.Errorf("pipeline: build dummy hash: %w", err)
		}
		a.dummyHash = h
	}
	return a, nil
}

// Config returns a copy of the assembler's configuration.
func (a *Assembler) Config() Config { return a.cfg }

// RegisterChain returns the handlers for POST /register.
func (a *Assembler) RegisterChain() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		a.Instrument(ChainRegister),
		a.Bind(),
		a.SchemaCheck(),
		a.Validate(a.cfg.Spec.Fields()...),
		a.DuplicateCheck(),
		a.Register(),
	}
}

// LoginChain returns the handlers for POST /login. Only the primary identity
// is required.
func (a *Assembler) LoginChain() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		a.Instrument(ChainLogin),
		a.Bind(),
		a.SchemaCheck(),
		a.Validate(a.cfg.Spec.Primary()),
		a.Login(),
	}
}

// Mount registers POST /register and POST /login on r.
func (a *Assembler) Mount(r gin.IRoutes) {
	r.POST("/register", a.RegisterChain()...)
	r.POST("/login", a.LoginChain()...)
}

// Subject returns the subject the guard attached to the request.
func Subject(c *gin.Context) (string, bool) {
	if v, ok := c.Get(subjectKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return authctx.Subject(c.Request.Context())
}

func (a *Assembler) logFor(c *gin.Context) *logger.Logger {
	l, ok := a.logs[c.GetString(chainKey)]
	if !ok {
		l = a.cfg.Logger.WithComponent("authkit")
	}
	if stage := c.GetString(stageKey); stage != "" {
		l = l.WithStage(stage)
	}
	return l.WithContext(c.Request.Context())
}
