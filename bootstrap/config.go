package bootstrap

import (
	"github.com/kbukum/authkit/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig with `mapstructure:",squash"` satisfies it
// once it defines ApplyDefaults and Validate for its own sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
