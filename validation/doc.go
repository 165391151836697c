// Package validation provides input validation utilities for authkit.
//
// Programmatic validation collects every failure before reporting, which is
// how credential bodies are checked:
//
//	v := validation.New()
//	v.Present("email", body["email"])
//	v.Present("password", body["password"])
//	err := v.Validate()
//
// Configuration structs are checked with struct tags through the
// go-playground validator:
//
//	type JWT struct {
//	    Secret string `mapstructure:"secret" validate:"required,min=16"`
//	}
//	err := validation.ValidateStruct(cfg)
package validation
