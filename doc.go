// Package authkit is the configuration root of an authkit deployment. It
// gathers the service, identity, token, password, database, server and
// telemetry sections into one Config loaded by viper, and turns it into a
// pipeline.Config.
//
//	cfg, err := authkit.Load(config.WithEnvPrefix("AUTHKIT"))
//	pc, err := cfg.PipelineConfig(store, log, metrics)
//	a, err := pipeline.New(pc)
//
// The building blocks live in subpackages: identity (field specs, records,
// stores), pipeline (gin chains), auth (tokens and password hashing) and
// server (HTTP host).
package authkit
