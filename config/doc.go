// Package config loads authkit configuration from YAML files, .env files and
// environment variables.
//
// Files are resolved from conventional locations (cmd/<service>/config.yml,
// config/config.yml, ./config.yml) unless explicit paths are given. Every
// environment variable is bound under several key shapes so that
// AUTHKIT_JWT_SECRET reaches both "jwt.secret" and "jwt_secret" once the
// prefix is stripped.
//
//	var cfg authkit.Config
//	err := config.LoadConfig("authkit", &cfg, config.WithEnvPrefix("AUTHKIT"))
package config
