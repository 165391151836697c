// Package version carries build information for the authkit binary.
//
//	go build -ldflags "-X github.com/kbukum/authkit/version.Version=1.0.0" ./cmd/authkit
package version
