// Package endpoint provides the operational handlers mounted by the server.
package endpoint
