// Package errors provides the error taxonomy shared by every authkit stage.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection following RFC 7807 and Google AIP-193.
//
// Every domain failure a pipeline stage can produce (validation, conflict,
// not found, auth, schema absent) has a constructor here; anything else is
// wrapped with Internal so no internal detail reaches a client.
package errors
