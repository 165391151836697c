// Package database opens the gorm connection behind the identity store.
//
// The driver is chosen by name ("postgres" or "sqlite"); connection attempts
// that fail with a connection error (IsConnectionError) are retried with a
// linear backoff that honours context cancellation; other failures return
// at once. gorm's query log is routed through the authkit logger.
//
//	db, err := database.Open(ctx, database.Config{Driver: "postgres", DSN: dsn}, log)
//	defer db.Close()
//	store, err := gormstore.New(db.GormDB, spec)
//
// UniqueViolation classifies unique-constraint failures from either driver
// so callers can name the offending column.
package database
