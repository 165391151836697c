package database

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

var (
	pgKeyDetail    = regexp.MustCompile(`^Key \(([^)]+)\)=`)
	sqliteUniqueRe = regexp.MustCompile(`UNIQUE constraint failed: ([^\s,]+)`)
)

// Violation describes a unique-constraint failure.
type Violation struct {
	// Column is the offending column when the driver reports it.
	Column string
	// Constraint is the constraint name when the driver reports it.
	Constraint string
}

// UniqueViolation reports whether err is a unique-constraint failure and, when
// the driver says so, which column caused it.
func UniqueViolation(err error) (Violation, bool) {
	if err == nil {
		return Violation{}, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return Violation{}, false
		}
		v := Violation{Column: pgErr.ColumnName, Constraint: pgErr.ConstraintName}
		if v.Column == "" {
			if m := pgKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil && !strings.Contains(m[1], ",") {
				v.Column = strings.TrimSpace(m[1])
			}
		}
		return v, true
	}

	if m := sqliteUniqueRe.FindStringSubmatch(err.Error()); m != nil {
		col := m[1]
		if idx := strings.LastIndex(col, "."); idx != -1 {
			col = col[idx+1:]
		}
		return Violation{Column: col}, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Violation{}, true
	}
	return Violation{}, false
}

// IsConnectionError checks if a database error is a connection error
// that might be resolved by retrying.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception
		return strings.HasPrefix(pgErr.Code, "08")
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"no route to host",
		"network is unreachable",
		"driver: bad connection",
	} {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// IsUndefinedTable reports whether err says the queried table does not exist.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	return strings.Contains(err.Error(), "no such table")
}
