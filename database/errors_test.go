package database

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		ok     bool
		column string
	}{
		{"nil", nil, false, ""},
		{"plain", fmt.Errorf("boom"), false, ""},
		{
			"postgres detail",
			&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", Detail: "Key (email)=(a@b.c) already exists."},
			true, "email",
		},
		{
			"postgres wrapped",
			fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", Detail: "Key (username)=(bob) already exists."}),
			true, "username",
		},
		{
			"postgres composite key",
			&pgconn.PgError{Code: "23505", Detail: "Key (email, tenant)=(a, b) already exists."},
			true, "",
		},
		{"postgres other code", &pgconn.PgError{Code: "23502"}, false, ""},
		{"sqlite", fmt.Errorf("UNIQUE constraint failed: users.username"), true, "username"},
		{"gorm translated", gorm.ErrDuplicatedKey, true, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := UniqueViolation(tc.err)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if v.Column != tc.column {
				t.Errorf("column = %q, want %q", v.Column, tc.column)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{fmt.Errorf("dial tcp: connection refused"), true},
		{&pgconn.PgError{Code: "08006"}, true},
		{&pgconn.PgError{Code: "23505"}, false},
		{fmt.Errorf("syntax error"), false},
	}
	for _, tc := range tests {
		if got := IsConnectionError(tc.err); got != tc.want {
			t.Errorf("IsConnectionError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestIsUndefinedTable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres", &pgconn.PgError{Code: "42P01"}, true},
		{"postgres other", &pgconn.PgError{Code: "23505"}, false},
		{"sqlite", fmt.Errorf("no such table: users"), true},
		{"plain", fmt.Errorf("boom"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUndefinedTable(tc.err); got != tc.want {
				t.Errorf("IsUndefinedTable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
