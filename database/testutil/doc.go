// Package testutil provides database helpers for identity store tests.
//
// SQLite returns a private in-memory gorm database per test; Postgres
// returns a gorm database on the postgres dialect backed by go-sqlmock so the
// exact SQL and driver errors can be scripted:
//
//	db := testutil.SQLite(t)
//	testutil.MustLoadFixture(t, db, "users", []map[string]interface{}{
//	    {"id": "u1", "email": "alice@example.com", "password": "$2a$..."},
//	})
//	testutil.AssertRowCount(t, db, "users", 1)
package testutil
