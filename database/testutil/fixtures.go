package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// LoadFixture inserts rows into a table. Each map is one row.
func LoadFixture(db *gorm.DB, table string, rows []map[string]interface{}) error {
	for _, row := range rows {
		if err := db.Table(table).Create(row).Error; err != nil {
			return fmt.Errorf("failed to insert fixture row into %s: %w", table, err)
		}
	}
	return nil
}

// MustLoadFixture loads rows and fails the test on error.
func MustLoadFixture(t *testing.T, db *gorm.DB, table string, rows []map[string]interface{}) {
	t.Helper()
	require.NoError(t, LoadFixture(db, table, rows))
}

// CountRows returns the number of rows in a table.
func CountRows(db *gorm.DB, table string) (int64, error) {
	var count int64
	err := db.Table(table).Count(&count).Error
	return count, err
}

// AssertRowCount fails the test if the table doesn't have the expected row count.
func AssertRowCount(t *testing.T, db *gorm.DB, table string, expected int64) {
	t.Helper()
	count, err := CountRows(db, table)
	require.NoError(t, err, "count rows in %s", table)
	assert.Equal(t, expected, count, "row count of %s", table)
}

// TableExists reports whether the table exists.
func TableExists(db *gorm.DB, table string) bool {
	return db.Migrator().HasTable(table)
}
