package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesSchema(t *testing.T) {
	db := NewTestDB(t)

	var tableName string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='items'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "items", tableName)
}

func TestPriceColumnDefaultsToNotForSale(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(`INSERT INTO items (name, quantity) VALUES ('Mystery Box', 1)`)
	require.NoError(t, err)

	var price float64
	err = db.QueryRow(`SELECT "price_US_$" FROM items WHERE name = 'Mystery Box'`).Scan(&price)
	require.NoError(t, err)
	assert.Equal(t, 0.14619, price)
}

func TestQuantityColumnDefaultsToZero(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec(`INSERT INTO items (name) VALUES ('Unstocked')`)
	require.NoError(t, err)

	var quantity int64
	err = db.QueryRow(`SELECT quantity FROM items WHERE name = 'Unstocked'`).Scan(&quantity)
	require.NoError(t, err)
	assert.Zero(t, quantity)
}

func TestPlaceholderMigrationApplied(t *testing.T) {
	db := NewTestDB(t)

	// Both the create and the reserved placeholder migration must be recorded.
	var version int64
	err := db.QueryRow("SELECT version FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := NewTestDB(t)

	// Re-running against an up-to-date database is not an error.
	require.NoError(t, runMigrations(db))
}
