package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectedMigrationCount is the number of migrations we expect to have
// Update this when adding new migrations
const expectedMigrationCount = 4

// TestMigrations_FreshDatabase tests running migrations on a fresh database
func TestMigrations_FreshDatabase(t *testing.T) {
	store := newTestStorage(t)

	var count int
	err := store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, expectedMigrationCount, count)
}

// TestMigrations_Idempotency tests that migrations can be run multiple times
func TestMigrations_Idempotency(t *testing.T) {
	dbPath := createTempDB(t)

	store, err := NewStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrations again; already-applied versions are skipped
	store, err = NewStorage(dbPath)
	require.NoError(t, err)
	defer store.Close()

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, expectedMigrationCount, count)
}

// TestMigrations_TablesExist verifies the expected schema is in place
func TestMigrations_TablesExist(t *testing.T) {
	store := newTestStorage(t)

	tables := []string{"reconcile_runs", "transactions", "exception_audit", "control_history"}
	for _, table := range tables {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

// TestMigrations_VersionsRecorded verifies each migration records its name
func TestMigrations_VersionsRecorded(t *testing.T) {
	store := newTestStorage(t)

	rows, err := store.db.Query("SELECT version, name FROM schema_migrations ORDER BY version")
	require.NoError(t, err)
	defer rows.Close()

	expected := map[int]string{
		1: "add_reconcile_runs_table",
		2: "add_transactions_table",
		3: "add_exception_audit_table",
		4: "add_control_history_table",
	}

	seen := 0
	for rows.Next() {
		var version int
		var name string
		require.NoError(t, rows.Scan(&version, &name))
		assert.Equal(t, expected[version], name)
		seen++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, expectedMigrationCount, seen)
}
