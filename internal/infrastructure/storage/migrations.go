package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "add_reconcile_runs_table",
		Up:      migration001AddReconcileRunsTable,
	},
	{
		Version: 2,
		Name:    "add_transactions_table",
		Up:      migration002AddTransactionsTable,
	},
	{
		Version: 3,
		Name:    "add_exception_audit_table",
		Up:      migration003AddExceptionAuditTable,
	},
	{
		Version: 4,
		Name:    "add_control_history_table",
		Up:      migration004AddControlHistoryTable,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	// Ensure migrations table exists
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get applied migrations
	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	// Run pending migrations
	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue // Already applied
		}

		log.Printf("Running migration %d: %s", migration.Version, migration.Name)

		// Run migration in transaction
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		// Execute migration
		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		// Record migration
		_, err = tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES (?, ?)
		`, migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		// Commit
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		log.Printf("✅ Migration %d complete", migration.Version)
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table
func (s *Storage) ensureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := s.db.Exec(query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions
func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ================================================================
// MIGRATION FUNCTIONS
// ================================================================

// migration001AddReconcileRunsTable creates the reconcile_runs table
func migration001AddReconcileRunsTable(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reconcile_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT UNIQUE NOT NULL,
			input_file TEXT,
			cash_account TEXT,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP,
			dry_run BOOLEAN DEFAULT 0,
			status TEXT DEFAULT 'running',
			rows_in INTEGER DEFAULT 0,
			rows_skipped INTEGER DEFAULT 0,
			rows_exported INTEGER DEFAULT 0,
			exceptions INTEGER DEFAULT 0,
			alerts INTEGER DEFAULT 0,
			netted_out INTEGER DEFAULT 0,
			duplicates_found INTEGER DEFAULT 0,
			statement_total REAL DEFAULT 0,
			export_total REAL DEFAULT 0,
			balanced BOOLEAN DEFAULT 0
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reconcile_runs_started
		 ON reconcile_runs(started_at DESC)`,

		`CREATE INDEX IF NOT EXISTS idx_reconcile_runs_batch
		 ON reconcile_runs(batch_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// migration002AddTransactionsTable creates the transactions table
func migration002AddTransactionsTable(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			date TEXT,
			merchant TEXT NOT NULL,
			normalized TEXT,
			account_holder TEXT,
			amount REAL DEFAULT 0,
			vendor TEXT,
			vendor_score REAL DEFAULT 0,
			vendor_source TEXT,
			property TEXT,
			property_score REAL DEFAULT 0,
			gl_account TEXT,
			gl_score REAL DEFAULT 0,
			status TEXT NOT NULL,
			note TEXT DEFAULT '',
			exported BOOLEAN DEFAULT 0,
			FOREIGN KEY (run_id) REFERENCES reconcile_runs(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_run_id
		 ON transactions(run_id)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_status
		 ON transactions(status)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_vendor
		 ON transactions(vendor)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_date
		 ON transactions(date)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// migration003AddExceptionAuditTable creates the exception_audit table
func migration003AddExceptionAuditTable(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS exception_audit (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			date TEXT,
			merchant TEXT,
			account_holder TEXT,
			amount REAL DEFAULT 0,
			reason TEXT NOT NULL,
			logged_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES reconcile_runs(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_exception_audit_run_id
		 ON exception_audit(run_id)`,

		`CREATE INDEX IF NOT EXISTS idx_exception_audit_logged
		 ON exception_audit(logged_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// migration004AddControlHistoryTable creates the control_history table.
// One row per exported statement charge; the unique key is what stops a
// re-uploaded statement from booking the same charge twice.
func migration004AddControlHistoryTable(db *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS control_history (
			key TEXT PRIMARY KEY,
			run_id INTEGER NOT NULL,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES reconcile_runs(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_control_history_run_id
		 ON control_history(run_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
