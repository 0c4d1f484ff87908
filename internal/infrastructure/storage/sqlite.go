package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for reconcile records.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveTransaction saves one resolved transaction row
func (s *Storage) SaveTransaction(record *TransactionRecord) error {
	query := `
	INSERT INTO transactions
	(run_id, date, merchant, normalized, account_holder, amount,
	 vendor, vendor_score, vendor_source, property, property_score,
	 gl_account, gl_score, status, note, exported)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		record.RunID,
		record.Date,
		record.Merchant,
		record.Normalized,
		record.AccountHolder,
		record.Amount,
		record.Vendor,
		record.VendorScore,
		record.VendorSource,
		record.Property,
		record.PropertyScore,
		record.GLAccount,
		record.GLScore,
		record.Status,
		record.Note,
		record.Exported,
	)
	if err != nil {
		return err
	}

	record.ID, _ = result.LastInsertId()
	return nil
}

// ListTransactions returns transactions matching the given filters with pagination
func (s *Storage) ListTransactions(filters TransactionFilters) (*TransactionListResult, error) {
	where := "WHERE 1=1"
	args := []any{}

	if filters.RunID != 0 {
		where += " AND run_id = ?"
		args = append(args, filters.RunID)
	}
	if filters.Status != "" {
		where += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Vendor != "" {
		where += " AND vendor LIKE ?"
		args = append(args, "%"+filters.Vendor+"%")
	}

	limit := filters.Limit
	if limit == 0 {
		limit = 50
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM transactions " + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	order := "ASC"
	if filters.OrderDesc {
		order = "DESC"
	}
	query := fmt.Sprintf(`
	SELECT id, run_id, date, merchant, normalized, account_holder, amount,
	       vendor, vendor_score, vendor_source, property, property_score,
	       gl_account, gl_score, status, note, exported
	FROM transactions %s
	ORDER BY date %s, id %s
	LIMIT ? OFFSET ?`, where, order, order)

	rows, err := s.db.Query(query, append(args, limit, filters.Offset)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*TransactionRecord
	for rows.Next() {
		record := &TransactionRecord{}
		err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.Date,
			&record.Merchant,
			&record.Normalized,
			&record.AccountHolder,
			&record.Amount,
			&record.Vendor,
			&record.VendorScore,
			&record.VendorSource,
			&record.Property,
			&record.PropertyScore,
			&record.GLAccount,
			&record.GLScore,
			&record.Status,
			&record.Note,
			&record.Exported,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &TransactionListResult{
		Transactions: records,
		TotalCount:   total,
		Limit:        limit,
		Offset:       filters.Offset,
	}, nil
}

// GetStats returns aggregate statistics over the last 90 days of runs
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{
		StatusStats: make(map[string]StatusStats),
	}

	query := `
	SELECT
		COUNT(*) as total,
		COUNT(CASE WHEN exported = 1 THEN 1 END) as exported,
		COUNT(CASE WHEN status = 'EXCEPTION' THEN 1 END) as exceptions,
		COUNT(CASE WHEN status = 'ALERT' THEN 1 END) as alerts,
		COUNT(CASE WHEN status = 'SKIP' THEN 1 END) as skipped,
		COALESCE(SUM(amount), 0) as total_amount,
		COALESCE(AVG(amount), 0) as avg_amount
	FROM transactions
	WHERE run_id IN (
		SELECT id FROM reconcile_runs
		WHERE started_at > datetime('now', '-90 days')
	)
	`

	err := s.db.QueryRow(query).Scan(
		&stats.TotalTransactions,
		&stats.ExportedCount,
		&stats.ExceptionCount,
		&stats.AlertCount,
		&stats.SkippedCount,
		&stats.TotalAmount,
		&stats.AverageAmount,
	)
	if err != nil {
		return nil, err
	}

	// Status breakdown
	statusQuery := `
	SELECT status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total
	FROM transactions
	GROUP BY status
	`

	rows, err := s.db.Query(statusQuery)
	if err == nil {
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var status string
			var ss StatusStats
			if err := rows.Scan(&status, &ss.Count, &ss.TotalAmount); err == nil {
				stats.StatusStats[status] = ss
			}
		}
	}

	return stats, nil
}

// StartRun records the start of a reconcile run
func (s *Storage) StartRun(batchID, inputFile, cashAccount string, dryRun bool) (int64, error) {
	query := `
		INSERT INTO reconcile_runs (batch_id, input_file, cash_account, dry_run, status)
		VALUES (?, ?, ?, ?, 'running')
	`

	result, err := s.db.Exec(query, batchID, inputFile, cashAccount, dryRun)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// CompleteRun records the completion of a reconcile run
func (s *Storage) CompleteRun(runID int64, summary RunSummary) error {
	query := `
		UPDATE reconcile_runs
		SET completed_at = CURRENT_TIMESTAMP,
		    rows_in = ?,
		    rows_skipped = ?,
		    rows_exported = ?,
		    exceptions = ?,
		    alerts = ?,
		    netted_out = ?,
		    duplicates_found = ?,
		    statement_total = ?,
		    export_total = ?,
		    balanced = ?,
		    status = CASE WHEN ? > 0 THEN 'completed_with_exceptions' ELSE 'completed' END
		WHERE id = ?
	`

	_, err := s.db.Exec(query,
		summary.RowsIn,
		summary.RowsSkipped,
		summary.RowsExported,
		summary.Exceptions,
		summary.Alerts,
		summary.NettedOut,
		summary.DuplicatesFound,
		summary.StatementTotal,
		summary.ExportTotal,
		summary.Balanced,
		summary.Exceptions,
		runID,
	)
	return err
}

// ListRuns returns recent reconcile runs, newest first
func (s *Storage) ListRuns(limit int) ([]ReconcileRun, error) {
	if limit == 0 {
		limit = 20
	}

	query := `
		SELECT id, batch_id, input_file, cash_account, started_at,
		       COALESCE(completed_at, ''), dry_run, status,
		       rows_in, rows_skipped, rows_exported, exceptions, alerts,
		       netted_out, duplicates_found, statement_total, export_total, balanced
		FROM reconcile_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []ReconcileRun
	for rows.Next() {
		var run ReconcileRun
		err := rows.Scan(
			&run.ID, &run.BatchID, &run.InputFile, &run.CashAccount,
			&run.StartedAt, &run.CompletedAt, &run.DryRun, &run.Status,
			&run.RowsIn, &run.RowsSkipped, &run.RowsExported,
			&run.Exceptions, &run.Alerts, &run.NettedOut,
			&run.DuplicatesFound, &run.StatementTotal, &run.ExportTotal,
			&run.Balanced,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun retrieves a reconcile run by ID
func (s *Storage) GetRun(runID int64) (*ReconcileRun, error) {
	query := `
		SELECT id, batch_id, input_file, cash_account, started_at,
		       COALESCE(completed_at, ''), dry_run, status,
		       rows_in, rows_skipped, rows_exported, exceptions, alerts,
		       netted_out, duplicates_found, statement_total, export_total, balanced
		FROM reconcile_runs
		WHERE id = ?
	`

	var run ReconcileRun
	err := s.db.QueryRow(query, runID).Scan(
		&run.ID, &run.BatchID, &run.InputFile, &run.CashAccount,
		&run.StartedAt, &run.CompletedAt, &run.DryRun, &run.Status,
		&run.RowsIn, &run.RowsSkipped, &run.RowsExported,
		&run.Exceptions, &run.Alerts, &run.NettedOut,
		&run.DuplicatesFound, &run.StatementTotal, &run.ExportTotal,
		&run.Balanced,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// LogException records a blocked transaction for later review
func (s *Storage) LogException(record *ExceptionRecord) error {
	query := `
		INSERT INTO exception_audit
		(run_id, date, merchant, account_holder, amount, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		record.RunID,
		record.Date,
		record.Merchant,
		record.AccountHolder,
		record.Amount,
		record.Reason,
	)
	if err != nil {
		return err
	}

	record.ID, _ = result.LastInsertId()
	return nil
}

// ListExceptions retrieves exceptions for a run; runID 0 returns all
func (s *Storage) ListExceptions(runID int64) ([]ExceptionRecord, error) {
	query := `
		SELECT id, run_id, date, merchant, account_holder, amount, reason, logged_at
		FROM exception_audit
	`
	args := []any{}
	if runID != 0 {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY logged_at ASC, id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []ExceptionRecord
	for rows.Next() {
		var record ExceptionRecord
		err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.Date,
			&record.Merchant,
			&record.AccountHolder,
			&record.Amount,
			&record.Reason,
			&record.LoggedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// RecordControl marks a control key as exported
func (s *Storage) RecordControl(entry *ControlEntry) error {
	query := `
		INSERT OR IGNORE INTO control_history (key, run_id)
		VALUES (?, ?)
	`

	_, err := s.db.Exec(query, entry.Key, entry.RunID)
	return err
}

// SeenControl checks whether a control key was exported by a prior run
func (s *Storage) SeenControl(key string) bool {
	var count int
	query := `SELECT COUNT(*) FROM control_history WHERE key = ?`
	err := s.db.QueryRow(query, key).Scan(&count)
	return err == nil && count > 0
}
