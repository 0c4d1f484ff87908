package storage

// TransactionRecord is one statement row after resolution, as persisted
type TransactionRecord struct {
	ID            int64   `json:"id"`
	RunID         int64   `json:"run_id"`
	Date          string  `json:"date"` // YYYY-MM-DD
	Merchant      string  `json:"merchant"`
	Normalized    string  `json:"normalized"`
	AccountHolder string  `json:"account_holder"`
	Amount        float64 `json:"amount"`

	Vendor        string  `json:"vendor"`
	VendorScore   float64 `json:"vendor_score"`
	VendorSource  string  `json:"vendor_source"`
	Property      string  `json:"property"`
	PropertyScore float64 `json:"property_score"`
	GLAccount     string  `json:"gl_account"`
	GLScore       float64 `json:"gl_score"`

	// Status is the final disposition: OK, ALERT, EXCEPTION, SKIP,
	// NETTED, DUPLICATE
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`

	Exported bool `json:"exported"`
}

// RunSummary holds the counters written when a run completes
type RunSummary struct {
	RowsIn          int     `json:"rows_in"`
	RowsSkipped     int     `json:"rows_skipped"`
	RowsExported    int     `json:"rows_exported"`
	Exceptions      int     `json:"exceptions"`
	Alerts          int     `json:"alerts"`
	NettedOut       int     `json:"netted_out"`
	DuplicatesFound int     `json:"duplicates_found"`
	StatementTotal  float64 `json:"statement_total"`
	ExportTotal     float64 `json:"export_total"`
	Balanced        bool    `json:"balanced"`
}

// ReconcileRun represents one reconcile run record
type ReconcileRun struct {
	ID          int64  `json:"id"`
	BatchID     string `json:"batch_id"`
	InputFile   string `json:"input_file"`
	CashAccount string `json:"cash_account"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	DryRun      bool   `json:"dry_run"`
	Status      string `json:"status"`

	RunSummary
}

// ExceptionRecord is one blocked transaction in the audit trail
type ExceptionRecord struct {
	ID            int64   `json:"id"`
	RunID         int64   `json:"run_id"`
	Date          string  `json:"date"`
	Merchant      string  `json:"merchant"`
	AccountHolder string  `json:"account_holder"`
	Amount        float64 `json:"amount"`
	Reason        string  `json:"reason"`
	LoggedAt      string  `json:"logged_at,omitempty"`
}

// ControlEntry marks one statement row as exported. Key is a stable
// fingerprint of (date, merchant, amount, occurrence)
type ControlEntry struct {
	Key   string `json:"key"`
	RunID int64  `json:"run_id"`
}

// Stats contains aggregate statistics across recent runs
type Stats struct {
	TotalTransactions int                    `json:"total_transactions"`
	ExportedCount     int                    `json:"exported_count"`
	ExceptionCount    int                    `json:"exception_count"`
	AlertCount        int                    `json:"alert_count"`
	SkippedCount      int                    `json:"skipped_count"`
	TotalAmount       float64                `json:"total_amount"`
	AverageAmount     float64                `json:"average_amount"`
	StatusStats       map[string]StatusStats `json:"status_stats"`
}

// StatusStats contains per-status statistics
type StatusStats struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}
