package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// RunResponse represents a reconcile run in API responses.
type RunResponse struct {
	ID              int64   `json:"id"`
	BatchID         string  `json:"batch_id"`
	InputFile       string  `json:"input_file"`
	CashAccount     string  `json:"cash_account"`
	StartedAt       string  `json:"started_at"`
	CompletedAt     string  `json:"completed_at,omitempty"`
	DryRun          bool    `json:"dry_run"`
	Status          string  `json:"status"`
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

// RunListResponse is returned when listing reconcile runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// TransactionResponse represents one resolved statement row.
type TransactionResponse struct {
	ID            int64   `json:"id"`
	RunID         int64   `json:"run_id"`
	Date          string  `json:"date"`
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
	Status        string  `json:"status"`
	Note          string  `json:"note,omitempty"`
	Exported      bool    `json:"exported"`
}

// TransactionListResponse is returned when listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalCount   int                   `json:"total_count"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ExceptionResponse represents one blocked transaction in the audit trail.
type ExceptionResponse struct {
	ID            int64   `json:"id"`
	RunID         int64   `json:"run_id"`
	Date          string  `json:"date"`
	Merchant      string  `json:"merchant"`
	AccountHolder string  `json:"account_holder"`
	Amount        float64 `json:"amount"`
	Reason        string  `json:"reason"`
	LoggedAt      string  `json:"logged_at,omitempty"`
}

// ExceptionListResponse is returned when listing exceptions.
type ExceptionListResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
	Count      int                 `json:"count"`
}

// StatusStatsResponse is the per-status slice of the stats endpoint.
type StatusStatsResponse struct {
	Status      string  `json:"status"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	TotalTransactions int                   `json:"total_transactions"`
	ExportedCount     int                   `json:"exported_count"`
	ExceptionCount    int                   `json:"exception_count"`
	AlertCount        int                   `json:"alert_count"`
	SkippedCount      int                   `json:"skipped_count"`
	TotalAmount       float64               `json:"total_amount"`
	AverageAmount     float64               `json:"average_amount"`
	StatusStats       []StatusStatsResponse `json:"status_stats"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
