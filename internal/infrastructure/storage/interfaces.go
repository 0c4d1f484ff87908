package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	TransactionRepository
	RunRepository
	ExceptionRepository
	ControlRepository
	Close() error
}

// TransactionRepository handles per-transaction resolution records
type TransactionRepository interface {
	// SaveTransaction saves one resolved transaction row
	SaveTransaction(record *TransactionRecord) error

	// ListTransactions returns transactions matching the given filters with pagination
	ListTransactions(filters TransactionFilters) (*TransactionListResult, error)

	// GetStats returns aggregate statistics
	GetStats() (*Stats, error)
}

// TransactionFilters defines filters for listing transactions
type TransactionFilters struct {
	RunID     int64  // Filter by run (0 = all)
	Status    string // Filter by status (empty = all)
	Vendor    string // Substring match on resolved vendor (empty = all)
	Limit     int    // Max results (0 = default 50)
	Offset    int    // Pagination offset
	OrderDesc bool   // Sort newest first
}

// TransactionListResult contains paginated transaction results
type TransactionListResult struct {
	Transactions []*TransactionRecord `json:"transactions"`
	TotalCount   int                  `json:"total_count"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

// RunRepository handles reconcile run tracking
type RunRepository interface {
	// StartRun records the start of a reconcile run and returns the run ID
	StartRun(batchID, inputFile, cashAccount string, dryRun bool) (int64, error)

	// CompleteRun records the completion of a reconcile run
	CompleteRun(runID int64, summary RunSummary) error

	// ListRuns returns recent reconcile runs
	ListRuns(limit int) ([]ReconcileRun, error)

	// GetRun retrieves a reconcile run by ID
	GetRun(runID int64) (*ReconcileRun, error)
}

// ExceptionRepository handles the exception audit trail
type ExceptionRepository interface {
	// LogException records a blocked transaction for later review
	LogException(record *ExceptionRecord) error

	// ListExceptions retrieves the exceptions logged for a run (0 = all runs)
	ListExceptions(runID int64) ([]ExceptionRecord, error)
}

// ControlRepository tracks which statement rows have already been
// exported, so re-running a statement never books the same charge twice
type ControlRepository interface {
	// RecordControl marks a control key as exported
	RecordControl(entry *ControlEntry) error

	// SeenControl checks whether a control key was exported by a prior run
	SeenControl(key string) bool
}
