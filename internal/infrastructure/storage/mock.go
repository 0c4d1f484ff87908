package storage

import "strings"

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	transactions []*TransactionRecord
	runs         map[int64]*ReconcileRun
	exceptions   []ExceptionRecord
	controls     map[string]int64
	nextRunID    int64
	nextTxID     int64

	// Hooks for test assertions
	SaveTransactionCalled bool
	LastSavedTransaction  *TransactionRecord
	StartRunCalled        bool
	LogExceptionCalled    bool
	RecordControlCalled   bool

	// Error injection for testing error paths
	SaveTransactionErr error
	StartRunErr        error
	CompleteRunErr     error
	LogExceptionErr    error
	RecordControlErr   error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:      make(map[int64]*ReconcileRun),
		controls:  make(map[string]int64),
		nextRunID: 1,
		nextTxID:  1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveTransaction saves a transaction to the in-memory slice
func (m *MockRepository) SaveTransaction(record *TransactionRecord) error {
	m.SaveTransactionCalled = true
	m.LastSavedTransaction = record
	if m.SaveTransactionErr != nil {
		return m.SaveTransactionErr
	}
	record.ID = m.nextTxID
	m.nextTxID++
	// Copy to avoid test mutations
	copied := *record
	m.transactions = append(m.transactions, &copied)
	return nil
}

// ListTransactions returns transactions matching the given filters
func (m *MockRepository) ListTransactions(filters TransactionFilters) (*TransactionListResult, error) {
	var matching []*TransactionRecord
	for _, r := range m.transactions {
		if filters.RunID != 0 && r.RunID != filters.RunID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.Vendor != "" && !strings.Contains(r.Vendor, filters.Vendor) {
			continue
		}
		matching = append(matching, r)
	}

	limit := filters.Limit
	if limit == 0 {
		limit = 50
	}

	total := len(matching)
	start := filters.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &TransactionListResult{
		Transactions: matching[start:end],
		TotalCount:   total,
		Limit:        limit,
		Offset:       filters.Offset,
	}, nil
}

// GetStats returns mock statistics
func (m *MockRepository) GetStats() (*Stats, error) {
	stats := &Stats{
		StatusStats: make(map[string]StatusStats),
	}

	for _, r := range m.transactions {
		stats.TotalTransactions++
		stats.TotalAmount += r.Amount
		if r.Exported {
			stats.ExportedCount++
		}

		switch r.Status {
		case "EXCEPTION":
			stats.ExceptionCount++
		case "ALERT":
			stats.AlertCount++
		case "SKIP":
			stats.SkippedCount++
		}

		ss := stats.StatusStats[r.Status]
		ss.Count++
		ss.TotalAmount += r.Amount
		stats.StatusStats[r.Status] = ss
	}

	if stats.TotalTransactions > 0 {
		stats.AverageAmount = stats.TotalAmount / float64(stats.TotalTransactions)
	}

	return stats, nil
}

// StartRun creates a new reconcile run and returns its ID
func (m *MockRepository) StartRun(batchID, inputFile, cashAccount string, dryRun bool) (int64, error) {
	m.StartRunCalled = true
	if m.StartRunErr != nil {
		return 0, m.StartRunErr
	}

	id := m.nextRunID
	m.nextRunID++

	m.runs[id] = &ReconcileRun{
		ID:          id,
		BatchID:     batchID,
		InputFile:   inputFile,
		CashAccount: cashAccount,
		DryRun:      dryRun,
		Status:      "running",
	}

	return id, nil
}

// CompleteRun marks a reconcile run as complete
func (m *MockRepository) CompleteRun(runID int64, summary RunSummary) error {
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}

	run, ok := m.runs[runID]
	if !ok {
		return nil
	}

	run.RunSummary = summary
	run.Status = "completed"
	if summary.Exceptions > 0 {
		run.Status = "completed_with_exceptions"
	}

	return nil
}

// ListRuns returns recent reconcile runs
func (m *MockRepository) ListRuns(limit int) ([]ReconcileRun, error) {
	if limit == 0 {
		limit = 20
	}

	var runs []ReconcileRun
	for id := m.nextRunID - 1; id >= 1; id-- {
		if r, ok := m.runs[id]; ok {
			runs = append(runs, *r)
			if len(runs) >= limit {
				break
			}
		}
	}
	return runs, nil
}

// GetRun retrieves a reconcile run by ID
func (m *MockRepository) GetRun(runID int64) (*ReconcileRun, error) {
	r, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

// LogException records a blocked transaction
func (m *MockRepository) LogException(record *ExceptionRecord) error {
	m.LogExceptionCalled = true
	if m.LogExceptionErr != nil {
		return m.LogExceptionErr
	}
	record.ID = int64(len(m.exceptions) + 1)
	m.exceptions = append(m.exceptions, *record)
	return nil
}

// ListExceptions retrieves exceptions for a run; runID 0 returns all
func (m *MockRepository) ListExceptions(runID int64) ([]ExceptionRecord, error) {
	var result []ExceptionRecord
	for _, e := range m.exceptions {
		if runID != 0 && e.RunID != runID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// RecordControl marks a control key as exported
func (m *MockRepository) RecordControl(entry *ControlEntry) error {
	m.RecordControlCalled = true
	if m.RecordControlErr != nil {
		return m.RecordControlErr
	}
	if _, exists := m.controls[entry.Key]; !exists {
		m.controls[entry.Key] = entry.RunID
	}
	return nil
}

// SeenControl checks whether a control key was recorded
func (m *MockRepository) SeenControl(key string) bool {
	_, ok := m.controls[key]
	return ok
}

// Helper methods for test setup

// AddTransaction adds a transaction directly (for test setup)
func (m *MockRepository) AddTransaction(record *TransactionRecord) {
	m.transactions = append(m.transactions, record)
}

// GetAllTransactions returns all stored transactions (for assertions)
func (m *MockRepository) GetAllTransactions() []*TransactionRecord {
	return m.transactions
}

// Reset clears all data and flags (for reuse between tests)
func (m *MockRepository) Reset() {
	m.transactions = nil
	m.runs = make(map[int64]*ReconcileRun)
	m.exceptions = nil
	m.controls = make(map[string]int64)
	m.nextRunID = 1
	m.nextTxID = 1
	m.SaveTransactionCalled = false
	m.LastSavedTransaction = nil
	m.StartRunCalled = false
	m.LogExceptionCalled = false
	m.RecordControlCalled = false
	m.SaveTransactionErr = nil
	m.StartRunErr = nil
	m.CompleteRunErr = nil
	m.LogExceptionErr = nil
	m.RecordControlErr = nil
}
