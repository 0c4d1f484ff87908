package reconcile

import (
	"log/slog"

	"github.com/rasgroup/appfolio-recon-backend/internal/domain/dedup"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/netting"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/resolver"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/validator"
	"github.com/rasgroup/appfolio-recon-backend/internal/export"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
	"github.com/rasgroup/appfolio-recon-backend/internal/ingest"
)

// Options holds reconcile run configuration
type Options struct {
	// StatementID identifies the statement batch (usually the input
	// filename); the cash account is resolved from it.
	StatementID string

	DryRun  bool
	Verbose bool

	NettingPolicy netting.Policy

	// DedupVendorKeys lists vendor keys run through balance-mode ledger
	// dedup (e.g. "ACE").
	DedupVendorKeys []string

	// BalanceTolerance is the acceptable statement-vs-export difference
	// in dollars.
	BalanceTolerance float64
}

// Row statuses beyond the validator's terminal states.
const (
	StatusNetted    = "NETTED"    // collapsed by an offsetting reversal
	StatusDuplicate = "DUPLICATE" // already booked (ledger or control history)
)

// Row is one statement transaction carried through the pipeline with
// its resolution results and final disposition.
type Row struct {
	Txn ingest.Transaction

	// Normalized is the merchant after vendor normalization; kept for
	// the audit record.
	Normalized string

	Vendor   resolver.Result
	Property resolver.Result
	GL       resolver.Result

	// GLAccount is the GL value after default substitution; never empty
	// for exported rows.
	GLAccount string

	// Status is the final disposition: OK, ALERT, EXCEPTION, SKIP,
	// NETTED, DUPLICATE.
	Status string
	Note   string

	Exported bool
}

// BalanceReport is the end-of-run money conservation check: every
// eligible dollar is either exported, netted out, or suppressed as a
// duplicate.
type BalanceReport struct {
	StatementTotal float64
	ExportTotal    float64
	NettedOut      float64
	Suppressed     float64
	Difference     float64
	Balanced       bool
}

// Result holds reconcile run results
type Result struct {
	RunID       int64
	BatchID     string
	CashAccount string

	Rows  []Row
	Bills []export.Bill

	Summary storage.RunSummary
	Report  BalanceReport
}

// Orchestrator runs the reconcile pipeline
type Orchestrator struct {
	resolver  *resolver.Resolver
	validator *validator.Validator
	deduper   *dedup.Deduper
	storage   storage.Repository
	logger    *slog.Logger
}

// NewOrchestrator creates a new reconcile orchestrator. storage may be
// nil for dry analysis runs without persistence.
func NewOrchestrator(
	res *resolver.Resolver,
	val *validator.Validator,
	ded *dedup.Deduper,
	repo storage.Repository,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		resolver:  res,
		validator: val,
		deduper:   ded,
		storage:   repo,
		logger:    logger,
	}
}
