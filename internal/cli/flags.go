package cli

import (
	"flag"
	"fmt"

	"github.com/rasgroup/appfolio-recon-backend/internal/application/reconcile"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/netting"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/config"
)

// ReconcileFlags are the flags for the reconcile command
type ReconcileFlags struct {
	ConfigPath string
	Statement  string
	Ledger     string
	Output     string
	Netting    string
	DryRun     bool
	Verbose    bool
}

// ParseReconcileFlags parses reconcile flags from the command line
func ParseReconcileFlags() ReconcileFlags {
	var flags ReconcileFlags
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file (falls back to env)")
	flag.StringVar(&flags.Statement, "statement", "", "Path to the statement CSV (required)")
	flag.StringVar(&flags.Ledger, "ledger", "", "Path to the vendor ledger CSV (overrides config)")
	flag.StringVar(&flags.Output, "out", "appfolio_bills.csv", "Path for the bulk-bill CSV")
	flag.StringVar(&flags.Netting, "netting", "", "Netting policy: drop-zero or positive-only (overrides config)")
	flag.BoolVar(&flags.DryRun, "dry-run", false, "Run without recording control history")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ToOptions converts flags plus config into reconcile options
func (f ReconcileFlags) ToOptions(cfg *config.Config) (reconcile.Options, error) {
	policyStr := cfg.Reconcile.NettingPolicy
	if f.Netting != "" {
		policyStr = f.Netting
	}
	policy, err := netting.ParsePolicy(policyStr)
	if err != nil {
		return reconcile.Options{}, fmt.Errorf("invalid netting policy: %w", err)
	}

	return reconcile.Options{
		StatementID:      f.Statement,
		DryRun:           f.DryRun,
		Verbose:          f.Verbose,
		NettingPolicy:    policy,
		DedupVendorKeys:  cfg.Reconcile.DedupVendorKeys,
		BalanceTolerance: cfg.Reconcile.BalanceTolerance,
	}, nil
}
