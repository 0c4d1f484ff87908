package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rasgroup/appfolio-recon-backend/internal/application/reconcile"
	"github.com/rasgroup/appfolio-recon-backend/internal/cli"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/catalog"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/dedup"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/normalize"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/resolver"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/validator"
	"github.com/rasgroup/appfolio-recon-backend/internal/export"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/config"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/logging"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
	"github.com/rasgroup/appfolio-recon-backend/internal/ingest"
)

func main() {
	flags := cli.ParseReconcileFlags()

	if flags.Statement == "" {
		fmt.Fprintln(os.Stderr, "error: -statement is required")
		os.Exit(1)
	}

	// Setup logging
	cfg := loadConfig(flags.ConfigPath)
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "reconcile")

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// Load the reference data the resolver matches against
	table, err := ingest.LoadRules(cfg.Inputs.RulesPath)
	if err != nil {
		logger.Error("Failed to load mapping rules", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalogs, err := loadCatalogs(cfg)
	if err != nil {
		logger.Error("Failed to load catalogs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Read the statement batch
	statementFile, err := os.Open(flags.Statement)
	if err != nil {
		logger.Error("Failed to open statement", slog.String("error", err.Error()))
		os.Exit(1)
	}
	txns, err := ingest.ReadStatement(statementFile, flags.Statement)
	statementFile.Close()
	if err != nil {
		logger.Error("Failed to read statement", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ledger is optional; without it ledger dedup is a no-op
	var ledger []dedup.LedgerEntry
	ledgerPath := flags.Ledger
	if ledgerPath == "" {
		ledgerPath = cfg.Inputs.LedgerPath
	}
	if ledgerPath != "" {
		ledger, err = ingest.LoadLedger(ledgerPath)
		if err != nil {
			logger.Error("Failed to load ledger", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Assemble the pipeline
	resolverCfg := resolver.DefaultConfig()
	resolverCfg.VendorCutoff = cfg.Resolver.VendorCutoff
	resolverCfg.PropertyCutoff = cfg.Resolver.PropertyCutoff
	resolverCfg.GLCutoff = cfg.Resolver.GLCutoff
	resolverCfg.DefaultGLAccount = cfg.Resolver.DefaultGLAccount

	res := resolver.New(resolverCfg, table, catalogs,
		normalize.NewVendorNormalizer(normalize.DefaultVendorConfig()))
	orch := reconcile.NewOrchestrator(res, validator.New(cfg.Validator),
		dedup.New(cfg.Dedup), store, logger)

	opts, err := flags.ToOptions(cfg)
	if err != nil {
		logger.Error("Invalid options", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.PrintHeader(flags.Statement, opts.DryRun)

	result, err := orch.Run(context.Background(), txns, ledger, opts)
	if err != nil {
		logger.Error("Reconcile failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.PrintConfiguration(result.CashAccount, string(opts.NettingPolicy), opts.DedupVendorKeys)

	// Write the bulk-bill upload
	outFile, err := os.Create(flags.Output)
	if err != nil {
		logger.Error("Failed to create output file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := export.WriteBulkBills(outFile, result.Bills); err != nil {
		outFile.Close()
		logger.Error("Failed to write bills", slog.String("error", err.Error()))
		os.Exit(1)
	}
	outFile.Close()

	fmt.Printf("Wrote %d bills to %s\n", len(result.Bills), flags.Output)
	cli.PrintRunSummary(result, store, opts.DryRun)
}

func loadConfig(path string) *config.Config {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to load config %s: %v\n", path, err)
			os.Exit(1)
		}
		return cfg
	}
	return config.LoadOrEnv()
}

func loadCatalogs(cfg *config.Config) (catalog.Set, error) {
	vendors, err := ingest.LoadVendorDirectory(cfg.Inputs.VendorsPath)
	if err != nil {
		return catalog.Set{}, fmt.Errorf("vendors: %w", err)
	}
	properties, err := ingest.LoadPropertyDirectory(cfg.Inputs.PropertiesPath)
	if err != nil {
		return catalog.Set{}, fmt.Errorf("properties: %w", err)
	}
	glAccounts, err := ingest.LoadGLAccounts(cfg.Inputs.GLAccountsPath)
	if err != nil {
		return catalog.Set{}, fmt.Errorf("gl accounts: %w", err)
	}
	vendorGL, err := ingest.LoadVendorGLMap(cfg.Inputs.VendorGLMapPath)
	if err != nil {
		return catalog.Set{}, fmt.Errorf("vendor gl map: %w", err)
	}

	return catalog.Set{
		Vendors:    vendors,
		Properties: properties,
		GLAccounts: glAccounts,
		VendorGL:   vendorGL,
	}, nil
}
