package cli

import (
	"fmt"
	"strings"

	"github.com/rasgroup/appfolio-recon-backend/internal/application/reconcile"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
)

// PrintHeader prints the application header
func PrintHeader(statement string, dryRun bool) {
	mode := "PRODUCTION"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Printf("appfolio-recon: %s (%s mode)\n", statement, mode)
}

// PrintConfiguration prints the run configuration
func PrintConfiguration(cashAccount, nettingPolicy string, dedupVendors []string) {
	fmt.Printf("Cash account: %s | Netting: %s", cashAccount, nettingPolicy)
	if len(dedupVendors) > 0 {
		fmt.Printf(" | Ledger dedup: %s", strings.Join(dedupVendors, ", "))
	}
	fmt.Print("\n\n")
}

// PrintRunSummary prints the reconcile result summary
func PrintRunSummary(result *reconcile.Result, store *storage.Storage, dryRun bool) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: In=%d Exported=%d Skipped=%d Exceptions=%d Alerts=%d Netted=%d Duplicates=%d\n",
		result.Summary.RowsIn,
		result.Summary.RowsExported,
		result.Summary.RowsSkipped,
		result.Summary.Exceptions,
		result.Summary.Alerts,
		result.Summary.NettedOut,
		result.Summary.DuplicatesFound)

	fmt.Printf("Balance: statement=$%.2f export=$%.2f netted=$%.2f suppressed=$%.2f\n",
		result.Report.StatementTotal,
		result.Report.ExportTotal,
		result.Report.NettedOut,
		result.Report.Suppressed)
	if result.Report.Balanced {
		fmt.Println("Batch balances within tolerance.")
	} else {
		fmt.Printf("WARNING: batch out of balance by $%.2f\n", result.Report.Difference)
	}

	// Surface blocked rows so they get fixed before the next run
	exceptions := 0
	for i := range result.Rows {
		if result.Rows[i].Status == "EXCEPTION" {
			if exceptions == 0 {
				fmt.Println("\nExceptions:")
			}
			exceptions++
			fmt.Printf("  - %s %s $%.2f: %s\n",
				result.Rows[i].Txn.Date,
				result.Rows[i].Txn.Merchant,
				result.Rows[i].Txn.Amount,
				result.Rows[i].Note)
		}
	}

	// All-time stats from the history database
	if store != nil {
		stats, _ := store.GetStats()
		if stats != nil && stats.TotalTransactions > 0 {
			fmt.Printf("\nAll-Time Stats: Rows=%d Exported=%d Exceptions=%d Amount=$%.2f\n",
				stats.TotalTransactions,
				stats.ExportedCount,
				stats.ExceptionCount,
				stats.TotalAmount)
		}
	}

	if !dryRun && result.Summary.RowsExported > 0 {
		fmt.Println("\nReconcile completed successfully.")
	}
}
