package reconcile

import (
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/validator"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
)

// startRun opens the run record. With no storage configured the
// pipeline still runs; it just leaves no audit trail.
func (o *Orchestrator) startRun(result *Result, opts Options) (int64, error) {
	if o.storage == nil {
		return 0, nil
	}
	return o.storage.StartRun(result.BatchID, opts.StatementID, result.CashAccount, opts.DryRun)
}

// recordRun persists the per-row records, the exception audit trail,
// the control history, and the run completion. Save failures are logged
// and skipped rather than aborting: the run already happened, and a
// partial audit trail beats none.
func (o *Orchestrator) recordRun(result *Result, opts Options) {
	if o.storage == nil {
		return
	}

	for i := range result.Rows {
		row := &result.Rows[i]

		record := &storage.TransactionRecord{
			RunID:         result.RunID,
			Date:          row.Txn.Date,
			Merchant:      row.Txn.Merchant,
			Normalized:    row.Normalized,
			AccountHolder: row.Txn.AccountHolder,
			Amount:        row.Txn.Amount,
			Vendor:        row.Vendor.Value,
			VendorScore:   row.Vendor.Score,
			VendorSource:  string(row.Vendor.Source),
			Property:      row.Property.Value,
			PropertyScore: row.Property.Score,
			GLAccount:     row.GLAccount,
			GLScore:       row.GL.Score,
			Status:        row.Status,
			Note:          row.Note,
			Exported:      row.Exported,
		}
		if err := o.storage.SaveTransaction(record); err != nil {
			o.logger.Error("Failed to save transaction record",
				"merchant", row.Txn.Merchant, "error", err)
		}

		if row.Status == string(validator.StatusException) {
			exc := &storage.ExceptionRecord{
				RunID:         result.RunID,
				Date:          row.Txn.Date,
				Merchant:      row.Txn.Merchant,
				AccountHolder: row.Txn.AccountHolder,
				Amount:        row.Txn.Amount,
				Reason:        row.Note,
			}
			if err := o.storage.LogException(exc); err != nil {
				o.logger.Error("Failed to log exception",
					"merchant", row.Txn.Merchant, "error", err)
			}
		}

		// Control history only advances on real exports; a dry run must
		// leave the next run free to export the same rows.
		if row.Exported && !opts.DryRun {
			entry := &storage.ControlEntry{
				Key:   row.Txn.ControlKey(),
				RunID: result.RunID,
			}
			if err := o.storage.RecordControl(entry); err != nil {
				o.logger.Error("Failed to record control entry",
					"key", entry.Key, "error", err)
			}
		}
	}

	if err := o.storage.CompleteRun(result.RunID, result.Summary); err != nil {
		o.logger.Error("Failed to complete run record",
			"run_id", result.RunID, "error", err)
	}
}
