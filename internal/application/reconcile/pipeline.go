package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rasgroup/appfolio-recon-backend/internal/domain/dedup"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/netting"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/validator"
	"github.com/rasgroup/appfolio-recon-backend/internal/export"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
	"github.com/rasgroup/appfolio-recon-backend/internal/ingest"
)

// Run executes the full reconcile pipeline over one statement batch:
// eligibility filter, business validation, identity resolution, control
// dedup, ledger dedup, netting, and bill building, finishing with the
// balance report. Blocked and suppressed rows are retained in the
// result with their disposition; nothing is silently dropped.
func (o *Orchestrator) Run(ctx context.Context, txns []ingest.Transaction, ledger []dedup.LedgerEntry, opts Options) (*Result, error) {
	cashAccount := o.resolver.ResolveCashAccount(opts.StatementID)
	if cashAccount == "" {
		// No cash account means the whole batch would post against
		// nothing; reject rather than guess.
		return nil, fmt.Errorf("no cash account resolves for statement %q", opts.StatementID)
	}

	result := &Result{
		BatchID:     uuid.New().String(),
		CashAccount: cashAccount,
	}

	o.logger.Info("Starting reconcile run",
		"batch_id", result.BatchID,
		"statement", opts.StatementID,
		"cash_account", cashAccount,
		"transactions", len(txns),
		"dry_run", opts.DryRun,
	)

	runID, err := o.startRun(result, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	result.RunID = runID

	// Phase 1: per-row eligibility, validation, and resolution.
	result.Rows = make([]Row, len(txns))
	for i, txn := range txns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Rows[i] = o.processRow(txn)
	}

	// Phase 2: control history; a row exported by a prior run never
	// exports again.
	for i := range result.Rows {
		row := &result.Rows[i]
		if !active(row.Status) {
			continue
		}
		if o.storage != nil && o.storage.SeenControl(row.Txn.ControlKey()) {
			row.Status = StatusDuplicate
			row.Note = "already exported by a prior run"
		}
	}

	// Phase 3: ledger dedup for the configured vendors.
	o.suppressLedgerDuplicates(result, ledger, opts)

	// Phase 4: netting over the surviving rows.
	bills, nettedOut := o.netAndBuildBills(result, opts)
	result.Bills = bills

	// Phase 5: balance report and persistence.
	result.Report = o.balanceReport(result, nettedOut, opts)
	result.Summary = o.summarize(result)

	o.recordRun(result, opts)

	o.logger.Info("Reconcile run complete",
		"batch_id", result.BatchID,
		"exported", result.Summary.RowsExported,
		"exceptions", result.Summary.Exceptions,
		"alerts", result.Summary.Alerts,
		"balanced", result.Report.Balanced,
	)

	return result, nil
}

// active reports whether a row is still headed for export.
func active(status string) bool {
	return status == string(validator.StatusOK) || status == string(validator.StatusAlert)
}

// processRow runs eligibility, validation, and resolution for one
// transaction. Resolution panics are contained to the row: a single
// malformed merchant string must not abort a thousand-row batch.
func (o *Orchestrator) processRow(txn ingest.Transaction) (row Row) {
	row = Row{Txn: txn}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Row resolution panicked",
				"merchant", txn.Merchant, "panic", fmt.Sprint(r))
			row.Status = string(validator.StatusException)
			row.Note = fmt.Sprintf("resolution failure: %v", r)
		}
	}()

	in := validator.Input{
		AccountHolder: txn.AccountHolder,
		Company:       txn.Company,
		GLHint:        txn.GLHint,
	}

	if !o.validator.Eligible(in) {
		row.Status = string(validator.StatusSkip)
		row.Note = "ineligible account holder / company"
		return row
	}

	verdict := o.validator.Validate(in)
	row.Status = string(verdict.Status)
	row.Note = verdict.Note

	row.Normalized = o.resolver.NormalizeMerchant(txn.Merchant)
	row.Vendor = o.resolver.ResolveVendor(txn.Merchant)
	row.Property = o.resolver.ResolveProperty(txn.Company, txn.Merchant)
	row.GL = o.resolver.ResolveGL(txn.Merchant, row.Vendor)
	row.GLAccount = o.resolver.GLOrDefault(row.GL)

	return row
}

// suppressLedgerDuplicates marks statement rows already entered by hand
// in the vendor ledger. Balance mode per configured vendor key.
func (o *Orchestrator) suppressLedgerDuplicates(result *Result, ledger []dedup.LedgerEntry, opts Options) {
	if len(ledger) == 0 || o.deduper == nil {
		return
	}

	for _, vendorKey := range opts.DedupVendorKeys {
		var candidates []dedup.Candidate
		var indices []int
		for i := range result.Rows {
			row := &result.Rows[i]
			if !active(row.Status) {
				continue
			}
			candidates = append(candidates, dedup.Candidate{
				Date:   row.Txn.Date,
				Vendor: row.Vendor.Value,
				Amount: row.Txn.Amount,
			})
			indices = append(indices, i)
		}

		balance := o.deduper.DedupeByBalance(ledger, candidates, vendorKey)
		for _, ci := range balance.Duplicates {
			row := &result.Rows[indices[ci]]
			row.Status = StatusDuplicate
			row.Note = fmt.Sprintf("covered by %s ledger balance", vendorKey)
		}

		if len(balance.Duplicates) > 0 {
			o.logger.Info("Ledger dedup suppressed charges",
				"vendor_key", vendorKey,
				"count", len(balance.Duplicates),
				"suppressed", balance.Suppressed,
				"ledger_total", balance.LedgerTotal,
			)
		}
	}
}

// netAndBuildBills nets offsetting rows and builds one bill per
// surviving group. Returns the bills and the total netted out of the
// batch (signed).
func (o *Orchestrator) netAndBuildBills(result *Result, opts Options) ([]export.Bill, float64) {
	var nettingRows []netting.Row
	var indices []int
	for i := range result.Rows {
		row := &result.Rows[i]
		if !active(row.Status) {
			continue
		}
		nettingRows = append(nettingRows, netting.Row{
			Date:     parseRowDate(row.Txn.Date),
			Merchant: row.Txn.Merchant,
			Vendor:   row.Vendor.Value,
			Property: row.Property.Value,
			Status:   row.Status,
			Amount:   row.Txn.Amount,
		})
		indices = append(indices, i)
	}

	netted := netting.Net(nettingRows, opts.NettingPolicy)

	nettedOut := decimal.Zero
	for _, group := range netted.Dropped {
		nettedOut = nettedOut.Add(decimal.NewFromFloat(group.Net))
		for _, ri := range group.Rows {
			row := &result.Rows[indices[ri]]
			row.Status = StatusNetted
			row.Note = "offset within batch"
		}
	}

	description := export.DescriptionFor(result.CashAccount)
	bills := make([]export.Bill, 0, len(netted.Kept))
	for _, group := range netted.Kept {
		first := &result.Rows[indices[group.Rows[0]]]
		bills = append(bills, export.Bill{
			PropertyCode: first.Property.Value,
			VendorName:   first.Vendor.Value,
			Amount:       group.Net,
			GLAccount:    first.GLAccount,
			CashAccount:  result.CashAccount,
			Description:  description,
		})
		for _, ri := range group.Rows {
			result.Rows[indices[ri]].Exported = true
		}
	}

	return bills, nettedOut.Round(2).InexactFloat64()
}

// balanceReport checks money conservation: eligible statement dollars
// must equal export + netted + suppressed within tolerance.
func (o *Orchestrator) balanceReport(result *Result, nettedOut float64, opts Options) BalanceReport {
	statement := decimal.Zero
	suppressed := decimal.Zero
	for i := range result.Rows {
		row := &result.Rows[i]
		switch row.Status {
		case string(validator.StatusOK), string(validator.StatusAlert), StatusNetted:
			statement = statement.Add(decimal.NewFromFloat(row.Txn.Amount))
		case StatusDuplicate:
			statement = statement.Add(decimal.NewFromFloat(row.Txn.Amount))
			suppressed = suppressed.Add(decimal.NewFromFloat(row.Txn.Amount))
		}
	}

	exportTotal := decimal.Zero
	for _, bill := range result.Bills {
		exportTotal = exportTotal.Add(decimal.NewFromFloat(bill.Amount))
	}

	report := BalanceReport{
		StatementTotal: statement.Round(2).InexactFloat64(),
		ExportTotal:    exportTotal.Round(2).InexactFloat64(),
		NettedOut:      nettedOut,
		Suppressed:     suppressed.Round(2).InexactFloat64(),
	}

	check := validator.ValidateBalance(report.StatementTotal, report.ExportTotal,
		report.NettedOut, report.Suppressed, opts.BalanceTolerance)
	report.Difference = check.Difference
	report.Balanced = check.Valid

	if !report.Balanced {
		o.logger.Warn("Reconcile batch out of balance",
			"statement_total", report.StatementTotal,
			"export_total", report.ExportTotal,
			"netted_out", report.NettedOut,
			"suppressed", report.Suppressed,
			"reason", check.Reason,
		)
	}

	return report
}

// summarize tallies the run counters from final row dispositions.
func (o *Orchestrator) summarize(result *Result) (s storage.RunSummary) {
	s.RowsIn = len(result.Rows)
	for i := range result.Rows {
		switch result.Rows[i].Status {
		case string(validator.StatusSkip):
			s.RowsSkipped++
		case string(validator.StatusException):
			s.Exceptions++
		case string(validator.StatusAlert):
			s.Alerts++
		case StatusNetted:
			s.NettedOut++
		case StatusDuplicate:
			s.DuplicatesFound++
		}
	}
	s.RowsExported = len(result.Bills)
	s.StatementTotal = result.Report.StatementTotal
	s.ExportTotal = result.Report.ExportTotal
	s.Balanced = result.Report.Balanced
	return s
}

// parseRowDate converts a canonical YYYY-MM-DD string to a time for
// netting's group key; malformed dates group under the zero time
// rather than failing the batch.
func parseRowDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
