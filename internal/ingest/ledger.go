package ingest

import (
	"math"
	"os"
	"regexp"
	"strconv"

	"github.com/rasgroup/appfolio-recon-backend/internal/domain/dedup"
)

var currencyJunkRe = regexp.MustCompile(`[^\d.\-]`)

// cleanCurrency parses a ledger money cell, tolerating symbols and
// separators. Unparseable cells become 0 rather than failing the load;
// the ledger export mixes money columns with free-text subtotal rows.
func cleanCurrency(s string) float64 {
	cleaned := currencyJunkRe.ReplaceAllString(s, "")
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return math.Round(value*100) / 100
}

// LoadLedger reads a vendor ledger export into dedup entries. Headers
// are matched case-insensitively; when no vendor column exists the
// first of payee, name, or vendor name stands in, falling back to the
// description.
func LoadLedger(path string) ([]dedup.LedgerEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cols, rows, err := csvRows(f, "vendor ledger")
	if err != nil {
		return nil, err
	}

	var entries []dedup.LedgerEntry
	for _, record := range rows {
		vendor := cell(record, cols, "vendor", "payee", "name", "vendor name")
		description := cell(record, cols, "description")
		if vendor == "" {
			vendor = description
		}
		if vendor == "" && description == "" {
			continue
		}

		entries = append(entries, dedup.LedgerEntry{
			BillDate:    normalizeDate(cell(record, cols, "bill date", "date")),
			Vendor:      vendor,
			Description: description,
			GLAccount:   cell(record, cols, "gl account", "gl_account", "account"),
			Amount:      cleanCurrency(cell(record, cols, "amount")),
			Unpaid:      cleanCurrency(cell(record, cols, "unpaid")),
		})
	}
	return entries, nil
}
