// Package export writes the AppFolio bulk-bill upload file.
//
// The column set and order is fixed by AppFolio's bulk importer;
// starred headers are mandatory there. Date columns are left empty on
// purpose: the importer fills them from the upload session.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Bill is one row of the bulk-bill upload.
type Bill struct {
	PropertyCode string
	VendorName   string
	Amount       float64
	GLAccount    string
	CashAccount  string
	Description  string
}

// Columns is the AppFolio bulk importer header, in upload order.
var Columns = []string{
	"Bill Property Code*",
	"Vendor Payee Name*",
	"Amount*",
	"Bill Account*",
	"Description",
	"Bill Date*",
	"Due Date*",
	"Posting Date*",
	"Bill Reference",
	"Bill Remarks",
	"Memo For Check",
	"Purchase Order Number",
	"Cash Account",
}

// DescriptionFor derives the bill description from the cash account,
// so an Amex batch reads "Amex Payment" in the ledger.
func DescriptionFor(cashAccount string) string {
	lower := strings.ToLower(cashAccount)
	switch {
	case strings.Contains(lower, "amex"):
		return "Amex Payment"
	case strings.Contains(lower, "mastercard"):
		return "Mastercard Payment"
	case strings.Contains(lower, "bank of america"), strings.Contains(lower, "boa"):
		return "Bank of America Payment"
	case strings.Contains(lower, "chase"):
		return "Chase Payment"
	default:
		return "Payment"
	}
}

// WriteBulkBills writes the upload CSV. The output starts with a UTF-8
// BOM because AppFolio's importer expects Excel-flavored CSV.
func WriteBulkBills(w io.Writer, bills []Bill) error {
	if _, err := w.Write([]byte("\xef\xbb\xbf")); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	for _, bill := range bills {
		record := []string{
			bill.PropertyCode,
			bill.VendorName,
			fmt.Sprintf("%.2f", bill.Amount),
			bill.GLAccount,
			bill.Description,
			"", // Bill Date*
			"", // Due Date*
			"", // Posting Date*
			"", // Bill Reference
			"", // Bill Remarks
			"", // Memo For Check
			"", // Purchase Order Number
			bill.CashAccount,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
