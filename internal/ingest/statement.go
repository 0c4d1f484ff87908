// Package ingest reads the external CSV inputs of a reconcile run:
// card statements, the reference directories, the vendor ledger, and
// the curated mapping-rule file.
//
// Statement exports differ by issuer. Header names are mapped to a
// canonical schema (Description/Merchant, Debit/Amount/Charge, ...) so
// the pipeline never sees issuer-specific columns. Amounts arrive as
// display strings ("$1,234.56", "(45.00)") and are parsed to signed
// floats.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Transaction is one canonical statement row.
type Transaction struct {
	Date          string // YYYY-MM-DD when parseable, else as-is
	Merchant      string
	AccountHolder string
	Company       string
	GLHint        string
	Amount        float64

	// Occurrence distinguishes legitimate repeat charges: the Nth
	// identical (date, merchant, amount, holder) row in one file gets
	// occurrence N. It keeps the control key unique without dropping
	// real duplicates.
	Occurrence int

	SourceFile string
}

// ControlKey is the stable fingerprint used by control history to stop
// a re-uploaded statement from exporting the same charge twice.
func (t Transaction) ControlKey() string {
	return fmt.Sprintf("%s|%s|%.2f|%s|%d",
		t.Date, strings.TrimSpace(t.Merchant), t.Amount,
		strings.ToUpper(strings.TrimSpace(t.AccountHolder)), t.Occurrence)
}

// headerAliases maps issuer-specific column names to canonical fields.
var headerAliases = map[string]string{
	"description": "merchant",
	"merchant":    "merchant",
	"debit":       "amount", // Citi
	"amount":      "amount", // Amex
	"charge":      "amount", // Amex variant
	"date":        "date",
	"account":     "account_holder",
	"card member": "account_holder",
	"company":     "company",
	"gl":          "gl_hint",
	"gl account":  "gl_hint",
}

// ReadStatement parses one statement CSV into canonical transactions.
// The file must contain a merchant column; every other column is
// optional. Rows with an unparseable amount are returned as an error
// naming the line, since a silently dropped charge breaks the balance
// report downstream.
func ReadStatement(r io.Reader, sourceFile string) ([]Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read statement header: %w", err)
	}

	cols := make(map[string]int)
	for i, name := range header {
		canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(stripBOM(name)))]
		if !ok {
			continue
		}
		if _, taken := cols[canonical]; !taken {
			cols[canonical] = i
		}
	}
	if _, ok := cols["merchant"]; !ok {
		return nil, fmt.Errorf("statement %s has no Description or Merchant column", sourceFile)
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var txns []Transaction
	occurrences := make(map[string]int)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read statement line %d: %w", line, err)
		}

		merchant := field(record, "merchant")
		if merchant == "" {
			continue
		}

		amount := 0.0
		if raw := field(record, "amount"); raw != "" {
			amount, err = ParseAmount(raw)
			if err != nil {
				return nil, fmt.Errorf("statement line %d: %w", line, err)
			}
		}

		txn := Transaction{
			Date:          normalizeDate(field(record, "date")),
			Merchant:      merchant,
			AccountHolder: field(record, "account_holder"),
			Company:       field(record, "company"),
			GLHint:        field(record, "gl_hint"),
			Amount:        amount,
			SourceFile:    sourceFile,
		}

		dupKey := fmt.Sprintf("%s|%s|%.2f|%s", txn.Date, txn.Merchant, txn.Amount, txn.AccountHolder)
		occurrences[dupKey]++
		txn.Occurrence = occurrences[dupKey]

		txns = append(txns, txn)
	}

	return txns, nil
}

// ParseAmount converts a statement amount string to a signed float.
// Handles currency symbols, thousands separators, and accounting-style
// parentheses for negatives.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount %q", s)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", s)
	}
	if negative {
		value = -value
	}
	return value, nil
}

// statementDateLayouts lists the date formats seen in issuer exports.
var statementDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006-01-02 15:04:05",
}

// normalizeDate converts a statement date to YYYY-MM-DD. Unrecognized
// formats pass through unchanged rather than zeroing the date.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range statementDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// stripBOM removes the UTF-8 byte order mark some exports prepend to
// the first header cell.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
