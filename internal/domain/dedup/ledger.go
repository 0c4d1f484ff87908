// Package dedup cross-references incoming statement transactions
// against ledger entries already recorded in the accounting system, so
// charges the bookkeeper entered by hand are not booked twice.
//
// Two modes exist. Balance mode treats the ledger's unpaid total for a
// vendor as the source of truth and greedily consumes candidates in
// date order until that balance is exhausted; it never suppresses more
// than the ledger backs. Window mode pairs each candidate to at most
// one unmatched ledger row within a date window and amount tolerance.
package dedup

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one row of the external vendor ledger.
type LedgerEntry struct {
	BillDate    string // YYYY-MM-DD; empty when unparseable
	Vendor      string
	Description string
	GLAccount   string
	Amount      float64
	Unpaid      float64
}

// Candidate is a statement transaction eligible for suppression.
type Candidate struct {
	Date   string // YYYY-MM-DD
	Vendor string
	Amount float64
}

// Config tunes both dedup modes.
type Config struct {
	// WindowDays is the ± pairing window for window mode.
	WindowDays int `yaml:"window_days"`

	// AmountTolerance is the absolute pairing tolerance in dollars.
	AmountTolerance float64 `yaml:"amount_tolerance"`

	// GLMarker also selects ledger rows for a vendor when the vendor
	// text itself doesn't match (e.g. "6435" for general repairs).
	GLMarker string `yaml:"gl_marker"`
}

// DefaultConfig mirrors the production run settings.
func DefaultConfig() Config {
	return Config{
		WindowDays:      2,
		AmountTolerance: 0.01,
		GLMarker:        "6435",
	}
}

// BalanceResult reports a balance-mode run.
type BalanceResult struct {
	// Duplicates holds indices into the candidate slice, in date order.
	Duplicates []int

	// LedgerTotal is the unpaid ledger balance found for the vendor.
	LedgerTotal float64

	// Suppressed is the summed amount of the marked duplicates; always
	// <= LedgerTotal + tolerance.
	Suppressed float64
}

// Deduper runs ledger deduplication.
type Deduper struct {
	cfg Config
}

// New builds a Deduper.
func New(cfg Config) *Deduper {
	return &Deduper{cfg: cfg}
}

// matchesVendor reports whether a ledger row belongs to vendorKey:
// uppercase-contains on the vendor or description, or the GL marker.
func (d *Deduper) matchesVendor(entry LedgerEntry, vendorKey string) bool {
	key := strings.ToUpper(vendorKey)
	if strings.Contains(strings.ToUpper(entry.Vendor), key) {
		return true
	}
	if strings.Contains(strings.ToUpper(entry.Description), key) {
		return true
	}
	return d.cfg.GLMarker != "" && strings.Contains(entry.GLAccount, d.cfg.GLMarker)
}

// UnpaidTotal sums the positive unpaid amounts of ledger rows matching
// vendorKey.
func (d *Deduper) UnpaidTotal(ledger []LedgerEntry, vendorKey string) float64 {
	sum := decimal.Zero
	for _, entry := range ledger {
		if entry.Unpaid <= 0 {
			continue
		}
		if d.matchesVendor(entry, vendorKey) {
			sum = sum.Add(decimal.NewFromFloat(entry.Unpaid))
		}
	}
	return sum.Round(2).InexactFloat64()
}

// remainderFloor: below one cent of remaining balance the walk stops.
const remainderFloor = 0.009

// DedupeByBalance marks candidates for vendorKey as duplicates until
// the ledger's unpaid balance is consumed. Candidates are walked in
// chronological order; a candidate is consumed only while its amount
// fits in the remaining balance (plus the cent tolerance), so the total
// suppressed never exceeds what the ledger records.
func (d *Deduper) DedupeByBalance(ledger []LedgerEntry, candidates []Candidate, vendorKey string) BalanceResult {
	result := BalanceResult{LedgerTotal: d.UnpaidTotal(ledger, vendorKey)}
	if result.LedgerTotal <= 0 {
		return result
	}

	key := strings.ToUpper(vendorKey)
	order := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if strings.Contains(strings.ToUpper(c.Vendor), key) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return candidates[order[a]].Date < candidates[order[b]].Date
	})

	remaining := result.LedgerTotal
	suppressed := decimal.Zero
	for _, idx := range order {
		if remaining <= remainderFloor {
			break
		}
		amount := candidates[idx].Amount
		if amount <= remaining+d.cfg.AmountTolerance {
			result.Duplicates = append(result.Duplicates, idx)
			remaining -= amount
			suppressed = suppressed.Add(decimal.NewFromFloat(amount))
		}
	}
	result.Suppressed = suppressed.Round(2).InexactFloat64()
	return result
}

// Pair is one window-mode match.
type Pair struct {
	CandidateIndex int
	LedgerIndex    int
}

// DedupeByWindow pairs each candidate with at most one unmatched ledger
// row whose bill date falls within ±WindowDays and whose amount is
// within AmountTolerance. First fit in date order; both sides are
// consumed on a match (one-to-one pairing).
func (d *Deduper) DedupeByWindow(ledger []LedgerEntry, candidates []Candidate, vendorKey string) []Pair {
	usedLedger := make(map[int]bool)
	var pairs []Pair

	order := make([]int, 0, len(candidates))
	key := strings.ToUpper(vendorKey)
	for i, c := range candidates {
		if strings.Contains(strings.ToUpper(c.Vendor), key) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return candidates[order[a]].Date < candidates[order[b]].Date
	})

	for _, ci := range order {
		c := candidates[ci]
		for li, entry := range ledger {
			if usedLedger[li] || !d.matchesVendor(entry, vendorKey) {
				continue
			}
			if entry.BillDate == "" || dayDiff(c.Date, entry.BillDate) > d.cfg.WindowDays {
				continue
			}
			if math.Abs(c.Amount-entry.Amount) > d.cfg.AmountTolerance {
				continue
			}
			usedLedger[li] = true
			pairs = append(pairs, Pair{CandidateIndex: ci, LedgerIndex: li})
			break
		}
	}
	return pairs
}

// dayDiff returns the absolute whole-day distance between two
// YYYY-MM-DD strings; lexical comparison is not enough because the
// window crosses month boundaries.
func dayDiff(a, b string) int {
	ta, errA := parseDay(a)
	tb, errB := parseDay(b)
	if errA != nil || errB != nil {
		return math.MaxInt32
	}
	diff := ta.Sub(tb).Hours() / 24
	return int(math.Abs(diff))
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
