package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aceLedger(unpaid float64) []LedgerEntry {
	return []LedgerEntry{
		{BillDate: "2025-12-01", Vendor: "ACE HARDWARE", Description: "supplies", Unpaid: unpaid, Amount: unpaid},
	}
}

func TestDedupeByBalance_GreedyStopsAtLedgerTotal(t *testing.T) {
	d := New(DefaultConfig())
	candidates := []Candidate{
		{Date: "2025-12-02", Vendor: "ACE HARDWARE", Amount: 50},
		{Date: "2025-12-05", Vendor: "ACE HARDWARE", Amount: 50},
		{Date: "2025-12-09", Vendor: "ACE HARDWARE", Amount: 50},
	}

	result := d.DedupeByBalance(aceLedger(120.00), candidates, "ACE")

	// $50 + $50 fit inside $120; the third $50 would overrun and the
	// unconsumed $20 remainder stays unmatched rather than over-claimed.
	assert.Equal(t, []int{0, 1}, result.Duplicates)
	assert.Equal(t, 100.00, result.Suppressed)
	assert.Equal(t, 120.00, result.LedgerTotal)
	assert.LessOrEqual(t, result.Suppressed, result.LedgerTotal)
}

func TestDedupeByBalance_ChronologicalOrder(t *testing.T) {
	d := New(DefaultConfig())
	candidates := []Candidate{
		{Date: "2025-12-09", Vendor: "ACE HARDWARE", Amount: 40},
		{Date: "2025-12-02", Vendor: "ACE HARDWARE", Amount: 40},
	}

	result := d.DedupeByBalance(aceLedger(40.00), candidates, "ACE")

	// The earlier charge is consumed even though it appears later in
	// the input slice.
	assert.Equal(t, []int{1}, result.Duplicates)
}

func TestDedupeByBalance_NoLedgerDebt(t *testing.T) {
	d := New(DefaultConfig())

	result := d.DedupeByBalance(aceLedger(0), []Candidate{
		{Date: "2025-12-02", Vendor: "ACE HARDWARE", Amount: 10},
	}, "ACE")

	assert.Empty(t, result.Duplicates)
	assert.Equal(t, 0.00, result.LedgerTotal)
}

func TestDedupeByBalance_SkipsOversizedAndContinues(t *testing.T) {
	d := New(DefaultConfig())
	candidates := []Candidate{
		{Date: "2025-12-02", Vendor: "ACE HARDWARE", Amount: 200}, // exceeds balance
		{Date: "2025-12-03", Vendor: "ACE HARDWARE", Amount: 90},
	}

	result := d.DedupeByBalance(aceLedger(100.00), candidates, "ACE")

	assert.Equal(t, []int{1}, result.Duplicates)
	assert.Equal(t, 90.00, result.Suppressed)
}

func TestDedupeByBalance_VendorTextFilter(t *testing.T) {
	d := New(DefaultConfig())
	candidates := []Candidate{
		{Date: "2025-12-02", Vendor: "THE HOME DEPOT", Amount: 50},
		{Date: "2025-12-03", Vendor: "SYKES ACE HARDWARE", Amount: 50},
	}

	result := d.DedupeByBalance(aceLedger(120.00), candidates, "ACE")

	assert.Equal(t, []int{1}, result.Duplicates)
}

func TestUnpaidTotal_MatchesByDescriptionAndGLMarker(t *testing.T) {
	d := New(DefaultConfig())
	ledger := []LedgerEntry{
		{Vendor: "Misc", Description: "ACE purchase", Unpaid: 30},
		{Vendor: "Misc", Description: "paint", GLAccount: "6435: General Repairs", Unpaid: 20},
		{Vendor: "Unrelated", Description: "rent", Unpaid: 500},
		{Vendor: "ACE", Description: "paid off", Unpaid: 0},
	}

	total := d.UnpaidTotal(ledger, "ACE")

	// Description contains + GL marker rows count; zero-unpaid does not.
	assert.Equal(t, 50.00, total)
}

func TestDedupeByWindow_PairsWithinWindowAndTolerance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GLMarker = "" // isolate text matching
	d := New(cfg)

	ledger := []LedgerEntry{
		{BillDate: "2025-12-01", Vendor: "ACE HARDWARE", Amount: 45.00, Unpaid: 45.00},
		{BillDate: "2025-12-10", Vendor: "ACE HARDWARE", Amount: 45.00, Unpaid: 45.00},
	}
	candidates := []Candidate{
		{Date: "2025-12-02", Vendor: "ACE HARDWARE", Amount: 45.00}, // within ±2 of 12-01
		{Date: "2025-12-05", Vendor: "ACE HARDWARE", Amount: 45.00}, // nothing in window
	}

	pairs := d.DedupeByWindow(ledger, candidates, "ACE")

	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].CandidateIndex)
	assert.Equal(t, 0, pairs[0].LedgerIndex)
}

func TestDedupeByWindow_OneToOneConsumption(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GLMarker = ""
	d := New(cfg)

	ledger := []LedgerEntry{
		{BillDate: "2025-12-01", Vendor: "ACE HARDWARE", Amount: 45.00, Unpaid: 45.00},
	}
	candidates := []Candidate{
		{Date: "2025-12-01", Vendor: "ACE HARDWARE", Amount: 45.00},
		{Date: "2025-12-02", Vendor: "ACE HARDWARE", Amount: 45.00},
	}

	pairs := d.DedupeByWindow(ledger, candidates, "ACE")

	// The single ledger row pairs with exactly one candidate.
	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].CandidateIndex)
}

func TestDedupeByWindow_AmountToleranceRespected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GLMarker = ""
	d := New(cfg)

	ledger := []LedgerEntry{
		{BillDate: "2025-12-01", Vendor: "ACE HARDWARE", Amount: 45.00, Unpaid: 45.00},
	}
	candidates := []Candidate{
		{Date: "2025-12-01", Vendor: "ACE HARDWARE", Amount: 45.05},
	}

	pairs := d.DedupeByWindow(ledger, candidates, "ACE")

	assert.Empty(t, pairs)
}
