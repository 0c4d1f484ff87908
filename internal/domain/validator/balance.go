package validator

import (
	"fmt"
	"math"
)

// BalanceValidation contains the result of validating a batch balance.
type BalanceValidation struct {
	// Valid is true if the batch balances within tolerance
	Valid bool

	// AccountedSum is export + netted + suppressed
	AccountedSum float64

	// ExpectedSum is the eligible statement total
	ExpectedSum float64

	// Difference is the gap between accounted and expected
	Difference float64

	// Reason explains why validation failed (empty if valid)
	Reason string
}

// DefaultBalanceTolerance absorbs per-row cent rounding.
const DefaultBalanceTolerance = 0.01

// ValidateBalance checks that a batch conserves money:
//
//	exportTotal + nettedOut + suppressed ≈ statementTotal
//
// statementTotal is the sum of all eligible statement rows; exportTotal
// the sum of the bills built from them; nettedOut the signed total
// collapsed by netting; suppressed the total marked duplicate. A
// non-positive tolerance falls back to the default.
func ValidateBalance(statementTotal, exportTotal, nettedOut, suppressed, tolerance float64) *BalanceValidation {
	if tolerance <= 0 {
		tolerance = DefaultBalanceTolerance
	}

	accounted := roundToCents(exportTotal + nettedOut + suppressed)
	expected := roundToCents(statementTotal)
	diff := roundToCents(expected - accounted)

	if math.Abs(diff) <= tolerance {
		return &BalanceValidation{
			Valid:        true,
			AccountedSum: accounted,
			ExpectedSum:  expected,
			Difference:   diff,
		}
	}

	var reason string
	if diff > 0 {
		reason = fmt.Sprintf("statement total ($%.2f) exceeds accounted total ($%.2f) by $%.2f - rows were dropped without a disposition",
			expected, accounted, diff)
	} else {
		reason = fmt.Sprintf("accounted total ($%.2f) exceeds statement total ($%.2f) by $%.2f - possible double-counted row",
			accounted, expected, -diff)
	}

	return &BalanceValidation{
		Valid:        false,
		AccountedSum: accounted,
		ExpectedSum:  expected,
		Difference:   diff,
		Reason:       reason,
	}
}

// roundToCents rounds a float to 2 decimal places.
func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
