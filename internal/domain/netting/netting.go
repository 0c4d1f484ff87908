// Package netting collapses offsetting statement transactions.
//
// Transactions are grouped by (date, merchant, resolved vendor,
// resolved property, absolute amount, validation status) and their
// signed amounts summed. Grouping on the absolute amount is what puts a
// charge and its reversal in the same group. Sums are rounded to cents
// before the keep/drop comparison so floating-point residue can't cause
// spurious retention.
package netting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Policy selects which netted groups survive. The source system ran
// both variants; the choice is explicit configuration, never implied.
type Policy string

const (
	// PolicyDropZero drops only groups whose net rounds to exactly zero
	// (a charge fully offset by its own reversal).
	PolicyDropZero Policy = "drop-zero"

	// PolicyPositiveOnly keeps only groups with a strictly positive net.
	PolicyPositiveOnly Policy = "positive-only"
)

// ParsePolicy validates a configured policy string.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyDropZero, PolicyPositiveOnly:
		return Policy(s), nil
	case "":
		return PolicyDropZero, nil
	}
	return "", fmt.Errorf("unknown netting policy %q", s)
}

// Row is one resolved transaction entering the netting stage.
type Row struct {
	Date     time.Time
	Merchant string
	Vendor   string
	Property string
	Status   string
	Amount   float64 // signed
}

// Group is one aggregation bucket after netting.
type Group struct {
	Date     time.Time
	Merchant string
	Vendor   string
	Property string
	Status   string

	// Net is the rounded signed sum of the group's amounts.
	Net float64

	// Rows holds the indices of the input rows in this group, in input
	// order.
	Rows []int
}

// Result separates survivors from collapsed groups.
type Result struct {
	Kept    []Group
	Dropped []Group
}

type groupKey struct {
	date     string
	merchant string
	vendor   string
	property string
	status   string
	absAmt   string
}

// Net groups rows and applies the policy. Group order follows first
// appearance in the input, so output is deterministic for a given
// batch.
func Net(rows []Row, policy Policy) Result {
	groups := make(map[groupKey]int)
	order := make([]groupKey, 0, len(rows))
	sums := make(map[groupKey]decimal.Decimal)
	members := make(map[groupKey][]int)
	first := make(map[groupKey]Row)

	for i, row := range rows {
		key := groupKey{
			date:     row.Date.Format("2006-01-02"),
			merchant: row.Merchant,
			vendor:   row.Vendor,
			property: row.Property,
			status:   row.Status,
			// Absolute amount in the key so a charge and its matching
			// credit land in the same group.
			absAmt: decimal.NewFromFloat(row.Amount).Abs().Round(2).String(),
		}
		if _, seen := groups[key]; !seen {
			groups[key] = len(order)
			order = append(order, key)
			first[key] = row
		}
		sums[key] = sums[key].Add(decimal.NewFromFloat(row.Amount))
		members[key] = append(members[key], i)
	}

	var result Result
	for _, key := range order {
		// Round before the comparison, not after.
		net := sums[key].Round(2)
		f := first[key]
		group := Group{
			Date:     f.Date,
			Merchant: f.Merchant,
			Vendor:   f.Vendor,
			Property: f.Property,
			Status:   f.Status,
			Net:      net.InexactFloat64(),
			Rows:     members[key],
		}

		if keep(net, policy) {
			result.Kept = append(result.Kept, group)
		} else {
			result.Dropped = append(result.Dropped, group)
		}
	}
	return result
}

func keep(net decimal.Decimal, policy Policy) bool {
	switch policy {
	case PolicyPositiveOnly:
		return net.IsPositive()
	default:
		return !net.IsZero()
	}
}

// Total sums the nets of kept groups, rounded to cents. Used by the
// reconciliation balance report.
func Total(groups []Group) float64 {
	sum := decimal.Zero
	for _, g := range groups {
		sum = sum.Add(decimal.NewFromFloat(g.Net))
	}
	return sum.Round(2).InexactFloat64()
}
