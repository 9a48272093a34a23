// Package core holds the expense domain types and the two-party
// settlement rule.
//
// This file contains the balance calculator and the amount parsing used
// at the request boundary.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// equalTolerance absorbs float summation noise when deciding that both
// parties spent the same amount.
const equalTolerance = 1e-6

// ComputeBalanceMessage turns per-spender totals for the selected period
// into a settlement statement under an equal-split rule between the two
// fixed parties. Missing keys count as zero.
//
// Examples:
//
//	ComputeBalanceMessage(nil)                                  -> "No expenses recorded for this period."
//	ComputeBalanceMessage(Totals{"Shakib": 100, "Junit": 0})    -> "Junit owes Shakib 50.00$."
func ComputeBalanceMessage(totals Totals) string {
	shakibTotal := totals[SpenderShakib]
	junitTotal := totals[SpenderJunit]

	totalSpent := shakibTotal + junitTotal
	if totalSpent == 0 {
		return "No expenses recorded for this period."
	}

	equalShare := totalSpent / 2.0
	diff := shakibTotal - equalShare

	if math.Abs(diff) < equalTolerance {
		return fmt.Sprintf("Both %s and %s have spent equally. No one owes anything.", SpenderShakib, SpenderJunit)
	}

	if diff > 0 {
		return fmt.Sprintf("%s owes %s %.2f$.", SpenderJunit, SpenderShakib, diff)
	}
	return fmt.Sprintf("%s owes %s %.2f$.", SpenderShakib, SpenderJunit, -diff)
}

// ParseAmount parses a monetary amount from a form value. An empty string
// is treated as 0.0 rather than an error, preserving the permissive
// boundary behavior the tracker has always had. Anything else must be a
// non-negative decimal number.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0.0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount renders an amount with two decimals and the trailing
// dollar marker used across the UI.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f$", v)
}
