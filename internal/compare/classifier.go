// Package compare hosts the bill comparability classifier, the annual cost
// normalizer and the offer ranking engine. Everything here is pure: no I/O,
// no shared state, safe for concurrent requests.
package compare

import (
	"strings"

	"tarifscan/pkg/billing"
)

// Reason codes for a non-comparable classification.
type Reason string

const (
	ReasonComparable         Reason = "comparable"
	ReasonEstimatedSchedule  Reason = "estimated_schedule"
	ReasonMissingConsumption Reason = "missing_consumption"
	ReasonInsufficientBasis  Reason = "insufficient_basis"
)

// Classification is the gate decision on a bill.
type Classification struct {
	Comparable bool
	Reason     Reason
}

// allowSignals mark a regularization/annual settlement document; blockSignals
// mark an installment or estimated schedule. French and Dutch variants.
var (
	allowSignals = []string{
		"regularisation", "régularisation", "regularisatie",
		"decompte annuel", "décompte annuel", "afrekening",
		"annual", "annuel", "jaarlijkse", "settlement",
	}
	blockSignals = []string{
		"acompte", "voorschot", "tussentijds",
		"estimation", "estimate", "geschat",
		"mensualite", "mensualité", "schedule", "echeancier", "échéancier",
	}
)

// Classify decides whether a bill carries enough real data to be compared.
// Precedence matters: strong annual-settlement evidence together with real
// consumption overrides any blocking keyword.
func Classify(bill billing.ExtractedBill) Classification {
	hasConsumption := hasFloat(bill.ConsumptionKWh) ||
		(hasFloat(bill.ConsumptionDayKWh) && hasFloat(bill.ConsumptionNightKWh))
	allow := hasAnySignal(bill, allowSignals)
	block := hasAnySignal(bill, blockSignals)

	switch {
	case allow && hasConsumption:
		return Classification{Comparable: true, Reason: ReasonComparable}
	case block && !hasConsumption:
		return Classification{Comparable: false, Reason: ReasonEstimatedSchedule}
	case !hasConsumption:
		return Classification{Comparable: false, Reason: ReasonMissingConsumption}
	case bill.FixedFeeYearEUR == nil && bill.UnitPriceEURKWh == nil:
		return Classification{Comparable: false, Reason: ReasonInsufficientBasis}
	default:
		return Classification{Comparable: true, Reason: ReasonComparable}
	}
}

func hasFloat(v *float64) bool { return v != nil && *v > 0 }

func hasAnySignal(bill billing.ExtractedBill, signals []string) bool {
	haystack := make([]string, 0, len(bill.DocumentKeywords)+1)
	for _, k := range bill.DocumentKeywords {
		haystack = append(haystack, strings.ToLower(k))
	}
	haystack = append(haystack, strings.ToLower(bill.PeriodLabel))
	for _, h := range haystack {
		for _, s := range signals {
			if strings.Contains(h, s) {
				return true
			}
		}
	}
	return false
}
