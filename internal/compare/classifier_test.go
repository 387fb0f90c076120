package compare

import (
	"testing"

	"tarifscan/pkg/billing"
)

func f(v float64) *float64 { return &v }

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		bill       billing.ExtractedBill
		comparable bool
		reason     Reason
	}{
		{
			name: "regularization with consumption is comparable",
			bill: billing.ExtractedBill{
				DocumentKeywords: []string{"décompte annuel"},
				ConsumptionKWh:   f(3500),
			},
			comparable: true,
			reason:     ReasonComparable,
		},
		{
			// The allow signal plus real data overrides the blocking keyword.
			name: "block and allow keywords with consumption is comparable",
			bill: billing.ExtractedBill{
				DocumentKeywords: []string{"estimation", "régularisation"},
				ConsumptionKWh:   f(3500),
			},
			comparable: true,
			reason:     ReasonComparable,
		},
		{
			name: "block keyword without consumption is estimated schedule",
			bill: billing.ExtractedBill{
				DocumentKeywords: []string{"acompte"},
				UnitPriceEURKWh:  f(0.25),
			},
			comparable: false,
			reason:     ReasonEstimatedSchedule,
		},
		{
			name:       "no consumption at all",
			bill:       billing.ExtractedBill{UnitPriceEURKWh: f(0.25)},
			comparable: false,
			reason:     ReasonMissingConsumption,
		},
		{
			name: "consumption but neither fee nor unit price",
			bill: billing.ExtractedBill{
				ConsumptionKWh: f(3500),
			},
			comparable: false,
			reason:     ReasonInsufficientBasis,
		},
		{
			name: "consumption plus unit price is comparable",
			bill: billing.ExtractedBill{
				ConsumptionKWh:  f(3500),
				UnitPriceEURKWh: f(0.25),
			},
			comparable: true,
			reason:     ReasonComparable,
		},
		{
			name: "day and night consumption counts as consumption",
			bill: billing.ExtractedBill{
				ConsumptionDayKWh:   f(2400),
				ConsumptionNightKWh: f(1400),
				FixedFeeYearEUR:     f(60),
			},
			comparable: true,
			reason:     ReasonComparable,
		},
		{
			name: "allow signal in period label works too",
			bill: billing.ExtractedBill{
				PeriodLabel:    "afrekening 2025",
				ConsumptionKWh: f(2900),
			},
			comparable: true,
			reason:     ReasonComparable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.bill)
			if got.Comparable != tt.comparable || got.Reason != tt.reason {
				t.Errorf("Classify() = {%v %s}, want {%v %s}",
					got.Comparable, got.Reason, tt.comparable, tt.reason)
			}
		})
	}
}
