package compare

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tarifscan/internal/catalog"
	"tarifscan/pkg/billing"
)

func offer(provider, name string, price, fee float64) catalog.Row {
	return catalog.Row{
		ProviderID:           provider,
		ProviderName:         provider,
		OfferName:            name,
		OfferID:              name,
		Region:               catalog.RegionAll,
		MeterType:            catalog.MeterMono,
		EnergyPriceDay:       f(price),
		SupplierFixedFeeYear: f(fee),
		ContractType:         catalog.ContractVariable,
	}
}

func telecomOffer(provider, name string, plan catalog.PlanType, monthly float64) catalog.Row {
	return catalog.Row{
		ProviderID:      provider,
		ProviderName:    provider,
		OfferID:         name,
		OfferName:       name,
		Region:          catalog.RegionAll,
		PlanType:        plan,
		MonthlyPriceEUR: f(monthly),
		ContractType:    catalog.ContractFixed,
	}
}

func electricityBill() billing.ExtractedBill {
	return billing.ExtractedBill{
		Provider:        "ENGIE",
		Region:          "WAL",
		ConsumptionKWh:  f(3500),
		UnitPriceEURKWh: f(0.32),
		FixedFeeYearEUR: f(60),
	}
}

func TestCompareElectricityRankingInvariants(t *testing.T) {
	rows := []catalog.Row{
		offer("engie", "easy", 0.30, 50),     // same provider, excluded
		offer("mega", "online", 0.22, 45),    // big savings
		offer("luminus", "comfy", 0.25, 50),  // medium savings
		offer("octaplus", "fixed", 0.28, 55), // small savings
		offer("eneco", "sun", 0.319, 60),     // savings below threshold
		offer("bolt", "flow", 0.21, 40),      // biggest savings
	}

	offers, _ := CompareElectricity(electricityBill(), rows)

	require.LessOrEqual(t, len(offers), MaxResults)
	require.NotEmpty(t, offers)
	for i, o := range offers {
		require.NotEqual(t, "engie", strings.ToLower(o.Provider), "bill provider must be excluded")
		require.Greater(t, o.EstimatedSavingsEUR, MinSavingsEUR)
		if i > 0 {
			require.GreaterOrEqual(t, offers[i-1].EstimatedSavingsEUR, o.EstimatedSavingsEUR,
				"output must be sorted descending by savings")
		}
	}
	require.Equal(t, "bolt", offers[0].Provider)
}

func TestCompareElectricityCurrentCostStrategies(t *testing.T) {
	rows := []catalog.Row{offer("mega", "online", 0.20, 40)}

	t.Run("annual total preferred", func(t *testing.T) {
		bill := electricityBill()
		bill.PeriodLabel = "décompte annuel"
		bill.TotalAmountEUR = f(1500)
		offers, _ := CompareElectricity(bill, rows)
		require.NotEmpty(t, offers)
		// offer cost = 0.20*3500+40 = 740, savings = 1500-740
		require.InDelta(t, 760, offers[0].EstimatedSavingsEUR, 0.5)
	})

	t.Run("tariff reconstruction", func(t *testing.T) {
		bill := electricityBill() // 0.32*3500+60 = 1180
		offers, _ := CompareElectricity(bill, rows)
		require.NotEmpty(t, offers)
		require.InDelta(t, 440, offers[0].EstimatedSavingsEUR, 0.5)
	})

	t.Run("pro-rated quarter total", func(t *testing.T) {
		bill := billing.ExtractedBill{
			Provider:       "Luminus",
			ConsumptionKWh: f(3500),
			PeriodLabel:    "facture trimestrielle",
			TotalAmountEUR: f(300), // → 1200/year
		}
		offers, _ := CompareElectricity(bill, rows)
		require.NotEmpty(t, offers)
		require.InDelta(t, 460, offers[0].EstimatedSavingsEUR, 0.5)
	})
}

func TestSameProvider(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"ENGIE", "engie", true},
		{"ENGIE", "ENGIE Electrabel", true},
		{"Mega", "Megawatt", false},
		{"Mega", "Omega Energy", false},
		{"Luminus", "Bolt", false},
		{"", "engie", false},
	}
	for _, tt := range tests {
		if got := sameProvider(tt.a, tt.b); got != tt.want {
			t.Errorf("sameProvider(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareElectricityProsumerSurcharge(t *testing.T) {
	rows := []catalog.Row{offer("mega", "online", 0.22, 45)}
	days := 90

	plain := electricityBill()
	prosumer := electricityBill()
	prosumer.ProsumerAmountEUR = f(120)
	prosumer.ProsumerPeriodDays = &days

	plainOffers, plainBreakdown := CompareElectricity(plain, rows)
	offers, breakdown := CompareElectricity(prosumer, rows)

	require.InDelta(t, 487, breakdown.ProsumerSurchargeEUR, 0.5)
	require.InDelta(t, breakdown.TotalTVAC+487, breakdown.TotalWithProsumerTVAC, 0.01)
	require.Zero(t, plainBreakdown.ProsumerSurchargeEUR)

	// The surcharge follows the customer, so ranking must not move.
	require.Equal(t, len(plainOffers), len(offers))
	for i := range offers {
		require.Equal(t, plainOffers[i].EstimatedSavingsEUR, offers[i].EstimatedSavingsEUR)
	}
}

func TestCompareElectricityInsufficientData(t *testing.T) {
	bill := billing.ExtractedBill{Provider: "ENGIE"}
	offers, _ := CompareElectricity(bill, []catalog.Row{offer("mega", "online", 0.2, 40)})
	require.Empty(t, offers, "insufficient data must yield empty, not error")
}

func TestCompareTelecomPlanCompatibility(t *testing.T) {
	rows := []catalog.Row{
		telecomOffer("telenet", "internet-only", catalog.PlanInternet, 30),
		telecomOffer("telenet", "tv-only", catalog.PlanTV, 25),
		telecomOffer("telenet", "mobile-s", catalog.PlanMobile, 12),
		telecomOffer("telenet", "one-pack", catalog.PlanBundle, 60),
	}
	bill := billing.ExtractedTelecomBill{
		Provider:        "Proximus",
		PlanType:        "mobile",
		MonthlyPriceEUR: f(35),
	}

	offers := CompareTelecom(bill, rows)

	require.NotEmpty(t, offers)
	for _, o := range offers {
		require.NotEqual(t, "internet-only", o.Plan, "mobile plan must not match internet offer")
		require.NotEqual(t, "tv-only", o.Plan, "mobile plan must not match tv offer")
	}
	plans := map[string]bool{}
	for _, o := range offers {
		plans[o.Plan] = true
	}
	require.True(t, plans["mobile-s"], "same plan type must match")
	require.True(t, plans["one-pack"], "bundle offer must match any plan type")
}

func TestCompareTelecomBundleAcceptsEverything(t *testing.T) {
	rows := []catalog.Row{
		telecomOffer("telenet", "internet-only", catalog.PlanInternet, 30),
		telecomOffer("orange", "love-duo", catalog.PlanBundle, 55),
	}
	bill := billing.ExtractedTelecomBill{
		Provider:        "Proximus",
		PlanType:        "bundle",
		MonthlyPriceEUR: f(95),
	}
	offers := CompareTelecom(bill, rows)
	require.Len(t, offers, 2)
}

func TestCompareTelecomPromoAdjustment(t *testing.T) {
	promo := telecomOffer("telenet", "one-pack", catalog.PlanBundle, 60)
	promo.PromoBonusEUR = f(-120)

	bill := billing.ExtractedTelecomBill{
		Provider:        "Proximus",
		PlanType:        "bundle",
		MonthlyPriceEUR: f(70),
	}
	offers := CompareTelecom(bill, []catalog.Row{promo})

	require.Len(t, offers, 1)
	// current 840, offer 720-120=600
	require.InDelta(t, 240, offers[0].EstimatedSavingsEUR, 0.5)
	require.Contains(t, offers[0].Tags, "promo")
}

func TestPeriodMonths(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"facture annuelle", 12},
		{"yearly settlement", 12},
		{"jaarafrekening", 12},
		{"trimestre", 3},
		{"kwartaal", 3},
		{"01/01/2025 - 31/03/2025", 3},
		{"01/01/2025 – 30/06/2025", 6},
		{"whatever", 1},
		{"", 1},
	}
	for _, tt := range tests {
		if got := periodMonths(tt.label); got != tt.want {
			t.Errorf("periodMonths(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}
