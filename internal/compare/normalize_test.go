package compare

import (
	"math"
	"strings"
	"testing"
)

func TestNormalizeWalloniaExample(t *testing.T) {
	// 3,863 kWh annual mono consumption, day price 0.268, fixed fee 42.0,
	// region WAL, default 6% VAT.
	got := Normalize(NormalizeInput{
		Region:         "WAL",
		ConsumptionKWh: 3863,
		PriceDay:       0.268,
		FixedFeeYear:   42.0,
	})

	if got.TotalTVAC < 1300 || got.TotalTVAC > 2200 {
		t.Errorf("total_tvac = %.2f, want within [1300, 2200]", got.TotalTVAC)
	}
	wantTVAC := got.TotalHTVA * 1.06
	if math.Abs(got.TotalTVAC-wantTVAC) > 0.02 {
		t.Errorf("total_tvac = %.2f, want total_htva*1.06 = %.2f (±0.02)", got.TotalTVAC, wantTVAC)
	}
	if got.VATRate != DefaultVATRate {
		t.Errorf("vat_rate = %v, want %v", got.VATRate, DefaultVATRate)
	}
	wantEnergy := 0.268*3863 + 42.0
	if math.Abs(got.EnergyHTVA-wantEnergy) > 0.01 {
		t.Errorf("energy_htva = %.2f, want %.2f", got.EnergyHTVA, wantEnergy)
	}
	if got.TotalHTVA <= got.EnergyHTVA {
		t.Error("network and tax components missing from total")
	}
}

func TestNormalizeBiHourly(t *testing.T) {
	got := Normalize(NormalizeInput{
		Region:              "FLA",
		BiHourly:            true,
		ConsumptionDayKWh:   2400,
		ConsumptionNightKWh: 1400,
		PriceDay:            0.28,
		PriceNight:          0.20,
		FixedFeeYear:        60,
	})
	wantEnergy := 0.28*2400 + 0.20*1400 + 60
	if math.Abs(got.EnergyHTVA-wantEnergy) > 0.01 {
		t.Errorf("energy_htva = %.2f, want %.2f", got.EnergyHTVA, wantEnergy)
	}
}

func TestNormalizeUnknownRegionFallsBack(t *testing.T) {
	got := Normalize(NormalizeInput{
		ConsumptionKWh: 3000,
		PriceDay:       0.25,
		FixedFeeYear:   50,
	})

	found := false
	for _, a := range got.Assumptions {
		if strings.Contains(a, "national-average") {
			found = true
		}
	}
	if !found {
		t.Errorf("fallback assumption note missing: %v", got.Assumptions)
	}
	if got.NetworkHTVA <= 0 || got.TaxesHTVA <= 0 {
		t.Error("fallback constants not applied")
	}
}

func TestNormalizeAlwaysNotesEstimatedConstants(t *testing.T) {
	got := Normalize(NormalizeInput{Region: "WAL", ConsumptionKWh: 1000, PriceDay: 0.3})
	if len(got.Assumptions) == 0 {
		t.Fatal("no assumptions recorded")
	}
}

func TestProsumerSurcharge(t *testing.T) {
	// 120 EUR billed over 90 days annualizes to 487.
	got := ProsumerSurcharge(120, 90)
	if got != 487 {
		t.Errorf("ProsumerSurcharge(120, 90) = %v, want 487", got)
	}
	if ProsumerSurcharge(100, 0) != 0 {
		t.Error("zero period days must yield 0")
	}
}
