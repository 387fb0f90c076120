package compare

import (
	"fmt"

	"tarifscan/pkg/money"
)

// DefaultVATRate is the Belgian residential electricity VAT rate.
const DefaultVATRate = 0.06

// CostBreakdown is the VAT-inclusive annual total with its components.
// Amounts are EUR, rounded to two decimals. Assumptions record which inputs
// were estimated rather than read from the bill.
type CostBreakdown struct {
	EnergyHTVA  float64 `json:"energy_htva"`
	NetworkHTVA float64 `json:"network_htva"`
	TaxesHTVA   float64 `json:"taxes_htva"`
	TotalHTVA   float64 `json:"total_htva"`
	VAT         float64 `json:"vat"`
	TotalTVAC   float64 `json:"total_tvac"`

	// Prosumer surcharge annualized from the billed period, added on top of
	// the VAT-inclusive total. It follows the customer, not the offer, so it
	// never enters offer ranking.
	ProsumerSurchargeEUR  float64 `json:"prosumer_surcharge_eur,omitempty"`
	TotalWithProsumerTVAC float64 `json:"total_with_prosumer_tvac,omitempty"`

	VATRate     float64  `json:"vat_rate"`
	Assumptions []string `json:"assumptions"`
}

// NormalizeInput is the tariff/consumption input to the normalizer.
type NormalizeInput struct {
	Region string // WAL, FLA, BRU or empty when undetermined

	// Mono metering uses ConsumptionKWh and PriceDay only; bi-hourly uses
	// the day/night pairs.
	BiHourly            bool
	ConsumptionKWh      float64
	ConsumptionDayKWh   float64
	ConsumptionNightKWh float64
	PriceDay            float64 // EUR/kWh
	PriceNight          float64
	FixedFeeYear        float64
	VATRate             float64 // 0 means DefaultVATRate
}

// gridTariff carries the per-region network and tax constants. These are
// documented estimates, not legal tariff values: real GRD tariffs vary per
// operator inside a region.
type gridTariff struct {
	networkPerKWh float64
	networkFixed  float64
	taxesPerKWh   float64
	taxesFixed    float64
}

var gridTariffs = map[string]gridTariff{
	"WAL": {networkPerKWh: 0.120, networkFixed: 95.0, taxesPerKWh: 0.035, taxesFixed: 15.0},
	"FLA": {networkPerKWh: 0.105, networkFixed: 88.0, taxesPerKWh: 0.045, taxesFixed: 13.0},
	"BRU": {networkPerKWh: 0.135, networkFixed: 80.0, taxesPerKWh: 0.028, taxesFixed: 10.0},
}

// nationalAverage is the fallback constant set when the region is unknown.
var nationalAverage = gridTariff{networkPerKWh: 0.118, networkFixed: 91.0, taxesPerKWh: 0.036, taxesFixed: 14.0}

// Normalize converts heterogeneous tariff inputs into one VAT-inclusive
// annual total.
func Normalize(in NormalizeInput) CostBreakdown {
	var assumptions []string

	totalKWh := in.ConsumptionKWh
	var energy float64
	if in.BiHourly {
		totalKWh = in.ConsumptionDayKWh + in.ConsumptionNightKWh
		energy = in.PriceDay*in.ConsumptionDayKWh + in.PriceNight*in.ConsumptionNightKWh
	} else {
		energy = in.PriceDay * in.ConsumptionKWh
	}
	energy += in.FixedFeeYear

	grid, ok := gridTariffs[in.Region]
	if !ok {
		grid = nationalAverage
		assumptions = append(assumptions,
			"region undetermined: network and tax costs use national-average constants")
	}
	assumptions = append(assumptions,
		fmt.Sprintf("network and tax constants are estimates for region %s, not exact GRD tariffs", regionLabel(in.Region)))

	network := grid.networkPerKWh*totalKWh + grid.networkFixed
	taxes := grid.taxesPerKWh*totalKWh + grid.taxesFixed

	vatRate := in.VATRate
	if vatRate == 0 {
		vatRate = DefaultVATRate
	}

	totalHTVA := energy + network + taxes
	vat := totalHTVA * vatRate

	return CostBreakdown{
		EnergyHTVA:  money.Round2(energy),
		NetworkHTVA: money.Round2(network),
		TaxesHTVA:   money.Round2(taxes),
		TotalHTVA:   money.Round2(totalHTVA),
		VAT:         money.Round2(vat),
		TotalTVAC:   money.Round2(totalHTVA + vat),
		VATRate:     vatRate,
		Assumptions: assumptions,
	}
}

func regionLabel(region string) string {
	if region == "" {
		return "unknown"
	}
	return region
}

// ProsumerSurcharge annualizes a partial-period prosumer amount. The
// surcharge follows the customer, not the offer: it is added on top of the
// normalized total and must never influence offer ranking.
func ProsumerSurcharge(amount float64, periodDays int) float64 {
	return money.Annualize(amount, periodDays)
}
