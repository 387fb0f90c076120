// Package billing holds the external bill contracts produced by the
// document-understanding service. This module only reads them.
package billing

// ExtractedBill is the structured result of extracting an electricity bill.
// Pointer fields are nil when the extractor could not find the value.
type ExtractedBill struct {
	Provider string `json:"provider"`
	Plan     string `json:"plan,omitempty"`
	Region   string `json:"region,omitempty"` // WAL, FLA, BRU or empty when undetermined

	// PeriodLabel is the raw billing-period text, e.g. "annuel",
	// "01/04/2025 - 30/06/2025" or "trimestriel".
	PeriodLabel string `json:"billing_period,omitempty"`

	TotalAmountEUR      *float64 `json:"total_amount_eur,omitempty"`
	ConsumptionKWh      *float64 `json:"consumption_kwh,omitempty"`
	ConsumptionDayKWh   *float64 `json:"consumption_day_kwh,omitempty"`
	ConsumptionNightKWh *float64 `json:"consumption_night_kwh,omitempty"`
	UnitPriceEURKWh     *float64 `json:"unit_price_eur_kwh,omitempty"`
	FixedFeeYearEUR     *float64 `json:"fixed_fee_year_eur,omitempty"`
	MeterType           string   `json:"meter_type,omitempty"` // MONO or BI

	// Prosumer surcharge as billed, usually for a partial period.
	ProsumerAmountEUR  *float64 `json:"prosumer_amount_eur,omitempty"`
	ProsumerPeriodDays *int     `json:"prosumer_period_days,omitempty"`

	// DocumentKeywords are lowercased signal tokens the extractor found on
	// the document (e.g. "regularisation", "acompte").
	DocumentKeywords []string `json:"document_keywords,omitempty"`

	Confidence    float64  `json:"confidence"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// ExtractedTelecomBill is the structured result of extracting a telecom bill.
type ExtractedTelecomBill struct {
	Provider string `json:"provider"`
	Plan     string `json:"plan,omitempty"`
	Region   string `json:"region,omitempty"`

	PlanType        string   `json:"plan_type,omitempty"` // bundle, internet, mobile, tv
	MonthlyPriceEUR *float64 `json:"monthly_price_eur,omitempty"`

	Confidence    float64  `json:"confidence"`
	MissingFields []string `json:"missing_fields,omitempty"`
}
