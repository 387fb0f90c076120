// Package catalog holds the canonical partner offer catalogs: the row model,
// the per-vertical JSON file store, the merge algorithm and the partner
// allowlist that gates what callers may see.
package catalog

import (
	"fmt"
	"sort"
)

// Vertical identifies a product market.
type Vertical string

const (
	VerticalElectricity Vertical = "electricity"
	VerticalTelecom     Vertical = "telecom"
)

// Region is a Belgian region scope for an offer.
type Region string

const (
	RegionAll      Region = "ALL"
	RegionWallonia Region = "WAL"
	RegionFlanders Region = "FLA"
	RegionBrussels Region = "BRU"
)

// MeterType distinguishes flat-rate from day/night metering.
type MeterType string

const (
	MeterAll  MeterType = "ALL"
	MeterMono MeterType = "MONO"
	MeterBi   MeterType = "BI"
)

// PlanType classifies a telecom offer.
type PlanType string

const (
	PlanBundle   PlanType = "bundle"
	PlanInternet PlanType = "internet"
	PlanMobile   PlanType = "mobile"
	PlanTV       PlanType = "tv"
)

// ContractType is the pricing regime of an offer.
type ContractType string

const (
	ContractFixed     ContractType = "FIXED"
	ContractVariable  ContractType = "VARIABLE"
	ContractRegulated ContractType = "REGULATED"
)

// Row is one partner offer as stored in a catalog file. Electricity and
// telecom rows share the struct; vertical-specific fields are nil/empty on
// the other vertical.
type Row struct {
	ProviderID   string       `json:"provider_id"`
	ProviderName string       `json:"provider_name"`
	OfferID      string       `json:"offer_id"`
	OfferName    string       `json:"offer_name"`
	Region       Region       `json:"region"`
	ContractType ContractType `json:"contract_type"`

	// Electricity tariff fields, prices in EUR/kWh.
	MeterType            MeterType `json:"meter_type,omitempty"`
	EnergyPriceDay       *float64  `json:"energy_price_day,omitempty"`
	EnergyPriceNight     *float64  `json:"energy_price_night,omitempty"`
	SupplierFixedFeeYear *float64  `json:"supplier_fixed_fee_year,omitempty"`
	GreenEnergy          *bool     `json:"green_energy,omitempty"`

	// Telecom plan fields.
	PlanType          PlanType `json:"plan_type,omitempty"`
	MonthlyPriceEUR   *float64 `json:"monthly_price_eur,omitempty"`
	DownloadSpeedMbps *float64 `json:"download_speed_mbps,omitempty"`
	DataGB            *float64 `json:"data_gb,omitempty"`
	IncludesTV        *bool    `json:"includes_tv,omitempty"`
	IncludesInternet  *bool    `json:"includes_internet,omitempty"`
	IncludesMobile    *bool    `json:"includes_mobile,omitempty"`
	// One-time promotional adjustment; negative values are discounts.
	PromoBonusEUR *float64 `json:"promo_bonus_eur,omitempty"`

	ValidFrom *string `json:"valid_from,omitempty"` // YYYY-MM-DD
	ValidTo   *string `json:"valid_to,omitempty"`
	SourceURL string  `json:"source_url"`
	Active    *bool   `json:"active,omitempty"`
}

// Key is the composite identity of a row inside a catalog.
type Key struct {
	ProviderID string
	OfferID    string
	Region     Region
	Segment    string // meter type for electricity, plan type for telecom
	ValidFrom  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", k.ProviderID, k.OfferID, k.Region, k.Segment, k.ValidFrom)
}

// Key returns the composite dedupe key of the row.
func (r Row) Key() Key {
	segment := string(r.MeterType)
	if r.PlanType != "" {
		segment = string(r.PlanType)
	}
	validFrom := ""
	if r.ValidFrom != nil {
		validFrom = *r.ValidFrom
	}
	return Key{
		ProviderID: r.ProviderID,
		OfferID:    r.OfferID,
		Region:     r.Region,
		Segment:    segment,
		ValidFrom:  validFrom,
	}
}

// IsActive reports whether the row should be treated as live. A missing
// active flag means active.
func (r Row) IsActive() bool {
	return r.Active == nil || *r.Active
}

// Sort orders rows by (provider_id, offer_id, region) so catalog files diff
// deterministically between runs.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ProviderID != b.ProviderID {
			return a.ProviderID < b.ProviderID
		}
		if a.OfferID != b.OfferID {
			return a.OfferID < b.OfferID
		}
		return a.Region < b.Region
	})
}
