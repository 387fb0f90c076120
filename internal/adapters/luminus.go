package adapters

import (
	"context"
	"fmt"

	"tarifscan/internal/schema"
)

// Luminus publishes a single national PDF card per offer with a monthly URL.
// Two offers are tracked: the fixed-price Comfy and the indexed Flexy.
type Luminus struct{}

func (Luminus) ID() string    { return "luminus" }
func (Luminus) Label() string { return "Luminus" }

type luminusOffer struct {
	id, name, slug, contract string
	green                    bool
}

var luminusOffers = []luminusOffer{
	{id: "comfy", name: "Comfy", slug: "comfy", contract: "FIXED", green: false},
	{id: "flexy-green", name: "Flexy Green", slug: "flexy-green", contract: "VARIABLE", green: true},
}

var (
	luminusMono = KWhPrice(
		Expr(`(?i)simple\s+tarif[^0-9]{0,60}%s`),
		Expr(`(?i)mono[^0-9]{0,60}%s\s*c?€?/?kwh`),
		Expr(`(?i)enkel\w*\s+tarief[^0-9]{0,60}%s`),
	)
	luminusDay = KWhPrice(
		Expr(`(?i)jour[^0-9]{0,40}%s`),
		Expr(`(?i)dag[^0-9]{0,40}%s`),
	)
	luminusNight = KWhPrice(
		Expr(`(?i)nuit[^0-9]{0,40}%s`),
		Expr(`(?i)nacht[^0-9]{0,40}%s`),
	)
	luminusFee = AnnualFee(
		Expr(`(?i)redevance[^0-9]{0,60}%s\s*€?\s*/?\s*an`),
		Expr(`(?i)abonnement[^0-9]{0,60}%s`),
		Expr(`(?i)vaste\s+kost[^0-9]{0,60}%s`),
	)
)

func (l Luminus) Fetch(ctx context.Context, run *RunContext) ([]schema.RawRow, error) {
	var rows []schema.RawRow
	for _, offer := range luminusOffers {
		urls := []string{
			fmt.Sprintf("https://www.luminus.be/-/media/tarifs/%s/%s-electricite.pdf", run.CurrentMonth, offer.slug),
			fmt.Sprintf("https://www.luminus.be/-/media/tarifs/%s/%s-elektriciteit.pdf", run.CurrentMonth, offer.slug),
			fmt.Sprintf("https://www.luminus.be/-/media/tarifs/%s/%s-electricite.pdf", run.PreviousMonth, offer.slug),
		}
		data, source, err := FirstBytes(ctx, run, urls)
		if err != nil {
			run.Log.Warn().Err(err).Str("offer", offer.id).Msg("luminus: no price card reachable")
			continue
		}
		text, err := PDFText(data)
		if err != nil {
			run.Log.Warn().Err(err).Str("offer", offer.id).Msg("luminus: pdf extraction failed")
			continue
		}

		fee, err := ExtractNumber(text, luminusFee)
		if err != nil {
			run.Log.Warn().Str("offer", offer.id).Msg("luminus: fixed fee not found, offer skipped")
			continue
		}
		validFrom := run.ValidFrom(source)

		if mono, err := ExtractNumber(text, luminusMono); err == nil {
			rows = append(rows, schema.RawRow{
				"provider_id":             "luminus",
				"provider_name":           "Luminus",
				"offer_id":                offer.id,
				"offer_name":              offer.name,
				"region":                  "ALL",
				"meter_type":              "MONO",
				"energy_price_day":        mono,
				"supplier_fixed_fee_year": fee,
				"green_energy":            offer.green,
				"contract_type":           offer.contract,
				"valid_from":              validFrom,
				"source_url":              source,
			})
		}
		day, dayErr := ExtractNumber(text, luminusDay)
		night, nightErr := ExtractNumber(text, luminusNight)
		if dayErr == nil && nightErr == nil && day != night {
			rows = append(rows, schema.RawRow{
				"provider_id":             "luminus",
				"provider_name":           "Luminus",
				"offer_id":                offer.id,
				"offer_name":              offer.name,
				"region":                  "ALL",
				"meter_type":              "BI",
				"energy_price_day":        day,
				"energy_price_night":      night,
				"supplier_fixed_fee_year": fee,
				"green_energy":            offer.green,
				"contract_type":           offer.contract,
				"valid_from":              validFrom,
				"source_url":              source,
			})
		}
	}
	return rows, nil
}
