package adapters

import (
	"context"
	"fmt"

	"tarifscan/internal/catalog"
	"tarifscan/internal/schema"
)

// Engie publishes one PDF price sheet per region, on URLs that rotate
// monthly and exist in French and Dutch variants. Whichever candidate
// fetches first wins.
type Engie struct{}

func (Engie) ID() string    { return "engie" }
func (Engie) Label() string { return "ENGIE Electrabel" }

var engieRegions = []struct {
	code catalog.Region
	slug string
}{
	{catalog.RegionWallonia, "wallonie"},
	{catalog.RegionFlanders, "vlaanderen"},
	{catalog.RegionBrussels, "bruxelles"},
}

var (
	engieMono = KWhPrice(
		Expr(`(?i)monohorair\w*[^0-9]{0,60}%s\s*(?:c?€|eur)?\s*/?\s*kwh`),
		Expr(`(?i)tarif\s+simple[^0-9]{0,60}%s`),
		Expr(`(?i)enkelvoudig\w*[^0-9]{0,60}%s`),
	)
	engieDay = KWhPrice(
		Expr(`(?i)heures?\s+pleines?[^0-9]{0,60}%s`),
		Expr(`(?i)bihorair\w*[^0-9]{0,60}jour[^0-9]{0,40}%s`),
		Expr(`(?i)dag(?:uren|tarief)[^0-9]{0,60}%s`),
	)
	engieNight = KWhPrice(
		Expr(`(?i)heures?\s+creuses?[^0-9]{0,60}%s`),
		Expr(`(?i)nuit[^0-9]{0,40}%s`),
		Expr(`(?i)nacht(?:uren|tarief)[^0-9]{0,60}%s`),
	)
	engieFee = AnnualFee(
		Expr(`(?i)redevance\s+fixe[^0-9]{0,60}%s\s*(?:€|eur)?\s*/?\s*an`),
		Expr(`(?i)redevance\s+annuelle[^0-9]{0,60}%s`),
		Expr(`(?i)vaste\s+vergoeding[^0-9]{0,60}%s`),
	)
)

func (e Engie) Fetch(ctx context.Context, run *RunContext) ([]schema.RawRow, error) {
	var rows []schema.RawRow
	for _, region := range engieRegions {
		urls := []string{
			fmt.Sprintf("https://www.engie.be/sites/default/files/tarifs/easy-indexed_%s_%s_fr.pdf", region.slug, run.CurrentMonth),
			fmt.Sprintf("https://www.engie.be/sites/default/files/tarifs/easy-indexed_%s_%s_nl.pdf", region.slug, run.CurrentMonth),
			fmt.Sprintf("https://www.engie.be/sites/default/files/tarifs/easy-indexed_%s_%s_fr.pdf", region.slug, run.PreviousMonth),
			fmt.Sprintf("https://www.engie.be/sites/default/files/tarifs/easy-indexed_%s_%s_nl.pdf", region.slug, run.PreviousMonth),
		}
		data, source, err := FirstBytes(ctx, run, urls)
		if err != nil {
			run.Log.Warn().Err(err).Str("region", string(region.code)).Msg("engie: no price sheet reachable")
			continue
		}
		text, err := PDFText(data)
		if err != nil {
			run.Log.Warn().Err(err).Str("region", string(region.code)).Msg("engie: pdf extraction failed")
			continue
		}

		fee, feeErr := ExtractNumber(text, engieFee)
		if feeErr != nil {
			run.Log.Warn().Str("region", string(region.code)).Msg("engie: fixed fee not found, region skipped")
			continue
		}
		validFrom := run.ValidFrom(source)

		if mono, err := ExtractNumber(text, engieMono); err == nil {
			rows = append(rows, schema.RawRow{
				"provider_id":             "engie",
				"provider_name":           "ENGIE",
				"offer_id":                "easy-indexed",
				"offer_name":              "Easy Indexed",
				"region":                  string(region.code),
				"meter_type":              "MONO",
				"energy_price_day":        mono,
				"supplier_fixed_fee_year": fee,
				"contract_type":           "VARIABLE",
				"valid_from":              validFrom,
				"source_url":              source,
			})
		} else {
			run.Log.Warn().Str("region", string(region.code)).Msg("engie: mono price not found")
		}

		day, dayErr := ExtractNumber(text, engieDay)
		night, nightErr := ExtractNumber(text, engieNight)
		if dayErr == nil && nightErr == nil {
			rows = append(rows, schema.RawRow{
				"provider_id":             "engie",
				"provider_name":           "ENGIE",
				"offer_id":                "easy-indexed",
				"offer_name":              "Easy Indexed",
				"region":                  string(region.code),
				"meter_type":              "BI",
				"energy_price_day":        day,
				"energy_price_night":      night,
				"supplier_fixed_fee_year": fee,
				"contract_type":           "VARIABLE",
				"valid_from":              validFrom,
				"source_url":              source,
			})
		} else {
			run.Log.Warn().Str("region", string(region.code)).Msg("engie: bi-hourly prices not found")
		}
	}
	return rows, nil
}
