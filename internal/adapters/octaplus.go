package adapters

import (
	"context"
	"strings"

	"tarifscan/internal/schema"
)

// OctaPlus exposes fixed and variable tariffs on one HTML page with
// per-offer cards. No structured data is published, so extraction is
// heuristic scanning with a whole-page regex fallback.
type OctaPlus struct{}

func (OctaPlus) ID() string    { return "octaplus" }
func (OctaPlus) Label() string { return "Octa+" }

var octaPageURLs = []string{
	"https://www.octaplus.be/fr/particuliers/electricite",
	"https://www.octaplus.be/nl/particulieren/elektriciteit",
}

var (
	octaKWh = KWhPrice(
		Expr(`(?i)%s\s*€\s*/\s*kwh`),
		Expr(`(?i)kwh[^0-9]{0,30}%s`),
	)
	octaFee = AnnualFee(
		Expr(`(?i)redevance\s+fixe[^0-9]{0,50}%s`),
		Expr(`(?i)vaste\s+vergoeding[^0-9]{0,50}%s`),
	)
)

type octaOffer struct {
	id, name, contract string
	titleHints         []string
}

var octaOffers = []octaOffer{
	{id: "fixed", name: "Fixed", contract: "FIXED", titleHints: []string{"fixe", "fixed", "vast"}},
	{id: "eco-clear", name: "Eco Clear", contract: "VARIABLE", titleHints: []string{"eco", "clear", "variable"}},
}

func (o OctaPlus) Fetch(ctx context.Context, run *RunContext) ([]schema.RawRow, error) {
	page, source, err := FirstText(ctx, run, octaPageURLs)
	if err != nil {
		return nil, err
	}
	doc, err := Document(page)
	if err != nil {
		return nil, err
	}

	fee, feeErr := ExtractNumber(doc.Text(), octaFee)
	if feeErr != nil {
		run.Log.Warn().Str("url", source).Msg("octaplus: fixed fee not found, adapter yields nothing")
		return nil, nil
	}

	hits := ScanPrices(doc, octaKWh)
	var rows []schema.RawRow
	for _, offer := range octaOffers {
		price, ok := matchOfferPrice(hits, offer.titleHints)
		if !ok {
			// Last resort: whole-page scan loses the per-offer pairing, so
			// only the first offer may claim it.
			if offer.id == octaOffers[0].id {
				if v, err := ExtractNumber(page, octaKWh); err == nil {
					price, ok = v, true
				}
			}
		}
		if !ok {
			run.Log.Warn().Str("offer", offer.id).Msg("octaplus: unit price not found")
			continue
		}
		rows = append(rows, schema.RawRow{
			"provider_id":             "octaplus",
			"provider_name":           "Octa+",
			"offer_id":                offer.id,
			"offer_name":              offer.name,
			"region":                  "ALL",
			"meter_type":              "MONO",
			"energy_price_day":        price,
			"supplier_fixed_fee_year": fee,
			"contract_type":           offer.contract,
			"source_url":              source,
		})
	}
	return rows, nil
}

func matchOfferPrice(hits []PriceHit, hints []string) (float64, bool) {
	for _, hit := range hits {
		title := strings.ToLower(hit.Title)
		for _, h := range hints {
			if strings.Contains(title, h) {
				return hit.Value, true
			}
		}
	}
	return 0, false
}
