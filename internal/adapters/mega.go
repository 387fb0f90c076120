package adapters

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"tarifscan/internal/schema"
)

// Mega lists its tariffs on an HTML page. Extraction prefers the embedded
// JSON-LD product blocks, falls back to heuristic element scanning, and as a
// last resort runs field patterns over the whole page text.
type Mega struct{}

func (Mega) ID() string    { return "mega" }
func (Mega) Label() string { return "Mega" }

var megaPageURLs = []string{
	"https://www.mega.be/fr/electricite/tarifs",
	"https://www.mega.be/nl/elektriciteit/tarieven",
}

var (
	megaKWh = KWhPrice(
		Expr(`(?i)%s\s*c?€\s*/\s*kwh`),
		Expr(`(?i)prix[^0-9]{0,40}%s\s*€`),
	)
	megaFee = AnnualFee(
		Expr(`(?i)redevance[^0-9]{0,50}%s`),
		Expr(`(?i)abonnement[^0-9]{0,50}%s\s*€?\s*/?\s*an`),
	)
)

func (m Mega) Fetch(ctx context.Context, run *RunContext) ([]schema.RawRow, error) {
	page, source, err := FirstText(ctx, run, megaPageURLs)
	if err != nil {
		return nil, err
	}
	return megaParse(page, source, run.Log)
}

func megaParse(page, source string, log zerolog.Logger) ([]schema.RawRow, error) {
	doc, err := Document(page)
	if err != nil {
		return nil, err
	}

	price, ok := megaStructuredPrice(doc)
	if !ok {
		price, ok = megaScanPrice(doc)
	}
	if !ok {
		if v, err := ExtractNumber(page, megaKWh); err == nil {
			price, ok = v, true
		}
	}
	if !ok {
		log.Warn().Str("url", source).Msg("mega: unit price not found on page")
		return nil, nil
	}

	// Both fields must come off the page; a guessed fee is worse than no row.
	fee, err := ExtractNumber(doc.Text(), megaFee)
	if err != nil {
		log.Warn().Str("url", source).Msg("mega: fixed fee not found on page, offer skipped")
		return nil, nil
	}

	return []schema.RawRow{{
		"provider_id":             "mega",
		"provider_name":           "Mega",
		"offer_id":                "online-variable",
		"offer_name":              "Online Variable",
		"region":                  "ALL",
		"meter_type":              "MONO",
		"energy_price_day":        price,
		"supplier_fixed_fee_year": fee,
		"contract_type":           "VARIABLE",
		"source_url":              source,
	}}, nil
}

func megaStructuredPrice(doc *goquery.Document) (float64, bool) {
	for _, obj := range JSONLDObjects(doc) {
		t := LDString(obj, "@type")
		if t != "Product" && t != "Offer" {
			continue
		}
		if !strings.Contains(strings.ToLower(LDString(obj, "name")), "electr") &&
			!strings.Contains(strings.ToLower(LDString(obj, "name")), "elektr") {
			continue
		}
		if v, ok := LDPrice(obj); ok && v > KWhPriceMin && v < KWhPriceMax {
			return v, true
		}
	}
	return 0, false
}

func megaScanPrice(doc *goquery.Document) (float64, bool) {
	for _, hit := range ScanPrices(doc, megaKWh) {
		title := strings.ToLower(hit.Title)
		if strings.Contains(title, "electr") || strings.Contains(title, "elektr") || title == "" {
			return hit.Value, true
		}
	}
	return 0, false
}
