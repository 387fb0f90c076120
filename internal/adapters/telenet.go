package adapters

import (
	"context"
	"strings"

	"tarifscan/internal/schema"
)

// Telenet lists residential plans on an HTML page with JSON-LD product
// blocks; heuristic card scanning is the fallback.
type Telenet struct{}

func (Telenet) ID() string    { return "telenet" }
func (Telenet) Label() string { return "Telenet" }

var telenetPageURLs = []string{
	"https://www2.telenet.be/nl/residentieel/aanbod",
	"https://www2.telenet.be/fr/residentiel/offre",
}

var telenetMonthly = MonthlyPrice(
	Expr(`(?i)%s\s*€\s*/\s*(?:maand|mois|month)`),
	Expr(`(?i)€\s*%s\s*per\s*maand`),
)

// telenetPlanType guesses the plan type from the offer name.
func telenetPlanType(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "one") || strings.Contains(n, "bundle") || strings.Contains(n, "pack"):
		return "bundle"
	case strings.Contains(n, "mobile") || strings.Contains(n, "gsm"):
		return "mobile"
	case strings.Contains(n, "tv"):
		return "tv"
	default:
		return "internet"
	}
}

func (t Telenet) Fetch(ctx context.Context, run *RunContext) ([]schema.RawRow, error) {
	page, source, err := FirstText(ctx, run, telenetPageURLs)
	if err != nil {
		return nil, err
	}
	doc, err := Document(page)
	if err != nil {
		return nil, err
	}

	var rows []schema.RawRow
	seen := map[string]bool{}

	for _, obj := range JSONLDObjects(doc) {
		if LDString(obj, "@type") != "Product" {
			continue
		}
		name := LDString(obj, "name")
		price, ok := LDPrice(obj)
		if name == "" || !ok || price <= MonthlyMin || price >= MonthlyMax {
			continue
		}
		rows = append(rows, telenetRow(name, price, source))
		seen[strings.ToLower(name)] = true
	}

	// Fallback: price-per-month tokens paired with card titles.
	if len(rows) == 0 {
		for _, hit := range ScanPrices(doc, telenetMonthly) {
			if hit.Title == "" || seen[strings.ToLower(hit.Title)] {
				continue
			}
			rows = append(rows, telenetRow(hit.Title, hit.Value, source))
			seen[strings.ToLower(hit.Title)] = true
		}
	}
	return rows, nil
}

func telenetRow(name string, price float64, source string) schema.RawRow {
	planType := telenetPlanType(name)
	row := schema.RawRow{
		"provider_id":       "telenet",
		"provider_name":     "Telenet",
		"offer_id":          slugify(name),
		"offer_name":        name,
		"region":            "FLA",
		"plan_type":         planType,
		"monthly_price_eur": price,
		"contract_type":     "FIXED",
		"source_url":        source,
	}
	switch planType {
	case "bundle":
		row["includes_tv"] = true
		row["includes_internet"] = true
		row["includes_mobile"] = true
	case "internet":
		row["includes_internet"] = true
	case "tv":
		row["includes_tv"] = true
	case "mobile":
		row["includes_mobile"] = true
	}
	return row
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
