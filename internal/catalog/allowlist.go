package catalog

import "fmt"

// Allowlist maps (vertical, country) to the set of provider ids whose offers
// may be served. A country with no entry is unfiltered: every provider is
// allowed. Rows outside the allowlist may stay stored (deactivated or pending
// partners) but must never reach callers.
type Allowlist map[Vertical]map[string][]string

// DefaultAllowlist is the authoritative partner set per market.
var DefaultAllowlist = Allowlist{
	VerticalElectricity: {
		"be": {"engie", "luminus", "mega", "octaplus"},
	},
	VerticalTelecom: {
		"be": {"proximus", "telenet"},
	},
}

// IsPartner reports whether a provider may be exposed for the given market.
func (a Allowlist) IsPartner(vertical Vertical, country, providerID string) bool {
	countries, ok := a[vertical]
	if !ok {
		return true
	}
	providers, ok := countries[country]
	if !ok {
		return true
	}
	for _, id := range providers {
		if id == providerID {
			return true
		}
	}
	return false
}

// Filter is the public read accessor: it returns only rows whose provider is
// an allowed partner for the market. Storage is never mutated.
func (a Allowlist) Filter(rows []Row, vertical Vertical, country string) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if a.IsPartner(vertical, country, row.ProviderID) {
			out = append(out, row)
		}
	}
	return out
}

// Violation is an active catalog row whose provider is not an allowed
// partner. A non-empty audit result is a regression: something wrote an
// unauthorized provider into a served catalog.
type Violation struct {
	ProviderID string
	OfferID    string
	Region     Region
}

func (v Violation) String() string {
	return fmt.Sprintf("%s/%s (%s)", v.ProviderID, v.OfferID, v.Region)
}

// Audit returns every active row outside the allowlist. It only reports; the
// caller decides whether to log or fail.
func (a Allowlist) Audit(rows []Row, vertical Vertical, country string) []Violation {
	var violations []Violation
	for _, row := range rows {
		if !row.IsActive() {
			continue
		}
		if !a.IsPartner(vertical, country, row.ProviderID) {
			violations = append(violations, Violation{
				ProviderID: row.ProviderID,
				OfferID:    row.OfferID,
				Region:     row.Region,
			})
		}
	}
	return violations
}
