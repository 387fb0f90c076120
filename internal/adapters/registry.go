package adapters

import "tarifscan/internal/catalog"

// Target binds an adapter to the catalog file it feeds and the provider ids
// it owns there. Adding a source means adding one entry here; the
// validate/merge/serve path never changes.
type Target struct {
	Adapter   Adapter
	Vertical  catalog.Vertical
	Country   string
	File      string // catalog file name under the data dir
	Providers []string
}

// Registry returns every registered sync target in execution order.
func Registry() []Target {
	return []Target{
		{Adapter: Engie{}, Vertical: catalog.VerticalElectricity, Country: "be", File: "electricity_be.json", Providers: []string{"engie"}},
		{Adapter: Luminus{}, Vertical: catalog.VerticalElectricity, Country: "be", File: "electricity_be.json", Providers: []string{"luminus"}},
		{Adapter: Mega{}, Vertical: catalog.VerticalElectricity, Country: "be", File: "electricity_be.json", Providers: []string{"mega"}},
		{Adapter: OctaPlus{}, Vertical: catalog.VerticalElectricity, Country: "be", File: "electricity_be.json", Providers: []string{"octaplus"}},
		{Adapter: Proximus{}, Vertical: catalog.VerticalTelecom, Country: "be", File: "telecom_be.json", Providers: []string{"proximus"}},
		{Adapter: Telenet{}, Vertical: catalog.VerticalTelecom, Country: "be", File: "telecom_be.json", Providers: []string{"telenet"}},
	}
}
