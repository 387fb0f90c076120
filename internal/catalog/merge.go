package catalog

// Merge combines freshly validated rows with the existing catalog. Rows whose
// provider is in owned are replaced wholesale by the fresh set; everyone
// else's rows pass through untouched. Duplicate composite keys resolve
// last-write-wins, so a fresh row beats a kept one. The result is sorted for
// deterministic diffs.
//
// Ownership is the caller's decision: an adapter that produced zero valid
// rows must not mark its providers as owned, otherwise a source outage would
// empty its slice of the catalog.
func Merge(existing, fresh []Row, owned map[string]bool) []Row {
	kept := make([]Row, 0, len(existing))
	for _, row := range existing {
		if !owned[row.ProviderID] {
			kept = append(kept, row)
		}
	}

	byKey := make(map[Key]int, len(kept)+len(fresh))
	merged := make([]Row, 0, len(kept)+len(fresh))
	for _, row := range append(kept, fresh...) {
		k := row.Key()
		if i, seen := byKey[k]; seen {
			merged[i] = row
			continue
		}
		byKey[k] = len(merged)
		merged = append(merged, row)
	}

	Sort(merged)
	return merged
}

// Diff summarizes the row-level changes between two catalogs, keyed by the
// composite row key. Used by dry-run to report what a merge would do.
type Diff struct {
	Added   []Key
	Removed []Key
	Changed []Key
}

// Empty reports whether the diff carries no changes.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare computes the diff from old to new.
func Compare(oldRows, newRows []Row) Diff {
	oldByKey := make(map[Key]Row, len(oldRows))
	for _, r := range oldRows {
		oldByKey[r.Key()] = r
	}
	var d Diff
	seen := make(map[Key]bool, len(newRows))
	for _, r := range newRows {
		k := r.Key()
		seen[k] = true
		prev, ok := oldByKey[k]
		if !ok {
			d.Added = append(d.Added, k)
			continue
		}
		if !equalRows(prev, r) {
			d.Changed = append(d.Changed, k)
		}
	}
	for _, r := range oldRows {
		if !seen[r.Key()] {
			d.Removed = append(d.Removed, r.Key())
		}
	}
	return d
}

func equalRows(a, b Row) bool {
	return a.ProviderName == b.ProviderName &&
		a.OfferName == b.OfferName &&
		a.ContractType == b.ContractType &&
		a.MeterType == b.MeterType &&
		equalFloat(a.EnergyPriceDay, b.EnergyPriceDay) &&
		equalFloat(a.EnergyPriceNight, b.EnergyPriceNight) &&
		equalFloat(a.SupplierFixedFeeYear, b.SupplierFixedFeeYear) &&
		equalBool(a.GreenEnergy, b.GreenEnergy) &&
		a.PlanType == b.PlanType &&
		equalFloat(a.MonthlyPriceEUR, b.MonthlyPriceEUR) &&
		equalFloat(a.DownloadSpeedMbps, b.DownloadSpeedMbps) &&
		equalFloat(a.DataGB, b.DataGB) &&
		equalBool(a.IncludesTV, b.IncludesTV) &&
		equalBool(a.IncludesInternet, b.IncludesInternet) &&
		equalBool(a.IncludesMobile, b.IncludesMobile) &&
		equalFloat(a.PromoBonusEUR, b.PromoBonusEUR) &&
		equalString(a.ValidTo, b.ValidTo) &&
		a.SourceURL == b.SourceURL &&
		equalBool(a.Active, b.Active)
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
