package catalog

import (
	"reflect"
	"testing"
)

func f(v float64) *float64 { return &v }

func electricityRow(provider, offer string, region Region, price float64) Row {
	return Row{
		ProviderID:           provider,
		ProviderName:         provider,
		OfferID:              offer,
		OfferName:            offer,
		Region:               region,
		MeterType:            MeterMono,
		EnergyPriceDay:       f(price),
		SupplierFixedFeeYear: f(40),
		ContractType:         ContractVariable,
		SourceURL:            "https://example.test/tarifs",
	}
}

func TestMergeReplacesOwnedProviders(t *testing.T) {
	existing := []Row{
		electricityRow("engie", "easy", RegionWallonia, 0.25),
		electricityRow("luminus", "comfy", RegionAll, 0.22),
	}
	fresh := []Row{electricityRow("engie", "easy", RegionWallonia, 0.27)}

	merged := Merge(existing, fresh, map[string]bool{"engie": true})

	if len(merged) != 2 {
		t.Fatalf("got %d rows, want 2", len(merged))
	}
	for _, row := range merged {
		if row.ProviderID == "engie" && *row.EnergyPriceDay != 0.27 {
			t.Errorf("engie row not replaced, price = %v", *row.EnergyPriceDay)
		}
	}
}

func TestMergeIdempotence(t *testing.T) {
	fresh := []Row{
		electricityRow("engie", "easy", RegionWallonia, 0.27),
		electricityRow("engie", "easy", RegionFlanders, 0.26),
	}
	owned := map[string]bool{"engie": true}

	once := Merge(nil, fresh, owned)
	twice := Merge(once, fresh, owned)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging identical fresh rows twice changed the catalog:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeIsolation(t *testing.T) {
	untouched := electricityRow("mega", "online", RegionAll, 0.21)
	existing := []Row{untouched, electricityRow("engie", "easy", RegionWallonia, 0.25)}
	fresh := []Row{electricityRow("engie", "easy", RegionWallonia, 0.28)}

	merged := Merge(existing, fresh, map[string]bool{"engie": true})

	var got *Row
	for i := range merged {
		if merged[i].ProviderID == "mega" {
			got = &merged[i]
		}
	}
	if got == nil {
		t.Fatal("mega row missing after merge")
	}
	if !reflect.DeepEqual(*got, untouched) {
		t.Errorf("untouched provider row changed: %+v", *got)
	}
}

func TestMergeZeroRowSafety(t *testing.T) {
	existing := []Row{electricityRow("engie", "easy", RegionWallonia, 0.25)}

	// The adapter produced nothing, so its providers are not owned.
	merged := Merge(existing, nil, map[string]bool{})

	if len(merged) != 1 || merged[0].ProviderID != "engie" {
		t.Fatalf("existing rows not preserved on zero-row run: %+v", merged)
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	stale := electricityRow("engie", "easy", RegionWallonia, 0.20)
	fresh := electricityRow("engie", "easy", RegionWallonia, 0.30)

	merged := Merge(nil, []Row{stale, fresh}, nil)

	if len(merged) != 1 {
		t.Fatalf("duplicate key not deduplicated, got %d rows", len(merged))
	}
	if *merged[0].EnergyPriceDay != 0.30 {
		t.Errorf("last write did not win: price = %v", *merged[0].EnergyPriceDay)
	}
}

func TestMergeSortsDeterministically(t *testing.T) {
	fresh := []Row{
		electricityRow("octaplus", "fixed", RegionAll, 0.24),
		electricityRow("engie", "easy", RegionWallonia, 0.25),
		electricityRow("engie", "easy", RegionBrussels, 0.25),
	}
	merged := Merge(nil, fresh, nil)

	want := []struct {
		provider string
		region   Region
	}{
		{"engie", RegionBrussels},
		{"engie", RegionWallonia},
		{"octaplus", RegionAll},
	}
	for i, w := range want {
		if merged[i].ProviderID != w.provider || merged[i].Region != w.region {
			t.Errorf("position %d: got %s/%s, want %s/%s",
				i, merged[i].ProviderID, merged[i].Region, w.provider, w.region)
		}
	}
}

func TestCompareDiff(t *testing.T) {
	oldRows := []Row{
		electricityRow("engie", "easy", RegionWallonia, 0.25),
		electricityRow("mega", "online", RegionAll, 0.21),
	}
	newRows := []Row{
		electricityRow("engie", "easy", RegionWallonia, 0.27), // changed
		electricityRow("luminus", "comfy", RegionAll, 0.22),   // added
	}

	d := Compare(oldRows, newRows)

	if len(d.Added) != 1 || d.Added[0].ProviderID != "luminus" {
		t.Errorf("added = %v", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0].ProviderID != "mega" {
		t.Errorf("removed = %v", d.Removed)
	}
	if len(d.Changed) != 1 || d.Changed[0].ProviderID != "engie" {
		t.Errorf("changed = %v", d.Changed)
	}
	if d.Empty() {
		t.Error("diff reported empty")
	}
}
