package compare

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"tarifscan/internal/catalog"
	"tarifscan/pkg/billing"
	"tarifscan/pkg/money"
)

// MinSavingsEUR is the floor under which a switch is not worth proposing.
const MinSavingsEUR = 10.0

// MaxResults caps the ranked output.
const MaxResults = 3

// RankedOffer is one proposed alternative, ephemeral per request.
type RankedOffer struct {
	Provider            string   `json:"provider"`
	Plan                string   `json:"plan"`
	AnnualCostEUR       float64  `json:"annual_cost_eur"`
	EstimatedSavingsEUR float64  `json:"estimated_savings"`
	SavingsPercent      float64  `json:"savings_percent"`
	Tags                []string `json:"tags,omitempty"`
}

// CompareElectricity ranks catalog offers against an electricity bill. The
// returned breakdown is the normalized annual cost computed from the bill's
// own tariff inputs. Insufficient data yields an empty slice, never an
// error: the caller presents a "not enough information" outcome.
func CompareElectricity(bill billing.ExtractedBill, rows []catalog.Row) ([]RankedOffer, CostBreakdown) {
	breakdown := billBreakdown(bill)

	current, ok := currentAnnualCost(bill)
	if !ok {
		return nil, breakdown
	}
	consumption := totalConsumption(bill)
	if consumption <= 0 {
		return nil, breakdown
	}

	var candidates []RankedOffer
	for _, row := range rows {
		if !row.IsActive() || sameProvider(row.ProviderName, bill.Provider) {
			continue
		}
		if !regionMatches(row.Region, bill.Region) {
			continue
		}
		cost, ok := offerAnnualCost(row, bill, consumption)
		if !ok {
			continue
		}
		candidates = append(candidates, rankOffer(row, cost, current, electricityTags(row)))
	}
	return finalize(candidates), breakdown
}

// CompareTelecom ranks telecom offers against a telecom bill.
func CompareTelecom(bill billing.ExtractedTelecomBill, rows []catalog.Row) []RankedOffer {
	if bill.MonthlyPriceEUR == nil || *bill.MonthlyPriceEUR <= 0 {
		return nil
	}
	current := *bill.MonthlyPriceEUR * 12

	var candidates []RankedOffer
	for _, row := range rows {
		if !row.IsActive() || sameProvider(row.ProviderName, bill.Provider) {
			continue
		}
		if !regionMatches(row.Region, bill.Region) {
			continue
		}
		if !planCompatible(bill.PlanType, row.PlanType) {
			continue
		}
		if row.MonthlyPriceEUR == nil {
			continue
		}
		cost := *row.MonthlyPriceEUR * 12
		if row.PromoBonusEUR != nil {
			cost += *row.PromoBonusEUR
		}
		candidates = append(candidates, rankOffer(row, cost, current, telecomTags(row)))
	}
	return finalize(candidates)
}

// planCompatible implements the bundle/specific matching rule: a bundle
// current plan accepts anything; a specific plan accepts its own type or a
// bundle offer.
func planCompatible(current string, offer catalog.PlanType) bool {
	if current == "" || current == string(catalog.PlanBundle) {
		return true
	}
	return string(offer) == current || offer == catalog.PlanBundle
}

func rankOffer(row catalog.Row, cost, current float64, tags []string) RankedOffer {
	savings := money.Round(current - cost)
	percent := 0.0
	if current > 0 {
		percent = money.Round(savings / current * 100)
	}
	return RankedOffer{
		Provider:            row.ProviderName,
		Plan:                row.OfferName,
		AnnualCostEUR:       money.Round2(cost),
		EstimatedSavingsEUR: savings,
		SavingsPercent:      percent,
		Tags:                tags,
	}
}

func finalize(candidates []RankedOffer) []RankedOffer {
	kept := candidates[:0]
	for _, c := range candidates {
		if c.EstimatedSavingsEUR > MinSavingsEUR {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].EstimatedSavingsEUR > kept[j].EstimatedSavingsEUR
	})
	if len(kept) > MaxResults {
		kept = kept[:MaxResults]
	}
	return kept
}

// currentAnnualCost estimates the bill's annual cost with the first strategy
// that has its inputs: explicit annual total, tariff reconstruction, then
// pro-rated period total.
func currentAnnualCost(bill billing.ExtractedBill) (float64, bool) {
	annual := isAnnualPeriod(bill.PeriodLabel)
	if annual && bill.TotalAmountEUR != nil && *bill.TotalAmountEUR > 0 {
		return *bill.TotalAmountEUR, true
	}
	if bill.UnitPriceEURKWh != nil && *bill.UnitPriceEURKWh > 0 {
		if c := totalConsumption(bill); c > 0 {
			cost := *bill.UnitPriceEURKWh * c
			if bill.FixedFeeYearEUR != nil {
				cost += *bill.FixedFeeYearEUR
			}
			return cost, true
		}
	}
	if bill.TotalAmountEUR != nil && *bill.TotalAmountEUR > 0 {
		months := periodMonths(bill.PeriodLabel)
		return *bill.TotalAmountEUR * 12 / float64(months), true
	}
	return 0, false
}

func totalConsumption(bill billing.ExtractedBill) float64 {
	if bill.ConsumptionKWh != nil && *bill.ConsumptionKWh > 0 {
		return *bill.ConsumptionKWh
	}
	var total float64
	if bill.ConsumptionDayKWh != nil {
		total += *bill.ConsumptionDayKWh
	}
	if bill.ConsumptionNightKWh != nil {
		total += *bill.ConsumptionNightKWh
	}
	return total
}

// offerAnnualCost computes a catalog offer's energy-side annual cost for the
// bill's consumption. Bi-hourly offers need the bill's day/night split.
func offerAnnualCost(row catalog.Row, bill billing.ExtractedBill, consumption float64) (float64, bool) {
	if row.EnergyPriceDay == nil {
		return 0, false
	}
	fee := 0.0
	if row.SupplierFixedFeeYear != nil {
		fee = *row.SupplierFixedFeeYear
	}
	if row.MeterType == catalog.MeterBi {
		if row.EnergyPriceNight == nil || bill.ConsumptionDayKWh == nil || bill.ConsumptionNightKWh == nil {
			return 0, false
		}
		return *row.EnergyPriceDay**bill.ConsumptionDayKWh +
			*row.EnergyPriceNight**bill.ConsumptionNightKWh + fee, true
	}
	return *row.EnergyPriceDay*consumption + fee, true
}

func billBreakdown(bill billing.ExtractedBill) CostBreakdown {
	in := NormalizeInput{Region: bill.Region}
	if bill.UnitPriceEURKWh != nil {
		in.PriceDay = *bill.UnitPriceEURKWh
	}
	if bill.FixedFeeYearEUR != nil {
		in.FixedFeeYear = *bill.FixedFeeYearEUR
	}
	in.ConsumptionKWh = totalConsumption(bill)
	out := Normalize(in)

	if bill.ProsumerAmountEUR != nil && bill.ProsumerPeriodDays != nil {
		if surcharge := ProsumerSurcharge(*bill.ProsumerAmountEUR, *bill.ProsumerPeriodDays); surcharge > 0 {
			out.ProsumerSurchargeEUR = surcharge
			out.TotalWithProsumerTVAC = money.Round2(out.TotalTVAC + surcharge)
			out.Assumptions = append(out.Assumptions,
				"prosumer surcharge annualized from the billed period; excluded from offer ranking")
		}
	}
	return out
}

// sameProvider matches case-insensitively, treating a whole-word prefix as
// the same brand so "ENGIE" on the bill excludes "ENGIE Electrabel" rows.
// Plain substring would also exclude distinct brands ("Mega" vs "Megawatt").
func sameProvider(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.HasPrefix(a, b+" ") || strings.HasPrefix(b, a+" ")
}

func regionMatches(offer catalog.Region, billRegion string) bool {
	if offer == catalog.RegionAll || billRegion == "" {
		return true
	}
	return string(offer) == billRegion
}

var (
	annualRe  = regexp.MustCompile(`(?i)year|annual|annuel|jaar`)
	quarterRe = regexp.MustCompile(`(?i)quarter|trimest|kwartaal`)
	rangeRe   = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})\s*[-–]\s*(\d{2})/(\d{2})/(\d{4})`)
)

func isAnnualPeriod(label string) bool {
	return annualRe.MatchString(label) || periodMonths(label) == 12
}

// periodMonths reads the billing period length out of the raw label.
// Unrecognized labels default to one month, the most common cadence.
func periodMonths(label string) int {
	switch {
	case annualRe.MatchString(label):
		return 12
	case quarterRe.MatchString(label):
		return 3
	}
	if m := rangeRe.FindStringSubmatch(label); m != nil {
		start, err1 := time.Parse("02/01/2006", m[1]+"/"+m[2]+"/"+m[3])
		end, err2 := time.Parse("02/01/2006", m[4]+"/"+m[5]+"/"+m[6])
		if err1 == nil && err2 == nil && end.After(start) {
			months := int(end.Sub(start).Hours()/24/30.44 + 0.5)
			if months < 1 {
				months = 1
			}
			if months > 12 {
				months = 12
			}
			return months
		}
	}
	return 1
}

func electricityTags(row catalog.Row) []string {
	var tags []string
	if row.GreenEnergy != nil && *row.GreenEnergy {
		tags = append(tags, "green")
	}
	if row.ContractType == catalog.ContractFixed {
		tags = append(tags, "fixed")
	}
	return tags
}

func telecomTags(row catalog.Row) []string {
	var tags []string
	if row.PromoBonusEUR != nil && *row.PromoBonusEUR < 0 {
		tags = append(tags, "promo")
	}
	if row.PlanType == catalog.PlanBundle {
		tags = append(tags, "bundle")
	}
	return tags
}
