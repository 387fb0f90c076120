// Package schema validates raw adapter output against the per-vertical offer
// schema and coerces it into catalog rows. Rows fail independently: one bad
// row never rejects its neighbours.
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"tarifscan/internal/catalog"
)

// RawRow is the loose, source-shaped row an adapter extracts before
// validation. Values may be strings, numbers or bools depending on what the
// upstream document yielded.
type RawRow map[string]any

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	regions        = []string{"ALL", "WAL", "FLA", "BRU"}
	telecomRegions = []string{"ALL", "WAL", "FLA"}
	meterTypes     = []string{"ALL", "MONO", "BI"}
	planTypes      = []string{"bundle", "internet", "mobile", "tv"}
	contractTypes  = []string{"FIXED", "VARIABLE", "REGULATED"}
)

// Validate checks every raw row and returns the coerced valid rows plus the
// count of rejected ones. Rejections are logged with their reasons.
func Validate(raw []RawRow, vertical catalog.Vertical, log zerolog.Logger) ([]catalog.Row, int) {
	valid := make([]catalog.Row, 0, len(raw))
	rejected := 0
	for _, rr := range raw {
		row, reasons := coerce(rr, vertical)
		if len(reasons) > 0 {
			rejected++
			log.Warn().
				Str("vertical", string(vertical)).
				Str("provider_id", stringField(rr, "provider_id")).
				Str("offer_id", stringField(rr, "offer_id")).
				Strs("reasons", reasons).
				Msg("row rejected by schema validation")
			continue
		}
		valid = append(valid, row)
	}
	return valid, rejected
}

func coerce(rr RawRow, vertical catalog.Vertical) (catalog.Row, []string) {
	var reasons []string

	row := catalog.Row{
		ProviderID:   stringField(rr, "provider_id"),
		ProviderName: stringField(rr, "provider_name"),
		OfferID:      stringField(rr, "offer_id"),
		OfferName:    stringField(rr, "offer_name"),
		SourceURL:    stringField(rr, "source_url"),
	}
	for _, f := range []struct{ name, val string }{
		{"provider_id", row.ProviderID},
		{"provider_name", row.ProviderName},
		{"offer_id", row.OfferID},
		{"offer_name", row.OfferName},
		{"source_url", row.SourceURL},
	} {
		if f.val == "" {
			reasons = append(reasons, "missing "+f.name)
		}
	}

	region := stringField(rr, "region")
	allowedRegions := regions
	if vertical == catalog.VerticalTelecom {
		allowedRegions = telecomRegions
	}
	if !oneOf(region, allowedRegions) {
		reasons = append(reasons, fmt.Sprintf("region %q not in %v", region, allowedRegions))
	}
	row.Region = catalog.Region(region)

	contract := stringField(rr, "contract_type")
	if !oneOf(contract, contractTypes) {
		reasons = append(reasons, fmt.Sprintf("contract_type %q not in %v", contract, contractTypes))
	}
	row.ContractType = catalog.ContractType(contract)

	switch vertical {
	case catalog.VerticalElectricity:
		reasons = append(reasons, coerceElectricity(rr, &row)...)
	case catalog.VerticalTelecom:
		reasons = append(reasons, coerceTelecom(rr, &row)...)
	default:
		reasons = append(reasons, fmt.Sprintf("unknown vertical %q", vertical))
	}

	for _, field := range []string{"valid_from", "valid_to"} {
		s, present, err := optionalDate(rr, field)
		if err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		if present {
			v := s
			if field == "valid_from" {
				row.ValidFrom = &v
			} else {
				row.ValidTo = &v
			}
		}
	}
	if b, present, err := optionalBool(rr, "active"); err != nil {
		reasons = append(reasons, err.Error())
	} else if present {
		row.Active = &b
	}

	return row, reasons
}

func coerceElectricity(rr RawRow, row *catalog.Row) []string {
	var reasons []string

	meter := stringField(rr, "meter_type")
	if !oneOf(meter, meterTypes) {
		reasons = append(reasons, fmt.Sprintf("meter_type %q not in %v", meter, meterTypes))
	}
	row.MeterType = catalog.MeterType(meter)

	if v, err := requiredFloat(rr, "energy_price_day"); err != nil {
		reasons = append(reasons, err.Error())
	} else {
		row.EnergyPriceDay = &v
	}
	if v, present, err := optionalFloat(rr, "energy_price_night"); err != nil {
		reasons = append(reasons, err.Error())
	} else if present {
		row.EnergyPriceNight = &v
	}
	if v, err := requiredFloat(rr, "supplier_fixed_fee_year"); err != nil {
		reasons = append(reasons, err.Error())
	} else {
		row.SupplierFixedFeeYear = &v
	}
	if b, present, err := optionalBool(rr, "green_energy"); err != nil {
		reasons = append(reasons, err.Error())
	} else if present {
		row.GreenEnergy = &b
	}

	// A mono meter has no night register.
	if row.MeterType == catalog.MeterMono && row.EnergyPriceNight != nil {
		reasons = append(reasons, "meter_type MONO forbids energy_price_night")
	}
	return reasons
}

func coerceTelecom(rr RawRow, row *catalog.Row) []string {
	var reasons []string

	plan := stringField(rr, "plan_type")
	if !oneOf(plan, planTypes) {
		reasons = append(reasons, fmt.Sprintf("plan_type %q not in %v", plan, planTypes))
	}
	row.PlanType = catalog.PlanType(plan)

	if v, err := requiredFloat(rr, "monthly_price_eur"); err != nil {
		reasons = append(reasons, err.Error())
	} else {
		row.MonthlyPriceEUR = &v
	}
	if v, present, err := optionalFloat(rr, "download_speed_mbps"); err != nil {
		reasons = append(reasons, err.Error())
	} else if present {
		row.DownloadSpeedMbps = &v
	}
	if v, present, err := optionalFloat(rr, "data_gb"); err != nil {
		reasons = append(reasons, err.Error())
	} else if present {
		row.DataGB = &v
	}
	for _, f := range []struct {
		name string
		dst  **bool
	}{
		{"includes_tv", &row.IncludesTV},
		{"includes_internet", &row.IncludesInternet},
		{"includes_mobile", &row.IncludesMobile},
	} {
		if b, present, err := optionalBool(rr, f.name); err != nil {
			reasons = append(reasons, err.Error())
		} else if present {
			v := b
			*f.dst = &v
		}
	}
	if v, present, err := optionalFloat(rr, "promo_bonus_eur"); err != nil {
		reasons = append(reasons, err.Error())
	} else if present {
		row.PromoBonusEUR = &v
	}

	// Only mobile plans carry a data volume.
	if row.PlanType != catalog.PlanMobile && row.DataGB != nil {
		reasons = append(reasons, fmt.Sprintf("plan_type %s forbids data_gb", row.PlanType))
	}
	return reasons
}

func stringField(rr RawRow, key string) string {
	if v, ok := rr[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func oneOf(v string, domain []string) bool {
	for _, d := range domain {
		if v == d {
			return true
		}
	}
	return false
}

func requiredFloat(rr RawRow, key string) (float64, error) {
	v, present, err := optionalFloat(rr, key)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, fmt.Errorf("missing %s", key)
	}
	return v, nil
}

func optionalFloat(rr RawRow, key string) (float64, bool, error) {
	v, ok := rr[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch t := v.(type) {
	case float64:
		return t, true, nil
	case float32:
		return float64(t), true, nil
	case int:
		return float64(t), true, nil
	case int64:
		return float64(t), true, nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s: not a number: %q", key, t)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("%s: unsupported type %T", key, v)
	}
}

func optionalBool(rr RawRow, key string) (bool, bool, error) {
	v, ok := rr[key]
	if !ok || v == nil {
		return false, false, nil
	}
	switch t := v.(type) {
	case bool:
		return t, true, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			return true, true, nil
		case "false", "0", "no":
			return false, true, nil
		}
		return false, false, fmt.Errorf("%s: not a bool: %q", key, t)
	default:
		return false, false, fmt.Errorf("%s: unsupported type %T", key, v)
	}
}

func optionalDate(rr RawRow, key string) (string, bool, error) {
	v, ok := rr[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("%s: unsupported type %T", key, v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, nil
	}
	if !dateRe.MatchString(s) {
		return "", false, fmt.Errorf("%s: not a YYYY-MM-DD date: %q", key, s)
	}
	return s, true, nil
}
