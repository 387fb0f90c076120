package adapters

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoPattern means none of the candidate patterns yielded a value inside
// its sane range. The caller drops the field (and the row, if required)
// rather than accept an implausible number.
var ErrNoPattern = errors.New("adapters: no pattern matched")

// FieldPattern is one candidate extraction for a tariff dimension: a regex
// whose first capture group is the number, plus the open interval the value
// must fall in. PDF text extraction loses table structure, so each field is
// hunted with an ordered list of these.
type FieldPattern struct {
	Re  *regexp.Regexp
	Min float64 // exclusive
	Max float64 // exclusive
}

// Extract applies the pattern and range-checks the result.
func (p FieldPattern) Extract(text string) (float64, bool) {
	m := p.Re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	v, err := ParseNumber(m[1])
	if err != nil {
		return 0, false
	}
	if v <= p.Min || v >= p.Max {
		return 0, false
	}
	return v, true
}

// ExtractNumber tries the patterns in order and returns the first in-range
// hit. All candidates failing is ErrNoPattern.
func ExtractNumber(text string, patterns []FieldPattern) (float64, error) {
	for _, p := range patterns {
		if v, ok := p.Extract(text); ok {
			return v, nil
		}
	}
	return 0, ErrNoPattern
}

// ParseNumber parses a number the way partner documents write them: comma or
// dot decimals, optional thin/regular spaces as thousand separators.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if n := strings.Count(s, "."); n > 1 {
		// "1.234.56" style: everything but the last dot is a separator.
		i := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:i], ".", "") + s[i:]
	}
	return strconv.ParseFloat(s, 64)
}

// Sane ranges per tariff dimension. Electricity unit prices outside
// (0.01, 1.0) EUR/kWh are extraction artifacts, not tariffs.
const (
	KWhPriceMin = 0.01
	KWhPriceMax = 1.0
	FeeMin      = 0.0
	FeeMax      = 500.0
	MonthlyMin  = 5.0
	MonthlyMax  = 300.0
)

// KWhPrice builds candidate patterns for an energy unit price.
func KWhPrice(exprs ...string) []FieldPattern {
	return build(exprs, KWhPriceMin, KWhPriceMax)
}

// AnnualFee builds candidate patterns for a yearly fixed fee.
func AnnualFee(exprs ...string) []FieldPattern {
	return build(exprs, FeeMin, FeeMax)
}

// MonthlyPrice builds candidate patterns for a telecom monthly price.
func MonthlyPrice(exprs ...string) []FieldPattern {
	return build(exprs, MonthlyMin, MonthlyMax)
}

func build(exprs []string, min, max float64) []FieldPattern {
	out := make([]FieldPattern, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, FieldPattern{Re: regexp.MustCompile(e), Min: min, Max: max})
	}
	return out
}

// num is the capture group shared by the pattern expressions: a decimal with
// comma or dot.
const num = `([0-9]+(?:[.,][0-9]+)?)`

// Expr interpolates the shared number group into a pattern template that
// uses %s as the placeholder.
func Expr(template string) string {
	return fmt.Sprintf(template, num)
}
