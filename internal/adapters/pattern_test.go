package adapters

import (
	"errors"
	"testing"
)

func TestFieldPatternRangeAssertion(t *testing.T) {
	patterns := KWhPrice(Expr(`(?i)prix[^0-9]{0,20}%s`))

	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{"plausible price", "Prix : 0,268 €/kWh", 0.268, true},
		{"dot decimal", "prix 0.305", 0.305, true},
		{"implausibly high", "prix 1250,00", 0, false}, // page total, not a tariff
		{"implausibly low", "prix 0,001", 0, false},
		{"no match", "redevance 42", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractNumber(tt.text, patterns)
			if tt.ok {
				if err != nil {
					t.Fatalf("ExtractNumber() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("got %v, want %v", got, tt.want)
				}
				return
			}
			if !errors.Is(err, ErrNoPattern) {
				t.Errorf("want ErrNoPattern, got %v (value %v)", err, got)
			}
		})
	}
}

func TestExtractNumberOrderedCandidates(t *testing.T) {
	// First pattern misses, second hits: order decides, not "best match".
	patterns := append(
		KWhPrice(Expr(`(?i)monohoraire[^0-9]{0,20}%s`)),
		KWhPrice(Expr(`(?i)tarif simple[^0-9]{0,20}%s`))...,
	)
	got, err := ExtractNumber("Tarif simple 0,245 €/kWh", patterns)
	if err != nil {
		t.Fatalf("ExtractNumber() error = %v", err)
	}
	if got != 0.245 {
		t.Errorf("got %v, want 0.245", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0,268", 0.268},
		{"42", 42},
		{"1 234,56", 1234.56},
		{"1.234,56", 1234.56},
		{" 99.9 ", 99.9},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if err != nil {
			t.Errorf("ParseNumber(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
