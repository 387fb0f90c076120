package adapters

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunContextValidFrom(t *testing.T) {
	now := time.Date(2026, time.August, 14, 0, 0, 0, 0, time.UTC)
	run := NewRunContext(nil, zerolog.Nop(), now)

	if run.CurrentMonth != "2026-08" || run.PreviousMonth != "2026-07" {
		t.Fatalf("months = %s / %s, want 2026-08 / 2026-07", run.CurrentMonth, run.PreviousMonth)
	}

	tests := []struct {
		source string
		want   string
	}{
		{"https://www.engie.be/tarifs/easy-indexed_wallonie_2026-08_fr.pdf", "2026-08-01"},
		{"https://www.engie.be/tarifs/easy-indexed_wallonie_2026-07_nl.pdf", "2026-07-01"},
		{"https://www.mega.be/fr/electricite/tarifs", "2026-08-01"},
	}
	for _, tt := range tests {
		if got := run.ValidFrom(tt.source); got != tt.want {
			t.Errorf("ValidFrom(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}
