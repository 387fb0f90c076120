package adapters

import (
	"testing"

	"github.com/rs/zerolog"
)

const megaPage = `<!doctype html>
<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Product","name":"Electricité Online",
 "offers":{"@type":"Offer","price":"0.231","priceCurrency":"EUR"}}
</script>
</head><body>
<h1>Nos tarifs</h1>
<p>Redevance fixe : 49,90 € / an</p>
</body></html>`

const megaPageNoFee = `<!doctype html>
<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Product","name":"Electricité Online",
 "offers":{"@type":"Offer","price":"0.231","priceCurrency":"EUR"}}
</script>
</head><body><h1>Nos tarifs</h1></body></html>`

func TestMegaParse(t *testing.T) {
	rows, err := megaParse(megaPage, "https://example.test/tarifs", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0]["energy_price_day"]; got != 0.231 {
		t.Errorf("energy_price_day = %v, want 0.231", got)
	}
	if got := rows[0]["supplier_fixed_fee_year"]; got != 49.90 {
		t.Errorf("supplier_fixed_fee_year = %v, want 49.90", got)
	}
}

func TestMegaParseRejectsPageWithoutFee(t *testing.T) {
	rows, err := megaParse(megaPageNoFee, "https://example.test/tarifs", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want none: a page without the fixed fee must not yield an offer", len(rows))
	}
}
