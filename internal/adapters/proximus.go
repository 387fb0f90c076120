package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"tarifscan/internal/platform"
	"tarifscan/internal/schema"
)

// Proximus provides a partner feed rather than a scrapeable page; the feed
// URL is agreed per contract and configured through the environment. An
// unset URL skips the source, it is not an error.
type Proximus struct{}

func (Proximus) ID() string    { return "proximus" }
func (Proximus) Label() string { return "Proximus" }

// proximusPlan mirrors the partner feed format.
type proximusPlan struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"` // bundle, internet, mobile, tv
	MonthlyPrice  float64  `json:"monthly_price"`
	DownloadMbps  *float64 `json:"download_mbps"`
	DataGB        *float64 `json:"data_gb"`
	TV            bool     `json:"tv"`
	Internet      bool     `json:"internet"`
	Mobile        bool     `json:"mobile"`
	PromoEUR      *float64 `json:"promo_eur"`
	Regions       []string `json:"regions"`
}

func (p Proximus) Fetch(ctx context.Context, run *RunContext) ([]schema.RawRow, error) {
	feedURL := platform.SourceURLEnv(p.ID())
	if feedURL == "" {
		return nil, ErrNotConfigured
	}
	body, err := run.Fetch.Text(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	var plans []proximusPlan
	if err := json.Unmarshal([]byte(body), &plans); err != nil {
		return nil, fmt.Errorf("proximus: feed parse: %w", err)
	}

	var rows []schema.RawRow
	for _, plan := range plans {
		if plan.MonthlyPrice <= MonthlyMin || plan.MonthlyPrice >= MonthlyMax {
			run.Log.Warn().Str("plan", plan.ID).Float64("price", plan.MonthlyPrice).
				Msg("proximus: monthly price out of range, plan dropped")
			continue
		}
		regions := plan.Regions
		if len(regions) == 0 {
			regions = []string{"ALL"}
		}
		for _, region := range regions {
			row := schema.RawRow{
				"provider_id":       "proximus",
				"provider_name":     "Proximus",
				"offer_id":          plan.ID,
				"offer_name":        plan.Name,
				"region":            region,
				"plan_type":         plan.Type,
				"monthly_price_eur": plan.MonthlyPrice,
				"includes_tv":       plan.TV,
				"includes_internet": plan.Internet,
				"includes_mobile":   plan.Mobile,
				"contract_type":     "FIXED",
				"source_url":        feedURL,
			}
			if plan.DownloadMbps != nil {
				row["download_speed_mbps"] = *plan.DownloadMbps
			}
			// The feed repeats the bundled mobile data on every plan; the
			// catalog only stores it for mobile plans.
			if plan.DataGB != nil && plan.Type == "mobile" {
				row["data_gb"] = *plan.DataGB
			}
			if plan.PromoEUR != nil {
				row["promo_bonus_eur"] = *plan.PromoEUR
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
