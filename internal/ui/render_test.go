package ui

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

func TestGroupIndian(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"999", "999"},
		{"1299", "1,299"},
		{"61999", "61,999"},
		{"129999", "1,29,999"},
		{"12999999", "1,29,99,999"},
	}
	for _, tt := range tests {
		if got := groupIndian(tt.in); got != tt.want {
			t.Errorf("groupIndian(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeliveryCell(t *testing.T) {
	day := func(n int) *int { return &n }
	tests := []struct {
		name  string
		offer models.NormalizedOffer
		want  string
	}{
		{"unknown", models.NormalizedOffer{}, "-"},
		{"today", models.NormalizedOffer{DeliveryDaysMin: day(0), DeliveryDaysMax: day(0)}, "today"},
		{"single", models.NormalizedOffer{DeliveryDaysMin: day(2), DeliveryDaysMax: day(2)}, "2 days"},
		{"range", models.NormalizedOffer{DeliveryDaysMin: day(2), DeliveryDaysMax: day(5)}, "2-5 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deliveryCell(tt.offer); got != tt.want {
				t.Errorf("deliveryCell() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderResult(t *testing.T) {
	price := decimal.NewFromInt(129999)
	day := 2
	r := &models.Result{
		Query:  models.Query{SearchQuery: "samsung galaxy s24 ultra", Mode: models.ModeCheapest},
		Offers: []models.NormalizedOffer{{
			Rank:            1,
			PlatformName:    "Amazon India",
			EffectivePrice:  &price,
			DeliveryDaysMax: &day,
			DeliveryDaysMin: &day,
			Breakdown:       models.ScoreBreakdown{Final: 0.871},
			Badges:          []string{"Recommended"},
		}},
		Statuses: []models.SiteStatus{
			{Site: "amazon", Status: models.StatusOK, ListingsFound: 8},
			{Site: "croma", Status: models.StatusTimeout},
		},
		Explanation: "Amazon wins on price.",
		RawCount:    12,
		Matched:     5,
	}

	var b strings.Builder
	RenderResult(&b, r)
	out := b.String()

	for _, want := range []string{
		"samsung galaxy s24 ultra",
		"₹1,29,999",
		"Amazon India",
		"Recommended",
		"amazon (8 listings",
		"croma (timeout)",
		"Amazon wins on price.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
