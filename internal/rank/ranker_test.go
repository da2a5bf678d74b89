package rank

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

func testRegistry(t *testing.T) *sites.Registry {
	t.Helper()
	reg, err := sites.Load("")
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg
}

func offer(platform string, price int64, deliveryMax int, matchScore float64, order int) models.NormalizedOffer {
	p := decimal.NewFromInt(price)
	o := models.NormalizedOffer{
		Platform:       platform,
		PlatformName:   platform,
		Title:          platform + " offer",
		EffectivePrice: &p,
		MatchScore:     matchScore,
		ScrapeOrder:    order,
	}
	if deliveryMax >= 0 {
		d := deliveryMax
		o.DeliveryDaysMax = &d
	}
	return o
}

func TestRankCheapestPrefersLowestPrice(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	offers := []models.NormalizedOffer{
		offer("amazon", 70000, 2, 0.9, 0),
		offer("croma", 60000, 6, 0.9, 1),
	}
	ranked := r.Rank(offers, models.ModeCheapest)
	if ranked[0].Platform != "croma" {
		t.Errorf("cheapest mode ranked %s first, want croma", ranked[0].Platform)
	}
}

func TestRankFastestPrefersQuickDelivery(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	offers := []models.NormalizedOffer{
		offer("amazon", 60000, 1, 0.9, 0),
		offer("croma", 59000, 7, 0.9, 1),
	}
	ranked := r.Rank(offers, models.ModeFastest)
	if ranked[0].Platform != "amazon" {
		t.Errorf("fastest mode ranked %s first, want amazon", ranked[0].Platform)
	}
}

func TestRankReliablePrefersTrustedPlatform(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	// amazon's configured trust beats vijay_sales at the same price
	offers := []models.NormalizedOffer{
		offer("vijay_sales", 60000, 3, 0.9, 0),
		offer("amazon", 60000, 3, 0.9, 1),
	}
	ranked := r.Rank(offers, models.ModeReliable)
	if ranked[0].Platform != "amazon" {
		t.Errorf("reliable mode ranked %s first, want amazon", ranked[0].Platform)
	}
}

func TestRankIdempotent(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	offers := []models.NormalizedOffer{
		offer("amazon", 70000, 2, 0.9, 0),
		offer("flipkart", 65000, 3, 0.8, 1),
		offer("croma", 60000, 6, 0.7, 2),
	}
	first := r.Rank(offers, models.ModeBalanced)
	second := r.Rank(offers, models.ModeBalanced)
	for i := range first {
		if first[i].Platform != second[i].Platform || first[i].Rank != second[i].Rank {
			t.Fatalf("ranking not idempotent at %d: %s vs %s", i, first[i].Platform, second[i].Platform)
		}
	}
}

func TestRankModeChangesOrderNotMembership(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	offers := []models.NormalizedOffer{
		offer("amazon", 70000, 1, 0.9, 0),
		offer("flipkart", 65000, 4, 0.8, 1),
		offer("croma", 60000, 6, 0.7, 2),
	}
	members := func(ranked []models.NormalizedOffer) map[string]bool {
		m := make(map[string]bool)
		for _, o := range ranked {
			m[o.Platform] = true
		}
		return m
	}
	cheap := members(r.Rank(offers, models.ModeCheapest))
	fast := members(r.Rank(offers, models.ModeFastest))
	if !reflect.DeepEqual(cheap, fast) {
		t.Errorf("mode changed membership: %v vs %v", cheap, fast)
	}
}

func TestRankModeKeepsMembershipUnderSiteCap(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	// One site floods past the cap, with price and delivery speed
	// inversely correlated so cheapest and fastest favour opposite ends.
	var offers []models.NormalizedOffer
	for i := 0; i < 7; i++ {
		offers = append(offers, offer("amazon", int64(100+i*100), 7-i, 0.9, i))
	}
	members := func(ranked []models.NormalizedOffer) map[string]bool {
		m := make(map[string]bool)
		for _, o := range ranked {
			m[o.EffectivePrice.String()] = true
		}
		return m
	}
	cheap := r.Rank(offers, models.ModeCheapest)
	fast := r.Rank(offers, models.ModeFastest)
	if len(cheap) != maxPerSite || len(fast) != maxPerSite {
		t.Fatalf("got %d and %d offers, want %d each", len(cheap), len(fast), maxPerSite)
	}
	if got, want := members(cheap), members(fast); !reflect.DeepEqual(got, want) {
		t.Errorf("mode changed membership: %v vs %v", got, want)
	}
	if !members(fast)["100"] {
		t.Error("fastest mode dropped the 100 rupee offer from the member set")
	}
}

func TestRankTieBreaks(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	// Same platform, same price range characteristics; match score decides
	a := offer("amazon", 60000, 3, 0.95, 1)
	b := offer("amazon", 60000, 3, 0.80, 0)
	ranked := r.Rank([]models.NormalizedOffer{b, a}, models.ModeBalanced)
	if ranked[0].MatchScore != 0.95 {
		t.Errorf("tie should break on match score, got %v first", ranked[0].MatchScore)
	}

	// Equal scores: earlier scrape order wins
	c := offer("amazon", 60000, 3, 0.9, 5)
	d := offer("amazon", 60000, 3, 0.9, 2)
	ranked = r.Rank([]models.NormalizedOffer{c, d}, models.ModeBalanced)
	if ranked[0].ScrapeOrder != 2 {
		t.Errorf("tie should break on scrape order, got %d first", ranked[0].ScrapeOrder)
	}
}

func TestRankBadges(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	offers := []models.NormalizedOffer{
		offer("amazon", 70000, 1, 0.9, 0),
		offer("croma", 60000, 6, 0.9, 1),
		offer("flipkart", 65000, 3, 0.9, 2),
	}
	ranked := r.Rank(offers, models.ModeBalanced)

	holders := make(map[string]string)
	for _, o := range ranked {
		for _, b := range o.Badges {
			holders[b] = o.Platform
		}
	}
	if holders["Recommended"] != ranked[0].Platform {
		t.Errorf("Recommended on %s, want top-ranked %s", holders["Recommended"], ranked[0].Platform)
	}
	if holders["Lowest Price"] != "croma" {
		t.Errorf("Lowest Price on %s, want croma", holders["Lowest Price"])
	}
	if holders["Fastest Delivery"] != "amazon" {
		t.Errorf("Fastest Delivery on %s, want amazon", holders["Fastest Delivery"])
	}
	if holders["Most Trusted"] == "" {
		t.Error("Most Trusted not assigned")
	}
}

func TestRankRanksAreSequential(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	offers := []models.NormalizedOffer{
		offer("amazon", 70000, 2, 0.9, 0),
		offer("flipkart", 65000, 3, 0.8, 1),
	}
	ranked := r.Rank(offers, models.ModeBalanced)
	for i, o := range ranked {
		if o.Rank != i+1 {
			t.Errorf("offer %d has rank %d", i, o.Rank)
		}
	}
}

func TestRankCapsOffersPerSite(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	var offers []models.NormalizedOffer
	for i := 0; i < 8; i++ {
		offers = append(offers, offer("amazon", int64(60000+i*100), 3, 0.9, i))
	}
	ranked := r.Rank(offers, models.ModeBalanced)
	if len(ranked) != maxPerSite {
		t.Errorf("got %d offers from one site, want %d", len(ranked), maxPerSite)
	}
}

func TestRankSkipsNilPrices(t *testing.T) {
	r := New(testRegistry(t), zerolog.Nop())
	offers := []models.NormalizedOffer{
		{Platform: "amazon", MatchScore: 0.9},
		offer("croma", 60000, 3, 0.9, 1),
	}
	ranked := r.Rank(offers, models.ModeBalanced)
	if len(ranked) != 1 || ranked[0].Platform != "croma" {
		t.Errorf("nil-price offer should not rank, got %v", ranked)
	}
}
