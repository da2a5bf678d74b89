package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/extract"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/match"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/orchestrate"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/plan"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/rank"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// canned scraper returns one plausible listing per site without any
// browser involved.
type cannedScraper struct {
	empty bool
}

func (s *cannedScraper) Scrape(_ context.Context, target sites.Target, q models.Query) ([]models.RawListing, models.SiteStatus) {
	if s.empty {
		return nil, models.SiteStatus{Site: target.Key, Name: target.Name, Status: models.StatusNoResults}
	}
	listing := models.RawListing{
		SiteKey:       target.Key,
		Title:         "Samsung Galaxy S24 5G (Onyx Black, 256GB)",
		PriceText:     "₹61,999",
		OriginalPrice: "₹79,999",
		RatingText:    "4.5 out of 5 stars",
		DeliveryText:  "delivery by tomorrow",
		URL:           fmt.Sprintf("https://%s.example/p/galaxy-s24", target.Key),
		CapturedAt:    time.Now(),
	}
	return []models.RawListing{listing}, models.SiteStatus{
		Site: target.Key, Name: target.Name, Status: models.StatusOK, ListingsFound: 1,
	}
}

type cannedExplainer struct{ text string }

func (e *cannedExplainer) Explain(context.Context, []models.NormalizedOffer, models.RankMode, string) (string, error) {
	return e.text, nil
}

func newTestPipeline(t *testing.T, scraper orchestrate.Scraper, explainer Explainer) *Pipeline {
	t.Helper()
	registry, err := sites.Load("")
	if err != nil {
		t.Fatal(err)
	}
	log := zerolog.Nop()
	return New(
		plan.New(registry, nil, log),
		orchestrate.New(scraper, 4, 5*time.Second, log),
		extract.New(registry, nil, log),
		match.New(match.DefaultConfig(), nil, log),
		rank.New(registry, log),
		explainer,
		log,
	)
}

func TestRunEndToEnd(t *testing.T) {
	p := newTestPipeline(t, &cannedScraper{}, &cannedExplainer{text: "Both offers are identically priced."})

	result, err := p.Run(context.Background(), "samsung galaxy s24 256gb", models.ModeCheapest,
		Options{Sites: []string{"amazon", "flipkart"}})
	if err != nil {
		t.Fatal(err)
	}

	if result.RawCount != 2 {
		t.Errorf("RawCount = %d, want 2", result.RawCount)
	}
	if result.Matched != 2 {
		t.Errorf("Matched = %d, want 2", result.Matched)
	}
	if len(result.Offers) != 2 {
		t.Fatalf("got %d offers, want 2", len(result.Offers))
	}
	for i, o := range result.Offers {
		if o.Rank != i+1 {
			t.Errorf("offer %d has rank %d", i, o.Rank)
		}
		if o.EffectivePrice == nil {
			t.Errorf("offer %d lost its price", i)
		}
		if o.MatchScore < 0.4 {
			t.Errorf("offer %d kept with score %v below threshold", i, o.MatchScore)
		}
	}
	if len(result.Statuses) != 2 {
		t.Errorf("got %d statuses, want 2", len(result.Statuses))
	}
	if result.Explanation == "" {
		t.Error("explanation not attached")
	}
	if result.Query.Attributes.Brand != "Samsung" {
		t.Errorf("query brand = %q", result.Query.Attributes.Brand)
	}
}

func TestRunEmptyIsStillAValidResult(t *testing.T) {
	p := newTestPipeline(t, &cannedScraper{empty: true}, nil)

	result, err := p.Run(context.Background(), "samsung galaxy s24", models.ModeBalanced, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Offers) != 0 || result.RawCount != 0 {
		t.Errorf("offers=%d raw=%d, want zero", len(result.Offers), result.RawCount)
	}
	if len(result.Statuses) == 0 {
		t.Error("statuses must explain an empty run")
	}
	for _, st := range result.Statuses {
		if st.Status != models.StatusNoResults {
			t.Errorf("site %s status = %s", st.Site, st.Status)
		}
	}
}

func TestRunStreamEventOrder(t *testing.T) {
	p := newTestPipeline(t, &cannedScraper{}, nil)

	events := make(chan models.Event, 16)
	collected := make([]models.Event, 0, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			collected = append(collected, ev)
		}
	}()

	result, err := p.RunStream(context.Background(), "samsung galaxy s24 256gb", models.ModeBalanced,
		Options{Sites: []string{"amazon", "flipkart"}}, events)
	if err != nil {
		t.Fatal(err)
	}
	<-done

	if len(collected) != 6 {
		t.Fatalf("got %d events, want 6: %+v", len(collected), collected)
	}
	if collected[0].Type != models.EventScrapingStarted || len(collected[0].Sites) != 2 {
		t.Errorf("first event = %+v", collected[0])
	}
	for _, ev := range collected[1:3] {
		if ev.Type != models.EventSiteDone || ev.Status == nil {
			t.Errorf("expected site-done with status, got %+v", ev)
		}
	}
	if collected[3].Type != models.EventMatchingDone || collected[3].Matched != 2 {
		t.Errorf("matching event = %+v", collected[3])
	}
	if collected[4].Type != models.EventRankingDone || collected[4].Ranked != 2 {
		t.Errorf("ranking event = %+v", collected[4])
	}
	last := collected[5]
	if last.Type != models.EventFinalResult || last.Result == nil {
		t.Fatalf("last event = %+v", last)
	}
	if last.Result != result {
		t.Error("final event must carry the same result the call returns")
	}
}

func TestRunHonoursGlobalTimeout(t *testing.T) {
	slow := &slowScraper{}
	p := newTestPipeline(t, slow, nil)

	start := time.Now()
	result, err := p.Run(context.Background(), "samsung galaxy s24", models.ModeBalanced,
		Options{Sites: []string{"amazon"}, GlobalTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("run took %v despite the global timeout", elapsed)
	}
	if len(result.Statuses) != 1 {
		t.Errorf("got %d statuses, want 1", len(result.Statuses))
	}
}

type slowScraper struct{}

func (s *slowScraper) Scrape(ctx context.Context, target sites.Target, _ models.Query) ([]models.RawListing, models.SiteStatus) {
	<-ctx.Done()
	return nil, models.SiteStatus{Site: target.Key, Name: target.Name, Status: models.StatusTimeout, Error: "deadline exceeded"}
}
