package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/selector"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// seqFetcher replays a fixed sequence of pages or errors, one per call.
type seqFetcher struct {
	pages []string
	errs  []error
	calls int
}

func (f *seqFetcher) Fetch(_ context.Context, _ sites.Target, _ string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	return "", errors.New("fetcher exhausted")
}

const fillerText = `Browse the full catalogue of phones, laptops, headphones and
accessories with fast delivery across the country. Compare specifications,
read buyer reviews and track price drops over time. All products ship from
verified sellers with standard manufacturer warranty included.`

func testTarget() sites.Target {
	return sites.Target{
		Key:       "teststore",
		Name:      "Test Store",
		Enabled:   true,
		BaseURL:   "https://www.teststore.in",
		SearchURL: "https://www.teststore.in/search?q={query}",
		Selectors: sites.Selectors{
			Container:  sites.SelectorRule{Primary: "div.result-card"},
			Title:      sites.SelectorRule{Primary: "h2.offer-name"},
			Price:      sites.SelectorRule{Primary: "span.cost"},
			ListingURL: sites.SelectorRule{Primary: "a.offer-link"},
		},
		BotPhrases: []string{"teststore security check"},
		MaxResults: 10,
	}
}

func resultsPage(cards int) string {
	var b strings.Builder
	b.WriteString("<html><body><p>" + fillerText + "</p>")
	for i := 0; i < cards; i++ {
		fmt.Fprintf(&b, `<div class="result-card">
			<h2 class="offer-name">Galaxy S24 5G (Black, 256GB) unit %d</h2>
			<span class="cost">₹61,999</span>
			<a class="offer-link" href="/p/galaxy-s24-%d">view</a>
		</div>`, i, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func challengePage() string {
	return "<html><body><p>Please verify you are a human before continuing. " +
		fillerText + "</p></body></html>"
}

func newTestAgent(f PageFetcher) *Agent {
	return New(f, selector.New(nil, nil), nil, zerolog.Nop())
}

func TestScrapeHappyPath(t *testing.T) {
	fetcher := &seqFetcher{pages: []string{resultsPage(3)}}
	a := newTestAgent(fetcher)

	listings, status := a.Scrape(context.Background(), testTarget(), models.Query{SearchQuery: "galaxy s24"})

	if status.Status != models.StatusOK {
		t.Fatalf("status = %s (%s), want ok", status.Status, status.Error)
	}
	if len(listings) != 3 {
		t.Fatalf("got %d listings, want 3", len(listings))
	}
	first := listings[0]
	if first.SiteKey != "teststore" {
		t.Errorf("SiteKey = %q", first.SiteKey)
	}
	if !strings.Contains(first.Title, "Galaxy S24") {
		t.Errorf("Title = %q", first.Title)
	}
	if first.PriceText != "₹61,999" {
		t.Errorf("PriceText = %q", first.PriceText)
	}
	if first.URL != "https://www.teststore.in/p/galaxy-s24-0" {
		t.Errorf("URL = %q, relative href was not resolved against the base", first.URL)
	}
	if status.ListingsFound != 3 {
		t.Errorf("ListingsFound = %d, want 3", status.ListingsFound)
	}
}

func TestScrapeChallengeThenSuccess(t *testing.T) {
	fetcher := &seqFetcher{pages: []string{challengePage(), resultsPage(2)}}
	a := newTestAgent(fetcher)

	listings, status := a.Scrape(context.Background(), testTarget(), models.Query{SearchQuery: "galaxy s24"})

	if status.Status != models.StatusOK {
		t.Fatalf("status = %s, want ok after one retry", status.Status)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetch called %d times, want 2", fetcher.calls)
	}
	if len(listings) != 2 {
		t.Errorf("got %d listings, want 2", len(listings))
	}
}

func TestScrapeChallengePersists(t *testing.T) {
	fetcher := &seqFetcher{pages: []string{challengePage(), challengePage(), resultsPage(2)}}
	a := newTestAgent(fetcher)

	listings, status := a.Scrape(context.Background(), testTarget(), models.Query{SearchQuery: "galaxy s24"})

	if status.Status != models.StatusBotChallenge {
		t.Fatalf("status = %s, want bot_challenge", status.Status)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetch called %d times, want exactly 2 (one retry only)", fetcher.calls)
	}
	if listings != nil {
		t.Errorf("got %d listings, want none", len(listings))
	}
}

func TestScrapeTimeout(t *testing.T) {
	fetcher := &seqFetcher{errs: []error{context.DeadlineExceeded}}
	a := newTestAgent(fetcher)

	_, status := a.Scrape(context.Background(), testTarget(), models.Query{SearchQuery: "galaxy s24"})

	if status.Status != models.StatusTimeout {
		t.Errorf("status = %s, want timeout", status.Status)
	}
}

func TestScrapeNavigationError(t *testing.T) {
	fetcher := &seqFetcher{errs: []error{errors.New("net::ERR_NAME_NOT_RESOLVED")}}
	a := newTestAgent(fetcher)

	_, status := a.Scrape(context.Background(), testTarget(), models.Query{SearchQuery: "galaxy s24"})

	if status.Status != models.StatusError {
		t.Errorf("status = %s, want error", status.Status)
	}
	if !strings.Contains(status.Error, "NAVIGATION") {
		t.Errorf("status error %q does not carry the navigation code", status.Error)
	}
}

func TestScrapeNoResults(t *testing.T) {
	page := "<html><body><p>No results found for your search. " +
		fillerText + "</p></body></html>"
	fetcher := &seqFetcher{pages: []string{page}}
	a := newTestAgent(fetcher)

	listings, status := a.Scrape(context.Background(), testTarget(), models.Query{SearchQuery: "xyzzy"})

	if status.Status != models.StatusNoResults {
		t.Errorf("status = %s (%s), want no_results", status.Status, status.Error)
	}
	if len(listings) != 0 {
		t.Errorf("got %d listings, want 0", len(listings))
	}
}

func TestScrapeSelectorError(t *testing.T) {
	// Plenty of visible text, no recognizable cards and no empty-page
	// phrase: the layout defeated every tier.
	page := "<html><body><p>" + fillerText + fillerText + "</p></body></html>"
	fetcher := &seqFetcher{pages: []string{page}}
	a := newTestAgent(fetcher)

	_, status := a.Scrape(context.Background(), testTarget(), models.Query{SearchQuery: "galaxy s24"})

	if status.Status != models.StatusSelectorError {
		t.Errorf("status = %s (%s), want selector_error", status.Status, status.Error)
	}
}

func TestScrapeCapsAtMaxResults(t *testing.T) {
	fetcher := &seqFetcher{pages: []string{resultsPage(6)}}
	a := newTestAgent(fetcher)

	target := testTarget()
	target.MaxResults = 2
	listings, status := a.Scrape(context.Background(), target, models.Query{SearchQuery: "galaxy s24"})

	if status.Status != models.StatusOK {
		t.Fatalf("status = %s, want ok", status.Status)
	}
	if len(listings) != 2 {
		t.Errorf("got %d listings, want the configured cap of 2", len(listings))
	}
}

func TestScrapeEmptySearchURL(t *testing.T) {
	a := newTestAgent(&seqFetcher{})
	target := testTarget()
	target.SearchURL = ""

	_, status := a.Scrape(context.Background(), target, models.Query{SearchQuery: "galaxy s24"})
	if status.Status != models.StatusError {
		t.Errorf("status = %s, want error for missing search url", status.Status)
	}
}

func TestDetectChallenge(t *testing.T) {
	target := testTarget()
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"configured phrase", "<body><p>TestStore Security Check in progress. " + fillerText + "</p></body>", true},
		{"generic phrase", challengePage(), true},
		{"captcha inside script is ignored", "<body><script>var captcha=1;</script><p>" + fillerText + "</p></body>", false},
		{"near empty body", "<body><p>loading</p></body>", true},
		{"normal results page", resultsPage(3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := DetectChallenge(tt.html, target)
			if got != tt.want {
				t.Errorf("DetectChallenge() = %v, want %v", got, tt.want)
			}
		})
	}
}
