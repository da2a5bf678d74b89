package selector

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
)

type fakeDiscoverer struct {
	rule  string
	err   error
	calls int
}

func (d *fakeDiscoverer) ProposeSelector(_ context.Context, _, _, _ string) (string, error) {
	d.calls++
	return d.rule, d.err
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func gridTarget() sites.Target {
	return sites.Target{
		Key: "shop",
		Selectors: sites.Selectors{
			Container: sites.SelectorRule{Primary: "div.grid-cell", Fallback: "li.grid-cell"},
			Price:     sites.SelectorRule{Primary: "span.cost"},
		},
	}
}

const gridPage = `<html><body>
	<div class="grid-cell"><span class="cost">₹100</span></div>
	<div class="grid-cell"><span class="cost">₹200</span></div>
	<div class="grid-cell"><span class="cost">₹300</span></div>
</body></html>`

func TestContainerConfiguredRuleWins(t *testing.T) {
	r := New(nil, nil)
	sel, cards := r.Container(context.Background(), parseDoc(t, gridPage), gridTarget())
	if sel != "div.grid-cell" {
		t.Fatalf("sel = %q, want configured primary", sel)
	}
	if cards.Length() != 3 {
		t.Errorf("got %d cards, want 3", cards.Length())
	}
}

func TestContainerFallbackRule(t *testing.T) {
	page := `<body>
		<li class="grid-cell">a</li>
		<li class="grid-cell">b</li>
	</body>`
	r := New(nil, nil)
	sel, cards := r.Container(context.Background(), parseDoc(t, page), gridTarget())
	if sel != "li.grid-cell" {
		t.Fatalf("sel = %q, want configured fallback", sel)
	}
	if cards.Length() != 2 {
		t.Errorf("got %d cards, want 2", cards.Length())
	}
}

func TestContainerRejectsSingleMatch(t *testing.T) {
	// One lone element matching a broad rule is noise, not a result grid.
	page := `<body><div class="grid-cell">only one</div><p>text</p></body>`
	r := New(nil, nil)
	sel, cards := r.Container(context.Background(), parseDoc(t, page), gridTarget())
	if sel != "" || cards != nil {
		t.Errorf("resolved %q from a single match, want none", sel)
	}
}

func TestContainerHeuristicTier(t *testing.T) {
	page := `<body>
		<div data-id="1">a</div>
		<div data-id="2">b</div>
	</body>`
	target := sites.Target{Key: "shop"}
	r := New(nil, nil)
	sel, cards := r.Container(context.Background(), parseDoc(t, page), target)
	if sel != "[data-id]" {
		t.Fatalf("sel = %q, want the data-id heuristic", sel)
	}
	if cards.Length() != 2 {
		t.Errorf("got %d cards, want 2", cards.Length())
	}
	if e, ok := r.Cache().Get("shop", "container"); !ok || e.Tier != TierHeuristic {
		t.Error("heuristic win was not cached")
	}
}

func TestContainerDiscoveryTier(t *testing.T) {
	page := `<body>
		<section class="oddball">a</section>
		<section class="oddball">b</section>
	</body>`
	disc := &fakeDiscoverer{rule: "section.oddball"}
	r := New(nil, disc)
	target := sites.Target{Key: "shop"}

	sel, cards := r.Container(context.Background(), parseDoc(t, page), target)
	if sel != "section.oddball" {
		t.Fatalf("sel = %q, want the discovered rule", sel)
	}
	if cards.Length() != 2 {
		t.Errorf("got %d cards, want 2", cards.Length())
	}
	if disc.calls != 1 {
		t.Errorf("discoverer called %d times, want 1", disc.calls)
	}
	if e, ok := r.Cache().Get("shop", "container"); !ok || e.Tier != TierDiscovered {
		t.Error("discovered rule was not cached")
	}
}

func TestContainerDiscovererErrorDegrades(t *testing.T) {
	disc := &fakeDiscoverer{err: errors.New("oracle down")}
	r := New(nil, disc)
	page := `<body><p>nothing useful here</p></body>`

	sel, _ := r.Container(context.Background(), parseDoc(t, page), sites.Target{Key: "shop"})
	if sel != "" {
		t.Errorf("sel = %q, want none when discovery fails", sel)
	}
}

func TestContainerStaleCacheInvalidated(t *testing.T) {
	cache := NewCache()
	cache.Put("shop", "container", "div.retired-layout", TierHeuristic)
	r := New(cache, nil)

	sel, cards := r.Container(context.Background(), parseDoc(t, gridPage), gridTarget())
	if sel != "div.grid-cell" {
		t.Fatalf("sel = %q, want re-resolution after the cached rule went stale", sel)
	}
	if cards.Length() != 3 {
		t.Errorf("got %d cards, want 3", cards.Length())
	}
	if e, ok := cache.Get("shop", "container"); !ok || e.Selector != "div.grid-cell" {
		t.Errorf("cache holds %+v, want the fresh rule", e)
	}
}

func TestTextConfiguredThenHeuristic(t *testing.T) {
	r := New(nil, nil)
	doc := parseDoc(t, gridPage)
	card := doc.Find("div.grid-cell").First()

	got, ok := r.Text(context.Background(), card, gridTarget(), "price")
	if !ok || got != "₹100" {
		t.Errorf("configured price = %q ok=%v, want ₹100", got, ok)
	}

	// No configured rating rule, so the generic tier has to find it.
	page := `<div class="grid-cell"><span class="rating">4.3</span></div>`
	card = parseDoc(t, page).Find("div.grid-cell").First()
	got, ok = r.Text(context.Background(), card, gridTarget(), "rating")
	if !ok || got != "4.3" {
		t.Errorf("heuristic rating = %q ok=%v, want 4.3", got, ok)
	}
}

func TestTextAbsentFieldFailsClosed(t *testing.T) {
	r := New(nil, nil)
	card := parseDoc(t, `<div class="grid-cell"><b>no price here</b></div>`).Find("div.grid-cell").First()
	got, ok := r.Text(context.Background(), card, gridTarget(), "coupon")
	if ok || got != "" {
		t.Errorf("got %q ok=%v for an absent field, want empty and false", got, ok)
	}
}

func TestAttrResolution(t *testing.T) {
	target := gridTarget()
	target.Selectors.ListingURL = sites.SelectorRule{Primary: "a.go"}
	card := parseDoc(t, `<div class="grid-cell"><a class="go" href="/p/1">x</a></div>`).
		Find("div.grid-cell").First()

	r := New(nil, nil)
	got, ok := r.Attr(context.Background(), card, target, "listing_url", "href")
	if !ok || got != "/p/1" {
		t.Errorf("got %q ok=%v, want /p/1", got, ok)
	}
}

func TestCacheHitCountAndInvalidate(t *testing.T) {
	c := NewCache()
	c.Put("shop", "price", "span.cost", TierHeuristic)

	c.Get("shop", "price")
	e, ok := c.Get("shop", "price")
	if !ok || e.Hits != 2 {
		t.Errorf("hits = %d ok=%v, want 2", e.Hits, ok)
	}

	c.Invalidate("shop", "price")
	if _, ok := c.Get("shop", "price"); ok {
		t.Error("entry survived invalidation")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}
