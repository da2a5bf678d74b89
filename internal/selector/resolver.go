package selector

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
)

// Discoverer proposes a selector for a field from a page excerpt. It is an
// external capability: errors and absence degrade to heuristic-only
// resolution.
type Discoverer interface {
	ProposeSelector(ctx context.Context, site, field, pageExcerpt string) (string, error)
}

// minContainerMatches guards against a heuristic latching onto a single
// unrelated element; a real result grid has at least two cards.
const minContainerMatches = 2

// excerptLimit bounds the HTML excerpt sent to the discoverer
const excerptLimit = 5000

// Resolver resolves extraction rules against a parsed search page
type Resolver struct {
	cache    *Cache
	discover Discoverer
}

// New creates a resolver. discover may be nil to disable the discovery tier.
func New(cache *Cache, discover Discoverer) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	return &Resolver{cache: cache, discover: discover}
}

// Cache exposes the shared rule cache
func (r *Resolver) Cache() *Cache { return r.cache }

// Container resolves the listing-container rule for a site and returns the
// matching card selections. An empty selection means no tier resolved.
func (r *Resolver) Container(ctx context.Context, doc *goquery.Document, target sites.Target) (string, *goquery.Selection) {
	if e, ok := r.cache.Get(target.Key, "container"); ok {
		if sel := doc.Find(e.Selector); sel.Length() >= minContainerMatches {
			return e.Selector, sel
		}
		// Page structure moved on; drop the stale rule and re-resolve.
		r.cache.Invalidate(target.Key, "container")
	}

	for _, cand := range target.Selectors.Container.Candidates() {
		if sel := doc.Find(cand); sel.Length() >= minContainerMatches {
			r.cache.Put(target.Key, "container", cand, TierConfigured)
			return cand, sel
		}
	}

	for _, cand := range Heuristics("container") {
		if sel := doc.Find(cand); sel.Length() >= minContainerMatches {
			r.cache.Put(target.Key, "container", cand, TierHeuristic)
			log.Debug().Str("site", target.Key).Str("selector", cand).Msg("Container resolved by heuristic")
			return cand, sel
		}
	}

	if rule := r.discoverRule(ctx, target.Key, "container", docExcerpt(doc)); rule != "" {
		if sel := doc.Find(rule); sel.Length() >= minContainerMatches {
			r.cache.Put(target.Key, "container", rule, TierDiscovered)
			return rule, sel
		}
	}

	return "", nil
}

// Text resolves a field inside one listing card and returns its trimmed
// text. ok is false when no tier yields a non-empty match.
func (r *Resolver) Text(ctx context.Context, card *goquery.Selection, target sites.Target, field string) (string, bool) {
	for _, cand := range r.candidates(target, field) {
		found := card.Find(cand.selector)
		if found.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(found.First().Text())
		if text == "" {
			continue
		}
		r.record(target.Key, field, cand)
		return text, true
	}

	if rule := r.discoverRule(ctx, target.Key, field, cardExcerpt(card)); rule != "" {
		found := card.Find(rule)
		if text := strings.TrimSpace(found.First().Text()); text != "" {
			r.cache.Put(target.Key, field, rule, TierDiscovered)
			return text, true
		}
	}

	return "", false
}

// Attr resolves a field and returns the named attribute of its first match
func (r *Resolver) Attr(ctx context.Context, card *goquery.Selection, target sites.Target, field, attr string) (string, bool) {
	cacheField := field + ":" + attr
	for _, cand := range r.candidatesFor(target, field, cacheField) {
		found := card.Find(cand.selector)
		if found.Length() == 0 {
			continue
		}
		val, exists := found.First().Attr(attr)
		val = strings.TrimSpace(val)
		if !exists || val == "" {
			continue
		}
		r.record(target.Key, cacheField, cand)
		return val, true
	}
	return "", false
}

type candidate struct {
	selector string
	tier     Tier
	cached   bool
}

func (r *Resolver) candidates(target sites.Target, field string) []candidate {
	return r.candidatesFor(target, field, field)
}

// candidatesFor builds the tiered candidate list: cached rule first, then
// the site's configured rules, then the generic heuristics.
func (r *Resolver) candidatesFor(target sites.Target, field, cacheField string) []candidate {
	var out []candidate
	seen := make(map[string]bool)

	if e, ok := r.cache.Get(target.Key, cacheField); ok {
		out = append(out, candidate{selector: e.Selector, tier: e.Tier, cached: true})
		seen[e.Selector] = true
	}
	for _, s := range target.Selectors.Field(field).Candidates() {
		if !seen[s] {
			out = append(out, candidate{selector: s, tier: TierConfigured})
			seen[s] = true
		}
	}
	for _, s := range Heuristics(field) {
		if !seen[s] {
			out = append(out, candidate{selector: s, tier: TierHeuristic})
			seen[s] = true
		}
	}
	return out
}

// record caches heuristic wins so later cards and queries skip the scan.
// Configured rules are the first tier anyway and are not cached.
func (r *Resolver) record(site, field string, c candidate) {
	if c.cached || c.tier == TierConfigured {
		return
	}
	r.cache.Put(site, field, c.selector, c.tier)
	log.Debug().Str("site", site).Str("field", field).Str("selector", c.selector).Msg("Selector discovered by heuristic")
}

func (r *Resolver) discoverRule(ctx context.Context, site, field, excerpt string) string {
	if r.discover == nil || excerpt == "" {
		return ""
	}
	rule, err := r.discover.ProposeSelector(ctx, site, field, excerpt)
	if err != nil {
		log.Warn().Err(err).Str("site", site).Str("field", field).Msg("Selector discovery failed")
		return ""
	}
	rule = strings.TrimSpace(rule)
	if rule != "" {
		log.Info().Str("site", site).Str("field", field).Str("selector", rule).Msg("Selector proposed by oracle")
	}
	return rule
}

func docExcerpt(doc *goquery.Document) string {
	body := doc.Find("body")
	html, err := goquery.OuterHtml(body)
	if err != nil {
		return ""
	}
	return clip(html, excerptLimit)
}

func cardExcerpt(card *goquery.Selection) string {
	html, err := goquery.OuterHtml(card)
	if err != nil {
		return ""
	}
	return clip(html, excerptLimit)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
