package agent

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/selector"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// noResultPhrases mark a legitimately empty results page, as opposed to
// a page whose layout defeated every selector tier.
var noResultPhrases = []string{
	"no results found",
	"did not match any products",
	"we couldn't find any matches",
	"0 results for",
	"no products found",
	"try checking your spelling",
}

// Agent scrapes a single site for one query. It owns the navigate, wait,
// challenge-detect and extract sequence; a bot challenge triggers exactly
// one retry in a fresh browsing context, then the site fails closed.
type Agent struct {
	fetch     PageFetcher
	resolver  *selector.Resolver
	snapshots *SnapshotStore
	log       zerolog.Logger
}

func New(fetch PageFetcher, resolver *selector.Resolver, snapshots *SnapshotStore, log zerolog.Logger) *Agent {
	return &Agent{fetch: fetch, resolver: resolver, snapshots: snapshots, log: log}
}

// Scrape runs the full per-site sequence and always returns a terminal
// SiteStatus. Errors never escape as Go errors, they are folded into the
// status so one hostile site cannot fail the run.
func (a *Agent) Scrape(ctx context.Context, target sites.Target, q models.Query) ([]models.RawListing, models.SiteStatus) {
	start := time.Now()
	status := models.SiteStatus{Site: target.Key, Name: target.Name}
	finish := func(code models.StatusCode, errMsg string, listings []models.RawListing) ([]models.RawListing, models.SiteStatus) {
		status.Status = code
		status.Error = errMsg
		status.ListingsFound = len(listings)
		status.ElapsedMS = time.Since(start).Milliseconds()
		return listings, status
	}

	searchURL := target.SearchFor(q.SearchQuery)
	if searchURL == "" {
		return finish(models.StatusError, "empty search url", nil)
	}

	log := a.log.With().Str("site", target.Key).Logger()

	var pageHTML string
	for attempt := 1; ; attempt++ {
		html, err := a.fetch.Fetch(ctx, target, searchURL)
		if err != nil {
			if isDeadline(err) || ctx.Err() != nil {
				log.Warn().Int("attempt", attempt).Msg("site timed out")
				return finish(models.StatusTimeout, "deadline exceeded", nil)
			}
			log.Warn().Err(err).Int("attempt", attempt).Msg("navigation failed")
			return finish(models.StatusError, newError(CodeNavigation, target.Key, "navigation failed", err).Error(), nil)
		}

		challenged, phrase := DetectChallenge(html, target)
		if !challenged {
			pageHTML = html
			break
		}

		a.snapshots.Save(target.Key, "bot_challenge", html)
		if attempt == 1 {
			log.Warn().Str("phrase", phrase).Msg("bot challenge, retrying in fresh context")
			continue
		}
		log.Warn().Str("phrase", phrase).Msg("bot challenge persisted after retry")
		return finish(models.StatusBotChallenge, "bot challenge: "+phrase, nil)
	}

	listings, serr := a.extract(ctx, pageHTML, searchURL, target, log)
	if serr != nil {
		a.snapshots.Save(target.Key, string(serr.Code), pageHTML)
		return finish(serr.StatusCode(), serr.Error(), nil)
	}
	if len(listings) == 0 {
		return finish(models.StatusNoResults, "", nil)
	}

	log.Info().Int("listings", len(listings)).Dur("elapsed", time.Since(start)).Msg("site scraped")
	return finish(models.StatusOK, "", listings)
}

// extract parses rendered HTML into raw listings. The container goes
// through the tiered resolver; when nothing resolves, inline script
// state is harvested before giving up.
func (a *Agent) extract(ctx context.Context, pageHTML, pageURL string, target sites.Target, log zerolog.Logger) ([]models.RawListing, *ScrapeError) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, newError(CodeExtraction, target.Key, "html parse failed", err)
	}

	sel, cards := a.resolver.Container(ctx, doc, target)
	if sel == "" || cards == nil || cards.Length() == 0 {
		if harvested := harvestStateListings(ctx, doc, target.Key, pageURL, log); len(harvested) > 0 {
			return capListings(harvested, target.MaxResults), nil
		}
		if pageSaysNoResults(doc) {
			return nil, nil
		}
		return nil, newError(CodeSelector, target.Key, "no container selector resolved", nil)
	}

	base, _ := url.Parse(target.BaseURL)
	var listings []models.RawListing
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title, ok := a.resolver.Text(ctx, card, target, "title")
		if !ok || strings.TrimSpace(title) == "" {
			return true
		}
		l := models.RawListing{
			SiteKey:    target.Key,
			Title:      strings.TrimSpace(title),
			CapturedAt: time.Now(),
		}
		l.PriceText, _ = a.resolver.Text(ctx, card, target, "price")
		l.OriginalPrice, _ = a.resolver.Text(ctx, card, target, "original_price")
		l.RatingText, _ = a.resolver.Text(ctx, card, target, "rating")
		l.ReviewCountText, _ = a.resolver.Text(ctx, card, target, "review_count")
		l.DeliveryText, _ = a.resolver.Text(ctx, card, target, "delivery")
		l.CouponText, _ = a.resolver.Text(ctx, card, target, "coupon")
		l.SellerText, _ = a.resolver.Text(ctx, card, target, "seller")
		if href, ok := a.resolver.Attr(ctx, card, target, "listing_url", "href"); ok {
			l.URL = absolutize(base, href)
		}
		listings = append(listings, l)
		return target.MaxResults <= 0 || len(listings) < target.MaxResults
	})
	return listings, nil
}

func capListings(listings []models.RawListing, max int) []models.RawListing {
	if max > 0 && len(listings) > max {
		return listings[:max]
	}
	return listings
}

func pageSaysNoResults(doc *goquery.Document) bool {
	body := strings.ToLower(doc.Find("body").Text())
	for _, phrase := range noResultPhrases {
		if strings.Contains(body, phrase) {
			return true
		}
	}
	return false
}

func absolutize(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
