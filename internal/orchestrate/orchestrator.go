package orchestrate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// Scraper is the per-site unit of work the orchestrator fans out to.
type Scraper interface {
	Scrape(ctx context.Context, target sites.Target, q models.Query) ([]models.RawListing, models.SiteStatus)
}

// Orchestrator fans one query out across sites with bounded concurrency.
// Per-site failures are absorbed into statuses; the run as a whole only
// stops on its own deadline or cancellation, and even then it returns
// whatever completed.
type Orchestrator struct {
	scraper     Scraper
	concurrency int
	siteTimeout time.Duration
	log         zerolog.Logger
}

type siteResult struct {
	index    int
	listings []models.RawListing
	status   models.SiteStatus
}

func New(scraper Scraper, concurrency int, siteTimeout time.Duration, log zerolog.Logger) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{
		scraper:     scraper,
		concurrency: concurrency,
		siteTimeout: siteTimeout,
		log:         log,
	}
}

// Run scrapes all targets and returns the raw listings in completion
// order plus exactly one status per target, in target order. onSite, when
// non-nil, is invoked once per finished site from the collecting
// goroutine, so callers need no locking of their own.
func (o *Orchestrator) Run(ctx context.Context, q models.Query, targets []sites.Target, onSite func(models.SiteStatus)) ([]models.RawListing, []models.SiteStatus) {
	if len(targets) == 0 {
		return nil, nil
	}

	o.log.Info().
		Int("sites", len(targets)).
		Int("concurrency", o.concurrency).
		Str("query", q.SearchQuery).
		Msg("starting scrape")

	sem := make(chan struct{}, o.concurrency)
	results := make(chan siteResult, len(targets))
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(idx int, t sites.Target) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results <- siteResult{index: idx, status: cancelledStatus(t)}
				return
			}
			if ctx.Err() != nil {
				results <- siteResult{index: idx, status: cancelledStatus(t)}
				return
			}

			results <- o.scrapeOne(ctx, idx, t, q)
		}(i, target)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	statuses := make([]models.SiteStatus, len(targets))
	var listings []models.RawListing
	for res := range results {
		statuses[res.index] = res.status
		listings = append(listings, res.listings...)
		if onSite != nil {
			onSite(res.status)
		}
	}
	return listings, statuses
}

// scrapeOne runs one site under its own timeout with panic isolation. A
// panicking site agent becomes an error status like any other failure.
func (o *Orchestrator) scrapeOne(ctx context.Context, idx int, t sites.Target, q models.Query) (res siteResult) {
	res.index = idx
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Str("site", t.Key).Interface("panic", r).Msg("site agent panicked")
			res.listings = nil
			res.status = models.SiteStatus{
				Site:   t.Key,
				Name:   t.Name,
				Status: models.StatusError,
				Error:  fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	siteCtx := ctx
	if o.siteTimeout > 0 {
		var cancel context.CancelFunc
		siteCtx, cancel = context.WithTimeout(ctx, o.siteTimeout)
		defer cancel()
	}

	res.listings, res.status = o.scraper.Scrape(siteCtx, t, q)
	return res
}

func cancelledStatus(t sites.Target) models.SiteStatus {
	return models.SiteStatus{
		Site:   t.Key,
		Name:   t.Name,
		Status: models.StatusTimeout,
		Error:  "run cancelled before site started",
	}
}
