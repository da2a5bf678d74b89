package pipeline

import (
	"context"
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

// Explainer produces advisory rationale for a finished ranking. The
// text never feeds back into scoring or ordering.
type Explainer interface {
	Explain(ctx context.Context, offers []models.NormalizedOffer, mode models.RankMode, query string) (string, error)
}

// Options narrow one run without touching pipeline construction.
type Options struct {
	// Sites restricts the run to these registry keys; empty means all
	Sites []string
	// GlobalTimeout bounds the whole run; zero means no extra bound
	GlobalTimeout time.Duration
}

// Pipeline runs a full comparison: plan, scrape, extract, match, rank.
type Pipeline struct {
	planner      *plan.Planner
	orchestrator *orchestrate.Orchestrator
	extractor    *extract.Extractor
	matcher      *match.Matcher
	ranker       *rank.Ranker
	explainer    Explainer
	log          zerolog.Logger
}

func New(
	planner *plan.Planner,
	orchestrator *orchestrate.Orchestrator,
	extractor *extract.Extractor,
	matcher *match.Matcher,
	ranker *rank.Ranker,
	explainer Explainer,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		planner:      planner,
		orchestrator: orchestrator,
		extractor:    extractor,
		matcher:      matcher,
		ranker:       ranker,
		explainer:    explainer,
		log:          log,
	}
}

// Run executes the pipeline and returns the aggregate result. A run
// with zero usable offers is still a valid result carrying the site
// statuses that explain what happened.
func (p *Pipeline) Run(ctx context.Context, raw string, mode models.RankMode, opts Options) (*models.Result, error) {
	return p.run(ctx, raw, mode, opts, nil)
}

// RunStream behaves like Run but emits progress events as each stage
// lands. The events channel is closed when the run finishes; callers
// cancel ctx to stop early and still receive partial results.
func (p *Pipeline) RunStream(ctx context.Context, raw string, mode models.RankMode, opts Options, events chan<- models.Event) (*models.Result, error) {
	defer close(events)
	return p.run(ctx, raw, mode, opts, func(ev models.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})
}

func (p *Pipeline) run(ctx context.Context, raw string, mode models.RankMode, opts Options, emit func(models.Event)) (*models.Result, error) {
	start := time.Now()
	if opts.GlobalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.GlobalTimeout)
		defer cancel()
	}
	if emit == nil {
		emit = func(models.Event) {}
	}

	q, targets := p.planner.Plan(ctx, raw, mode, opts.Sites)
	emit(models.Event{Type: models.EventScrapingStarted, Sites: siteKeys(targets)})

	listings, statuses := p.orchestrator.Run(ctx, q, targets, func(st models.SiteStatus) {
		emit(models.Event{Type: models.EventSiteDone, Status: &st})
	})

	offers := p.extractor.Normalize(ctx, listings)
	matched := p.matcher.Match(ctx, q, offers)
	emit(models.Event{Type: models.EventMatchingDone, Matched: len(matched)})

	ranked := p.ranker.Rank(matched, mode)
	emit(models.Event{Type: models.EventRankingDone, Ranked: len(ranked)})

	result := &models.Result{
		Query:     q,
		Offers:    ranked,
		Statuses:  statuses,
		RawCount:  len(listings),
		Matched:   len(matched),
		Elapsed:   time.Since(start),
		ElapsedMS: time.Since(start).Milliseconds(),
	}

	if p.explainer != nil && len(ranked) > 0 && ctx.Err() == nil {
		if text, err := p.explainer.Explain(ctx, ranked, mode, q.Raw); err == nil {
			result.Explanation = text
		} else {
			p.log.Debug().Err(err).Msg("explanation unavailable")
		}
	}

	p.log.Info().
		Int("raw", result.RawCount).
		Int("matched", result.Matched).
		Int("ranked", len(ranked)).
		Dur("elapsed", result.Elapsed).
		Msg("pipeline complete")

	emit(models.Event{Type: models.EventFinalResult, Result: result})
	return result, nil
}

func siteKeys(targets []sites.Target) []string {
	keys := make([]string, len(targets))
	for i, t := range targets {
		keys[i] = t.Key
	}
	return keys
}
