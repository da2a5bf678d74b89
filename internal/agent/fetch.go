package agent

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/browser"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/ratelimit"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
)

// PageFetcher renders a search results page and returns its HTML. Every
// call runs in a fresh browsing context, so a repeated call after a bot
// challenge starts with clean cookies and storage.
type PageFetcher interface {
	Fetch(ctx context.Context, target sites.Target, url string) (string, error)
}

// Navigations get a short random pause on top of the rate limit so
// requests do not land on a site at machine cadence.
const (
	pacePauseMin = 250 * time.Millisecond
	pacePauseMax = 900 * time.Millisecond
)

// networkIdleQuiet is how long the network must stay silent before a
// network_idle wait is considered settled.
const networkIdleQuiet = 600 * time.Millisecond

// networkIdleCap bounds the network_idle wait on chatty pages that never
// fully go quiet (analytics beacons, long-poll carts).
const networkIdleCap = 8 * time.Second

// ChromeFetcher drives headless Chrome through the shared Engine.
type ChromeFetcher struct {
	engine  *browser.Engine
	limiter *ratelimit.Limiter
	log     zerolog.Logger
}

func NewChromeFetcher(engine *browser.Engine, limiter *ratelimit.Limiter, log zerolog.Logger) *ChromeFetcher {
	return &ChromeFetcher{engine: engine, limiter: limiter, log: log}
}

// Fetch navigates to url, honours the target's wait strategy, optionally
// scrolls to hydrate lazy content, and returns the rendered HTML.
func (f *ChromeFetcher) Fetch(ctx context.Context, target sites.Target, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, url); err != nil {
			return "", err
		}
	}
	pause := pacePauseMin + time.Duration(rand.Int63n(int64(pacePauseMax-pacePauseMin)))
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(pause):
	}

	browserCtx, cancel, err := f.engine.NewContext(ctx)
	if err != nil {
		return "", fmt.Errorf("browser context: %w", err)
	}
	defer cancel()

	start := time.Now()
	f.log.Debug().
		Str("site", target.Key).
		Str("url", url).
		Str("wait", string(target.WaitStrategy)).
		Msg("navigating")

	var inflight atomic.Int64
	var lastActivity atomic.Int64
	lastActivity.Store(time.Now().UnixNano())
	if target.WaitStrategy == sites.WaitNetworkIdle {
		chromedp.ListenTarget(browserCtx, func(ev interface{}) {
			switch ev.(type) {
			case *network.EventRequestWillBeSent:
				inflight.Add(1)
				lastActivity.Store(time.Now().UnixNano())
			case *network.EventLoadingFinished, *network.EventLoadingFailed:
				inflight.Add(-1)
				lastActivity.Store(time.Now().UnixNano())
			}
		})
	}

	tasks := []chromedp.Action{
		network.Enable(),
		chromedp.Navigate(url),
		f.waitAction(target, &inflight, &lastActivity),
	}
	if target.NeedsScroll {
		tasks = append(tasks, scrollAction())
	}
	var pageHTML string
	tasks = append(tasks, chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery))

	if err := chromedp.Run(browserCtx, tasks...); err != nil {
		return "", fmt.Errorf("chromedp execution failed: %w", err)
	}

	f.log.Debug().
		Str("site", target.Key).
		Dur("elapsed_ms", time.Since(start)).
		Int("html_bytes", len(pageHTML)).
		Msg("page rendered")
	return pageHTML, nil
}

// waitAction builds the wait mandated by the target's declared strategy.
// The strategy is never substituted for the other one.
func (f *ChromeFetcher) waitAction(target sites.Target, inflight, lastActivity *atomic.Int64) chromedp.Action {
	switch target.WaitStrategy {
	case sites.WaitNetworkIdle:
		return chromedp.ActionFunc(func(ctx context.Context) error {
			deadline := time.Now().Add(networkIdleCap)
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
				}
				quietFor := time.Since(time.Unix(0, lastActivity.Load()))
				if inflight.Load() <= 0 && quietFor >= networkIdleQuiet {
					return nil
				}
				if time.Now().After(deadline) {
					f.log.Debug().Str("site", target.Key).Msg("network idle cap reached")
					return nil
				}
			}
		})
	default:
		tasks := chromedp.Tasks{chromedp.WaitReady("body", chromedp.ByQuery)}
		if target.ReadySelector != "" {
			tasks = append(tasks, waitVisibleBestEffort(target.ReadySelector, 3*time.Second))
		}
		// Let the initial scripts settle after the DOM is ready
		tasks = append(tasks, chromedp.Sleep(300*time.Millisecond))
		return tasks
	}
}

// waitVisibleBestEffort waits for sel up to d, then moves on. A missing
// ready selector is not fatal because extraction has its own fallbacks.
func waitVisibleBestEffort(sel string, d time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		_ = chromedp.Run(waitCtx, chromedp.WaitVisible(sel, chromedp.ByQuery))
		if err := ctx.Err(); err != nil {
			return err
		}
		return nil
	})
}

// scrollAction steps through the page so lazy-loaded cards hydrate.
func scrollAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for _, fraction := range []string{"0.3", "0.6", "0.9"} {
			script := fmt.Sprintf("window.scrollTo(0, document.body.scrollHeight * %s)", fraction)
			if err := chromedp.Run(ctx, chromedp.Evaluate(script, nil)); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(400 * time.Millisecond):
			}
		}
		return chromedp.Run(ctx, chromedp.Evaluate("window.scrollTo(0, 0)", nil))
	})
}
