// Package browser owns the shared headless-Chrome engine. One process-wide
// ExecAllocator is started lazily and stopped explicitly; every site scrape
// derives its own isolated browsing context from it.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// Options configures the shared engine
type Options struct {
	Headless  bool
	UserAgent string
	Proxy     string
	// ChromePath overrides executable discovery when set
	ChromePath string
	ExtraArgs  []chromedp.ExecAllocatorOption
}

// Engine wraps a chromedp ExecAllocator with an explicit lifecycle.
// It is safe for concurrent use once started.
type Engine struct {
	mu          sync.Mutex
	opts        Options
	allocCtx    context.Context
	allocCancel context.CancelFunc
	started     bool
	stopped     bool
}

// NewEngine creates an engine without launching anything. The allocator is
// created on the first Start call so it binds to a live run, not to package
// initialization.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Start launches the allocator if it is not already running
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	if e.stopped {
		return fmt.Errorf("browser engine already stopped")
	}
	if e.started {
		return nil
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("force-color-profile", "srgb"),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("window-size", "1366,768"),
		chromedp.Flag("lang", "en-IN"),
		chromedp.Flag("disk-cache-size", "0"),
	}
	path := e.opts.ChromePath
	if path == "" {
		path = findChrome()
	}
	if path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}
	if e.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(e.opts.UserAgent))
	}
	if e.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if e.opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(e.opts.Proxy))
	}
	allocOpts = append(allocOpts, e.opts.ExtraArgs...)

	e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	e.started = true
	log.Info().Bool("headless", e.opts.Headless).Msg("Browser engine started")
	return nil
}

// NewContext derives a fresh, isolated browsing context (own cookies and
// storage), starting the allocator on first use. The caller owns the
// returned cancel and must call it on every exit path.
func (e *Engine) NewContext(parent context.Context) (context.Context, context.CancelFunc, error) {
	e.mu.Lock()
	if err := e.startLocked(); err != nil {
		e.mu.Unlock()
		return nil, nil, err
	}
	allocCtx := e.allocCtx
	e.mu.Unlock()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Tie browser lifetime to the caller's context so per-site timeouts
	// tear the whole context down, not just the navigation.
	stop := context.AfterFunc(parent, browserCancel)
	cancel := func() {
		stop()
		browserCancel()
	}
	return browserCtx, cancel, nil
}

// Stop tears down the allocator and every derived context
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped || !e.started {
		e.stopped = true
		return
	}
	e.stopped = true
	e.allocCancel()
	log.Info().Msg("Browser engine stopped")
}
