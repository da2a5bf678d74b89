package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RankMode selects the ranking objective for a comparison run
type RankMode string

const (
	ModeBalanced RankMode = "balanced"
	ModeCheapest RankMode = "cheapest"
	ModeFastest  RankMode = "fastest"
	ModeReliable RankMode = "reliable"
)

// ParseMode maps a user-supplied mode string to a RankMode, defaulting to balanced
func ParseMode(s string) RankMode {
	switch RankMode(s) {
	case ModeCheapest, ModeFastest, ModeReliable, ModeBalanced:
		return RankMode(s)
	default:
		return ModeBalanced
	}
}

// StatusCode is the terminal outcome of one site scrape
type StatusCode string

const (
	StatusOK            StatusCode = "ok"
	StatusError         StatusCode = "error"
	StatusTimeout       StatusCode = "timeout"
	StatusBotChallenge  StatusCode = "bot_challenge"
	StatusNoResults     StatusCode = "no_results"
	StatusSelectorError StatusCode = "selector_error"
)

// Attributes holds the structured interpretation of a product query
type Attributes struct {
	Brand    string `json:"brand,omitempty"`
	Model    string `json:"model,omitempty"`
	Storage  string `json:"storage,omitempty"`
	RAM      string `json:"ram,omitempty"`
	Color    string `json:"color,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Category string `json:"category,omitempty"`
}

// Query is the parsed request. Created once by the planner and immutable afterwards.
type Query struct {
	ID          uuid.UUID  `json:"id"`
	Raw         string     `json:"raw"`
	Attributes  Attributes `json:"attributes"`
	SearchQuery string     `json:"search_query"`
	Confidence  float64    `json:"confidence"`
	Mode        RankMode   `json:"mode"`
}

// RawListing is one unprocessed product card captured from a site.
// Discarded after normalization; persisted only in failure snapshots.
type RawListing struct {
	SiteKey         string    `json:"site_key"`
	Title           string    `json:"title"`
	PriceText       string    `json:"price_text,omitempty"`
	OriginalPrice   string    `json:"original_price_text,omitempty"`
	RatingText      string    `json:"rating_text,omitempty"`
	ReviewCountText string    `json:"review_count_text,omitempty"`
	DeliveryText    string    `json:"delivery_text,omitempty"`
	CouponText      string    `json:"coupon_text,omitempty"`
	SellerText      string    `json:"seller_text,omitempty"`
	URL             string    `json:"url,omitempty"`
	CapturedAt      time.Time `json:"captured_at"`
}

// ScoreBreakdown holds the per-criterion ranking scores, each in [0,1]
type ScoreBreakdown struct {
	Price    float64 `json:"price"`
	Delivery float64 `json:"delivery"`
	Trust    float64 `json:"trust"`
	Final    float64 `json:"final"`
}

// NormalizedOffer is a comparable offer produced from a RawListing
type NormalizedOffer struct {
	Platform     string `json:"platform"`
	PlatformName string `json:"platform_name"`
	Title        string `json:"title"`
	URL          string `json:"url,omitempty"`
	SellerName   string `json:"seller_name,omitempty"`

	// Pricing. Nil price means the field could not be parsed or enriched.
	BasePrice      *decimal.Decimal `json:"base_price,omitempty"`
	Discount       decimal.Decimal  `json:"discount"`
	Coupon         decimal.Decimal  `json:"coupon"`
	EffectivePrice *decimal.Decimal `json:"effective_price,omitempty"`

	// Trust signals
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`

	// Delivery
	DeliveryDaysMin *int   `json:"delivery_days_min,omitempty"`
	DeliveryDaysMax *int   `json:"delivery_days_max,omitempty"`
	DeliveryText    string `json:"delivery_text,omitempty"`

	// Scoring
	MatchScore float64        `json:"match_score"`
	Breakdown  ScoreBreakdown `json:"score_breakdown"`
	Badges     []string       `json:"badges,omitempty"`
	Rank       int            `json:"rank"`

	// ScrapeOrder preserves arrival order for deterministic tie-breaking
	ScrapeOrder int `json:"-"`
}

// SiteStatus reports the terminal outcome of one attempted site.
// Exactly one is produced per attempted target, never dropped.
type SiteStatus struct {
	Site          string     `json:"site"`
	Name          string     `json:"name"`
	Status        StatusCode `json:"status"`
	ListingsFound int        `json:"listings_found"`
	ElapsedMS     int64      `json:"elapsed_ms"`
	Error         string     `json:"error,omitempty"`
}

// Result is the aggregate output of a comparison run
type Result struct {
	Query       Query             `json:"query"`
	Offers      []NormalizedOffer `json:"offers"`
	Statuses    []SiteStatus      `json:"site_statuses"`
	Explanation string            `json:"explanation,omitempty"`
	RawCount    int               `json:"raw_count"`
	Matched     int               `json:"matched_count"`
	Elapsed     time.Duration     `json:"-"`
	ElapsedMS   int64             `json:"elapsed_ms"`
}

// EventType identifies a streaming pipeline event
type EventType string

const (
	EventScrapingStarted EventType = "scraping-started"
	EventSiteDone        EventType = "site-done"
	EventMatchingDone    EventType = "matching-done"
	EventRankingDone     EventType = "ranking-done"
	EventFinalResult     EventType = "final-result"
)

// Event is one entry in the streaming variant of the pipeline output.
// Exactly one payload field beyond Type is populated, matching the event kind.
type Event struct {
	Type    EventType   `json:"type"`
	Sites   []string    `json:"sites,omitempty"`
	Status  *SiteStatus `json:"site_status,omitempty"`
	Matched int         `json:"matched_count,omitempty"`
	Ranked  int         `json:"ranked_count,omitempty"`
	Result  *Result     `json:"result,omitempty"`
}
