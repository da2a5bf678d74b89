package match

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// SemanticScorer judges ambiguous listings. Its verdict replaces the
// deterministic score outright instead of blending with it.
type SemanticScorer interface {
	ScoreMatch(ctx context.Context, title string, q models.Query) (float64, error)
}

// Config bounds the matcher's filtering and escalation behaviour.
type Config struct {
	// MinScore is the floor below which offers never advance
	MinScore float64
	// EscalateLow/High bound the uncertain band handed to the scorer
	EscalateLow  float64
	EscalateHigh float64
}

func DefaultConfig() Config {
	return Config{MinScore: 0.4, EscalateLow: 0.30, EscalateHigh: 0.60}
}

// Matcher scores offers against the parsed query. Six hard gates run
// first; any gate hit forces score 0 regardless of everything else.
type Matcher struct {
	cfg    Config
	scorer SemanticScorer
	log    zerolog.Logger
}

func New(cfg Config, scorer SemanticScorer, log zerolog.Logger) *Matcher {
	if cfg.MinScore <= 0 {
		cfg.MinScore = DefaultConfig().MinScore
	}
	if cfg.EscalateHigh <= cfg.EscalateLow {
		def := DefaultConfig()
		cfg.EscalateLow, cfg.EscalateHigh = def.EscalateLow, def.EscalateHigh
	}
	return &Matcher{cfg: cfg, scorer: scorer, log: log}
}

// Match scores, escalates, deduplicates and filters. Offers without a
// parsable effective price are dropped, they cannot be compared or
// deduplicated. Dedup key is (platform, effective_price), first seen
// wins.
func (m *Matcher) Match(ctx context.Context, q models.Query, offers []models.NormalizedOffer) []models.NormalizedOffer {
	matched := make([]models.NormalizedOffer, 0, len(offers))
	seen := make(map[string]bool, len(offers))
	rejected := 0

	for _, offer := range offers {
		if offer.EffectivePrice == nil {
			rejected++
			continue
		}

		score := m.Score(offer.Title, q)
		if score > 0 && score >= m.cfg.EscalateLow && score < m.cfg.EscalateHigh && m.scorer != nil {
			if verdict, err := m.scorer.ScoreMatch(ctx, offer.Title, q); err == nil {
				m.log.Debug().
					Str("title", clip(offer.Title, 50)).
					Float64("deterministic", score).
					Float64("verdict", verdict).
					Msg("escalated ambiguous match")
				score = clamp01(verdict)
			}
		}
		offer.MatchScore = score

		if score == 0 || score < m.cfg.MinScore {
			rejected++
			continue
		}

		key := offer.Platform + "|" + offer.EffectivePrice.StringFixed(2)
		if seen[key] {
			rejected++
			continue
		}
		seen[key] = true
		matched = append(matched, offer)
	}

	m.log.Info().
		Int("offers", len(offers)).
		Int("matched", len(matched)).
		Int("rejected", rejected).
		Msg("matching complete")
	return matched
}

// Score runs the six gates then the weighted combination. Exported so
// the pipeline can re-score a single title without the filter step.
func (m *Matcher) Score(title string, q models.Query) float64 {
	titleLower := strings.ToLower(title)
	titleTokens := tokenize(title)

	brand := strings.ToLower(strings.TrimSpace(q.Attributes.Brand))
	model := strings.ToLower(strings.TrimSpace(q.Attributes.Model))
	storage := strings.ToLower(strings.ReplaceAll(q.Attributes.Storage, " ", ""))
	modelTokens := tokenize(model)
	queryTokens := tokenize(q.SearchQuery)
	for tok := range queryTokens {
		if stopwords[tok] {
			delete(queryTokens, tok)
		}
	}

	// Gate 1: accessory listings
	if !isAccessoryQuery(q) {
		for _, kw := range accessoryKeywords {
			if strings.Contains(titleLower, kw) {
				return 0
			}
		}
	}

	// Gate 2: a different known brand in the title
	if brand != "" {
		for known := range knownBrands {
			if known != brand && titleTokens[known] {
				return 0
			}
		}
	}

	// Gate 3: model tokens missing, one miss tolerated for long models
	if len(modelTokens) > 0 {
		missing := len(modelTokens) - intersect(modelTokens, titleTokens)
		allowed := 0
		if len(modelTokens) >= 3 {
			allowed = 1
		}
		if missing > allowed {
			return 0
		}
	}

	// Gate 4: variant must agree both ways
	targetTokens := union(modelTokens, tokenize(q.Raw))
	targetVariant, titleVariant := "", ""
	for _, v := range variantTokens {
		if targetTokens[v] {
			targetVariant = v
		}
		if titleTokens[v] {
			titleVariant = v
		}
	}
	if targetVariant == "" && titleVariant != "" {
		return 0
	}
	if targetVariant != "" && titleVariant != targetVariant {
		return 0
	}

	// Gate 5: explicit storage contradiction
	if storage != "" {
		if offerStorage := extractStorage(title); offerStorage != "" && offerStorage != storage {
			return 0
		}
	}

	// Gate 6: wrong generation
	if targetSeries := extractSeries(model); targetSeries != "" {
		if offerSeries := extractSeries(title); offerSeries != "" && offerSeries != targetSeries {
			return 0
		}
	}

	// Weighted scoring; a missing constraint scores full marks
	score := 0.0
	if brand == "" || strings.Contains(titleLower, brand) {
		score += 0.20
	}
	if len(modelTokens) > 0 {
		score += 0.40 * float64(intersect(modelTokens, titleTokens)) / float64(len(modelTokens))
	} else {
		score += 0.40
	}
	if storage == "" || strings.Contains(strings.ReplaceAll(titleLower, " ", ""), storage) {
		score += 0.20
	}
	if len(queryTokens) > 0 {
		score += 0.15 * float64(intersect(queryTokens, titleTokens)) / float64(len(queryTokens))
	} else {
		score += 0.15
	}
	if wc := len(strings.Fields(title)); wc >= 4 && wc <= 20 {
		score += 0.05
	}
	return math.Round(math.Min(score, 1.0)*1000) / 1000
}

func isAccessoryQuery(q models.Query) bool {
	if strings.EqualFold(q.Attributes.Category, "accessory") {
		return true
	}
	raw := strings.ToLower(q.Raw)
	for _, kw := range accessoryKeywords {
		if strings.Contains(raw, kw) {
			return true
		}
	}
	return false
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for tok := range a {
		out[tok] = true
	}
	for tok := range b {
		out[tok] = true
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
