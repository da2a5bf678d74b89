package rank

import (
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// Weights splits the composite score across the three criteria.
// They sum to 1 for every mode.
type Weights struct {
	Price    float64
	Delivery float64
	Trust    float64
}

var modeWeights = map[models.RankMode]Weights{
	models.ModeCheapest: {Price: 0.70, Delivery: 0.15, Trust: 0.15},
	models.ModeFastest:  {Price: 0.15, Delivery: 0.70, Trust: 0.15},
	models.ModeReliable: {Price: 0.15, Delivery: 0.15, Trust: 0.70},
	models.ModeBalanced: {Price: 1.0 / 3, Delivery: 1.0 / 3, Trust: 1.0 / 3},
}

// neutralScore stands in for a criterion the offer carries no data for,
// so missing delivery info neither sinks nor boosts an offer
const neutralScore = 0.3

// maxPerSite caps how many offers one platform may hold in the final
// ranking, keeping single-site result floods from drowning the list
const maxPerSite = 5

// badgeTopK bounds the Most Trusted scan to the head of the ranking
const badgeTopK = 5

// Ranker orders matched offers by mode-weighted composite score. Trust
// comes from the static per-platform table in the site registry, never
// from scraped ratings.
type Ranker struct {
	registry *sites.Registry
	log      zerolog.Logger
}

func New(registry *sites.Registry, log zerolog.Logger) *Ranker {
	return &Ranker{registry: registry, log: log}
}

// Rank caps per site, scores, sorts, assigns ranks and badges. The input
// slice is not mutated. Ranking an identical set twice with the same
// mode yields an identical order.
func (r *Ranker) Rank(offers []models.NormalizedOffer, mode models.RankMode) []models.NormalizedOffer {
	if len(offers) == 0 {
		return nil
	}
	weights, ok := modeWeights[mode]
	if !ok {
		weights = modeWeights[models.ModeBalanced]
	}

	eligible := make([]models.NormalizedOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.EffectivePrice == nil {
			continue
		}
		eligible = append(eligible, offer)
	}
	// The per-site cap picks members on a mode-independent key, so
	// switching modes reorders the same set instead of swapping offers
	// in and out of it.
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if c := a.EffectivePrice.Cmp(*b.EffectivePrice); c != 0 {
			return c < 0
		}
		return a.ScrapeOrder < b.ScrapeOrder
	})
	members := capPerSite(eligible)

	minPrice, maxPrice := priceBounds(members)
	minDays, maxDays := deliveryBounds(members)

	ranked := make([]models.NormalizedOffer, 0, len(members))
	for _, offer := range members {
		ps := normalizeInverse(offer.EffectivePrice.InexactFloat64(), minPrice, maxPrice)
		ds := neutralScore
		if offer.DeliveryDaysMax != nil {
			ds = normalizeInverse(float64(*offer.DeliveryDaysMax), minDays, maxDays)
		}
		ts := r.trustOf(offer.Platform)

		offer.Breakdown = models.ScoreBreakdown{
			Price:    round3(ps),
			Delivery: round3(ds),
			Trust:    round3(ts),
			Final:    round3(weights.Price*ps + weights.Delivery*ds + weights.Trust*ts),
		}
		offer.Badges = nil
		ranked = append(ranked, offer)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Breakdown.Final != b.Breakdown.Final {
			return a.Breakdown.Final > b.Breakdown.Final
		}
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if c := a.EffectivePrice.Cmp(*b.EffectivePrice); c != 0 {
			return c < 0
		}
		return a.ScrapeOrder < b.ScrapeOrder
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	r.assignBadges(ranked)

	if len(ranked) > 0 {
		r.log.Info().
			Str("mode", string(mode)).
			Int("offers", len(ranked)).
			Str("top", ranked[0].Platform).
			Msg("ranking complete")
	}
	return ranked
}

func (r *Ranker) trustOf(platform string) float64 {
	if r.registry != nil {
		if t, ok := r.registry.Get(platform); ok {
			return t.TrustScore
		}
	}
	return neutralScore
}

// assignBadges labels the ranked list in place. One offer may hold
// several badges.
func (r *Ranker) assignBadges(ranked []models.NormalizedOffer) {
	if len(ranked) == 0 {
		return
	}
	ranked[0].Badges = append(ranked[0].Badges, "Recommended")

	if i := lowestPriceIndex(ranked); i >= 0 {
		ranked[i].Badges = append(ranked[i].Badges, "Lowest Price")
	}
	if i := fastestDeliveryIndex(ranked); i >= 0 {
		ranked[i].Badges = append(ranked[i].Badges, "Fastest Delivery")
	}

	topK := len(ranked)
	if topK > badgeTopK {
		topK = badgeTopK
	}
	best, bestTrust := -1, -1.0
	for i := 0; i < topK; i++ {
		if ts := r.trustOf(ranked[i].Platform); ts > bestTrust {
			best, bestTrust = i, ts
		}
	}
	if best >= 0 {
		ranked[best].Badges = append(ranked[best].Badges, "Most Trusted")
	}
}

func lowestPriceIndex(ranked []models.NormalizedOffer) int {
	best := -1
	var bestPrice decimal.Decimal
	for i, o := range ranked {
		if o.EffectivePrice == nil {
			continue
		}
		if best < 0 || o.EffectivePrice.LessThan(bestPrice) {
			best, bestPrice = i, *o.EffectivePrice
		}
	}
	return best
}

func fastestDeliveryIndex(ranked []models.NormalizedOffer) int {
	best, bestDays := -1, 0
	for i, o := range ranked {
		if o.DeliveryDaysMax == nil {
			continue
		}
		if best < 0 || *o.DeliveryDaysMax < bestDays {
			best, bestDays = i, *o.DeliveryDaysMax
		}
	}
	return best
}

func capPerSite(ranked []models.NormalizedOffer) []models.NormalizedOffer {
	counts := make(map[string]int)
	out := ranked[:0:0]
	for _, o := range ranked {
		if counts[o.Platform] >= maxPerSite {
			continue
		}
		counts[o.Platform]++
		out = append(out, o)
	}
	return out
}

func priceBounds(offers []models.NormalizedOffer) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, o := range offers {
		if o.EffectivePrice == nil {
			continue
		}
		p := o.EffectivePrice.InexactFloat64()
		lo, hi = math.Min(lo, p), math.Max(hi, p)
	}
	return lo, hi
}

func deliveryBounds(offers []models.NormalizedOffer) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, o := range offers {
		if o.DeliveryDaysMax == nil {
			continue
		}
		d := float64(*o.DeliveryDaysMax)
		lo, hi = math.Min(lo, d), math.Max(hi, d)
	}
	return lo, hi
}

// normalizeInverse maps v within [lo,hi] so the minimum scores 1 and the
// maximum scores 0. A degenerate range scores everyone 1.
func normalizeInverse(v, lo, hi float64) float64 {
	if math.IsInf(lo, 1) || hi <= lo {
		return 1.0
	}
	return (hi - v) / (hi - lo)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
