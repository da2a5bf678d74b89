package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// EnrichedFields is what one enrichment call can recover from raw card
// text when the CSS path came back empty.
type EnrichedFields struct {
	PriceText    string
	DeliveryText string
	RatingText   string
}

// Enricher recovers fields from unstructured card text. Implementations
// are expected to be expensive, the extractor calls it at most once per
// listing and only when the price is missing.
type Enricher interface {
	EnrichListing(ctx context.Context, siteKey, cardText string) (EnrichedFields, error)
}

// Extractor turns raw listings into comparable offers.
type Extractor struct {
	registry *sites.Registry
	enrich   Enricher
	log      zerolog.Logger
}

func New(registry *sites.Registry, enrich Enricher, log zerolog.Logger) *Extractor {
	return &Extractor{registry: registry, enrich: enrich, log: log}
}

// Normalize parses every raw listing, deduplicates by canonical URL
// (falling back to platform+title), and assigns scrape order. A listing
// whose price cannot be parsed still produces an offer with nil price
// fields; downstream deals with it.
func (e *Extractor) Normalize(ctx context.Context, listings []models.RawListing) []models.NormalizedOffer {
	offers := make([]models.NormalizedOffer, 0, len(listings))
	seen := make(map[string]bool, len(listings))
	nullPrice := 0

	for _, l := range listings {
		offer := e.normalizeOne(ctx, l)
		key := dedupKey(offer)
		if seen[key] {
			continue
		}
		seen[key] = true
		offer.ScrapeOrder = len(offers)
		if offer.EffectivePrice == nil {
			nullPrice++
		}
		offers = append(offers, offer)
	}

	if nullPrice > 0 {
		e.log.Warn().Int("null_price", nullPrice).Int("total", len(offers)).Msg("offers without a parsable price")
	}
	e.log.Info().Int("raw", len(listings)).Int("offers", len(offers)).Msg("normalization complete")
	return offers
}

func (e *Extractor) normalizeOne(ctx context.Context, l models.RawListing) models.NormalizedOffer {
	offer := models.NormalizedOffer{
		Platform:     l.SiteKey,
		PlatformName: e.platformName(l.SiteKey),
		Title:        strings.TrimSpace(l.Title),
		URL:          CleanURL(l.URL, l.SiteKey),
		SellerName:   strings.TrimSpace(l.SellerText),
		DeliveryText: strings.TrimSpace(l.DeliveryText),
	}

	priceText, deliveryText, ratingText := l.PriceText, l.DeliveryText, l.RatingText
	if ParsePrice(priceText) == nil && e.enrich != nil {
		// One-shot recovery from the card's text context
		fields, err := e.enrich.EnrichListing(ctx, l.SiteKey, cardText(l))
		if err != nil {
			e.log.Debug().Err(err).Str("site", l.SiteKey).Msg("enrichment unavailable")
		} else {
			if fields.PriceText != "" {
				priceText = fields.PriceText
			}
			if deliveryText == "" {
				deliveryText = fields.DeliveryText
			}
			if ratingText == "" {
				ratingText = fields.RatingText
			}
		}
	}

	current := ParsePrice(priceText)
	mrp := ParsePrice(l.OriginalPrice)

	// base is the strike-through MRP when one exists above the current
	// price; the gap between them is the listed discount
	base := current
	if mrp != nil && current != nil && mrp.GreaterThan(*current) {
		base = mrp
		offer.Discount = mrp.Sub(*current)
	} else if mrp != nil && current == nil {
		base = mrp
	}
	offer.BasePrice = base
	offer.Coupon = ParseCoupon(l.CouponText, current)

	if base != nil {
		eff := base.Sub(offer.Discount).Sub(offer.Coupon)
		if eff.IsNegative() {
			eff = decimal.Zero
		}
		offer.EffectivePrice = &eff
	}

	offer.Rating = ParseRating(ratingText)
	offer.ReviewCount = ParseReviewCount(l.ReviewCountText)
	offer.DeliveryDaysMin, offer.DeliveryDaysMax = ParseDelivery(deliveryText)
	if offer.DeliveryText == "" {
		offer.DeliveryText = strings.TrimSpace(deliveryText)
	}
	return offer
}

func (e *Extractor) platformName(key string) string {
	if e.registry != nil {
		if t, ok := e.registry.Get(key); ok {
			return t.Name
		}
	}
	return key
}

var spaceRe = regexp.MustCompile(`\s+`)

func dedupKey(o models.NormalizedOffer) string {
	if o.URL != "" {
		return strings.ToLower(o.URL)
	}
	return o.Platform + "|" + spaceRe.ReplaceAllString(strings.ToLower(o.Title), " ")
}

// cardText concatenates whatever raw text the card carried, for the
// enrichment prompt.
func cardText(l models.RawListing) string {
	parts := []string{l.Title, l.PriceText, l.OriginalPrice, l.RatingText, l.ReviewCountText, l.DeliveryText, l.CouponText, l.SellerText}
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(p)
	}
	return b.String()
}
