package plan

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// QueryParser is the external parsing capability. When it fails or is
// absent the planner falls back to its regex pass.
type QueryParser interface {
	ParseQuery(ctx context.Context, raw string) (models.Attributes, string, error)
}

var knownBrands = []string{
	"apple", "samsung", "oneplus", "xiaomi", "redmi", "oppo", "vivo",
	"realme", "poco", "google", "motorola", "nokia", "lg", "sony",
	"asus", "lenovo", "hp", "dell", "acer",
}

var knownColors = []string{
	"black", "white", "blue", "red", "green", "gold", "silver",
	"purple", "pink", "yellow", "titanium", "natural", "midnight",
	"starlight", "graphite",
}

var (
	storageRe = regexp.MustCompile(`(?i)\b(\d+\s*(?:GB|TB))\b`)
	ramRe     = regexp.MustCompile(`(?i)\b(\d+\s*GB)\s*RAM\b`)
	spaceRe   = regexp.MustCompile(`\s{2,}`)
)

// Planner turns a free-text query into a structured Query and selects
// which sites to scrape for it.
type Planner struct {
	registry *sites.Registry
	parser   QueryParser
	log      zerolog.Logger
}

func New(registry *sites.Registry, parser QueryParser, log zerolog.Logger) *Planner {
	return &Planner{registry: registry, parser: parser, log: log}
}

// Plan parses the query, preferring the external parser and falling back
// to regex, then picks the target sites honouring allowedSites and brand
// affinity.
func (p *Planner) Plan(ctx context.Context, raw string, mode models.RankMode, allowedSites []string) (models.Query, []sites.Target) {
	q := models.Query{
		ID:   uuid.New(),
		Raw:  strings.TrimSpace(raw),
		Mode: mode,
	}

	parsed := false
	if p.parser != nil {
		attrs, search, err := p.parser.ParseQuery(ctx, q.Raw)
		if err == nil && (attrs.Brand != "" || attrs.Model != "") {
			q.Attributes = attrs
			q.SearchQuery = search
			q.Confidence = 0.9
			parsed = true
			p.log.Debug().Str("brand", attrs.Brand).Str("model", attrs.Model).Msg("query parsed externally")
		} else if err != nil {
			p.log.Debug().Err(err).Msg("external parse unavailable, using regex")
		}
	}
	if !parsed {
		q.Attributes, q.SearchQuery, q.Confidence = RegexParse(q.Raw)
		p.log.Debug().
			Str("brand", q.Attributes.Brand).
			Str("model", q.Attributes.Model).
			Float64("confidence", q.Confidence).
			Msg("query parsed by regex")
	}
	if q.SearchQuery == "" {
		q.SearchQuery = q.Raw
	}

	targets := p.selectTargets(q.Attributes.Brand, allowedSites)
	p.log.Info().
		Str("query", q.SearchQuery).
		Int("sites", len(targets)).
		Str("mode", string(mode)).
		Msg("plan ready")
	return q, targets
}

// RegexParse is the deterministic fallback parser. Confidence reflects
// how many attributes it could pin down.
func RegexParse(raw string) (models.Attributes, string, float64) {
	q := strings.TrimSpace(raw)
	ql := strings.ToLower(q)
	var attrs models.Attributes

	for _, b := range knownBrands {
		if strings.Contains(ql, b) {
			attrs.Brand = capitalize(b)
			break
		}
	}
	// RAM is matched and removed first so "16gb ram 256gb" does not hand
	// the RAM capacity to the storage attribute.
	var ramToken string
	if m := ramRe.FindStringSubmatch(q); m != nil {
		ramToken = m[0]
		attrs.RAM = strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))
	}
	storageSrc := q
	if ramToken != "" {
		storageSrc = removeFold(q, ramToken)
	}
	if m := storageRe.FindStringSubmatch(storageSrc); m != nil {
		attrs.Storage = strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))
	}
	for _, c := range knownColors {
		if strings.Contains(ql, c) {
			attrs.Color = capitalize(c)
			break
		}
	}

	// Model is the query minus the recognized attribute tokens
	model := q
	for _, part := range []string{attrs.Brand, ramToken, attrs.Storage, attrs.Color} {
		if part != "" {
			model = removeFold(model, part)
		}
	}
	attrs.Model = strings.TrimSpace(spaceRe.ReplaceAllString(model, " "))
	attrs.Category = categorize(attrs.Model)

	search := strings.TrimSpace(strings.Join(nonEmpty(attrs.Brand, attrs.Model, attrs.Storage), " "))
	if search == "" {
		search = q
	}

	confidence := 0.5
	if attrs.Brand != "" {
		confidence += 0.15
	}
	if attrs.Model != "" {
		confidence += 0.20
	}
	if attrs.Storage != "" {
		confidence += 0.10
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	return attrs, search, confidence
}

// selectTargets narrows enabled sites by the caller's allow-list, then
// by brand affinity. It never returns an empty set while any site is
// enabled; a filter that empties the list falls back to all enabled.
func (p *Planner) selectTargets(brand string, allowedSites []string) []sites.Target {
	selected := p.registry.Enabled()
	if len(allowedSites) > 0 {
		if filtered := p.registry.FilterKeys(allowedSites); len(filtered) > 0 {
			selected = filtered
		} else {
			p.log.Warn().Strs("allowed", allowedSites).Msg("site filter matched nothing, using all enabled")
		}
	}

	if brand != "" {
		kept := selected[:0:0]
		for _, t := range selected {
			if t.AcceptsBrand(brand) {
				kept = append(kept, t)
			} else {
				p.log.Debug().Str("site", t.Key).Str("brand", brand).Msg("skipped by brand affinity")
			}
		}
		if len(kept) > 0 {
			selected = kept
		} else {
			p.log.Warn().Str("brand", brand).Msg("brand filter emptied site list, using all enabled")
			selected = p.registry.Enabled()
		}
	}
	return selected
}

func categorize(model string) string {
	ml := strings.ToLower(model)
	switch {
	case containsAny(ml, "laptop", "book", "macbook"):
		return "laptop"
	case containsAny(ml, "tab", "ipad"):
		return "tablet"
	case containsAny(ml, "watch", "band"):
		return "wearable"
	case containsAny(ml, "tv", "television"):
		return "tv"
	default:
		return "smartphone"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func removeFold(s, part string) string {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(part))
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(part):]
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
