package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/extract"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/retry"
	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// ErrUnavailable means no oracle is configured. Callers degrade to
// their deterministic paths on it.
var ErrUnavailable = errors.New("oracle unavailable")

// DefaultBaseURL targets an OpenAI-compatible chat completions API.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultModel handles parsing, matching, selector discovery and
// explanation. Extraction enrichment uses the fast model because it
// runs once per unparsed listing.
const (
	DefaultModel     = "llama-3.3-70b-versatile"
	DefaultFastModel = "llama-3.1-8b-instant"
)

// free-tier friendly: 30 requests per minute
const defaultRPM = 30

// Config for the HTTP oracle client.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	FastModel string
	Timeout   time.Duration
	// RequestsPerMinute caps the call rate across all capabilities
	RequestsPerMinute int
}

// Client implements the external parse, discovery, matching, enrichment
// and explanation capabilities over one chat-completions endpoint.
type Client struct {
	cfg       Config
	http      *http.Client
	limiter   *rate.Limiter
	converter *md.Converter
	log       zerolog.Logger
}

// NewClient returns a ready client, or ErrUnavailable when no API key
// is configured anywhere.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = APIKey()
	}
	if cfg.APIKey == "" {
		return nil, ErrUnavailable
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.FastModel == "" {
		cfg.FastModel = DefaultFastModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultRPM
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 3),
		converter: md.NewConverter("", true, nil),
		log:       log,
	}, nil
}

// ParseQuery extracts structured attributes and an optimized search
// string from a free-text product query.
func (c *Client) ParseQuery(ctx context.Context, raw string) (models.Attributes, string, error) {
	system := `You are a product query parser for Indian e-commerce.
Return ONLY this JSON (no markdown):
{"brand":"","model":"","storage":null,"ram":null,"color":null,"variant":null,"category":"smartphone","optimized_search_query":""}

Rules:
- brand: capitalize first letter (Apple, Samsung)
- model: full model name without brand (iPhone 15, Galaxy S24 Ultra)
- storage: capacity like 128GB, 256GB, 1TB, or null
- category: smartphone|laptop|tablet|audio|wearable|tv|accessory|other
- optimized_search_query: best string for e-commerce search (brand+model+storage)`

	var parsed struct {
		Brand       string `json:"brand"`
		Model       string `json:"model"`
		Storage     string `json:"storage"`
		RAM         string `json:"ram"`
		Color       string `json:"color"`
		Variant     string `json:"variant"`
		Category    string `json:"category"`
		SearchQuery string `json:"optimized_search_query"`
	}
	if err := c.completeJSON(ctx, c.cfg.Model, system, "Query: "+raw, &parsed); err != nil {
		return models.Attributes{}, "", err
	}
	attrs := models.Attributes{
		Brand:    parsed.Brand,
		Model:    parsed.Model,
		Storage:  parsed.Storage,
		RAM:      parsed.RAM,
		Color:    parsed.Color,
		Variant:  parsed.Variant,
		Category: parsed.Category,
	}
	search := parsed.SearchQuery
	if search == "" {
		search = raw
	}
	return attrs, search, nil
}

// ProposeSelector asks for one CSS selector for a named field given a
// page excerpt. The excerpt is sent both raw and as a markdown digest
// so the model sees structure and content.
func (c *Client) ProposeSelector(ctx context.Context, site, field, pageExcerpt string) (string, error) {
	system := `You are a CSS selector engineer for e-commerce product listing pages.
Given an HTML excerpt, return ONLY this JSON (no markdown):
{"selector":""}
The selector must match the requested field on a product card. Prefer stable class names over positional selectors. Return an empty selector if nothing fits.`

	digest := c.pageDigest(pageExcerpt)
	user := fmt.Sprintf("Site: %s\nField: %s\n\nHTML excerpt:\n%s\n\nPage digest:\n%s", site, field, pageExcerpt, digest)

	var parsed struct {
		Selector string `json:"selector"`
	}
	if err := c.completeJSON(ctx, c.cfg.Model, system, user, &parsed); err != nil {
		return "", err
	}
	sel := strings.TrimSpace(parsed.Selector)
	if sel == "" {
		return "", fmt.Errorf("no selector proposed for %s/%s", site, field)
	}
	return sel, nil
}

// ScoreMatch judges whether a listing title is the queried product.
func (c *Client) ScoreMatch(ctx context.Context, title string, q models.Query) (float64, error) {
	system := `You judge whether an e-commerce listing is the exact product a user asked for.
Return ONLY this JSON (no markdown):
{"score":0.0}
score is 0.0-1.0. Exact product = 1.0. Same family but different model, variant, generation or capacity scores at most 0.2. Accessories for the product score 0.0.`

	user := fmt.Sprintf("User query: %s\nParsed brand: %s\nParsed model: %s\nParsed storage: %s\n\nListing title: %s",
		q.Raw, q.Attributes.Brand, q.Attributes.Model, q.Attributes.Storage, title)

	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := c.completeJSON(ctx, c.cfg.Model, system, user, &parsed); err != nil {
		return 0, err
	}
	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 1 {
		parsed.Score = 1
	}
	return parsed.Score, nil
}

// EnrichListing recovers price, delivery and rating text from a raw
// card dump. Runs on the fast model since it is called per listing.
func (c *Client) EnrichListing(ctx context.Context, siteKey, cardText string) (extract.EnrichedFields, error) {
	system := `You extract product fields from raw e-commerce card text.
Return ONLY this JSON (no markdown):
{"price_text":"","delivery_text":"","rating_text":""}
price_text is the current selling price as written on the card (e.g. "₹1,29,999"). Leave fields empty when the card does not show them. Never invent values.`

	var parsed struct {
		PriceText    string `json:"price_text"`
		DeliveryText string `json:"delivery_text"`
		RatingText   string `json:"rating_text"`
	}
	user := fmt.Sprintf("Site: %s\nCard text: %s", siteKey, cardText)
	if err := c.completeJSON(ctx, c.cfg.FastModel, system, user, &parsed); err != nil {
		return extract.EnrichedFields{}, err
	}
	return extract.EnrichedFields{
		PriceText:    parsed.PriceText,
		DeliveryText: parsed.DeliveryText,
		RatingText:   parsed.RatingText,
	}, nil
}

// Explain produces advisory rationale text for the final ranking. The
// text is presentation only and never feeds back into scoring.
func (c *Client) Explain(ctx context.Context, offers []models.NormalizedOffer, mode models.RankMode, query string) (string, error) {
	if len(offers) == 0 {
		return "", fmt.Errorf("nothing to explain")
	}
	system := `You write a short buying recommendation for an Indian shopper comparing offers.
2-3 sentences, plain text, no markdown. Mention the recommended platform and why it won under the chosen mode. Do not invent prices or platforms.`

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\nMode: %s\nTop offers:\n", query, mode)
	limit := len(offers)
	if limit > 5 {
		limit = 5
	}
	for _, o := range offers[:limit] {
		price := "unknown"
		if o.EffectivePrice != nil {
			price = o.EffectivePrice.StringFixed(0)
		}
		fmt.Fprintf(&b, "- rank %d: %s at ₹%s (score %.3f, badges %v)\n",
			o.Rank, o.PlatformName, price, o.Breakdown.Final, o.Badges)
	}
	return c.complete(ctx, c.cfg.Model, system, b.String())
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) complete(ctx context.Context, model, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	var content string
	err = retry.WithRetry(ctx, retry.DefaultConfig(), func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.Transient(err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return retry.Transient(err)
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("malformed oracle response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			msg := resp.Status
			if parsed.Error != nil {
				msg = parsed.Error.Message
			}
			err := fmt.Errorf("oracle request failed: %s", msg)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return retry.Transient(err)
			}
			return err
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("oracle returned no choices")
		}
		content = strings.TrimSpace(parsed.Choices[0].Message.Content)
		return nil
	})
	return content, err
}

// completeJSON runs a completion and unmarshals the reply into out,
// tolerating code fences around the JSON.
func (c *Client) completeJSON(ctx context.Context, model, system, user string, out interface{}) error {
	content, err := c.complete(ctx, model, system, user)
	if err != nil {
		return err
	}
	content = stripFences(content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		c.log.Debug().Str("content", clip(content, 120)).Msg("oracle reply was not valid json")
		return fmt.Errorf("oracle reply was not valid json: %w", err)
	}
	return nil
}

// pageDigest renders an HTML excerpt as markdown so prompts carry
// readable content next to the raw markup.
func (c *Client) pageDigest(pageHTML string) string {
	digest, err := c.converter.ConvertString(pageHTML)
	if err != nil {
		return ""
	}
	return clip(strings.TrimSpace(digest), 2000)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
