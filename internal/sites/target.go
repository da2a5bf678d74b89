// Package sites holds the marketplace configuration registry. Per-site
// behaviour is data, not code: one generic agent consumes these targets.
package sites

import (
	"net/url"
	"strings"
)

// WaitStrategy controls how the agent decides a search page has rendered.
// It is fixed per site and never substituted at runtime: some storefronts
// keep background requests alive forever and only work with dom_ready.
type WaitStrategy string

const (
	// WaitDOMReady waits for document parse plus the ready selector only
	WaitDOMReady WaitStrategy = "dom_ready"
	// WaitNetworkIdle additionally waits for network activity to quiet down
	WaitNetworkIdle WaitStrategy = "network_idle"
)

// SelectorRule is a configured CSS rule with one optional fallback
type SelectorRule struct {
	Primary  string `yaml:"primary"`
	Fallback string `yaml:"fallback,omitempty"`
}

// Empty reports whether no selector is configured at all
func (r SelectorRule) Empty() bool {
	return r.Primary == "" && r.Fallback == ""
}

// Candidates returns the configured selectors in resolution order
func (r SelectorRule) Candidates() []string {
	var out []string
	if r.Primary != "" {
		out = append(out, r.Primary)
	}
	if r.Fallback != "" {
		out = append(out, r.Fallback)
	}
	return out
}

// Selectors groups the per-field rules for one marketplace
type Selectors struct {
	Container     SelectorRule `yaml:"container"`
	Title         SelectorRule `yaml:"title"`
	Price         SelectorRule `yaml:"price"`
	OriginalPrice SelectorRule `yaml:"original_price"`
	Rating        SelectorRule `yaml:"rating"`
	ReviewCount   SelectorRule `yaml:"review_count"`
	Delivery      SelectorRule `yaml:"delivery"`
	Coupon        SelectorRule `yaml:"coupon"`
	Seller        SelectorRule `yaml:"seller"`
	ListingURL    SelectorRule `yaml:"listing_url"`
}

// Field returns the rule for a named extraction field
func (s Selectors) Field(name string) SelectorRule {
	switch name {
	case "container":
		return s.Container
	case "title":
		return s.Title
	case "price":
		return s.Price
	case "original_price":
		return s.OriginalPrice
	case "rating":
		return s.Rating
	case "review_count":
		return s.ReviewCount
	case "delivery":
		return s.Delivery
	case "coupon":
		return s.Coupon
	case "seller":
		return s.Seller
	case "listing_url":
		return s.ListingURL
	}
	return SelectorRule{}
}

// Target is one marketplace configuration. Loaded before scraping and
// read-only for the duration of a run.
type Target struct {
	Key           string       `yaml:"key"`
	Name          string       `yaml:"name"`
	Enabled       bool         `yaml:"enabled"`
	BaseURL       string       `yaml:"base_url"`
	SearchURL     string       `yaml:"search_url_pattern"`
	TrustScore    float64      `yaml:"trust_score"`
	Selectors     Selectors    `yaml:"selectors"`
	BotPhrases    []string     `yaml:"bot_detection_phrases"`
	WaitStrategy  WaitStrategy `yaml:"wait_strategy"`
	ReadySelector string       `yaml:"ready_selector,omitempty"`
	NeedsScroll   bool         `yaml:"needs_scroll"`
	MaxResults    int          `yaml:"max_results"`
	BrandAffinity []string     `yaml:"brand_affinity,omitempty"`
}

// SearchFor expands the search URL template for the given query text
func (t Target) SearchFor(query string) string {
	return strings.ReplaceAll(t.SearchURL, "{query}", url.QueryEscape(query))
}

// AcceptsBrand reports whether the target serves the given brand.
// Targets without a brand affinity list accept every brand.
func (t Target) AcceptsBrand(brand string) bool {
	if len(t.BrandAffinity) == 0 {
		return true
	}
	b := strings.ToLower(brand)
	for _, a := range t.BrandAffinity {
		if strings.ToLower(a) == b {
			return true
		}
	}
	return false
}
