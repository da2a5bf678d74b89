package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// maxHarvestScripts bounds how many inline scripts the sandbox will run
// on one page.
const maxHarvestScripts = 40

// harvestScriptBudget is the CPU budget per inline script. Page-supplied
// JS can busy-loop, and a spinning VM ignores context deadlines unless
// interrupted.
const harvestScriptBudget = 2 * time.Second

// harvestStateListings is the last-resort extraction path. When no CSS
// tier resolves a product container, many storefronts still ship their
// results as a JSON blob assigned to a global inside an inline script.
// The scripts run in a bare goja sandbox and any global that exports to
// a slice of title+price objects becomes a listing.
func harvestStateListings(ctx context.Context, doc *goquery.Document, target string, pageURL string, log zerolog.Logger) []models.RawListing {
	vm := goja.New()
	stopInterrupt := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stopInterrupt()

	// Minimal browser shims, just enough for state-assignment scripts
	vm.Set("window", vm.GlobalObject())
	vm.Set("self", vm.GlobalObject())
	vm.Set("document", map[string]interface{}{
		"location": map[string]interface{}{"href": pageURL},
	})
	vm.Set("location", map[string]interface{}{"href": pageURL})
	vm.Set("console", map[string]interface{}{
		"log":   func(call goja.FunctionCall) goja.Value { return nil },
		"error": func(call goja.FunctionCall) goja.Value { return nil },
	})

	ran := 0
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if ctx.Err() != nil {
			return false
		}
		if _, external := sel.Attr("src"); external {
			return true
		}
		body := sel.Text()
		if strings.TrimSpace(body) == "" {
			return true
		}
		budget := time.AfterFunc(harvestScriptBudget, func() {
			vm.Interrupt("script budget exceeded")
		})
		// DOM-heavy scripts fail in the sandbox, that is expected
		_, err := vm.RunString(body)
		budget.Stop()
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			vm.ClearInterrupt()
		}
		ran++
		return ran < maxHarvestScripts
	})
	if ctx.Err() != nil {
		return nil
	}

	var listings []models.RawListing
	for _, key := range vm.GlobalObject().Keys() {
		if isSandboxGlobal(key) {
			continue
		}
		val := vm.Get(key)
		if val == nil {
			continue
		}
		listings = append(listings, listingsFromExport(val.Export(), target, pageURL)...)
	}
	if len(listings) > 0 {
		log.Debug().
			Str("site", target).
			Int("listings", len(listings)).
			Int("scripts", ran).
			Msg("recovered listings from inline script state")
	}
	return listings
}

// listingsFromExport walks an exported JS value looking for arrays of
// objects that carry a title and a price.
func listingsFromExport(v interface{}, site, pageURL string) []models.RawListing {
	switch typed := v.(type) {
	case []interface{}:
		var out []models.RawListing
		for _, item := range typed {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if l, ok := listingFromObject(obj, site, pageURL); ok {
				out = append(out, l)
			}
		}
		return out
	case map[string]interface{}:
		var out []models.RawListing
		for _, nested := range typed {
			out = append(out, listingsFromExport(nested, site, pageURL)...)
		}
		return out
	default:
		return nil
	}
}

var harvestTitleKeys = []string{"title", "name", "productName", "product_name", "displayName"}
var harvestPriceKeys = []string{"price", "sellingPrice", "selling_price", "finalPrice", "final_price", "offerPrice", "amount"}
var harvestURLKeys = []string{"url", "link", "productUrl", "product_url", "href", "slug"}

func listingFromObject(obj map[string]interface{}, site, pageURL string) (models.RawListing, bool) {
	title := firstString(obj, harvestTitleKeys)
	price := firstScalar(obj, harvestPriceKeys)
	if title == "" || price == "" {
		return models.RawListing{}, false
	}
	return models.RawListing{
		SiteKey:         site,
		Title:           title,
		PriceText:       price,
		RatingText:      firstScalar(obj, []string{"rating", "averageRating", "average_rating", "stars"}),
		ReviewCountText: firstScalar(obj, []string{"reviews", "reviewCount", "review_count", "ratingsCount"}),
		URL:             firstString(obj, harvestURLKeys),
		CapturedAt:      time.Now(),
	}, true
}

func firstString(obj map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstScalar(obj map[string]interface{}, keys []string) string {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimSuffix(fmt.Sprintf("%f", v), ".000000")
		case int64:
			return fmt.Sprintf("%d", v)
		}
	}
	return ""
}

func isSandboxGlobal(key string) bool {
	standards := map[string]bool{
		"window": true, "self": true, "document": true, "location": true, "console": true,
		"Object": true, "Array": true, "String": true, "Number": true, "Boolean": true,
		"Date": true, "Math": true, "JSON": true, "RegExp": true, "Error": true,
		"Function": true, "parseInt": true, "parseFloat": true, "isNaN": true,
		"isFinite": true, "encodeURI": true, "decodeURI": true, "encodeURIComponent": true,
		"decodeURIComponent": true, "undefined": true, "NaN": true, "Infinity": true,
		"globalThis": true, "Symbol": true, "Map": true, "Set": true, "Promise": true,
		"Proxy": true, "Reflect": true, "escape": true, "unescape": true,
	}
	return standards[key]
}
