package sites

// Defaults returns the built-in marketplace set used when no config
// directory is supplied. Selectors reflect the storefront markup observed
// at the time of writing; the resolver's heuristic and discovery tiers
// cover drift.
func Defaults() []Target {
	return []Target{
		{
			Key:        "amazon",
			Name:       "Amazon India",
			Enabled:    true,
			BaseURL:    "https://www.amazon.in",
			SearchURL:  "https://www.amazon.in/s?k={query}",
			TrustScore: 0.92,
			Selectors: Selectors{
				Container:     SelectorRule{Primary: "[data-component-type='s-search-result']"},
				Title:         SelectorRule{Primary: "h2 .a-text-normal", Fallback: "h2 a span"},
				Price:         SelectorRule{Primary: ".a-price .a-offscreen"},
				OriginalPrice: SelectorRule{Primary: ".a-text-price .a-offscreen"},
				Rating:        SelectorRule{Primary: ".a-icon-star-small .a-icon-alt", Fallback: ".a-icon-star .a-icon-alt"},
				ReviewCount:   SelectorRule{Primary: "[aria-label$='ratings'] .a-size-small", Fallback: "span[class*='review']"},
				Delivery:      SelectorRule{Primary: "[data-cy='delivery-recipe'] .a-text-bold", Fallback: "[class*='delivery']"},
				Coupon:        SelectorRule{Primary: ".s-coupon-unclipped", Fallback: "[class*='coupon']"},
				ListingURL:    SelectorRule{Primary: "h2 a", Fallback: "a[href*='/dp/']"},
			},
			BotPhrases:    []string{"enter the characters you see below", "sorry, we just need to make sure you're not a robot", "automated access"},
			WaitStrategy:  WaitDOMReady,
			ReadySelector: "[data-component-type='s-search-result']",
			NeedsScroll:   true,
			MaxResults:    8,
		},
		{
			Key:        "flipkart",
			Name:       "Flipkart",
			Enabled:    true,
			BaseURL:    "https://www.flipkart.com",
			SearchURL:  "https://www.flipkart.com/search?q={query}",
			TrustScore: 0.88,
			Selectors: Selectors{
				Container:   SelectorRule{Primary: "[data-id]"},
				Title:       SelectorRule{Primary: "div.KzDlHZ", Fallback: "a[title]"},
				Price:       SelectorRule{Primary: "div.Nx9bqj", Fallback: "[class*='price']"},
				OriginalPrice: SelectorRule{Primary: "div.yRaY8j"},
				Rating:      SelectorRule{Primary: "div.XQDdHH"},
				ReviewCount: SelectorRule{Primary: "span.Wphh3N"},
				Delivery:    SelectorRule{Primary: "[class*='delivery']"},
				ListingURL:  SelectorRule{Primary: "a[href*='/p/']"},
			},
			BotPhrases:    []string{"are you a human", "unusual traffic", "retry in a moment"},
			WaitStrategy:  WaitNetworkIdle,
			ReadySelector: "[data-id]",
			NeedsScroll:   true,
			MaxResults:    8,
		},
		{
			Key:        "croma",
			Name:       "Croma",
			Enabled:    true,
			BaseURL:    "https://www.croma.com",
			SearchURL:  "https://www.croma.com/searchB?q={query}",
			TrustScore: 0.80,
			Selectors: Selectors{
				Container:   SelectorRule{Primary: "li.product-item", Fallback: "[class*='product-card']"},
				Title:       SelectorRule{Primary: "h3.product-title a"},
				Price:       SelectorRule{Primary: "span[data-testid='new-price']", Fallback: "[class*='amount']"},
				OriginalPrice: SelectorRule{Primary: "span[data-testid='old-price']"},
				Rating:      SelectorRule{Primary: "[class*='rating']"},
				Delivery:    SelectorRule{Primary: "[class*='delivery']"},
				ListingURL:  SelectorRule{Primary: "h3.product-title a"},
			},
			BotPhrases:   []string{"access denied", "request blocked"},
			WaitStrategy: WaitNetworkIdle,
			NeedsScroll:  true,
			MaxResults:   6,
		},
		{
			Key:        "reliance_digital",
			Name:       "Reliance Digital",
			Enabled:    true,
			BaseURL:    "https://www.reliancedigital.in",
			SearchURL:  "https://www.reliancedigital.in/search?q={query}",
			TrustScore: 0.82,
			Selectors: Selectors{
				Container:  SelectorRule{Primary: "div.sp.grid", Fallback: "[class*='product-card']"},
				Title:      SelectorRule{Primary: "p.sp__name"},
				Price:      SelectorRule{Primary: "span.TextWeb__Text-sc-1cyx778-0", Fallback: "[class*='sp__price']"},
				Rating:     SelectorRule{Primary: "[class*='rating']"},
				Delivery:   SelectorRule{Primary: "[class*='delivery']"},
				ListingURL: SelectorRule{Primary: "a[href*='/product']"},
			},
			BotPhrases:   []string{"access denied", "incapsula"},
			WaitStrategy: WaitDOMReady,
			NeedsScroll:  true,
			MaxResults:   6,
		},
		{
			Key:        "vijay_sales",
			Name:       "Vijay Sales",
			Enabled:    true,
			BaseURL:    "https://www.vijaysales.com",
			SearchURL:  "https://www.vijaysales.com/search-listing?q={query}",
			TrustScore: 0.75,
			Selectors: Selectors{
				Container:  SelectorRule{Primary: "div.product-card__inner", Fallback: "div[class*='product-card']"},
				Title:      SelectorRule{Primary: "[class*='product-card__title']"},
				Price:      SelectorRule{Primary: "[class*='discountedPrice']", Fallback: "[class*='price']"},
				OriginalPrice: SelectorRule{Primary: "[class*='product-card__price--mrp']", Fallback: "del"},
				ListingURL: SelectorRule{Primary: "a[href*='/p/']", Fallback: "a[class*='product']"},
			},
			BotPhrases:   []string{"access denied", "captcha", "unusual traffic"},
			WaitStrategy: WaitDOMReady,
			NeedsScroll:  true,
			MaxResults:   6,
		},
		{
			Key:        "samsung_shop",
			Name:       "Samsung Shop",
			Enabled:    true,
			BaseURL:    "https://www.samsung.com/in",
			SearchURL:  "https://www.samsung.com/in/search/?searchvalue={query}",
			TrustScore: 0.90,
			Selectors: Selectors{
				Container:  SelectorRule{Primary: "[class*='product-card']", Fallback: "li[class*='item']"},
				Title:      SelectorRule{Primary: "[class*='product-card__name']"},
				Price:      SelectorRule{Primary: "[class*='product-card__price']"},
				ListingURL: SelectorRule{Primary: "a[href*='/buy/']", Fallback: "a[class*='product']"},
			},
			BotPhrases:    []string{"access denied"},
			WaitStrategy:  WaitNetworkIdle,
			NeedsScroll:   false,
			MaxResults:    5,
			BrandAffinity: []string{"samsung"},
		},
	}
}
