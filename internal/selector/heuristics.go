package selector

// Generic cross-site selector patterns, ordered broad-to-narrow by observed
// stability across Indian storefronts. Tried only after the site's own
// configured rules fail.
var heuristics = map[string][]string{
	"container": {
		"[data-component-type='s-search-result']",
		"[data-id]",
		"[data-product-id]",
		"[data-testid*='product']",
		"li.product-item",
		"div.product-item",
		"article.product",
		"[class*='ProductCard']",
		"[class*='product-card']",
		"[class*='product-tile']",
		"[class*='item-card']",
		"[class*='search-result']",
		"[class*='SearchResult']",
		"[class*='product-listing']",
		"[class*='productCard']",
		"[class*='product-box']",
		"li[class*='product']",
	},
	"title": {
		"h2 .a-text-normal", "h2 a", "h3 a", "h2 span", "h3 span",
		"[class*='title'] a", "[class*='Title'] a",
		"[class*='name'] a", "[class*='Name'] a",
		"[class*='product-title']", "[class*='ProductTitle']",
		"[class*='product-name']", "[class*='ProductName']",
		"a[class*='title']", "a[class*='name']",
	},
	"price": {
		".a-price .a-offscreen",
		"[class*='discountedPrice']", "[class*='DiscountedPrice']",
		"[class*='selling-price']", "[class*='SellingPrice']",
		"[class*='final-price']", "[class*='FinalPrice']",
		"span[class*='Price']",
		"div[class*='Price']",
		"[class*='price']",
		"[class*='amount']",
	},
	"original_price": {
		".a-text-price .a-offscreen",
		"[class*='originalPrice']", "[class*='OriginalPrice']",
		"[class*='old-price']", "[class*='OldPrice']",
		"[class*='mrp']", "[class*='MRP']",
		"[class*='strikethrough']", "del", "s",
	},
	"rating": {
		".a-icon-star-small .a-icon-alt", ".a-icon-star .a-icon-alt",
		"[aria-label*='out of 5']",
		"[aria-label*='stars']",
		"[class*='rating'][class*='value']",
		"[class*='rating']",
	},
	"review_count": {
		"[class*='review'][class*='count']",
		"[class*='ReviewCount']",
		"[class*='rating-count']",
		"span[class*='review']",
		"[class*='ratings']",
	},
	"delivery": {
		"[class*='delivery']", "[class*='Delivery']",
		"[class*='dispatch']", "[class*='shipping']",
		"[class*='arrival']", "[class*='estimated']",
	},
	"coupon": {
		"[class*='coupon']", "[class*='Coupon']",
		"[class*='offer-label']", "[class*='promo']",
	},
	"seller": {
		"a[href*='seller']", "[class*='seller']",
		"[class*='Seller']", "[class*='sold-by']",
	},
	"listing_url": {
		"h2 a", "a[href*='/dp/']", "a[href*='/p/']",
		"a[href*='/product']", "a[href*='/buy']",
		"a[class*='product']", "a[class*='title']",
		"a[href*='/pd/']", "a[href*='/item/']",
	},
}

// Heuristics returns the generic candidate list for a field, in order
func Heuristics(field string) []string {
	return heuristics[field]
}
