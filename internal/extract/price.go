package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Plausible rupee range for retail listings, from budget accessories up
// to premium electronics. Values outside it are parser noise (postal
// codes, SKU fragments) and are rejected.
var (
	priceFloor = decimal.NewFromInt(50)
	priceCeil  = decimal.NewFromInt(500000)
)

// priceRe accepts Indian lakh grouping (1,29,999) as well as western
// grouping and optional paise.
var priceRe = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d{1,2})?`)

var currencyMarkers = []string{"₹", "Rs.", "Rs", "INR", "MRP"}

// ParsePrice extracts the first plausible rupee amount from text.
// Handles "₹55,999", "Rs.1,29,999" and bare "55999.00". Returns nil when
// nothing parses or the amount is implausible.
func ParsePrice(text string) *decimal.Decimal {
	if text == "" {
		return nil
	}
	cleaned := text
	for _, marker := range currencyMarkers {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	m := priceRe.FindString(cleaned)
	if m == "" {
		return nil
	}
	val, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return nil
	}
	if val.LessThan(priceFloor) || val.GreaterThan(priceCeil) {
		return nil
	}
	return &val
}

var (
	couponFlatRe    = regexp.MustCompile(`(?i)(?:save|extra|flat)?\s*(?:₹|rs\.?|inr)\s*(\d+(?:,\d+)*)\s*(?:off|with coupon|coupon)?`)
	couponPercentRe = regexp.MustCompile(`(?i)(\d{1,2})\s*%\s*(?:off|coupon)`)
)

// ParseCoupon extracts a coupon saving as an absolute rupee amount.
// Percentage coupons are applied against base. Returns zero when no
// coupon is advertised or the text does not parse.
func ParseCoupon(text string, base *decimal.Decimal) decimal.Decimal {
	if strings.TrimSpace(text) == "" {
		return decimal.Zero
	}
	if m := couponFlatRe.FindStringSubmatch(text); m != nil {
		amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err == nil && amount.IsPositive() {
			return amount
		}
	}
	if m := couponPercentRe.FindStringSubmatch(text); m != nil && base != nil {
		pct, err := decimal.NewFromString(m[1])
		if err == nil && pct.IsPositive() {
			return base.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
		}
	}
	return decimal.Zero
}
