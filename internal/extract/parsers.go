package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var ratingRe = regexp.MustCompile(`\d+(?:\.\d)?`)

// ParseRating reads the first 1.0..5.0 star value out of text like
// "4.3 out of 5 stars". Values outside the star scale are rejected.
func ParseRating(text string) *float64 {
	m := ratingRe.FindString(text)
	if m == "" {
		return nil
	}
	val, err := strconv.ParseFloat(m, 64)
	if err != nil || val < 1.0 || val > 5.0 {
		return nil
	}
	return &val
}

var reviewRe = regexp.MustCompile(`\d+(?:,\d+)*`)

// ParseReviewCount reads "12,482 ratings" style counts.
func ParseReviewCount(text string) *int {
	m := reviewRe.FindString(text)
	if m == "" {
		return nil
	}
	val, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil || val < 0 {
		return nil
	}
	return &val
}

var (
	deliveryRangeRe  = regexp.MustCompile(`(\d+)\s*(?:-|\x{2013}|to)\s*(\d+)\s*days?`)
	deliveryInDaysRe = regexp.MustCompile(`in\s+(\d+)\s+days?`)
	deliveryDateRe   = regexp.MustCompile(`\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
)

// weekday phrases map to rough day estimates rather than calendar math,
// matching how storefronts phrase near-term delivery
var deliveryKeywords = []struct {
	phrase   string
	min, max int
}{
	{"today", 0, 0},
	{"tonight", 0, 0},
	{"tomorrow", 1, 1},
	{"monday", 1, 3},
	{"tuesday", 1, 3},
	{"wednesday", 1, 3},
	{"thursday", 1, 3},
	{"friday", 1, 3},
	{"saturday", 1, 4},
	{"sunday", 1, 4},
}

// ParseDelivery turns free-form delivery phrases into a day range.
// "Delivery in 2-5 days" gives (2,5); "Get it by Monday" estimates (1,3);
// a bare date like "Sat, 28 Feb" assumes within a week. Both returns are
// nil when nothing matches.
func ParseDelivery(text string) (*int, *int) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return nil, nil
	}
	if m := deliveryRangeRe.FindStringSubmatch(lower); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > hi {
			lo, hi = hi, lo
		}
		return &lo, &hi
	}
	if m := deliveryInDaysRe.FindStringSubmatch(lower); m != nil {
		d, _ := strconv.Atoi(m[1])
		return &d, &d
	}
	for _, kw := range deliveryKeywords {
		if strings.Contains(lower, kw.phrase) {
			lo, hi := kw.min, kw.max
			return &lo, &hi
		}
	}
	if deliveryDateRe.MatchString(lower) {
		lo, hi := 1, 7
		return &lo, &hi
	}
	return nil, nil
}
