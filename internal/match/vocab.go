package match

import (
	"regexp"
	"strings"
)

// accessoryKeywords mark listings that are add-ons for the product
// rather than the product itself.
var accessoryKeywords = []string{
	"case", "cover", "charger", "cable", "strap",
	"screen guard", "protector", "earphone", "adapter",
	"stand", "holder", "band", "skin", "pouch",
}

// knownBrands is used for wrong-brand rejection only; a listing is
// rejected when a DIFFERENT known brand appears in its title.
var knownBrands = map[string]bool{
	"apple": true, "oneplus": true, "xiaomi": true, "realme": true,
	"oppo": true, "vivo": true, "nokia": true, "motorola": true,
	"google": true, "samsung": true, "redmi": true, "poco": true,
	"asus": true, "lenovo": true, "hp": true, "dell": true,
	"acer": true, "sony": true, "lg": true,
}

// variantTokens distinguish product-line variants within one generation
var variantTokens = []string{
	"fe", "plus", "ultra", "lite", "mini",
	"pro", "max", "edge", "neo", "a",
}

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"for": true, "in": true, "on": true, "at": true, "to": true,
	"of": true, "with": true, "by": true, "is": true, "it": true,
	"its": true, "this": true, "that": true, "from": true, "up": true,
	"new": true, "best": true, "buy": true, "price": true, "online": true,
	"india": true, "shop": true, "store": true, "rs": true, "inr": true,
	"rupees": true, "product": true, "mobile": true, "phone": true,
	"smartphone": true,
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		out[tok] = true
	}
	return out
}

var storageRe = regexp.MustCompile(`(\d+)\s*gb`)

// extractStorage pulls "256gb" style capacity out of a title
func extractStorage(text string) string {
	m := storageRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return ""
	}
	return m[1] + "gb"
}

var seriesRe = regexp.MustCompile(`[a-z](\d{1,3})\b`)

// extractSeries pulls the numeric generation out of a model string,
// "s24" gives "24", "a54" gives "54"
func extractSeries(text string) string {
	m := seriesRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return ""
	}
	return m[1]
}

func intersect(a, b map[string]bool) int {
	n := 0
	for tok := range a {
		if b[tok] {
			n++
		}
	}
	return n
}
