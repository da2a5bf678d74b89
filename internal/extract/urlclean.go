package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// trackingParams are analytics and affiliate params stripped from every
// listing URL so dedup and display work on canonical links.
var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_content": true, "utm_term": true,
	"ref": true, "ref_": true, "tag": true, "campaign": true,
	"crid": true, "sprefix": true, "qid": true, "sr": true,
	"linkcode": true, "camp": true, "creative": true, "creativesin": true,
	"th": true, "psc": true, "s": true, "otracker": true,
	"searchclick": true, "marketplace": true, "store": true, "srno": true,
	"lid": true, "ssid": true, "qh": true, "affid": true,
	"dclid": true, "gclid": true, "fbclid": true,
	"affiliate_id": true, "offer_id": true, "_referer": true,
}

var asinRe = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)

// CleanURL canonicalizes a listing URL. Amazon links collapse to the
// bare /dp/ASIN form, Flipkart keeps path plus pid, everything else
// keeps the full URL minus tracking params.
func CleanURL(raw, siteKey string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "http") {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}

	host := strings.ToLower(parsed.Host)
	if siteKey == "amazon" || strings.Contains(host, "amazon") {
		if m := asinRe.FindStringSubmatch(raw); m != nil {
			return "https://www.amazon.in/dp/" + m[1]
		}
		if i := strings.Index(raw, "/ref="); i > 0 {
			return raw[:i]
		}
		return raw
	}

	if siteKey == "flipkart" || strings.Contains(host, "flipkart") {
		base := parsed.Scheme + "://" + parsed.Host + parsed.Path
		if pid := parsed.Query().Get("pid"); pid != "" {
			return base + "?pid=" + url.QueryEscape(pid)
		}
		return base
	}

	q := parsed.Query()
	for key := range q {
		if trackingParams[strings.ToLower(key)] {
			q.Del(key)
		}
	}
	parsed.RawQuery = q.Encode()
	parsed.Fragment = ""
	return parsed.String()
}
