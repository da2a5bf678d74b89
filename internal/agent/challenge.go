package agent

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/internal/sites"
)

// minContentChars is the visible-text floor below which a rendered page is
// treated as a challenge interstitial even without a known phrase.
const minContentChars = 200

var genericChallengePhrases = []string{
	"enter the characters you see below",
	"verify you are a human",
	"unusual traffic from your computer",
	"checking your browser",
	"access denied",
	"are you a robot",
	"captcha",
}

// DetectChallenge inspects rendered page text for bot interstitials.
// A near-empty body after the configured wait counts as a challenge too.
func DetectChallenge(pageHTML string, target sites.Target) (bool, string) {
	text := visibleText(pageHTML)
	lower := strings.ToLower(text)

	for _, phrase := range target.BotPhrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return true, phrase
		}
	}
	for _, phrase := range genericChallengePhrases {
		if strings.Contains(lower, phrase) {
			return true, phrase
		}
	}
	if len(strings.TrimSpace(text)) < minContentChars {
		return true, "empty content after wait"
	}
	return false, ""
}

// visibleText flattens body text with a streaming tokenizer, skipping
// script and style payloads.
func visibleText(pageHTML string) string {
	tok := html.NewTokenizer(strings.NewReader(pageHTML))
	var b strings.Builder
	skip := 0
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := tok.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				skip++
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				if skip > 0 {
					skip--
				}
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tok.Text())
				b.WriteByte(' ')
			}
		}
	}
}
