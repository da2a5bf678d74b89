// Package export writes a finished comparison to disk in the format the
// file extension implies.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// Save picks the writer by extension: .json, .csv or .md.
func Save(result *models.Result, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(result, path)
	case ".csv":
		return SaveCSV(result, path)
	case ".md":
		return SaveMarkdown(result, path)
	default:
		return fmt.Errorf("unsupported export format %q (want .json, .csv or .md)", filepath.Ext(path))
	}
}

// SaveJSON writes the full result, indented.
func SaveJSON(result *models.Result, path string) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

var csvHeader = []string{
	"rank", "platform", "title", "effective_price", "base_price",
	"discount", "coupon", "rating", "review_count",
	"delivery_days_max", "match_score", "final_score", "badges", "url",
}

// SaveCSV writes one row per ranked offer.
func SaveCSV(result *models.Result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range result.Offers {
		row := []string{
			strconv.Itoa(o.Rank),
			o.Platform,
			o.Title,
			decimalCell(o.EffectivePrice),
			decimalCell(o.BasePrice),
			o.Discount.StringFixed(2),
			o.Coupon.StringFixed(2),
			floatCell(o.Rating),
			intCell(o.ReviewCount),
			intCell(o.DeliveryDaysMax),
			strconv.FormatFloat(o.MatchScore, 'f', 3, 64),
			strconv.FormatFloat(o.Breakdown.Final, 'f', 3, 64),
			strings.Join(o.Badges, ";"),
			o.URL,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

// SaveMarkdown writes a readable report with the offer table and site
// outcomes.
func SaveMarkdown(result *models.Result, path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Price comparison: %s\n\n", result.Query.SearchQuery)
	fmt.Fprintf(&b, "Mode: **%s** | Raw listings: %d | Matched: %d | Elapsed: %dms\n\n",
		result.Query.Mode, result.RawCount, result.Matched, result.ElapsedMS)

	if len(result.Offers) == 0 {
		b.WriteString("No offers matched the query.\n")
	} else {
		b.WriteString("| # | Platform | Price | Delivery | Score | Badges |\n")
		b.WriteString("|---|----------|-------|----------|-------|--------|\n")
		for _, o := range result.Offers {
			price := "-"
			if o.EffectivePrice != nil {
				price = "₹" + o.EffectivePrice.StringFixed(0)
			}
			delivery := "-"
			if o.DeliveryDaysMax != nil {
				delivery = fmt.Sprintf("%dd", *o.DeliveryDaysMax)
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %.3f | %s |\n",
				o.Rank, o.PlatformName, price, delivery,
				o.Breakdown.Final, strings.Join(o.Badges, ", "))
		}
	}

	b.WriteString("\n## Sites\n\n")
	for _, st := range result.Statuses {
		fmt.Fprintf(&b, "- `%s`: %s (%d listings, %dms)\n", st.Site, st.Status, st.ListingsFound, st.ElapsedMS)
	}

	if result.Explanation != "" {
		fmt.Fprintf(&b, "\n## Verdict\n\n%s\n", result.Explanation)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func decimalCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 1, 64)
}

func intCell(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
