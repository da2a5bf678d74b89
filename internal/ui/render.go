package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Snehakarkoli12/Ai-Powered-e-commerce-scraper/pkg/models"
)

// RenderResult writes the human-readable comparison table: ranked
// offers, per-site outcomes, and the advisory explanation when present.
func RenderResult(w io.Writer, r *models.Result) {
	fmt.Fprintf(w, "\n%s %s\n", Bold("Query:"), r.Query.SearchQuery)
	fmt.Fprintf(w, "%s %s   %s %d raw / %d matched / %d ranked   %s %dms\n\n",
		Bold("Mode:"), r.Query.Mode,
		Bold("Listings:"), r.RawCount, r.Matched, len(r.Offers),
		Bold("Elapsed:"), r.ElapsedMS)

	if len(r.Offers) == 0 {
		fmt.Fprintln(w, Info("No offers matched the query."))
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, Bold("#\tPLATFORM\tPRICE\tDELIVERY\tSCORE\tBADGES"))
		for _, o := range r.Offers {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.3f\t%s\n",
				o.Rank, o.PlatformName, priceCell(o), deliveryCell(o),
				o.Breakdown.Final, badgeCell(o.Badges))
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\n%s\n", Bold("Sites:"))
	for _, st := range r.Statuses {
		fmt.Fprintf(w, "  %s %s", statusGlyph(st.Status), st.Site)
		if st.Status == models.StatusOK {
			fmt.Fprintf(w, " (%d listings, %dms)", st.ListingsFound, st.ElapsedMS)
		} else {
			fmt.Fprintf(w, " (%s)", st.Status)
		}
		fmt.Fprintln(w)
	}

	if r.Explanation != "" {
		fmt.Fprintf(w, "\n%s %s\n", Bold("Verdict:"), r.Explanation)
	}
}

func priceCell(o models.NormalizedOffer) string {
	if o.EffectivePrice == nil {
		return "-"
	}
	s := "₹" + groupIndian(o.EffectivePrice.StringFixed(0))
	if o.Coupon.IsPositive() {
		s += Info(" (coupon applied)")
	}
	return s
}

func deliveryCell(o models.NormalizedOffer) string {
	switch {
	case o.DeliveryDaysMax == nil:
		return "-"
	case o.DeliveryDaysMin != nil && *o.DeliveryDaysMin != *o.DeliveryDaysMax:
		return fmt.Sprintf("%d-%d days", *o.DeliveryDaysMin, *o.DeliveryDaysMax)
	case *o.DeliveryDaysMax == 0:
		return "today"
	default:
		return fmt.Sprintf("%d days", *o.DeliveryDaysMax)
	}
}

func badgeCell(badges []string) string {
	if len(badges) == 0 {
		return ""
	}
	return Success(strings.Join(badges, ", "))
}

func statusGlyph(code models.StatusCode) string {
	switch code {
	case models.StatusOK:
		return Success("ok")
	case models.StatusNoResults:
		return Info("--")
	default:
		return Error("!!")
	}
}

// groupIndian inserts lakh-style separators: 129999 becomes 1,29,999.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
