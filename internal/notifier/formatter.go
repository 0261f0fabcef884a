package notifier

import (
	"fmt"
	"strings"

	"PriceGrab/internal/model"
)

// FormatUpdateReport renders the post-run confirmation message.
func FormatUpdateReport(symbol string, rows []model.PriceRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>%s</b> price ledger updated, %d new trading day(s)\n", symbol, len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  O %s  H %s  L %s  C %s  Vol %d\n",
			r.Date.Format("2006-01-02"),
			r.Open.StringFixed(2), r.High.StringFixed(2),
			r.Low.StringFixed(2), r.Close.StringFixed(2),
			r.Volume)
	}
	return strings.TrimRight(b.String(), "\n")
}
