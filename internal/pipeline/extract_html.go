package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cabquote/internal"
)

// ExtractItemsFromHTML reads cabinet schedules out of HTML tables. Design
// tools export plan schedules this way, and quote-request emails often
// paste them into the body.
func ExtractItemsFromHTML(html string) []internal.CabinetItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []internal.CabinetItem{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		trs := table.Find("tr")
		if trs.Length() < 2 {
			return
		}

		rows := make([][]string, 0, trs.Length())
		trs.Each(func(_ int, tr *goquery.Selection) {
			cells := []string{}
			tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			rows = append(rows, cells)
		})

		out = append(out, itemsFromRows(rows)...)
	})
	return out
}
