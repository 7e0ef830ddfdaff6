package wordpress

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Inline presentational styles applied to normalized tables. The block
// editor strips external stylesheets from pasted content, so the styling
// has to travel with the markup.
const (
	tableStyle = "border-collapse:collapse;width:100%;margin:24px 0"
	thStyle    = "background-color:#f9fafb;font-weight:600;text-align:left;padding:12px;border:1px solid #e5e7eb"
	tdStyle    = "padding:12px;border:1px solid #e5e7eb;vertical-align:top"
)

// NormalizeTables restructures bare <table> markup produced by the markdown
// converter into the shape the block editor expects: rows containing <th>
// cells move into a <thead>, the rest into a <tbody>, cells get inline
// presentational styles, and the table is wrapped in a <figure>.
//
// Tables that already contain a <thead>, or that already sit inside the
// figure wrapper (header-less tables get no <thead>), are left untouched,
// which makes the transform idempotent: applying it to its own output
// returns the identical string.
func NormalizeTables(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse content: %w", err)
	}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if table.Find("thead").Length() > 0 || table.ParentsFiltered("figure.wp-block-table").Length() > 0 {
			// Already normalized
			return
		}

		var headerRows, bodyRows []string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			tr.Find("th").SetAttr("style", thStyle)
			tr.Find("td").SetAttr("style", tdStyle)

			rowHTML, rowErr := goquery.OuterHtml(tr)
			if rowErr != nil {
				return
			}
			if tr.Find("th").Length() > 0 {
				headerRows = append(headerRows, rowHTML)
			} else {
				bodyRows = append(bodyRows, rowHTML)
			}
		})

		var sb strings.Builder
		sb.WriteString(`<figure class="wp-block-table"><table style="` + tableStyle + `">`)
		if len(headerRows) > 0 {
			sb.WriteString("<thead>")
			for _, row := range headerRows {
				sb.WriteString(row)
			}
			sb.WriteString("</thead>")
		}
		if len(bodyRows) > 0 {
			sb.WriteString("<tbody>")
			for _, row := range bodyRows {
				sb.WriteString(row)
			}
			sb.WriteString("</tbody>")
		}
		sb.WriteString("</table></figure>")

		table.ReplaceWithHtml(sb.String())
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize content: %w", err)
	}
	return out, nil
}
