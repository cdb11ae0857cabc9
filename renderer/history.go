package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/mreis/folio"
)

// HistoryMarkdown renders a valuation series to a markdown table, one row
// per day.
func HistoryMarkdown(window string, records []folio.DayRecord) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Valuation History (%s)", window))
	if len(records) == 0 {
		doc.PlainText("No activity in the requested window.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Date", "Market Value", "Invested", "Total PnL", "Realized", "Unrealized"},
	}
	for _, rec := range records {
		table.Rows = append(table.Rows, []string{
			rec.Date.String(),
			rec.MarketValue.String(),
			rec.Invested.String(),
			rec.TotalPnL.SignedString(),
			rec.RealizedPnL.SignedString(),
			rec.UnrealizedPnL.SignedString(),
		})
	}
	doc.Table(table)

	first, last := records[0], records[len(records)-1]
	doc.PlainText(fmt.Sprintf("Change over window: %s", last.TotalPnL.Sub(first.TotalPnL).SignedString()))
	return doc.String()
}
