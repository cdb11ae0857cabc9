package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/mreis/folio"
)

// SummaryMarkdown renders the current-state portfolio view to markdown.
func SummaryMarkdown(s *folio.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary on %s", s.PricedAt.Format("2006-01-02")))
	doc.PlainText(fmt.Sprintf("Market value %s, invested %s, PnL %s (%s)",
		s.Total, s.Invested, s.PnL.SignedString(), s.PnLPercent.SignedString()))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Symbol", "Class", "Quantity", "Avg Cost", "Price", "Value", "PnL", "Weight"},
	}
	for _, item := range s.Items {
		table.Rows = append(table.Rows, []string{
			item.Symbol,
			string(item.Class),
			item.Quantity.String(),
			item.AvgCost.String(),
			item.Price.String(),
			item.Value.String(),
			item.PnL.SignedString(),
			item.Weight.String(),
		})
	}
	doc.Table(table)

	doc.PlainText(fmt.Sprintf("Realized gain to date: %s", s.Realized.SignedString()))
	return doc.String()
}
