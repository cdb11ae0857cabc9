package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/mreis/folio"
)

// PlanMarkdown renders a rebalance plan to a markdown string.
func PlanMarkdown(plan *folio.RebalancePlan) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Rebalance Plan (%s profile)", plan.Profile))
	doc.PlainText(fmt.Sprintf("Total portfolio value: %s", plan.Total))

	doc.H2("Allocation")
	classTable := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Class", "Value", "Current", "Target", "Band", "Post"},
	}
	for _, c := range plan.Classes {
		classTable.Rows = append(classTable.Rows, []string{
			string(c.Class),
			c.CurrentValue.String(),
			c.CurrentWeight.String(),
			c.TargetWeight.String(),
			fmt.Sprintf("%s .. %s", c.Floor, c.Ceiling),
			c.PostWeight.String(),
		})
	}
	doc.Table(classTable)

	if len(plan.Suggestions) > 0 {
		doc.H2("Suggestions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight,
			},
			Header: []string{"Action", "Symbol", "Class", "Quantity", "Price", "Value"},
		}
		for _, s := range plan.Suggestions {
			table.Rows = append(table.Rows, []string{
				string(s.Action),
				s.Symbol,
				string(s.Class),
				s.Quantity.Abs().String(),
				s.Price.String(),
				s.Value.SignedString(),
			})
		}
		doc.Table(table)
	}

	doc.H2("Outcome")
	within := "no"
	if plan.WithinBands {
		within = "yes"
	}
	doc.BulletList(
		fmt.Sprintf("within bands: %s", within),
		fmt.Sprintf("turnover: %.2f%%", 100*plan.Turnover),
		fmt.Sprintf("net cash flow: %s", plan.NetCashFlow.SignedString()),
	)
	if len(plan.MissingBuyClasses) > 0 {
		items := make([]string, 0, len(plan.MissingBuyClasses))
		for _, class := range plan.MissingBuyClasses {
			items = append(items, fmt.Sprintf("class %s has a buy budget but no tradeable instrument", class))
		}
		doc.H2("Missing buy candidates")
		doc.BulletList(items...)
	}
	if plan.SkippedBelowMinimum > 0 {
		doc.PlainText(fmt.Sprintf("%d planned trades were below the minimum trade value and were skipped.", plan.SkippedBelowMinimum))
	}
	if len(plan.Notes) > 0 {
		doc.H2("Notes")
		doc.BulletList(plan.Notes...)
	}

	return doc.String()
}
