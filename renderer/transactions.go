package renderer

import (
	"fmt"
	"strings"

	"github.com/mreis/folio"
)

// TransactionsMarkdown renders ledger entries as a markdown table in replay
// order, voided rows struck through.
func TransactionsMarkdown(txs []folio.Transaction) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprint(&b, "The ledger is empty.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| ID | Date | Type | Symbol | Quantity | Price | Total | Kind |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|---:|---:|---:|:---|")
	for _, tx := range txs {
		row := fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s |",
			tx.ID,
			tx.Day(),
			tx.Type,
			tx.Symbol,
			tx.Quantity,
			tx.Price,
			tx.Total(),
			tx.Kind,
		)
		if !tx.IsActive() {
			row = fmt.Sprintf("| ~~%d~~ | ~~%s~~ | ~~%s~~ | ~~%s~~ | ~~%s~~ | ~~%s~~ | ~~%s~~ | voided |",
				tx.ID, tx.Day(), tx.Type, tx.Symbol, tx.Quantity, tx.Price, tx.Total())
		}
		fmt.Fprintln(&b, row)
	}
	return b.String()
}
