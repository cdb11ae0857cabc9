package renderer

import (
	"fmt"
	"strings"

	"github.com/mreis/folio"
)

// GainsMarkdown renders the realized and unrealized gains breakdown.
func GainsMarkdown(report *folio.GainsReport) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Capital Gains Report\n\n")
	fmt.Fprint(&b, "Method: average cost\n\n")

	fmt.Fprint(&b, "## Gains per Security\n\n")
	fmt.Fprintln(&b, "| Security | Class | Realized | Unrealized | Total |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	for _, entry := range report.Entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			entry.Symbol,
			entry.Class,
			entry.Realized.SignedString(),
			entry.Unrealized.SignedString(),
			entry.Total.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | **%s** | **%s** | **%s** |\n",
		"Total",
		report.Realized.SignedString(),
		report.Unrealized.SignedString(),
		report.Total.SignedString(),
	)

	return b.String()
}
