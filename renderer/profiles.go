package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/mreis/folio"
)

// ProfilesMarkdown renders the allocation profile catalog.
func ProfilesMarkdown(profiles []*folio.Profile) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Allocation Profiles")
	for _, p := range profiles {
		doc.H2(p.Name())
		if p.Description() != "" {
			doc.PlainText(p.Description())
		}
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
			Header:    []string{"Class", "Target", "Band"},
		}
		for _, class := range p.Classes() {
			table.Rows = append(table.Rows, []string{
				string(class),
				fmt.Sprintf("%.1f%%", 100*p.Target(class)),
				fmt.Sprintf("%.1f%%", 100*p.Band(class)),
			})
		}
		doc.Table(table)
	}
	return doc.String()
}
