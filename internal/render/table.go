package render

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/flowtrace/flowtrace/internal/nodetree"
)

// WriteTable prints a per-function summary of the called nodes as an
// ASCII table.
func WriteTable(w io.Writer, nodes []*nodetree.Node) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Function", "File", "Calls", "Inclusive", "Exclusive", "Avg"})

	for _, n := range nodetree.CalledNodes(nodes) {
		avg := "-"
		if n.Called > 0 {
			avg = FormatDuration(n.Duration / time.Duration(n.Called))
		}
		table.Append([]string{
			n.Name,
			n.FileName,
			fmt.Sprintf("%d", n.Called),
			FormatDuration(n.Duration),
			FormatDuration(n.SelfTime()),
			avg,
		})
	}

	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Render()
}
