package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/flowtrace/flowtrace/internal/config"
	"github.com/flowtrace/flowtrace/internal/nodetree"
)

// FontAccent is the label color for the hottest nodes.
var FontAccent = [3]uint8{0xFF, 0xC0, 0x82}

// WriteDOT emits a Graphviz rendering of the called nodes. With
// GroupNodes set, nodes cluster by declaring file and the cluster
// background encodes the file's share of total time. Each node's dot id
// is cached on its render handle so repeated renders reuse it.
func WriteDOT(w io.Writer, nodes []*nodetree.Node, cfg config.Config) error {
	called := nodetree.CalledNodes(nodes)
	max := nodetree.MaxDuration(called)

	var b strings.Builder
	b.WriteString("digraph flowtrace {\n")
	b.WriteString("  rankdir=LR;\n")
	if cfg.GraphTitle != "" {
		fmt.Fprintf(&b, "  label=%q;\n", cfg.GraphTitle)
	}
	b.WriteString("  node [shape=box, style=filled];\n")

	if cfg.GroupNodes {
		rows := nodetree.GroupByFile(called)
		var maxFile time.Duration
		totals := make([]time.Duration, len(rows))
		for i, row := range rows {
			totals[i] = totalTime(row)
			if totals[i] > maxFile {
				maxFile = totals[i]
			}
		}
		for i, row := range rows {
			fmt.Fprintf(&b, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&b, "    label=%q;\n", fmt.Sprintf("%s (%s)", row[0].FileName, FormatDuration(totals[i])))
			fmt.Fprintf(&b, "    bgcolor=%q;\n", HeatColor(totals[i], maxFile, ClusterLight, ClusterDark))
			fmt.Fprintf(&b, "    fontcolor=%q;\n", HeatColor(totals[i], maxFile, FontLight, FontDark))
			for _, n := range row {
				writeDOTNode(&b, n, max, cfg, "    ")
			}
			b.WriteString("  }\n")
		}
	} else {
		for _, n := range called {
			writeDOTNode(&b, n, max, cfg, "  ")
		}
	}

	for _, n := range called {
		for _, child := range n.Children {
			if child.Called == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s -> %s;\n", dotID(n), dotID(child))
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDOTNode(b *strings.Builder, n *nodetree.Node, max time.Duration, cfg config.Config, indent string) {
	fmt.Fprintf(b, "%s%s [label=%q, fillcolor=%q, fontcolor=%q];\n",
		indent,
		dotID(n),
		nodeLabel(n, cfg),
		HeatColor(n.Duration, max, NodeLight, NodeDark),
		HeatColor(n.Duration, max, FontLight, FontAccent),
	)
}

func nodeLabel(n *nodetree.Node, cfg config.Config) string {
	var lines []string
	lines = append(lines, n.Name)
	if cfg.ShowFileName {
		lines = append(lines, n.FileName)
	}
	line := FormatDuration(n.Duration)
	if cfg.ShowCallCount {
		line += fmt.Sprintf(" (%d)", n.Called)
	}
	lines = append(lines, line)
	if cfg.ShowAvgTime && n.Called > 0 {
		lines = append(lines, "avg "+FormatDuration(n.Duration/time.Duration(n.Called)))
	}
	return strings.Join(lines, "\n")
}

// dotID returns a stable graphviz identifier for the node, cached on
// the node's render handle.
func dotID(n *nodetree.Node) string {
	if h, ok := n.RenderHandle().(string); ok {
		return h
	}
	id := "n_" + strings.ReplaceAll(n.InstanceID, "-", "")
	n.SetRenderHandle(id)
	return id
}
