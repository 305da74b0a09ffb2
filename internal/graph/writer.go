// # internal/graph/writer.go
package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Writer renders a Graph as Graphviz DOT. Output is deterministic: clusters
// in insertion order with members sorted by id, nodes sorted by id, edges
// sorted by (from, to). Edge symbols keep their resolution order, one line
// per justifying symbol; merged edges render as a single unlabeled line.
type Writer struct {
	graph *Graph
}

func NewWriter(g *Graph) *Writer {
	return &Writer{graph: g}
}

func (w *Writer) Generate() string {
	g := w.graph

	g.mu.RLock()
	defer g.mu.RUnlock()

	var buf strings.Builder

	if g.name != "" {
		fmt.Fprintf(&buf, "digraph %s {\n", g.name)
	} else {
		buf.WriteString("digraph {\n")
	}

	for _, c := range g.clusters {
		if label, ok := g.strings.Resolve(c.name); c.named && ok {
			fmt.Fprintf(&buf, "    subgraph %s {\n", label)
		} else {
			buf.WriteString("    subgraph {\n")
		}

		for _, id := range c.nodes {
			if label, ok := g.strings.Resolve(id); ok {
				fmt.Fprintf(&buf, "        n%d [label=%q]\n", id, label)
			} else {
				fmt.Fprintf(&buf, "        n%d\n", id)
			}
		}

		buf.WriteString("    }\n")
	}

	nodeIDs := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Ints(nodeIDs)

	for _, id := range nodeIDs {
		if label, ok := g.strings.Resolve(id); ok {
			fmt.Fprintf(&buf, "    n%d [label=%q]\n", id, label)
		}
	}

	edgeKeys := make([]EdgeKey, 0, len(g.edges))
	for key := range g.edges {
		edgeKeys = append(edgeKeys, key)
	}
	sort.Slice(edgeKeys, func(i, j int) bool {
		if edgeKeys[i].From != edgeKeys[j].From {
			return edgeKeys[i].From < edgeKeys[j].From
		}
		return edgeKeys[i].To < edgeKeys[j].To
	})

	for _, key := range edgeKeys {
		edge := g.edges[key]
		if len(edge.symbols) == 0 {
			fmt.Fprintf(&buf, "    n%d -> n%d\n", key.From, key.To)
			continue
		}
		for _, symbolID := range edge.symbols {
			if label, ok := g.strings.Resolve(symbolID); ok {
				fmt.Fprintf(&buf, "    n%d -> n%d [label=%q]\n", key.From, key.To, label)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
