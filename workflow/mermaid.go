package workflow

import (
	"fmt"
	"strings"

	"github.com/srijan-op/Brain-Chain/schema"
)

// Edge is a declared transition
type Edge struct {
	From schema.Route `json:"from"`
	To   schema.Route `json:"to"`
}

// Description is the static shape of a graph
type Description struct {
	Entry schema.Route   `json:"entry"`
	Nodes []schema.Route `json:"nodes"`
	Edges []Edge         `json:"edges"`
}

// Describe returns the nodes and declared edges of the graph
func (g *Graph) Describe() Description {
	ret := Description{
		Entry: g.entry,
		Nodes: g.Nodes(),
	}
	for _, name := range g.order {
		for _, next := range g.nodes[name].Routes() {
			ret.Edges = append(ret.Edges, Edge{From: name, To: next})
		}
	}
	return ret
}

// Overlay highlights the nodes visited by a run
type Overlay struct {
	Path []schema.Route
}

// Mermaid renders the graph as a Mermaid flowchart.
// Nodes on the overlay path are styled as visited.
func (g *Graph) Mermaid(overlay *Overlay) string {
	desc := g.Describe()
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    START((START))\n")
	for _, name := range desc.Nodes {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", mermaidID(name), name)
	}
	sb.WriteString("    END((END))\n")
	if desc.Entry != "" {
		fmt.Fprintf(&sb, "    START --> %s\n", mermaidID(desc.Entry))
	}
	for _, e := range desc.Edges {
		if e.To == End {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> END\n", mermaidID(e.From), End)
			continue
		}
		fmt.Fprintf(&sb, "    %s --> %s\n", mermaidID(e.From), mermaidID(e.To))
	}
	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		seen := make(map[schema.Route]struct{}, len(overlay.Path))
		for _, name := range overlay.Path {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			fmt.Fprintf(&sb, "    class %s visited;\n", mermaidID(name))
		}
	}
	return sb.String()
}

func mermaidID(name schema.Route) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return "n_" + r.Replace(string(name))
}
