package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/chartforms/internal/core"
	"github.com/comalice/chartforms/internal/primitives"
)

// Chart is the read-only view of a definition used for export.
// *core.Definition satisfies it for every context type.
type Chart interface {
	ID() string
	Version() string
	Root() *core.StateNode
	Edges() []core.Edge
	Config() primitives.MachineConfig
}

// Document is the exported form of a chart.
type Document struct {
	ID      string                   `json:"id" yaml:"id"`
	Version string                   `json:"version" yaml:"version"`
	Config  primitives.MachineConfig `json:"config" yaml:"config"`
	Edges   []core.Edge              `json:"edges" yaml:"edges"`
}

// Visualizer exports charts as Graphviz DOT, JSON or YAML.
type Visualizer struct{}

// ExportDOT generates Graphviz DOT source for the chart, highlighting the
// active states of current. Pass the zero Configuration for a plain chart.
func (v *Visualizer) ExportDOT(chart Chart, current core.Configuration) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", chart.ID())
	buf.WriteString(`  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	for _, n := range chart.Root().Children() {
		renderState(&buf, n, current, "  ")
	}
	for _, e := range chart.Edges() {
		renderEdge(&buf, e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the chart document to indented JSON.
func (v *Visualizer) ExportJSON(chart Chart) ([]byte, error) {
	return json.MarshalIndent(document(chart), "", "  ")
}

// ExportYAML serializes the chart document to YAML.
func (v *Visualizer) ExportYAML(chart Chart) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document(chart)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", chart.ID(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", chart.ID(), err)
	}
	return buf.Bytes(), nil
}

func document(chart Chart) Document {
	return Document{
		ID:      chart.ID(),
		Version: chart.Version(),
		Config:  chart.Config(),
		Edges:   chart.Edges(),
	}
}

func clusterName(path string) string {
	return "cluster_" + strings.ReplaceAll(path, ".", "_")
}

// renderState recursively renders states and subgraphs.
func renderState(buf *bytes.Buffer, n *core.StateNode, current core.Configuration, indent string) {
	active := current.Matches(n.Path())
	if n.IsAtomic() {
		style := ""
		if active {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(buf, "%s%q [label=%q%s];\n", indent, n.Path(), n.ID(), style)
		return
	}

	fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, clusterName(n.Path()))
	inner := indent + "  "
	fmt.Fprintf(buf, "%slabel=%q;\n", inner, fmt.Sprintf("%s (%s)", n.ID(), n.Type()))
	switch {
	case active:
		fmt.Fprintf(buf, "%sstyle=filled; fillcolor=orange;\n", inner)
	case n.Type() == primitives.Parallel:
		fmt.Fprintf(buf, "%sstyle=dashed;\n", inner)
	}
	fmt.Fprintf(buf, "%s%q [label=%q shape=ellipse];\n", inner, n.Path(), n.ID())
	if initial := n.Initial(); initial != nil {
		start := n.Path() + ".__initial"
		fmt.Fprintf(buf, "%s%q [shape=point];\n", inner, start)
		fmt.Fprintf(buf, "%s%q -> %q;\n", inner, start, initial.Path())
	}
	for _, c := range n.Children() {
		renderState(buf, c, current, inner)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func renderEdge(buf *bytes.Buffer, e core.Edge) {
	label := e.Event
	if label == "" {
		label = "(always)"
	}
	if e.Guard != "" {
		label += " [" + e.Guard + "]"
	}
	if len(e.In) > 0 {
		label += " in(" + strings.Join(e.In, ", ") + ")"
	}
	if len(e.Actions) > 0 {
		label += " / " + strings.Join(e.Actions, ", ")
	}

	target, style := e.Target, ""
	if target == "" {
		target, style = e.Source, " style=dashed"
	}
	if e.Internal {
		style += " arrowhead=open"
	}
	fmt.Fprintf(buf, "  %q -> %q [label=%q%s];\n", e.Source, target, label, style)
}
