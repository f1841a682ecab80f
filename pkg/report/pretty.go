package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

// Render prints a human-readable summary of a document to w.
func Render(w io.Writer, doc Document) {
	switch d := doc.(type) {
	case *Report:
		renderReport(w, d)
	case *StateDictReport:
		renderStateDict(w, d)
	}
}

func renderReport(w io.Writer, r *Report) {
	section(w, "Model")
	row(w, "name", r.ModelName)
	var total int64
	for _, l := range r.Layers {
		total += l.Params
	}
	row(w, "layers", fmt.Sprintf("%d", len(r.Layers)))
	row(w, "total_params", fmt.Sprintf("%d", total))
	if len(r.Inputs) > 0 {
		row(w, "inputs", shapeList(r.Inputs))
	}
	if len(r.Outputs) > 0 {
		row(w, "outputs", shapeList(r.Outputs))
	}

	if len(r.Layers) > 0 {
		section(w, "Layers")
		for _, l := range r.Layers {
			line := fmt.Sprintf("%-24s %-20s in=%s out=%s params=%d",
				l.Name, l.Type, l.InputShape.String(), l.OutputShape.String(), l.Params)
			if len(l.Connections) > 0 {
				line += " <- " + strings.Join(l.Connections, ", ")
			}
			fmt.Fprintln(w, line)
		}
	}

	section(w, "Recommendations")
	for i, rec := range r.Recommendations {
		fmt.Fprintf(w, "%d. %s\n", i+1, rec)
	}
}

func renderStateDict(w io.Writer, r *StateDictReport) {
	section(w, "State Dict")
	row(w, "info", r.Info)
	row(w, "keys", fmt.Sprintf("%d", len(r.Keys)))
	for _, k := range r.Keys {
		fmt.Fprintf(w, "  - %s\n", k)
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n--- %s ---\n", title)
}

func row(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%-16s %s\n", label+":", value)
}

func shapeList(shapes []*graph.Shape) string {
	parts := make([]string, len(shapes))
	for i, s := range shapes {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
