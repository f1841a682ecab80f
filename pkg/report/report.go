// Package report assembles the persisted analysis output. Struct field order
// fixes the JSON key order, which is kept stable for diffability.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

// Document is a serializable analysis result: either a full structural Report
// or the degraded StateDictReport for sources without architecture metadata.
type Document interface {
	document()
}

// Report is the structural summary plus recommendations for a model graph.
type Report struct {
	ModelName       string         `json:"model_name"`
	Inputs          []*graph.Shape `json:"inputs"`
	Outputs         []*graph.Shape `json:"outputs"`
	Layers          []LayerInfo    `json:"layers"`
	Recommendations []string       `json:"recommendations"`
}

// LayerInfo is the persisted view of a single layer.
type LayerInfo struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	InputShape  *graph.Shape `json:"input_shape"`
	OutputShape *graph.Shape `json:"output_shape"`
	Params      int64        `json:"params"`
	Connections []string     `json:"connections"`
}

// StateDictReport is emitted for state-dictionary sources: no layers to
// analyze, only the raw tensor key listing.
type StateDictReport struct {
	Info string   `json:"info"`
	Keys []string `json:"keys"`
}

func (*Report) document()          {}
func (*StateDictReport) document() {}

// Assemble merges a model graph and its recommendations into a Document. A
// graph with no layers but a raw key listing degrades to a StateDictReport,
// which carries no recommendations.
func Assemble(m *graph.Model, recommendations []string) Document {
	if len(m.Layers) == 0 && len(m.RawKeys) > 0 {
		return &StateDictReport{
			Info: "State dict detected",
			Keys: append([]string(nil), m.RawKeys...),
		}
	}

	r := &Report{
		ModelName:       m.Name,
		Inputs:          emptyIfNilShapes(m.Inputs),
		Outputs:         emptyIfNilShapes(m.Outputs),
		Layers:          make([]LayerInfo, 0, len(m.Layers)),
		Recommendations: emptyIfNil(recommendations),
	}
	for _, l := range m.Layers {
		r.Layers = append(r.Layers, LayerInfo{
			Name:        l.Name,
			Type:        l.Type,
			InputShape:  l.InputShape,
			OutputShape: l.OutputShape,
			Params:      l.Params,
			Connections: emptyIfNil(l.Connections),
		})
	}
	return r
}

// Write serializes the document with two-space indentation and writes it to
// path. Nothing is written when marshaling fails, so a failed run never leaves
// a partial report behind.
func Write(doc Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIfNilShapes(s []*graph.Shape) []*graph.Shape {
	if s == nil {
		return []*graph.Shape{}
	}
	return s
}
