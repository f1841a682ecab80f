// Package stats aggregates layer-level counters from a canonical model graph.
package stats

import (
	"strings"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

// Summary holds the aggregate counters the advisory rules evaluate.
type Summary struct {
	LayerCount      int
	TotalParams     int64
	DenseParams     int64
	DenseLayers     int
	ConvLayers      int
	ActivationCount int
	BatchNormFound  bool
}

// Aggregate walks the graph once and classifies each layer by lower-cased
// substring match on its type tag. Categories overlap on purpose: a layer
// whose type contains both "conv" and "dense" is counted in both buckets,
// and the advisory rules were authored against that behavior.
func Aggregate(m *graph.Model) Summary {
	var s Summary
	if m == nil {
		return s
	}
	s.LayerCount = len(m.Layers)
	for _, l := range m.Layers {
		s.TotalParams += l.Params

		typ := strings.ToLower(l.Type)
		if strings.Contains(typ, "dense") {
			s.DenseLayers++
			s.DenseParams += l.Params
		}
		if strings.Contains(typ, "conv") {
			s.ConvLayers++
		}
		if strings.Contains(typ, "batchnorm") {
			s.BatchNormFound = true
		}
		if strings.Contains(typ, "activation") {
			s.ActivationCount++
		}
	}
	return s
}
