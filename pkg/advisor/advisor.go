// Package advisor turns aggregate model statistics into architecture-quality
// recommendations using a fixed, ordered rule list. The rules are deterministic
// heuristics, not a certified analysis.
package advisor

import "github.com/modelaudit/modelaudit/pkg/stats"

// Recommendation texts. MsgNoLayerData is part of the observable contract and
// must not change.
const (
	MsgNoLayerData = "No layer data available for analysis"
	MsgBalanced    = "Architecture looks balanced: no major structural issues detected."

	MsgShallow         = "Model is shallow: consider deeper feature extraction layers."
	MsgDenseDominated  = "Dense layers dominate parameters: use global average pooling or bottleneck layers."
	MsgNoBatchNorm     = "No BatchNorm detected: add normalization for better training stability."
	MsgDenseHeavy      = "Architecture is dense-heavy: convolutional layers may improve feature learning."
	MsgManyActivations = "Many activation layers detected: verify activation placement efficiency."
	MsgLargeModel      = "Model is large: consider pruning or lightweight architectures."
)

// Rule thresholds.
const (
	shallowLayerCount = 10
	manyActivations   = 5
	largeModelParams  = 10_000_000
)

// Recommend evaluates every rule in fixed order against the aggregated
// statistics and returns the triggered recommendations. All rules are
// independent: triggering one never suppresses another, and the output order
// always follows the rule order. The result is never empty: a graph with no
// layers yields the single no-data sentinel, and a graph triggering no rule
// yields the single balanced sentinel. Recommend never fails; the aggregator
// guarantees non-negative counters by construction.
func Recommend(s stats.Summary) []string {
	if s.LayerCount == 0 {
		return []string{MsgNoLayerData}
	}

	var recs []string

	if s.LayerCount < shallowLayerCount {
		recs = append(recs, MsgShallow)
	}
	// dense > total/2, kept in integer arithmetic to stay exact.
	if s.DenseParams*2 > s.TotalParams {
		recs = append(recs, MsgDenseDominated)
	}
	if !s.BatchNormFound {
		recs = append(recs, MsgNoBatchNorm)
	}
	if s.DenseLayers > s.ConvLayers {
		recs = append(recs, MsgDenseHeavy)
	}
	if s.ActivationCount > manyActivations {
		recs = append(recs, MsgManyActivations)
	}
	if s.TotalParams > largeModelParams {
		recs = append(recs, MsgLargeModel)
	}

	if len(recs) == 0 {
		recs = append(recs, MsgBalanced)
	}
	return recs
}
