package advisor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelaudit/modelaudit/pkg/advisor"
	"github.com/modelaudit/modelaudit/pkg/graph"
	"github.com/modelaudit/modelaudit/pkg/stats"
)

// balanced is a baseline summary that triggers no rule: deep enough, conv
// dominated, normalized, few activations, modest size.
func balanced() stats.Summary {
	return stats.Summary{
		LayerCount:     12,
		TotalParams:    1_000_000,
		DenseParams:    100_000,
		DenseLayers:    1,
		ConvLayers:     8,
		BatchNormFound: true,
	}
}

func TestRecommendSentinels(t *testing.T) {
	assert.Equal(t, []string{advisor.MsgNoLayerData}, advisor.Recommend(stats.Summary{}),
		"empty graph must yield only the no-data sentinel")

	assert.Equal(t, []string{advisor.MsgBalanced}, advisor.Recommend(balanced()),
		"a summary triggering no rule must yield only the balanced sentinel")
}

func TestRecommendRulesAreIndependent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*stats.Summary)
		want   string
	}{
		{
			"shallow model",
			func(s *stats.Summary) { s.LayerCount = 9 },
			advisor.MsgShallow,
		},
		{
			"dense parameter dominance",
			func(s *stats.Summary) { s.DenseParams = 600_000 },
			advisor.MsgDenseDominated,
		},
		{
			"missing batch normalization",
			func(s *stats.Summary) { s.BatchNormFound = false },
			advisor.MsgNoBatchNorm,
		},
		{
			"dense heavy layer mix",
			func(s *stats.Summary) { s.DenseLayers = 9 },
			advisor.MsgDenseHeavy,
		},
		{
			"many activation layers",
			func(s *stats.Summary) { s.ActivationCount = 6 },
			advisor.MsgManyActivations,
		},
		{
			"large model",
			func(s *stats.Summary) { s.TotalParams = 10_000_001 },
			advisor.MsgLargeModel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := balanced()
			tc.mutate(&s)
			assert.Equal(t, []string{tc.want}, advisor.Recommend(s),
				"toggling one condition must trigger exactly that rule")
		})
	}
}

func TestRecommendThresholdBoundaries(t *testing.T) {
	s := balanced()
	s.DenseParams = 500_000 // exactly half is not dominance
	assert.NotContains(t, advisor.Recommend(s), advisor.MsgDenseDominated)

	s = balanced()
	s.LayerCount = 10 // ten layers is not shallow
	assert.NotContains(t, advisor.Recommend(s), advisor.MsgShallow)

	s = balanced()
	s.ActivationCount = 5 // five activations is still acceptable
	assert.NotContains(t, advisor.Recommend(s), advisor.MsgManyActivations)

	s = balanced()
	s.TotalParams = 10_000_000 // ten million params is not yet large
	assert.NotContains(t, advisor.Recommend(s), advisor.MsgLargeModel)

	s = balanced()
	s.DenseLayers = s.ConvLayers // a tie is not dense-heavy
	assert.NotContains(t, advisor.Recommend(s), advisor.MsgDenseHeavy)
}

func TestRecommendOutputFollowsRuleOrder(t *testing.T) {
	m := &graph.Model{Layers: []graph.Layer{
		{Name: "conv1", Type: "Conv2D", Params: 100},
		{Name: "fc1", Type: "Dense", Params: 600},
		{Name: "fc2", Type: "Dense", Params: 300},
	}}
	s := stats.Aggregate(m)
	got := advisor.Recommend(s)

	want := []string{
		advisor.MsgShallow,
		advisor.MsgDenseDominated,
		advisor.MsgNoBatchNorm,
		advisor.MsgDenseHeavy,
	}
	require.Equal(t, want, got, "triggered rules must appear in rule order")
}

func TestRecommendDeepNormalizedLargeModel(t *testing.T) {
	m := &graph.Model{}
	for i := 0; i < 11; i++ {
		m.Layers = append(m.Layers, graph.Layer{Type: "Conv2D", Params: 1_400_000})
	}
	m.Layers = append(m.Layers, graph.Layer{Type: "BatchNormalization", Params: 64})

	got := advisor.Recommend(stats.Aggregate(m))
	assert.Equal(t, []string{advisor.MsgLargeModel}, got)
}

func TestRecommendIsPure(t *testing.T) {
	s := balanced()
	s.DenseParams = 900_000
	first := advisor.Recommend(s)
	second := advisor.Recommend(s)
	assert.Equal(t, first, second, "same input must always produce the same output")
}
