package model

import (
	"testing"

	mat "github.com/nlpodyssey/spago/pkg/mat32"
	"github.com/nlpodyssey/spago/pkg/mat32/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/stretchr/testify/require"
)

func testNetworkConfig(dropout mat.Float) NetworkConfig {
	return NetworkConfig{
		TextDim:           6,
		TextHidden:        8,
		TextDropout:       dropout,
		AudioDim:          4,
		AudioHidden:       5,
		AudioDropout:      dropout,
		VideoDim:          5,
		VideoHidden:       7,
		VideoDropout:      dropout,
		ContextHidden:     6,
		ContextDropout:    dropout,
		SpeakerCount:      3,
		SpeakerHidden:     4,
		SpeakerDropout:    dropout,
		PostFusionDim:     10,
		PostFusionDropout: dropout,
	}
}

func testInput(g *ag.Graph, batchSize int, config NetworkConfig) Input {
	return Input{
		Text:    testBatch(g, batchSize, config.TextDim),
		Video:   testBatch(g, batchSize, config.VideoDim),
		Audio:   testBatch(g, batchSize, config.AudioDim),
		Speaker: testBatch(g, batchSize, config.SpeakerCount),
		Context: testBatch(g, batchSize, config.TextDim),
	}
}

func TestWeightedMultiModalFusionNetwork_ForwardShape(t *testing.T) {

	for _, batchSize := range []int{1, 4} {
		network := NewWeightedMultiModalFusionNetwork(testNetworkConfig(0.2))
		network.Init(rand.NewLockedRand(42))

		g := ag.NewGraph(ag.Rand(rand.NewLockedRand(42)))
		proc := nn.Reify(nn.Context{Graph: g, Mode: nn.Training}, network).(*WeightedMultiModalFusionNetwork)

		ys := proc.Forward(testInput(g, batchSize, network.NetworkConfig))
		require.Equal(t, batchSize, len(ys))
		for _, y := range ys {
			require.Equal(t, NumClasses, y.Value().Rows())
			require.Equal(t, 1, y.Value().Columns())
		}
	}
}

// With all dropout rates at zero the forward pass is a pure function of the
// inputs and the current weights.
func TestWeightedMultiModalFusionNetwork_Deterministic(t *testing.T) {

	network := NewWeightedMultiModalFusionNetwork(testNetworkConfig(0))
	network.Init(rand.NewLockedRand(42))

	first := forwardOnce(network, nn.Training)
	second := forwardOnce(network, nn.Training)
	require.Equal(t, first, second)
}

// In inference mode dropout is disabled and batch normalization falls back to
// the running statistics, so repeated evaluations give identical logits even
// with non-zero dropout rates.
func TestWeightedMultiModalFusionNetwork_InferenceDeterministic(t *testing.T) {

	network := NewWeightedMultiModalFusionNetwork(testNetworkConfig(0.2))
	network.Init(rand.NewLockedRand(42))

	// one training pass populates the batchnorm running statistics
	forwardOnce(network, nn.Training)

	first := forwardOnce(network, nn.Inference)
	second := forwardOnce(network, nn.Inference)
	require.Equal(t, first, second)
}

func forwardOnce(network *WeightedMultiModalFusionNetwork, mode nn.ProcessingMode) [][]mat.Float {
	g := ag.NewGraph(ag.Rand(rand.NewLockedRand(7)))
	proc := nn.Reify(nn.Context{Graph: g, Mode: mode}, network).(*WeightedMultiModalFusionNetwork)
	ys := proc.Forward(testInput(g, 3, network.NetworkConfig))
	out := make([][]mat.Float, len(ys))
	for i, y := range ys {
		out[i] = append([]mat.Float{}, y.Value().Data()...)
	}
	return out
}
