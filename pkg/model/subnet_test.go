package model

import (
	"testing"

	mat "github.com/nlpodyssey/spago/pkg/mat32"
	"github.com/nlpodyssey/spago/pkg/mat32/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/stretchr/testify/require"
)

func TestSubNet_ForwardShape(t *testing.T) {

	tests := []struct {
		inSize     int
		hiddenSize int
		batchSize  int
	}{
		{
			inSize:     6,
			hiddenSize: 8,
			batchSize:  1,
		},
		{
			inSize:     20,
			hiddenSize: 4,
			batchSize:  7,
		},
	}

	for _, tt := range tests {
		subnet := NewSubNet(tt.inSize, tt.hiddenSize, 0.2)
		subnet.Init(rand.NewLockedRand(42))

		g := ag.NewGraph(ag.Rand(rand.NewLockedRand(42)))
		proc := nn.Reify(nn.Context{Graph: g, Mode: nn.Training}, subnet).(*SubNet)

		ys := proc.Forward(testBatch(g, tt.batchSize, tt.inSize)...)
		require.Equal(t, tt.batchSize, len(ys))
		for _, y := range ys {
			require.Equal(t, tt.hiddenSize, y.Value().Rows())
			require.Equal(t, 1, y.Value().Columns())
		}
	}
}

// testBatch builds batchSize column vectors of the given size with non-zero
// variance on every feature.
func testBatch(g *ag.Graph, batchSize, size int) []ag.Node {
	batch := make([]ag.Node, batchSize)
	for i := range batch {
		data := make([]mat.Float, size)
		for j := range data {
			data[j] = 0.1 * mat.Float(i+1) * mat.Float(j+1)
		}
		batch[i] = g.NewVariable(mat.NewVecDense(data), false)
	}
	return batch
}
