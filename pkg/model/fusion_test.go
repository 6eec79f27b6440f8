package model

import (
	"testing"

	mat "github.com/nlpodyssey/spago/pkg/mat32"
	"github.com/nlpodyssey/spago/pkg/mat32/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/stretchr/testify/require"
)

func TestModalityFusion_WeightedConcat(t *testing.T) {

	fusion := NewModalityFusion()
	fusion.TextWeight.Value().Set(0, 0, 2.0)
	fusion.AudioWeight.Value().Set(0, 0, 3.0)
	fusion.VideoWeight.Value().Set(0, 0, 5.0)

	g := ag.NewGraph(ag.Rand(rand.NewLockedRand(42)))
	proc := nn.Reify(nn.Context{Graph: g, Mode: nn.Inference}, fusion).(*ModalityFusion)

	text := []ag.Node{g.NewVariable(mat.NewInitVecDense(2, 1.0), false)}
	audio := []ag.Node{g.NewVariable(mat.NewInitVecDense(3, 1.0), false)}
	video := []ag.Node{g.NewVariable(mat.NewInitVecDense(4, 1.0), false)}

	ys := proc.Forward(text, audio, video)
	require.Equal(t, 1, len(ys))
	require.Equal(t, 9, ys[0].Value().Rows())
	require.Equal(t, []mat.Float{2, 2, 3, 3, 3, 5, 5, 5, 5}, ys[0].Value().Data())
}

func TestModalityFusion_DefaultWeightsAreOne(t *testing.T) {

	fusion := NewModalityFusion()

	g := ag.NewGraph(ag.Rand(rand.NewLockedRand(42)))
	proc := nn.Reify(nn.Context{Graph: g, Mode: nn.Inference}, fusion).(*ModalityFusion)

	text := []ag.Node{g.NewVariable(mat.NewVecDense([]mat.Float{0.5, -1.5}), false)}
	audio := []ag.Node{g.NewVariable(mat.NewVecDense([]mat.Float{4.0}), false)}
	video := []ag.Node{g.NewVariable(mat.NewVecDense([]mat.Float{-2.0, 3.0}), false)}

	ys := proc.Forward(text, audio, video)
	require.Equal(t, 1, len(ys))
	require.Equal(t, []mat.Float{0.5, -1.5, 4.0, -2.0, 3.0}, ys[0].Value().Data())
}
