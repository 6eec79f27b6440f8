package model

import (
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/nn"

	mat "github.com/nlpodyssey/spago/pkg/mat32"
)

var _ nn.Model = &ModalityFusion{}

// ModalityFusion concatenates the text, audio and video encodings, scaling
// each one by its own learned scalar weight. The weights start at 1 and are
// free to grow or shrink during training; no normalization is applied.
type ModalityFusion struct {
	nn.BaseModel
	TextWeight  nn.Param `spago:"type:weights"`
	AudioWeight nn.Param `spago:"type:weights"`
	VideoWeight nn.Param `spago:"type:weights"`
}

func NewModalityFusion() *ModalityFusion {
	return &ModalityFusion{
		TextWeight:  nn.NewParam(mat.NewInitVecDense(1, 1.0)),
		AudioWeight: nn.NewParam(mat.NewInitVecDense(1, 1.0)),
		VideoWeight: nn.NewParam(mat.NewInitVecDense(1, 1.0)),
	}
}

// Forward fuses the three encodings sample by sample. The output width is the
// sum of the three input widths, in fixed order text, audio, video.
func (m *ModalityFusion) Forward(text, audio, video []ag.Node) []ag.Node {
	g := m.Graph()
	ys := make([]ag.Node, len(text))
	for i := range ys {
		ys[i] = g.Concat(
			g.ProdScalar(text[i], m.TextWeight),
			g.ProdScalar(audio[i], m.AudioWeight),
			g.ProdScalar(video[i], m.VideoWeight),
		)
	}
	return ys
}
