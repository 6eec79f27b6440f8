package model

import (
	"github.com/nlpodyssey/spago/pkg/mat32/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/initializers"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/nlpodyssey/spago/pkg/ml/nn/linear"

	mat "github.com/nlpodyssey/spago/pkg/mat32"
)

var _ nn.Model = &WeightedMultiModalFusionNetwork{}

// NumClasses is the size of the classification head.
const NumClasses = 2

type NetworkConfig struct {
	TextDim        int
	TextHidden     int
	TextDropout    mat.Float
	AudioDim       int
	AudioHidden    int
	AudioDropout   mat.Float
	VideoDim       int
	VideoHidden    int
	VideoDropout   mat.Float
	ContextHidden  int
	ContextDropout mat.Float
	// SpeakerCount is the size of the one-hot speaker input; it is only known
	// after the dataset has been parsed.
	SpeakerCount      int
	SpeakerHidden     int
	SpeakerDropout    mat.Float
	PostFusionDim     int
	PostFusionDropout mat.Float
}

// WeightedMultiModalFusionNetwork classifies an utterance from five feature
// embeddings: the utterance text, audio and video, the surrounding context and
// the speaker identity. Text, audio and video encodings pass through a
// weighted fusion; speaker and context join late, before the final layers.
type WeightedMultiModalFusionNetwork struct {
	nn.BaseModel
	NetworkConfig
	VideoSubNet   *SubNet
	AudioSubNet   *SubNet
	TextSubNet    *SubNet
	ContextSubNet *SubNet
	SpeakerSubNet *SubNet
	Fusion        *ModalityFusion
	PostFusion1   *linear.Model
	PostFusion2   *linear.Model
	PostFusion3   *linear.Model
	Output        *linear.Model
}

func NewWeightedMultiModalFusionNetwork(config NetworkConfig) *WeightedMultiModalFusionNetwork {
	return &WeightedMultiModalFusionNetwork{
		NetworkConfig: config,
		VideoSubNet:   NewSubNet(config.VideoDim, config.VideoHidden, config.VideoDropout),
		AudioSubNet:   NewSubNet(config.AudioDim, config.AudioHidden, config.AudioDropout),
		TextSubNet:    NewSubNet(config.TextDim, config.TextHidden, config.TextDropout),
		ContextSubNet: NewSubNet(config.TextDim, config.ContextHidden, config.ContextDropout),
		SpeakerSubNet: NewSubNet(config.SpeakerCount, config.SpeakerHidden, config.SpeakerDropout),
		Fusion:        NewModalityFusion(),
		PostFusion1:   linear.New(config.TextHidden+config.AudioHidden+config.VideoHidden, config.PostFusionDim),
		PostFusion2:   linear.New(config.PostFusionDim, config.PostFusionDim),
		PostFusion3:   linear.New(config.PostFusionDim+config.SpeakerHidden+config.ContextHidden, config.PostFusionDim),
		Output:        linear.New(config.PostFusionDim, NumClasses),
	}
}

func (m *WeightedMultiModalFusionNetwork) Init(generator *rand.LockedRand) {
	m.VideoSubNet.Init(generator)
	m.AudioSubNet.Init(generator)
	m.TextSubNet.Init(generator)
	m.ContextSubNet.Init(generator)
	m.SpeakerSubNet.Init(generator)
	gain := initializers.Gain(ag.OpReLU)
	initializers.XavierUniform(m.PostFusion1.W.Value(), gain, generator)
	initializers.XavierUniform(m.PostFusion2.W.Value(), gain, generator)
	initializers.XavierUniform(m.PostFusion3.W.Value(), gain, generator)
	initializers.XavierUniform(m.Output.W.Value(), initializers.Gain(ag.OpIdentity), generator)
}

// Input carries one batch of column-vector nodes per modality. All five
// slices must have the same length.
type Input struct {
	Text    []ag.Node
	Video   []ag.Node
	Audio   []ag.Node
	Speaker []ag.Node
	Context []ag.Node
}

// Forward returns one vector of NumClasses raw logits per sample. No
// activation is applied to the output; downstream losses expect raw scores.
func (m *WeightedMultiModalFusionNetwork) Forward(in Input) []ag.Node {
	g := m.Graph()

	videoH := m.VideoSubNet.Forward(in.Video...)
	audioH := m.AudioSubNet.Forward(in.Audio...)
	textH := m.TextSubNet.Forward(in.Text...)
	speakerH := m.SpeakerSubNet.Forward(in.Speaker...)
	contextH := m.ContextSubNet.Forward(in.Context...)

	fused := m.Fusion.Forward(textH, audioH, videoH)

	ys := make([]ag.Node, len(fused))
	for i, x := range fused {
		x = m.dropout(x)
		x = g.ReLU(m.PostFusion1.Forward(x)[0])
		x = m.dropout(x)
		x = g.ReLU(m.PostFusion2.Forward(x)[0])
		x = g.Concat(x, speakerH[i], contextH[i])
		x = m.dropout(x)
		x = g.ReLU(m.PostFusion3.Forward(x)[0])
		x = m.dropout(x)
		ys[i] = m.Output.Forward(x)[0]
	}
	return ys
}

func (m *WeightedMultiModalFusionNetwork) dropout(x ag.Node) ag.Node {
	if m.Mode() == nn.Training {
		return m.Graph().Dropout(x, m.PostFusionDropout)
	}
	return x
}
