package model

import (
	"github.com/nlpodyssey/spago/pkg/mat32/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/initializers"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/nlpodyssey/spago/pkg/ml/nn/linear"
	"github.com/nlpodyssey/spago/pkg/ml/nn/normalization/batchnorm"

	mat "github.com/nlpodyssey/spago/pkg/mat32"
)

var _ nn.Model = &SubNet{}

// SubNet encodes a single modality: batch normalization over the batch,
// dropout, then three stacked dense layers with ReLU activations.
type SubNet struct {
	nn.BaseModel
	Norm        *batchnorm.Model
	Linear1     *linear.Model
	Linear2     *linear.Model
	Linear3     *linear.Model
	DropoutRate mat.Float
}

func NewSubNet(inSize, hiddenSize int, dropout mat.Float) *SubNet {
	return &SubNet{
		Norm:        batchnorm.New(inSize),
		Linear1:     linear.New(inSize, hiddenSize),
		Linear2:     linear.New(hiddenSize, hiddenSize),
		Linear3:     linear.New(hiddenSize, hiddenSize),
		DropoutRate: dropout,
	}
}

func (m *SubNet) Init(generator *rand.LockedRand) {
	gain := initializers.Gain(ag.OpReLU)
	initializers.XavierUniform(m.Linear1.W.Value(), gain, generator)
	initializers.XavierUniform(m.Linear2.W.Value(), gain, generator)
	initializers.XavierUniform(m.Linear3.W.Value(), gain, generator)
}

// Forward transforms a batch of column vectors of size inSize into a batch of
// vectors of size hiddenSize. Dropout is applied in training mode only.
func (m *SubNet) Forward(xs ...ag.Node) []ag.Node {
	g := m.Graph()
	ys := m.Norm.Forward(xs...)
	for i, y := range ys {
		if m.Mode() == nn.Training {
			y = g.Dropout(y, m.DropoutRate)
		}
		y = g.ReLU(m.Linear1.Forward(y)[0])
		y = g.ReLU(m.Linear2.Forward(y)[0])
		ys[i] = g.ReLU(m.Linear3.Forward(y)[0])
	}
	return ys
}
