package pkg

import (
	"fmt"
	"os"

	"github.com/nlpodyssey/spago/pkg/mat32/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/losses"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/nlpodyssey/spago/pkg/ml/optimizers/gd"
	"github.com/nlpodyssey/spago/pkg/ml/optimizers/gd/adam"
	"github.com/rs/zerolog/log"

	mat "github.com/nlpodyssey/spago/pkg/mat32"

	"github.com/Alex-Williams01/Final-Year-Project/pkg/config"
	"github.com/Alex-Williams01/Final-Year-Project/pkg/io"
	"github.com/Alex-Williams01/Final-Year-Project/pkg/model"
)

type TrainingParameters struct {
	BatchSize      int
	NumEpochs      int
	LearningRate   float64
	ReportInterval int
	RndSeed        uint64
}

type Trainer struct {
	params    TrainingParameters
	optimizer *gd.GradientDescent
	model     *model.Model
	rndGen    *rand.LockedRand
}

const gradientClipThreshold = 2000.0

func NewTrainer(m *model.Model, params TrainingParameters) *Trainer {
	updaterConfig := adam.NewDefaultConfig()
	updaterConfig.StepSize = mat.Float(params.LearningRate)
	updater := adam.New(updaterConfig)
	return &Trainer{
		params: params,
		optimizer: gd.NewOptimizer(updater, nn.NewDefaultParamsIterator(m.Network),
			gd.ClipGradByValue(gradientClipThreshold)),
		model:  m,
		rndGen: rand.NewLockedRand(params.RndSeed),
	}
}

// Train fits a new network on the provided training data and saves the
// resulting model. The network dimensions not fixed by the configuration
// (speaker count) are taken from the parsed data.
func Train(trainFile, outputFileName string, cfg config.Root, params TrainingParameters) error {
	metaData, dataSet, dataErrors, err := io.LoadData(io.DataParameters{
		DataFile:  trainFile,
		BatchSize: params.BatchSize,
		TextDim:   cfg.Text.Dim,
		AudioDim:  cfg.Audio.Dim,
		VideoDim:  cfg.Video.Dim,
		RndSeed:   params.RndSeed,
	}, nil)
	if err != nil {
		return fmt.Errorf("error reading training data: %w", err)
	}
	printDataErrors(dataErrors)
	if dataSet.Size() == 0 {
		return fmt.Errorf("no data to train")
	}
	if metaData.Labels.Size() != model.NumClasses {
		return fmt.Errorf("expected %d target labels, found %d", model.NumClasses, metaData.Labels.Size())
	}

	network := model.NewWeightedMultiModalFusionNetwork(cfg.NetworkConfig(metaData.Speakers.Size()))
	network.Init(rand.NewLockedRand(params.RndSeed))
	m := &model.Model{MetaData: metaData, Network: network}

	trainer := NewTrainer(m, params)
	trainer.Run(dataSet, nil)

	outputFile, err := os.Create(outputFileName)
	if err != nil {
		return fmt.Errorf("error creating output file %s: %w", outputFileName, err)
	}
	defer outputFile.Close()

	if err := io.SaveModel(m, outputFile); err != nil {
		return fmt.Errorf("error saving model to %s: %w", outputFileName, err)
	}

	return testInternal(m, dataSet, "")
}

// Run executes the training epochs. When a validation set is provided the
// model accuracy is measured after every epoch and the best value and its
// epoch (1-based) are returned.
func (t *Trainer) Run(trainSet, validationSet *io.DataSet) (bestAcc float64, bestEpoch int) {
	for epoch := 1; epoch <= t.params.NumEpochs; epoch++ {
		t.optimizer.IncEpoch()
		trainSet.ResetOrder(io.RandomOrder)
		batchIndex := 0
		for batch := trainSet.Next(); len(batch) > 0; batch = trainSet.Next() {
			loss := t.trainBatch(batch)
			t.optimizer.Optimize()
			if batchIndex%t.params.ReportInterval == 0 {
				log.Info().Int("Epoch", epoch).Int("Batch", batchIndex).Float64("Loss", loss).Msg("")
			}
			batchIndex++
		}
		if validationSet != nil {
			acc := Accuracy(t.model, validationSet)
			log.Debug().Int("Epoch", epoch).Float64("Accuracy", acc).Msg("")
			if acc > bestAcc || bestEpoch == 0 {
				bestAcc = acc
				bestEpoch = epoch
			}
		}
	}
	return bestAcc, bestEpoch
}

func (t *Trainer) trainBatch(batch io.DataBatch) float64 {
	t.optimizer.IncBatch()

	g := ag.NewGraph(ag.Rand(t.rndGen))
	defer g.Clear()
	input := createInput(g, batch, t.model.MetaData.Speakers.Size())
	proc := nn.Reify(nn.Context{Graph: g, Mode: nn.Training}, t.model.Network).(*model.WeightedMultiModalFusionNetwork)
	logits := proc.Forward(input)

	var loss ag.Node
	for i := range batch {
		loss = g.Add(loss, losses.CrossEntropy(g, logits[i], batch[i].Target))
	}
	loss = g.Div(loss, g.NewScalar(mat.Float(len(batch))))

	g.Backward(loss)
	return float64(loss.ScalarValue())
}

func createInput(g *ag.Graph, batch io.DataBatch, speakerCount int) model.Input {
	input := model.Input{
		Text:    make([]ag.Node, len(batch)),
		Video:   make([]ag.Node, len(batch)),
		Audio:   make([]ag.Node, len(batch)),
		Speaker: make([]ag.Node, len(batch)),
		Context: make([]ag.Node, len(batch)),
	}
	for i, record := range batch {
		input.Text[i] = g.NewVariable(record.Text, false)
		input.Video[i] = g.NewVariable(record.Video, false)
		input.Audio[i] = g.NewVariable(record.Audio, false)
		input.Speaker[i] = g.NewVariable(speakerOneHot(record.Speaker, speakerCount), false)
		input.Context[i] = g.NewVariable(record.Context, false)
	}
	return input
}

func speakerOneHot(index, size int) mat.Matrix {
	oneHot := mat.NewEmptyVecDense(size)
	if index >= 0 && index < size {
		oneHot.Set(index, 0, 1.0)
	}
	return oneHot
}
