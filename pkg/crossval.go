package pkg

import (
	"fmt"

	"github.com/nlpodyssey/spago/pkg/mat32/rand"
	"github.com/rs/zerolog/log"

	"github.com/Alex-Williams01/Final-Year-Project/pkg/config"
	"github.com/Alex-Williams01/Final-Year-Project/pkg/io"
	"github.com/Alex-Williams01/Final-Year-Project/pkg/model"
	"github.com/Alex-Williams01/Final-Year-Project/pkg/results"
)

// CrossValidate runs k-fold cross-validation on the given dataset: for each
// fold a fresh network is trained on the remaining folds and evaluated on the
// fold itself, tracking the best validation accuracy per epoch. It returns
// the averaged precision, recall and f1_score over all folds.
func CrossValidate(dataFile string, numFolds int, cfg config.Root, params TrainingParameters) (map[string]float64, error) {
	if numFolds < 2 {
		return nil, fmt.Errorf("cross-validation requires at least 2 folds, got %d", numFolds)
	}

	metaData, dataSet, dataErrors, err := io.LoadData(io.DataParameters{
		DataFile:  dataFile,
		BatchSize: params.BatchSize,
		TextDim:   cfg.Text.Dim,
		AudioDim:  cfg.Audio.Dim,
		VideoDim:  cfg.Video.Dim,
		RndSeed:   params.RndSeed,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("error reading data: %w", err)
	}
	printDataErrors(dataErrors)
	if dataSet.Size() < numFolds {
		return nil, fmt.Errorf("not enough data for %d folds", numFolds)
	}
	if metaData.Labels.Size() != model.NumClasses {
		return nil, fmt.Errorf("expected %d target labels, found %d", model.NumClasses, metaData.Labels.Size())
	}

	iteration := &results.IterationResults{}
	for foldIndex, split := range dataSet.KFold(numFolds) {
		log.Info().Int("Fold", foldIndex+1).Int("TrainSize", split.Train.Size()).Int("TestSize", split.Test.Size()).Msg("")

		network := model.NewWeightedMultiModalFusionNetwork(cfg.NetworkConfig(metaData.Speakers.Size()))
		network.Init(rand.NewLockedRand(params.RndSeed))
		m := &model.Model{MetaData: metaData, Network: network}

		trainer := NewTrainer(m, params)
		bestAcc, bestEpoch := trainer.Run(split.Train, split.Test)

		evaluator := newClassificationEvaluator(m, NoopWriter{})
		evaluator.evaluate(split.Test)
		evaluator.LogMetrics()

		result, err := results.NewResult(evaluator.Report(bestAcc, bestEpoch))
		if err != nil {
			return nil, fmt.Errorf("error collecting fold %d result: %w", foldIndex+1, err)
		}
		iteration.AddResult(result)
	}

	return iteration.PrintResult(), nil
}
