package pkg

import (
	"fmt"
	gio "io"
	"os"
	"sort"

	"github.com/nlpodyssey/spago/pkg/mat32/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/nlpodyssey/spago/pkg/ml/stats"
	"github.com/rs/zerolog/log"

	mat "github.com/nlpodyssey/spago/pkg/mat32"

	"github.com/Alex-Williams01/Final-Year-Project/pkg/io"
	"github.com/Alex-Williams01/Final-Year-Project/pkg/model"
	"github.com/Alex-Williams01/Final-Year-Project/pkg/results"
)

type NoopWriter struct{}

func (x NoopWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func printDataErrors(errors []io.DataError) {
	for _, err := range errors {
		log.Error().Msgf("Error parsing data at line %d: %s", err.Line, err.Error)
	}
}

// Test runs the provided model on the specified input data and logs the
// classification metrics, optionally writing the individual predictions.
func Test(modelFileName, inputFileName, outputFileName string) error {
	modelFile, err := os.Open(modelFileName)
	if err != nil {
		return fmt.Errorf("error opening model file %s: %w", modelFileName, err)
	}
	defer modelFile.Close()

	m, err := io.LoadModel(modelFile)
	if err != nil {
		return fmt.Errorf("error loading model from file %s: %w", modelFileName, err)
	}

	_, data, dataErrors, err := io.LoadData(io.DataParameters{
		DataFile:  inputFileName,
		BatchSize: 1,
		TextDim:   m.Network.TextDim,
		AudioDim:  m.Network.AudioDim,
		VideoDim:  m.Network.VideoDim,
		RndSeed:   42,
	}, m.MetaData)
	if err != nil {
		return fmt.Errorf("error loading data from %s: %w", inputFileName, err)
	}
	printDataErrors(dataErrors)
	if data.Size() == 0 {
		return fmt.Errorf("no data to test")
	}
	return testInternal(m, data, outputFileName)
}

func testInternal(m *model.Model, data *io.DataSet, outputFileName string) error {
	var outputWriter gio.Writer
	if outputFileName != "" {
		outputFile, err := os.Create(outputFileName)
		if err != nil {
			return fmt.Errorf("error opening output file %s: %w", outputFileName, err)
		}
		defer outputFile.Close()
		outputWriter = outputFile
	} else {
		outputWriter = NoopWriter{}
	}

	evaluator := newClassificationEvaluator(m, outputWriter)
	evaluator.evaluate(data)
	evaluator.LogMetrics()
	return nil
}

// Accuracy measures the fraction of correct predictions of the model on the
// given dataset.
func Accuracy(m *model.Model, data *io.DataSet) float64 {
	evaluator := newClassificationEvaluator(m, NoopWriter{})
	evaluator.evaluate(data)
	return evaluator.Accuracy()
}

type classificationEvaluator struct {
	metrics      map[string]*stats.ClassMetrics
	model        *model.Model
	outputWriter gio.Writer
	correct      int
	total        int
}

func newClassificationEvaluator(m *model.Model, outputWriter gio.Writer) *classificationEvaluator {
	return &classificationEvaluator{
		metrics:      map[string]*stats.ClassMetrics{},
		model:        m,
		outputWriter: outputWriter,
	}
}

func (c *classificationEvaluator) evaluate(data *io.DataSet) {
	g := ag.NewGraph(ag.Rand(rand.NewLockedRand(42)))
	data.ResetOrder(io.OriginalOrder)
	for batch := data.Next(); len(batch) > 0; batch = data.Next() {
		predictions := predict(g, c.model, batch)
		for i, prediction := range predictions {
			c.evaluatePrediction(prediction, batch[i])
		}
		g.Clear()
	}
}

func (c *classificationEvaluator) evaluatePrediction(node ag.Node, record *io.DataRecord) {
	class, logit := argmax(node.Value().Data())
	className := c.model.MetaData.Labels.IndexToName[class]
	label := c.model.MetaData.Labels.IndexToName[record.Target]

	fmt.Fprintf(c.outputWriter, "%s,%s,%.5f\n", label, className, logit)

	labelClassMetrics, ok := c.metrics[label]
	if !ok {
		labelClassMetrics = stats.NewMetricCounter()
		c.metrics[label] = labelClassMetrics
	}
	predictedClassMetrics, ok := c.metrics[className]
	if !ok {
		predictedClassMetrics = stats.NewMetricCounter()
		c.metrics[className] = predictedClassMetrics
	}

	c.total++
	if label == className {
		c.correct++
		labelClassMetrics.IncTruePos()
	} else {
		labelClassMetrics.IncFalseNeg()
		predictedClassMetrics.IncFalsePos()
	}
}

func (c *classificationEvaluator) Accuracy() float64 {
	if c.total == 0 {
		return 0
	}
	return float64(c.correct) / float64(c.total)
}

// Report assembles a classification report with one row per class, a
// support-weighted average row and the best validation result seen during
// training.
func (c *classificationEvaluator) Report(bestAcc float64, bestEpoch int) results.Report {
	report := results.Report{}
	totalSupport := 0.0
	weightedPrecision := 0.0
	weightedRecall := 0.0
	weightedF1 := 0.0
	for class, metric := range c.metrics {
		support := float64(metric.TruePos + metric.FalseNeg)
		report[class] = map[string]float64{
			results.Precision: float64(metric.Precision()),
			results.Recall:    float64(metric.Recall()),
			results.F1Score:   float64(metric.F1Score()),
			results.Support:   support,
		}
		totalSupport += support
		weightedPrecision += float64(metric.Precision()) * support
		weightedRecall += float64(metric.Recall()) * support
		weightedF1 += float64(metric.F1Score()) * support
	}
	report[results.WeightedAvg] = map[string]float64{
		results.Precision: weightedPrecision / totalSupport,
		results.Recall:    weightedRecall / totalSupport,
		results.F1Score:   weightedF1 / totalSupport,
		results.Support:   totalSupport,
	}
	report[results.BestResult] = map[string]float64{
		results.BestAcc:   bestAcc,
		results.BestEpoch: float64(bestEpoch),
	}
	return report
}

func (c *classificationEvaluator) LogMetrics() {
	// Sort class names for deterministic output
	sortedClasses := sortClasses(c.metrics)
	for _, class := range sortedClasses {
		result := c.metrics[class]
		log.Info().Str("Class", class).
			Int("TP", result.TruePos).
			Int("FP", result.FalsePos).
			Int("TN", result.TrueNeg).
			Int("FN", result.FalseNeg).
			Float64("Precision", float64(result.Precision())).
			Float64("Recall", float64(result.Recall())).
			Float64("F1", float64(result.F1Score())).
			Msg("")
	}
	log.Info().Float64("Accuracy", c.Accuracy()).Msg("")
}

func sortClasses(metrics map[string]*stats.ClassMetrics) []string {
	result := make([]string, 0, len(metrics))
	for class := range metrics {
		result = append(result, class)
	}
	sort.Strings(result)
	return result
}

func predict(g *ag.Graph, m *model.Model, batch io.DataBatch) []ag.Node {
	input := createInput(g, batch, m.MetaData.Speakers.Size())
	proc := nn.Reify(nn.Context{Graph: g, Mode: nn.Inference}, m.Network).(*model.WeightedMultiModalFusionNetwork)
	return proc.Forward(input)
}

func argmax(data []mat.Float) (int, mat.Float) {
	maxInd := 0
	for i := range data {
		if data[i] > data[maxInd] {
			maxInd = i
		}
	}
	return maxInd, data[maxInd]
}
