// Package results aggregates per-fold classification metrics across a
// cross-validation run.
package results

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Report is a classification report: metric values keyed by class name or
// summary row. The "weighted avg" row carries precision/recall/f1-score
// averaged over classes weighted by support; the "best_result" row carries
// the best validation accuracy seen during training and its epoch.
type Report map[string]map[string]float64

const (
	WeightedAvg = "weighted avg"
	BestResult  = "best_result"

	Precision = "precision"
	Recall    = "recall"
	F1Score   = "f1-score"
	Support   = "support"
	BestAcc   = "best_acc"
	BestEpoch = "best_epoch"
)

// Result holds the metrics of a single cross-validation fold.
type Result struct {
	Precision float64
	Recall    float64
	F1Score   float64
	BestAcc   float64
	BestEpoch int
}

// NewResult builds a Result from a classification report. The report must
// contain a "weighted avg" and a "best_result" row.
func NewResult(report Report) (Result, error) {
	precision, err := metric(report, WeightedAvg, Precision)
	if err != nil {
		return Result{}, err
	}
	recall, err := metric(report, WeightedAvg, Recall)
	if err != nil {
		return Result{}, err
	}
	f1, err := metric(report, WeightedAvg, F1Score)
	if err != nil {
		return Result{}, err
	}
	bestAcc, err := metric(report, BestResult, BestAcc)
	if err != nil {
		return Result{}, err
	}
	bestEpoch, err := metric(report, BestResult, BestEpoch)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Precision: precision,
		Recall:    recall,
		F1Score:   f1,
		BestAcc:   bestAcc,
		BestEpoch: int(bestEpoch),
	}, nil
}

func metric(report Report, row, key string) (float64, error) {
	values, ok := report[row]
	if !ok {
		return 0, fmt.Errorf("classification report has no %q row", row)
	}
	value, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("classification report row %q has no %q value", row, key)
	}
	return value, nil
}

// IterationResults collects fold results in insertion order.
type IterationResults struct {
	FoldResults []Result
}

func (r *IterationResults) AddResult(result Result) {
	r.FoldResults = append(r.FoldResults, result)
}

// PrintResult logs the metrics of every fold followed by their averages and
// returns the averaged precision, recall and f1_score. With no folds the
// averages are NaN, matching the mean of an empty collection.
func (r *IterationResults) PrintResult() map[string]float64 {
	precisions := make([]float64, len(r.FoldResults))
	recalls := make([]float64, len(r.FoldResults))
	f1Scores := make([]float64, len(r.FoldResults))

	for i, result := range r.FoldResults {
		precisions[i] = result.Precision
		recalls[i] = result.Recall
		f1Scores[i] = result.F1Score
		log.Info().
			Int("Fold", i+1).
			Float64("WeightedPrecision", result.Precision).
			Float64("WeightedRecall", result.Recall).
			Float64("WeightedFScore", result.F1Score).
			Int("BestEpoch", result.BestEpoch).
			Float64("BestAcc", result.BestAcc).
			Msg("")
	}

	avgPrecision := stat.Mean(precisions, nil)
	avgRecall := stat.Mean(recalls, nil)
	avgF1Score := stat.Mean(f1Scores, nil)

	log.Info().
		Float64("WeightedPrecision", avgPrecision).
		Float64("WeightedRecall", avgRecall).
		Float64("WeightedFScore", avgF1Score).
		Msg("Avg")

	return map[string]float64{
		"precision": avgPrecision,
		"recall":    avgRecall,
		"f1_score":  avgF1Score,
	}
}
