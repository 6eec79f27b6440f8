package results

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewResult(t *testing.T) {
	report := Report{
		WeightedAvg: {Precision: 0.8, Recall: 0.7, F1Score: 0.75},
		BestResult:  {BestAcc: 0.9, BestEpoch: 3},
	}

	result, err := NewResult(report)
	require.NoError(t, err)
	require.Equal(t, 0.8, result.Precision)
	require.Equal(t, 0.7, result.Recall)
	require.Equal(t, 0.75, result.F1Score)
	require.Equal(t, 0.9, result.BestAcc)
	require.Equal(t, 3, result.BestEpoch)
}

func TestNewResult_MissingRow(t *testing.T) {
	_, err := NewResult(Report{
		WeightedAvg: {Precision: 0.8, Recall: 0.7, F1Score: 0.75},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), BestResult)
}

func TestNewResult_MissingValue(t *testing.T) {
	_, err := NewResult(Report{
		WeightedAvg: {Precision: 0.8, Recall: 0.7},
		BestResult:  {BestAcc: 0.9, BestEpoch: 3},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), F1Score)
}

func TestIterationResults_PrintResult(t *testing.T) {
	iteration := &IterationResults{}
	iteration.AddResult(Result{Precision: 0.8, Recall: 0.7, F1Score: 0.75, BestAcc: 0.9, BestEpoch: 3})
	iteration.AddResult(Result{Precision: 0.6, Recall: 0.5, F1Score: 0.65, BestAcc: 0.8, BestEpoch: 5})

	avg := iteration.PrintResult()
	require.InDelta(t, 0.7, avg["precision"], 1e-9)
	require.InDelta(t, 0.6, avg["recall"], 1e-9)
	require.InDelta(t, 0.7, avg["f1_score"], 1e-9)
}

// The average of zero folds is the mean of an empty collection.
func TestIterationResults_PrintResult_Empty(t *testing.T) {
	avg := (&IterationResults{}).PrintResult()
	require.True(t, math.IsNaN(avg["precision"]))
	require.True(t, math.IsNaN(avg["recall"]))
	require.True(t, math.IsNaN(avg["f1_score"]))
}
