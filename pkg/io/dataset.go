package io

import (
	"math/rand"
)

type DataSet struct {
	Data         []*DataRecord
	BatchSize    int
	Rand         *rand.Rand
	dataIndices  []int
	currentOrder []int
	currentIndex int
}

type DatasetOrder int

const (
	OriginalOrder DatasetOrder = iota
	RandomOrder
)

func (d *DataSet) ResetOrder(order DatasetOrder) {
	if d.currentOrder == nil {
		d.currentOrder = make([]int, len(d.dataIndices))
	}
	switch order {
	case OriginalOrder:
		copy(d.currentOrder, d.dataIndices)
	case RandomOrder:
		ind := d.Rand.Perm(len(d.currentOrder))
		for i := range ind {
			d.currentOrder[i] = d.dataIndices[ind[i]]
		}
	}

	d.currentIndex = 0
}

func (d *DataSet) Next() DataBatch {
	batch := make(DataBatch, 0, d.BatchSize)
	for ; d.currentIndex < len(d.currentOrder) && len(batch) < d.BatchSize; d.currentIndex++ {
		batch = append(batch, d.Data[d.currentOrder[d.currentIndex]])
	}
	return batch
}

func (d *DataSet) Size() int {
	return len(d.dataIndices)
}

func NewDataSet(data []*DataRecord, batchSize int) *DataSet {
	dataIndices := make([]int, len(data))
	for i := range dataIndices {
		dataIndices[i] = i
	}
	ds := &DataSet{Data: data, BatchSize: batchSize, dataIndices: dataIndices}
	ds.ResetOrder(OriginalOrder)
	return ds
}

func NewDataSetSplit(data []*DataRecord, batchSize int, rnd *rand.Rand, indices []int) *DataSet {
	ds := &DataSet{
		Data: data, BatchSize: batchSize, Rand: rnd, dataIndices: indices}
	ds.ResetOrder(OriginalOrder)
	return ds
}

// Split is one cross-validation fold: Test holds the fold itself, Train holds
// everything else.
type Split struct {
	Train *DataSet
	Test  *DataSet
}

// KFold shuffles the dataset once and partitions it into k folds of nearly
// equal size. The Train and Test datasets of each split share the underlying
// records.
func (d *DataSet) KFold(k int) []Split {
	indices := make([]int, len(d.dataIndices))
	copy(indices, d.dataIndices)
	d.Rand.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	foldSizes := make([]int, k)
	for i := 0; i < len(indices); i++ {
		foldSizes[i%k]++
	}

	splits := make([]Split, k)
	idx := 0
	for i := range splits {
		testIndices := make([]int, foldSizes[i])
		copy(testIndices, indices[idx:idx+foldSizes[i]])
		trainIndices := make([]int, 0, len(indices)-foldSizes[i])
		trainIndices = append(trainIndices, indices[:idx]...)
		trainIndices = append(trainIndices, indices[idx+foldSizes[i]:]...)
		idx += foldSizes[i]

		splits[i] = Split{
			Train: NewDataSetSplit(d.Data, d.BatchSize, d.Rand, trainIndices),
			Test:  NewDataSetSplit(d.Data, d.BatchSize, d.Rand, testIndices),
		}
	}
	return splits
}
