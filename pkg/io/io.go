package io

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"

	mat "github.com/nlpodyssey/spago/pkg/mat32"

	"github.com/Alex-Williams01/Final-Year-Project/pkg/model"
)

// DataRecord is a single utterance with its per-modality feature embeddings.
// Context shares the text embedding dimensionality.
type DataRecord struct {
	Text    mat.Matrix
	Audio   mat.Matrix
	Video   mat.Matrix
	Context mat.Matrix

	// Speaker is the index into the one-hot speaker vector, or -1 when the
	// speaker was not seen at training time.
	Speaker int

	// Target is the class index of the utterance label.
	Target int
}

type DataBatch []*DataRecord

type DataParameters struct {
	DataFile  string
	BatchSize int
	TextDim   int
	AudioDim  int
	VideoDim  int
	RndSeed   uint64
}

type DataError struct {
	Line  int
	Error string
}

// rawRecord is the JSON-lines wire form of one utterance.
type rawRecord struct {
	Text    []mat.Float `json:"text"`
	Audio   []mat.Float `json:"audio"`
	Video   []mat.Float `json:"video"`
	Context []mat.Float `json:"context"`
	Speaker string      `json:"speaker"`
	Label   string      `json:"label"`
}

// LoadData reads a JSON-lines dataset, one utterance per line. When metaData
// is nil a new Metadata is built from the data (training); otherwise speaker
// and label names are resolved against the provided mappings (testing).
// Malformed lines are collected as DataErrors rather than failing the load.
func LoadData(p DataParameters, metaData *model.Metadata) (*model.Metadata, *DataSet, []DataError, error) {
	inputFile, err := os.Open(p.DataFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()

	newMetadata := metaData == nil
	if newMetadata {
		metaData = model.NewMetadata()
	}

	var errors []DataError
	var records []*DataRecord

	scanner := bufio.NewScanner(inputFile)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	currentLine := 0
	for scanner.Scan() {
		currentLine++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		record, err := parseRecord(line, p, metaData, newMetadata)
		if err != nil {
			errors = append(errors, DataError{Line: currentLine, Error: err.Error()})
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error reading %s: %w", p.DataFile, err)
	}

	dataSet := NewDataSet(records, p.BatchSize)
	dataSet.Rand = rand.New(rand.NewSource(int64(p.RndSeed)))
	return metaData, dataSet, errors, nil
}

func parseRecord(line []byte, p DataParameters, metaData *model.Metadata, newMetadata bool) (*DataRecord, error) {
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("error parsing record: %w", err)
	}

	if err := checkWidth("text", raw.Text, p.TextDim); err != nil {
		return nil, err
	}
	if err := checkWidth("audio", raw.Audio, p.AudioDim); err != nil {
		return nil, err
	}
	if err := checkWidth("video", raw.Video, p.VideoDim); err != nil {
		return nil, err
	}
	if err := checkWidth("context", raw.Context, p.TextDim); err != nil {
		return nil, err
	}

	var target int
	if newMetadata {
		target = metaData.Labels.ValueFor(raw.Label)
	} else {
		var ok bool
		target, ok = metaData.Labels.IndexFor(raw.Label)
		if !ok {
			return nil, fmt.Errorf("unknown label %q", raw.Label)
		}
	}

	// An unseen speaker at test time gets an all-zero one-hot vector.
	speaker := -1
	if newMetadata {
		speaker = metaData.Speakers.ValueFor(raw.Speaker)
	} else if index, ok := metaData.Speakers.IndexFor(raw.Speaker); ok {
		speaker = index
	}

	return &DataRecord{
		Text:    mat.NewVecDense(raw.Text),
		Audio:   mat.NewVecDense(raw.Audio),
		Video:   mat.NewVecDense(raw.Video),
		Context: mat.NewVecDense(raw.Context),
		Speaker: speaker,
		Target:  target,
	}, nil
}

func checkWidth(name string, values []mat.Float, expected int) error {
	if len(values) != expected {
		return fmt.Errorf("wrong %s width: expected %d, found %d", name, expected, len(values))
	}
	return nil
}

func SaveModel(model *model.Model, writer io.Writer) error {
	encoder := gob.NewEncoder(writer)
	err := encoder.Encode(model)
	if err != nil {
		return fmt.Errorf("error encoding model: %w", err)
	}
	return nil
}

func LoadModel(input io.Reader) (*model.Model, error) {
	decoder := gob.NewDecoder(input)
	model := model.Model{}
	err := decoder.Decode(&model)
	if err != nil {
		return nil, fmt.Errorf("error decoding model: %w", err)
	}
	return &model, nil
}
