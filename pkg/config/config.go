// Package config holds the network hyperparameters, read from a YAML file
// with sensible defaults for BERT text, librosa audio and ResNet video
// embeddings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	mat "github.com/nlpodyssey/spago/pkg/mat32"

	"github.com/Alex-Williams01/Final-Year-Project/pkg/model"
)

type Modality struct {
	Dim     int       `yaml:"dim"`
	Hidden  int       `yaml:"hidden"`
	Dropout mat.Float `yaml:"dropout"`
}

type Encoder struct {
	Hidden  int       `yaml:"hidden"`
	Dropout mat.Float `yaml:"dropout"`
}

type PostFusion struct {
	Dim     int       `yaml:"dim"`
	Dropout mat.Float `yaml:"dropout"`
}

type Root struct {
	Text  Modality `yaml:"text"`
	Audio Modality `yaml:"audio"`
	Video Modality `yaml:"video"`

	// Context embeddings share the text dimensionality; the speaker input
	// dimension is the number of speakers found in the training data.
	Context Encoder `yaml:"context"`
	Speaker Encoder `yaml:"speaker"`

	PostFusion PostFusion `yaml:"post_fusion"`
}

func Default() Root {
	return Root{
		Text:       Modality{Dim: 768, Hidden: 128, Dropout: 0.2},
		Audio:      Modality{Dim: 283, Hidden: 32, Dropout: 0.2},
		Video:      Modality{Dim: 2048, Hidden: 128, Dropout: 0.2},
		Context:    Encoder{Hidden: 64, Dropout: 0.2},
		Speaker:    Encoder{Hidden: 32, Dropout: 0.2},
		PostFusion: PostFusion{Dim: 128, Dropout: 0.3},
	}
}

// Load reads a YAML hyperparameter file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Root, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("error opening config file %s: %w", path, err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// NetworkConfig assembles the model configuration. The speaker count is only
// known after the training data has been parsed.
func (r Root) NetworkConfig(speakerCount int) model.NetworkConfig {
	return model.NetworkConfig{
		TextDim:           r.Text.Dim,
		TextHidden:        r.Text.Hidden,
		TextDropout:       r.Text.Dropout,
		AudioDim:          r.Audio.Dim,
		AudioHidden:       r.Audio.Hidden,
		AudioDropout:      r.Audio.Dropout,
		VideoDim:          r.Video.Dim,
		VideoHidden:       r.Video.Hidden,
		VideoDropout:      r.Video.Dropout,
		ContextHidden:     r.Context.Hidden,
		ContextDropout:    r.Context.Dropout,
		SpeakerCount:      speakerCount,
		SpeakerHidden:     r.Speaker.Hidden,
		SpeakerDropout:    r.Speaker.Dropout,
		PostFusionDim:     r.PostFusion.Dim,
		PostFusionDropout: r.PostFusion.Dropout,
	}
}
