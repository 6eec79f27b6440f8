package config

import (
	"os"
	"path/filepath"
	"testing"

	mat "github.com/nlpodyssey/spago/pkg/mat32"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
text:
  dim: 12
  hidden: 16
audio:
  dropout: 0.5
post_fusion:
  dim: 24
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Text.Dim)
	require.Equal(t, 16, cfg.Text.Hidden)
	require.Equal(t, mat.Float(0.2), cfg.Text.Dropout)
	require.Equal(t, 283, cfg.Audio.Dim)
	require.Equal(t, mat.Float(0.5), cfg.Audio.Dropout)
	require.Equal(t, 24, cfg.PostFusion.Dim)
	require.Equal(t, mat.Float(0.3), cfg.PostFusion.Dropout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNetworkConfig(t *testing.T) {
	cfg := Default()
	netConfig := cfg.NetworkConfig(7)
	require.Equal(t, 7, netConfig.SpeakerCount)
	require.Equal(t, cfg.Text.Dim, netConfig.TextDim)
	require.Equal(t, cfg.Text.Hidden, netConfig.TextHidden)
	require.Equal(t, cfg.Audio.Hidden, netConfig.AudioHidden)
	require.Equal(t, cfg.Video.Hidden, netConfig.VideoHidden)
	require.Equal(t, cfg.Context.Hidden, netConfig.ContextHidden)
	require.Equal(t, cfg.Speaker.Hidden, netConfig.SpeakerHidden)
	require.Equal(t, cfg.PostFusion.Dim, netConfig.PostFusionDim)
}
