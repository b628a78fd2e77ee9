package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsAndPositionalInput(t *testing.T) {
	cfg, err := Parse([]string{"input.wav"})
	require.NoError(t, err)
	require.Equal(t, "input.wav", cfg.InputPath)
	require.Equal(t, 0.7, cfg.Threshold)
	require.Equal(t, 48000, cfg.HeadlessSampleRate)
}

func TestParse_ModeSelection(t *testing.T) {
	cfg, err := Parse([]string{"--iq2"})
	require.NoError(t, err)
	require.Equal(t, ModeIQCorrelate, cfg.Mode)

	cfg, err = Parse([]string{"--iq3"})
	require.NoError(t, err)
	require.Equal(t, ModeIQNoCorrelate, cfg.Mode)
}

func TestParse_RejectsOutOfRangeIQFreq(t *testing.T) {
	_, err := Parse([]string{"--IQ=0.5"})
	require.Error(t, err)

	_, err = Parse([]string{"--IQ=-0.5"})
	require.Error(t, err)
}

func TestParse_RejectsOutOfRangeThreshold(t *testing.T) {
	_, err := Parse([]string{"--ths=1.5"})
	require.Error(t, err)

	_, err = Parse([]string{"--ths=-0.1"})
	require.Error(t, err)
}

func TestParse_RejectsOutOfRangeBitOffset(t *testing.T) {
	_, err := Parse([]string{"-d", "5"})
	require.Error(t, err)

	_, err = Parse([]string{"-d", "-5"})
	require.Error(t, err)
}

func TestParse_AcceptsBoundaryBitOffset(t *testing.T) {
	cfg, err := Parse([]string{"-d", "4"})
	require.NoError(t, err)
	require.Equal(t, 4, cfg.BitOffset)
}

func TestParse_ECCAndVitFlags(t *testing.T) {
	cfg, err := Parse([]string{"--ecc2", "--vit"})
	require.NoError(t, err)
	require.True(t, cfg.ECC2)
	require.True(t, cfg.Vit)
	require.False(t, cfg.ECC)
}

func TestParse_YAMLDefaultsAppliedBeforeFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 0.5\nlp_bw_khz: 10\nbit_offset: 2\n"), 0o644))

	cfg, err := Parse([]string{"--config", path})
	require.NoError(t, err)
	require.Equal(t, 0.5, cfg.Threshold)
	require.Equal(t, 10.0, cfg.LowPassBW)
	require.Equal(t, 2, cfg.BitOffset)
}

func TestParse_FlagsOverrideYAMLDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 0.5\n"), 0o644))

	cfg, err := Parse([]string{"--config", path, "--ths=0.9"})
	require.NoError(t, err)
	require.Equal(t, 0.9, cfg.Threshold)
}
