package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestBuildPipelineConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := buildPipelineConfig(runtimeOptions{
		workbookPath: "data.xlsx",
		outDir:       dir,
		outPrefix:    "exp1",
		maxAspect:    1,
		dpi:          5000,
		panelSize:    2,
	})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.WorkbookPath))
	assert.Equal(t, filepath.Join(dir, "exp1_raw_data_before.png"), cfg.BeforePath)
	assert.Equal(t, filepath.Join(dir, "exp1_raw_data_after.png"), cfg.AfterPath)
	assert.Equal(t, filepath.Join(dir, "exp1_clipped.xlsx"), cfg.ClippedPath)
	assert.Equal(t, 0.002, cfg.Clip.DeviationThreshold)
	assert.Equal(t, 1.0, cfg.Figure.MaxAspect)
	assert.Equal(t, 1200, cfg.Figure.DPI)
	assert.Equal(t, 2*vg.Inch, cfg.Figure.PanelWidth)
	assert.Equal(t, 1.5*vg.Inch, cfg.Figure.PanelHeight)
	assert.True(t, cfg.Progress)
}

func TestBuildPipelineConfigRejectsBadOutput(t *testing.T) {
	dir := t.TempDir()

	_, err := buildPipelineConfig(runtimeOptions{workbookPath: "a.xlsx", outDir: filepath.Join(dir, "nope"), outPrefix: "x"})
	assert.Error(t, err)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = buildPipelineConfig(runtimeOptions{workbookPath: "a.xlsx", outDir: file, outPrefix: "x"})
	assert.Error(t, err)

	_, err = buildPipelineConfig(runtimeOptions{workbookPath: "a.xlsx", outDir: dir, outPrefix: "  "})
	assert.Error(t, err)
}

func TestBuildPipelineConfigRejectsBadTuning(t *testing.T) {
	dir := t.TempDir()
	base := runtimeOptions{workbookPath: "a.xlsx", outDir: dir, outPrefix: "x"}

	for _, deviation := range []float64{-0.002, math.NaN()} {
		opts := base
		opts.deviation = deviation
		_, err := buildPipelineConfig(opts)
		assert.Error(t, err, "deviation=%g", deviation)
	}
	for _, aspect := range []float64{0.5, -1, math.NaN()} {
		opts := base
		opts.maxAspect = aspect
		_, err := buildPipelineConfig(opts)
		assert.Error(t, err, "max aspect=%g", aspect)
	}
}

func TestEffectiveValues(t *testing.T) {
	deviation, err := effectiveDeviation(0.01)
	require.NoError(t, err)
	assert.Equal(t, 0.01, deviation)
	deviation, err = effectiveDeviation(0)
	require.NoError(t, err)
	assert.Equal(t, 0.002, deviation)

	aspect, err := effectiveMaxAspect(3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, aspect)
	aspect, err = effectiveMaxAspect(1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, aspect)
	aspect, err = effectiveMaxAspect(0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, aspect)

	assert.Equal(t, 300, effectiveDPI(0))
	assert.Equal(t, 36, effectiveDPI(10))
	assert.Equal(t, 3*vg.Inch, effectivePanelSize(0))
	assert.Equal(t, 20*vg.Inch, effectivePanelSize(100))
}
