package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot/vg"

	"github.com/cybre/moltenclip/internal/clip"
	"github.com/cybre/moltenclip/internal/figure"
	"github.com/cybre/moltenclip/internal/grid"
	"github.com/cybre/moltenclip/internal/utils"
)

type pipelineConfig struct {
	WorkbookPath string
	BeforePath   string
	AfterPath    string
	ClippedPath  string
	Clip         clip.Options
	Figure       figure.Options
	Progress     bool
}

func buildPipelineConfig(opts runtimeOptions) (pipelineConfig, error) {
	workbookPath, err := filepath.Abs(opts.workbookPath)
	if err != nil {
		return pipelineConfig{}, eris.Wrap(err, "resolve workbook path")
	}
	outDir, err := filepath.Abs(opts.outDir)
	if err != nil {
		return pipelineConfig{}, eris.Wrap(err, "resolve output directory")
	}

	info, err := os.Stat(outDir)
	if err != nil {
		return pipelineConfig{}, eris.Wrapf(err, "output directory %s", outDir)
	}
	if !info.IsDir() {
		return pipelineConfig{}, eris.Errorf("output path %s is not a directory", outDir)
	}

	prefix := strings.TrimSpace(opts.outPrefix)
	if prefix == "" {
		return pipelineConfig{}, eris.New("output prefix must not be empty")
	}

	deviation, err := effectiveDeviation(opts.deviation)
	if err != nil {
		return pipelineConfig{}, err
	}
	maxAspect, err := effectiveMaxAspect(opts.maxAspect)
	if err != nil {
		return pipelineConfig{}, err
	}
	panelWidth := effectivePanelSize(opts.panelSize)

	return pipelineConfig{
		WorkbookPath: workbookPath,
		BeforePath:   filepath.Join(outDir, prefix+"_raw_data_before.png"),
		AfterPath:    filepath.Join(outDir, prefix+"_raw_data_after.png"),
		ClippedPath:  filepath.Join(outDir, prefix+"_clipped.xlsx"),
		Clip: clip.Options{
			DeviationThreshold: deviation,
			Workers:            opts.workers,
		},
		Figure: figure.Options{
			DPI:         effectiveDPI(opts.dpi),
			PanelWidth:  panelWidth,
			PanelHeight: panelWidth * 3 / 4,
			MaxAspect:   maxAspect,
			XLabel:      "Temperature",
		},
		Progress: !opts.noProgress,
	}, nil
}

func effectiveDeviation(requested float64) (float64, error) {
	if requested < 0 || math.IsNaN(requested) {
		return 0, eris.Errorf("deviation must be a non-negative number, got %g", requested)
	}
	if requested > 0 {
		return requested, nil
	}

	return clip.DefaultDeviationThreshold, nil
}

func effectiveMaxAspect(requested float64) (float64, error) {
	if requested == 0 {
		return grid.DefaultMaxAspect, nil
	}
	if requested < 1 || math.IsNaN(requested) {
		return 0, eris.Errorf("max aspect must be at least 1, got %g", requested)
	}

	return requested, nil
}

func effectiveDPI(requested int) int {
	if requested <= 0 {
		return 300
	}

	return utils.Clamp(requested, 36, 1200)
}

func effectivePanelSize(inches float64) vg.Length {
	if inches <= 0 {
		inches = 3
	}

	return vg.Length(utils.Clamp(inches, 1.0, 20.0)) * vg.Inch
}
