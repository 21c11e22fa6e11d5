package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
)

type runtimeOptions struct {
	workbookPath string
	outDir       string
	outPrefix    string
	deviation    float64
	maxAspect    float64
	workers      int
	dpi          int
	panelSize    float64
	noProgress   bool
	debug        bool
}

func parseCLIFlags(args []string, output io.Writer) (runtimeOptions, error) {
	var cfg runtimeOptions

	fs := flag.NewFlagSet("moltenclip", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: moltenclip [flags] <prometheus.xlsx> <outdir> <prefix>")
		fmt.Fprintln(fs.Output(), "")
		fmt.Fprintln(fs.Output(), `The workbook must contain the "Ratio" and "Ratio (1st deriv.)" sheets.`)
		fs.PrintDefaults()
	}

	fs.Float64Var(&cfg.deviation, "deviation", 0.002, "largest |first derivative| tolerated once one transition remains (0 = default 0.002)")
	fs.Float64Var(&cfg.maxAspect, "max-aspect", 2.0, "widest cols:rows ratio for the figure grid, at least 1 (0 = default 2)")
	fs.IntVar(&cfg.workers, "workers", 0, "curves clipped concurrently (0 = GOMAXPROCS)")
	fs.IntVar(&cfg.dpi, "dpi", 300, "figure resolution")
	fs.Float64Var(&cfg.panelSize, "panel-size", 3, "panel width in inches (height is 3/4 of it)")
	fs.BoolVar(&cfg.noProgress, "no-progress", false, "disable the interactive progress bar")
	fs.BoolVar(&cfg.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if fs.NArg() != 3 {
		fs.Usage()
		return cfg, eris.Errorf("expected 3 arguments, got %d", fs.NArg())
	}
	cfg.workbookPath = fs.Arg(0)
	cfg.outDir = fs.Arg(1)
	cfg.outPrefix = fs.Arg(2)

	return cfg, nil
}
