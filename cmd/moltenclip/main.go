package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"

	"github.com/cybre/moltenclip/internal/clip"
	"github.com/cybre/moltenclip/internal/figure"
	"github.com/cybre/moltenclip/internal/ui"
	"github.com/cybre/moltenclip/internal/workbook"
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runClipper(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runClipper(ctx context.Context, opts runtimeOptions, stdout io.Writer) error {
	cfg, err := buildPipelineConfig(opts)
	if err != nil {
		return err
	}

	cfg.Progress = cfg.Progress && ui.IsInteractiveTerminal()
	logger := setupLogger(opts.debug, cfg.Progress)

	logger.Info("reading workbook", slog.String("path", cfg.WorkbookPath))
	ds, err := workbook.Load(cfg.WorkbookPath)
	if err != nil {
		return eris.Wrap(err, "load workbook")
	}

	curves, err := ds.Curves()
	if err != nil {
		return err
	}
	logger.Info("loaded species", slog.Int("count", len(curves)), slog.Int("samples", len(ds.Derivative.Index)))

	if err := figure.Render(cfg.BeforePath, panelsFromCurves(curves), cfg.Figure); err != nil {
		return eris.Wrap(err, "plot data before clipping")
	}
	logger.Info("saved before plot", slog.String("path", cfg.BeforePath))

	results, err := clipCurves(ctx, logger, curves, cfg)
	if err != nil {
		return err
	}

	clipped, err := ds.ApplyClip(results)
	if err != nil {
		return err
	}
	if err := workbook.Save(cfg.ClippedPath, clipped); err != nil {
		return eris.Wrap(err, "save clipped workbook")
	}
	logger.Info("saved clipped workbook", slog.String("path", cfg.ClippedPath))

	if err := figure.Render(cfg.AfterPath, panelsFromResults(curves, results), cfg.Figure); err != nil {
		return eris.Wrap(err, "plot data after clipping")
	}
	logger.Info("saved after plot", slog.String("path", cfg.AfterPath))

	fmt.Fprintln(stdout, ui.RenderSummary(summaryRows(curves, results)))
	return nil
}

func setupLogger(debug, progress bool) *slog.Logger {
	logOutput := os.Stdout
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	if progress && !debug {
		logLevel = slog.LevelWarn
	}
	if progress {
		logOutput = os.Stderr
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	return logger
}

func clipCurves(ctx context.Context, logger *slog.Logger, curves []workbook.SpeciesCurve, cfg pipelineConfig) ([]clip.Result, error) {
	clipCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var progress *ui.Progress
	if cfg.Progress {
		p, err := ui.NewProgress("Clipping curves", len(curves), cancel)
		if err != nil && !eris.Is(err, ui.ErrNoInteractiveTTY) {
			return nil, err
		}
		progress = p
	}
	defer progress.Close()

	input := make([]clip.Curve, len(curves))
	for i, sc := range curves {
		input[i] = sc.Curve
	}

	logger.Info("clipping curves",
		slog.Int("count", len(curves)),
		slog.Float64("deviation", cfg.Clip.DeviationThreshold))

	results, err := clip.All(clipCtx, input, cfg.Clip, func(i int, res clip.Result) {
		progress.Step(curves[i].Name)
		logger.Debug("clipped curve",
			slog.String("species", curves[i].Name),
			slog.Int("kept", res.Kept()),
			slog.Int("dropped", res.Dropped()),
			slog.String("reason", res.Reason.String()))
	})
	if err != nil {
		return nil, eris.Wrap(err, "clip curves")
	}
	return results, nil
}

func panelsFromCurves(curves []workbook.SpeciesCurve) []figure.Panel {
	panels := make([]figure.Panel, len(curves))
	for i, sc := range curves {
		panels[i] = figure.Panel{Title: sc.Name, X: sc.Curve.X, Y: sc.Curve.Y, DY: sc.Curve.DY}
	}
	return panels
}

func panelsFromResults(curves []workbook.SpeciesCurve, results []clip.Result) []figure.Panel {
	panels := make([]figure.Panel, len(results))
	for i, res := range results {
		panels[i] = figure.Panel{Title: curves[i].Name, X: res.X, Y: res.Y, DY: res.DY}
	}
	return panels
}

func summaryRows(curves []workbook.SpeciesCurve, results []clip.Result) []ui.SummaryRow {
	rows := make([]ui.SummaryRow, len(results))
	for i, res := range results {
		rows[i] = ui.SummaryRow{
			Species:     curves[i].Name,
			Kept:        res.Kept(),
			Dropped:     res.Dropped(),
			Transitions: res.Transitions,
			Reason:      res.Reason.String(),
		}
	}
	return rows
}
