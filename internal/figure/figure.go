// Package figure renders per-species curve grids to PNG.
package figure

import (
	"image/color"
	"os"

	"github.com/crazy3lf/colorconv"
	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cybre/moltenclip/internal/grid"
	"github.com/cybre/moltenclip/internal/utils"
)

// ErrNoPanels is returned by Render when there is nothing to draw.
var ErrNoPanels = eris.New("nothing to plot")

// Panel is one species' data. DY is plotted on the panel's axis and Y is
// rescaled onto it.
type Panel struct {
	Title string
	X     []float64
	Y     []float64
	DY    []float64
}

// Options tunes Render. Zero values take the defaults.
type Options struct {
	DPI         int
	PanelWidth  vg.Length
	PanelHeight vg.Length
	// MaxAspect is passed to grid.AlmostSquare; zero selects its default.
	MaxAspect   float64
	XLabel      string
}

func (o Options) withDefaults() Options {
	if o.DPI <= 0 {
		o.DPI = 300
	}
	if o.PanelWidth <= 0 {
		o.PanelWidth = 4 * vg.Inch
	}
	if o.PanelHeight <= 0 {
		o.PanelHeight = 3 * vg.Inch
	}
	return o
}

var (
	positiveColor = hsvColor(48, 0.85, 0.95)
	negativeColor = hsvColor(275, 0.7, 0.45)
	ratioColor    = hsvColor(225, 0.9, 0.85)
)

func hsvColor(h, s, v float64) color.Color {
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// bounds holds the axis ranges shared by every panel of a figure.
type bounds struct {
	xMin, xMax   float64
	dyMin, dyMax float64
	yMin, yMax   float64
}

func sharedBounds(panels []Panel) bounds {
	var xs, ys, dys [][]float64
	for _, p := range panels {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		dys = append(dys, p.DY)
	}

	var b bounds
	b.xMin, b.xMax, _ = utils.FiniteRange(xs...)
	b.yMin, b.yMax, _ = utils.FiniteRange(ys...)
	var ok bool
	if b.dyMin, b.dyMax, ok = utils.FiniteRange(dys...); !ok {
		b.dyMin, b.dyMax = b.yMin, b.yMax
	}
	if b.dyMax-b.dyMin <= 1e-12 {
		b.dyMin, b.dyMax = b.dyMin-1, b.dyMax+1
	}
	if b.xMax-b.xMin <= 1e-12 {
		b.xMin, b.xMax = b.xMin-1, b.xMax+1
	}
	return b
}

// Render lays the panels out on a near-square grid and writes a PNG to path.
// Axes are shared between panels and surplus grid cells are left blank.
func Render(path string, panels []Panel, opts Options) error {
	if len(panels) == 0 {
		return ErrNoPanels
	}
	opts = opts.withDefaults()

	shape, err := grid.AlmostSquare(len(panels), grid.Options{MaxAspect: opts.MaxAspect})
	if err != nil {
		return err
	}

	b := sharedBounds(panels)
	plots := make([]*plot.Plot, len(panels))
	for i, panel := range panels {
		p, err := newPanelPlot(panel, b, opts, i == 0)
		if err != nil {
			return eris.Wrapf(err, "panel %q", panel.Title)
		}
		plots[i] = p
	}

	width := vg.Length(shape.Cols) * opts.PanelWidth
	height := vg.Length(shape.Rows) * opts.PanelHeight
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(opts.DPI))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      shape.Rows,
		Cols:      shape.Cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Millimeter,
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  vg.Millimeter,
	}
	for i, p := range plots {
		p.Draw(tiles.At(dc, i%shape.Cols, i/shape.Cols))
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create figure %s", path)
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "encode figure %s", path)
	}
	return eris.Wrapf(f.Close(), "close figure %s", path)
}

func newPanelPlot(panel Panel, b bounds, opts Options, legend bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = opts.XLabel
	p.Legend.Top = true

	positive, negative, ratio := splitPoints(panel, b)

	series := []struct {
		label string
		pts   plotter.XYs
		color color.Color
	}{
		{"First derivative > 0", positive, positiveColor},
		{"First derivative <= 0", negative, negativeColor},
		{"Ratio (scaled)", ratio, ratioColor},
	}
	for _, s := range series {
		if len(s.pts) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(s.pts)
		if err != nil {
			return nil, eris.Wrap(err, "build scatter")
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(1.2)
		scatter.GlyphStyle.Color = s.color
		p.Add(scatter)
		if legend {
			p.Legend.Add(s.label, scatter)
		}
	}

	p.X.Min, p.X.Max = b.xMin, b.xMax
	p.Y.Min, p.Y.Max = b.dyMin, b.dyMax
	return p, nil
}

func splitPoints(panel Panel, b bounds) (positive, negative, ratio plotter.XYs) {
	n := min(len(panel.X), len(panel.Y), len(panel.DY))
	for i := range n {
		x := panel.X[i]
		if !utils.Finite(x) {
			continue
		}
		if dy := panel.DY[i]; utils.Finite(dy) {
			pt := plotter.XY{X: x, Y: dy}
			if dy > 0 {
				positive = append(positive, pt)
			} else {
				negative = append(negative, pt)
			}
		}
		if y := panel.Y[i]; utils.Finite(y) {
			ratio = append(ratio, plotter.XY{X: x, Y: utils.Rescale(y, b.yMin, b.yMax, b.dyMin, b.dyMax)})
		}
	}
	return positive, negative, ratio
}
