package figure

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/cybre/moltenclip/internal/grid"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func samplePanel(title string, n int) Panel {
	p := Panel{Title: title}
	for i := range n {
		x := 20 + float64(i)
		p.X = append(p.X, x)
		p.Y = append(p.Y, 0.8+0.1*math.Tanh((x-30)/3))
		p.DY = append(p.DY, 0.03/math.Pow(math.Cosh((x-30)/3), 2)-0.005)
	}
	return p
}

func TestRenderWritesPNG(t *testing.T) {
	panels := []Panel{
		samplePanel("A", 30),
		samplePanel("B", 25),
		samplePanel("C", 12),
	}
	panels[1].Y[3] = math.NaN()
	panels[2].DY[0] = math.Inf(1)

	path := filepath.Join(t.TempDir(), "run_raw_data_before.png")
	err := Render(path, panels, Options{DPI: 72, PanelWidth: 2 * vg.Inch, PanelHeight: 1.5 * vg.Inch, XLabel: "Temperature"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestRenderNoPanels(t *testing.T) {
	err := Render(filepath.Join(t.TempDir(), "empty.png"), nil, Options{})
	assert.True(t, eris.Is(err, ErrNoPanels))
}

func TestRenderUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "fig.png")
	err := Render(path, []Panel{samplePanel("A", 5)}, Options{DPI: 72})
	assert.Error(t, err)
}

func TestRenderSquareOnlyAndInvalidAspect(t *testing.T) {
	dir := t.TempDir()
	panels := []Panel{samplePanel("A", 5), samplePanel("B", 5)}

	require.NoError(t, Render(filepath.Join(dir, "square.png"), panels, Options{DPI: 72, MaxAspect: 1}))

	path := filepath.Join(dir, "bad.png")
	err := Render(path, panels, Options{DPI: 72, MaxAspect: 0.5})
	assert.True(t, eris.Is(err, grid.ErrInvalidAspect))
	assert.NoFileExists(t, path)
}

func TestSplitPoints(t *testing.T) {
	panel := Panel{
		X:  []float64{1, 2, 3, math.NaN(), 5},
		Y:  []float64{10, 20, math.NaN(), 40, 30},
		DY: []float64{0.5, 0, -0.5, 1, math.NaN()},
	}
	b := bounds{xMin: 1, xMax: 5, yMin: 10, yMax: 30, dyMin: -1, dyMax: 1}

	positive, negative, ratio := splitPoints(panel, b)
	assert.Len(t, positive, 1)
	assert.Len(t, negative, 2)
	require.Len(t, ratio, 3)
	assert.InDelta(t, -1.0, ratio[0].Y, 1e-12)
	assert.InDelta(t, 0.0, ratio[1].Y, 1e-12)
	assert.InDelta(t, 1.0, ratio[2].Y, 1e-12)
}

func TestSharedBounds(t *testing.T) {
	b := sharedBounds([]Panel{
		{X: []float64{1, 2}, Y: []float64{0.5, 0.6}, DY: []float64{-0.1, 0.2}},
		{X: []float64{0, 4}, Y: []float64{0.7, math.NaN()}, DY: []float64{0.3, 0}},
	})
	assert.Equal(t, 0.0, b.xMin)
	assert.Equal(t, 4.0, b.xMax)
	assert.Equal(t, -0.1, b.dyMin)
	assert.Equal(t, 0.3, b.dyMax)
	assert.Equal(t, 0.5, b.yMin)
	assert.Equal(t, 0.7, b.yMax)
}
