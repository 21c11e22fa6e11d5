// Package grid sizes near-square subplot layouts for a number of panels.
package grid

import (
	"math"

	"github.com/rotisserie/eris"
)

// DefaultMaxAspect is the widest cols:rows ratio AlmostSquare accepts.
const DefaultMaxAspect = 2.0

// ErrInvalidCount is returned when a layout is requested for fewer than one panel.
var ErrInvalidCount = eris.New("panel count must be positive")

// ErrInvalidAspect is returned for a MaxAspect below 1 or not a number.
var ErrInvalidAspect = eris.New("max aspect must be at least 1")

// Shape is a subplot layout. Rows*Cols may exceed the number of panels it was
// sized for; the surplus cells stay empty.
type Shape struct {
	Rows int
	Cols int
}

// Cells returns the number of cells in the layout.
func (s Shape) Cells() int {
	return s.Rows * s.Cols
}

// Options tunes AlmostSquare.
type Options struct {
	// MaxAspect bounds Cols/Rows. Zero selects DefaultMaxAspect and 1 allows
	// square layouts only.
	MaxAspect float64
}

// ClosestFactorPair returns the factor pair f1 <= f2 of n whose members are
// closest to each other. n must be positive.
func ClosestFactorPair(n int) (int, int) {
	f1, f2 := 0, n
	for f1+1 <= f2 {
		f1++
		if n%f1 == 0 {
			f2 = n / f1
		}
	}
	// The scan stops on the divisor just past sqrt(n), so the pair comes out
	// larger-first unless n is a perfect square.
	return min(f1, f2), max(f1, f2)
}

// AlmostSquare finds the smallest count >= n whose closest factor pair is
// within opts.MaxAspect of square and returns it as a layout.
func AlmostSquare(n int, opts Options) (Shape, error) {
	if n < 1 {
		return Shape{}, eris.Wrapf(ErrInvalidCount, "got %d", n)
	}
	switch {
	case opts.MaxAspect == 0:
		opts.MaxAspect = DefaultMaxAspect
	case opts.MaxAspect < 1 || math.IsNaN(opts.MaxAspect):
		return Shape{}, eris.Wrapf(ErrInvalidAspect, "got %g", opts.MaxAspect)
	}

	for count := n; ; count++ {
		f1, f2 := ClosestFactorPair(count)
		if float64(f2) <= opts.MaxAspect*float64(f1) {
			return Shape{Rows: f1, Cols: f2}, nil
		}
	}
}
