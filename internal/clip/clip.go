// Package clip trims thermal-denaturation curves once their first derivative
// has changed sign more often than a melting curve should.
package clip

import (
	"math"

	"github.com/rotisserie/eris"
)

// DefaultDeviationThreshold is the largest |dy| tolerated once a single
// transition remains allowed.
const DefaultDeviationThreshold = 0.002

// ErrInvalidInputShape is returned when the curve sequences are empty or of
// different lengths.
var ErrInvalidInputShape = eris.New("invalid curve shape")

// ErrInvalidThreshold is returned for a negative or NaN deviation threshold.
var ErrInvalidThreshold = eris.New("invalid deviation threshold")

// Curve holds one species' samples. X is the index (temperature), Y the ratio
// signal and DY its first derivative; all three have the same length.
type Curve struct {
	X  []float64
	Y  []float64
	DY []float64
}

// Len returns the number of samples, or -1 when the sequences disagree.
func (c Curve) Len() int {
	if len(c.X) != len(c.Y) || len(c.X) != len(c.DY) {
		return -1
	}
	return len(c.X)
}

// Validate reports ErrInvalidInputShape for empty or ragged curves.
func (c Curve) Validate() error {
	n := c.Len()
	if n < 0 {
		return eris.Wrapf(ErrInvalidInputShape, "len(x)=%d len(y)=%d len(dy)=%d", len(c.X), len(c.Y), len(c.DY))
	}
	if n == 0 {
		return eris.Wrap(ErrInvalidInputShape, "curve is empty")
	}
	return nil
}

// Reason records which rule picked the cut point.
type Reason int

const (
	// ReasonEndOfData means the scan finished without an event; only the
	// final unpaired sample is dropped.
	ReasonEndOfData Reason = iota
	// ReasonTransition means the last allowed sign transition was reached.
	ReasonTransition
	// ReasonDeviation means |dy| exceeded the threshold with one transition left.
	ReasonDeviation
	// ReasonSingleSample means there was nothing to compare against.
	ReasonSingleSample
)

// String returns a human-friendly name for the reason.
func (r Reason) String() string {
	switch r {
	case ReasonEndOfData:
		return "end-of-data"
	case ReasonTransition:
		return "transition"
	case ReasonDeviation:
		return "deviation"
	case ReasonSingleSample:
		return "single-sample"
	default:
		return "unknown"
	}
}

// Options tunes Clip.
type Options struct {
	// DeviationThreshold defaults to DefaultDeviationThreshold when zero.
	// Negative and NaN values are rejected. Use +Inf to disable the deviation rule.
	DeviationThreshold float64
	// Workers bounds the concurrency of All. Zero means GOMAXPROCS.
	Workers int
}

func (o Options) withDefaults() (Options, error) {
	switch {
	case o.DeviationThreshold < 0 || math.IsNaN(o.DeviationThreshold):
		return o, eris.Wrapf(ErrInvalidThreshold, "got %g", o.DeviationThreshold)
	case o.DeviationThreshold == 0:
		o.DeviationThreshold = DefaultDeviationThreshold
	}
	return o, nil
}

// Result is the clipped prefix of a curve.
type Result struct {
	Curve
	// CutPoint is the last kept index.
	CutPoint int
	// Original is the input length.
	Original    int
	Reason      Reason
	Transitions int
	// Allowed is the number of transitions that would trigger a cut.
	Allowed int
}

// Kept returns the number of samples kept.
func (r Result) Kept() int {
	return r.CutPoint + 1
}

// Dropped returns the number of trailing samples removed.
func (r Result) Dropped() int {
	return r.Original - r.Kept()
}

// Clip scans the derivative for sign transitions and returns the prefix of the
// curve up to and including the cut point.
//
// A curve starting with a non-negative derivative is cut on its second
// transition, one starting negative on its third. While exactly one transition
// remains allowed, any sample with |dy| above the deviation threshold cuts the
// curve as well. A product of zero is not a transition.
func Clip(c Curve, opts Options) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return Result{}, err
	}

	n := c.Len()
	dy := c.DY

	allowed := 2
	if dy[0] < 0 {
		allowed = 3
	}

	res := Result{Original: n, Allowed: allowed}
	if n == 1 {
		res.Reason = ReasonSingleSample
		return res.withPrefix(c, 0), nil
	}

	cut, reason := n-2, ReasonEndOfData
	for i := 0; i+1 < n; i++ {
		if dy[i]*dy[i+1] < 0 {
			res.Transitions++
			if res.Transitions == allowed {
				cut, reason = i, ReasonTransition
				break
			}
			continue
		}
		if allowed-res.Transitions == 1 && math.Abs(dy[i]) > opts.DeviationThreshold {
			cut, reason = i, ReasonDeviation
			break
		}
	}

	res.Reason = reason
	return res.withPrefix(c, cut), nil
}

func (r Result) withPrefix(c Curve, cut int) Result {
	k := cut + 1
	r.CutPoint = cut
	r.Curve = Curve{
		X:  c.X[:k:k],
		Y:  c.Y[:k:k],
		DY: c.DY[:k:k],
	}
	return r
}

// MaskTail returns a copy of values with every position from keep onward
// replaced by NaN, the missing marker used when writing clipped tables.
func MaskTail(values []float64, keep int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	for i := max(keep, 0); i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}
