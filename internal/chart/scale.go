package chart

import "math"

// Linear maps a continuous domain onto a pixel range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale from [d0, d1] onto [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the input interval.
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Map converts a domain value to a range value. A zero-width domain maps
// every value to the middle of the range.
func (s Linear) Map(v float64) float64 {
	span := s.d1 - s.d0
	t := 0.5
	if span != 0 {
		t = (v - s.d0) / span
	}
	return s.r0 + t*(s.r1-s.r0)
}

// Ticks returns roughly count evenly spaced, human-friendly values (multiples
// of 1, 2 or 5 times a power of ten) inside the domain.
func (s Linear) Ticks(count int) []float64 {
	start, stop := s.d0, s.d1
	if stop < start {
		start, stop = stop, start
	}
	return ticks(start, stop, count)
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

func ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) || math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}

	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}

	var out []float64
	if power >= 0 {
		inc := factor * math.Pow(10, power)
		for i := math.Ceil(start / inc); i <= math.Floor(stop/inc); i++ {
			out = append(out, i*inc)
		}
		return out
	}

	// Negative powers divide by the inverse increment so the ticks come out
	// as exact decimals.
	inv := math.Pow(10, -power) / factor
	for i := math.Ceil(start * inv); i <= math.Floor(stop*inv); i++ {
		out = append(out, i/inv)
	}
	return out
}
