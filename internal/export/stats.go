package export

import (
	"math"
	"sort"
)

// distribution holds descriptive statistics of a sample of values.
type distribution struct {
	min, max, mean, stddev float64
	p10, median, p90       float64
}

// describe computes statistics over the finite values of vs.
// All fields are NaN when no value is finite.
func describe(vs []float64) distribution {
	finite := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		nan := math.NaN()
		return distribution{nan, nan, nan, nan, nan, nan, nan}
	}

	sort.Float64s(finite)
	mean := computeMean(finite)
	return distribution{
		min:    finite[0],
		max:    finite[len(finite)-1],
		mean:   mean,
		stddev: computeStddev(finite, mean),
		p10:    computePercentile(finite, 0.10),
		median: computePercentile(finite, 0.50),
		p90:    computePercentile(finite, 0.90),
	}
}

// computeMean calculates the arithmetic mean.
func computeMean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(vs []float64, mean float64) float64 {
	n := len(vs)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range vs {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC; p is a fraction (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
