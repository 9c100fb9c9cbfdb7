// Package percentile implements the bounded-histogram percentile estimator
// the classifier uses to derive scene-wide temperature and probability
// thresholds from per-pixel samples.
package percentile

import (
	"errors"
	"math"
)

// ErrEmptyRange is returned when max < min, which would make every bin
// ill-defined.
var ErrEmptyRange = errors.New("percentile: max is less than min")

// Prctile builds a histogram of samples over the closed integer range
// [min, max] (bin width 1), scans bins in ascending order accumulating
// counts, and returns the smallest bin value at which the cumulative count
// reaches ceil(pct/100 * n). An empty sample set returns 0, matching the
// caller's convention of substituting 0 for empty-set extrema before the
// call is made.
func Prctile(samples []int16, min, max int16, pct float32) (int16, error) {
	n := len(samples)
	if n == 0 {
		return 0, nil
	}
	if max < min {
		return 0, ErrEmptyRange
	}

	nbins := int(max-min) + 1
	hist := make([]int, nbins)
	for _, s := range samples {
		bin := int(s - min)
		if bin < 0 {
			bin = 0
		} else if bin >= nbins {
			bin = nbins - 1
		}
		hist[bin]++
	}

	threshold := int(math.Ceil(float64(pct) / 100.0 * float64(n)))

	cum := 0
	for bin := 0; bin < nbins; bin++ {
		cum += hist[bin]
		if cum >= threshold {
			return min + int16(bin), nil
		}
	}

	return max, nil
}

// Prctile2 quantizes samples into 100 equal-width bins over [min, max] and
// otherwise follows the same semantics as Prctile, returning the lower edge
// of the selected bin. Used for the float-valued cloud-probability arrays.
func Prctile2(samples []float32, min, max float32, pct float32) (float32, error) {
	const nbins = 100

	n := len(samples)
	if n == 0 {
		return 0, nil
	}
	if max < min {
		return 0, ErrEmptyRange
	}

	width := (max - min) / float32(nbins)
	hist := make([]int, nbins)

	for _, s := range samples {
		var bin int
		if width <= 0 {
			bin = 0
		} else {
			bin = int((s - min) / width)
			if bin < 0 {
				bin = 0
			} else if bin >= nbins {
				bin = nbins - 1
			}
		}
		hist[bin]++
	}

	threshold := int(math.Ceil(float64(pct) / 100.0 * float64(n)))

	cum := 0
	for bin := 0; bin < nbins; bin++ {
		cum += hist[bin]
		if cum >= threshold {
			return min + float32(bin)*width, nil
		}
	}

	return min + float32(nbins-1)*width, nil
}
