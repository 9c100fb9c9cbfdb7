package potentialcloud

import (
	"math"

	"github.com/sixy6e/go-fmask"
)

// gt reports whether a is strictly greater than b, tolerating MinSigma of
// rounding noise: "a - b > MinSigma".
func gt(a, b float32) bool {
	return a-b > fmask.MinSigma
}

// lt reports whether a is not strictly greater than b, i.e. effectively
// "a < b" once MinSigma of rounding noise is absorbed: "a - b < MinSigma".
func lt(a, b float32) bool {
	return a-b < fmask.MinSigma
}

// ndviNdsi computes the Normalized Difference Vegetation and Snow Indices
// for one pixel. Both fall back to 0.01 when their denominator is zero.
func ndviNdsi(nir, red, green, swir1 int16) (ndvi, ndsi float32) {
	if den := float32(nir) + float32(red); den != 0 {
		ndvi = (float32(nir) - float32(red)) / den
	} else {
		ndvi = 0.01
	}

	if den := float32(green) + float32(swir1); den != 0 {
		ndsi = (float32(green) - float32(swir1)) / den
	} else {
		ndsi = 0.01
	}

	return ndvi, ndsi
}

// whiteness computes the mean absolute deviation of the three visible
// bands from their mean, normalized by the mean. A zero mean (extremely
// dark scene) is scored with a large value to remove the pixel from cloud
// contention rather than dividing by zero.
func whiteness(blue, green, red int16) float32 {
	visiMean := (float32(blue) + float32(green) + float32(red)) / 3.0
	if visiMean == 0 {
		return 100.0
	}

	return (float32(math.Abs(float64(float32(blue)-visiMean))) +
		float32(math.Abs(float64(float32(green)-visiMean))) +
		float32(math.Abs(float64(float32(red)-visiMean)))) / visiMean
}

// whitenessProb is whiteness for Pass 3's land probability path: a zero
// mean scores 0 here, not the 100 whiteness() uses for Pass 1's cloud
// test, matching the reference algorithm's separate treatment of the two
// passes.
func whitenessProb(blue, green, red int16) float32 {
	visiMean := (float32(blue) + float32(green) + float32(red)) / 3.0
	if visiMean == 0 {
		return 0
	}

	return (float32(math.Abs(float64(float32(blue)-visiMean))) +
		float32(math.Abs(float64(float32(green)-visiMean))) +
		float32(math.Abs(float64(float32(red)-visiMean)))) / visiMean
}

// anyBandSaturated reports whether any of the three visible bands has
// reached (within 1 DN) its saturation ceiling.
func anyBandSaturated(blue, green, red int16, satuMax [3]int16) bool {
	return blue >= satuMax[0]-1 || green >= satuMax[1]-1 || red >= satuMax[2]-1
}

// maxOf3 returns the largest of three float32 values using the same
// epsilon tolerant comparison as the rest of the classifier.
func maxOf3(a, b, c float32) float32 {
	m := a
	if gt(b, m) {
		m = b
	}
	if gt(c, m) {
		m = c
	}
	return m
}

// clampNonNegative rounds a value that should never be negative (NDVI,
// NDSI once cloud probability is in play) up to zero.
func clampNonNegative(v float32) float32 {
	if lt(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float32) float32 {
	if gt(v, 1) {
		return 1
	}
	if lt(v, 0) {
		return 0
	}
	return v
}
