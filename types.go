// Package fmask classifies multispectral satellite scenes into fill, clear
// land, clear water, snow, cloud and cloud-shadow pixels following the
// function-of-mask (Fmask) family of spectral/thermal decision rules.
package fmask

// Band is the reflective band enumeration. Thermal is handled separately
// since it is read and tested against its own saturation pair.
type Band int

const (
	Blue Band = iota
	Green
	Red
	Nir
	Swir1
	Swir2
	NumReflectiveBands
)

// PixelFlag is a bit-flag set over the output pixel mask.
type PixelFlag uint8

const (
	FillFlag PixelFlag = 1 << iota
	CloudFlag
	ShadowFlag
	SnowFlag
	WaterFlag
)

// ClearBit is a bit-flag set over the internal, Pass1-to-Pass5 clear mask.
type ClearBit uint8

const (
	ClearFillBit ClearBit = 1 << iota
	ClearBitSet
	ClearLandBit
	ClearWaterBit
)

// Confidence is the per-pixel cloud confidence level written to the
// confidence mask.
type Confidence uint8

const (
	ConfFill Confidence = iota
	ConfLow
	ConfMedium
	ConfHigh
)

// FillPixel is the scalar sentinel identifying a no-data sample. Any pixel
// whose thermal reading is at or below this value, or whose reflective
// value in any of the six bands equals it exactly, is declared fill.
const FillPixel int16 = -9999

// MinSigma absorbs rounding noise introduced by int16->float32 conversion
// when comparing against zero. "a - b > MinSigma" reads as strictly
// greater; "a - b < MinSigma" reads as not strictly greater.
const MinSigma = 1e-6

// TBuffer is the +/-4C buffer (in hundredths of a degree) applied to the
// low/high background land temperature percentiles.
const TBuffer = 400

// ShadowResidual is the fixed NIR/SWIR1 fill-minus-observed threshold
// (scaled-reflectance units) above which a pixel is flagged as shadow.
const ShadowResidual = 200

// LowPercentile and HighPercentile are the two background percentiles used
// throughout the classifier (temperature, probability and reflectance
// boundaries all share the same pair).
const (
	LowPercentile  = 17.5
	HighPercentile = 82.5
)

// ClearCensusMinPct is the minimum clear / clear-land / clear-water
// percentage (of image-data pixels) required before a bit other than the
// fallback CLEAR bit is used to gather scene statistics.
const ClearCensusMinPct = 0.1
