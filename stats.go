package fmask

import (
	"github.com/samber/lo"
)

// Statistics summarises a completed run's output masks as pixel counts and
// percentages, the kind of scene-level quality-assurance figures a caller
// typically wants alongside the raw masks for logging or reporting.
type Statistics struct {
	TotalPixels int

	FillPixels   int
	CloudPixels  int
	ShadowPixels int
	SnowPixels   int
	WaterPixels  int
	ClearPixels  int

	ConfidenceCounts map[Confidence]int

	FillPct   float64
	CloudPct  float64
	ShadowPct float64
	SnowPct   float64
	WaterPct  float64
	ClearPct  float64
}

// Summarize tallies a run's pixel mask and confidence mask into Statistics.
// ClearPixels counts pixels with neither FILL nor CLOUD set, the same
// "clear" notion Pass 1's census uses before shadow/snow/water refinement.
func Summarize(pixelMask []PixelFlag, confMask []Confidence) Statistics {
	total := len(pixelMask)

	isFill := func(pf PixelFlag) bool { return pf&FillFlag != 0 }
	hasBit := func(bit PixelFlag) func(PixelFlag) bool {
		return func(pf PixelFlag) bool { return pf&bit != 0 }
	}

	stats := Statistics{
		TotalPixels:      total,
		FillPixels:       lo.CountBy(pixelMask, isFill),
		CloudPixels:      lo.CountBy(pixelMask, hasBit(CloudFlag)),
		ShadowPixels:     lo.CountBy(pixelMask, hasBit(ShadowFlag)),
		SnowPixels:       lo.CountBy(pixelMask, hasBit(SnowFlag)),
		WaterPixels:      lo.CountBy(pixelMask, hasBit(WaterFlag)),
		ConfidenceCounts: lo.CountValues(confMask),
	}
	stats.ClearPixels = lo.CountBy(pixelMask, func(pf PixelFlag) bool {
		return pf&(FillFlag|CloudFlag) == 0
	})

	if total > 0 {
		n := float64(total)
		stats.FillPct = 100 * float64(stats.FillPixels) / n
		stats.CloudPct = 100 * float64(stats.CloudPixels) / n
		stats.ShadowPct = 100 * float64(stats.ShadowPixels) / n
		stats.SnowPct = 100 * float64(stats.SnowPixels) / n
		stats.WaterPct = 100 * float64(stats.WaterPixels) / n
		stats.ClearPct = 100 * float64(stats.ClearPixels) / n
	}

	return stats
}
