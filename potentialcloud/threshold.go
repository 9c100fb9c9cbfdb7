package potentialcloud

import (
	"errors"

	"github.com/sixy6e/go-fmask"
	"github.com/sixy6e/go-fmask/percentile"
)

// thresholdDerivation turns the per-pixel probabilities from Pass 3 into
// the two scene-wide cloud-probability thresholds: the 82.5th percentile of
// the land population plus the caller's tunable offset, and likewise for
// the water population.
func thresholdDerivation(clearMask []fmask.ClearBit, finalProb, wfinalProb []float32, landBit, waterBit fmask.ClearBit, cloudProbThreshold float32) (clrMask, wclrMask float32, err error) {
	var land, water []float32
	// land_min/water_min are seeded at 0 rather than the first sample, so
	// the lower edge of the percentile range never rises above 0; a negative
	// final_prob sample still lowers it. Preserved from the reference
	// algorithm, same quirk as pass5.go's nir_min/swir1_min seeding.
	var landMin, landMax, waterMin, waterMax float32

	for idx, cm := range clearMask {
		if cm&fmask.ClearFillBit != 0 {
			continue
		}
		if cm&landBit != 0 {
			v := finalProb[idx]
			land = append(land, v)
			if v > landMax {
				landMax = v
			}
			if v < landMin {
				landMin = v
			}
		}
		if cm&waterBit != 0 {
			v := wfinalProb[idx]
			water = append(water, v)
			if v > waterMax {
				waterMax = v
			}
			if v < waterMin {
				waterMin = v
			}
		}
	}

	landPct, perr := percentile.Prctile2(land, landMin, landMax, fmask.HighPercentile)
	if perr != nil {
		return 0, 0, errors.Join(fmask.ErrPercentile, perr)
	}
	waterPct, perr := percentile.Prctile2(water, waterMin, waterMax, fmask.HighPercentile)
	if perr != nil {
		return 0, 0, errors.Join(fmask.ErrPercentile, perr)
	}

	clrMask = landPct + cloudProbThreshold
	wclrMask = waterPct + cloudProbThreshold

	return clrMask, wclrMask, nil
}
