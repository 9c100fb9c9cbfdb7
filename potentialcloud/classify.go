// Package potentialcloud implements the six-pass physical/statistical
// classifier at the heart of Fmask: per-pixel spectral and thermal tests,
// scene-wide percentile thresholds derived from a first pass, cloud
// probability scoring over land and water, and shadow detection by
// flood-filling the NIR and SWIR1 bands.
package potentialcloud

import (
	"log"
	"runtime"
	"sync/atomic"

	"github.com/alitto/pond"

	"github.com/sixy6e/go-fmask"
	"github.com/sixy6e/go-fmask/fillminima"
	"github.com/sixy6e/go-fmask/percentile"
)

// Result carries the classifier's output masks and the scene statistics a
// caller may want to log or persist alongside them.
type Result struct {
	PixelMask []fmask.PixelFlag
	ConfMask  []fmask.Confidence

	ClearPtm float32
	LandPtm  float32
	WaterPtm float32
	TTempl   float32
	TTemph   float32
	TWtemp   float32
	ClrMask  float32
	WclrMask float32
}

// Classify runs the six-pass classifier over the scene exposed by in,
// scoring pixels against cloudProbThreshold (the one tunable parameter in
// the system; callers typically pass something near 22.5). verbose enables
// per-1000-row progress and per-pass summary lines on the standard logger.
// workers controls how many rows of Pass 1 and Pass 3 run concurrently;
// workers <= 1 runs both passes on the calling goroutine, and is the right
// choice for small scenes (nothing in §8 needs more than one worker).
func Classify(in *fmask.Input, cloudProbThreshold float32, verbose bool, workers int) (*Result, error) {
	md := in.Metadata
	h, w := md.Size.L, md.Size.S
	n := h * w

	res := &Result{
		PixelMask: make([]fmask.PixelFlag, n),
		ConfMask:  make([]fmask.Confidence, n),
	}

	clearMask := make([]fmask.ClearBit, n)
	finalProb := make([]float32, n)
	wfinalProb := make([]float32, n)

	var imageDataCounter, clearCounter, landCounter, waterCounter int64

	if verbose {
		log.Println("Pass 1: physical tests & clear census")
	}

	err := forEachRow(in, h, workers, func(row int, bandRows [fmask.NumReflectiveBands][]int16, thermRow []int16) error {
		for col := 0; col < w; col++ {
			idx := row*w + col
			blue, green, red := bandRows[fmask.Blue][col], bandRows[fmask.Green][col], bandRows[fmask.Red][col]
			nir, swir1, swir2 := bandRows[fmask.Nir][col], bandRows[fmask.Swir1][col], bandRows[fmask.Swir2][col]
			therm := thermRow[col]

			if isFillPixel(therm, blue, green, red, nir, swir1, swir2) {
				res.PixelMask[idx] = fmask.FillFlag
				res.ConfMask[idx] = fmask.ConfFill
				clearMask[idx] = fmask.ClearFillBit
				continue
			}

			atomic.AddInt64(&imageDataCounter, 1)

			ndvi, ndsi := ndviNdsi(nir, red, green, swir1)

			cloud := lt(ndsi, 0.8) && lt(ndvi, 0.8) && swir2 > 300 && therm < 2700
			snow := gt(ndsi, 0.15) && therm < 1000 && nir > 1100 && green > 1000
			water := (lt(ndvi, 0.01) && nir < 1100) || (gt(ndvi, 0) && lt(ndvi, 0.1) && nir < 500)

			if cloud {
				wh := whiteness(blue, green, red)
				saturated := anyBandSaturated(blue, green, red, [3]int16{md.SatuMax[fmask.Blue], md.SatuMax[fmask.Green], md.SatuMax[fmask.Red]})
				if saturated {
					wh = 0
				}
				cloud = cloud && lt(wh, 0.7)

				hot := float32(blue) - 0.5*float32(red) - 800
				cloud = cloud && (gt(hot, 0) || saturated)

				cloud = cloud && swir1 != 0 && gt(float32(nir)/float32(swir1), 0.75)
			}

			var pf fmask.PixelFlag
			if cloud {
				pf |= fmask.CloudFlag
			}
			if snow {
				pf |= fmask.SnowFlag
			}
			if water {
				pf |= fmask.WaterFlag
			}
			res.PixelMask[idx] = pf

			if cloud {
				clearMask[idx] = 0
			} else {
				clearMask[idx] = fmask.ClearBitSet
				atomic.AddInt64(&clearCounter, 1)
				if water {
					clearMask[idx] |= fmask.ClearWaterBit
					atomic.AddInt64(&waterCounter, 1)
				} else {
					clearMask[idx] |= fmask.ClearLandBit
					atomic.AddInt64(&landCounter, 1)
				}
			}
		}

		if verbose && row > 0 && row%1000 == 0 {
			log.Printf("Pass 1: processed %d/%d rows", row, h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if imageDataCounter == 0 {
		if verbose {
			log.Println("scene has no non-fill pixels; all-fill short circuit")
		}
		res.ClearPtm = 0
		res.TTempl, res.TTemph = -1, -1
		return res, nil
	}

	res.ClearPtm = 100 * float32(clearCounter) / float32(imageDataCounter)
	res.LandPtm = 100 * float32(landCounter) / float32(imageDataCounter)
	res.WaterPtm = 100 * float32(waterCounter) / float32(imageDataCounter)

	if verbose {
		log.Printf("image_data=%d clear=%d clear_land=%d clear_water=%d", imageDataCounter, clearCounter, landCounter, waterCounter)
		log.Printf("clear_ptm=%.3f land_ptm=%.3f water_ptm=%.3f", res.ClearPtm, res.LandPtm, res.WaterPtm)
	}

	if res.ClearPtm <= fmask.ClearCensusMinPct {
		if verbose {
			log.Println("clear_ptm below threshold; all-cloud short circuit")
		}
		res.TTempl, res.TTemph = -1, -1
		for idx := range res.PixelMask {
			if res.PixelMask[idx]&fmask.FillFlag != 0 {
				continue
			}
			if res.PixelMask[idx]&fmask.CloudFlag != 0 {
				res.PixelMask[idx] &^= fmask.ShadowFlag
			} else {
				res.PixelMask[idx] |= fmask.ShadowFlag
			}
		}
		return res, nil
	}

	landBit := fmask.ClearBitSet
	if res.LandPtm >= fmask.ClearCensusMinPct {
		landBit = fmask.ClearLandBit
	}
	waterBit := fmask.ClearBitSet
	if res.WaterPtm >= fmask.ClearCensusMinPct {
		waterBit = fmask.ClearWaterBit
	}

	tTempl, tTemph, tWtemp, tempL, err := pass2ThermalPercentiles(in, clearMask, landBit, waterBit, verbose)
	if err != nil {
		return nil, err
	}
	res.TTempl, res.TTemph, res.TWtemp = float32(tTempl), float32(tTemph), float32(tWtemp)

	if err := pass3Probability(in, clearMask, res.PixelMask, finalProb, wfinalProb, tTemph, tTempl, tempL, tWtemp, verbose, workers); err != nil {
		return nil, err
	}

	clrMask, wclrMask, err := thresholdDerivation(clearMask, finalProb, wfinalProb, landBit, waterBit, cloudProbThreshold)
	if err != nil {
		return nil, err
	}
	res.ClrMask, res.WclrMask = clrMask, wclrMask
	if verbose {
		log.Printf("clr_mask=%.3f wclr_mask=%.3f", clrMask, wclrMask)
	}

	if err := pass4FinalCloudDecision(in, res.PixelMask, res.ConfMask, finalProb, wfinalProb, tTempl, clrMask, wclrMask, verbose); err != nil {
		return nil, err
	}

	nirData, swir1Data, filledNir, filledSwir1, err := pass5BackgroundReflectance(in, clearMask, landBit, verbose)
	if err != nil {
		return nil, err
	}

	pass6ShadowAndWater(res.PixelMask, res.ConfMask, nirData, swir1Data, filledNir, filledSwir1, verbose)

	return res, nil
}

func isFillPixel(therm, blue, green, red, nir, swir1, swir2 int16) bool {
	if therm <= fmask.FillPixel {
		return true
	}
	return blue == fmask.FillPixel || green == fmask.FillPixel || red == fmask.FillPixel ||
		nir == fmask.FillPixel || swir1 == fmask.FillPixel || swir2 == fmask.FillPixel
}

// fillPool returns a pond worker pool sized for the two independent
// flood-fill invocations Pass 5 needs; both are submitted even on a
// single-core host, pond simply serializes them in that case.
func fillPool() *pond.WorkerPool {
	n := runtime.NumCPU()
	if n > 2 {
		n = 2
	}
	return pond.New(n, 0, pond.MinWorkers(n))
}
