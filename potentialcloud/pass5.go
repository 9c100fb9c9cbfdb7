package potentialcloud

import (
	"errors"
	"log"

	"github.com/sixy6e/go-fmask"
	"github.com/sixy6e/go-fmask/fillminima"
	"github.com/sixy6e/go-fmask/percentile"
)

// pass5BackgroundReflectance materializes the full NIR and SWIR1 rasters,
// derives their clear-land 17.5th-percentile boundaries, and floods both
// rasters to estimate the background (would-be-cloudless) reflectance the
// shadow test needs. The two flood-fills run concurrently on a small worker
// pool, matching the one designed parallelism point in the pipeline.
func pass5BackgroundReflectance(in *fmask.Input, clearMask []fmask.ClearBit, landBit fmask.ClearBit, verbose bool) (nirData, swir1Data, filledNir, filledSwir1 []int16, err error) {
	if verbose {
		log.Println("Pass 5: background reflectance")
	}

	md := in.Metadata
	h, w := md.Size.L, md.Size.S
	n := h * w

	nirData = make([]int16, n)
	swir1Data = make([]int16, n)

	var nirSamples, swir1Samples []int16
	// nir_min/swir1_min are seeded at 0 rather than the first sample, so the
	// lower edge of the percentile range never rises above 0; a negative
	// sample still lowers it. Preserved from the reference algorithm.
	var nirMin, nirMax, swir1Min, swir1Max int16

	for row := 0; row < h; row++ {
		nirRow, rerr := in.GetInputLine(fmask.Nir, row)
		if rerr != nil {
			return nil, nil, nil, nil, errors.Join(fmask.ErrIO, rerr)
		}
		remapSaturation(nirRow, md.SatuRef[fmask.Nir], md.SatuMax[fmask.Nir])

		swir1Row, rerr := in.GetInputLine(fmask.Swir1, row)
		if rerr != nil {
			return nil, nil, nil, nil, errors.Join(fmask.ErrIO, rerr)
		}
		remapSaturation(swir1Row, md.SatuRef[fmask.Swir1], md.SatuMax[fmask.Swir1])

		for col := 0; col < w; col++ {
			idx := row*w + col
			nirData[idx] = nirRow[col]
			swir1Data[idx] = swir1Row[col]

			if clearMask[idx]&fmask.ClearFillBit != 0 {
				continue
			}
			if clearMask[idx]&landBit == 0 {
				continue
			}

			nirSamples = append(nirSamples, nirRow[col])
			if nirRow[col] > nirMax {
				nirMax = nirRow[col]
			}
			if nirRow[col] < nirMin {
				nirMin = nirRow[col]
			}

			swir1Samples = append(swir1Samples, swir1Row[col])
			if swir1Row[col] > swir1Max {
				swir1Max = swir1Row[col]
			}
			if swir1Row[col] < swir1Min {
				swir1Min = swir1Row[col]
			}
		}
	}

	nirBoundary, perr := percentile.Prctile(nirSamples, nirMin, nirMax, fmask.LowPercentile)
	if perr != nil {
		return nil, nil, nil, nil, errors.Join(fmask.ErrPercentile, perr)
	}
	swir1Boundary, perr := percentile.Prctile(swir1Samples, swir1Min, swir1Max, fmask.LowPercentile)
	if perr != nil {
		return nil, nil, nil, nil, errors.Join(fmask.ErrPercentile, perr)
	}

	if verbose {
		log.Printf("nir_boundary=%d swir1_boundary=%d", nirBoundary, swir1Boundary)
	}

	pool := fillPool()

	var nirErr, swir1Err error
	pool.Submit(func() {
		filledNir, nirErr = fillminima.Fill("NIR background", nirData, h, w, nirBoundary)
	})
	pool.Submit(func() {
		filledSwir1, swir1Err = fillminima.Fill("SWIR1 background", swir1Data, h, w, swir1Boundary)
	})
	pool.StopAndWait()

	if nirErr != nil {
		return nil, nil, nil, nil, errors.Join(fmask.ErrFill, nirErr)
	}
	if swir1Err != nil {
		return nil, nil, nil, nil, errors.Join(fmask.ErrFill, swir1Err)
	}

	return nirData, swir1Data, filledNir, filledSwir1, nil
}
