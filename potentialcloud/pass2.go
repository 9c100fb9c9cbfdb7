package potentialcloud

import (
	"errors"
	"log"

	"github.com/sixy6e/go-fmask"
	"github.com/sixy6e/go-fmask/percentile"
)

// pass2ThermalPercentiles scans the clear-land and clear-water thermal
// populations identified by Pass 1 and derives the low/high background land
// temperature (buffered by TBuffer) and the high background water
// temperature (unbuffered).
func pass2ThermalPercentiles(in *fmask.Input, clearMask []fmask.ClearBit, landBit, waterBit fmask.ClearBit, verbose bool) (tTempl, tTemph, tWtemp int16, tempL float32, err error) {
	if verbose {
		log.Println("Pass 2: thermal percentiles")
	}

	md := in.Metadata
	h, w := md.Size.L, md.Size.S

	var land, water []int16
	var landMin, landMax, waterMin, waterMax int16
	landSeen, waterSeen := false, false

	for row := 0; row < h; row++ {
		thermRow, rerr := in.GetInputThermLine(row)
		if rerr != nil {
			return 0, 0, 0, 0, errors.Join(fmask.ErrIO, rerr)
		}
		remapSaturation(thermRow, md.ThermSatuRef, md.ThermSatuMax)

		for col := 0; col < w; col++ {
			idx := row*w + col
			cm := clearMask[idx]
			if cm&fmask.ClearFillBit != 0 {
				continue
			}
			therm := thermRow[col]

			if cm&landBit != 0 {
				land = append(land, therm)
				if !landSeen || therm < landMin {
					landMin = therm
				}
				if !landSeen || therm > landMax {
					landMax = therm
				}
				landSeen = true
			}
			if cm&waterBit != 0 {
				water = append(water, therm)
				if !waterSeen || therm < waterMin {
					waterMin = therm
				}
				if !waterSeen || therm > waterMax {
					waterMax = therm
				}
				waterSeen = true
			}
		}
	}

	if !landSeen {
		landMin, landMax = 0, 0
	}
	if !waterSeen {
		waterMin, waterMax = 0, 0
	}

	low, perr := percentile.Prctile(land, landMin, landMax, fmask.LowPercentile)
	if perr != nil {
		return 0, 0, 0, 0, errors.Join(fmask.ErrPercentile, perr)
	}
	high, perr := percentile.Prctile(land, landMin, landMax, fmask.HighPercentile)
	if perr != nil {
		return 0, 0, 0, 0, errors.Join(fmask.ErrPercentile, perr)
	}
	wtemp, perr := percentile.Prctile(water, waterMin, waterMax, fmask.HighPercentile)
	if perr != nil {
		return 0, 0, 0, 0, errors.Join(fmask.ErrPercentile, perr)
	}

	tTempl = low - fmask.TBuffer
	tTemph = high + fmask.TBuffer
	tWtemp = wtemp
	tempL = float32(tTemph - tTempl)

	if verbose {
		log.Printf("t_templ=%d t_temph=%d t_wtemp=%d temp_l=%.1f", tTempl, tTemph, tWtemp, tempL)
	}

	return tTempl, tTemph, tWtemp, tempL, nil
}
