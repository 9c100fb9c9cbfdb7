package potentialcloud

import (
	"log"

	"github.com/sixy6e/go-fmask"
)

// pass3Probability scores every non-fill pixel's cloud probability,
// separately for the water and land paths, writing finalProb (land) and
// wfinalProb (water) in place. workers controls row concurrency, the same
// way it does for Pass 1 (see forEachRow).
func pass3Probability(in *fmask.Input, clearMask []fmask.ClearBit, pixelMask []fmask.PixelFlag, finalProb, wfinalProb []float32, tTemph, tTempl int16, tempL float32, tWtemp int16, verbose bool, workers int) error {
	if verbose {
		log.Println("Pass 3: probability scoring")
	}

	md := in.Metadata
	h, w := md.Size.L, md.Size.S

	return forEachRow(in, h, workers, func(row int, bandRows [fmask.NumReflectiveBands][]int16, thermRow []int16) error {
		for col := 0; col < w; col++ {
			idx := row*w + col
			if clearMask[idx]&fmask.ClearFillBit != 0 {
				continue
			}

			blue, green, red := bandRows[fmask.Blue][col], bandRows[fmask.Green][col], bandRows[fmask.Red][col]
			nir, swir1 := bandRows[fmask.Nir][col], bandRows[fmask.Swir1][col]
			therm := thermRow[col]

			if pixelMask[idx]&fmask.WaterFlag != 0 {
				wtempProb := float32(tWtemp-therm) / 400
				if lt(wtempProb, 0) {
					wtempProb = 0
				}
				brightnessProb := clamp01(float32(swir1) / 1100)

				wfinalProb[idx] = 100 * wtempProb * brightnessProb
				finalProb[idx] = 0
				continue
			}

			tempProb := float32(tTemph-therm) / tempL
			if lt(tempProb, 0) {
				tempProb = 0
			}

			ndvi, ndsi := ndviNdsi(nir, red, green, swir1)
			ndvi = clampNonNegative(ndvi)
			ndsi = clampNonNegative(ndsi)

			wh := whitenessProb(blue, green, red)
			if anyBandSaturated(blue, green, red, [3]int16{md.SatuMax[fmask.Blue], md.SatuMax[fmask.Green], md.SatuMax[fmask.Red]}) {
				wh = 0
			}

			variProb := 1 - maxOf3(ndsi, ndvi, wh)

			finalProb[idx] = 100 * tempProb * variProb
			wfinalProb[idx] = 0
		}
		return nil
	})
}
