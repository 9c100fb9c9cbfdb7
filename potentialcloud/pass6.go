package potentialcloud

import (
	"log"

	"github.com/sixy6e/go-fmask"
)

// pass6ShadowAndWater compares the flood-filled background reflectance
// against the observed NIR/SWIR1 to flag cloud shadow, then drops the
// water bit wherever the final cloud decision also claimed the pixel.
func pass6ShadowAndWater(pixelMask []fmask.PixelFlag, confMask []fmask.Confidence, nirData, swir1Data, filledNir, filledSwir1 []int16, verbose bool) {
	if verbose {
		log.Println("Pass 6: shadow decision & water refinement")
	}

	for idx := range pixelMask {
		if pixelMask[idx]&fmask.FillFlag != 0 {
			confMask[idx] = fmask.ConfFill
			continue
		}

		newNir := filledNir[idx] - nirData[idx]
		newSwir1 := filledSwir1[idx] - swir1Data[idx]

		shadowProb := newNir
		if newSwir1 < shadowProb {
			shadowProb = newSwir1
		}

		if shadowProb > fmask.ShadowResidual {
			pixelMask[idx] |= fmask.ShadowFlag
		} else {
			pixelMask[idx] &^= fmask.ShadowFlag
		}

		if pixelMask[idx]&fmask.WaterFlag != 0 && pixelMask[idx]&fmask.CloudFlag != 0 {
			pixelMask[idx] &^= fmask.WaterFlag
		}
	}
}
