package potentialcloud

import (
	"errors"
	"log"

	"github.com/sixy6e/go-fmask"
)

// pass4FinalCloudDecision combines the Pass 1 provisional cloud bit with
// the Pass 3 probabilities and the extreme-cold override into a confidence
// level and a final cloud bit, written in place.
func pass4FinalCloudDecision(in *fmask.Input, pixelMask []fmask.PixelFlag, confMask []fmask.Confidence, finalProb, wfinalProb []float32, tTempl int16, clrMask, wclrMask float32, verbose bool) error {
	if verbose {
		log.Println("Pass 4: final cloud decision")
	}

	md := in.Metadata
	h, w := md.Size.L, md.Size.S

	// the override compares against the already-buffered t_templ plus
	// TBuffer, so the buffer cancels out: the threshold sits 35C below the
	// raw low background percentile.
	coldOverride := float32(tTempl) + fmask.TBuffer - 3500

	for row := 0; row < h; row++ {
		thermRow, err := in.GetInputThermLine(row)
		if err != nil {
			return errors.Join(fmask.ErrIO, err)
		}
		remapSaturation(thermRow, md.ThermSatuRef, md.ThermSatuMax)

		for col := 0; col < w; col++ {
			idx := row*w + col
			if pixelMask[idx]&fmask.FillFlag != 0 {
				continue
			}

			cloud := pixelMask[idx]&fmask.CloudFlag != 0
			water := pixelMask[idx]&fmask.WaterFlag != 0
			extremeCold := lt(float32(thermRow[col]), coldOverride)

			landHigh := cloud && !water && gt(finalProb[idx], clrMask)
			waterHigh := cloud && water && gt(wfinalProb[idx], wclrMask)

			if landHigh || waterHigh || extremeCold {
				confMask[idx] = fmask.ConfHigh
				pixelMask[idx] |= fmask.CloudFlag
				continue
			}

			landMedium := cloud && !water && gt(finalProb[idx], clrMask-10)
			waterMedium := cloud && water && gt(wfinalProb[idx], wclrMask-10)

			if landMedium || waterMedium {
				confMask[idx] = fmask.ConfMedium
				pixelMask[idx] &^= fmask.CloudFlag
				continue
			}

			confMask[idx] = fmask.ConfLow
			pixelMask[idx] &^= fmask.CloudFlag
		}
	}

	return nil
}
