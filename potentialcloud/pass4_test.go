package potentialcloud

import (
	"testing"

	"github.com/sixy6e/go-fmask"
)

func thermInput(t *testing.T, therm []int16) *fmask.Input {
	t.Helper()
	md := testMetadata(1, len(therm))
	var bands [fmask.NumReflectiveBands][]int16
	for b := range bands {
		bands[b] = fill(len(therm), 0)
	}
	return fmask.NewMemoryInput(md, bands, therm)
}

func TestPass4HighConfidenceOverLand(t *testing.T) {
	in := thermInput(t, []int16{1800})
	pixelMask := []fmask.PixelFlag{fmask.CloudFlag}
	confMask := []fmask.Confidence{0}
	finalProb := []float32{60}
	wfinalProb := []float32{0}

	err := pass4FinalCloudDecision(in, pixelMask, confMask, finalProb, wfinalProb, -1000, 50, 50, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if confMask[0] != fmask.ConfHigh {
		t.Fatalf("expected ConfHigh (60 > clr_mask 50), got %v", confMask[0])
	}
	if pixelMask[0]&fmask.CloudFlag == 0 {
		t.Fatalf("expected CLOUD retained, got %v", pixelMask[0])
	}
}

func TestPass4MediumConfidenceOverLand(t *testing.T) {
	in := thermInput(t, []int16{1800})
	pixelMask := []fmask.PixelFlag{fmask.CloudFlag}
	confMask := []fmask.Confidence{0}
	finalProb := []float32{45}
	wfinalProb := []float32{0}

	err := pass4FinalCloudDecision(in, pixelMask, confMask, finalProb, wfinalProb, -1000, 50, 50, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if confMask[0] != fmask.ConfMedium {
		t.Fatalf("expected ConfMedium (45 between clr_mask-10=40 and clr_mask=50), got %v", confMask[0])
	}
	if pixelMask[0]&fmask.CloudFlag != 0 {
		t.Fatalf("expected CLOUD cleared at medium confidence, got %v", pixelMask[0])
	}
}

func TestPass4LowConfidence(t *testing.T) {
	in := thermInput(t, []int16{1800})
	pixelMask := []fmask.PixelFlag{fmask.CloudFlag}
	confMask := []fmask.Confidence{0}
	finalProb := []float32{10}
	wfinalProb := []float32{0}

	err := pass4FinalCloudDecision(in, pixelMask, confMask, finalProb, wfinalProb, -1000, 50, 50, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if confMask[0] != fmask.ConfLow {
		t.Fatalf("expected ConfLow, got %v", confMask[0])
	}
	if pixelMask[0]&fmask.CloudFlag != 0 {
		t.Fatalf("expected CLOUD cleared at low confidence, got %v", pixelMask[0])
	}
}

func TestPass4ExtremeColdOverride(t *testing.T) {
	// t_templ = -1000 -> cold override threshold = -1000 + 400 - 3500 = -4100.
	in := thermInput(t, []int16{-4200})
	pixelMask := []fmask.PixelFlag{0} // no cloud bit, no water bit
	confMask := []fmask.Confidence{0}
	finalProb := []float32{0}
	wfinalProb := []float32{0}

	err := pass4FinalCloudDecision(in, pixelMask, confMask, finalProb, wfinalProb, -1000, 50, 50, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if confMask[0] != fmask.ConfHigh {
		t.Fatalf("expected extreme-cold override to force ConfHigh, got %v", confMask[0])
	}
	if pixelMask[0]&fmask.CloudFlag == 0 {
		t.Fatalf("expected extreme-cold override to set CLOUD, got %v", pixelMask[0])
	}
}

func TestPass4FillPixelSkipped(t *testing.T) {
	in := thermInput(t, []int16{1800})
	pixelMask := []fmask.PixelFlag{fmask.FillFlag}
	confMask := []fmask.Confidence{fmask.ConfFill}
	finalProb := []float32{0}
	wfinalProb := []float32{0}

	err := pass4FinalCloudDecision(in, pixelMask, confMask, finalProb, wfinalProb, -1000, 50, 50, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if confMask[0] != fmask.ConfFill {
		t.Fatalf("expected FILL pixel left alone, got %v", confMask[0])
	}
}
