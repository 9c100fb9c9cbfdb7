package potentialcloud

import (
	"testing"

	"github.com/sixy6e/go-fmask"
)

func TestPass6ShadowDecision(t *testing.T) {
	pixelMask := []fmask.PixelFlag{0}
	confMask := []fmask.Confidence{0}
	nirData := []int16{800}
	filledNir := []int16{1200}
	swir1Data := []int16{600}
	filledSwir1 := []int16{900}

	pass6ShadowAndWater(pixelMask, confMask, nirData, swir1Data, filledNir, filledSwir1, false)

	if pixelMask[0]&fmask.ShadowFlag == 0 {
		t.Fatalf("expected SHADOW set, residual min(400,300)=300 > 200, got %v", pixelMask[0])
	}
}

func TestPass6NoShadowBelowResidual(t *testing.T) {
	pixelMask := []fmask.PixelFlag{0}
	confMask := []fmask.Confidence{0}
	nirData := []int16{1000}
	filledNir := []int16{1100}
	swir1Data := []int16{1000}
	filledSwir1 := []int16{1050}

	pass6ShadowAndWater(pixelMask, confMask, nirData, swir1Data, filledNir, filledSwir1, false)

	if pixelMask[0]&fmask.ShadowFlag != 0 {
		t.Fatalf("expected SHADOW clear, residual min(100,50)=50 <= 200, got %v", pixelMask[0])
	}
}

func TestPass6ClearsWaterWhenCloudSet(t *testing.T) {
	pixelMask := []fmask.PixelFlag{fmask.WaterFlag | fmask.CloudFlag}
	confMask := []fmask.Confidence{fmask.ConfHigh}
	nirData := []int16{1000}
	filledNir := []int16{1000}
	swir1Data := []int16{1000}
	filledSwir1 := []int16{1000}

	pass6ShadowAndWater(pixelMask, confMask, nirData, swir1Data, filledNir, filledSwir1, false)

	if pixelMask[0]&fmask.WaterFlag != 0 {
		t.Fatalf("expected WATER cleared once CLOUD is set, got %v", pixelMask[0])
	}
	if pixelMask[0]&fmask.CloudFlag == 0 {
		t.Fatalf("expected CLOUD to remain set, got %v", pixelMask[0])
	}
}

func TestPass6FillPixelSkipped(t *testing.T) {
	pixelMask := []fmask.PixelFlag{fmask.FillFlag}
	confMask := []fmask.Confidence{fmask.ConfLow}
	nirData := []int16{0}
	filledNir := []int16{9999}
	swir1Data := []int16{0}
	filledSwir1 := []int16{9999}

	pass6ShadowAndWater(pixelMask, confMask, nirData, swir1Data, filledNir, filledSwir1, false)

	if confMask[0] != fmask.ConfFill {
		t.Fatalf("expected conf_mask reset to FILL, got %v", confMask[0])
	}
	if pixelMask[0] != fmask.FillFlag {
		t.Fatalf("expected pixel_mask untouched beyond FILL, got %v", pixelMask[0])
	}
}
