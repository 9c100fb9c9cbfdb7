package potentialcloud

import (
	"testing"

	"github.com/sixy6e/go-fmask"
)

func testMetadata(h, w int) fmask.Metadata {
	var satuRef, satuMax [fmask.NumReflectiveBands]int16
	for b := range satuRef {
		satuRef[b] = -32768 // never present in test fixtures
		satuMax[b] = 9000
	}
	return fmask.Metadata{
		SatuRef:      satuRef,
		SatuMax:      satuMax,
		ThermSatuRef: -32768,
		ThermSatuMax: 9000,
		Nband:        int(fmask.NumReflectiveBands),
		Size:         fmask.SceneSize{L: h, S: w},
	}
}

func fill(n int, v int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestClassifyAllFillScene(t *testing.T) {
	md := testMetadata(2, 2)
	var bands [fmask.NumReflectiveBands][]int16
	for b := range bands {
		bands[b] = fill(4, fmask.FillPixel)
	}
	therm := fill(4, fmask.FillPixel)

	in := fmask.NewMemoryInput(md, bands, therm)
	res, err := Classify(in, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, pf := range res.PixelMask {
		if pf != fmask.FillFlag {
			t.Fatalf("pixel %d: expected only FILL, got %v", i, pf)
		}
		if res.ConfMask[i] != fmask.ConfFill {
			t.Fatalf("pixel %d: expected ConfFill, got %v", i, res.ConfMask[i])
		}
	}
	if res.ClearPtm != 0 {
		t.Fatalf("expected clear_ptm=0, got %v", res.ClearPtm)
	}
	if res.TTempl != -1 || res.TTemph != -1 {
		t.Fatalf("expected t_templ=t_temph=-1, got %v %v", res.TTempl, res.TTemph)
	}
}

func TestClassifyAllCloudShortCircuit(t *testing.T) {
	md := testMetadata(1, 1)
	var bands [fmask.NumReflectiveBands][]int16
	for b := range bands {
		bands[b] = []int16{5000}
	}
	therm := []int16{1500}

	in := fmask.NewMemoryInput(md, bands, therm)
	res, err := Classify(in, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.TTempl != -1 || res.TTemph != -1 {
		t.Fatalf("expected short-circuit t_templ=t_temph=-1, got %v %v", res.TTempl, res.TTemph)
	}
	if res.PixelMask[0]&fmask.CloudFlag == 0 {
		t.Fatalf("expected CLOUD set, got %v", res.PixelMask[0])
	}
	if res.PixelMask[0]&fmask.ShadowFlag != 0 {
		t.Fatalf("expected SHADOW clear on the cloud pixel, got %v", res.PixelMask[0])
	}
}

func TestClassifyClearSnowPixel(t *testing.T) {
	// a land-heavy scene with one snow pixel and enough clear-land padding
	// to clear the 0.1% clear-census floor.
	const w = 8
	h := 8
	n := h * w

	blue := fill(n, 1500)
	green := fill(n, 1500)
	red := fill(n, 1500)
	nir := fill(n, 1800)
	swir1 := fill(n, 1600)
	swir2 := fill(n, 200) // keeps the basic cloud test false everywhere
	therm := fill(n, 1800)

	green[0] = 3000
	swir1[0] = 1000
	nir[0] = 2000
	red[0] = 1500
	therm[0] = 500

	bands := [fmask.NumReflectiveBands][]int16{
		fmask.Blue: blue, fmask.Green: green, fmask.Red: red,
		fmask.Nir: nir, fmask.Swir1: swir1, fmask.Swir2: swir2,
	}

	md := testMetadata(h, w)
	in := fmask.NewMemoryInput(md, bands, therm)
	res, err := Classify(in, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.PixelMask[0]&fmask.SnowFlag == 0 {
		t.Fatalf("expected SNOW set on pixel 0, got %v", res.PixelMask[0])
	}
	if res.PixelMask[0]&fmask.CloudFlag != 0 {
		t.Fatalf("expected CLOUD clear on pixel 0, got %v", res.PixelMask[0])
	}
	if res.PixelMask[0]&fmask.WaterFlag != 0 {
		t.Fatalf("expected WATER clear on pixel 0, got %v", res.PixelMask[0])
	}
}

func TestClassifyClearWaterPixel(t *testing.T) {
	const w = 8
	h := 8
	n := h * w

	blue := fill(n, 1500)
	green := fill(n, 1500)
	red := fill(n, 1500)
	nir := fill(n, 1800)
	swir1 := fill(n, 1600)
	swir2 := fill(n, 200)
	therm := fill(n, 1800)

	nir[0] = 400
	red[0] = 400 // NDVI = 0

	bands := [fmask.NumReflectiveBands][]int16{
		fmask.Blue: blue, fmask.Green: green, fmask.Red: red,
		fmask.Nir: nir, fmask.Swir1: swir1, fmask.Swir2: swir2,
	}

	md := testMetadata(h, w)
	in := fmask.NewMemoryInput(md, bands, therm)
	res, err := Classify(in, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.PixelMask[0]&fmask.WaterFlag == 0 {
		t.Fatalf("expected WATER set on pixel 0, got %v", res.PixelMask[0])
	}
	if res.PixelMask[0]&fmask.CloudFlag != 0 {
		t.Fatalf("expected CLOUD clear on pixel 0, got %v", res.PixelMask[0])
	}
}

// buildMixedScene constructs a scene with clear land, clear water, a snow
// pixel and a cloud pixel, large enough to clear the 0.1% clear-census
// floor for both land and water statistics.
func buildMixedScene(t *testing.T) *fmask.Input {
	t.Helper()

	const w = 10
	h := 10
	n := h * w

	blue := fill(n, 1500)
	green := fill(n, 1500)
	red := fill(n, 1500)
	nir := fill(n, 1800)
	swir1 := fill(n, 1600)
	swir2 := fill(n, 200)
	therm := fill(n, 1800)

	// a block of clear water.
	for i := 0; i < 20; i++ {
		nir[i] = 400
		red[i] = 400
	}

	// one bright cloud pixel.
	cloudIdx := 50
	blue[cloudIdx] = 9000
	green[cloudIdx] = 9000
	red[cloudIdx] = 9000
	nir[cloudIdx] = 9000
	swir1[cloudIdx] = 9000
	swir2[cloudIdx] = 9000
	therm[cloudIdx] = 1500

	// one fill pixel.
	fillIdx := 99
	blue[fillIdx] = fmask.FillPixel
	green[fillIdx] = fmask.FillPixel
	red[fillIdx] = fmask.FillPixel
	nir[fillIdx] = fmask.FillPixel
	swir1[fillIdx] = fmask.FillPixel
	swir2[fillIdx] = fmask.FillPixel
	therm[fillIdx] = fmask.FillPixel

	bands := [fmask.NumReflectiveBands][]int16{
		fmask.Blue: blue, fmask.Green: green, fmask.Red: red,
		fmask.Nir: nir, fmask.Swir1: swir1, fmask.Swir2: swir2,
	}

	md := testMetadata(h, w)
	return fmask.NewMemoryInput(md, bands, therm)
}

func TestClassifyInvariants(t *testing.T) {
	in := buildMixedScene(t)
	res, err := Classify(in, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, pf := range res.PixelMask {
		isFill := pf&fmask.FillFlag != 0
		confIsFill := res.ConfMask[i] == fmask.ConfFill

		if isFill != confIsFill {
			t.Fatalf("pixel %d: FILL/%v conf_mask=%v out of sync", i, isFill, res.ConfMask[i])
		}
		if isFill && pf != fmask.FillFlag {
			t.Fatalf("pixel %d: FILL set alongside other bits: %v", i, pf)
		}
		if pf&fmask.WaterFlag != 0 && pf&fmask.CloudFlag != 0 {
			t.Fatalf("pixel %d: WATER and CLOUD both set", i)
		}
		switch res.ConfMask[i] {
		case fmask.ConfFill, fmask.ConfLow, fmask.ConfMedium, fmask.ConfHigh:
		default:
			t.Fatalf("pixel %d: unexpected confidence %v", i, res.ConfMask[i])
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	in1 := buildMixedScene(t)
	in2 := buildMixedScene(t)

	res1, err := Classify(in1, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res2, err := Classify(in2, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range res1.PixelMask {
		if res1.PixelMask[i] != res2.PixelMask[i] {
			t.Fatalf("pixel %d: pixel_mask mismatch across runs: %v vs %v", i, res1.PixelMask[i], res2.PixelMask[i])
		}
		if res1.ConfMask[i] != res2.ConfMask[i] {
			t.Fatalf("pixel %d: conf_mask mismatch across runs: %v vs %v", i, res1.ConfMask[i], res2.ConfMask[i])
		}
	}
	if res1.ClearPtm != res2.ClearPtm || res1.TTempl != res2.TTempl || res1.TTemph != res2.TTemph {
		t.Fatalf("scene statistics differ across runs")
	}
}

func TestClassifySaturationRemappingLaw(t *testing.T) {
	const w = 8
	h := 8
	n := h * w

	blue := fill(n, 1500)
	green := fill(n, 1500)
	red := fill(n, 1500)
	nir := fill(n, 1800)
	swir1 := fill(n, 1600)
	swir2 := fill(n, 200)
	therm := fill(n, 1800)

	bandsPlain := [fmask.NumReflectiveBands][]int16{
		fmask.Blue: append([]int16{}, blue...), fmask.Green: append([]int16{}, green...),
		fmask.Red: append([]int16{}, red...), fmask.Nir: append([]int16{}, nir...),
		fmask.Swir1: append([]int16{}, swir1...), fmask.Swir2: append([]int16{}, swir2...),
	}

	// a second copy where every blue sample carries the on-disk saturation
	// sentinel instead of the finite value the classifier should see.
	blueSentinel := append([]int16{}, blue...)
	for i := range blueSentinel {
		blueSentinel[i] = 777 // satu_ref below
	}
	bandsSentinel := bandsPlain
	bandsSentinel[fmask.Blue] = blueSentinel

	md := testMetadata(h, w)
	md.SatuRef[fmask.Blue] = 777
	md.SatuMax[fmask.Blue] = 1500

	in1 := fmask.NewMemoryInput(md, bandsPlain, append([]int16{}, therm...))
	in2 := fmask.NewMemoryInput(md, bandsSentinel, append([]int16{}, therm...))

	res1, err := Classify(in1, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res2, err := Classify(in2, 22.5, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range res1.PixelMask {
		if res1.PixelMask[i] != res2.PixelMask[i] {
			t.Fatalf("pixel %d: saturation remapping changed pixel_mask: %v vs %v", i, res1.PixelMask[i], res2.PixelMask[i])
		}
	}
}
