package percentile

import "testing"

func TestPrctileEmpty(t *testing.T) {
	got, err := Prctile(nil, 0, 0, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for empty sample set, got %d", got)
	}
}

func TestPrctileLaw(t *testing.T) {
	samples := []int16{1, 2, 2, 3, 4, 5, 5, 5, 6, 10}
	min, max := int16(1), int16(10)

	for _, pct := range []float32{10, 25, 50, 75, 82.5, 90, 99} {
		got, err := Prctile(samples, min, max, pct)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		n := float64(len(samples))
		lt, le := 0, 0
		for _, s := range samples {
			if s < got {
				lt++
			}
			if s <= got {
				le++
			}
		}

		p := float64(pct) / 100.0
		if float64(lt)/n >= p {
			t.Errorf("pct=%v: #{x<P}/n = %v not < %v", pct, float64(lt)/n, p)
		}
		if float64(le)/n < p {
			t.Errorf("pct=%v: #{x<=P}/n = %v not >= %v", pct, float64(le)/n, p)
		}
	}
}

func TestPrctileClamps(t *testing.T) {
	// a sample outside [min, max] should clamp into the nearest edge bin.
	samples := []int16{-5, 0, 1, 2, 200}
	got, err := Prctile(samples, 0, 10, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10 {
		t.Fatalf("expected clamped max of 10 at pct=100, got %d", got)
	}
}

func TestPrctile2Basic(t *testing.T) {
	samples := make([]float32, 0, 100)
	for i := 0; i < 100; i++ {
		samples = append(samples, float32(i))
	}

	got, err := Prctile2(samples, 0, 100, 82.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// bin width is 1; the 82.5th percentile should land near bin 82.
	if got < 80 || got > 84 {
		t.Fatalf("expected value near 82, got %v", got)
	}
}

func TestPrctile2SingleValue(t *testing.T) {
	samples := []float32{7, 7, 7}
	got, err := Prctile2(samples, 7, 7, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestPrctileInvalidRange(t *testing.T) {
	_, err := Prctile([]int16{1, 2, 3}, 10, 0, 50)
	if err == nil {
		t.Fatal("expected error for max < min")
	}
}
