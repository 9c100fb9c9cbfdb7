package fillminima

import "testing"

func TestFillFlatImageUnchanged(t *testing.T) {
	h, w := 4, 4
	src := make([]int16, h*w)
	for i := range src {
		src[i] = 500
	}

	got, err := Fill("flat", src, h, w, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range got {
		if v != 500 {
			t.Fatalf("index %d: expected 500, got %d", i, v)
		}
	}
}

func TestFillRaisesInteriorPit(t *testing.T) {
	h, w := 3, 3
	src := []int16{
		500, 500, 500,
		500, 100, 500,
		500, 500, 500,
	}

	got, err := Fill("pit", src, h, w, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	centre := got[1*w+1]
	if centre != 500 {
		t.Fatalf("expected interior pit raised to 500, got %d", centre)
	}
	// border values should be unaffected since they already meet boundary.
	if got[0] != 500 {
		t.Fatalf("expected border unchanged at 500, got %d", got[0])
	}
}

func TestFillRespectsSaddle(t *testing.T) {
	// A pit walled in by a tall ring, reachable from the (low) border only
	// through a single lower gap, should rise only to the gap's height --
	// the lowest of the maxima over every path to the border -- not all
	// the way to the tall ring, nor stay at its own original depth.
	h, w := 5, 5
	src := []int16{
		50, 50, 50, 50, 50,
		50, 999, 300, 999, 50,
		50, 999, 100, 999, 50,
		50, 999, 999, 999, 50,
		50, 50, 50, 50, 50,
	}

	got, err := Fill("saddle", src, h, w, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pit := got[2*w+2]
	if pit != 300 {
		t.Fatalf("expected pit raised to saddle height 300, got %d", pit)
	}
}

func TestFillShapeMismatch(t *testing.T) {
	_, err := Fill("bad", []int16{1, 2, 3}, 2, 2, 0)
	if err == nil {
		t.Fatal("expected shape error")
	}
}

func TestFillBorderHeldAtBoundary(t *testing.T) {
	h, w := 3, 3
	src := []int16{
		50, 50, 50,
		50, 50, 50,
		50, 50, 50,
	}

	got, err := Fill("boundary", src, h, w, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range got {
		if v != 200 {
			t.Fatalf("index %d: expected border-held value 200, got %d", i, v)
		}
	}
}
