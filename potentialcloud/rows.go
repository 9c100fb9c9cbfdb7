package potentialcloud

import (
	"errors"
	"sync"

	"github.com/alitto/pond"

	"github.com/sixy6e/go-fmask"
)

// rowReader serialises access to an Input's row accessor: GetInputLine and
// GetInputThermLine hand back buffers owned by the Input that get
// overwritten on the next read of the same band, so concurrent row
// requests against the same Input are unsafe. rowReader takes a lock for
// the read-and-copy step only; the caller's own per-row compute runs
// outside the lock, on its own copy.
type rowReader struct {
	in *fmask.Input
	md fmask.Metadata
	mu sync.Mutex
}

func newRowReader(in *fmask.Input) *rowReader {
	return &rowReader{in: in, md: in.Metadata}
}

func (r *rowReader) read(row int) (bandRows [fmask.NumReflectiveBands][]int16, thermRow []int16, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for b := fmask.Band(0); b < fmask.NumReflectiveBands; b++ {
		line, e := r.in.GetInputLine(b, row)
		if e != nil {
			return bandRows, nil, e
		}
		remapSaturation(line, r.md.SatuRef[b], r.md.SatuMax[b])
		cp := make([]int16, len(line))
		copy(cp, line)
		bandRows[b] = cp
	}

	therm, e := r.in.GetInputThermLine(row)
	if e != nil {
		return bandRows, nil, e
	}
	remapSaturation(therm, r.md.ThermSatuRef, r.md.ThermSatuMax)
	thermRow = make([]int16, len(therm))
	copy(thermRow, therm)

	return bandRows, thermRow, nil
}

// forEachRow runs process once per row, 0..h-1. process is only ever given
// a single row's worth of data, and every row writes to disjoint slice
// indices (row*w+col), so concurrent rows never touch the same output
// element.
//
// workers <= 1 runs every row sequentially on the calling goroutine,
// producing the exact same execution order the classifier has always
// used. workers > 1 fans rows out across a pond pool sized to workers;
// each row's read-and-remap step is serialised through rowReader's lock
// (the Input's internal buffers are shared and reused across calls) but
// the per-pixel scoring itself, the expensive part, runs concurrently.
// Both paths must, and do, produce identical output: rowReader always
// hands process its own private copy of the row, so which path ran is not
// observable in the result.
func forEachRow(in *fmask.Input, h, workers int, process func(row int, bandRows [fmask.NumReflectiveBands][]int16, thermRow []int16) error) error {
	rr := newRowReader(in)

	if workers <= 1 {
		for row := 0; row < h; row++ {
			bandRows, thermRow, err := rr.read(row)
			if err != nil {
				return errors.Join(fmask.ErrIO, err)
			}
			if err := process(row, bandRows, thermRow); err != nil {
				return err
			}
		}
		return nil
	}

	pool := pond.New(workers, 0, pond.MinWorkers(workers))

	var (
		errMu    sync.Mutex
		firstErr error
	)
	setErr := func(e error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = e
		}
		errMu.Unlock()
	}

	for row := 0; row < h; row++ {
		r := row
		pool.Submit(func() {
			bandRows, thermRow, err := rr.read(r)
			if err != nil {
				setErr(errors.Join(fmask.ErrIO, err))
				return
			}
			if err := process(r, bandRows, thermRow); err != nil {
				setErr(err)
			}
		})
	}
	pool.StopAndWait()

	return firstErr
}
