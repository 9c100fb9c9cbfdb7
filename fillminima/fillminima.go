// Package fillminima implements the Local-Minima Filler: a grayscale
// morphological reconstruction that raises every interior local minimum of
// a 2-D image to the lowest value that would connect it to the image
// border, used to estimate the background (would-be-cloudless) NIR and
// SWIR1 reflectance ahead of shadow detection.
package fillminima

import (
	"container/heap"
	"errors"
)

// ErrShape is returned when src does not have exactly h*w elements.
var ErrShape = errors.New("fillminima: src length does not match h*w")

// item is one entry in the priority queue driving the flood: the lowest
// currently-known surface value propagates first, matching the classic
// Vincent-Soille grayscale reconstruction by regional flooding.
type item struct {
	value int16
	index int
}

type priorityQueue []item

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].value < pq[j].value }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(item)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}

// Fill performs the reconstruction described in the package doc. label
// names the band being filled (e.g. "NIR background"); Fill does not use
// it. boundary is the level the flood is seeded at along the border: a
// border pixel below boundary is raised to boundary in the returned image,
// while a border pixel at or above boundary keeps its own src value.
func Fill(label string, src []int16, h, w int, boundary int16) ([]int16, error) {
	if len(src) != h*w {
		return nil, ErrShape
	}

	dst := make([]int16, len(src))
	copy(dst, src)

	if h == 0 || w == 0 {
		return dst, nil
	}

	visited := make([]bool, len(src))
	pq := make(priorityQueue, 0, 2*(h+w))

	push := func(idx int, seed int16) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		if seed > dst[idx] {
			dst[idx] = seed
		}
		heap.Push(&pq, item{value: dst[idx], index: idx})
	}

	// seed the flood from the border at `boundary`, or at the border
	// pixel's own value where that is higher.
	for c := 0; c < w; c++ {
		push(c, boundary)
		push((h-1)*w+c, boundary)
	}
	for r := 0; r < h; r++ {
		push(r*w, boundary)
		push(r*w+w-1, boundary)
	}

	neighbourOffsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(item)
		row, col := cur.index/w, cur.index%w

		for _, off := range neighbourOffsets {
			nr, nc := row+off[0], col+off[1]
			if nr < 0 || nr >= h || nc < 0 || nc >= w {
				continue
			}
			nidx := nr*w + nc
			if visited[nidx] {
				continue
			}
			visited[nidx] = true

			// the neighbour can be raised no higher than the level the
			// flood has reached here, but never below its own value.
			level := cur.value
			if src[nidx] > level {
				level = src[nidx]
			}
			dst[nidx] = level
			heap.Push(&pq, item{value: level, index: nidx})
		}
	}

	_ = label
	return dst, nil
}
