package extsort

import (
	"container/heap"

	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
)

type runEntry struct {
	row   disk.Row
	runID int
}

// runHeap . min-heap row terdepan tiap run. kalau key sama, run dengan id lebih kecil keluar duluan,
// jadi hasil merge stabil terhadap urutan run.
type runHeap struct {
	entries []runEntry
	cmp     func(a, b disk.Row) int
}

func (h *runHeap) Len() int { return len(h.entries) }

func (h *runHeap) Less(i, j int) bool {
	if c := h.cmp(h.entries[i].row, h.entries[j].row); c != 0 {
		return c < 0
	}
	return h.entries[i].runID < h.entries[j].runID
}

func (h *runHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *runHeap) Push(x any) { h.entries = append(h.entries, x.(runEntry)) }

func (h *runHeap) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	h.entries = old[:n-1]
	return e
}

// MergeRuns. k-way merge: seed heap dengan row pertama tiap run, pop minimum, emit, push row berikutnya dari run yang sama.
func MergeRuns(runs []RunReader, cmp func(a, b disk.Row) int, emit func(disk.Row) error) error {
	h := &runHeap{entries: make([]runEntry, 0, len(runs)), cmp: cmp}

	for i, run := range runs {
		row, ok, err := run.Next()
		if err != nil {
			return err
		}
		if ok {
			h.entries = append(h.entries, runEntry{row: row, runID: i})
		}
	}
	heap.Init(h)

	for h.Len() > 0 {
		top := heap.Pop(h).(runEntry)
		if err := emit(top.row); err != nil {
			return err
		}

		row, ok, err := runs[top.runID].Next()
		if err != nil {
			return err
		}
		if ok {
			heap.Push(h, runEntry{row: row, runID: top.runID})
		}
	}
	return nil
}
