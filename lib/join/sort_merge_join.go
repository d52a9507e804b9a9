package join

import (
	"fmt"

	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/extsort"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/table"
	"go.uber.org/zap"
)

const (
	sortedSuffix      = "_sorted"
	rightSortedSuffix = "_right_sorted"
)

// BufferManager . buffer pool yang dipakai join, counters dipakai untuk menghitung io join.
type BufferManager interface {
	table.BufferManager
	Counters() *disk.IOCounters
}

type Joiner struct {
	bpm      BufferManager
	sortOpts []extsort.Option
	log      *zap.Logger
}

type Option func(*Joiner)

func WithLogger(log *zap.Logger) Option {
	return func(j *Joiner) {
		j.log = log
	}
}

// WithSortOptions. option untuk external sort kedua sisi join (temp dir, buffer rows).
func WithSortOptions(opts ...extsort.Option) Option {
	return func(j *Joiner) {
		j.sortOpts = append(j.sortOpts, opts...)
	}
}

func NewJoiner(bpm BufferManager, opts ...Option) *Joiner {
	j := &Joiner{
		bpm: bpm,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

/*
SortMergeJoin. inner equi-join left.leftColumn = right.rightColumn.
1. resolve kedua kolom, kolom tidak ada -> config error sebelum ada io.
2. external sort tiap sisi berdasarkan join column.
3. merge: key kiri < key kanan -> maju kiri, > -> maju kanan, sama -> kumpulkan run key yang sama
di kedua sisi, emit cartesian product, lanjut setelah kedua run.
io dihitung dari selisih counters sebelum dan sesudah join (sort termasuk).
*/
func (j *Joiner) SortMergeJoin(left *table.Table, leftColumn string, right *table.Table, rightColumn string) (*Result, error) {
	leftCol, err := left.MustColumnIndex(leftColumn)
	if err != nil {
		return nil, err
	}
	rightCol, err := right.MustColumnIndex(rightColumn)
	if err != nil {
		return nil, err
	}

	counters := j.bpm.Counters()
	start := counters.Snapshot()

	sorter := extsort.NewSorter(j.bpm, append([]extsort.Option{extsort.WithLogger(j.log)}, j.sortOpts...)...)

	// nama table sorted tidak boleh sama dengan input manapun atau dengan sorted sisi lain,
	// karena table.Create mengosongkan table dengan nama tsb.
	taken := map[string]bool{left.Name(): true, right.Name(): true}
	leftOutput := sortedName(left.Name(), taken)
	taken[leftOutput] = true
	rightOutput := sortedName(right.Name(), taken)

	sortedLeft, err := sorter.SortAs(left, leftColumn, leftOutput)
	if err != nil {
		return nil, fmt.Errorf("sort %s by %s: %w", left.Name(), leftColumn, err)
	}
	sortedRight, err := sorter.SortAs(right, rightColumn, rightOutput)
	if err != nil {
		return nil, fmt.Errorf("sort %s by %s: %w", right.Name(), rightColumn, err)
	}

	j.log.Debug("both sides sorted",
		zap.String("left", sortedLeft.Name()), zap.String("right", sortedRight.Name()))

	rows, err := mergeSorted(sortedLeft, leftCol, sortedRight, rightCol)
	if err != nil {
		return nil, fmt.Errorf("merge %s and %s: %w", left.Name(), right.Name(), err)
	}

	result := &Result{
		Columns: joinColumns(left.Columns(), right.Columns()),
		Rows:    rows,
		IO:      counters.Since(start),
	}
	j.log.Info("sort merge join finished",
		zap.String("left", left.Name()), zap.String("right", right.Name()),
		zap.Int("rows", result.Len()),
		zap.Int64("reads", result.IO.Reads), zap.Int64("writes", result.IO.Writes))
	return result, nil
}

// sortedName. "<name>_sorted", lalu "<name>_right_sorted", lalu "<name>_sorted_<n>" sampai tidak ada di taken.
func sortedName(name string, taken map[string]bool) string {
	for _, candidate := range []string{name + sortedSuffix, name + rightSortedSuffix} {
		if !taken[candidate] {
			return candidate
		}
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s%s_%d", name, sortedSuffix, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

func mergeSorted(left *table.Table, leftCol int, right *table.Table, rightCol int) ([]disk.Row, error) {
	lc, err := newCursor(left, leftCol)
	if err != nil {
		return nil, err
	}
	rc, err := newCursor(right, rightCol)
	if err != nil {
		return nil, err
	}

	var rows []disk.Row
	for lc.valid && rc.valid {
		cmp := extsort.CompareValues(lc.key(), rc.key())
		switch {
		case cmp < 0:
			err = lc.advance()
		case cmp > 0:
			err = rc.advance()
		default:
			key := lc.key()
			var leftRun, rightRun []disk.Row
			if leftRun, err = lc.collectRun(key); err != nil {
				return nil, err
			}
			if rightRun, err = rc.collectRun(key); err != nil {
				return nil, err
			}
			for _, l := range leftRun {
				for _, r := range rightRun {
					rows = append(rows, l.Concat(r))
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}
