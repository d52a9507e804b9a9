package extsort

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/table"
	"go.uber.org/zap"
)

const sortedSuffix = "_sorted"

// Sorter . external merge sort dengan memori terbatas: run generation lalu k-way merge.
type Sorter struct {
	bpm        table.BufferManager
	tempDir    string
	bufferRows int
	log        *zap.Logger
}

type Option func(*Sorter)

// WithTempDir. direktori temp run file. default direktori kerja.
func WithTempDir(dir string) Option {
	return func(s *Sorter) {
		s.tempDir = dir
	}
}

// WithBufferRows. jumlah row yang di-sort di memori per run. default lib.SORT_BUFFER_SIZE.
func WithBufferRows(n int) Option {
	return func(s *Sorter) {
		if n > 0 {
			s.bufferRows = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Sorter) {
		s.log = log
	}
}

func NewSorter(bpm table.BufferManager, opts ...Option) *Sorter {
	s := &Sorter{
		bpm:        bpm,
		tempDir:    ".",
		bufferRows: lib.SORT_BUFFER_SIZE,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

/*
Sort. sort table berdasarkan column, hasilnya table baru "<name>_sorted".
phase 1: baca sampai bufferRows row dari iterator, sort di memori, spill ke temp run file. ulangi sampai input habis.
phase 2: 0 run -> return table input, 1 run -> copy langsung ke table hasil, >1 run -> k-way merge ke table hasil.
semua temp file dihapus setelah selesai, termasuk kalau gagal.
*/
func (s *Sorter) Sort(t *table.Table, column string) (*table.Table, error) {
	return s.SortAs(t, column, t.Name()+sortedSuffix)
}

// SortAs. seperti Sort tapi nama table hasil ditentukan caller.
func (s *Sorter) SortAs(t *table.Table, column, output string) (*table.Table, error) {
	col, err := t.MustColumnIndex(column)
	if err != nil {
		return nil, err
	}

	runFiles, err := s.createSortedRuns(t, col)
	defer s.removeAll(runFiles)
	if err != nil {
		return nil, err
	}

	s.log.Info("sorted runs created",
		zap.String("table", t.Name()), zap.String("column", column), zap.Int("runs", len(runFiles)))

	if len(runFiles) == 0 {
		return t, nil
	}

	sorted, err := table.Create(output, t.Columns(), s.bpm)
	if err != nil {
		return nil, err
	}

	runs := make([]RunReader, 0, len(runFiles))
	defer func() {
		for _, run := range runs {
			run.Close()
		}
	}()
	for _, path := range runFiles {
		run, err := openFileRun(path)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	w := table.NewPageWriter(sorted)
	if len(runs) == 1 {
		err = copyRun(runs[0], w.Add)
	} else {
		err = MergeRuns(runs, RowComparator(col), w.Add)
	}
	if err != nil {
		return nil, fmt.Errorf("merge runs of %s: %w", t.Name(), err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return sorted, nil
}

// createSortedRuns. phase 1. path run yang sudah dibuat selalu di-return, juga kalau gagal, supaya bisa dihapus.
func (s *Sorter) createSortedRuns(t *table.Table, col int) ([]string, error) {
	var runFiles []string
	cmp := RowComparator(col)
	buffer := make([]disk.Row, 0, s.bufferRows)

	it := t.Iterator()
	for {
		buffer = buffer[:0]
		for len(buffer) < s.bufferRows {
			ok, err := it.HasNext()
			if err != nil {
				return runFiles, err
			}
			if !ok {
				break
			}
			row, err := it.Next()
			if err != nil {
				return runFiles, err
			}
			buffer = append(buffer, row)
		}

		if len(buffer) == 0 {
			return runFiles, nil
		}

		slices.SortStableFunc(buffer, cmp)

		path, err := writeRun(s.tempDir, fmt.Sprintf("run_%d", len(runFiles)), buffer)
		if err != nil {
			return runFiles, err
		}
		runFiles = append(runFiles, path)
	}
}

func copyRun(run RunReader, emit func(disk.Row) error) error {
	for {
		row, ok, err := run.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := emit(row); err != nil {
			return err
		}
	}
}

func (s *Sorter) removeAll(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("failed to remove temp run file", zap.String("path", path), zap.Error(err))
		}
	}
}
