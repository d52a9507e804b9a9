package table

import (
	"iter"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
)

// Iterator . iterate rows table dari page 0 ke page terakhir, forward only. page di-load lazily lewat buffer pool.
// rows page yang sedang diiterate di-copy, jadi iterator tidak memegang page milik buffer pool setelah page tsb di evict.
type Iterator struct {
	table       *Table
	currentPage int
	currentRow  int
	rows        []disk.Row // copy rows page currentPage, nil kalau belum di-load
	err         error
}

func NewIterator(t *Table) *Iterator {
	return &Iterator{table: t}
}

// HasNext. true kalau masih ada row. page berikutnya di-load waktu pertama kali disentuh, page kosong dilewati.
func (it *Iterator) HasNext() (bool, error) {
	for it.currentPage < it.table.TotalPages() {
		if it.rows == nil {
			page, err := it.table.GetPage(it.currentPage)
			if err != nil {
				return false, err
			}
			it.rows = snapshot(page)
		}

		if it.currentRow < len(it.rows) {
			return true, nil
		}

		it.currentPage++
		it.currentRow = 0
		it.rows = nil
	}
	return false, nil
}

// Next. return row berikutnya. caller harus cek HasNext dulu, kalau sudah habis return logic error.
func (it *Iterator) Next() (disk.Row, error) {
	ok, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lib.LogicError("iterator next", lib.ErrNoMoreRows)
	}

	row := it.rows[it.currentRow]
	it.currentRow++
	return row, nil
}

// Reset. mulai lagi dari page 0.
func (it *Iterator) Reset() {
	it.currentPage = 0
	it.currentRow = 0
	it.rows = nil
	it.err = nil
}

// Rows. range-over-func dari posisi iterator sekarang. kalau load page gagal iterasi berhenti, cek Err().
func (it *Iterator) Rows() iter.Seq[disk.Row] {
	return func(yield func(disk.Row) bool) {
		for {
			ok, err := it.HasNext()
			if err != nil {
				it.err = err
				return
			}
			if !ok {
				return
			}

			row, _ := it.Next()
			if !yield(row) {
				return
			}
		}
	}
}

func (it *Iterator) Err() error {
	return it.err
}

func snapshot(page *disk.Page) []disk.Row {
	rows := make([]disk.Row, page.Len())
	for i, row := range page.Rows() {
		rows[i] = row.Clone()
	}
	return rows
}
