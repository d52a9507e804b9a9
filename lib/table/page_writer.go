package table

import (
	"fmt"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
)

// PageWriter . paginate stream rows ke table: setiap page penuh langsung ditulis lewat buffer pool
// dengan page id berurutan mulai dari page count table sekarang.
type PageWriter struct {
	table   *Table
	page    *disk.Page
	written int
}

func NewPageWriter(t *Table) *PageWriter {
	return &PageWriter{
		table: t,
		page:  disk.NewPage(t.TotalPages()),
	}
}

func (w *PageWriter) Add(row disk.Row) error {
	if len(row) != w.table.ColumnCount() {
		return lib.LogicError("append row",
			fmt.Errorf("%w: table %s has %d columns, row has %d", lib.ErrArityMismatch, w.table.Name(), w.table.ColumnCount(), len(row)))
	}
	if w.page.IsFull() {
		if err := w.flushPage(); err != nil {
			return err
		}
	}
	w.page.AddRow(row)
	w.written++
	return nil
}

// Close. tulis page terakhir kalau ada isinya.
func (w *PageWriter) Close() error {
	if w.page.IsEmpty() {
		return nil
	}
	return w.flushPage()
}

// RowsWritten. jumlah row yang sudah di-Add.
func (w *PageWriter) RowsWritten() int {
	return w.written
}

func (w *PageWriter) flushPage() error {
	if err := w.table.WritePage(w.page); err != nil {
		return err
	}
	w.page = disk.NewPage(w.page.ID() + 1)
	return nil
}
