package table

import (
	"fmt"
	"slices"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
)

// BufferManager . semua akses page table lewat buffer pool, tidak ada path yang write ke disk langsung.
type BufferManager interface {
	GetPage(table string, pageNum int) (*disk.Page, error)
	WritePage(table string, page *disk.Page) error
	ResetTable(table string) error
	TotalPages(table string) int
}

type Table struct {
	name        string
	columns     []string
	columnIndex map[string]int
	bpm         BufferManager
	totalPages  int
}

// New. table baru yang menempel ke data yang (mungkin) sudah ada, page count mulai dari 0.
func New(name string, columns []string, bpm BufferManager) *Table {
	columnIndex := make(map[string]int, len(columns))
	for i, col := range columns {
		columnIndex[col] = i
	}

	return &Table{
		name:        name,
		columns:     slices.Clone(columns),
		columnIndex: columnIndex,
		bpm:         bpm,
	}
}

// Create. table baru yang kosong: file & frame lama milik name dibuang dulu.
func Create(name string, columns []string, bpm BufferManager) (*Table, error) {
	if err := bpm.ResetTable(name); err != nil {
		return nil, fmt.Errorf("create table %s: %w", name, err)
	}
	return New(name, columns, bpm), nil
}

// Open. table dari file yang sudah ada di disk, page count dihitung dari file.
func Open(name string, columns []string, bpm BufferManager) *Table {
	t := New(name, columns, bpm)
	t.totalPages = bpm.TotalPages(name)
	return t
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// ColumnIndex. return index kolom, -1 kalau kolom tidak ada.
func (t *Table) ColumnIndex(column string) int {
	if idx, ok := t.columnIndex[column]; ok {
		return idx
	}
	return -1
}

// MustColumnIndex. seperti ColumnIndex tapi return configuration error kalau kolom tidak ada.
func (t *Table) MustColumnIndex(column string) (int, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return -1, lib.ConfigError("resolve column",
			fmt.Errorf("%w: %q in table %s", lib.ErrColumnNotFound, column, t.name))
	}
	return idx, nil
}

func (t *Table) TotalPages() int {
	return t.totalPages
}

// SetTotalPages. page count hanya bisa bertambah.
func (t *Table) SetTotalPages(pages int) {
	if pages > t.totalPages {
		t.totalPages = pages
	}
}

func (t *Table) GetPage(pageNum int) (*disk.Page, error) {
	return t.bpm.GetPage(t.name, pageNum)
}

// WritePage. write page lewat buffer pool. semua row harus punya arity = jumlah kolom.
func (t *Table) WritePage(page *disk.Page) error {
	for _, row := range page.Rows() {
		if len(row) != len(t.columns) {
			return lib.LogicError("write page",
				fmt.Errorf("%w: table %s has %d columns, row has %d", lib.ErrArityMismatch, t.name, len(t.columns), len(row)))
		}
	}

	if err := t.bpm.WritePage(t.name, page); err != nil {
		return err
	}
	t.SetTotalPages(page.ID() + 1)
	return nil
}

func (t *Table) Iterator() *Iterator {
	return NewIterator(t)
}
