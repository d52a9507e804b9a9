package disk

import (
	"slices"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
)

// Row . satu baris data, urutan field sesuai urutan kolom table.
type Row []string

func (r Row) Clone() Row {
	return slices.Clone(r)
}

// Concat. return row baru berisi field r diikuti field other.
func (r Row) Concat(other Row) Row {
	out := make(Row, 0, len(r)+len(other))
	out = append(out, r...)
	return append(out, other...)
}

// Page . menyimpan maksimal lib.MAX_ROWS rows. unit I/O disk dan unit caching buffer pool.
type Page struct {
	id    int
	rows  []Row
	dirty bool // true kalau isi page belum dipersist ke disk
}

func NewPage(id int) *Page {
	return &Page{
		id:   id,
		rows: make([]Row, 0, lib.MAX_ROWS),
	}
}

func (p *Page) ID() int {
	return p.id
}

func (p *Page) Rows() []Row {
	return p.rows
}

func (p *Page) Len() int {
	return len(p.rows)
}

func (p *Page) Row(i int) Row {
	return p.rows[i]
}

func (p *Page) IsFull() bool {
	return len(p.rows) >= lib.MAX_ROWS
}

func (p *Page) IsEmpty() bool {
	return len(p.rows) == 0
}

// AddRow. append row ke page. kalau page sudah penuh tidak melakukan apa-apa dan return false.
func (p *Page) AddRow(row Row) bool {
	if p.IsFull() {
		return false
	}
	p.rows = append(p.rows, row)
	p.dirty = true
	return true
}

// SetField. ubah satu field row ke-i secara langsung.
func (p *Page) SetField(i, col int, value string) {
	p.rows[i][col] = value
	p.dirty = true
}

func (p *Page) Clear() {
	p.rows = p.rows[:0]
	p.dirty = false
}

func (p *Page) IsDirty() bool {
	return p.dirty
}

func (p *Page) SetDirty(dirty bool) {
	p.dirty = dirty
}

// Clone. deep copy page, dipakai supaya buffer pool tidak berbagi rows dengan caller.
func (p *Page) Clone() *Page {
	rows := make([]Row, len(p.rows), lib.MAX_ROWS)
	for i, row := range p.rows {
		rows[i] = row.Clone()
	}
	return &Page{id: p.id, rows: rows, dirty: p.dirty}
}
