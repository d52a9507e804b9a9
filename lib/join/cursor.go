package join

import (
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/extsort"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/table"
)

// cursor . posisi baca di satu sisi join. cursor yang sudah habis (valid == false) tidak punya row lagi.
type cursor struct {
	it    *table.Iterator
	col   int
	row   disk.Row
	valid bool
}

func newCursor(t *table.Table, col int) (*cursor, error) {
	c := &cursor{it: t.Iterator(), col: col}
	if err := c.advance(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cursor) key() string {
	return c.row[c.col]
}

func (c *cursor) advance() error {
	ok, err := c.it.HasNext()
	if err != nil {
		return err
	}
	if !ok {
		c.row, c.valid = nil, false
		return nil
	}

	row, err := c.it.Next()
	if err != nil {
		return err
	}
	c.row, c.valid = row, true
	return nil
}

// collectRun. ambil semua row berurutan yang key-nya sama dengan key. setelah return, cursor
// ada di row pertama dengan key berbeda atau sudah habis.
func (c *cursor) collectRun(key string) ([]disk.Row, error) {
	var run []disk.Row
	for c.valid && extsort.CompareValues(c.key(), key) == 0 {
		run = append(run, c.row)
		if err := c.advance(); err != nil {
			return nil, err
		}
	}
	return run, nil
}
