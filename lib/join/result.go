package join

import (
	"fmt"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/table"
)

// Result . hasil join: row hasil (urut sesuai join key), nama kolom hasil, dan io yang terpakai selama join.
type Result struct {
	Columns []string
	Rows    []disk.Row
	IO      disk.IOStats
}

// IOOperations. total disk read + write selama join, termasuk kedua sort.
func (r *Result) IOOperations() int64 {
	return r.IO.Total()
}

func (r *Result) Len() int {
	return len(r.Rows)
}

// Head. n row pertama hasil join.
func (r *Result) Head(n int) []disk.Row {
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	return r.Rows[:n]
}

// ResultTableName. nama table tempat hasil join leftName & rightName ditulis.
func ResultTableName(leftName, rightName string) string {
	return fmt.Sprintf("%s_%s_join", leftName, rightName)
}

// joinColumns. kolom kiri diberi prefix left_, kolom kanan right_.
func joinColumns(left, right []string) []string {
	cols := make([]string, 0, len(left)+len(right))
	for _, c := range left {
		cols = append(cols, lib.LEFT_PREFIX+c)
	}
	for _, c := range right {
		cols = append(cols, lib.RIGHT_PREFIX+c)
	}
	return cols
}

// WriteResult. tulis row hasil join ke table "<left>_<right>_join" lewat buffer pool, page id berurutan.
func WriteResult(result *Result, bpm table.BufferManager, leftName, rightName string) (*table.Table, error) {
	out, err := table.Create(ResultTableName(leftName, rightName), result.Columns, bpm)
	if err != nil {
		return nil, err
	}

	w := table.NewPageWriter(out)
	for _, row := range result.Rows {
		if err := w.Add(row); err != nil {
			return nil, fmt.Errorf("write join result %s: %w", out.Name(), err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("write join result %s: %w", out.Name(), err)
	}
	return out, nil
}
