package extsort

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
)

// RunReader . sumber row berikutnya dari satu sorted run. merge tidak peduli run disimpan di file, memori, atau network.
type RunReader interface {
	// Next. return row berikutnya, false kalau run sudah habis.
	Next() (disk.Row, bool, error)
	Close() error
}

// fileRun . run yang disimpan di temp file, satu row per line.
type fileRun struct {
	path   string
	file   *os.File
	reader *bufio.Reader
}

func openFileRun(path string) (*fileRun, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lib.IOError("open run", err)
	}

	return &fileRun{path: path, file: f, reader: bufio.NewReader(f)}, nil
}

func (r *fileRun) Next() (disk.Row, bool, error) {
	for {
		line, ok, err := disk.ReadLine(r.reader)
		if err != nil {
			return nil, false, lib.IOError("read run", fmt.Errorf("%s: %w", r.path, err))
		}
		if !ok {
			return nil, false, nil
		}
		if line != "" {
			return disk.DecodeRow(line), true, nil
		}
	}
}

func (r *fileRun) Close() error {
	return r.file.Close()
}

// SliceRun . run di memori, dipakai buat test & input yang sudah sorted.
type SliceRun struct {
	rows []disk.Row
	pos  int
}

func NewSliceRun(rows []disk.Row) *SliceRun {
	return &SliceRun{rows: rows}
}

func (r *SliceRun) Next() (disk.Row, bool, error) {
	if r.pos >= len(r.rows) {
		return nil, false, nil
	}
	row := r.rows[r.pos]
	r.pos++
	return row, true, nil
}

func (r *SliceRun) Close() error {
	return nil
}

// tempRunName. nama temp file unik: temp_<prefix>_<uuid>.tmp
func tempRunName(dir, prefix string) string {
	return filepath.Join(dir, fmt.Sprintf("temp_%s_%s%s", prefix, uuid.NewString(), lib.TEMP_FILE_EXT))
}

// writeRun. spill rows ke temp file baru, return path file tsb.
func writeRun(dir, prefix string, rows []disk.Row) (string, error) {
	path := tempRunName(dir, prefix)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", lib.IOError("write run", fmt.Errorf("%w: %w", lib.ErrUnwritable, err))
	}

	w := bufio.NewWriter(f)
	for _, row := range rows {
		w.WriteString(disk.EncodeRow(row))
		w.WriteByte('\n')
	}

	err = w.Flush()
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", lib.IOError("write run", fmt.Errorf("%w: %s: %w", lib.ErrUnwritable, path, err))
	}
	return path, nil
}
