package disk

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"go.uber.org/zap"
)

// DiskManager . read & write page ke file table. satu file per table, satu row per line,
// setiap lib.MAX_ROWS line non-blank adalah satu page.
type DiskManager struct {
	dbDir    string
	counters *IOCounters
	log      *zap.Logger
}

type Option func(*DiskManager)

func WithLogger(log *zap.Logger) Option {
	return func(dm *DiskManager) {
		dm.log = log
	}
}

// WithCounters. pakai counters milik caller, misal supaya beberapa DiskManager berbagi counter.
func WithCounters(c *IOCounters) Option {
	return func(dm *DiskManager) {
		dm.counters = c
	}
}

func NewDiskManager(dbDir string, opts ...Option) (*DiskManager, error) {
	dm := &DiskManager{
		dbDir:    dbDir,
		counters: NewIOCounters(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(dm)
	}

	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, lib.IOError("create data directory", err)
	}
	return dm, nil
}

func (dm *DiskManager) TableFilename(table string) string {
	return filepath.Join(dm.dbDir, table+lib.TABLE_FILE_EXT)
}

// ReadPage. membaca page pageNum dari file table. kalau file tidak ada atau tidak bisa dibaca, return page kosong.
// input counter naik satu untuk setiap page yang dilewati scan sampai page target (termasuk page target kalau ada isinya).
func (dm *DiskManager) ReadPage(table string, pageNum int) *Page {
	page := NewPage(pageNum)
	filename := dm.TableFilename(table)

	f, err := os.Open(filename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			dm.log.Warn("table file unreadable, returning empty page",
				zap.String("table", table), zap.Int("page", pageNum), zap.Error(err))
		}
		return page
	}
	defer f.Close()

	r := bufio.NewReader(f)

	currentPage := 0
	rowsInPage := 0
	for currentPage <= pageNum {
		line, ok, err := ReadLine(r)
		if err != nil {
			dm.log.Warn("table file scan failed, returning empty page",
				zap.String("table", table), zap.Int("page", pageNum), zap.Error(err))
			return NewPage(pageNum)
		}
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		if currentPage == pageNum {
			page.AddRow(DecodeRow(line))
		}

		rowsInPage++
		if rowsInPage >= lib.MAX_ROWS {
			dm.counters.IncRead() // satu page penuh sudah discan
			currentPage++
			rowsInPage = 0
		}
	}
	if currentPage == pageNum && rowsInPage > 0 {
		dm.counters.IncRead() // page target terakhir di file, tidak penuh
	}

	page.SetDirty(false)
	return page
}

// WritePage. menulis page ke slot line [id*MAX_ROWS, (id+1)*MAX_ROWS) di file table. seluruh file dibaca,
// slot page di-overwrite, lalu file ditulis ulang tanpa blank line lewat temp file + rename, jadi kalau gagal
// file lama tidak berubah. output counter naik tepat satu per call.
func (dm *DiskManager) WritePage(table string, page *Page) error {
	if page.ID() < 0 {
		return lib.LogicError("write page", fmt.Errorf("%w: %d", lib.ErrInvalidPageID, page.ID()))
	}
	dm.counters.IncWrite()

	filename := dm.TableFilename(table)
	lines, err := readLines(filename)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return lib.IOError("write page", fmt.Errorf("read %s: %w", filename, err))
	}

	start := page.ID() * lib.MAX_ROWS
	for len(lines) < start+lib.MAX_ROWS {
		lines = append(lines, "")
	}

	for i := 0; i < lib.MAX_ROWS; i++ {
		if i < page.Len() {
			lines[start+i] = EncodeRow(page.Row(i))
		} else {
			lines[start+i] = ""
		}
	}

	if err := dm.replaceFile(filename, lines); err != nil {
		return lib.IOError("write page", fmt.Errorf("%w: %s: %w", lib.ErrUnwritable, filename, err))
	}

	page.SetDirty(false)
	return nil
}

// replaceFile. tulis lines non-blank ke temp file di direktori yang sama lalu rename ke filename.
func (dm *DiskManager) replaceFile(filename string, lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*"+lib.TEMP_FILE_EXT)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if line == "" {
			continue
		}
		w.WriteString(line)
		w.WriteByte('\n')
	}

	err = w.Flush()
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, filename)
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (dm *DiskManager) TableFileExists(table string) bool {
	_, err := os.Stat(dm.TableFilename(table))
	return err == nil
}

// CreateTableFile. buat file table kosong. kalau file sudah ada, isinya dikosongkan.
func (dm *DiskManager) CreateTableFile(table string) error {
	f, err := os.Create(dm.TableFilename(table))
	if err != nil {
		return lib.IOError("create table file", fmt.Errorf("%w: %w", lib.ErrUnwritable, err))
	}
	return f.Close()
}

// GetTotalPages. jumlah page = ceil(jumlah line non-blank / MAX_ROWS). file tidak ada = 0 page.
func (dm *DiskManager) GetTotalPages(table string) int {
	lines, err := readLines(dm.TableFilename(table))
	if err != nil {
		return 0
	}

	count := 0
	for _, line := range lines {
		if line != "" {
			count++
		}
	}
	return lib.CeilPages(count)
}

func (dm *DiskManager) Counters() *IOCounters {
	return dm.counters
}

func (dm *DiskManager) GetDBDir() string {
	return dm.dbDir
}

func readLines(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	r := bufio.NewReader(f)
	for {
		line, ok, err := ReadLine(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			return lines, nil
		}
		lines = append(lines, line)
	}
}
