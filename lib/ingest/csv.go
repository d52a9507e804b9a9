package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/table"
	"go.uber.org/zap"
)

type Loader struct {
	bpm table.BufferManager
	log *zap.Logger
}

type Option func(*Loader)

func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

func NewLoader(bpm table.BufferManager, opts ...Option) *Loader {
	l := &Loader{bpm: bpm, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile. buka file CSV lalu LoadCSV. file yang tidak bisa dibuka adalah io error.
func (l *Loader) LoadFile(path string, schema Schema) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lib.IOError("open csv", err)
	}
	defer f.Close()
	return l.LoadCSV(f, schema)
}

/*
LoadCSV. baca CSV ke table schema.Table (table lama dibuang dulu).
baris pertama adalah header: jumlah & nama kolom yang beda dari schema hanya di-warn.
setiap field di-trim. row dengan jumlah field salah di-skip dengan warning.
page ditulis lewat buffer pool dengan page id naik, page count table tercatat di akhir.
*/
func (l *Loader) LoadCSV(r io.Reader, schema Schema) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	t, err := table.Create(schema.Table, schema.Columns, l.bpm)
	if err != nil {
		return nil, err
	}
	w := table.NewPageWriter(t)

	header := true
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, lib.IOError("read csv", fmt.Errorf("table %s: %w", schema.Table, err))
		}

		row := trimRecord(record)
		if header {
			l.checkHeader(schema, row)
			header = false
			continue
		}

		if len(row) != len(schema.Columns) {
			line, _ := reader.FieldPos(0)
			l.log.Warn("skipping csv row with wrong column count",
				zap.String("table", schema.Table), zap.Int("line", line),
				zap.Int("got", len(row)), zap.Int("expected", len(schema.Columns)))
			skipped++
			continue
		}
		if err := w.Add(row); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	l.log.Info("table loaded",
		zap.String("table", schema.Table), zap.Int("rows", w.RowsWritten()),
		zap.Int("pages", t.TotalPages()), zap.Int("skipped", skipped))
	return t, nil
}

func (l *Loader) checkHeader(schema Schema, header disk.Row) {
	if len(header) != len(schema.Columns) {
		l.log.Warn("csv header column count mismatch",
			zap.String("table", schema.Table), zap.Int("got", len(header)), zap.Int("expected", len(schema.Columns)))
	}
	for i := 0; i < min(len(header), len(schema.Columns)); i++ {
		if header[i] != schema.Columns[i] {
			l.log.Warn("csv header column mismatch",
				zap.String("table", schema.Table), zap.Int("column", i),
				zap.String("got", header[i]), zap.String("expected", schema.Columns[i]))
		}
	}
}

// trimRecord. copy record (reader pakai ReuseRecord) sambil trim whitespace tiap field.
func trimRecord(record []string) disk.Row {
	row := make(disk.Row, len(record))
	for i, field := range record {
		row[i] = strings.TrimSpace(field)
	}
	return row
}
