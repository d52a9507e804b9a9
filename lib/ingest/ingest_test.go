package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/buffer"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLoader(t *testing.T) (*Loader, *disk.DiskManager, *observer.ObservedLogs) {
	t.Helper()
	dm, err := disk.NewDiskManager(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	core, logs := observer.New(zapcore.WarnLevel)
	bpm := buffer.NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)
	return NewLoader(bpm, WithLogger(zap.New(core))), dm, logs
}

func readAll(t *testing.T, tbl *table.Table) []disk.Row {
	t.Helper()
	it := tbl.Iterator()
	var rows []disk.Row
	for row := range it.Rows() {
		rows = append(rows, row)
	}
	require.NoError(t, it.Err())
	return rows
}

var paisSchema = Schema{Table: "Pais", Columns: PaisColumns}

func TestLoadCSV(t *testing.T) {
	t.Run("trims fields and paginates", func(t *testing.T) {
		l, dm, logs := newTestLoader(t)
		var sb strings.Builder
		sb.WriteString("pais_id,nome,sigla\n")
		for i := 1; i <= 25; i++ {
			fmt.Fprintf(&sb, " %d , Pais %d ,\tP%d \n", i, i, i)
		}

		tbl, err := l.LoadCSV(strings.NewReader(sb.String()), paisSchema)
		require.NoError(t, err)
		assert.Equal(t, 3, tbl.TotalPages())
		assert.Equal(t, 3, dm.GetTotalPages("Pais"))
		assert.Zero(t, logs.Len())

		rows := readAll(t, tbl)
		require.Len(t, rows, 25)
		assert.Equal(t, disk.Row{"1", "Pais 1", "P1"}, rows[0])
		assert.Equal(t, disk.Row{"25", "Pais 25", "P25"}, rows[24])
	})

	t.Run("skips rows with wrong arity", func(t *testing.T) {
		l, _, logs := newTestLoader(t)
		input := "pais_id,nome,sigla\n1,Brasil,BR\n2,Chile\n\n3,\"Korea, Republic of\",KR\n4,a,b,c\n"

		tbl, err := l.LoadCSV(strings.NewReader(input), paisSchema)
		require.NoError(t, err)
		assert.Equal(t, []disk.Row{{"1", "Brasil", "BR"}, {"3", "Korea, Republic of", "KR"}}, readAll(t, tbl))
		assert.Equal(t, 2, logs.FilterMessage("skipping csv row with wrong column count").Len())
	})

	t.Run("header mismatch only warns", func(t *testing.T) {
		l, _, logs := newTestLoader(t)
		input := "id,nome\n1,Brasil,BR\n"

		tbl, err := l.LoadCSV(strings.NewReader(input), paisSchema)
		require.NoError(t, err)
		assert.Equal(t, []disk.Row{{"1", "Brasil", "BR"}}, readAll(t, tbl))
		assert.Equal(t, 1, logs.FilterMessage("csv header column count mismatch").Len())
		assert.Equal(t, 1, logs.FilterMessage("csv header column mismatch").Len())
	})

	t.Run("header only gives empty table", func(t *testing.T) {
		l, dm, _ := newTestLoader(t)
		tbl, err := l.LoadCSV(strings.NewReader("pais_id,nome,sigla\n"), paisSchema)
		require.NoError(t, err)
		assert.Zero(t, tbl.TotalPages())
		assert.True(t, dm.TableFileExists("Pais"))
	})

	t.Run("reloading replaces the table", func(t *testing.T) {
		l, _, _ := newTestLoader(t)
		_, err := l.LoadCSV(strings.NewReader("pais_id,nome,sigla\n1,a,A\n2,b,B\n"), paisSchema)
		require.NoError(t, err)
		tbl, err := l.LoadCSV(strings.NewReader("pais_id,nome,sigla\n9,z,Z\n"), paisSchema)
		require.NoError(t, err)
		assert.Equal(t, []disk.Row{{"9", "z", "Z"}}, readAll(t, tbl))
	})

	t.Run("missing file is an io error", func(t *testing.T) {
		l, _, _ := newTestLoader(t)
		_, err := l.LoadFile(filepath.Join(t.TempDir(), "nope.csv"), paisSchema)
		require.Error(t, err)
		assert.True(t, lib.IsIO(err))
	})
}

func TestGenerateWineDataset(t *testing.T) {
	size := DatasetSize{Uva: 12, Vinho: 40, Pais: 5}

	t.Run("deterministic for a seed", func(t *testing.T) {
		a, b := t.TempDir(), t.TempDir()
		require.NoError(t, GenerateWineDataset(a, size, 7))
		require.NoError(t, GenerateWineDataset(b, size, 7))
		for _, s := range WineSchemas() {
			da, err := os.ReadFile(filepath.Join(a, s.CSV))
			require.NoError(t, err)
			db, err := os.ReadFile(filepath.Join(b, s.CSV))
			require.NoError(t, err)
			assert.Equal(t, da, db, s.CSV)
		}
	})

	t.Run("loads back with valid foreign keys", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, GenerateWineDataset(dir, size, 1))

		l, _, logs := newTestLoader(t)
		loaded := map[string][]disk.Row{}
		for _, s := range WineSchemas() {
			tbl, err := l.LoadFile(filepath.Join(dir, s.CSV), s)
			require.NoError(t, err)
			loaded[s.Table] = readAll(t, tbl)
		}
		assert.Zero(t, logs.Len())
		assert.Len(t, loaded["Uva"], size.Uva)
		assert.Len(t, loaded["Vinho"], size.Vinho)
		assert.Len(t, loaded["Pais"], size.Pais)

		inRange := func(v string, n int) {
			var id int
			_, err := fmt.Sscan(v, &id)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, id, 1)
			assert.LessOrEqual(t, id, n)
		}
		for _, row := range loaded["Vinho"] {
			inRange(row[3], size.Uva)
			inRange(row[4], size.Pais)
		}
		for _, row := range loaded["Uva"] {
			inRange(row[4], size.Pais)
		}
	})
}
