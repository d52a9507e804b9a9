package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, lib.DATA_DIR, cfg.DataDir)
	assert.Equal(t, lib.BUFFER_POOL_SIZE, cfg.BufferFrames)
	assert.Equal(t, lib.SORT_BUFFER_SIZE, cfg.SortBufferRows())
	assert.Equal(t, lib.DATA_DIR, cfg.RunTempDir())
	require.Len(t, cfg.Tables, 3)
	require.Len(t, cfg.Joins, 3)

	vinho, ok := cfg.Table("Vinho")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(lib.DATA_DIR, "vinho.csv"), cfg.CSVPath(vinho))
	assert.Equal(t, JoinConfig{Left: "Vinho", LeftColumn: "pais_producao_id", Right: "Pais", RightColumn: "pais_id", Materialize: true}, cfg.Joins[1])
}

func TestParse(t *testing.T) {
	t.Run("overlays only present keys", func(t *testing.T) {
		cfg, err := Parse([]byte(`
data_dir = "/var/smj"
sort_buffer_pages = 5

[log]
level = "debug"
`))
		require.NoError(t, err)
		assert.Equal(t, "/var/smj", cfg.DataDir)
		assert.Equal(t, 50, cfg.SortBufferRows())
		assert.Equal(t, lib.BUFFER_POOL_SIZE, cfg.BufferFrames)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Len(t, cfg.Tables, 3)
		assert.Len(t, cfg.Joins, 3)
	})

	t.Run("tables and joins replace defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(`
temp_dir = "/tmp/runs"

[[table]]
name = "A"
csv = "/abs/a.csv"
columns = ["id", "v"]

[[table]]
name = "B"
csv = "b.csv"
columns = ["id", "w"]

[[join]]
left = "A"
left_column = "id"
right = "B"
right_column = "id"
`))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/runs", cfg.RunTempDir())
		assert.Equal(t, []TableConfig{
			{Name: "A", CSV: "/abs/a.csv", Columns: []string{"id", "v"}},
			{Name: "B", CSV: "b.csv", Columns: []string{"id", "w"}},
		}, cfg.Tables)
		assert.Equal(t, []JoinConfig{{Left: "A", LeftColumn: "id", Right: "B", RightColumn: "id"}}, cfg.Joins)
		assert.Equal(t, "/abs/a.csv", cfg.CSVPath(cfg.Tables[0]))
		assert.Equal(t, filepath.Join(lib.DATA_DIR, "b.csv"), cfg.CSVPath(cfg.Tables[1]))
	})

	cases := []struct {
		name  string
		input string
	}{
		{"syntax", `data_dir = `},
		{"zero frames", `buffer_frames = 0`},
		{"negative sort pages", `sort_buffer_pages = -1`},
		{"duplicate table", "[[table]]\nname = \"A\"\ncsv = \"a\"\ncolumns = [\"x\"]\n[[table]]\nname = \"A\"\ncsv = \"a\"\ncolumns = [\"x\"]\n"},
		{"join unknown table", "[[join]]\nleft = \"Nope\"\nleft_column = \"x\"\nright = \"Uva\"\nright_column = \"uva_id\"\n"},
		{"join unknown column", "[[join]]\nleft = \"Vinho\"\nleft_column = \"x\"\nright = \"Uva\"\nright_column = \"uva_id\"\n"},
	}
	for _, tc := range cases {
		t.Run("invalid "+tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)
			assert.True(t, lib.IsConfig(err))
			assert.True(t, errors.Is(err, lib.ErrInvalidConfig))
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smj.toml")
	require.NoError(t, os.WriteFile(path, []byte("buffer_frames = 8\n[generate]\nvinho = 1000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.BufferFrames)
	assert.Equal(t, 1000, cfg.Generate.Vinho)
	assert.Equal(t, 50, cfg.Generate.Uva)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, lib.IsConfig(err))
}
