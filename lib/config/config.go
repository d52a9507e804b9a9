package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/ingest"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/logger"
	"github.com/pelletier/go-toml"
)

// TableConfig . satu table yang di-load dari CSV. csv relatif terhadap data_dir.
type TableConfig struct {
	Name    string   `toml:"name"`
	CSV     string   `toml:"csv"`
	Columns []string `toml:"columns"`
}

// JoinConfig . left.left_column = right.right_column. materialize: tulis hasil ke table <left>_<right>_join.
type JoinConfig struct {
	Left        string `toml:"left"`
	LeftColumn  string `toml:"left_column"`
	Right       string `toml:"right"`
	RightColumn string `toml:"right_column"`
	Materialize bool   `toml:"materialize"`
}

type Config struct {
	DataDir         string             `toml:"data_dir"`
	TempDir         string             `toml:"temp_dir"`
	BufferFrames    int                `toml:"buffer_frames"`
	SortBufferPages int                `toml:"sort_buffer_pages"`
	Log             logger.Config      `toml:"log"`
	Generate        ingest.DatasetSize `toml:"generate"`
	Tables          []TableConfig      `toml:"table"`
	Joins           []JoinConfig       `toml:"join"`
}

// Default. dataset wine: Uva, Vinho, Pais dan tiga join-nya.
func Default() *Config {
	cfg := &Config{
		DataDir:         lib.DATA_DIR,
		BufferFrames:    lib.BUFFER_POOL_SIZE,
		SortBufferPages: lib.SORT_BUFFER_PAGES,
		Log:             logger.Config{Level: "info", Format: "console", OutputFile: "stderr"},
		Generate:        ingest.DefaultDatasetSize,
		Joins: []JoinConfig{
			{Left: "Vinho", LeftColumn: "uva_id", Right: "Uva", RightColumn: "uva_id", Materialize: true},
			{Left: "Vinho", LeftColumn: "pais_producao_id", Right: "Pais", RightColumn: "pais_id", Materialize: true},
			{Left: "Uva", LeftColumn: "pais_origem_id", Right: "Pais", RightColumn: "pais_id", Materialize: true},
		},
	}
	for _, s := range ingest.WineSchemas() {
		cfg.Tables = append(cfg.Tables, TableConfig{Name: s.Table, CSV: s.CSV, Columns: s.Columns})
	}
	return cfg
}

// overlayKeys. key scalar yang menimpa default kalau ada di file.
var overlayKeys = []string{
	"data_dir", "temp_dir", "buffer_frames", "sort_buffer_pages",
	"log.level", "log.format", "log.output_file",
	"generate.uva", "generate.vinho", "generate.pais",
}

// Load. baca file toml di atas Default(): hanya key yang ada di file yang menimpa default.
// [[table]] atau [[join]] di file mengganti seluruh list default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lib.ConfigError("load config", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, lib.ConfigError("parse config", fmt.Errorf("%w: %w", lib.ErrInvalidConfig, err))
	}

	var file Config
	if err := tree.Unmarshal(&file); err != nil {
		return nil, lib.ConfigError("parse config", fmt.Errorf("%w: %w", lib.ErrInvalidConfig, err))
	}

	cfg := Default()
	for _, key := range overlayKeys {
		if tree.Has(key) {
			cfg.set(key, &file)
		}
	}
	if tree.Has("table") {
		cfg.Tables = file.Tables
	}
	if tree.Has("join") {
		cfg.Joins = file.Joins
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) set(key string, file *Config) {
	switch key {
	case "data_dir":
		c.DataDir = file.DataDir
	case "temp_dir":
		c.TempDir = file.TempDir
	case "buffer_frames":
		c.BufferFrames = file.BufferFrames
	case "sort_buffer_pages":
		c.SortBufferPages = file.SortBufferPages
	case "log.level":
		c.Log.Level = file.Log.Level
	case "log.format":
		c.Log.Format = file.Log.Format
	case "log.output_file":
		c.Log.OutputFile = file.Log.OutputFile
	case "generate.uva":
		c.Generate.Uva = file.Generate.Uva
	case "generate.vinho":
		c.Generate.Vinho = file.Generate.Vinho
	case "generate.pais":
		c.Generate.Pais = file.Generate.Pais
	}
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return lib.ConfigError("validate config", fmt.Errorf("%w: %s", lib.ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.DataDir == "" {
		return invalid("data_dir is empty")
	}
	if c.BufferFrames <= 0 {
		return invalid("buffer_frames must be positive, got %d", c.BufferFrames)
	}
	if c.SortBufferPages <= 0 {
		return invalid("sort_buffer_pages must be positive, got %d", c.SortBufferPages)
	}
	if c.Generate.Uva < 0 || c.Generate.Vinho < 0 || c.Generate.Pais < 0 {
		return invalid("generate sizes must not be negative")
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if t.Name == "" {
			return invalid("table without name")
		}
		if seen[t.Name] {
			return invalid("duplicate table %q", t.Name)
		}
		if t.CSV == "" {
			return invalid("table %q has no csv", t.Name)
		}
		if len(t.Columns) == 0 {
			return invalid("table %q has no columns", t.Name)
		}
		seen[t.Name] = true
	}

	for i, j := range c.Joins {
		for _, side := range []struct{ table, column string }{{j.Left, j.LeftColumn}, {j.Right, j.RightColumn}} {
			t, ok := c.Table(side.table)
			if !ok {
				return invalid("join %d: unknown table %q", i, side.table)
			}
			if !slices.Contains(t.Columns, side.column) {
				return invalid("join %d: table %q has no column %q", i, side.table, side.column)
			}
		}
	}
	return nil
}

func (c *Config) Table(name string) (TableConfig, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableConfig{}, false
}

// CSVPath. path CSV table, relatif terhadap data_dir kalau bukan absolute.
func (c *Config) CSVPath(t TableConfig) string {
	if filepath.IsAbs(t.CSV) {
		return t.CSV
	}
	return filepath.Join(c.DataDir, t.CSV)
}

// RunTempDir. direktori temp run sort, default data_dir.
func (c *Config) RunTempDir() string {
	if c.TempDir == "" {
		return c.DataDir
	}
	return c.TempDir
}

// SortBufferRows. jumlah row per sorted run.
func (c *Config) SortBufferRows() int {
	return c.SortBufferPages * lib.MAX_ROWS
}
