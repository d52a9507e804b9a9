package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/buffer"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/config"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/extsort"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/ingest"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/join"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/logger"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/metrics"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/table"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

type runOptions struct {
	generate bool
	seed     uint64
}

func main() {
	configPath := flag.String("config", "", "path file konfigurasi toml (default: dataset wine di ./data)")
	generate := flag.Bool("generate", false, "tulis dataset csv sintetis ke data_dir sebelum load")
	seed := flag.Uint64("seed", 0, "seed dataset sintetis")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(context.Background(), cfg, runOptions{generate: *generate, seed: *seed}, os.Stdout, log); err != nil {
		log.Error("run failed", zap.Error(err))
		log.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

/*
run. load semua table dari CSV lalu jalankan join yang dikonfigurasi satu per satu.
io counter di-reset setelah load dan setelah setiap join, jadi angka yang dicetak per tahap.
error apapun menghentikan seluruh run.
*/
func run(ctx context.Context, cfg *config.Config, opts runOptions, out io.Writer, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if opts.generate {
		if err := ingest.GenerateWineDataset(cfg.DataDir, cfg.Generate, opts.seed); err != nil {
			return fmt.Errorf("generate dataset: %w", err)
		}
		log.Info("synthetic dataset written", zap.String("dir", cfg.DataDir), zap.Uint64("seed", opts.seed))
	}

	dm, err := disk.NewDiskManager(cfg.DataDir, disk.WithLogger(log))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.RunTempDir(), 0755); err != nil {
		return lib.IOError("create temp dir", err)
	}
	bpm := buffer.NewBufferPoolManager(cfg.BufferFrames, dm, buffer.WithLogger(log))

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)
	m, err := metrics.New(provider.Meter("sort-merge-join"), bpm)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	defer m.Close()

	fmt.Fprintln(out, "=== SIMULATED DBMS SORT-MERGE JOIN ===")
	fmt.Fprintf(out, "Buffer Size: %d pages, Page Size: %d rows\n", cfg.BufferFrames, lib.MAX_ROWS)

	counters := dm.Counters()
	counters.Reset()

	fmt.Fprintln(out, "\n1. Loading tables from CSV files...")
	loader := ingest.NewLoader(bpm, ingest.WithLogger(log))
	tables := make(map[string]*table.Table, len(cfg.Tables))
	for _, tc := range cfg.Tables {
		schema := ingest.Schema{Table: tc.Name, CSV: tc.CSV, Columns: tc.Columns}
		t, err := loader.LoadFile(cfg.CSVPath(tc), schema)
		if err != nil {
			return fmt.Errorf("load table %s: %w", tc.Name, err)
		}
		tables[tc.Name] = t
		fmt.Fprintf(out, "Loaded %s table: %d pages\n", t.Name(), t.TotalPages())
	}
	fmt.Fprintf(out, "Total In I/O operations for loading: %d\n", counters.Reads())
	fmt.Fprintf(out, "Total Out I/O operations: %d\n", counters.Writes())
	counters.Reset()

	fmt.Fprintln(out, "\n2. Performing joins...")
	joiner := join.NewJoiner(bpm,
		join.WithLogger(log),
		join.WithSortOptions(
			extsort.WithTempDir(cfg.RunTempDir()),
			extsort.WithBufferRows(cfg.SortBufferRows()),
		),
	)
	for i, jc := range cfg.Joins {
		left, right := tables[jc.Left], tables[jc.Right]
		fmt.Fprintf(out, "\nJoin %d: %s ⋈ %s (%s.%s = %s.%s)\n", i+1, jc.Left, jc.Right,
			strings.ToLower(jc.Left), jc.LeftColumn, strings.ToLower(jc.Right), jc.RightColumn)

		res, err := joiner.SortMergeJoin(left, jc.LeftColumn, right, jc.RightColumn)
		if err != nil {
			return fmt.Errorf("join %d: %w", i+1, err)
		}
		if jc.Materialize {
			written, err := join.WriteResult(res, bpm, strings.ToLower(jc.Left), strings.ToLower(jc.Right))
			if err != nil {
				return fmt.Errorf("join %d: %w", i+1, err)
			}
			log.Info("join result written", zap.String("table", written.Name()), zap.Int("pages", written.TotalPages()))
		}

		printJoinResult(out, res)
		fmt.Fprintf(out, "Total I/O operations for Join %d: %d\n", i+1, res.IOOperations())
		fmt.Fprintf(out, "In IO Count: %d, Out IO Count: %d\n", counters.Reads(), counters.Writes())
		m.RecordJoin(ctx, jc.Left, jc.Right, res.Len(), res.IO)
		counters.Reset()
	}

	values, err := metrics.Collect(ctx, reader)
	if err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}
	fields := make([]zap.Field, 0, len(values))
	for name, v := range values {
		fields = append(fields, zap.Int64(name, v))
	}
	log.Info("metrics", fields...)

	fmt.Fprintln(out, "=== COMPLETED ===")
	return nil
}
