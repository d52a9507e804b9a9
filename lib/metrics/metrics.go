package metrics

import (
	"context"

	"github.com/israelnicolas940/Sort-Merge-Join/lib/buffer"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	DiskReads      = "smj.disk.reads"
	DiskWrites     = "smj.disk.writes"
	BufferHits     = "smj.buffer.hits"
	BufferMisses   = "smj.buffer.misses"
	BufferEviction = "smj.buffer.evictions"
	JoinsTotal     = "smj.join.total"
	JoinRows       = "smj.join.rows"
	JoinIO         = "smj.join.io"
)

// Source . buffer pool yang diobservasi: io counter disk dan statistik frame.
type Source interface {
	Counters() *disk.IOCounters
	Stats() buffer.Stats
}

// Metrics . instrument untuk io & join. disk counter bisa di-reset antar join, jadi dicatat sebagai gauge.
type Metrics struct {
	joins        metric.Int64Counter
	joinRows     metric.Int64Counter
	joinIO       metric.Int64Histogram
	registration metric.Registration
}

// New. daftarkan semua instrument ke meter. callback observable membaca src setiap collect.
func New(meter metric.Meter, src Source) (*Metrics, error) {
	diskReads, err := meter.Int64ObservableGauge(DiskReads,
		metric.WithDescription("Page reads since the last counter reset."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	diskWrites, err := meter.Int64ObservableGauge(DiskWrites,
		metric.WithDescription("Page writes since the last counter reset."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	hits, err := meter.Int64ObservableCounter(BufferHits,
		metric.WithDescription("Buffer pool lookups served from a cached frame."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	misses, err := meter.Int64ObservableCounter(BufferMisses,
		metric.WithDescription("Buffer pool lookups that went to disk."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	evictions, err := meter.Int64ObservableCounter(BufferEviction,
		metric.WithDescription("Frames evicted from the buffer pool."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	joins, err := meter.Int64Counter(JoinsTotal,
		metric.WithDescription("Sort merge joins completed."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	joinRows, err := meter.Int64Counter(JoinRows,
		metric.WithDescription("Rows produced by sort merge joins."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	joinIO, err := meter.Int64Histogram(JoinIO,
		metric.WithDescription("Disk operations consumed by one sort merge join."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		io := src.Counters().Snapshot()
		stats := src.Stats()
		o.ObserveInt64(diskReads, io.Reads)
		o.ObserveInt64(diskWrites, io.Writes)
		o.ObserveInt64(hits, stats.Hits)
		o.ObserveInt64(misses, stats.Misses)
		o.ObserveInt64(evictions, stats.Evictions)
		return nil
	}, diskReads, diskWrites, hits, misses, evictions)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		joins:        joins,
		joinRows:     joinRows,
		joinIO:       joinIO,
		registration: reg,
	}, nil
}

// RecordJoin. catat satu join yang selesai, attribute left & right table.
func (m *Metrics) RecordJoin(ctx context.Context, left, right string, rows int, io disk.IOStats) {
	attrs := metric.WithAttributes(attribute.String("left", left), attribute.String("right", right))
	m.joins.Add(ctx, 1, attrs)
	m.joinRows.Add(ctx, int64(rows), attrs)
	m.joinIO.Record(ctx, io.Total(), attrs)
}

// Close. lepas callback observable.
func (m *Metrics) Close() error {
	return m.registration.Unregister()
}
