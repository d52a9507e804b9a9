package disk

import "sync/atomic"

// IOCounters . jumlah operasi input (page read) dan output (page write) ke disk.
// satu-satunya state yang atomic, komponen lain tidak thread safe.
type IOCounters struct {
	reads  atomic.Int64
	writes atomic.Int64
}

// IOStats . snapshot IOCounters.
type IOStats struct {
	Reads  int64
	Writes int64
}

func (s IOStats) Total() int64 {
	return s.Reads + s.Writes
}

func NewIOCounters() *IOCounters {
	return &IOCounters{}
}

func (c *IOCounters) IncRead() {
	c.reads.Add(1)
}

func (c *IOCounters) IncWrite() {
	c.writes.Add(1)
}

func (c *IOCounters) Reads() int64 {
	return c.reads.Load()
}

func (c *IOCounters) Writes() int64 {
	return c.writes.Load()
}

func (c *IOCounters) Snapshot() IOStats {
	return IOStats{Reads: c.Reads(), Writes: c.Writes()}
}

// Since. selisih counter sekarang dengan snapshot start.
func (c *IOCounters) Since(start IOStats) IOStats {
	now := c.Snapshot()
	return IOStats{Reads: now.Reads - start.Reads, Writes: now.Writes - start.Writes}
}

func (c *IOCounters) Reset() {
	c.reads.Store(0)
	c.writes.Store(0)
}
