package buffer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// failingDisk. disk manager yang bisa dibuat gagal waktu write.
type failingDisk struct {
	*disk.DiskManager
	failWrites bool
}

func (f *failingDisk) WritePage(table string, page *disk.Page) error {
	if f.failWrites {
		f.Counters().IncWrite()
		return lib.IOError("write page", lib.ErrUnwritable)
	}
	return f.DiskManager.WritePage(table, page)
}

func newTestDisk(t *testing.T) *disk.DiskManager {
	t.Helper()
	dm, err := disk.NewDiskManager(t.TempDir(), disk.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return dm
}

func makePage(id int, value string) *disk.Page {
	page := disk.NewPage(id)
	for i := 0; i < lib.MAX_ROWS; i++ {
		page.AddRow(disk.Row{fmt.Sprintf("%s-%d", value, i), fmt.Sprintf("%d", id)})
	}
	return page
}

// writeTable. tulis numPages page penuh langsung ke disk.
func writeTable(t *testing.T, dm *disk.DiskManager, table string, numPages int) {
	t.Helper()
	for i := 0; i < numPages; i++ {
		require.NoError(t, dm.WritePage(table, makePage(i, table)))
	}
	dm.Counters().Reset()
}

func TestBufferManager(t *testing.T) {
	t.Run("cache never holds more than capacity", func(t *testing.T) {
		faker := gofakeit.New(0)
		for _, capacity := range []int{1, 2, lib.BUFFER_POOL_SIZE, 7} {
			dm := newTestDisk(t)
			writeTable(t, dm, "t", 12)
			bm := NewBufferPoolManager(capacity, dm)

			for i := 0; i < 200; i++ {
				pageNum := faker.Number(0, 11)
				if faker.Bool() {
					_, err := bm.GetPage("t", pageNum)
					require.NoError(t, err)
				} else {
					require.NoError(t, bm.WritePage("t", makePage(pageNum, "t")))
				}
				assert.LessOrEqual(t, bm.Size(), capacity)
				assert.Len(t, bm.CachedBlocks(), bm.Size())
			}
		}
	})

	t.Run("default capacity", func(t *testing.T) {
		bm := NewBufferPoolManager(0, newTestDisk(t))
		assert.Equal(t, lib.BUFFER_POOL_SIZE, bm.Capacity())
	})

	t.Run("least recently used is evicted, not first inserted", func(t *testing.T) {
		dm := newTestDisk(t)
		writeTable(t, dm, "t", lib.BUFFER_POOL_SIZE+1)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)

		for i := 0; i < lib.BUFFER_POOL_SIZE; i++ {
			_, err := bm.GetPage("t", i)
			require.NoError(t, err)
		}
		_, err := bm.GetPage("t", 0) // re-access first key
		require.NoError(t, err)

		_, err = bm.GetPage("t", lib.BUFFER_POOL_SIZE)
		require.NoError(t, err)

		assert.True(t, bm.Contains("t", 0))
		assert.False(t, bm.Contains("t", 1))
		assert.True(t, bm.IsFull())
	})

	t.Run("first key is evicted when not re-accessed", func(t *testing.T) {
		dm := newTestDisk(t)
		writeTable(t, dm, "t", lib.BUFFER_POOL_SIZE+1)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)

		for i := 0; i <= lib.BUFFER_POOL_SIZE; i++ {
			_, err := bm.GetPage("t", i)
			require.NoError(t, err)
		}
		assert.False(t, bm.Contains("t", 0))
		assert.Equal(t, int64(1), bm.Stats().Evictions)
	})

	t.Run("write through", func(t *testing.T) {
		dm := newTestDisk(t)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)

		page := makePage(0, "wt")
		require.NoError(t, bm.WritePage("t", page))
		assert.False(t, page.IsDirty())
		assert.Equal(t, int64(1), dm.Counters().Writes())

		cached, err := bm.GetPage("t", 0)
		require.NoError(t, err)
		assert.Equal(t, page.Rows(), cached.Rows())
		assert.False(t, cached.IsDirty())
		assert.Equal(t, int64(0), dm.Counters().Reads())

		assert.Equal(t, page.Rows(), dm.ReadPage("t", 0).Rows())
	})

	t.Run("cached copy does not alias caller page", func(t *testing.T) {
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, newTestDisk(t))

		page := makePage(0, "a")
		require.NoError(t, bm.WritePage("t", page))
		page.SetField(0, 0, "mutated")

		cached, err := bm.GetPage("t", 0)
		require.NoError(t, err)
		assert.Equal(t, "a-0", cached.Row(0)[0])
	})

	t.Run("dirty page evicted from cache is persisted", func(t *testing.T) {
		dm := newTestDisk(t)
		writeTable(t, dm, "t", lib.BUFFER_POOL_SIZE+1)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)

		page, err := bm.GetPage("t", 0)
		require.NoError(t, err)
		page.SetField(3, 0, "changed")
		require.True(t, page.IsDirty())

		for i := 1; i <= lib.BUFFER_POOL_SIZE; i++ {
			_, err := bm.GetPage("t", i)
			require.NoError(t, err)
		}
		require.False(t, bm.Contains("t", 0))
		assert.Equal(t, int64(1), dm.Counters().Writes())

		fromDisk := dm.ReadPage("t", 0)
		assert.Equal(t, disk.Row{"changed", "0"}, fromDisk.Row(3))
		assert.Equal(t, disk.Row{"t-4", "0"}, fromDisk.Row(4))
	})

	t.Run("evicted page with a very long row is recovered from disk", func(t *testing.T) {
		dm := newTestDisk(t)
		bm := NewBufferPoolManager(1, dm)
		big := strings.Repeat("x", 2<<20)

		p0 := makePage(0, "t")
		p0.SetField(0, 0, big)
		require.NoError(t, bm.WritePage("t", p0))
		require.NoError(t, bm.WritePage("t", makePage(1, "t")))
		require.False(t, bm.Contains("t", 0))

		page, err := bm.GetPage("t", 0)
		require.NoError(t, err)
		require.Equal(t, lib.MAX_ROWS, page.Len())
		assert.Equal(t, disk.Row{big, "0"}, page.Row(0))
		assert.Equal(t, disk.Row{"t-1", "0"}, page.Row(1))
		assert.Equal(t, 2, bm.TotalPages("t"))
	})

	t.Run("cache hit does not touch disk", func(t *testing.T) {
		dm := newTestDisk(t)
		writeTable(t, dm, "t", 1)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)

		_, err := bm.GetPage("t", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), dm.Counters().Reads())

		_, err = bm.GetPage("t", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), dm.Counters().Reads())
		assert.Equal(t, Stats{Hits: 1, Misses: 1}, bm.Stats())
	})

	t.Run("every write counts one output regardless of row count", func(t *testing.T) {
		dm := newTestDisk(t)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)

		small := disk.NewPage(0)
		small.AddRow(disk.Row{"1"})
		require.NoError(t, bm.WritePage("t", small))
		require.NoError(t, bm.WritePage("t", makePage(1, "x")))
		require.NoError(t, bm.WritePage("t", makePage(1, "y")))
		assert.Equal(t, int64(3), dm.Counters().Writes())
	})

	t.Run("flush all persists dirty pages without evicting", func(t *testing.T) {
		dm := newTestDisk(t)
		writeTable(t, dm, "t", 3)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)

		for i := 0; i < 3; i++ {
			page, err := bm.GetPage("t", i)
			require.NoError(t, err)
			if i != 1 {
				page.SetField(0, 0, fmt.Sprintf("flushed-%d", i))
			}
		}

		require.NoError(t, bm.FlushAll())
		assert.Equal(t, 3, bm.Size())
		assert.Equal(t, int64(2), dm.Counters().Writes())
		assert.Equal(t, "flushed-0", dm.ReadPage("t", 0).Row(0)[0])
		assert.Equal(t, "flushed-2", dm.ReadPage("t", 2).Row(0)[0])

		for _, block := range bm.CachedBlocks() {
			page, err := bm.GetPage(block.GetTable(), block.GetPageNum())
			require.NoError(t, err)
			assert.False(t, page.IsDirty())
		}
	})

	t.Run("tables with similar names do not collide", func(t *testing.T) {
		dm := newTestDisk(t)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)

		require.NoError(t, bm.WritePage("t_1", makePage(0, "first")))
		require.NoError(t, bm.WritePage("t", makePage(1, "second")))
		first, err := bm.GetPage("t_1", 0)
		require.NoError(t, err)
		second, err := bm.GetPage("t", 1)
		require.NoError(t, err)
		assert.Equal(t, "first-0", first.Row(0)[0])
		assert.Equal(t, "second-0", second.Row(0)[0])
	})

	t.Run("reset table drops cached frames and truncates file", func(t *testing.T) {
		dm := newTestDisk(t)
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, dm)
		require.NoError(t, bm.WritePage("t", makePage(0, "a")))
		require.NoError(t, bm.WritePage("other", makePage(0, "b")))

		require.NoError(t, bm.ResetTable("t"))
		assert.False(t, bm.Contains("t", 0))
		assert.True(t, bm.Contains("other", 0))
		assert.Equal(t, 0, bm.TotalPages("t"))

		page, err := bm.GetPage("t", 0)
		require.NoError(t, err)
		assert.True(t, page.IsEmpty())
	})

	t.Run("failed write-through leaves cache consistent with disk", func(t *testing.T) {
		fd := &failingDisk{DiskManager: newTestDisk(t)}
		bm := NewBufferPoolManager(lib.BUFFER_POOL_SIZE, fd)
		require.NoError(t, bm.WritePage("t", makePage(0, "old")))

		fd.failWrites = true
		page := makePage(0, "new")
		err := bm.WritePage("t", page)
		require.Error(t, err)
		assert.True(t, errors.Is(err, lib.ErrUnwritable))
		assert.True(t, page.IsDirty())
		assert.False(t, bm.Contains("t", 0))

		fd.failWrites = false
		cached, err := bm.GetPage("t", 0)
		require.NoError(t, err)
		assert.Equal(t, "old-0", cached.Row(0)[0])
	})

	t.Run("failed victim flush keeps victim cached", func(t *testing.T) {
		fd := &failingDisk{DiskManager: newTestDisk(t)}
		for i := 0; i < 2; i++ {
			require.NoError(t, fd.DiskManager.WritePage("t", makePage(i, "t")))
		}
		bm := NewBufferPoolManager(1, fd)

		page, err := bm.GetPage("t", 0)
		require.NoError(t, err)
		page.SetField(0, 0, "dirty")

		fd.failWrites = true
		_, err = bm.GetPage("t", 1)
		require.Error(t, err)
		assert.True(t, bm.Contains("t", 0))
		assert.Equal(t, 1, bm.Size())

		fd.failWrites = false
		_, err = bm.GetPage("t", 1)
		require.NoError(t, err)
		assert.Equal(t, "dirty", fd.ReadPage("t", 0).Row(0)[0])
	})
}
