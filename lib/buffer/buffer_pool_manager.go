package buffer

import (
	"fmt"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"go.uber.org/zap"
)

// https://15445.courses.cs.cmu.edu/spring2023/slides/06-bufferpool.pdf

// Stats . statistik akses buffer pool.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Flushes   int64
}

// BufferPoolManager . LRU cache berkapasitas tetap di depan file table. write selalu write-through.
// tidak thread safe.
type BufferPoolManager struct {
	diskManager DiskManager
	bufferPool  []*Buffer            // frame arena, index = frameID
	poolSize    int                  // jumlah frame
	bufferTable map[disk.BlockID]int // mapping antara page blockID dengan frameID. {blockID: frameID}
	freeList    []int                // list frame yang tidak hold any page data.
	replacer    *LRUReplacer         // LRU replacer buat evict least recently used page dari buffer pool.
	stats       Stats
	log         *zap.Logger
}

type Option func(*BufferPoolManager)

func WithLogger(log *zap.Logger) Option {
	return func(bpm *BufferPoolManager) {
		bpm.log = log
	}
}

// NewBufferPoolManager. initialize buffer pool manager dengan numBuffers frame.
func NewBufferPoolManager(numBuffers int, diskManager DiskManager, opts ...Option) *BufferPoolManager {
	if numBuffers <= 0 {
		numBuffers = lib.BUFFER_POOL_SIZE
	}

	bufferPool := make([]*Buffer, numBuffers)
	for i := 0; i < numBuffers; i++ {
		bufferPool[i] = NewBuffer(diskManager)
	}

	fl := make([]int, numBuffers)
	for i := 0; i < numBuffers; i++ {
		fl[i] = i
	}

	bpm := &BufferPoolManager{
		diskManager: diskManager,
		bufferPool:  bufferPool,
		poolSize:    numBuffers,
		bufferTable: make(map[disk.BlockID]int, numBuffers),
		freeList:    fl,
		replacer:    NewLRUReplacer(numBuffers),
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(bpm)
	}
	return bpm
}

/*
GetPage. fetch page dengan blockID (table, pageNum) dari buffer pool. kalau hit, page jadi most recently used.
kalau miss, ambil frame dari freelist or evict least recently used page (flush dulu kalau dirty),
lalu read page dari disk & put di frame tsb sebagai most recently used.

page yang di-return dimiliki buffer pool, hanya valid sampai page tsb di evict.
*/
func (bpm *BufferPoolManager) GetPage(table string, pageNum int) (*disk.Page, error) {
	blockID := disk.NewBlockID(table, pageNum)

	if frameID, ok := bpm.bufferTable[blockID]; ok {
		bpm.stats.Hits++
		bpm.replacer.Touch(frameID)
		return bpm.bufferPool[frameID].getContents(), nil
	}

	bpm.stats.Misses++
	frameID, err := bpm.acquireFrame()
	if err != nil {
		return nil, fmt.Errorf("failed to get frame for %s: %w", blockID, err)
	}

	page := bpm.diskManager.ReadPage(table, pageNum)
	bpm.install(frameID, blockID, page)
	return page, nil
}

/*
WritePage. put copy page ke buffer pool sebagai most recently used (evict kalau perlu), lalu langsung write ke disk.
kalau write ke disk gagal, frame page tsb dibuang supaya cache tidak beda dengan disk.
*/
func (bpm *BufferPoolManager) WritePage(table string, page *disk.Page) error {
	blockID := disk.NewBlockID(table, page.ID())
	page.SetDirty(true)

	frameID, ok := bpm.bufferTable[blockID]
	if !ok {
		var err error
		frameID, err = bpm.acquireFrame()
		if err != nil {
			return fmt.Errorf("failed to get frame for %s: %w", blockID, err)
		}
	}

	cached := page.Clone()
	bpm.install(frameID, blockID, cached)

	if err := bpm.diskManager.WritePage(table, cached); err != nil {
		bpm.discard(frameID)
		return fmt.Errorf("write-through %s: %w", blockID, err)
	}
	bpm.stats.Flushes++
	page.SetDirty(false)
	return nil
}

// FlushAll. write semua page dirty ke disk tanpa evict frame.
func (bpm *BufferPoolManager) FlushAll() error {
	for _, frameID := range bpm.replacer.Order() {
		buffer := bpm.bufferPool[frameID]
		if !buffer.getIsDirty() {
			continue
		}
		if err := buffer.flush(); err != nil {
			return fmt.Errorf("flush %s: %w", buffer.getBlockID(), err)
		}
		bpm.stats.Flushes++
	}
	return nil
}

// ResetTable. buang semua frame milik table (tanpa flush) dan kosongkan file table.
func (bpm *BufferPoolManager) ResetTable(table string) error {
	for blockID, frameID := range bpm.bufferTable {
		if blockID.GetTable() == table {
			bpm.discard(frameID)
		}
	}
	return bpm.diskManager.CreateTableFile(table)
}

// TotalPages. jumlah page table yang tersimpan di disk.
func (bpm *BufferPoolManager) TotalPages(table string) int {
	return bpm.diskManager.GetTotalPages(table)
}

// acquireFrame. ambil frame kosong dari freelist, kalau tidak ada evict least recently used frame.
func (bpm *BufferPoolManager) acquireFrame() (int, error) {
	if len(bpm.freeList) != 0 {
		frameID := bpm.freeList[0]
		bpm.freeList = bpm.freeList[1:]
		return frameID, nil
	}

	var frameID int
	if !bpm.replacer.Victim(&frameID) {
		return 0, fmt.Errorf("no available frame")
	}

	victim := bpm.bufferPool[frameID]
	if victim.getIsDirty() {
		// kalau page yang di evict dari buffer pool dirty (habis diupdate), flush page tsb
		if err := victim.flush(); err != nil {
			bpm.replacer.Restore(frameID)
			return 0, fmt.Errorf("failed to flush dirty victim %s: %w", victim.getBlockID(), err)
		}
		bpm.stats.Flushes++
	}

	bpm.log.Debug("evict page", zap.Stringer("block", victim.getBlockID()), zap.Int("frame", frameID))
	delete(bpm.bufferTable, victim.getBlockID())
	victim.ResetMemory()
	bpm.stats.Evictions++
	return frameID, nil
}

func (bpm *BufferPoolManager) install(frameID int, blockID disk.BlockID, page *disk.Page) {
	bpm.bufferPool[frameID].assignToBlock(blockID, page)
	bpm.bufferTable[blockID] = frameID
	bpm.replacer.Touch(frameID)
}

// discard. kosongkan frame tanpa flush & kembalikan ke freelist.
func (bpm *BufferPoolManager) discard(frameID int) {
	buffer := bpm.bufferPool[frameID]
	if !buffer.isEmpty() {
		delete(bpm.bufferTable, buffer.getBlockID())
	}
	buffer.ResetMemory()
	bpm.replacer.Remove(frameID)
	bpm.freeList = append(bpm.freeList, frameID)
}

func (bpm *BufferPoolManager) Contains(table string, pageNum int) bool {
	_, ok := bpm.bufferTable[disk.NewBlockID(table, pageNum)]
	return ok
}

// Size. jumlah frame yang terisi.
func (bpm *BufferPoolManager) Size() int {
	return len(bpm.bufferTable)
}

func (bpm *BufferPoolManager) Capacity() int {
	return bpm.poolSize
}

func (bpm *BufferPoolManager) IsFull() bool {
	return len(bpm.bufferTable) >= bpm.poolSize
}

// CachedBlocks. blockID yang ada di buffer pool, dari most recently used ke least recently used.
func (bpm *BufferPoolManager) CachedBlocks() []disk.BlockID {
	order := bpm.replacer.Order()
	blocks := make([]disk.BlockID, 0, len(order))
	for _, frameID := range order {
		blocks = append(blocks, bpm.bufferPool[frameID].getBlockID())
	}
	return blocks
}

func (bpm *BufferPoolManager) Stats() Stats {
	return bpm.stats
}

func (bpm *BufferPoolManager) Counters() *disk.IOCounters {
	return bpm.diskManager.Counters()
}
