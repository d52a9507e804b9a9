package buffer

import (
	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
)

type DiskManager interface {
	ReadPage(table string, pageNum int) *disk.Page
	WritePage(table string, page *disk.Page) error
	CreateTableFile(table string) error
	GetTotalPages(table string) int
	Counters() *disk.IOCounters
}

// Buffer . satu frame di buffer pool. menyimpan page yang diambil dari disk ke memori.
// frame dialamatkan pakai index di BufferPoolManager.bufferPool, index ini stabil selama umur pool.
type Buffer struct {
	diskManager DiskManager
	contents    *disk.Page   // page yang disimpan di buffer. nil kalau frame kosong
	blockID     disk.BlockID // blockID dari page (table + page number)
}

func NewBuffer(diskManager DiskManager) *Buffer {
	return &Buffer{
		diskManager: diskManager,
	}
}

// getContents. return page contents dari buffer
func (buf *Buffer) getContents() *disk.Page {
	return buf.contents
}

// getBlockID. 	return page blockID  dari buffer
func (buf *Buffer) getBlockID() disk.BlockID {
	return buf.blockID
}

func (buf *Buffer) isEmpty() bool {
	return buf.contents == nil
}

// assignToBlock. isi frame dengan page milik blockID.
func (buf *Buffer) assignToBlock(blockID disk.BlockID, page *disk.Page) {
	buf.blockID = blockID
	buf.contents = page
}

// flush. write page ke disk jika isDirty = true
func (buf *Buffer) flush() error {
	if buf.isEmpty() || !buf.contents.IsDirty() {
		return nil
	}
	return buf.diskManager.WritePage(buf.blockID.GetTable(), buf.contents)
}

// getIsDirty. return dirty flag
func (buf *Buffer) getIsDirty() bool {
	return !buf.isEmpty() && buf.contents.IsDirty()
}

// ResetMemory. kosongkan frame.
func (buf *Buffer) ResetMemory() {
	buf.contents = nil
	buf.blockID = disk.BlockID{}
}
