package disk

import "fmt"

// BlockID. menyimpan informasi page disimpan di table mana dan di page number berapa. dipakai sebagai key buffer pool,
// jadi nama table yang mengandung "_" diikuti angka tidak bisa bertabrakan dengan page dari table lain.
type BlockID struct {
	table   string
	pageNum int
}

func NewBlockID(table string, pageNum int) BlockID {

	return BlockID{
		table:   table,
		pageNum: pageNum,
	}
}

func (b BlockID) GetTable() string {
	return b.table
}

func (b BlockID) GetPageNum() int {
	return b.pageNum
}

func (b BlockID) String() string {
	return fmt.Sprintf("%s#%d", b.table, b.pageNum)
}
