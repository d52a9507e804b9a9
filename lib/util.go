package lib

// CeilPages. jumlah page yang dibutuhkan untuk menyimpan rowCount rows.
func CeilPages(rowCount int) int {
	if rowCount <= 0 {
		return 0
	}
	return (rowCount + MAX_ROWS - 1) / MAX_ROWS
}
