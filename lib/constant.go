package lib

const (
	MAX_ROWS          = 10 // rows per page
	BUFFER_POOL_SIZE  = 4  // frames in the buffer pool
	SORT_BUFFER_PAGES = 3  // pages of rows held in memory during run generation
	SORT_BUFFER_SIZE  = SORT_BUFFER_PAGES * MAX_ROWS

	DATA_DIR        = "data"
	TABLE_FILE_EXT  = ".dat"
	TEMP_FILE_EXT   = ".tmp"
	FIELD_DELIMITER = '|'

	LEFT_PREFIX  = "left_"
	RIGHT_PREFIX = "right_"
)
