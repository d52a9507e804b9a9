package disk

import (
	"strings"

	"github.com/israelnicolas940/Sort-Merge-Join/lib"
)

const (
	escapeChar = '\\'
	emptyRow   = `\0` // satu field kosong, supaya tidak hilang waktu blank line di-strip
)

// EncodeRow. serialize row jadi satu line tanpa newline. field dipisah lib.FIELD_DELIMITER.
func EncodeRow(row Row) string {
	if len(row) == 1 && row[0] == "" {
		return emptyRow
	}

	var sb strings.Builder
	for i, field := range row {
		if i > 0 {
			sb.WriteByte(lib.FIELD_DELIMITER)
		}
		for j := 0; j < len(field); j++ {
			c := field[j]
			switch c {
			case lib.FIELD_DELIMITER, escapeChar:
				sb.WriteByte(escapeChar)
				sb.WriteByte(c)
			case '\n':
				sb.WriteByte(escapeChar)
				sb.WriteByte('n')
			default:
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}

// DecodeRow. kebalikan EncodeRow. line kosong menghasilkan nil.
func DecodeRow(line string) Row {
	if line == "" {
		return nil
	}
	if line == emptyRow {
		return Row{""}
	}
	if !strings.ContainsRune(line, escapeChar) {
		return Row(strings.Split(line, string(lib.FIELD_DELIMITER)))
	}

	row := make(Row, 0, strings.Count(line, string(lib.FIELD_DELIMITER))+1)
	var sb strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == escapeChar && i+1 < len(line):
			i++
			if line[i] == 'n' {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(line[i])
			}
		case c == lib.FIELD_DELIMITER:
			row = append(row, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	return append(row, sb.String())
}
