package disk

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ReadLine. baca satu line dari r tanpa batas panjang, '\n' dibuang. line terakhir tanpa '\n' tetap di-return.
// false kalau r sudah habis.
func ReadLine(r *bufio.Reader) (string, bool, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return line, line != "", nil
		}
		return "", false, err
	}
	return strings.TrimSuffix(line, "\n"), true, nil
}
