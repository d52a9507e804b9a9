package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/israelnicolas940/Sort-Merge-Join/lib/join"
)

const (
	reportRows  = 10
	columnWidth = 15
)

// printJoinResult. total io, jumlah row, header kolom lalu 10 row pertama.
func printJoinResult(w io.Writer, res *join.Result) {
	fmt.Fprintln(w, "\n=== JOIN RESULT ===")
	fmt.Fprintf(w, "Total I/O Operations: %d\n", res.IOOperations())
	fmt.Fprintf(w, "Result Rows: %d\n", res.Len())

	fmt.Fprintf(w, "\nColumns: %s\n", formatFields(res.Columns))
	fmt.Fprintln(w, strings.Repeat("-", len(res.Columns)*(columnWidth+3)))

	head := res.Head(reportRows)
	for _, row := range head {
		fmt.Fprintln(w, formatFields(row[:min(len(row), len(res.Columns))]))
	}
	if rest := res.Len() - len(head); rest > 0 {
		fmt.Fprintf(w, "... (%d more rows)\n", rest)
	}
	fmt.Fprintln(w)
}

func formatFields(fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%*s", columnWidth, f)
	}
	return strings.Join(parts, " | ")
}
