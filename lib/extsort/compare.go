package extsort

import (
	"cmp"
	"math/big"
	"strings"

	"github.com/israelnicolas940/Sort-Merge-Join/lib/disk"
	"github.com/shopspring/decimal"
)

// maxExactExponent. di atas batas ini Cmp decimal harus rescale ke big.Int yang sangat besar,
// jadi perbandingan pindah ke big.Float.
const (
	maxExactExponent = 1000
	floatPrec        = 256
)

// CompareValues. kalau a dan b dua-duanya angka, bandingkan secara numerik (exact pakai decimal, atau
// big.Float kalau exponent-nya ekstrem). kalau tidak, bandingkan secara lexicographic. return -1, 0, atau 1.
func CompareValues(a, b string) int {
	if da, err := decimal.NewFromString(a); err == nil {
		if db, err := decimal.NewFromString(b); err == nil {
			if boundedExponent(da) && boundedExponent(db) {
				return da.Cmp(db)
			}
			return compareHuge(a, b, da, db)
		}
	}
	return strings.Compare(a, b)
}

func boundedExponent(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExactExponent && exp <= maxExactExponent
}

// compareHuge. sign dulu (0 tidak pernah masuk big.Float supaya tidak ada 0 * Inf), lalu big.Float.
// kalau big.Float gagal parse, bandingkan exponent.
func compareHuge(a, b string, da, db decimal.Decimal) int {
	sa, sb := da.Sign(), db.Sign()
	if sa != sb || sa == 0 {
		return cmp.Compare(sa, sb)
	}
	if c, ok := compareFloat(a, b); ok {
		return c
	}
	return sa * cmp.Compare(da.Exponent(), db.Exponent())
}

func compareFloat(a, b string) (int, bool) {
	fa, _, err := big.ParseFloat(a, 10, floatPrec, big.ToNearestEven)
	if err != nil {
		return 0, false
	}
	fb, _, err := big.ParseFloat(b, 10, floatPrec, big.ToNearestEven)
	if err != nil {
		return 0, false
	}
	return fa.Cmp(fb), true
}

// RowComparator. bandingkan dua row berdasarkan satu kolom.
func RowComparator(column int) func(a, b disk.Row) int {
	return func(a, b disk.Row) int {
		return CompareValues(a[column], b[column])
	}
}
