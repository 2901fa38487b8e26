package genome

import (
	"slices"
	"strconv"
	"strings"
)

// chromRank orders autosomes numerically, then X, Y and the mitochondrial
// chromosome, then everything else (contigs, decoys) by name.
func chromRank(chrom string) (int, string) {
	name := strings.TrimPrefix(chrom, "chr")
	if n, err := strconv.Atoi(name); err == nil && n > 0 {
		return n, ""
	}
	switch name {
	case "X":
		return 1 << 20, ""
	case "Y":
		return 1<<20 + 1, ""
	case "M", "MT":
		return 1<<20 + 2, ""
	}
	return 1 << 21, name
}

// CompareChromosomes orders chromosome names naturally: 1, 2, ..., 22, X, Y, M.
// The "chr" prefix is ignored; names that still tie compare lexically.
func CompareChromosomes(a, b string) int {
	ra, na := chromRank(a)
	rb, nb := chromRank(b)
	switch {
	case ra != rb:
		if ra < rb {
			return -1
		}
		return 1
	case na != nb:
		return strings.Compare(na, nb)
	}
	return strings.Compare(a, b)
}

func sortChroms(names []string) {
	slices.SortFunc(names, CompareChromosomes)
}
