package indel

import (
	"fmt"

	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// Interval is a 1-based, inclusive reference interval.
type Interval struct {
	Chrom      string
	Start, End int64
}

// Downstream returns the length bases following the variant's last reference base.
func Downstream(v *vcf.Variant, length int) Interval {
	end := v.End()
	return Interval{Chrom: v.Chrom, Start: end + 1, End: end + int64(length)}
}

// Upstream returns the length bases immediately preceding the deleted bases
// of a deletion. For anchored records this ends at the anchor base.
func Upstream(v *vcf.Variant, length int) Interval {
	first := v.Pos + int64(len(v.Alt)) // first deleted base
	return Interval{Chrom: v.Chrom, Start: first - int64(length), End: first - 1}
}

// Clip shortens the interval to the chromosome. Flanks running off either
// end silently lose the missing bases; ok is false when nothing remains.
func (iv Interval) Clip(p genome.Provider) (Interval, bool) {
	length, known := p.ChromosomeLength(iv.Chrom)
	if !known {
		return iv, false
	}
	start, end, ok := genome.Clip(iv.Start, iv.End, length)
	return Interval{Chrom: iv.Chrom, Start: start, End: end}, ok
}

// FetchFlanks resolves a batch of same-category intervals against the
// reference. The result is index-aligned with ivs; clipped-away intervals
// yield "".
func FetchFlanks(p genome.Provider, ivs []Interval) ([]string, error) {
	seqs := make([]string, len(ivs))
	for i, iv := range ivs {
		clipped, ok := iv.Clip(p)
		if !ok {
			continue
		}
		seq, err := p.Sequence(clipped.Chrom, clipped.Start, clipped.End)
		if err != nil {
			return nil, fmt.Errorf("fetch flank %s:%d-%d: %w", iv.Chrom, iv.Start, iv.End, err)
		}
		seqs[i] = seq
	}
	return seqs, nil
}
