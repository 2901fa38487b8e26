package indel

import (
	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// mhCandidate is a large deletion with no downstream repeat of its deleted bases.
type mhCandidate struct {
	variant *vcf.Variant
	deleted string
	right   string // downstream flank, already fetched for repeat tiling
}

// rightMicrohomology counts deleted bases matching the right flank, left to
// right, until the first mismatch.
func rightMicrohomology(deleted, right string) int {
	n := 0
	for n < len(deleted) && n < len(right) && deleted[n] == right[n] {
		n++
	}
	return n
}

// leftMicrohomology counts deleted bases matching the left flank, reading
// both backwards from the deletion boundary, until the first mismatch.
// A left flank clipped at the chromosome start simply runs out.
func leftMicrohomology(deleted, left string) int {
	n := 0
	for n < len(deleted) && n < len(left) && deleted[len(deleted)-1-n] == left[len(left)-1-n] {
		n++
	}
	return n
}

// classifyMicrohomology labels deletions by the longer of their left and
// right microhomology. Deletions with none keep a plain size category.
func classifyMicrohomology(p genome.Provider, candidates []mhCandidate) ([]*Classified, error) {
	ivs := make([]Interval, len(candidates))
	for i, c := range candidates {
		ivs[i] = Upstream(c.variant, len(c.deleted))
	}
	lefts, err := FetchFlanks(p, ivs)
	if err != nil {
		return nil, err
	}

	out := make([]*Classified, len(candidates))
	for i, c := range candidates {
		mh := max(rightMicrohomology(c.deleted, c.right), leftMicrohomology(c.deleted, lefts[i]))
		if mh > 0 {
			out[i] = &Classified{
				Variant:    c.variant,
				Category:   microhomologyCategory(len(c.deleted)),
				Subfeature: mh,
			}
			continue
		}
		out[i] = &Classified{
			Variant:    c.variant,
			Category:   deletionCategory(len(c.deleted)),
			Subfeature: 1,
		}
	}
	return out, nil
}
