package indel

import (
	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// Downstream flank lengths for single-base indels.
const (
	deletionHomopolymerFlank  = 19
	insertionHomopolymerFlank = 20
)

// homopolymerLength counts the leading bases of flank equal to base.
func homopolymerLength(base byte, flank string) int {
	n := 0
	for n < len(flank) && flank[n] == base {
		n++
	}
	return n
}

// classifyHomopolymers labels single-base indels by the canonical indel
// base and the homopolymer run downstream of the variant. A deleted base is
// itself part of the run, so deletions count one extra.
func classifyHomopolymers(p genome.Provider, vs []*vcf.Variant, deletion bool) ([]*Classified, error) {
	flankLen := insertionHomopolymerFlank
	if deletion {
		flankLen = deletionHomopolymerFlank
	}

	ivs := make([]Interval, len(vs))
	for i, v := range vs {
		ivs[i] = Downstream(v, flankLen)
	}
	flanks, err := FetchFlanks(p, ivs)
	if err != nil {
		return nil, err
	}

	out := make([]*Classified, len(vs))
	for i, v := range vs {
		var base byte
		if deletion {
			base = deletedBases(v)[0]
		} else {
			base = insertedBases(v)[0]
		}

		run := homopolymerLength(base, flanks[i])
		if deletion {
			run++
		}

		out[i] = &Classified{
			Variant:    v,
			Category:   homopolymerCategory(base, deletion),
			Subfeature: run,
		}
	}
	return out, nil
}
