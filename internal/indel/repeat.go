package indel

import (
	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// Downstream flank length per base of repeat unit.
const repeatFlankFactor = 20

// countRepeatUnits tiles unit across flank from position 0 and returns the
// number of consecutive copies before the first mismatch or the end of
// flank. It is not an occurrence count: "AA" tiles "AAA" once.
func countRepeatUnits(unit, flank string) int {
	if unit == "" {
		return 0
	}
	n := 0
	for len(flank) >= len(unit) && flank[:len(unit)] == unit {
		n++
		flank = flank[len(unit):]
	}
	return n
}

// repeatFlanks fetches the downstream tiling flank of each variant.
func repeatFlanks(p genome.Provider, vs []*vcf.Variant, units []string) ([]string, error) {
	ivs := make([]Interval, len(vs))
	for i, v := range vs {
		ivs[i] = Downstream(v, len(units[i])*repeatFlankFactor)
	}
	return FetchFlanks(p, ivs)
}

// classifyInsertions labels multi-base insertions by size and the number of
// times the inserted bases repeat downstream.
func classifyInsertions(p genome.Provider, vs []*vcf.Variant) ([]*Classified, error) {
	units := make([]string, len(vs))
	for i, v := range vs {
		units[i] = insertedBases(v)
	}
	flanks, err := repeatFlanks(p, vs, units)
	if err != nil {
		return nil, err
	}

	out := make([]*Classified, len(vs))
	for i, v := range vs {
		out[i] = &Classified{
			Variant:    v,
			Category:   insertionCategory(len(units[i])),
			Subfeature: countRepeatUnits(units[i], flanks[i]),
		}
	}
	return out, nil
}

// classifyDeletions labels multi-base deletions. Deleted bases that repeat
// downstream are repeat-region deletions counted with the deleted copy
// included; the rest go through microhomology detection.
func classifyDeletions(p genome.Provider, vs []*vcf.Variant) ([]*Classified, error) {
	units := make([]string, len(vs))
	for i, v := range vs {
		units[i] = deletedBases(v)
	}
	flanks, err := repeatFlanks(p, vs, units)
	if err != nil {
		return nil, err
	}

	out := make([]*Classified, 0, len(vs))
	var candidates []mhCandidate
	for i, v := range vs {
		repeats := countRepeatUnits(units[i], flanks[i]) + 1
		if repeats > 1 {
			out = append(out, &Classified{
				Variant:    v,
				Category:   deletionCategory(len(units[i])),
				Subfeature: repeats,
			})
			continue
		}
		candidates = append(candidates, mhCandidate{variant: v, deleted: units[i], right: flanks[i]})
	}

	if len(candidates) == 0 {
		return out, nil
	}
	mh, err := classifyMicrohomology(p, candidates)
	if err != nil {
		return nil, err
	}
	return append(out, mh...), nil
}
