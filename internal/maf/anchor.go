package maf

import (
	"fmt"

	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/indel"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// Anchor converts a MAF-style indel, which has an empty allele, into the
// VCF convention of a shared leading reference base:
//
//	insertion  Start_Position=100 -/TT   ->  100 C/CTT   (C at 100)
//	deletion   Start_Position=101 AG/-   ->  100 CAG/C   (C at 100)
//
// Records with two non-empty alleles are returned unchanged. A chromosome
// the reference lacks is a *indel.ChromosomeMismatchError, as Validate
// would report it. The input is never modified.
func Anchor(ref genome.Provider, v *vcf.Variant) (*vcf.Variant, error) {
	var anchorPos int64
	switch {
	case v.Ref == "" && v.Alt == "":
		return nil, fmt.Errorf("%s:%d: both alleles empty", v.Chrom, v.Pos)
	case v.Ref == "":
		anchorPos = v.Pos // MAF insertions start at the base before the event
	case v.Alt == "":
		anchorPos = v.Pos - 1
	default:
		return v, nil
	}

	if _, ok := ref.ChromosomeLength(v.Chrom); !ok {
		return nil, &indel.ChromosomeMismatchError{
			Variant:        v,
			VariantStyle:   string(genome.StyleOf(v.Chrom)),
			ReferenceStyle: string(genome.StyleOfProvider(ref)),
		}
	}
	if anchorPos < 1 {
		return nil, fmt.Errorf("%s:%d: no reference base before the event", v.Chrom, v.Pos)
	}
	base, err := ref.Sequence(v.Chrom, anchorPos, anchorPos)
	if err != nil {
		return nil, fmt.Errorf("fetch anchor base: %w", err)
	}
	if base == "" {
		return nil, fmt.Errorf("%s:%d: anchor base outside chromosome", v.Chrom, anchorPos)
	}

	anchored := *v
	anchored.Pos = anchorPos
	anchored.Ref = base + v.Ref
	anchored.Alt = base + v.Alt
	return &anchored, nil
}

// ReadBySample reads all rows, anchors indels against ref and groups them
// by Tumor_Sample_Barcode. Sample names are returned in first-seen order.
func ReadBySample(p *Parser, ref genome.Provider) ([]string, map[string][]*vcf.Variant, error) {
	var names []string
	sets := make(map[string][]*vcf.Variant)

	for {
		rec, err := p.NextRecord()
		if err != nil {
			return nil, nil, err
		}
		if rec == nil {
			return names, sets, nil
		}

		v, err := Anchor(ref, rec.Variant)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", p.LineNumber(), err)
		}
		if _, ok := sets[rec.Sample]; !ok {
			names = append(names, rec.Sample)
		}
		sets[rec.Sample] = append(sets[rec.Sample], v)
	}
}
