package indel

import (
	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// Validate checks a whole variant set before any sequence is fetched.
// The first offending record aborts the call.
//
// Per record, in order: more than one alternate allele is a
// MultiAllelicVariantError; an empty allele or equal-length alleles
// (SNVs, MNVs) an UnsupportedVariantTypeError; a chromosome whose naming
// style differs from the reference, or which the reference lacks, a
// ChromosomeMismatchError.
func Validate(p genome.Provider, set []*vcf.Variant) error {
	refStyle := genome.StyleOfProvider(p)

	for _, v := range set {
		if v.IsMultiAllelic() {
			return &MultiAllelicVariantError{Variant: v}
		}
		if v.Ref == "" || v.Alt == "" {
			return &UnsupportedVariantTypeError{Variant: v, Reason: "empty allele"}
		}
		if v.IsSNV() {
			return &UnsupportedVariantTypeError{Variant: v, Reason: "single nucleotide variant"}
		}
		if !v.IsIndel() {
			return &UnsupportedVariantTypeError{Variant: v, Reason: "ref and alt have equal length"}
		}

		style := genome.StyleOf(v.Chrom)
		if style != refStyle {
			return &ChromosomeMismatchError{
				Variant:        v,
				VariantStyle:   string(style),
				ReferenceStyle: string(refStyle),
			}
		}
		if _, ok := p.ChromosomeLength(v.Chrom); !ok {
			return &ChromosomeMismatchError{
				Variant:        v,
				VariantStyle:   string(style),
				ReferenceStyle: string(refStyle),
			}
		}
	}

	return nil
}
