// Package vcf provides VCF file parsing functionality.
package vcf

import "strings"

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom  string // Chromosome name (e.g., "12", "chr12")
	Pos    int64  // 1-based genomic position
	ID     string // Variant identifier (e.g., rs ID)
	Ref    string // Reference allele
	Alt    string // Alternate allele(s), comma-separated when multi-allelic
	Qual   float64
	Filter string // Filter status (PASS or filter name)
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IsMultiAllelic returns true if the record carries more than one alternate allele.
func (v *Variant) IsMultiAllelic() bool {
	return strings.Contains(v.Alt, ",")
}

// MutSize returns len(Alt) - len(Ref): positive for insertions, negative for deletions.
func (v *Variant) MutSize() int {
	return len(v.Alt) - len(v.Ref)
}

// End returns the 1-based position of the last reference base covered by the record.
func (v *Variant) End() int64 {
	return v.Pos + int64(len(v.Ref)) - 1
}

// IsPass returns true if the record passed all filters.
func (v *Variant) IsPass() bool {
	return v.Filter == "PASS" || v.Filter == "."
}
