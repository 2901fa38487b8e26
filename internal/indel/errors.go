package indel

import (
	"errors"
	"fmt"

	"github.com/inodb/vibe-indel/internal/vcf"
)

// Sentinel errors matched with errors.Is.
var (
	ErrUnsupportedVariantType = errors.New("unsupported variant type")
	ErrMultiAllelicVariant    = errors.New("multi-allelic variant")
	ErrChromosomeMismatch     = errors.New("chromosome mismatch")
)

// UnsupportedVariantTypeError reports a record that is not an indel.
type UnsupportedVariantTypeError struct {
	Variant *vcf.Variant
	Reason  string
}

func (e *UnsupportedVariantTypeError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrUnsupportedVariantType, describe(e.Variant), e.Reason)
}

func (e *UnsupportedVariantTypeError) Unwrap() error { return ErrUnsupportedVariantType }

// MultiAllelicVariantError reports a record with more than one alternate allele.
type MultiAllelicVariantError struct {
	Variant *vcf.Variant
}

func (e *MultiAllelicVariantError) Error() string {
	return fmt.Sprintf("%s at %s: split alternate alleles before classifying", ErrMultiAllelicVariant, describe(e.Variant))
}

func (e *MultiAllelicVariantError) Unwrap() error { return ErrMultiAllelicVariant }

// ChromosomeMismatchError reports a variant chromosome the reference cannot serve.
type ChromosomeMismatchError struct {
	Variant        *vcf.Variant
	VariantStyle   string
	ReferenceStyle string
}

func (e *ChromosomeMismatchError) Error() string {
	if e.VariantStyle != e.ReferenceStyle {
		return fmt.Sprintf("%s at %s: variants use %s chromosome names, reference uses %s",
			ErrChromosomeMismatch, describe(e.Variant), e.VariantStyle, e.ReferenceStyle)
	}
	return fmt.Sprintf("%s at %s: chromosome %q not in reference",
		ErrChromosomeMismatch, describe(e.Variant), e.Variant.Chrom)
}

func (e *ChromosomeMismatchError) Unwrap() error { return ErrChromosomeMismatch }

func describe(v *vcf.Variant) string {
	return fmt.Sprintf("%s:%d %s>%s", v.Chrom, v.Pos, v.Ref, v.Alt)
}
