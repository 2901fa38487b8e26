// Package indel classifies insertions and deletions into the context
// categories used for indel mutational signatures: homopolymer indels,
// repeat-region indels and microhomology-mediated deletions.
package indel

import (
	"fmt"

	"github.com/inodb/vibe-indel/internal/vcf"
)

// Class is the structural class of an indel, chosen by its size.
type Class int

// Structural classes, from mut_size = len(alt) - len(ref).
const (
	SingleBaseDeletion  Class = iota // mut_size == -1
	SingleBaseInsertion              // mut_size == +1
	LargeDeletion                    // mut_size < -1
	LargeInsertion                   // mut_size > +1
	numClasses
)

var classNames = [numClasses]string{"1bp_deletion", "1bp_insertion", "large_deletion", "large_insertion"}

func (c Class) String() string {
	if c < 0 || c >= numClasses {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// ClassOf returns the structural class for a non-zero mut_size.
func ClassOf(mutSize int) Class {
	switch {
	case mutSize == -1:
		return SingleBaseDeletion
	case mutSize == 1:
		return SingleBaseInsertion
	case mutSize < -1:
		return LargeDeletion
	default:
		return LargeInsertion
	}
}

// Partition splits a validated set by structural class, keeping input order
// within each class. Empty classes have nil slices.
func Partition(set []*vcf.Variant) [numClasses][]*vcf.Variant {
	var parts [numClasses][]*vcf.Variant
	for _, v := range set {
		c := ClassOf(v.MutSize())
		parts[c] = append(parts[c], v)
	}
	return parts
}

// Classified is a variant with its indel context.
type Classified struct {
	Variant    *vcf.Variant
	Category   string // e.g. "T_deletion", "3bp_deletion_with_microhomology"
	Subfeature int    // homopolymer length, repeat count or microhomology length
}

// deletedBases returns the bases removed by a deletion: the reference tail
// beyond the alternate allele. For anchored records this is ref[1:].
func deletedBases(v *vcf.Variant) string {
	return v.Ref[len(v.Alt):]
}

// insertedBases returns the bases added by an insertion: alt[1:] for
// anchored records.
func insertedBases(v *vcf.Variant) string {
	return v.Alt[len(v.Ref):]
}

// canonicalBase collapses complementary bases onto C and T.
func canonicalBase(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'G':
		return 'C'
	}
	return b
}

func homopolymerCategory(base byte, deletion bool) string {
	if deletion {
		return string(canonicalBase(base)) + "_deletion"
	}
	return string(canonicalBase(base)) + "_insertion"
}

func deletionCategory(size int) string {
	return fmt.Sprintf("%dbp_deletion", size)
}

func microhomologyCategory(size int) string {
	return fmt.Sprintf("%dbp_deletion_with_microhomology", size)
}

func insertionCategory(size int) string {
	return fmt.Sprintf("%dbp_insertion", size)
}
