// Package genome provides read-only access to reference genome sequence.
package genome

import (
	"fmt"
	"os"
	"strings"
)

// Provider returns reference bases for chromosome intervals.
// Implementations must be safe for concurrent reads.
type Provider interface {
	// ChromosomeLength returns the length of chrom and whether it is known.
	ChromosomeLength(chrom string) (int64, bool)

	// Sequence returns the upper-cased bases of chrom in the 1-based,
	// inclusive interval [start, end], clipped to the chromosome bounds.
	Sequence(chrom string, start, end int64) (string, error)

	// Chromosomes returns the chromosome names in the provider.
	Chromosomes() []string
}

// Style is a chromosome naming convention.
type Style string

// Naming conventions.
const (
	StyleUCSC    Style = "UCSC"    // chr1, chrX, chrM
	StyleEnsembl Style = "Ensembl" // 1, X, MT
)

// StyleOf returns the naming convention a chromosome name follows.
func StyleOf(chrom string) Style {
	if strings.HasPrefix(chrom, "chr") {
		return StyleUCSC
	}
	return StyleEnsembl
}

// StyleOfProvider returns the naming convention used by most of the
// provider's chromosomes. Ties favour UCSC.
func StyleOfProvider(p Provider) Style {
	var ucsc, ensembl int
	for _, c := range p.Chromosomes() {
		if StyleOf(c) == StyleUCSC {
			ucsc++
		} else {
			ensembl++
		}
	}
	if ensembl > ucsc {
		return StyleEnsembl
	}
	return StyleUCSC
}

// Clip clamps the 1-based inclusive interval [start, end] to [1, length].
// ok is false when nothing of the interval remains.
func Clip(start, end, length int64) (int64, int64, bool) {
	if start < 1 {
		start = 1
	}
	if end > length {
		end = length
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// UnknownChromosomeError is returned when a provider has no sequence for a chromosome.
type UnknownChromosomeError struct {
	Chrom string
}

func (e *UnknownChromosomeError) Error() string {
	return fmt.Sprintf("unknown chromosome %q", e.Chrom)
}

// Reference is a Provider backed by an open resource.
type Reference interface {
	Provider
	Close() error
}

// Open opens the reference FASTA at path. A sibling .fai index selects
// random-access reads; otherwise the whole file is loaded into memory.
func Open(path string) (Reference, error) {
	if _, err := os.Stat(IndexPath(path)); err == nil {
		ix, err := OpenIndexed(path)
		if err != nil {
			return nil, err
		}
		return ix, nil
	}
	f, err := LoadFASTA(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
