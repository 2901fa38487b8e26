package genome

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/fai"
)

// Indexed serves reference bases from an uncompressed FASTA file through its
// samtools-style .fai index, reading only the requested intervals.
// Reads go through io.ReaderAt, so concurrent queries need no locking.
type Indexed struct {
	file  *os.File
	fasta *fai.File
	index fai.Index
	order []string
}

// IndexPath returns the conventional .fai path for a FASTA file.
func IndexPath(fastaPath string) string {
	return fastaPath + ".fai"
}

// OpenIndexed opens a FASTA file and its .fai index.
func OpenIndexed(path string) (*Indexed, error) {
	idxFile, err := os.Open(IndexPath(path))
	if err != nil {
		return nil, fmt.Errorf("open fasta index: %w", err)
	}
	defer idxFile.Close()

	idx, err := fai.ReadFrom(idxFile)
	if err != nil {
		return nil, fmt.Errorf("read fasta index: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta file: %w", err)
	}

	ix := NewIndexed(file, idx)
	ix.file = file
	return ix, nil
}

// NewIndexed wraps an already-open FASTA reader and its index.
func NewIndexed(r io.ReaderAt, idx fai.Index) *Indexed {
	order := make([]string, 0, len(idx))
	for name := range idx {
		order = append(order, name)
	}
	sortChroms(order)
	return &Indexed{
		fasta: fai.NewFile(r, idx),
		index: idx,
		order: order,
	}
}

// BuildIndex scans a FASTA file and writes its .fai index next to it.
func BuildIndex(path string) (fai.Index, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta file: %w", err)
	}
	defer in.Close()

	idx, err := fai.NewIndex(in)
	if err != nil {
		return nil, fmt.Errorf("index fasta: %w", err)
	}

	out, err := os.Create(IndexPath(path))
	if err != nil {
		return nil, fmt.Errorf("create fasta index: %w", err)
	}
	if err := fai.WriteTo(out, idx); err != nil {
		out.Close()
		return nil, fmt.Errorf("write fasta index: %w", err)
	}
	return idx, out.Close()
}

// ChromosomeLength returns the length of chrom from the index.
func (ix *Indexed) ChromosomeLength(chrom string) (int64, bool) {
	rec, ok := ix.index[chrom]
	if !ok {
		return 0, false
	}
	return int64(rec.Length), true
}

// Sequence returns bases [start, end] (1-based, inclusive) clipped to the chromosome.
func (ix *Indexed) Sequence(chrom string, start, end int64) (string, error) {
	rec, ok := ix.index[chrom]
	if !ok {
		return "", &UnknownChromosomeError{Chrom: chrom}
	}
	start, end, ok = Clip(start, end, int64(rec.Length))
	if !ok {
		return "", nil
	}

	// fai ranges are 0-based, half-open.
	seq, err := ix.fasta.SeqRange(chrom, int(start-1), int(end))
	if err != nil {
		return "", fmt.Errorf("fetch %s:%d-%d: %w", chrom, start, end, err)
	}
	b, err := io.ReadAll(seq)
	if err != nil {
		return "", fmt.Errorf("read %s:%d-%d: %w", chrom, start, end, err)
	}
	return string(bytes.ToUpper(b)), nil
}

// Chromosomes returns the indexed chromosome names in natural order.
func (ix *Indexed) Chromosomes() []string {
	return append([]string(nil), ix.order...)
}

// Close closes the underlying FASTA file, if this reference opened it.
func (ix *Indexed) Close() error {
	if ix.file != nil {
		return ix.file.Close()
	}
	return nil
}
