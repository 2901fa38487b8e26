package genome

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// FASTA is an in-memory reference genome loaded from a FASTA file.
// It is immutable once loaded.
type FASTA struct {
	path      string
	sequences map[string]string // chrom -> upper-cased sequence
	order     []string          // chromosome names in file order
}

// NewFASTA creates a FASTA reference for the given path. Call Load before use.
func NewFASTA(path string) *FASTA {
	return &FASTA{
		path:      path,
		sequences: make(map[string]string),
	}
}

// FromSequences builds a reference directly from chromosome sequences.
// Chromosomes are ordered by name.
func FromSequences(seqs map[string]string) *FASTA {
	f := NewFASTA("")
	for name, seq := range seqs {
		f.add(name, seq)
	}
	sortChroms(f.order)
	return f
}

// LoadFASTA opens and parses a FASTA file.
func LoadFASTA(path string) (*FASTA, error) {
	f := NewFASTA(path)
	if err := f.Load(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load parses the FASTA file and stores sequences indexed by chromosome name.
func (f *FASTA) Load() error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open FASTA file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file

	// Handle gzipped files
	if strings.HasSuffix(f.path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return f.parseFASTA(reader)
}

// parseFASTA parses FASTA content. Sequence names run up to the first
// whitespace of the header line (">chr1 AC:CM000663.2" -> "chr1").
func (f *FASTA) parseFASTA(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequences
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line

	var currentName string
	var currentSeq strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ">") {
			if currentName != "" {
				f.add(currentName, currentSeq.String())
			}
			currentName = parseHeader(line)
			currentSeq.Reset()
		} else {
			currentSeq.WriteString(strings.TrimSpace(line))
		}
	}

	if currentName != "" {
		f.add(currentName, currentSeq.String())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}

	return nil
}

func (f *FASTA) add(name, seq string) {
	if _, ok := f.sequences[name]; !ok {
		f.order = append(f.order, name)
	}
	f.sequences[name] = strings.ToUpper(seq)
}

// parseHeader extracts the sequence name from a FASTA header.
func parseHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if fields := strings.Fields(header); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// ChromosomeLength returns the length of chrom.
func (f *FASTA) ChromosomeLength(chrom string) (int64, bool) {
	seq, ok := f.sequences[chrom]
	return int64(len(seq)), ok
}

// Sequence returns bases [start, end] (1-based, inclusive) clipped to the chromosome.
func (f *FASTA) Sequence(chrom string, start, end int64) (string, error) {
	seq, ok := f.sequences[chrom]
	if !ok {
		return "", &UnknownChromosomeError{Chrom: chrom}
	}
	start, end, ok = Clip(start, end, int64(len(seq)))
	if !ok {
		return "", nil
	}
	return seq[start-1 : end], nil
}

// Chromosomes returns chromosome names in file order.
func (f *FASTA) Chromosomes() []string {
	return append([]string(nil), f.order...)
}

// Close is a no-op; the sequences live in memory.
func (f *FASTA) Close() error {
	return nil
}
