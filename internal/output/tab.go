// Package output provides classified-variant output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-indel/internal/indel"
)

// TabWriter writes classified variants in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Sample",
			"Chromosome",
			"Position",
			"ID",
			"Ref",
			"Alt",
			"Category",
			"Subfeature",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single classified variant.
func (tw *TabWriter) Write(sample string, c *indel.Classified) error {
	v := c.Variant

	if sample == "" {
		sample = "-"
	}
	id := v.ID
	if id == "" {
		id = "."
	}

	values := []string{
		sample,
		v.Chrom,
		strconv.FormatInt(v.Pos, 10),
		id,
		v.Ref,
		v.Alt,
		c.Category,
		strconv.Itoa(c.Subfeature),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
