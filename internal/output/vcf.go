package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-indel/internal/indel"
)

// INFO keys written by VCFWriter.
const (
	InfoCategory   = "INDEL_CONTEXT"
	InfoSubfeature = "INDEL_SUBFEATURE"
	InfoSample     = "INDEL_SAMPLE"
)

var infoHeaderLines = []string{
	`##INFO=<ID=` + InfoCategory + `,Number=1,Type=String,Description="Indel context category from vibe-indel">`,
	`##INFO=<ID=` + InfoSubfeature + `,Number=1,Type=Integer,Description="Homopolymer length, repeat count or microhomology length">`,
	`##INFO=<ID=` + InfoSample + `,Number=1,Type=String,Description="Sample the indel was classified for">`,
}

// VCFWriter writes classified variants as sites-only VCF with context INFO fields.
type VCFWriter struct {
	w           *bufio.Writer
	headerLines []string // original VCF header lines (## and #CHROM)
}

// NewVCFWriter creates a new VCF output writer. headerLines are the input
// file's meta lines; a minimal header is written when empty.
func NewVCFWriter(w io.Writer, headerLines []string) *VCFWriter {
	return &VCFWriter{
		w:           bufio.NewWriter(w),
		headerLines: headerLines,
	}
}

// WriteHeader writes the original ## lines, the context INFO definitions and
// a sites-only #CHROM line.
func (vw *VCFWriter) WriteHeader() error {
	lines := make([]string, 0, len(vw.headerLines)+len(infoHeaderLines)+2)
	hasFormat := false
	for _, line := range vw.headerLines {
		if !strings.HasPrefix(line, "##") {
			continue
		}
		if strings.HasPrefix(line, "##fileformat=") {
			hasFormat = true
		}
		lines = append(lines, line)
	}
	if !hasFormat {
		lines = append([]string{"##fileformat=VCFv4.2"}, lines...)
	}
	lines = append(lines, infoHeaderLines...)
	lines = append(lines, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO")

	for _, line := range lines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes one classified variant as a VCF data line.
func (vw *VCFWriter) Write(sample string, c *indel.Classified) error {
	v := c.Variant

	info := fmt.Sprintf("%s=%s;%s=%d", InfoCategory, c.Category, InfoSubfeature, c.Subfeature)
	if sample != "" {
		info += ";" + InfoSample + "=" + sample
	}

	qual := "."
	if v.Qual > 0 {
		qual = strconv.FormatFloat(v.Qual, 'g', -1, 64)
	}
	id := v.ID
	if id == "" {
		id = "."
	}
	filter := v.Filter
	if filter == "" {
		filter = "."
	}

	values := []string{
		v.Chrom,
		strconv.FormatInt(v.Pos, 10),
		id,
		v.Ref,
		v.Alt,
		qual,
		filter,
		info,
	}

	_, err := vw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}
