package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-indel/internal/indel"
	"github.com/inodb/vibe-indel/internal/vcf"
)

func TestVCFWriter_Header(t *testing.T) {
	var buf bytes.Buffer
	w := NewVCFWriter(&buf, []string{
		"##fileformat=VCFv4.3",
		"##contig=<ID=chr1,length=248956422>",
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tTUMOR",
	})

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "##fileformat=VCFv4.3", lines[0])
	assert.Equal(t, "##contig=<ID=chr1,length=248956422>", lines[1])
	assert.Contains(t, lines[2], "ID=INDEL_CONTEXT")
	assert.Contains(t, lines[3], "ID=INDEL_SUBFEATURE")
	assert.Contains(t, lines[4], "ID=INDEL_SAMPLE")
	// Sample columns are dropped: output is sites-only.
	assert.Equal(t, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO", lines[5])
}

func TestVCFWriter_MinimalHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewVCFWriter(&buf, nil)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())
	assert.True(t, strings.HasPrefix(buf.String(), "##fileformat=VCFv4.2\n"))
}

func TestVCFWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewVCFWriter(&buf, nil)

	require.NoError(t, w.Write("", &indel.Classified{
		Variant:    &vcf.Variant{Chrom: "chr1", Pos: 10, ID: "rs1", Ref: "CA", Alt: "C", Qual: 50, Filter: "PASS"},
		Category:   "T_deletion",
		Subfeature: 4,
	}))
	require.NoError(t, w.Write("TCGA-01", &indel.Classified{
		Variant:    &vcf.Variant{Chrom: "chr4", Pos: 3, Ref: "A", Alt: "ACT"},
		Category:   "2bp_insertion",
		Subfeature: 3,
	}))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "chr1\t10\trs1\tCA\tC\t50\tPASS\tINDEL_CONTEXT=T_deletion;INDEL_SUBFEATURE=4", lines[0])
	assert.Equal(t, "chr4\t3\t.\tA\tACT\t.\t.\tINDEL_CONTEXT=2bp_insertion;INDEL_SUBFEATURE=3;INDEL_SAMPLE=TCGA-01", lines[1])
}
