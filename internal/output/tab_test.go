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

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "#Sample\tChromosome\tPosition\tID\tRef\tAlt\tCategory\tSubfeature\n", buf.String())
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	c := &indel.Classified{
		Variant:    &vcf.Variant{Chrom: "chr1", Pos: 10, ID: "rs1", Ref: "CA", Alt: "C"},
		Category:   "T_deletion",
		Subfeature: 4,
	}
	require.NoError(t, w.Write("TCGA-01", c))
	require.NoError(t, w.Write("", &indel.Classified{
		Variant:    &vcf.Variant{Chrom: "chr2", Pos: 5, Ref: "C", Alt: "CG"},
		Category:   "C_insertion",
		Subfeature: 2,
	}))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "TCGA-01\tchr1\t10\trs1\tCA\tC\tT_deletion\t4", lines[0])
	assert.Equal(t, "-\tchr2\t5\t.\tC\tCG\tC_insertion\t2", lines[1])
}

func TestWriteOutput_Tab(t *testing.T) {
	out := indel.Output{Results: []indel.Result{
		{Name: "a", Variants: []*indel.Classified{{
			Variant:  &vcf.Variant{Chrom: "chr1", Pos: 3, ID: ".", Ref: "ACA", Alt: "A"},
			Category: "2bp_deletion", Subfeature: 3,
		}}},
		{Name: "b", Variants: []*indel.Classified{{
			Variant:  &vcf.Variant{Chrom: "chr3", Pos: 5, ID: ".", Ref: "ATGC", Alt: "A"},
			Category: "3bp_deletion_with_microhomology", Subfeature: 2,
		}}},
	}}

	var buf bytes.Buffer
	require.NoError(t, indel.WriteOutput(NewTabWriter(&buf), out))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#Sample"))
	assert.Equal(t, "a\tchr1\t3\t.\tACA\tA\t2bp_deletion\t3", lines[1])
	assert.Equal(t, "b\tchr3\t5\t.\tATGC\tA\t3bp_deletion_with_microhomology\t2", lines[2])
}
