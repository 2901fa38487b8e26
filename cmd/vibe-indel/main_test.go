package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-indel/internal/duckdb"
	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/indel"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// chr1: G G C A A A T G G G
const testFASTA = ">chr1\nGGCAAA\nTGGG\n"

const testVCF = "##fileformat=VCFv4.2\n" +
	"##contig=<ID=chr1,length=10>\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
	"chr1\t8\t.\tG\tGG\t.\tPASS\t.\n" +
	"chr1\t1\t.\tG\tA\t.\tPASS\t.\n" +
	"chr1\t3\trs9\tCA\tC\t30\tlowq\t.\n"

const testMAF = "Hugo_Symbol\tChromosome\tStart_Position\tEnd_Position\tReference_Allele\tTumor_Seq_Allele2\tTumor_Sample_Barcode\n" +
	"G1\tchr1\t8\t9\t-\tG\tS2\n" +
	"G2\tchr1\t4\t4\tA\t-\tS1\n" +
	"G3\tchr1\t1\t1\tG\tA\tS1\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func defaultOptions(ref string) classifyOptions {
	return classifyOptions{Reference: ref, OutputFormat: "tab", Workers: 2, IndelsOnly: true}
}

func TestDetectInputFormat(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		want string
	}{
		{"vcf extension", "calls.vcf", "vcf"},
		{"gzipped vcf", "calls.VCF.gz", "vcf"},
		{"maf extension", "calls.maf", "maf"},
		{"cbioportal file", "/study/data_mutations_extended.txt", "maf"},
		{"stdin", "-", "vcf"},
		{"missing file", filepath.Join(dir, "missing.txt"), "vcf"},
		{"vcf content", writeFile(t, dir, "a.txt", testVCF), "vcf"},
		{"maf content", writeFile(t, dir, "b.txt", testMAF), "maf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectInputFormat(tt.path))
		})
	}
}

func TestFilterVariants(t *testing.T) {
	vs := []*vcf.Variant{
		{Chrom: "1", Pos: 1, Ref: "A", Alt: "T"},
		{Chrom: "1", Pos: 2, Ref: "A", Alt: "AT"},
		{Chrom: "1", Pos: 3, Ref: "AC", Alt: "GT"},
		{Chrom: "1", Pos: 4, Ref: "A", Alt: "AT,AG"},
		{Chrom: "1", Pos: 5, Ref: "AT", Alt: "A"},
	}

	kept := filterVariants(vs, true)
	require.Len(t, kept, 2)
	assert.Equal(t, int64(2), kept[0].Pos)
	assert.Equal(t, int64(5), kept[1].Pos)
	assert.Len(t, vs, 5)

	assert.Equal(t, vs, filterVariants(vs, false))
}

func TestRunClassify_VCF(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.vcf", testVCF)

	var buf bytes.Buffer
	require.NoError(t, runClassify(defaultOptions(ref), input, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "-\tchr1\t3\trs9\tCA\tC\tT_deletion\t3", lines[1])
	assert.Equal(t, "-\tchr1\t8\t.\tG\tGG\tC_insertion\t2", lines[2])
}

func TestRunClassify_PassOnly(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.vcf", testVCF)

	opts := defaultOptions(ref)
	opts.PassOnly = true

	var buf bytes.Buffer
	require.NoError(t, runClassify(opts, input, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "C_insertion")
}

func TestRunClassify_RejectsSNVsWithoutFilter(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.vcf", testVCF)

	opts := defaultOptions(ref)
	opts.IndelsOnly = false

	var buf bytes.Buffer
	err := runClassify(opts, input, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chr1:1")
}

func TestRunClassify_VCFOutput(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.vcf", testVCF)

	opts := defaultOptions(ref)
	opts.OutputFormat = "vcf"

	var buf bytes.Buffer
	require.NoError(t, runClassify(opts, input, &buf))

	out := buf.String()
	assert.Contains(t, out, "##contig=<ID=chr1,length=10>\n")
	assert.Contains(t, out, "chr1\t3\trs9\tCA\tC\t30\tlowq\tINDEL_CONTEXT=T_deletion;INDEL_SUBFEATURE=3\n")
}

func TestRunClassify_MAFSplitSamples(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.maf", testMAF)

	opts := defaultOptions(ref)
	opts.SplitSamples = true

	var buf bytes.Buffer
	require.NoError(t, runClassify(opts, input, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	// Samples keep first-seen order.
	assert.Equal(t, "S2\tchr1\t8\t.\tG\tGG\tC_insertion\t2", lines[1])
	assert.Equal(t, "S1\tchr1\t3\t.\tCA\tC\tT_deletion\t3", lines[2])
}

func TestRunClassify_MAFSingleSet(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.maf", testMAF)

	var buf bytes.Buffer
	require.NoError(t, runClassify(defaultOptions(ref), input, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "-\tchr1\t3\t.\tCA\tC\tT_deletion\t3", lines[1])
	assert.Equal(t, "-\tchr1\t8\t.\tG\tGG\tC_insertion\t2", lines[2])
}

func TestRunClassify_IndexedReference(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.vcf", testVCF)

	_, err := genome.BuildIndex(ref)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runClassify(defaultOptions(ref), input, &buf))
	assert.Contains(t, buf.String(), "T_deletion\t3")
}

func TestRunClassify_Errors(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	vcfPath := writeFile(t, dir, "in.vcf", testVCF)

	var buf bytes.Buffer
	assert.ErrorContains(t, runClassify(defaultOptions(""), vcfPath, &buf), "no reference")

	opts := defaultOptions(ref)
	opts.SplitSamples = true
	assert.ErrorContains(t, runClassify(opts, vcfPath, &buf), "requires MAF")

	opts = defaultOptions(ref)
	opts.OutputFormat = "json"
	assert.ErrorContains(t, runClassify(opts, vcfPath, &buf), "unknown output format")

	opts = defaultOptions(ref)
	opts.InputFormat = "bam"
	assert.ErrorContains(t, runClassify(opts, vcfPath, &buf), "unknown input format")

	ensembl := writeFile(t, dir, "ensembl.vcf", strings.ReplaceAll(testVCF, "chr1\t", "1\t"))
	err := runClassify(defaultOptions(ref), ensembl, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromosome mismatch")
}

func TestRunClassify_MAFChromosomeMismatch(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", ">1\nGGCAAATGGG\n")
	input := writeFile(t, dir, "in.maf", testMAF)

	for _, split := range []bool{false, true} {
		opts := defaultOptions(ref)
		opts.SplitSamples = split

		var buf bytes.Buffer
		err := runClassify(opts, input, &buf)
		require.Error(t, err)
		assert.True(t, errors.Is(err, indel.ErrChromosomeMismatch), err.Error())

		var merr *indel.ChromosomeMismatchError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "UCSC", merr.VariantStyle)
		assert.Equal(t, "Ensembl", merr.ReferenceStyle)
		assert.Empty(t, buf.String())
	}
}

func TestRunClassify_Cache(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.maf", testMAF)
	cachePath := filepath.Join(dir, "cache", "results.duckdb")

	opts := defaultOptions(ref)
	opts.SplitSamples = true
	opts.CachePath = cachePath
	opts.RunID = "run-1"

	var buf bytes.Buffer
	require.NoError(t, runClassify(opts, input, &buf))

	store, err := duckdb.Open(cachePath)
	require.NoError(t, err)
	counts, err := store.CategoryCounts("run-1", "S1")
	require.NoError(t, err)
	assert.Equal(t, []duckdb.CategoryCount{{Category: "T_deletion", Count: 1}}, counts)
	run, ok, err := store.Run("run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, input, run.Input)
	require.NoError(t, store.Close())

	// Appending to the run against a different reference fails.
	writeFile(t, dir, "ref.fa", testFASTA+">chr2\nACGT\n")
	err = runClassify(opts, input, &buf)
	assert.ErrorContains(t, err, "different reference")
}

// executeRoot runs the CLI with args and returns its stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestQueryCmds(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.fa", testFASTA)
	input := writeFile(t, dir, "in.maf", testMAF)
	cachePath := filepath.Join(dir, "results.duckdb")

	opts := defaultOptions(ref)
	opts.SplitSamples = true
	opts.CachePath = cachePath
	opts.RunID = "run-1"
	require.NoError(t, runClassify(opts, input, &bytes.Buffer{}))

	out, err := executeRoot(t, "query", "runs", "--cache", cachePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "run-1\t"))
	assert.True(t, strings.HasSuffix(lines[1], "\t"+input+"\t"+ref))

	out, err = executeRoot(t, "query", "counts", "--cache", cachePath, "--run-id", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "#Category\tCount\nC_insertion\t1\nT_deletion\t1\n", out)

	out, err = executeRoot(t, "query", "counts", "--cache", cachePath, "--run-id", "run-1", "--sample", "S1")
	require.NoError(t, err)
	assert.Equal(t, "#Category\tCount\nT_deletion\t1\n", out)

	out, err = executeRoot(t, "query", "sample", "--cache", cachePath, "--run-id", "run-1", "--sample", "S2")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "run-1\tS2\tchr1\t8\tG\tGG\tC_insertion\t2", lines[1])

	out, err = executeRoot(t, "query", "variant", "--cache", cachePath, "chr1", "3", "CA", "C")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "run-1\tS1\tchr1\t3\tCA\tC\tT_deletion\t3", lines[1])

	_, err = executeRoot(t, "query", "variant", "--cache", cachePath, "chr1", "x", "CA", "C")
	assert.ErrorContains(t, err, "invalid position")

	_, err = executeRoot(t, "query", "clear", "--cache", cachePath)
	assert.ErrorContains(t, err, "--run-id or --all")

	_, err = executeRoot(t, "query", "clear", "--cache", cachePath, "--run-id", "run-1")
	require.NoError(t, err)
	out, err = executeRoot(t, "query", "counts", "--cache", cachePath, "--run-id", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "#Category\tCount\n", out)

	_, err = executeRoot(t, "query", "clear", "--cache", cachePath, "--all")
	require.NoError(t, err)
	out, err = executeRoot(t, "query", "runs", "--cache", cachePath)
	require.NoError(t, err)
	assert.Equal(t, "#RunID\tCreated\tInput\tReference\n", out)
}

func TestQueryCmd_NoCache(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIBE_INDEL_CACHE_PATH", "")

	_, err := executeRoot(t, "query", "runs")
	assert.ErrorContains(t, err, "no result store")
}

func TestVersionCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "vibe-indel version dev (none) built unknown\n", buf.String())
}

func TestIndexCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ref := writeFile(t, t.TempDir(), "ref.fa", testFASTA)

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"index", ref})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, genome.IndexPath(ref)+"\n", buf.String())

	_, err := os.Stat(genome.IndexPath(ref))
	assert.NoError(t, err)
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, true, parseConfigValue("yes"))
	assert.Equal(t, false, parseConfigValue("off"))
	assert.Equal(t, 8, parseConfigValue("8"))
	assert.Equal(t, "/ref/hg38.fa", parseConfigValue("/ref/hg38.fa"))
}
