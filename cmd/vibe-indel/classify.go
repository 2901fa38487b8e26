package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-indel/internal/duckdb"
	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/indel"
	"github.com/inodb/vibe-indel/internal/maf"
	"github.com/inodb/vibe-indel/internal/output"
	"github.com/inodb/vibe-indel/internal/vcf"
)

// classifyOptions collects the merged flag, env and config values.
type classifyOptions struct {
	Reference    string
	InputFormat  string
	OutputFormat string
	OutputFile   string
	Workers      int
	PassOnly     bool
	IndelsOnly   bool
	SplitSamples bool
	CachePath    string
	RunID        string
	Profile      string
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [flags] <input-file>",
		Short: "Classify the sequence context of indels in a VCF or MAF file",
		Long: `Classify each insertion and deletion by sequence context.

Single-base events are labelled by the homopolymer run they extend, larger
events by the number of repeat units they tile, and deletions without repeats
by the length of microhomology at the breakpoint.

Use '-' to read from stdin.`,
		Example: `  vibe-indel classify -r GRCh38.fa input.vcf
  vibe-indel classify -r GRCh38.fa --split-samples data_mutations.txt
  vibe-indel classify -r GRCh38.fa -f vcf -o contexts.vcf input.vcf.gz
  vibe-indel classify -r GRCh38.fa --cache results.duckdb input.maf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := classifyOptions{
				Reference:    viper.GetString("reference"),
				InputFormat:  viper.GetString("input-format"),
				OutputFormat: viper.GetString("output-format"),
				OutputFile:   viper.GetString("output"),
				Workers:      viper.GetInt("workers"),
				PassOnly:     viper.GetBool("pass-only"),
				IndelsOnly:   viper.GetBool("indels-only"),
				SplitSamples: viper.GetBool("split-samples"),
				CachePath:    viper.GetString("cache.path"),
				RunID:        viper.GetString("run-id"),
				Profile:      viper.GetString("profile"),
			}

			switch opts.Profile {
			case "":
			case "cpu":
				defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
			case "mem":
				defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
			default:
				return fmt.Errorf("unknown profile mode %q (want cpu or mem)", opts.Profile)
			}

			out := cmd.OutOrStdout()
			if opts.OutputFile != "" {
				f, err := os.Create(opts.OutputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return runClassify(opts, args[0], out)
		},
	}

	flags := cmd.Flags()
	flags.StringP("reference", "r", "", "Reference FASTA (.fai index used when present)")
	flags.String("input-format", "", "Input format: vcf, maf (auto-detected if not specified)")
	flags.StringP("output-format", "f", "tab", "Output format: tab, vcf")
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.IntP("workers", "w", runtime.NumCPU(), "Variant sets classified concurrently")
	flags.Bool("pass-only", false, "Only classify VCF records with FILTER=PASS")
	flags.Bool("indels-only", true, "Skip SNVs, MNVs and multi-allelic records instead of failing")
	flags.Bool("split-samples", false, "Classify each Tumor_Sample_Barcode of a MAF separately")
	flags.String("cache", "", "DuckDB file to append classified indels to")
	flags.String("run-id", "", "Run id for --cache (default: random UUID)")
	flags.String("profile", "", "Write a pprof profile: cpu or mem")

	for _, name := range []string{
		"reference", "input-format", "output-format", "output", "workers",
		"pass-only", "indels-only", "split-samples", "run-id", "profile",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	_ = viper.BindPFlag("cache.path", flags.Lookup("cache"))

	return cmd
}

// runClassify reads the input, classifies it and writes results to out and,
// when configured, the DuckDB store.
func runClassify(opts classifyOptions, inputPath string, out io.Writer) error {
	if opts.Reference == "" {
		return fmt.Errorf("no reference FASTA: pass --reference or run 'vibe-indel config set reference <path>'")
	}

	ref, err := genome.Open(opts.Reference)
	if err != nil {
		return fmt.Errorf("open reference: %w", err)
	}
	defer ref.Close()
	logger.Info("opened reference",
		zap.String("path", opts.Reference),
		zap.Int("sequences", len(ref.Chromosomes())))

	format := opts.InputFormat
	if format == "" {
		format = detectInputFormat(inputPath)
	}

	in, header, err := readInput(format, inputPath, ref, opts)
	if err != nil {
		return err
	}

	c := indel.NewClassifier(ref)
	c.SetLogger(logger)
	result, err := c.ClassifyInput(in, opts.Workers)
	if err != nil {
		return err
	}
	logger.Info("classified input",
		zap.Bool("per_sample", result.IsNamed()),
		zap.Int("sets", len(result.Results)),
		zap.Int("variants", result.Len()))

	var writer indel.ResultWriter
	switch opts.OutputFormat {
	case "tab", "":
		writer = output.NewTabWriter(out)
	case "vcf":
		writer = output.NewVCFWriter(out, header)
	default:
		return fmt.Errorf("unknown output format %q", opts.OutputFormat)
	}
	if err := indel.WriteOutput(writer, result); err != nil {
		return err
	}

	if opts.CachePath != "" {
		if err := storeResults(opts, inputPath, result); err != nil {
			return err
		}
	}
	return nil
}

// readInput parses the input file into a classifier Input. header holds
// VCF meta lines for VCF output and is nil for MAF input.
func readInput(format, path string, ref genome.Provider, opts classifyOptions) (indel.Input, []string, error) {
	switch format {
	case "vcf":
		if opts.SplitSamples {
			return indel.Input{}, nil, fmt.Errorf("--split-samples requires MAF input")
		}
		p, err := vcf.NewParser(path)
		if err != nil {
			return indel.Input{}, nil, err
		}
		defer p.Close()
		p.SetPassOnly(opts.PassOnly)

		variants, err := vcf.ReadAll(p)
		if err != nil {
			return indel.Input{}, nil, err
		}
		return indel.Single(filterVariants(variants, opts.IndelsOnly)), p.Header(), nil

	case "maf":
		p, err := maf.NewParser(path)
		if err != nil {
			return indel.Input{}, nil, err
		}
		defer p.Close()

		names, bySample, err := maf.ReadBySample(p, ref)
		if err != nil {
			return indel.Input{}, nil, err
		}
		if opts.SplitSamples {
			sets := make([]indel.Set, len(names))
			for i, name := range names {
				sets[i] = indel.Set{Name: name, Variants: filterVariants(bySample[name], opts.IndelsOnly)}
			}
			return indel.Named(sets...), nil, nil
		}
		var all []*vcf.Variant
		for _, name := range names {
			all = append(all, bySample[name]...)
		}
		return indel.Single(filterVariants(all, opts.IndelsOnly)), nil, nil

	default:
		return indel.Input{}, nil, fmt.Errorf("unknown input format %q (use --input-format vcf or maf)", format)
	}
}

// filterVariants drops records the classifier would reject for their
// allele shape. With indelsOnly unset the set is returned untouched.
func filterVariants(variants []*vcf.Variant, indelsOnly bool) []*vcf.Variant {
	if !indelsOnly {
		return variants
	}
	kept := variants[:0:0]
	for _, v := range variants {
		if v.IsIndel() && !v.IsMultiAllelic() && v.Ref != "" && v.Alt != "" {
			kept = append(kept, v)
		}
	}
	if skipped := len(variants) - len(kept); skipped > 0 {
		logger.Info("skipped non-indel records", zap.Int("skipped", skipped), zap.Int("kept", len(kept)))
	}
	return kept
}

// storeResults appends classified indels to the DuckDB store under a run id.
// Appending to an existing run requires the same reference file.
func storeResults(opts classifyOptions, inputPath string, result indel.Output) error {
	store, err := duckdb.Open(opts.CachePath)
	if err != nil {
		return err
	}
	defer store.Close()

	fp, err := duckdb.StatFile(opts.Reference)
	if err != nil {
		return fmt.Errorf("stat reference: %w", err)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	} else {
		prev, ok, err := store.Run(runID)
		if err != nil {
			return err
		}
		if ok && !prev.Reference.Matches(fp) {
			return fmt.Errorf("run %s was classified against a different reference (%s)", runID, prev.Reference.Path)
		}
	}

	if err := store.BeginRun(duckdb.Run{ID: runID, Input: inputPath, Reference: fp}); err != nil {
		return err
	}
	if err := store.WriteResults(runID, result); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	logger.Info("stored classified indels",
		zap.String("cache", opts.CachePath),
		zap.String("run_id", runID),
		zap.Int("variants", result.Len()))
	return nil
}
