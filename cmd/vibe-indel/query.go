package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-indel/internal/duckdb"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query classified indels stored with classify --cache",
		Long: `Query the DuckDB store written by 'vibe-indel classify --cache'. The store
path defaults to the cache.path config value.`,
		Example: `  vibe-indel query runs --cache results.duckdb
  vibe-indel query counts --cache results.duckdb --run-id cohort-1
  vibe-indel query counts --run-id cohort-1 --sample TCGA-A1-A0SB
  vibe-indel query sample --run-id cohort-1 --sample TCGA-A1-A0SB
  vibe-indel query variant chr17 7675088 CA C`,
	}
	cmd.PersistentFlags().String("cache", "", "DuckDB file written by classify --cache")

	cmd.AddCommand(newQueryRunsCmd())
	cmd.AddCommand(newQueryCountsCmd())
	cmd.AddCommand(newQuerySampleCmd())
	cmd.AddCommand(newQueryVariantCmd())
	cmd.AddCommand(newQueryClearCmd())
	return cmd
}

// openCache opens the store named by --cache, falling back to cache.path.
func openCache(cmd *cobra.Command) (*duckdb.Store, error) {
	path, _ := cmd.Flags().GetString("cache")
	if path == "" {
		path = viper.GetString("cache.path")
	}
	if path == "" {
		return nil, fmt.Errorf("no result store: pass --cache or run 'vibe-indel config set cache.path <file>'")
	}
	return duckdb.Open(path)
}

func newQueryRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded classification runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs()
			if err != nil {
				return err
			}
			return writeRuns(cmd.OutOrStdout(), runs)
		},
	}
}

func newQueryCountsCmd() *cobra.Command {
	var runID, sample string
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count stored indels per context category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.CategoryCounts(runID, sample)
			if err != nil {
				return err
			}
			return writeCounts(cmd.OutOrStdout(), counts)
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "Run to aggregate")
	cmd.Flags().StringVar(&sample, "sample", "", "Restrict counts to one sample")
	_ = cmd.MarkFlagRequired("run-id")
	return cmd
}

func newQuerySampleCmd() *cobra.Command {
	var runID, sample string
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "List the stored indels of one sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			found, err := store.SearchBySample(runID, sample)
			if err != nil {
				return err
			}
			return writeStored(cmd.OutOrStdout(), found)
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "Run to search")
	cmd.Flags().StringVar(&sample, "sample", "", "Sample name (Tumor_Sample_Barcode); empty for unnamed input")
	_ = cmd.MarkFlagRequired("run-id")
	return cmd
}

func newQueryVariantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variant <chrom> <pos> <ref> <alt>",
		Short: "Show every stored classification of a variant",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}

			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			found, err := store.LookupVariant(args[0], pos, args[2], args[3])
			if err != nil {
				return err
			}
			return writeStored(cmd.OutOrStdout(), found)
		},
	}
}

func newQueryClearCmd() *cobra.Command {
	var runID string
	var all bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove one run, or everything with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID == "" && !all {
				return fmt.Errorf("pass --run-id or --all")
			}

			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if all {
				return store.Clear()
			}
			return store.ClearRun(runID)
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "Run to remove")
	cmd.Flags().BoolVar(&all, "all", false, "Remove all runs")
	return cmd
}

func writeRuns(w io.Writer, runs []duckdb.Run) error {
	if _, err := fmt.Fprintln(w, "#RunID\tCreated\tInput\tReference"); err != nil {
		return err
	}
	for _, r := range runs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.UTC().Format(time.RFC3339), r.Input, r.Reference.Path); err != nil {
			return err
		}
	}
	return nil
}

func writeCounts(w io.Writer, counts []duckdb.CategoryCount) error {
	if _, err := fmt.Fprintln(w, "#Category\tCount"); err != nil {
		return err
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", c.Category, c.Count); err != nil {
			return err
		}
	}
	return nil
}

func writeStored(w io.Writer, rows []duckdb.StoredIndel) error {
	if _, err := fmt.Fprintln(w, "#RunID\tSample\tChromosome\tPosition\tRef\tAlt\tCategory\tSubfeature"); err != nil {
		return err
	}
	for _, r := range rows {
		sample := r.Sample
		if sample == "" {
			sample = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%d\n",
			r.RunID, sample, r.Chrom, r.Pos, r.Ref, r.Alt, r.Category, r.Subfeature); err != nil {
			return err
		}
	}
	return nil
}
