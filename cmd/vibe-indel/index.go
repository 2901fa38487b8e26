package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-indel/internal/genome"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <reference.fa>",
		Short: "Write a .fai index for a reference FASTA",
		Long: `Write a samtools-compatible .fai index next to a FASTA file. Indexed
references are read on demand instead of being loaded into memory.`,
		Example: `  vibe-indel index GRCh38.fa   # writes GRCh38.fa.fai`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := genome.BuildIndex(args[0])
			if err != nil {
				return err
			}
			logger.Info("wrote reference index",
				zap.String("path", genome.IndexPath(args[0])),
				zap.Int("sequences", len(idx)))
			fmt.Fprintln(cmd.OutOrStdout(), genome.IndexPath(args[0]))
			return nil
		},
	}
}
