// Command samplegen writes a synthetic pipe-delimited member file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"member-etl/sample"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		out  string
		opts sample.Options
	)

	cmd := &cobra.Command{
		Use:   "samplegen",
		Short: "Generate a synthetic member-data file for local runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Rows < 1 {
				return fmt.Errorf("--rows must be at least 1, got %d", opts.Rows)
			}
			if out == "-" {
				return sample.Write(cmd.OutOrStdout(), opts)
			}

			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := sample.Write(f, opts); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", opts.Rows, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "./data/member-data.csv", "output file, - for stdout")
	cmd.Flags().IntVarP(&opts.Rows, "rows", "n", 100, "number of rows")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed, 0 for a random one")
	cmd.Flags().IntVar(&opts.CurrencyEvery, "currency-every", 5, "format every n-th salary as currency text, 0 to disable")
	return cmd
}
