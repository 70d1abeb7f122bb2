package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"txt2xlsx/internal/formatter"
	"txt2xlsx/internal/models"
	"txt2xlsx/internal/normalizer"
	"txt2xlsx/internal/source"
)

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "preview [input.txt]",
		Short: "Print the first normalized rows without writing workbooks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, opts, args, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "rows", "n", 10, "number of normalized rows to show")

	return cmd
}

func runPreview(cmd *cobra.Command, opts *rootOptions, args []string, limit int) error {
	if limit < 1 {
		return fmt.Errorf("--rows must be at least 1, got %d", limit)
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	input, err := resolveInput(out, args, cfg.Input.Extension)
	if err != nil {
		return err
	}

	f, err := source.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	processor := normalizer.NewProcessor(normalizer.OptionsFromConfig(cfg))

	var stats normalizer.Stats

	rows := make([][]string, 0, limit)

	for rec, err := range processor.Records(f, &stats) {
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		rows = append(rows, rec.Fields())
		if len(rows) == limit {
			break
		}
	}

	fmt.Fprint(out, formatter.Table(models.Header, rows))
	fmt.Fprintf(out, "\n🔍 %d rows shown, %d of %d lines read were skipped\n", len(rows), stats.Skipped, stats.Lines)

	return nil
}
