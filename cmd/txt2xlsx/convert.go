package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"txt2xlsx/internal/config"
	"txt2xlsx/internal/models"
	"txt2xlsx/internal/normalizer"
	"txt2xlsx/internal/pipeline"
	"txt2xlsx/internal/source"
	"txt2xlsx/internal/workbook"
	"txt2xlsx/pkg/metadata"
)

func runConvert(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	input, err := resolveInput(out, args, cfg.Input.Extension)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := newLogger(cmd, cfg).With("run_id", runID)
	log.Debug("configuration resolved", "config", cfg.String())

	writer, err := workbook.NewWriter(cfg.Output, log)
	if err != nil {
		return err
	}

	processor := normalizer.NewProcessor(normalizer.OptionsFromConfig(cfg))

	driver, err := pipeline.NewDriver(processor, writer, cfg.Output.RowsPerFile, log)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)

	driver.OnFlush(func(part models.Part) {
		p.Fprintf(out, "✓  wrote %d rows → %s\n", part.Rows, filepath.Base(part.Path))
	})

	summary, err := driver.RunFile(cmd.Context(), input)
	if err != nil {
		log.Error("conversion failed", "input", input, "error", err)
		return err
	}

	if cfg.Output.Manifest {
		manifestPath, mErr := writeManifest(cfg, runID, input, summary)
		if mErr != nil {
			return mErr
		}

		fmt.Fprintf(out, "🔏 Manifest: %s\n", manifestPath)
	}

	log.Info("conversion complete",
		"lines", summary.Lines,
		"skipped", summary.Skipped,
		"rows", summary.Rows,
		"parts", len(summary.Parts),
		"elapsed", summary.Elapsed.String(),
	)

	p.Fprintf(out, "📈 %d rows written to %d workbook(s)\n", summary.Rows, len(summary.Parts))

	return nil
}

// resolveInput returns the input path from args or, when absent, the single
// matching file in the working directory.
func resolveInput(out io.Writer, args []string, ext string) (string, error) {
	var path string

	if len(args) == 1 {
		path = args[0]
	} else {
		found, err := source.Discover(".", ext)
		if err != nil {
			printUsage(out, ext)
			return "", err
		}

		path = found
		fmt.Fprintf(out, "No path arg given -> using '%s' in current directory.\n", filepath.Base(path))
	}

	if err := source.CheckFile(path); err != nil {
		return "", err
	}

	return path, nil
}

func printUsage(out io.Writer, ext string) {
	fmt.Fprintf(out, "Usage: txt2xlsx path/to/input%s\n", ext)
	fmt.Fprintf(out, "Or place exactly one %s file in the current folder and run without arguments.\n", ext)
}

func writeManifest(cfg *config.Config, runID, input string, summary *pipeline.Summary) (string, error) {
	m := metadata.New(runID, input)
	m.Lines = summary.Lines
	m.Skipped = summary.Skipped

	for _, part := range summary.Parts {
		if err := m.Add(part.Number, part.Path, part.Rows); err != nil {
			return "", err
		}
	}

	path := filepath.Join(cfg.Output.Dir, cfg.Output.BaseName+"_manifest.yaml")
	if err := m.Save(path); err != nil {
		return "", err
	}

	return path, nil
}
