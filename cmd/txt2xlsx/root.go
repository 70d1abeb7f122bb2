package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"txt2xlsx/internal/config"
	"txt2xlsx/internal/logger"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath  string
	outputDir   string
	logLevel    string
	logFormat   string
	rowsPerFile int
	manifest    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "txt2xlsx [input.txt]",
		Short: "Split a delimited contact export into Excel workbooks",
		Long: `txt2xlsx streams a delimited text file line by line, keeps the
Phone, FirstName, LastName and City columns, normalizes the location into
"Country: City" and writes workbooks of at most --rows-per-file rows each
(output_1.xlsx, output_2.xlsx, ...).

Without an argument, the single .txt file in the current directory is used.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to YAML configuration file (default ./"+config.DefaultConfigFileName+" if present)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for generated workbooks")
	f.IntVar(&opts.rowsPerFile, "rows-per-file", 0, "maximum data rows per workbook")
	f.BoolVar(&opts.manifest, "manifest", false, "write a checksum manifest next to the workbooks")

	cmd.AddCommand(newPreviewCmd(opts), newVerifyCmd(opts), newInitCmd(opts))

	return cmd
}

// loadConfig resolves defaults, the YAML file, environment and flags, in
// increasing order of precedence.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	path := o.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFileName); err == nil {
			path = config.DefaultConfigFileName
		}
	}

	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}

		cfg = loaded
	}

	cfg.ApplyEnv(os.LookupEnv)

	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	if flags.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}

	if flags.Changed("output-dir") {
		cfg.Output.Dir = o.outputDir
	}

	if flags.Changed("rows-per-file") {
		cfg.Output.RowsPerFile = o.rowsPerFile
	}

	if flags.Changed("manifest") {
		cfg.Output.Manifest = o.manifest
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	return logger.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
}
