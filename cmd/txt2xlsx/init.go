package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"txt2xlsx/internal/config"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to a YAML file",
		Long: `init writes the configuration currently in effect (defaults, then
--config, then environment) to path, ./` + config.DefaultConfigFileName + ` by default.
The written file is picked up automatically by later runs in that folder.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigFileName
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := cfg.SaveConfig(path); err != nil {
				return err
			}

			newLogger(cmd, cfg).Debug("config written", "path", path, "config", cfg.String())
			fmt.Fprintf(cmd.OutOrStdout(), "📝 configuration written to %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}
