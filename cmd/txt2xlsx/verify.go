package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"txt2xlsx/pkg/metadata"
)

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <manifest.yaml>",
		Short: "Check generated workbooks against a checksum manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			log := newLogger(cmd, cfg)

			m, err := metadata.Load(args[0])
			if err != nil {
				return err
			}

			log.Debug("verifying manifest", "path", args[0], "run_id", m.RunID, "parts", len(m.Parts))

			if err := m.Verify(filepath.Dir(args[0])); err != nil {
				log.Warn("manifest verification failed", "path", args[0], "run_id", m.RunID, "error", err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ %d part(s), %d rows verified\n", len(m.Parts), m.Rows)

			return nil
		},
	}
}
