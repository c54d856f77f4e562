// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-extract/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + config.FileName,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		force, _ := cmd.Flags().GetBool("force")
		path, err := config.WriteStarter(dir, force)
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%s already exists; use --force to replace it", path)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().String("dir", ".", "directory to write the config file into")
	initCmd.Flags().Bool("force", false, "replace an existing config file")
	rootCmd.AddCommand(initCmd)
}
