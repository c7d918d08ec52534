package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scrollock-dev/scrollock/internal/config"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default scrollock.yaml",
		Long: `Write a scrollock.yaml with default values to the current directory.

Examples:
  scrollock init
  scrollock init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing scrollock.yaml")

	return cmd
}

func runInit(force bool) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	if config.Exists(wd) && !force {
		warn("%s already exists (use --force to overwrite)", config.ConfigFileName)
		return nil
	}

	cfg := config.New()
	if err := cfg.SaveTo(config.ConfigFileName); err != nil {
		return err
	}

	success("Wrote %s", config.ConfigFileName)
	info("Edit it, then run: scrollock serve")
	return nil
}
