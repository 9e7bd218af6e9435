package main

import (
	"github.com/spf13/cobra"
)

// globalFlags holds the flags shared by every subcommand: the machine
// profile and the two required ROM images.
type globalFlags struct {
	profilePath string
	systemROM   string
	charROM     string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "a2run",
		Short: "Run or inspect an Apple IIe-family machine profile",
	}

	cmd.PersistentFlags().StringVar(&flags.profilePath, "profile", "", "path to a machine profile YAML file (defaults to the built-in profile)")
	cmd.PersistentFlags().StringVar(&flags.systemROM, "system-rom", "", "path to the 16KiB combined system ROM image")
	cmd.PersistentFlags().StringVar(&flags.charROM, "character-rom", "", "path to the 4KiB character ROM image")

	cmd.AddCommand(runCmd(flags))
	cmd.AddCommand(inspectCmd(flags))
	return cmd
}
