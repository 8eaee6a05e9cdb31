package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var catalogFlag string
	var jsonFlag bool

	ctx := newCommandContext(&catalogFlag)

	rootCmd := &cobra.Command{
		Use:           "butterfly",
		Short:         "Butterfly guide CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Reference catalog YAML (default: built-in)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of tables")
	ctx.jsonFlag = &jsonFlag

	rootCmd.AddCommand(newIdentifyCommand(ctx))
	rootCmd.AddCommand(newSpeciesCommand(ctx))
	rootCmd.AddCommand(newMigrationCommand(ctx))
	rootCmd.AddCommand(newSubmitCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))

	return rootCmd
}
