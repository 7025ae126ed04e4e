package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed-sources",
	Short: "Create or refresh the known news sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		seeded, err := a.Sources.Seed(cmd.Context())
		if err != nil {
			return err
		}
		for _, src := range seeded {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", src.Key, src.ID, src.Name)
		}
		return nil
	},
}
