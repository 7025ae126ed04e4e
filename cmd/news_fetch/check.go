package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider/registry"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Report which providers and which storage backend are configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

		active := 0
		for _, key := range registry.Keys() {
			_, err := registry.Constructors[key](settings.Providers[key])
			status := "ok"
			var cfgErr *provider.ConfigError
			switch {
			case errors.As(err, &cfgErr):
				status = "missing " + cfgErr.Setting
			case err != nil:
				status = err.Error()
			default:
				active++
			}
			fmt.Fprintf(w, "provider\t%s\t%s\n", key, status)
		}

		storageCfg, err := factory.LoadEnv()
		if err != nil {
			fmt.Fprintf(w, "storage\t-\t%s\n", err)
		} else {
			fmt.Fprintf(w, "storage\t%s\tpreferences=%s\n", storageCfg.Type, storageCfg.Preferences)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if active == 0 {
			return fmt.Errorf("no provider is configured")
		}
		return err
	},
}
