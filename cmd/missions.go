package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/raceatlas/scout-cli/internal/store"
)

var missionsLimit int

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Show recent mission history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return eris.Wrap(err, "missions: open store")
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(cmd.Context()); err != nil {
			return eris.Wrap(err, "missions: migrate store")
		}

		missions, err := st.ListMissions(cmd.Context(), missionsLimit)
		if err != nil {
			return eris.Wrap(err, "missions: list")
		}
		if len(missions) == 0 {
			fmt.Println("No missions recorded yet.")
			return nil
		}

		for _, m := range missions {
			source := "agent"
			if m.FromCache {
				source = "cache"
			}
			fmt.Printf("%s  %-10s %-9s %-5s rows=%-3d %s (%s)\n",
				m.StartedAt.Format(time.DateTime), m.Type, m.Status, source, m.Rows, m.Festival, m.ID[:8])
		}
		return nil
	},
}

func init() {
	missionsCmd.Flags().IntVar(&missionsLimit, "limit", 20, "max missions to show")
	rootCmd.AddCommand(missionsCmd)
}
