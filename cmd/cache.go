package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/raceatlas/scout-cli/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the knowledge cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached event keys",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := cache.NewStore(cfg.Paths.CacheDir)
		if err != nil {
			return eris.Wrap(err, "cache: open store")
		}
		keys, err := store.List()
		if err != nil {
			return eris.Wrap(err, "cache: list")
		}
		if len(keys) == 0 {
			fmt.Println("Knowledge cache is empty.")
			return nil
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear <event-name-or-key>",
	Short: "Remove one event's cache entry so its research reruns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.NewStore(cfg.Paths.CacheDir)
		if err != nil {
			return eris.Wrap(err, "cache: open store")
		}
		// Accept either a display name or an already-derived key.
		key := cache.Key(args[0])
		if err := store.Clear(key); err != nil {
			return eris.Wrap(err, "cache: clear")
		}
		fmt.Printf("Cleared cache entry %q.\n", key)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
