// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markzm/dealio/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Administer the result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached analysis result",
	Long: `Clear bulk-deletes all cached classification and article results. The next
submission for any input re-queries the providers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()
		if cfg.Cache.Path == "" {
			return fmt.Errorf("no cache path configured; nothing to clear")
		}

		store, err := cache.NewSQLiteStore(cfg.Cache.Path, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
