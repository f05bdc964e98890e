// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litwatch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or reset the sent-title history",
	Long: `History manages the local record of titles that already appeared in a
digest. A title in the history is never emailed again.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded titles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store := history.New(buildConfig().History)
		titles, err := store.List(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(titles) == 0 {
			fmt.Println("History is empty.")
			return nil
		}
		for i, t := range titles {
			fmt.Printf("%-4d  %s\n", i+1, t)
		}
		return nil
	},
}

var historyCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of recorded titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := history.New(buildConfig().History)
		n, err := store.Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the history; every paper becomes eligible again",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig().History
		if err := history.New(cfg).Clear(); err != nil {
			return err
		}
		fmt.Printf("Cleared history at %s\n", cfg.Path)
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 50, "maximum titles to list (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyCountCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(historyCmd)
}
