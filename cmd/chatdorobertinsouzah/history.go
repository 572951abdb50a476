package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage the search history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past queries, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		_, history := openStores()
		for _, q := range history.Get() {
			fmt.Println(q)
		}
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <query>",
	Short: "Remove one query (exact match)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, history := openStores()
		history.Delete(args[0])
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all queries",
	Run: func(cmd *cobra.Command, args []string) {
		_, history := openStores()
		history.Clear()
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
