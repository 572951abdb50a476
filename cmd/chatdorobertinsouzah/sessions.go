package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and manage persisted chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		sessions, _ := openStores()
		for _, s := range sessions.Load() {
			fmt.Printf("%s  %-40s %d messages\n", s.ID, s.Title, len(s.Messages))
		}
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session by id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessions, _ := openStores()
		sessions.Delete(args[0])
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all sessions",
	Run: func(cmd *cobra.Command, args []string) {
		sessions, _ := openStores()
		sessions.Clear()
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
}
