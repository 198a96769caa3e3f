package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.Flags().Bool("force", false, "sync even when agents are already stored")
}

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Sync agents when the local store is empty (or --force) and print them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		engine, err := newEngine()
		if err != nil {
			return err
		}
		result, err := engine.SyncAgents(cmd.Context(), force)
		if err != nil {
			return fmt.Errorf("sync agents: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}
