package main

import (
	"fmt"
	"strconv"

	"github.com/code-100-precent/LingSync/internal/models"
	"github.com/code-100-precent/LingSync/internal/reconcile"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(conversationsCmd)
	conversationsCmd.Flags().String("agent-id", "", "only fetch and list conversations of this agent")
	conversationsCmd.Flags().Int("page", models.DefaultPage, "page number")
	conversationsCmd.Flags().Int("limit", models.DefaultLimit, "page size (max 100)")
}

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "Sync conversations and print one page of the stored result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		agentID, _ := cmd.Flags().GetString("agent-id")
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		engine, err := newEngine()
		if err != nil {
			return err
		}
		result, err := engine.SyncConversations(cmd.Context(), reconcile.ConversationsRequest{
			AgentID:    agentID,
			Pagination: models.ParsePagination(strconv.Itoa(page), strconv.Itoa(limit)),
		})
		if err != nil {
			return fmt.Errorf("sync conversations: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}
