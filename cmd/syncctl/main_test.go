package main

import (
	"bytes"
	"testing"

	"github.com/code-100-precent/LingSync/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, reconcile.ConversationsResult{Page: 2, Limit: 5, Total: 7}))

	out := buf.String()
	assert.Contains(t, out, `"page": 2`)
	assert.Contains(t, out, `"total": 7`)
	assert.Contains(t, out, `"data": null`)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["agents"])
	assert.True(t, names["conversations"])

	assert.NotNil(t, agentsCmd.Flags().Lookup("force"))
	for _, flag := range []string{"agent-id", "page", "limit"} {
		assert.NotNil(t, conversationsCmd.Flags().Lookup(flag), flag)
	}
}
