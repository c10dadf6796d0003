package main

import (
	"fmt"

	"github.com/alexjbarnes/noted/internal/auth"
	"github.com/spf13/cobra"
)

func newMCPKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-key",
		Short: "Generate an API key for the MCP endpoint",
		Long: "Generate a random API key for the MCP endpoint. Give the key to the MCP client " +
			"and set MCP_API_KEY_HASH to the printed hash. The key is not stored anywhere.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, hash, err := auth.NewAPIKey()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key:  %s\n", key)
			fmt.Fprintf(out, "MCP_API_KEY_HASH=%s\n", hash)

			return nil
		},
	}
}
