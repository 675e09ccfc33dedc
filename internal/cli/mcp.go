package cli

import (
	"github.com/spf13/cobra"

	"github.com/pairtask/pairtask/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Expose the shared task list as MCP tools (list_tasks, create_task,
toggle_done, get_board) so an AI assistant can work the board with you.
Requires a logged-in session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := startSession(cmd.Context(), autoConfirmer{}, true)
		if err != nil {
			return err
		}
		defer coord.Stop()

		return mcp.NewServer(coord, appVersion).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
