package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Start a session as one of the two workspace members",
	Long: `Resolve the given email against the workspace member list and store
the identity locally. The email must be on the workspace allow-list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		store := NewStore(email)
		members, err := store.ListWorkspaceMembers(cmd.Context())
		if err != nil {
			return fmt.Errorf("logging in: %w", err)
		}

		for _, m := range members {
			if m.Email == email {
				if err := Sessions.SetCurrent(m); err != nil {
					return fmt.Errorf("logging in: %w", err)
				}
				fmt.Printf("Logged in as %s\n", m.Name())
				return nil
			}
		}
		return fmt.Errorf("logging in: %s is not a workspace member", email)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Sessions.Current() == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		if err := Sessions.Clear(); err != nil {
			return fmt.Errorf("logging out: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the current session identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current := Sessions.Current()
		if current == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s <%s>\n", current.Name(), current.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
