package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := authenticate(cmd.Context()); err != nil {
			return err
		}

		identity, err := svc.CurrentProfile(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("ID:    %s\n", identity.ID)
		fmt.Printf("Name:  %s\n", identity.DisplayName)
		fmt.Printf("Email: %s\n", identity.Email)

		// Local-first logout; wait for the best-effort remote call so the
		// process doesn't leave a dangling server-side session.
		<-sessions.Logout(cmd.Context(), svc)
		return nil
	},
}

func init() {
	addCredentialFlags(whoamiCmd)
	rootCmd.AddCommand(whoamiCmd)
}
