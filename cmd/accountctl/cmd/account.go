package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/accountctl/internal/confirm"
)

var deleteAssumeYes bool

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account lifecycle operations",
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the account permanently (requires confirmation)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := authenticate(cmd.Context()); err != nil {
			return err
		}

		controller := confirm.NewController(svc, sessions)
		controller.RequestAction(confirm.Intent{Kind: confirm.DeleteAccount})

		if !deleteAssumeYes && !promptConfirm("Delete this account permanently? This cannot be undone.") {
			controller.Cancel()
			fmt.Println("Deletion cancelled.")
			return nil
		}

		if err := controller.Confirm(cmd.Context()); err != nil {
			return err
		}
		controller.Acknowledge()

		fmt.Println("Your account has been deleted.")
		return nil
	},
}

func init() {
	addCredentialFlags(accountDeleteCmd)
	accountDeleteCmd.Flags().BoolVarP(&deleteAssumeYes, "yes", "y", false, "confirm without prompting")
	accountCmd.AddCommand(accountDeleteCmd)
	rootCmd.AddCommand(accountCmd)
}
