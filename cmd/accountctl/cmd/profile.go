package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/accountctl/internal/confirm"
	"github.com/nfrund/accountctl/internal/domain"
	"github.com/nfrund/accountctl/internal/validate"
)

var (
	profileName        string
	profileEmail       string
	profileNewPassword string
	assumeYes          bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and edit the account profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
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

		<-sessions.Logout(cmd.Context(), svc)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields (requires confirmation)",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := validate.ProfileUpdateForm{
			DisplayName: profileName,
			Email:       profileEmail,
			Secret:      profileNewPassword,
		}
		if findings := validate.ProfileUpdate(form); len(findings) > 0 {
			return findings
		}

		if _, err := authenticate(cmd.Context()); err != nil {
			return err
		}

		controller := confirm.NewController(svc, sessions)
		controller.RequestAction(confirm.Intent{
			Kind: confirm.UpdateProfile,
			Profile: domain.ProfileUpdate{
				DisplayName: profileName,
				Email:       profileEmail,
				Secret:      profileNewPassword,
			},
		})

		if !assumeYes && !promptConfirm("Overwrite your profile with these values?") {
			controller.Cancel()
			fmt.Println("Update cancelled.")
			return nil
		}

		if err := controller.Confirm(cmd.Context()); err != nil {
			return err
		}
		controller.Acknowledge()

		updated := sessions.Current().Identity
		fmt.Println("Your information has been updated.")
		fmt.Printf("Name:  %s\n", updated.DisplayName)
		fmt.Printf("Email: %s\n", updated.Email)

		<-sessions.Logout(cmd.Context(), svc)
		return nil
	},
}

func init() {
	addCredentialFlags(profileShowCmd)
	addCredentialFlags(profileUpdateCmd)
	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "new display name (empty: keep)")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "new email (empty: keep)")
	profileUpdateCmd.Flags().StringVar(&profileNewPassword, "new-password", "", "new password (empty: keep)")
	profileUpdateCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "confirm without prompting")
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}
