package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/accountctl/internal/validate"
)

var (
	registerUsername        string
	registerEmail           string
	registerPassword        string
	registerConfirmPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := validate.RegistrationForm{
			DisplayName:        registerUsername,
			Email:              registerEmail,
			Secret:             registerPassword,
			SecretConfirmation: registerConfirmPassword,
		}
		if findings := validate.Registration(form); len(findings) > 0 {
			return findings
		}

		if err := svc.Register(cmd.Context(), registerUsername, registerEmail, registerPassword); err != nil {
			return err
		}

		fmt.Println("Registration complete! Please log in.")
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email address")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "password")
	registerCmd.Flags().StringVar(&registerConfirmPassword, "confirm-password", "", "password, repeated")
	rootCmd.AddCommand(registerCmd)
}
