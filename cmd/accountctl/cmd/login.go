package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/accountctl/internal/domain"
	"github.com/nfrund/accountctl/internal/validate"
)

var (
	loginIdentifier string
	loginPassword   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify credentials against the account service",
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := authenticate(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Welcome, %s\n", identity.DisplayName)
		return nil
	},
}

func init() {
	addCredentialFlags(loginCmd)
	rootCmd.AddCommand(loginCmd)
}

// addCredentialFlags attaches the identifier/password pair every
// session-bearing command needs.
func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&loginIdentifier, "as", "", "username or email")
	cmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
}

// authenticate validates the credential form, performs the login and
// establishes the process-wide session.
func authenticate(ctx context.Context) (*domain.Identity, error) {
	form := validate.LoginForm{Identifier: loginIdentifier, Secret: loginPassword}
	if findings := validate.Login(form); len(findings) > 0 {
		return nil, findings
	}

	identity, err := svc.Authenticate(ctx, loginIdentifier, loginPassword)
	if err != nil {
		return nil, err
	}
	sessions.Establish(identity)
	return identity, nil
}
