package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/accountctl/internal/client"
	"github.com/nfrund/accountctl/internal/config"
	"github.com/nfrund/accountctl/internal/domain"
	"github.com/nfrund/accountctl/internal/logging"
	"github.com/nfrund/accountctl/internal/session"
)

var (
	serviceURL string
	timeout    time.Duration

	svc      *client.Client
	sessions *session.Manager
)

var rootCmd = &cobra.Command{
	Use:   "accountctl",
	Short: "Account controller CLI",
	Long: `accountctl manages a single authenticated account against a remote
account service: register, log in, inspect the profile, and perform the
confirmation-gated mutations (profile update, account deletion).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.New()
		cfg := config.New()

		if serviceURL == "" {
			serviceURL = cfg.ServiceURL
		}
		if timeout == 0 {
			timeout = cfg.RequestTimeout
		}

		var err error
		svc, err = client.New(serviceURL, client.WithTimeout(timeout))
		if err != nil {
			return err
		}
		sessions = session.NewManager()
		return nil
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportFailure(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "account service base URL (default $ACCOUNT_SERVICE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default $ACCOUNT_REQUEST_TIMEOUT or 10s)")
}

// reportFailure prints field-scoped findings inline and everything else as a
// single blocking message, mirroring how the screens present errors.
func reportFailure(err error) {
	if findings := domain.FieldErrorsFrom(err); len(findings) > 0 {
		for _, fe := range findings {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
		return
	}

	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		fmt.Fprintln(os.Stderr, "Error: network error or account service not reachable")
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// promptConfirm asks the user to confirm a destructive action. Anything but
// an explicit yes is a cancel.
func promptConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
