package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		Long:  "Exchange account credentials for a bearer token. The token is printed to stdout so it can be captured into PULSEBOARD_TOKEN.",
		Example: `  export PULSEBOARD_TOKEN=$(pulsectl login --email ana@example.com)

  # Non-interactive
  pulsectl login --email ci@example.com --password "$CI_PASSWORD"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(raw)
			}

			client := newAPIClient(serverAddr(cmd), "")
			var out struct {
				Token     string `json:"token"`
				Principal struct {
					ID    int64  `json:"id"`
					Email string `json:"email"`
				} `json:"principal"`
			}
			if err := client.do(http.MethodPost, "/v1/auth/login", map[string]string{
				"email": email, "password": password,
			}, &out); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "logged in as %s (user %d)\n", out.Principal.Email, out.Principal.ID)
			fmt.Fprintln(cmd.OutOrStdout(), out.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
