package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pulseboard/internal/auth"
	"pulseboard/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var (
		secret string
		id     int64
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a dev-mode bearer token",
		Long:  "Sign an HS256 access token for development and testing against a server that shares the same JWT_SECRET.",
		Example: `  # Token for user 1 with the server's secret
  pulsectl token --secret $JWT_SECRET --id 1 --email dev@example.com

  # Short-lived token
  pulsectl token --secret $JWT_SECRET --id 2 --email ci@example.com --ttl 15m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("provide --secret or set JWT_SECRET")
			}

			signed, err := auth.NewIssuer(secret, ttl).Issue(domain.Principal{ID: id, Email: email})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (env JWT_SECRET)")
	cmd.Flags().Int64Var(&id, "id", 1, "User id (token subject)")
	cmd.Flags().StringVar(&email, "email", "dev@example.com", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
