package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newAPIClient(serverAddr(cmd), "")
			var out struct {
				Status   string `json:"status"`
				Cache    string `json:"cache"`
				Executor string `json:"executor"`
			}
			if err := client.do(http.MethodGet, "/healthz", nil, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\ncache: %s\nexecutor: %s\n", out.Status, out.Cache, out.Executor)
			return nil
		},
	}
}
