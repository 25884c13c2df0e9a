package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// resultEnvelope mirrors the server's query response shape.
type resultEnvelope struct {
	QueryID     string `json:"queryId"`
	DashboardID string `json:"dashboardId"`
	Data        struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	} `json:"data"`
	Timestamp int64 `json:"timestamp"`
	FromCache bool  `json:"fromCache"`
}

func newQueryCmd() *cobra.Command {
	var dashboardID string

	cmd := &cobra.Command{
		Use:   "query [text...]",
		Short: "Run a dashboard query",
		Args:  cobra.MinimumNArgs(1),
		Example: `  pulsectl query --dashboard 1 revenue by month
  pulsectl query --dashboard 1 --output json top customers this quarter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := outputFormat(cmd)
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			client := newAPIClient(serverAddr(cmd), bearerToken(cmd))
			var env resultEnvelope
			err := client.do(http.MethodPost, "/v1/query", map[string]string{
				"dashboardId": dashboardID,
				"query":       strings.Join(args, " "),
			}, &env)
			if err != nil {
				return err
			}

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(env)
			}

			printTable(cmd.OutOrStdout(), env.Data.Columns, env.Data.Rows)
			suffix := ""
			if env.FromCache {
				suffix = ", cached"
			}
			fmt.Fprintf(os.Stderr, "\n(%d rows%s)\n", len(env.Data.Rows), suffix)
			return nil
		},
	}

	cmd.Flags().StringVar(&dashboardID, "dashboard", "", "Dashboard id the query runs against")
	_ = cmd.MarkFlagRequired("dashboard")

	return cmd
}

// printTable renders rows in the API's column order.
func printTable(w io.Writer, columns []string, rows []map[string]any) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = fmt.Sprintf("%v", row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}
