package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type historyPage struct {
	Records []struct {
		ID          int64           `json:"id"`
		DashboardID string          `json:"dashboardId"`
		PrincipalID int64           `json:"principalId"`
		Query       string          `json:"query"`
		Result      json.RawMessage `json:"result"`
		CreatedAt   time.Time       `json:"createdAt"`
	} `json:"records"`
	TotalCount    int64  `json:"totalCount"`
	NextPageToken string `json:"nextPageToken"`
}

func newHistoryCmd() *cobra.Command {
	var (
		dashboardID string
		maxResults  int
		pageToken   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a dashboard's query log, newest first",
		Example: `  pulsectl history --dashboard 1
  pulsectl history --dashboard 1 --max-results 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output := outputFormat(cmd)
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			params := url.Values{}
			if maxResults > 0 {
				params.Set("max_results", strconv.Itoa(maxResults))
			}
			if pageToken != "" {
				params.Set("page_token", pageToken)
			}
			path := "/v1/dashboards/" + url.PathEscape(dashboardID) + "/history"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			client := newAPIClient(serverAddr(cmd), bearerToken(cmd))
			var page historyPage
			if err := client.do(http.MethodGet, path, nil, &page); err != nil {
				return err
			}

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tUSER\tQUERY")
			for _, rec := range page.Records {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", rec.CreatedAt.Format(time.RFC3339), rec.PrincipalID, rec.Query)
			}
			_ = tw.Flush()
			fmt.Fprintf(os.Stderr, "\n%d records (of %d total)\n", len(page.Records), page.TotalCount)
			if page.NextPageToken != "" {
				fmt.Fprintf(os.Stderr, "next page: --page-token %s\n", page.NextPageToken)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dashboardID, "dashboard", "", "Dashboard id")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Page size (server default when omitted)")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Continue from a previous page")
	_ = cmd.MarkFlagRequired("dashboard")

	return cmd
}
