package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"inventory-hub/internal/domain"
)

func newReportCmd(get func() *backend) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analytic reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			reports := b.reports.List()
			return render(cmd, reports, writeTo(func(w io.Writer) {
				rows := make([][]string, 0, len(reports))
				for _, r := range reports {
					rows = append(rows, []string{r.Name, r.Title, formatParams(r.Parameters)})
				}
				printTable(w, []string{"name", "title", "parameters"}, rows)
			}))
		},
	})

	var limit, threshold int
	run := &cobra.Command{
		Use:   "run <name>",
		Short: "Run a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			params := make(map[string]int)
			if cmd.Flags().Changed("limit") {
				params["limit"] = limit
			}
			if cmd.Flags().Changed("threshold") {
				params["threshold"] = threshold
			}
			report, err := b.reports.Run(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return render(cmd, report, writeTo(func(w io.Writer) {
				_, _ = fmt.Fprintln(w, report.Title)
				if report.Degraded {
					_, _ = fmt.Fprintf(w, "degraded: %s\n", report.Reason)
					return
				}
				_, _ = fmt.Fprintln(w)
				printResultTable(w, report.ResultTable)
			}))
		},
	}
	run.Flags().IntVar(&limit, "limit", 0, "row limit for reports that take one")
	run.Flags().IntVar(&threshold, "threshold", 0, "stock threshold for reports that take one")
	cmd.AddCommand(run)
	return cmd
}

func newQueryCmd(get func() *backend) *cobra.Command {
	var req domain.QueryRequest
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL query on the configured engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			req.Query = args[0]
			table, err := b.reports.Custom(cmd.Context(), req)
			if err != nil {
				return err
			}
			return render(cmd, table, writeTo(func(w io.Writer) {
				printResultTable(w, table)
				if table.DownloadURL != "" {
					_, _ = fmt.Fprintf(w, "\ndownload: %s\n", table.DownloadURL)
				}
			}))
		},
	}
	cmd.Flags().StringVar(&req.Database, "database", "", "target database (default from ATHENA_DATABASE)")
	cmd.Flags().StringVar(&req.ResultSink, "result-sink", "", "result location (default from ATHENA_OUTPUT_LOCATION)")
	return cmd
}

func printResultTable(w io.Writer, t *domain.ResultTable) {
	if t == nil {
		return
	}
	rows := make([][]string, 0, len(t.Rows))
	for _, rec := range t.Rows {
		row := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = nullable(rec[c])
		}
		rows = append(rows, row)
	}
	printTable(w, t.Columns, rows)
	if t.Truncated {
		_, _ = fmt.Fprintf(w, "(%d rows, truncated)\n", t.RowCount)
		return
	}
	_, _ = fmt.Fprintf(w, "(%d rows)\n", t.RowCount)
}

func formatParams(p map[string]int) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.Itoa(p[k])
	}
	return strings.Join(parts, ",")
}
