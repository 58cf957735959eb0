package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"api-batch-runner/internal/batch"
	"api-batch-runner/internal/executor"
	"api-batch-runner/internal/reporter"
	"api-batch-runner/internal/testdata"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// batchCmd runs an endpoint once per row of a CSV file and exports the
// result table
func batchCmd() *cobra.Command {
	var endpointID, rowsPath string
	var noExport bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run one endpoint over every row of a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			_, endpoints, err := loadCatalog()
			if err != nil {
				return err
			}
			ep, err := findEndpoint(endpoints, endpointID)
			if err != nil {
				return err
			}

			headers, rows, err := testdata.LoadRows(rowsPath)
			if err != nil {
				return err
			}

			// Ctrl-C stops the run between rows; completed rows are kept
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cfg := loadConfig()
			runner := batch.New(executor.New(cfg.RunConfig(), log), log)

			out := cmd.OutOrStdout()
			var results []batch.ResultRow
			for update := range runner.Run(ctx, ep, rows) {
				results = update.Results
				fmt.Fprintf(out, "\r%3d%% (%d/%d)", update.Percent, update.Completed, update.Total)
			}
			fmt.Fprintln(out)

			rep := reporter.New(reporter.Config{
				Formats:   cfg.Reporting.Format,
				OutputDir: cfg.Reporting.OutputDir,
				Detailed:  cfg.Reporting.Detailed,
			})
			rep.RenderTable(out, results)
			printSummary(out, results)

			if noExport {
				return nil
			}
			for _, format := range cfg.Reporting.Format {
				switch format {
				case "csv":
					path, err := rep.ExportCSV(headers, results)
					if err != nil {
						return err
					}
					if path != "" {
						fmt.Fprintf(out, "results exported to %s\n", path)
					}
				case "json":
					path, err := rep.WriteJSON(ep.ID, results)
					if err != nil {
						return err
					}
					if path != "" {
						fmt.Fprintf(out, "report written to %s\n", path)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointID, "endpoint", "", `endpoint id, e.g. "POST /users"`)
	cmd.Flags().StringVar(&rowsPath, "rows", "", "CSV file with one value row per request")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "skip writing result files")
	cmd.MarkFlagRequired("endpoint")
	cmd.MarkFlagRequired("rows")
	return cmd
}

func printSummary(out io.Writer, results []batch.ResultRow) {
	passed := 0
	for _, r := range results {
		if r.Result == "PASS" {
			passed++
		}
	}
	fmt.Fprintf(out, "%s %d  %s %d  (of %d)\n",
		color.GreenString("PASS"), passed,
		color.RedString("FAIL"), len(results)-passed,
		len(results))
}
