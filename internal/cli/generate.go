package cli

import (
	"fmt"
	"os"

	"api-batch-runner/internal/csvcodec"
	"api-batch-runner/internal/llm"
	"api-batch-runner/internal/testdata"

	"github.com/spf13/cobra"
)

// generateCmd groups the rows-CSV generators
func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a rows CSV from a database query or an LLM",
	}
	cmd.AddCommand(generateDBCmd(), generateLLMCmd())
	return cmd
}

// generateDBCmd runs a SQL query and writes its result set as a rows CSV
func generateDBCmd() *cobra.Command {
	var dbCfg testdata.DBConfig
	var query, outPath string

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Generate rows from a SQL query result set",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbCfg.Type == "" || dbCfg.Host == "" || dbCfg.Port == 0 || dbCfg.Database == "" || dbCfg.User == "" {
				return fmt.Errorf("all database connection flags are required")
			}
			if query == "" || outPath == "" {
				return fmt.Errorf("--query and --out are required")
			}

			source := testdata.NewDBRowSource(dbCfg)
			headers, rows, err := source.Fetch(cmd.Context(), query)
			if err != nil {
				return err
			}

			return writeRows(cmd, outPath, headers, rows)
		},
	}

	cmd.Flags().StringVar(&dbCfg.Type, "db-type", "", "database type (postgres|mysql|sqlserver)")
	cmd.Flags().StringVar(&dbCfg.Host, "db-host", "", "database host")
	cmd.Flags().IntVar(&dbCfg.Port, "db-port", 0, "database port")
	cmd.Flags().StringVar(&dbCfg.Database, "db-name", "", "database name")
	cmd.Flags().StringVar(&dbCfg.User, "db-user", "", "database user")
	cmd.Flags().StringVar(&dbCfg.Password, "db-password", "", "database password")
	cmd.Flags().StringVar(&query, "query", "", "SQL query whose result set becomes the rows")
	cmd.Flags().StringVar(&outPath, "out", "", "output rows CSV path")
	return cmd
}

// generateLLMCmd asks an LLM for sample rows for one endpoint
func generateLLMCmd() *cobra.Command {
	var endpointID, model, outPath string
	var count int

	cmd := &cobra.Command{
		Use:   "llm",
		Short: "Generate sample rows for an endpoint using OpenAI",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := os.Getenv("OPENAI_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is not set")
			}

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

			suggester := llm.NewSuggester(apiKey, model, log)
			headers, rows, err := suggester.SuggestRows(cmd.Context(), ep, count)
			if err != nil {
				return err
			}

			return writeRows(cmd, outPath, headers, rows)
		},
	}

	cmd.Flags().StringVar(&endpointID, "endpoint", "", `endpoint id, e.g. "POST /users"`)
	cmd.Flags().StringVar(&model, "model", "", "OpenAI model (default gpt-3.5-turbo)")
	cmd.Flags().IntVar(&count, "count", 5, "number of rows to generate")
	cmd.Flags().StringVar(&outPath, "out", "", "output rows CSV path (stdout when omitted)")
	cmd.MarkFlagRequired("endpoint")
	return cmd
}

func writeRows(cmd *cobra.Command, outPath string, headers []string, rows []csvcodec.Row) error {
	text := csvcodec.Serialize(headers, rows)
	if outPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write rows file: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", len(rows), outPath)
	return nil
}
