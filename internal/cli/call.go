package cli

import (
	"fmt"
	"strings"

	"api-batch-runner/internal/executor"
	"api-batch-runner/internal/reporter"

	"github.com/spf13/cobra"
)

// callCmd performs one manual request against an endpoint
func callCmd() *cobra.Command {
	var endpointID string
	var values []string

	cmd := &cobra.Command{
		Use:   "call",
		Short: "Execute one endpoint with values supplied on the command line",
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

			mapping, err := parseValues(values)
			if err != nil {
				return err
			}

			cfg := loadConfig()
			exec := executor.New(cfg.RunConfig(), log)
			outcome := exec.Execute(cmd.Context(), ep, mapping)

			rep := reporter.New(reporter.Config{
				Formats:   cfg.Reporting.Format,
				OutputDir: cfg.Reporting.OutputDir,
				Detailed:  cfg.Reporting.Detailed,
			})
			rep.RenderOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointID, "endpoint", "", `endpoint id, e.g. "GET /users/{id}"`)
	cmd.Flags().StringArrayVar(&values, "set", nil, "field value as name=value, repeatable")
	cmd.MarkFlagRequired("endpoint")
	return cmd
}

// parseValues turns repeated name=value flags into a value mapping
func parseValues(pairs []string) (map[string]string, error) {
	mapping := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid --set value %q, expected name=value", pair)
		}
		mapping[parts[0]] = parts[1]
	}
	return mapping, nil
}
