package cli

import (
	"fmt"
	"os"
	"strconv"

	"api-batch-runner/internal/spec"
	"api-batch-runner/internal/testdata"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// endpointsCmd lists every endpoint in the imported description
func endpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the endpoints of an imported API description",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, endpoints, err := loadCatalog()
			if err != nil {
				return err
			}

			if doc.Title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", doc.Title, doc.Version)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Summary", "Params", "Body"})
			table.SetAutoWrapText(false)
			for _, ep := range endpoints {
				hasBody := ""
				if ep.BodySchema != "" {
					hasBody = "yes"
				}
				table.Append([]string{ep.ID, ep.Summary, strconv.Itoa(len(ep.Parameters)), hasBody})
			}
			table.Render()
			fmt.Fprintf(cmd.OutOrStdout(), "%d endpoints\n", len(endpoints))
			return nil
		},
	}
}

// showCmd prints one endpoint's parameters and flattened body fields
func showCmd() *cobra.Command {
	var endpointID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the parameters and body fields of one endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, endpoints, err := loadCatalog()
			if err != nil {
				return err
			}
			ep, err := findEndpoint(endpoints, endpointID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", ep.ID, ep.Summary)

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Name", "Kind", "Type", "Required", "Description"})
			table.SetAutoWrapText(false)
			for _, p := range ep.Parameters {
				table.Append([]string{p.Name, p.Location, "string", strconv.FormatBool(p.Required), p.Description})
			}
			for _, f := range spec.Flatten(ep.BodySchema, ep.Definitions) {
				table.Append([]string{f.Name, "body", f.Type, strconv.FormatBool(f.Required), f.Description})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointID, "endpoint", "", `endpoint id, e.g. "GET /users/{id}"`)
	cmd.MarkFlagRequired("endpoint")
	return cmd
}

// templateCmd emits a starter CSV for an endpoint
func templateCmd() *cobra.Command {
	var endpointID, outPath string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Generate a starter rows CSV for one endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, endpoints, err := loadCatalog()
			if err != nil {
				return err
			}
			ep, err := findEndpoint(endpoints, endpointID)
			if err != nil {
				return err
			}

			text := testdata.Template(ep)
			if text == "" {
				return fmt.Errorf("endpoint %s declares no parameters or body fields", ep.ID)
			}

			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(text+"\n"), 0644); err != nil {
				return fmt.Errorf("failed to write template: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&endpointID, "endpoint", "", `endpoint id, e.g. "POST /users"`)
	cmd.Flags().StringVar(&outPath, "out", "", "write the template to this file instead of stdout")
	cmd.MarkFlagRequired("endpoint")
	return cmd
}
