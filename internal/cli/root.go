package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"api-batch-runner/internal/config"
	"api-batch-runner/internal/logger"
	"api-batch-runner/internal/spec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	specPath string
	baseURL  string
	token    string
	verbose  bool
)

// Root builds the command tree
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:          "api-batch-runner",
		Short:        "Import an OpenAPI/Swagger document and run its endpoints one-off or in CSV-driven batches",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config YAML (default config/config.yaml)")
	root.PersistentFlags().StringVar(&specPath, "spec", "", "API description: a JSON file path or a URL")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "base URL for requests (overrides config)")
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		endpointsCmd(),
		showCmd(),
		templateCmd(),
		callCmd(),
		batchCmd(),
		generateCmd(),
	)
	return root
}

// Execute runs the CLI
func Execute() {
	if err := Root().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the shared logger for one command invocation
func newLogger() (*zap.Logger, error) {
	return logger.New(verbose)
}

// loadConfig loads the YAML config, falling back to built-in defaults
// when no file exists, then applies flag overrides
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cfg = config.Default()
	}
	if baseURL != "" {
		cfg.Environment.BaseURL = baseURL
	}
	if token != "" {
		cfg.Environment.Auth.Token = token
	}
	return cfg
}

// loadCatalog imports the API description named by --spec and builds
// the endpoint catalog from it
func loadCatalog() (*spec.Document, []spec.Endpoint, error) {
	if specPath == "" {
		return nil, nil, fmt.Errorf("--spec is required")
	}

	var doc *spec.Document
	var err error
	if strings.HasPrefix(specPath, "http://") || strings.HasPrefix(specPath, "https://") {
		doc, err = spec.FetchDocument(specPath, &http.Client{})
	} else {
		var data []byte
		data, err = os.ReadFile(specPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read spec file: %v", err)
		}
		doc, err = spec.Parse(data)
	}
	if err != nil {
		return nil, nil, err
	}

	endpoints, err := spec.Build(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, endpoints, nil
}

// findEndpoint resolves an endpoint id like "GET /users/{id}" against
// the catalog, tolerating a lowercase method
func findEndpoint(endpoints []spec.Endpoint, id string) (spec.Endpoint, error) {
	parts := strings.SplitN(strings.TrimSpace(id), " ", 2)
	if len(parts) == 2 {
		id = strings.ToUpper(parts[0]) + " " + parts[1]
	}
	for _, ep := range endpoints {
		if ep.ID == id {
			return ep, nil
		}
	}
	return spec.Endpoint{}, fmt.Errorf("endpoint %q not found in the imported description", id)
}
