package testdata

import (
	"strings"

	"api-batch-runner/internal/csvcodec"
	"api-batch-runner/internal/spec"

	"github.com/google/uuid"
)

// Template generates a starter CSV for one endpoint: a header per path
// parameter, query parameter and flattened body field, plus one sample
// row to edit. The generated text round-trips through the CSV codec.
func Template(endpoint spec.Endpoint) string {
	var headers []string
	sample := csvcodec.Row{}

	for _, param := range endpoint.Parameters {
		headers = append(headers, param.Name)
		sample[param.Name] = sampleValue(param.Name, "string")
	}
	for _, field := range spec.Flatten(endpoint.BodySchema, endpoint.Definitions) {
		if sample[field.Name] != "" {
			continue // a parameter already claimed this column
		}
		headers = append(headers, field.Name)
		sample[field.Name] = sampleValue(field.Name, field.Type)
	}

	if len(headers) == 0 {
		return ""
	}
	return csvcodec.Serialize(headers, []csvcodec.Row{sample})
}

// sampleValue picks a placeholder cell value from the field type, with
// a few name-based refinements
func sampleValue(name, fieldType string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "email"):
		return "test@example.com"
	case strings.Contains(lower, "date"):
		return "2024-01-01"
	case lower == "id" || strings.HasSuffix(lower, "id"):
		return uuid.NewString()
	}

	switch fieldType {
	case "number", "integer":
		return "0"
	case "boolean":
		return "true"
	default:
		return "text"
	}
}
