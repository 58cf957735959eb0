package spec

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// InvalidError reports a document that could not be imported. An import
// failure never affects a previously built catalog.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid API description: %s", e.Reason)
}

// Document represents a parsed Swagger/OpenAPI description. The raw JSON
// is retained so that paths, methods and schema properties can be walked
// in the source document's own key order.
type Document struct {
	Title   string
	Version string

	raw         string
	definitions string
}

// Parse parses raw JSON text into a Document. Malformed JSON yields an
// InvalidError carrying the parser's message verbatim.
func Parse(data []byte) (*Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &InvalidError{Reason: err.Error()}
	}

	doc := &Document{
		Title:   gjson.GetBytes(data, "info.title").String(),
		Version: gjson.GetBytes(data, "info.version").String(),
		raw:     string(data),
	}

	// Prefer the legacy Swagger 2.0 definitions location; fall back to
	// the OpenAPI 3.x one. Absence of both is tolerated and simply
	// degrades schema flattening to "no fields".
	if defs := gjson.GetBytes(data, "definitions"); defs.IsObject() {
		doc.definitions = defs.Raw
	} else if schemas := gjson.GetBytes(data, "components.schemas"); schemas.IsObject() {
		doc.definitions = schemas.Raw
	}

	return doc, nil
}

// FetchDocument fetches and parses an API description. A URL pointing
// directly at the document is tried first, then the well-known swagger
// JSON locations under it.
func FetchDocument(baseURL string, client *http.Client) (*Document, error) {
	if client == nil {
		client = &http.Client{}
	}

	urls := []string{
		baseURL,
		fmt.Sprintf("%s/swagger/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/swagger.json", baseURL),
		fmt.Sprintf("%s/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/api/swagger.json", baseURL),
		fmt.Sprintf("%s/api/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/openapi.json", baseURL),
	}

	var lastErr error
	for _, url := range urls {
		data, err := fetchJSON(client, url)
		if err != nil {
			lastErr = err
			continue
		}
		doc, err := Parse(data)
		if err != nil {
			lastErr = err
			continue
		}
		return doc, nil
	}
	return nil, fmt.Errorf("failed to fetch API description from any known URL, last error: %v", lastErr)
}

func fetchJSON(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
