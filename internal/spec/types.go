package spec

// ParameterSpec represents one declared path or query parameter
type ParameterSpec struct {
	Name        string
	Location    string // "path" or "query"
	Required    bool
	Description string
}

// BodyFieldSpec represents one flattened request-body field
type BodyFieldSpec struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// Endpoint represents one addressable (method, path) operation extracted
// from an imported API description. Instances are immutable once built
// and are invalidated wholesale when a new document is imported.
type Endpoint struct {
	ID          string
	Path        string
	Method      string
	Summary     string
	Parameters  []ParameterSpec
	BodySchema  string // raw JSON of the request-body schema, empty when absent
	Definitions string // raw JSON of the document's schema definitions
}

// PathParams returns the names of the endpoint's path parameters
func (e Endpoint) PathParams() []string {
	var names []string
	for _, p := range e.Parameters {
		if p.Location == "path" {
			names = append(names, p.Name)
		}
	}
	return names
}
