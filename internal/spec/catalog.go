package spec

import (
	"strings"

	"github.com/tidwall/gjson"
)

var recognizedVerbs = map[string]bool{
	"get":    true,
	"post":   true,
	"put":    true,
	"delete": true,
	"patch":  true,
}

// Build walks a parsed document into a flat list of endpoints, one per
// recognized (path, method) pair, in the document's own key order. A
// document without a paths object yields an InvalidError and no partial
// catalog.
func Build(doc *Document) ([]Endpoint, error) {
	paths := gjson.Get(doc.raw, "paths")
	if !paths.IsObject() {
		return nil, &InvalidError{Reason: "document has no paths object"}
	}

	var endpoints []Endpoint
	paths.ForEach(func(path, item gjson.Result) bool {
		item.ForEach(func(verb, op gjson.Result) bool {
			method := strings.ToLower(verb.String())
			if !recognizedVerbs[method] || !op.IsObject() {
				return true
			}
			endpoints = append(endpoints, buildEndpoint(path.String(), method, op, doc.definitions))
			return true
		})
		return true
	})
	return endpoints, nil
}

func buildEndpoint(path, method string, op gjson.Result, definitions string) Endpoint {
	ep := Endpoint{
		ID:          strings.ToUpper(method) + " " + path,
		Path:        path,
		Method:      strings.ToUpper(method),
		Summary:     summaryFor(path, op),
		Definitions: definitions,
	}

	op.Get("parameters").ForEach(func(_, param gjson.Result) bool {
		switch in := param.Get("in").String(); in {
		case "path", "query":
			ep.Parameters = append(ep.Parameters, ParameterSpec{
				Name:        param.Get("name").String(),
				Location:    in,
				Required:    in == "path" || param.Get("required").Bool(),
				Description: param.Get("description").String(),
			})
		case "body":
			// Swagger 2.0 carries the request-body schema as a parameter
			if schema := param.Get("schema"); schema.IsObject() {
				ep.BodySchema = schema.Raw
			}
		}
		return true
	})

	// OpenAPI 3.x request body: take the first content type that
	// declares a schema
	if ep.BodySchema == "" {
		op.Get("requestBody.content").ForEach(func(_, content gjson.Result) bool {
			if schema := content.Get("schema"); schema.IsObject() {
				ep.BodySchema = schema.Raw
				return false
			}
			return true
		})
	}

	return ep
}

// summaryFor picks a display label: summary, then operationId, then the
// path itself
func summaryFor(path string, op gjson.Result) string {
	if s := op.Get("summary").String(); s != "" {
		return s
	}
	if id := op.Get("operationId").String(); id != "" {
		return id
	}
	return path
}
