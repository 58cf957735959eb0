package spec

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Flatten reduces a request-body schema to a flat list of typed fields
// in property-declaration order. A `$ref` schema is resolved through the
// definitions mapping exactly one level deep; an unresolvable reference
// yields an empty list, never an error. Nested objects and arrays are
// not recursed into.
func Flatten(schema, definitions string) []BodyFieldSpec {
	if schema == "" {
		return nil
	}

	s := gjson.Parse(schema)
	if ref := s.Get("$ref"); ref.Exists() {
		s = resolveRef(ref.String(), definitions)
		if !s.IsObject() {
			return nil
		}
	}

	required := make(map[string]bool)
	s.Get("required").ForEach(func(_, name gjson.Result) bool {
		required[name.String()] = true
		return true
	})

	var fields []BodyFieldSpec
	s.Get("properties").ForEach(func(name, prop gjson.Result) bool {
		fieldType := prop.Get("type").String()
		if fieldType == "" {
			fieldType = "string"
		}
		fields = append(fields, BodyFieldSpec{
			Name:        name.String(),
			Type:        fieldType,
			Required:    required[name.String()],
			Description: prop.Get("description").String(),
		})
		return true
	})
	return fields
}

// resolveRef looks up the final path segment of a reference string in
// the definitions mapping
func resolveRef(ref, definitions string) gjson.Result {
	parts := strings.Split(ref, "/")
	name := parts[len(parts)-1]

	var resolved gjson.Result
	gjson.Parse(definitions).ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			resolved = value
			return false
		}
		return true
	})
	return resolved
}
