package tools

import (
	"math"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// args are decoded tool arguments; numbers arrive as float64.
type args map[string]any

func (a args) str(key, def string) string {
	if s, ok := a[key].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

func (a args) integer(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		return int(math.Round(v))
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

func ptr[T any](v T) *T { return &v }

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

func stringProp(title, description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Title: title, Description: description}
}
