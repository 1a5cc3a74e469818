package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// fakeTools is an in-memory ToolSet used across the package tests.
type fakeTools struct {
	calls []string
}

func (f *fakeTools) Tools() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:        "echo",
			Description: "Echo the text argument.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{"text": {Type: "string"}},
				Required:   []string{"text"},
			},
		},
		{
			Name:        "fail",
			Description: "Always fails internally.",
			InputSchema: &jsonschema.Schema{Type: "object"},
		},
		{
			Name:        "boom",
			Description: "Panics.",
			InputSchema: &jsonschema.Schema{Type: "object"},
		},
	}
}

func (f *fakeTools) Call(_ context.Context, name string, args map[string]any) (ToolResult, error) {
	f.calls = append(f.calls, name)
	switch name {
	case "echo":
		text, _ := args["text"].(string)
		if text == "" {
			return ErrorResult("Error: Text is required"), nil
		}
		return TextResult(text), nil
	case "fail":
		return ToolResult{}, fmt.Errorf("database exploded")
	case "boom":
		panic("kaboom")
	}
	return ToolResult{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

var testInfo = ServerInfo{Name: "pdf-summarizer-mcp", Version: "0.1.0"}
