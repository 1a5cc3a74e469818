package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	docsMIMEType = "text/markdown"
	docsToolsURI = "resource://pdf-summarizer-mcp/tools"
)

func registerDocsResources(srv *sdk.Server, tools ToolSet) {
	body := ToolsMarkdown(tools.Tools())
	srv.AddResource(&sdk.Resource{
		URI:         docsToolsURI,
		Name:        "tools",
		Title:       "Tool reference",
		Description: "Every published tool with its arguments.",
		MIMEType:    docsMIMEType,
	}, staticMarkdownResource(docsToolsURI, body))
}

func staticMarkdownResource(uri, body string) sdk.ResourceHandler {
	return func(_ context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
		if req != nil && req.Params != nil {
			target := req.Params.URI
			if idx := strings.IndexByte(target, '#'); idx >= 0 {
				target = target[:idx]
			}
			if target != "" && target != uri {
				return nil, sdk.ResourceNotFoundError(target)
			}
		}
		return &sdk.ReadResourceResult{
			Contents: []*sdk.ResourceContents{
				{
					URI:      uri,
					MIMEType: docsMIMEType,
					Text:     body,
				},
			},
		}, nil
	}
}

// ToolsMarkdown renders a reference table for tools.
func ToolsMarkdown(tools []ToolDescriptor) string {
	var b strings.Builder
	b.WriteString("# Tools\n\n")
	b.WriteString("| Tool | Description | Arguments |\n| --- | --- | --- |\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t.Name, t.Description, argumentSummary(t.InputSchema))
	}
	return b.String()
}

func argumentSummary(s *jsonschema.Schema) string {
	if s == nil || len(s.Properties) == 0 {
		return "-"
	}
	required := map[string]bool{}
	for _, r := range s.Required {
		required[r] = true
	}
	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		p := s.Properties[n]
		typ := p.Type
		if typ == "" {
			typ = "any"
		}
		if required[n] {
			parts = append(parts, fmt.Sprintf("`%s` (%s, required)", n, typ))
		} else {
			parts = append(parts, fmt.Sprintf("`%s` (%s)", n, typ))
		}
	}
	return strings.Join(parts, ", ")
}
