package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/telemetry"
)

// NewSDKServer publishes tools through the MCP Go SDK. Tool failures are
// reported in the result exactly as the line-delimited server does.
func NewSDKServer(tools ToolSet, info ServerInfo) *sdk.Server {
	impl := &sdk.Implementation{
		Name:    info.Name,
		Title:   info.Title,
		Version: info.Version,
	}
	srv := sdk.NewServer(impl, &sdk.ServerOptions{HasTools: true, HasResources: true})
	registerDocsResources(srv, tools)

	for _, td := range tools.Tools() {
		name := td.Name
		sdk.AddTool[map[string]any, any](srv, &sdk.Tool{
			Name:        td.Name,
			Title:       td.Title,
			Description: td.Description,
			InputSchema: td.InputSchema,
		}, func(ctx context.Context, _ *sdk.CallToolRequest, in map[string]any) (res *sdk.CallToolResult, out any, err error) {
			defer func() {
				if r := recover(); r != nil {
					telemetry.CapturePanic(r, map[string]string{"tool": name})
					err = fmt.Errorf("internal error: %v", r)
				}
			}()
			tr, err := tools.Call(ctx, name, in)
			if err != nil {
				logger.Error("tool failed", err, "tool", name)
				telemetry.CaptureError(err, map[string]string{"tool": name})
				return nil, nil, err
			}
			return toSDKResult(tr), nil, nil
		})
	}
	return srv
}

// ServeSDK runs the SDK server on t until the peer disconnects or ctx ends.
func ServeSDK(ctx context.Context, tools ToolSet, info ServerInfo, t sdk.Transport) error {
	if t == nil {
		t = &sdk.StdioTransport{}
	}
	return NewSDKServer(tools, info).Run(ctx, t)
}

func toSDKResult(r ToolResult) *sdk.CallToolResult {
	content := make([]sdk.Content, 0, len(r.Content))
	for _, c := range r.Content {
		content = append(content, &sdk.TextContent{Text: c.Text})
	}
	return &sdk.CallToolResult{Content: content, IsError: r.IsError}
}
