package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Request is an incoming JSON-RPC 2.0 message.
// ID is nil when the member was absent and "null" when it was sent as null.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether no response must be written for r.
func (r *Request) IsNotification() bool {
	return r.ID == nil && strings.HasPrefix(r.Method, notificationPrefix)
}

// Response represents a JSON-RPC 2.0/MCP response payload.
// Either Result or Error will be set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// ServerInfo identifies the server in the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version"`
}

type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

// ToolDescriptor is the discovery record returned by tools/list.
type ToolDescriptor struct {
	Name        string             `json:"name"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

type ListToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// CallToolParams is the params object of tools/call.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Content is one block of a tool result. Only text is produced.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult wraps text in a single text content block.
func TextResult(text string) ToolResult {
	return ToolResult{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult is TextResult with isError set.
func ErrorResult(text string) ToolResult {
	r := TextResult(text)
	r.IsError = true
	return r
}

// Text concatenates the text blocks of r.
func (r ToolResult) Text() string {
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	var s string
	for _, c := range r.Content {
		s += c.Text
	}
	return s
}

// ErrUnknownTool is returned (wrapped) by ToolSet.Call for names not in Tools().
var ErrUnknownTool = errors.New("unknown tool")

// ToolSet is the fixed table of tools a server exposes.
// Call reports failures the caller can recover from inside the result;
// a returned error is either ErrUnknownTool or an internal fault.
type ToolSet interface {
	Tools() []ToolDescriptor
	Call(ctx context.Context, name string, args map[string]any) (ToolResult, error)
}
