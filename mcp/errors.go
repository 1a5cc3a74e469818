package mcp

import (
	"encoding/json"
	"fmt"
)

// Standard JSON-RPC/MCP error codes used in this project.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

var nullID = json.RawMessage("null")

func ok(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: normalizeID(id), Result: result}
}

func rpcErr(id json.RawMessage, code int, msg string, data any) *Response {
	return &Response{JSONRPC: "2.0", ID: normalizeID(id), Error: &RPCError{Code: code, Message: msg, Data: data}}
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return nullID
	}
	return id
}

func errParse(err error) *Response {
	return rpcErr(nil, CodeParseError, fmt.Sprintf("Parse error: %v", err), nil)
}

func errInvalidRequest(id json.RawMessage, detail string) *Response {
	msg := "Invalid Request"
	if detail != "" {
		msg += ": " + detail
	}
	return rpcErr(id, CodeInvalidRequest, msg, nil)
}

func errInvalidParams(id json.RawMessage, detail string) *Response {
	return rpcErr(id, CodeInvalidParams, "Invalid params: "+detail, nil)
}

func errUnknownTool(id json.RawMessage, name string) *Response {
	return rpcErr(id, CodeInvalidParams, "Unknown tool: "+name, nil)
}

func errMethodNotFound(id json.RawMessage, method string) *Response {
	return rpcErr(id, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", method), nil)
}

func errInternal(id json.RawMessage, msg string) *Response {
	return rpcErr(id, CodeInternalError, msg, nil)
}
