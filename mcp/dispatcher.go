package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/telemetry"
)

// ProtocolVersion is reported by initialize.
const ProtocolVersion = "2024-11-05"

const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"

	notificationPrefix = "notifications/"
)

type handlerFunc func(ctx context.Context, req *Request) *Response

// Dispatcher maps the closed set of methods to handlers.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	tools             ToolSet
	info              ServerInfo
	unknownToolAsText bool
	handlers          map[string]handlerFunc
}

type Option func(*Dispatcher)

// WithUnknownToolAsText answers calls to unknown tools with a plain text
// result instead of an Invalid params error.
func WithUnknownToolAsText() Option {
	return func(d *Dispatcher) { d.unknownToolAsText = true }
}

func NewDispatcher(tools ToolSet, info ServerInfo, opts ...Option) *Dispatcher {
	d := &Dispatcher{tools: tools, info: info}
	for _, o := range opts {
		o(d)
	}
	d.handlers = map[string]handlerFunc{
		MethodInitialize:  d.initialize,
		MethodInitialized: d.initialized,
		MethodPing:        d.ping,
		MethodToolsList:   d.listTools,
		MethodToolsCall:   d.callTool,
	}
	return d
}

// HandleMessage decodes one raw message and dispatches it.
// A nil response means nothing should be written.
func (d *Dispatcher) HandleMessage(ctx context.Context, raw []byte) *Response {
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		var v any
		err := json.Unmarshal(raw, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		logger.Warn("parse error", "error", err.Error())
		return errParse(err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return errInvalidRequest(nil, "expected a JSON object")
	}
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		// a mistyped member must not cost the caller its id
		var idOnly struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.Unmarshal(raw, &idOnly)
		return errInvalidRequest(idOnly.ID, err.Error())
	}
	return d.Dispatch(ctx, &req)
}

// Dispatch runs req. Panics in handlers become Internal error responses.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (resp *Response) {
	if req.Method == "" {
		return errInvalidRequest(req.ID, "method is required")
	}
	notify := req.IsNotification()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panic", fmt.Errorf("%v", r), "method", req.Method, "stack", string(debug.Stack()))
			telemetry.CapturePanic(r, map[string]string{"method": req.Method})
			if notify {
				resp = nil
				return
			}
			resp = errInternal(req.ID, fmt.Sprintf("Internal error: %v", r))
		}
	}()

	h, found := d.handlers[req.Method]
	if !found {
		if notify {
			logger.Debug("ignoring notification", "method", req.Method)
			return nil
		}
		return errMethodNotFound(req.ID, req.Method)
	}
	logger.Debug("dispatch", "method", req.Method, "id", string(req.ID))
	resp = h(ctx, req)
	if notify {
		return nil
	}
	return resp
}

func (d *Dispatcher) initialize(_ context.Context, req *Request) *Response {
	return ok(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      d.info,
	})
}

// initialized acknowledges the handshake; sent as a notification it gets no reply.
func (d *Dispatcher) initialized(_ context.Context, req *Request) *Response {
	return ok(req.ID, map[string]any{})
}

func (d *Dispatcher) ping(_ context.Context, req *Request) *Response {
	return ok(req.ID, map[string]any{})
}

func (d *Dispatcher) listTools(_ context.Context, req *Request) *Response {
	tools := d.tools.Tools()
	if tools == nil {
		tools = []ToolDescriptor{}
	}
	return ok(req.ID, ListToolsResult{Tools: tools})
}

func (d *Dispatcher) callTool(ctx context.Context, req *Request) *Response {
	params, err := decodeCallParams(req.Params)
	if err != nil {
		return errInvalidParams(req.ID, err.Error())
	}
	res, err := d.tools.Call(ctx, params.Name, params.Arguments)
	if err == nil {
		return ok(req.ID, res)
	}
	if errors.Is(err, ErrUnknownTool) {
		if d.unknownToolAsText {
			return ok(req.ID, TextResult("Unknown tool: "+params.Name))
		}
		return errUnknownTool(req.ID, params.Name)
	}
	logger.Error("tool failed", err, "tool", params.Name)
	telemetry.CaptureError(err, map[string]string{"method": req.Method, "tool": params.Name})
	return errInternal(req.ID, err.Error())
}

func decodeCallParams(raw json.RawMessage) (CallToolParams, error) {
	var p CallToolParams
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullID) {
		return p, errors.New("params must be an object with a tool name")
	}
	if raw[0] != '{' {
		return p, errors.New("params must be an object")
	}
	var shape struct {
		Name      *string         `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return p, err
	}
	if shape.Name == nil || *shape.Name == "" {
		return p, errors.New("name is required")
	}
	p.Name = *shape.Name
	args := bytes.TrimSpace(shape.Arguments)
	if len(args) == 0 || bytes.Equal(args, nullID) {
		p.Arguments = map[string]any{}
		return p, nil
	}
	if args[0] != '{' {
		return p, errors.New("arguments must be an object")
	}
	if err := json.Unmarshal(args, &p.Arguments); err != nil {
		return p, err
	}
	return p, nil
}
