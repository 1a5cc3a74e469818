// Package tools holds the fixed table of tools served over JSON-RPC, HTTP
// and the CLI. Every tool declares a JSON Schema that is enforced before its
// handler runs.
package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"pdf-summarizer-mcp/config"
	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/llm"
	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/mcp"
)

// Models hands out LLM clients on demand.
type Models interface {
	Summarizer(ctx context.Context) (llm.Generator, error)
	TextModel(ctx context.Context) (llm.Generator, error)
	ChatModel(ctx context.Context) (llm.Chatter, error)
}

// Deps are the collaborators tool handlers use.
type Deps struct {
	Models     Models
	HTTPClient *http.Client
	Summarize  config.Summarize
	Download   config.Download
	// WeatherAPIKey falls back to WEATHER_API_KEY at call time.
	WeatherAPIKey string
	WeatherURL    string
	SearchURL     string
}

// DepsFromConfig builds Deps from cfg.
func DepsFromConfig(cfg *config.Config, models Models, client *http.Client) Deps {
	return Deps{
		Models:        models,
		HTTPClient:    client,
		Summarize:     cfg.Summarize,
		Download:      cfg.Download,
		WeatherAPIKey: cfg.Weather.APIKey,
		WeatherURL:    cfg.Weather.BaseURL,
		SearchURL:     cfg.Search.BaseURL,
	}
}

type handler func(ctx context.Context, a args) (string, error)

// Tool is one entry of the table.
type Tool struct {
	Name        string
	Title       string
	Description string
	Schema      *jsonschema.Schema
	// plain tools report expected failures as ordinary result text.
	plain    bool
	run      handler
	resolved *jsonschema.Resolved
}

// Registry is the fixed tool table. It is built once and never mutated.
type Registry struct {
	deps   Deps
	tools  []*Tool
	byName map[string]*Tool
}

// NewRegistry builds the table and resolves every schema.
func NewRegistry(deps Deps) (*Registry, error) {
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}
	if deps.WeatherURL == "" {
		deps.WeatherURL = DefaultWeatherURL
	}
	if deps.SearchURL == "" {
		deps.SearchURL = DefaultSearchURL
	}
	r := &Registry{deps: deps, byName: map[string]*Tool{}}

	var all []*Tool
	all = append(all, r.summarizeTools()...)
	all = append(all, r.webTools()...)
	all = append(all, r.aiTools()...)
	all = append(all, r.dataTools()...)
	all = append(all, r.fileTools()...)

	for _, t := range all {
		rs, err := t.Schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolve schema for %s: %w", t.Name, err)
		}
		t.resolved = rs
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %s", t.Name)
		}
		r.byName[t.Name] = t
		r.tools = append(r.tools, t)
	}
	return r, nil
}

// Names returns tool names in table order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Tools implements mcp.ToolSet. It never touches the network or credentials.
func (r *Registry) Tools() []mcp.ToolDescriptor {
	out := make([]mcp.ToolDescriptor, len(r.tools))
	for i, t := range r.tools {
		out[i] = mcp.ToolDescriptor{
			Name:        t.Name,
			Title:       t.Title,
			Description: t.Description,
			InputSchema: t.Schema,
		}
	}
	return out
}

// Call implements mcp.ToolSet.
// A returned error is either mcp.ErrUnknownTool or an unclassified fault.
func (r *Registry) Call(ctx context.Context, name string, arguments map[string]any) (mcp.ToolResult, error) {
	t, found := r.byName[name]
	if !found {
		return mcp.ToolResult{}, fmt.Errorf("%w: %s", mcp.ErrUnknownTool, name)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	if err := t.check(arguments); err != nil {
		logger.Debug("invalid tool arguments", "tool", name, "error", err.Error())
		return mcp.ErrorResult("Error: " + err.Error()), nil
	}

	text, err := t.run(ctx, args(arguments))
	if err == nil {
		return mcp.TextResult(text), nil
	}
	if !errdefs.IsKnown(err) {
		return mcp.ToolResult{}, err
	}
	logger.Debug("tool returned error", "tool", name, "error", err.Error())
	if t.plain && !errors.Is(err, errdefs.ErrInvalidInput) {
		return mcp.TextResult(err.Error()), nil
	}
	return mcp.ErrorResult("Error: " + err.Error()), nil
}

// check applies the uniform input contract: required string fields must be
// non-blank, then the arguments must satisfy the resolved schema.
func (t *Tool) check(a map[string]any) error {
	for _, field := range t.Schema.Required {
		prop := t.Schema.Properties[field]
		if prop == nil || prop.Type != "string" {
			continue
		}
		s, isString := a[field].(string)
		if _, present := a[field]; !present || (isString && strings.TrimSpace(s) == "") {
			return errdefs.InvalidInput("%s is required", label(field, prop))
		}
	}
	if err := t.resolved.Validate(map[string]any(a)); err != nil {
		return errdefs.InvalidInput("invalid arguments: %v", err)
	}
	return nil
}

func label(field string, prop *jsonschema.Schema) string {
	if prop.Title != "" {
		return prop.Title
	}
	return field
}
