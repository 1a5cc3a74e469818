package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"pdf-summarizer-mcp/mcp"
	"pdf-summarizer-mcp/tools"
)

// ToolsCmd prints the tool descriptors.
type ToolsCmd struct {
	Format string `name:"format" default:"table" help:"Output format (table|json|yaml)"`
}

// CallCmd runs a single tool from the shell.
type CallCmd struct {
	Tool string   `arg:"" help:"Tool name (see 'tools')"`
	Arg  []string `name:"arg" short:"a" sep:"none" help:"Tool argument as key=value; repeatable"`
	JSON string   `name:"json" help:"Tool arguments as a JSON object; --arg values take precedence"`
}

// Run implements the tools command execution
func (t *ToolsCmd) Run(cli *CLI) error {
	format, err := tools.ParseOutputFormat(t.Format)
	if err != nil {
		return err
	}
	reg, _, err := cli.registry()
	if err != nil {
		return err
	}
	return tools.RenderDescriptors(cli.out(), format, reg.Tools())
}

// Run implements the call command execution
func (c *CallCmd) Run(cli *CLI) error {
	reg, _, err := cli.registry()
	if err != nil {
		return err
	}
	var desc *mcp.ToolDescriptor
	for _, d := range reg.Tools() {
		if d.Name == c.Tool {
			desc = &d
			break
		}
	}
	if desc == nil {
		return fmt.Errorf("unknown tool: %s", c.Tool)
	}

	arguments, err := buildArguments(c.JSON, c.Arg, desc.InputSchema)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	res, err := reg.Call(ctx, c.Tool, arguments)
	if err != nil {
		if errors.Is(err, mcp.ErrUnknownTool) {
			return fmt.Errorf("unknown tool: %s", c.Tool)
		}
		return err
	}
	if res.IsError {
		return errors.New(res.Text())
	}
	_, err = fmt.Fprintln(cli.out(), res.Text())
	return err
}

// buildArguments merges a JSON object with key=value pairs. Pair values are
// decoded as JSON when the schema declares a non-string type.
func buildArguments(raw string, pairs []string, schema *jsonschema.Schema) (map[string]any, error) {
	out := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("--json must be a JSON object: %w", err)
		}
		if out == nil {
			out = map[string]any{}
		}
	}
	for _, p := range pairs {
		k, v, found := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !found || k == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", p)
		}
		out[k] = coerce(v, propertyType(schema, k))
	}
	return out, nil
}

func propertyType(schema *jsonschema.Schema, key string) string {
	if schema == nil || schema.Properties[key] == nil {
		return ""
	}
	return schema.Properties[key].Type
}

func coerce(v, typ string) any {
	switch typ {
	case "integer", "number", "boolean", "object", "array":
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			return decoded
		}
	}
	return v
}
