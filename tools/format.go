package tools

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"pdf-summarizer-mcp/mcp"
)

// OutputFormat represents the supported rendering format for tool listings.
type OutputFormat string

const (
	// FormatTable renders output as tab-separated text tables (default).
	FormatTable OutputFormat = "table"
	// FormatJSON renders output as JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders output as YAML.
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat converts a raw string into an OutputFormat, defaulting to table.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	if trimmed == "" {
		return FormatTable, nil
	}
	switch trimmed {
	case string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML):
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", raw)
	}
}

// RenderDescriptors writes tools to w in the requested format.
func RenderDescriptors(w io.Writer, format OutputFormat, tools []mcp.ToolDescriptor) error {
	switch format {
	case FormatTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tREQUIRED\tDESCRIPTION")
		for _, t := range tools {
			var required []string
			if t.InputSchema != nil {
				required = t.InputSchema.Required
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, strings.Join(required, ","), t.Description)
		}
		return tw.Flush()
	case FormatJSON:
		data, err := json.MarshalIndent(tools, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		// round-trip through JSON so the schema keeps its JSON field names
		data, err := json.Marshal(tools)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
