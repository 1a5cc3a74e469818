package tools

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/jsonschema-go/jsonschema"

	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/validate"
)

const csvPreviewRows = 10

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	urlPattern   = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(\\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
)

func (r *Registry) dataTools() []*Tool {
	return []*Tool{
		{
			Name:        "parse_json",
			Title:       "Parse JSON",
			Description: "Validate and pretty-print a JSON document",
			Schema: object([]string{"json_string"}, map[string]*jsonschema.Schema{
				"json_string": stringProp("JSON string", "JSON document to parse"),
			}),
			plain: true,
			run:   parseJSON,
		},
		{
			Name:        "parse_csv",
			Title:       "Parse CSV",
			Description: "Parse CSV data and render the first rows as a markdown table",
			Schema: object([]string{"csv_string"}, map[string]*jsonschema.Schema{
				"csv_string": stringProp("CSV string", "CSV data to parse"),
				"delimiter":  {Type: "string", Description: `Field delimiter (default: ","); one of , ; | : or tab`},
			}),
			plain: true,
			run:   parseCSV,
		},
		{
			Name:        "extract_emails",
			Title:       "Extract Emails",
			Description: "Find the unique email addresses in text",
			Schema: object([]string{"text"}, map[string]*jsonschema.Schema{
				"text": stringProp("Text", "Text to search"),
			}),
			plain: true,
			run:   extractEmails,
		},
		{
			Name:        "extract_urls",
			Title:       "Extract URLs",
			Description: "Find the unique http and https URLs in text",
			Schema: object([]string{"text"}, map[string]*jsonschema.Schema{
				"text": stringProp("Text", "Text to search"),
			}),
			plain: true,
			run:   extractURLs,
		},
	}
}

func parseJSON(_ context.Context, a args) (string, error) {
	raw := []byte(a.str("json_string", ""))
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Sprintf("Invalid JSON: %v", err), nil
	}
	// Indent keeps the original key order.
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return fmt.Sprintf("Invalid JSON: %v", err), nil
	}
	return "Parsed JSON:\n```json\n" + buf.String() + "\n```", nil
}

func parseCSV(_ context.Context, a args) (string, error) {
	delim := ","
	if d, ok := a["delimiter"].(string); ok && d != "" {
		delim = d
	}
	if err := validate.ValidateCSVDelimiter(delim); err != nil {
		return "", errdefs.InvalidInput("%v", err)
	}
	comma, _ := utf8.DecodeRuneInString(delim)

	cr := csv.NewReader(strings.NewReader(a.str("csv_string", "")))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Sprintf("CSV parsing failed: %v", err), nil
	}
	if len(rows) == 0 {
		return "Empty CSV data", nil
	}

	var b strings.Builder
	b.WriteString("CSV Data:\n")
	for i, row := range rows {
		if i == csvPreviewRows {
			break
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		if i == 0 {
			seps := make([]string, len(row))
			for j, cell := range row {
				seps[j] = strings.Repeat("-", utf8.RuneCountInString(cell)+2)
			}
			b.WriteString("|" + strings.Join(seps, "|") + "|\n")
		}
	}
	if len(rows) > csvPreviewRows {
		fmt.Fprintf(&b, "\n... and %d more rows", len(rows)-csvPreviewRows)
	}
	return b.String(), nil
}

func extractEmails(_ context.Context, a args) (string, error) {
	found := unique(emailPattern.FindAllString(a.str("text", ""), -1))
	if len(found) == 0 {
		return "No email addresses found in the text", nil
	}
	return fmt.Sprintf("Found %d unique email addresses:\n%s", len(found), bullets(found)), nil
}

func extractURLs(_ context.Context, a args) (string, error) {
	found := unique(urlPattern.FindAllString(a.str("text", ""), -1))
	if len(found) == 0 {
		return "No URLs found in the text", nil
	}
	return fmt.Sprintf("Found %d unique URLs:\n%s", len(found), bullets(found)), nil
}

// unique keeps the first occurrence of each value, in order.
func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = "• " + s
	}
	return strings.Join(lines, "\n")
}
