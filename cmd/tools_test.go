package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/jsonschema-go/jsonschema"
)

func TestToolsCommand(t *testing.T) {
	cfgPath := isolate(t)

	out, err := runCLI(t, "", "--config", cfgPath, "tools", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var descs []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &descs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	found := false
	for _, d := range descs {
		if d.Name == "summarize_pdf_from_url" {
			found = true
		}
	}
	if !found {
		t.Fatalf("summarize_pdf_from_url missing from %s", out)
	}

	out, err = runCLI(t, "", "--config", cfgPath, "tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "NAME") {
		t.Fatalf("expected table header, got %q", out)
	}

	if _, err := runCLI(t, "", "--config", cfgPath, "tools", "--format", "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestCallCommand(t *testing.T) {
	cfgPath := isolate(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "json string argument stays a string",
			args: []string{"call", "parse_json", "--arg", `json_string={"a":1}`},
			want: "Parsed JSON:\n```json\n{\n  \"a\": 1\n}\n```\n",
		},
		{
			name: "json object arguments",
			args: []string{"call", "extract_emails", "--json", `{"text":"write to ops@example.com"}`},
			want: "Found 1 unique email addresses:\n• ops@example.com\n",
		},
		{
			name: "arg overrides json",
			args: []string{"call", "analyze_file_type", "--json", `{"filename":"a.txt"}`, "-a", "filename=b.pdf"},
			want: "File: b.pdf\nExtension: .pdf\nMIME Type: application/pdf\nDescription: PDF Document - Can be processed for text extraction\n",
		},
		{
			name:    "unknown tool",
			args:    []string{"call", "nope"},
			wantErr: "unknown tool: nope",
		},
		{
			name:    "tool error",
			args:    []string{"call", "summarize_text", "--arg", "text=short"},
			wantErr: "Error: invalid text length: text must be at least 10 characters long",
		},
		{
			name:    "malformed pair",
			args:    []string{"call", "summarize_text", "--arg", "text"},
			wantErr: `invalid --arg "text": expected key=value`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCLI(t, "", append([]string{"--config", cfgPath}, tc.args...)...)
			if tc.wantErr != "" {
				if err == nil || err.Error() != tc.wantErr {
					t.Fatalf("error = %v, want %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tc.want {
				t.Fatalf("output = %q, want %q", out, tc.want)
			}
		})
	}
}

func TestBuildArguments(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"query":       {Type: "string"},
			"num_results": {Type: "integer"},
		},
	}
	got, err := buildArguments(`{"query":"go","extra":true}`, []string{"num_results=3", "query=a=b", "free=7"}, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"query": "a=b", "num_results": float64(3), "extra": true, "free": "7"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("arguments mismatch (-want +got):\n%s", diff)
	}

	if _, err := buildArguments(`[1]`, nil, schema); err == nil {
		t.Fatal("expected error for non-object --json")
	}
	if _, err := buildArguments("", []string{"=x"}, schema); err == nil {
		t.Fatal("expected error for empty key")
	}
}
