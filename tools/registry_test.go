package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdf-summarizer-mcp/config"
	"pdf-summarizer-mcp/llm"
	"pdf-summarizer-mcp/mcp"
)

var wantNames = []string{
	"summarize_pdf_from_url",
	"summarize_pdf_text",
	"summarize_text",
	"search_web",
	"scrape_webpage",
	"get_weather",
	"chat_with_openai",
	"translate_text",
	"analyze_sentiment",
	"parse_json",
	"parse_csv",
	"extract_emails",
	"extract_urls",
	"encode_file_base64",
	"analyze_file_type",
}

func TestRegistry_Discovery(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("WEATHER_API_KEY", "")

	// real providers with no credentials: discovery must not care
	r := newRegistry(t, testDeps(t, llm.NewProviders(config.Default().LLM, nil)))
	if diff := cmp.Diff(wantNames, r.Names()); diff != "" {
		t.Fatalf("tool names mismatch (-want +got):\n%s", diff)
	}

	first := r.Tools()
	second := r.Tools()
	if len(first) != len(wantNames) {
		t.Fatalf("got %d descriptors", len(first))
	}
	for i, d := range first {
		if d.InputSchema == nil || d.InputSchema.Type != "object" {
			t.Errorf("%s: missing object schema", d.Name)
		}
		if d.Description == "" {
			t.Errorf("%s: missing description", d.Name)
		}
		if second[i].Name != d.Name {
			t.Errorf("tool order changed between calls")
		}
	}
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := newRegistry(t, testDeps(t, nil))
	_, err := r.Call(context.Background(), "nope", nil)
	if !errors.Is(err, mcp.ErrUnknownTool) {
		t.Fatalf("want ErrUnknownTool, got %v", err)
	}
}

func TestRegistry_UniformValidation(t *testing.T) {
	r := newRegistry(t, testDeps(t, &fakeModels{gen: &fakeGen{out: "never"}}))

	cases := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{name: "empty text", tool: "summarize_pdf_text", args: map[string]any{"text": ""}, want: "Error: Text is required"},
		{name: "blank text", tool: "summarize_text", args: map[string]any{"text": "   "}, want: "Error: Text is required"},
		{name: "nil args", tool: "summarize_pdf_from_url", args: nil, want: "Error: URL is required"},
		{name: "missing query", tool: "search_web", args: map[string]any{}, want: "Error: Query is required"},
		{name: "both required", tool: "encode_file_base64", args: map[string]any{"content": "x"}, want: "Error: Filename is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := call(t, r, tc.tool, tc.args)
			if !res.IsError {
				t.Fatalf("want isError result, got %+v", res)
			}
			if res.Text() != tc.want {
				t.Fatalf("got %q, want %q", res.Text(), tc.want)
			}
		})
	}
}

func TestRegistry_SchemaValidation(t *testing.T) {
	r := newRegistry(t, testDeps(t, nil))
	cases := []struct {
		tool string
		args map[string]any
	}{
		{tool: "summarize_pdf_text", args: map[string]any{"text": float64(42)}},
		{tool: "search_web", args: map[string]any{"query": "go", "num_results": float64(0)}},
		{tool: "search_web", args: map[string]any{"query": "go", "num_results": "five"}},
	}
	for _, tc := range cases {
		res := call(t, r, tc.tool, tc.args)
		if !res.IsError || !strings.HasPrefix(res.Text(), "Error: ") {
			t.Errorf("%s %v: want validation error, got %+v", tc.tool, tc.args, res)
		}
	}
}

func TestRegistry_ErrorStyles(t *testing.T) {
	models := &fakeModels{}
	r := newRegistry(t, testDeps(t, models))

	// summarization tools flag failures
	res := call(t, r, "summarize_text", map[string]any{"text": "long enough text to summarize"})
	if !res.IsError || res.Text() != "Error: Gemini API key not configured" {
		t.Fatalf("unexpected result: %+v", res)
	}

	// grab-bag tools report them as plain text
	res = call(t, r, "analyze_sentiment", map[string]any{"text": "I love it"})
	if res.IsError || res.Text() != "Gemini API key not configured" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
