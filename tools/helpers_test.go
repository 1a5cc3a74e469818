package tools

import (
	"context"
	"errors"
	"testing"

	"pdf-summarizer-mcp/config"
	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/llm"
	"pdf-summarizer-mcp/mcp"
)

type fakeGen struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

type fakeChat struct {
	out   string
	err   error
	model string
	msg   string
}

func (f *fakeChat) Chat(_ context.Context, model, message string) (string, error) {
	f.model, f.msg = model, message
	return f.out, f.err
}

type fakeModels struct {
	gen     *fakeGen
	chat    *fakeChat
	genErr  error
	chatErr error
}

func (m *fakeModels) Summarizer(ctx context.Context) (llm.Generator, error) {
	return m.TextModel(ctx)
}

func (m *fakeModels) TextModel(context.Context) (llm.Generator, error) {
	if m.genErr != nil {
		return nil, m.genErr
	}
	if m.gen == nil {
		return nil, errdefs.Upstream("Gemini API key not configured", nil)
	}
	return m.gen, nil
}

func (m *fakeModels) ChatModel(context.Context) (llm.Chatter, error) {
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	if m.chat == nil {
		return nil, errdefs.Upstream("OpenAI API key not configured", nil)
	}
	return m.chat, nil
}

func testDeps(t *testing.T, models Models) Deps {
	t.Helper()
	cfg := config.Default()
	cfg.Download.TempDir = t.TempDir()
	return DepsFromConfig(cfg, models, nil)
}

func newRegistry(t *testing.T, deps Deps) *Registry {
	t.Helper()
	r, err := NewRegistry(deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func call(t *testing.T, r *Registry, name string, a map[string]any) mcp.ToolResult {
	t.Helper()
	res, err := r.Call(context.Background(), name, a)
	if err != nil {
		t.Fatalf("Call(%s) unexpected error: %v", name, err)
	}
	return res
}

var errBoom = errors.New("boom")
