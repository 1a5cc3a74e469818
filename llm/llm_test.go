package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"pdf-summarizer-mcp/config"
	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/validate"
)

func TestLazy_MemoizesSuccess(t *testing.T) {
	calls := 0
	l := NewLazy(func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := l.Get(context.Background()); err != nil || v != 42 {
				t.Errorf("Get() = %v, %v", v, err)
			}
		}()
	}
	wg.Wait()
	if calls != 1 {
		t.Fatalf("build called %d times, want 1", calls)
	}
}

func TestLazy_DoesNotCacheFailure(t *testing.T) {
	fail := true
	l := NewLazy(func(context.Context) (string, error) {
		if fail {
			return "", errors.New("not configured")
		}
		return "client", nil
	})
	if _, err := l.Get(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	fail = false
	v, err := l.Get(context.Background())
	if err != nil || v != "client" {
		t.Fatalf("Get() = %q, %v", v, err)
	}
}

func TestProviders_MissingKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	p := NewProviders(config.LLM{Provider: config.ProviderGemini}, nil)

	_, err := p.Summarizer(context.Background())
	if !errors.Is(err, errdefs.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
	if err.Error() != "Gemini API key not configured" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	_, err = p.OpenAI(context.Background())
	if err == nil || err.Error() != "OpenAI API key not configured" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProviders_KeyFromEnvAtFirstUse(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	p := NewProviders(config.LLM{Provider: config.ProviderOpenAI}, nil)
	if _, err := p.Summarizer(context.Background()); err == nil {
		t.Fatal("expected error before key is set")
	}
	t.Setenv("OPENAI_API_KEY", "sk-test-key-0000000000")
	g, err := p.Summarizer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := g.(*OpenAI); !ok {
		t.Fatalf("Summarizer() = %T, want *OpenAI", g)
	}
}

func TestProviders_MalformedKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	p := NewProviders(config.LLM{
		Provider: config.ProviderGemini,
		Gemini:   config.Gemini{APIKey: "too-short"},
		OpenAI:   config.OpenAI{APIKey: "pk-" + strings.Repeat("o", 30)},
	}, nil)

	_, err := p.Gemini(context.Background())
	if !errors.Is(err, errdefs.ErrUpstream) || !errors.Is(err, validate.ErrInvalidAPIKey) {
		t.Fatalf("want ErrUpstream wrapping ErrInvalidAPIKey, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Gemini API key validation failed: ") {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	_, err = p.ChatModel(context.Background())
	if !errors.Is(err, validate.ErrInvalidAPIKey) {
		t.Fatalf("want ErrInvalidAPIKey, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "OpenAI API key validation failed: ") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestProviders_MalformedKeyIsNotCached(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-abc")
	p := NewProviders(config.LLM{Provider: config.ProviderOpenAI}, nil)
	if _, err := p.Summarizer(context.Background()); !errors.Is(err, validate.ErrInvalidAPIKey) {
		t.Fatalf("want ErrInvalidAPIKey, got %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "sk-test-key-0000000000")
	if _, err := p.Summarizer(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func geminiServer(t *testing.T, body string, gotPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.Unmarshal(raw, &req); err == nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*gotPrompt = req.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGemini_Generate(t *testing.T) {
	var prompt string
	srv := geminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"A short summary."}]}}]}`, &prompt)

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Summarize(context.Background(), g, "some long text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "A short summary." {
		t.Fatalf("got %q", got)
	}
	if prompt != "Summarize this text concisely:\n\nsome long text" {
		t.Fatalf("unexpected prompt %q", prompt)
	}
	if g.Model() != config.DefaultGeminiModel {
		t.Fatalf("Model() = %q", g.Model())
	}
}

func TestGemini_EmptyCandidates(t *testing.T) {
	var prompt string
	srv := geminiServer(t, `{"candidates":[]}`, &prompt)
	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = g.Generate(context.Background(), "x")
	if !errors.Is(err, errdefs.ErrEmptyResponse) {
		t.Fatalf("want ErrEmptyResponse, got %v", err)
	}
}

func openAIServer(t *testing.T, status int, body string, gotReq *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if gotReq != nil {
			_ = json.NewDecoder(r.Body).Decode(gotReq)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_Chat(t *testing.T) {
	var req map[string]any
	srv := openAIServer(t, http.StatusOK,
		`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hello!"},"finish_reason":"stop"}]}`, &req)

	o := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	got, err := o.Chat(context.Background(), "", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello!" {
		t.Fatalf("got %q", got)
	}
	if req["model"] != config.DefaultOpenAIModel {
		t.Fatalf("model = %v", req["model"])
	}
	if req["max_tokens"] != float64(ChatMaxTokens) {
		t.Fatalf("max_tokens = %v", req["max_tokens"])
	}
}

func TestOpenAI_UpstreamError(t *testing.T) {
	srv := openAIServer(t, http.StatusUnauthorized,
		`{"error":{"message":"bad key","type":"invalid_request_error"}}`, nil)
	o := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	_, err := o.Generate(context.Background(), "hi")
	if !errors.Is(err, errdefs.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
}
