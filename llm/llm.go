// Package llm wraps the Gemini and OpenAI SDK clients behind a small
// text-in/text-out interface. Clients are built on first use.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"pdf-summarizer-mcp/config"
	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/validate"
)

// Generator turns a prompt into model output text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chatter sends a single user message to a named chat model.
type Chatter interface {
	Chat(ctx context.Context, model, message string) (string, error)
}

const (
	summarizePrompt = "Summarize this text concisely:\n\n"
	sentimentPrompt = "Analyze the sentiment of this text and provide a brief explanation:\n\n"
	translatePrompt = "Translate the following text to %s. Only return the translation:\n\n%s"
)

// Summarize asks g for a concise summary of text.
func Summarize(ctx context.Context, g Generator, text string) (string, error) {
	return g.Generate(ctx, summarizePrompt+text)
}

// AnalyzeSentiment asks g to classify the sentiment of text.
func AnalyzeSentiment(ctx context.Context, g Generator, text string) (string, error) {
	return g.Generate(ctx, sentimentPrompt+text)
}

// Translate asks g to translate text into lang.
func Translate(ctx context.Context, g Generator, text, lang string) (string, error) {
	return g.Generate(ctx, fmt.Sprintf(translatePrompt, lang, text))
}

// Lazy memoizes the first successful result of build. Failures are not
// cached, so a credential supplied later is picked up on the next call.
type Lazy[T any] struct {
	mu    sync.Mutex
	build func(context.Context) (T, error)
	val   T
	ok    bool
}

func NewLazy[T any](build func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{build: build}
}

func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ok {
		return l.val, nil
	}
	v, err := l.build(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	l.val, l.ok = v, true
	return v, nil
}

// Providers hands out memoized provider clients.
type Providers struct {
	cfg    config.LLM
	gemini *Lazy[*Gemini]
	openai *Lazy[*OpenAI]
}

// NewProviders prepares lazy clients. httpClient may be nil.
func NewProviders(cfg config.LLM, httpClient *http.Client) *Providers {
	p := &Providers{cfg: cfg}
	p.gemini = NewLazy(func(ctx context.Context) (*Gemini, error) {
		key := firstNonEmpty(cfg.Gemini.APIKey, os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			return nil, errdefs.Upstream("Gemini API key not configured", nil)
		}
		if err := validate.ValidateAPIKey(key, "gemini"); err != nil {
			return nil, errdefs.Upstream("Gemini API key validation failed", err)
		}
		g, err := NewGemini(ctx, GeminiOptions{
			APIKey:     key,
			Model:      cfg.Gemini.Model,
			BaseURL:    cfg.Gemini.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("gemini client ready", "model", g.Model())
		return g, nil
	})
	p.openai = NewLazy(func(ctx context.Context) (*OpenAI, error) {
		key := firstNonEmpty(cfg.OpenAI.APIKey, os.Getenv("OPENAI_API_KEY"))
		if key == "" {
			return nil, errdefs.Upstream("OpenAI API key not configured", nil)
		}
		if err := validate.ValidateAPIKey(key, "openai"); err != nil {
			return nil, errdefs.Upstream("OpenAI API key validation failed", err)
		}
		o := NewOpenAI(OpenAIOptions{
			APIKey:     key,
			Model:      cfg.OpenAI.Model,
			BaseURL:    cfg.OpenAI.BaseURL,
			HTTPClient: httpClient,
		})
		logger.Debug("openai client ready", "model", o.Model())
		return o, nil
	})
	return p
}

func (p *Providers) Gemini(ctx context.Context) (*Gemini, error) {
	return p.gemini.Get(ctx)
}

func (p *Providers) OpenAI(ctx context.Context) (*OpenAI, error) {
	return p.openai.Get(ctx)
}

// Summarizer returns the client for the configured summarization provider.
func (p *Providers) Summarizer(ctx context.Context) (Generator, error) {
	if strings.ToLower(p.cfg.Provider) == config.ProviderOpenAI {
		o, err := p.OpenAI(ctx)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return p.TextModel(ctx)
}

// TextModel returns the Gemini client used for translation and sentiment.
func (p *Providers) TextModel(ctx context.Context) (Generator, error) {
	g, err := p.Gemini(ctx)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ChatModel returns the OpenAI client.
func (p *Providers) ChatModel(ctx context.Context) (Chatter, error) {
	o, err := p.OpenAI(ctx)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
