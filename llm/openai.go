package llm

import (
	"context"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"pdf-summarizer-mcp/config"
	"pdf-summarizer-mcp/errdefs"
)

// ChatMaxTokens caps every completion request.
const ChatMaxTokens = 1000

type OpenAIOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAI talks to the chat completions endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(opts OpenAIOptions) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	model := opts.Model
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAI) Model() string { return o.model }

// Generate sends prompt as a single user message to the default model.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	return o.Chat(ctx, o.model, prompt)
}

// Chat sends message to model; an empty model means the default.
func (o *OpenAI) Chat(ctx context.Context, model, message string) (string, error) {
	if model == "" {
		model = o.model
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens: ChatMaxTokens,
	})
	if err != nil {
		return "", errdefs.Upstream("OpenAI request failed", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errdefs.EmptyResponse("OpenAI returned no text")
	}
	return resp.Choices[0].Message.Content, nil
}
