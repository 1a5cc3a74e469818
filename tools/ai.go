package tools

import (
	"context"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"

	"pdf-summarizer-mcp/config"
	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/llm"
	"pdf-summarizer-mcp/validate"
)

func (r *Registry) aiTools() []*Tool {
	return []*Tool{
		{
			Name:        "chat_with_openai",
			Title:       "Chat with OpenAI",
			Description: "Send a message to an OpenAI chat model and return its reply",
			Schema: object([]string{"message"}, map[string]*jsonschema.Schema{
				"message": stringProp("Message", "Message to send"),
				"model": {
					Type:        "string",
					Description: "OpenAI model to use (default: " + config.DefaultOpenAIModel + ")",
				},
			}),
			plain: true,
			run:   r.chatWithOpenAI,
		},
		{
			Name:        "translate_text",
			Title:       "Translate Text",
			Description: "Translate text to another language using Google Gemini AI",
			Schema: object([]string{"text"}, map[string]*jsonschema.Schema{
				"text":            stringProp("Text", "Text to translate"),
				"target_language": {Type: "string", Description: "Target language name or ISO code (default: Spanish)"},
			}),
			plain: true,
			run:   r.translateText,
		},
		{
			Name:        "analyze_sentiment",
			Title:       "Analyze Sentiment",
			Description: "Analyze the sentiment of text using Google Gemini AI",
			Schema: object([]string{"text"}, map[string]*jsonschema.Schema{
				"text": stringProp("Text", "Text to analyze"),
			}),
			plain: true,
			run:   r.analyzeSentiment,
		},
	}
}

func (r *Registry) chatWithOpenAI(ctx context.Context, a args) (string, error) {
	model := a.str("model", config.DefaultOpenAIModel)
	if err := validate.ValidateOpenAIModel(model); err != nil {
		return "", errdefs.InvalidInput("%v", err)
	}
	if r.deps.Models == nil {
		return "", errdefs.Upstream("OpenAI API key not configured", nil)
	}
	c, err := r.deps.Models.ChatModel(ctx)
	if err != nil {
		return "", asUpstream(err)
	}
	reply, err := c.Chat(ctx, model, a.str("message", ""))
	if err != nil {
		return "", errdefs.Upstream("OpenAI chat failed", unwrapUpstream(err))
	}
	return reply, nil
}

func (r *Registry) translateText(ctx context.Context, a args) (string, error) {
	lang := a.str("target_language", "Spanish")
	if err := validate.ValidateLanguage(lang); err != nil {
		return "", errdefs.InvalidInput("%v", err)
	}
	return r.generate(ctx, "Translation", func(g llm.Generator) (string, error) {
		return llm.Translate(ctx, g, a.str("text", ""), lang)
	})
}

func (r *Registry) analyzeSentiment(ctx context.Context, a args) (string, error) {
	return r.generate(ctx, "Sentiment analysis", func(g llm.Generator) (string, error) {
		return llm.AnalyzeSentiment(ctx, g, a.str("text", ""))
	})
}

// generate runs fn against the Gemini text model and words failures the
// way the grab-bag tools report them ("<op> failed", "<op> error: ...").
func (r *Registry) generate(ctx context.Context, op string, fn func(llm.Generator) (string, error)) (string, error) {
	if r.deps.Models == nil {
		return "", errdefs.Upstream("Gemini API key not configured", nil)
	}
	g, err := r.deps.Models.TextModel(ctx)
	if err != nil {
		return "", asUpstream(err)
	}
	out, err := fn(g)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, errdefs.ErrEmptyResponse):
		return op + " failed", nil
	default:
		return "", errdefs.Upstream(op+" error", unwrapUpstream(err))
	}
}

// unwrapUpstream strips one level of upstream wrapping so messages read
// "OpenAI chat failed: <cause>" rather than repeating the provider prefix.
func unwrapUpstream(err error) error {
	if errors.Is(err, errdefs.ErrUpstream) {
		if inner := errors.Unwrap(err); inner != nil {
			return inner
		}
	}
	return err
}
