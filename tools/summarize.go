package tools

import (
	"context"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/llm"
	"pdf-summarizer-mcp/pdf"
	"pdf-summarizer-mcp/validate"
)

func (r *Registry) summarizeTools() []*Tool {
	textSchema := func(desc string) *Tool {
		return &Tool{Schema: object([]string{"text"}, map[string]*jsonschema.Schema{
			"text": stringProp("Text", desc),
		})}
	}
	fromText := textSchema("The text content of the PDF to summarize")
	fromText.Name = "summarize_pdf_text"
	fromText.Title = "Summarize PDF Text"
	fromText.Description = "Summarize provided PDF text using Google Gemini AI"
	fromText.run = r.summarizeText

	plain := textSchema("The text to summarize")
	plain.Name = "summarize_text"
	plain.Title = "Summarize Text"
	plain.Description = "Summarize arbitrary text with the configured LLM provider"
	plain.run = r.summarizeText

	return []*Tool{
		{
			Name:        "summarize_pdf_from_url",
			Title:       "Summarize PDF from URL",
			Description: "Download and summarize a PDF from a URL using Google Gemini AI",
			Schema: object([]string{"url"}, map[string]*jsonschema.Schema{
				"url": {Type: "string", Title: "URL", Description: "URL of the PDF to download and summarize", Format: "uri"},
			}),
			run: r.summarizeURL,
		},
		fromText,
		plain,
	}
}

func (r *Registry) pdfOptions() pdf.Options {
	return pdf.Options{
		Timeout:  r.deps.Download.Timeout,
		MaxBytes: r.deps.Download.MaxBytes,
		TempDir:  r.deps.Download.TempDir,
		Client:   r.deps.HTTPClient,
	}
}

func (r *Registry) summarizeURL(ctx context.Context, a args) (string, error) {
	summary, err := r.SummarizeURL(ctx, a.str("url", ""))
	if err != nil {
		return "", err
	}
	return "PDF Summary:\n\n" + summary, nil
}

// SummarizeDocument extracts, truncates and summarizes a spooled PDF.
// The caller still owns doc and must Close it.
func (r *Registry) SummarizeDocument(ctx context.Context, doc *pdf.Document) (string, error) {
	text, err := pdf.ExtractDocument(doc)
	if err != nil {
		return "", err
	}
	return r.summarize(ctx, pdf.Truncate(text, r.deps.Summarize.MaxPDFChars))
}

// SummarizeURL downloads url and returns the bare summary. The temporary
// file is removed before it returns.
func (r *Registry) SummarizeURL(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if err := validate.ValidateURL(url); err != nil {
		return "", errdefs.InvalidInput("%v", err)
	}
	doc, err := pdf.Download(ctx, url, r.pdfOptions())
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return r.SummarizeDocument(ctx, doc)
}

// PDFOptions exposes the download settings for upload handling.
func (r *Registry) PDFOptions() pdf.Options {
	return r.pdfOptions()
}

func (r *Registry) summarizeText(ctx context.Context, a args) (string, error) {
	text := a.str("text", "")
	s := r.deps.Summarize
	if err := validate.ValidateTextLength(text, s.MinTextLength, s.MaxTextLength); err != nil {
		return "", errdefs.InvalidInput("%v", err)
	}
	summary, err := r.summarize(ctx, text)
	if err != nil {
		return "", err
	}
	return "Summary:\n\n" + summary, nil
}

func (r *Registry) summarize(ctx context.Context, text string) (string, error) {
	if r.deps.Models == nil {
		return "", errdefs.Upstream("no LLM provider configured", nil)
	}
	g, err := r.deps.Models.Summarizer(ctx)
	if err != nil {
		return "", asUpstream(err)
	}
	summary, err := llm.Summarize(ctx, g, text)
	if err != nil {
		return "", asUpstream(err)
	}
	return summary, nil
}

// asUpstream classifies provider failures that did not come back typed.
func asUpstream(err error) error {
	if errdefs.IsKnown(err) {
		return err
	}
	return errdefs.Upstream("LLM request failed", err)
}
