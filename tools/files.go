package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"pdf-summarizer-mcp/validate"
)

var fileDescriptions = map[string]string{
	".pdf":  "PDF Document - Can be processed for text extraction",
	".txt":  "Plain Text File - Can be read directly",
	".md":   "Markdown File - Formatted text document",
	".json": "JSON Data File - Structured data format",
	".csv":  "CSV File - Comma-separated values for data analysis",
	".xlsx": "Excel Spreadsheet - Can be processed for data extraction",
	".docx": "Word Document - Can be processed for text extraction",
	".jpg":  "JPEG Image - Can be analyzed for content",
	".png":  "PNG Image - Can be analyzed for content",
	".py":   "Python Script - Programming code file",
	".js":   "JavaScript File - Web programming code",
	".html": "HTML File - Web page markup",
	".css":  "CSS File - Web styling code",
}

func (r *Registry) fileTools() []*Tool {
	return []*Tool{
		{
			Name:        "encode_file_base64",
			Title:       "Encode File as Base64",
			Description: "Base64-encode file content and report its MIME type and size",
			Schema: object([]string{"content", "filename"}, map[string]*jsonschema.Schema{
				"content":  stringProp("Content", "File content"),
				"filename": stringProp("Filename", "File name used to guess the MIME type"),
			}),
			plain: true,
			run:   encodeFileBase64,
		},
		{
			Name:        "analyze_file_type",
			Title:       "Analyze File Type",
			Description: "Describe a file type from its name",
			Schema: object([]string{"filename"}, map[string]*jsonschema.Schema{
				"filename": stringProp("Filename", "File name to analyze"),
			}),
			plain: true,
			run:   analyzeFileType,
		},
	}
}

// mimeType returns the bare media type for name, or "" when unknown.
func mimeType(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if t == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

func encodeFileBase64(_ context.Context, a args) (string, error) {
	content := a.str("content", "")
	name := validate.SanitizeFilename(a.str("filename", ""))
	mt := mimeType(name)
	if mt == "" {
		mt = "application/octet-stream"
	}
	return fmt.Sprintf("File: %s\nMIME Type: %s\nSize: %d bytes\nBase64 Content:\n%s",
		name, mt, len(content), base64.StdEncoding.EncodeToString([]byte(content))), nil
}

func analyzeFileType(_ context.Context, a args) (string, error) {
	name := a.str("filename", "")
	ext := strings.ToLower(filepath.Ext(name))
	mt := mimeType(name)
	if mt == "" {
		mt = "Unknown"
	}
	desc, ok := fileDescriptions[ext]
	if !ok {
		desc = "Unknown file type"
	}
	return fmt.Sprintf("File: %s\nExtension: %s\nMIME Type: %s\nDescription: %s", name, ext, mt, desc), nil
}
