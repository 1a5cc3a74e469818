package pdf

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"

	"pdf-summarizer-mcp/errdefs"
)

// Extract returns the plain text of every page in the PDF at path.
// A document without any text is an extraction error.
func Extract(path string) (text string, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errdefs.Extraction("Could not extract text from PDF", fmt.Errorf("parser panic: %v", r))
		}
	}()

	f, r, err := lpdf.Open(path)
	if err != nil {
		return "", errdefs.Extraction("Could not extract text from PDF", err)
	}
	defer f.Close()

	rd, err := r.GetPlainText()
	if err != nil {
		return "", errdefs.Extraction("Could not extract text from PDF", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return "", errdefs.Extraction("Could not extract text from PDF", err)
	}
	if emptyText(buf.String()) {
		return "", errdefs.Extraction("Could not extract text from PDF", nil)
	}
	return buf.String(), nil
}

// ExtractDocument is Extract for a spooled document.
func ExtractDocument(d *Document) (string, error) {
	return Extract(d.Path)
}
