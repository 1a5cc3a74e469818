// Package pdf fetches PDF documents into temporary files and extracts their text.
package pdf

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/logger"
)

var magic = []byte("%PDF-")

// Options controls downloads and uploads.
type Options struct {
	Timeout  time.Duration
	MaxBytes int64
	// TempDir is passed to os.CreateTemp; empty means the system default.
	TempDir string
	Client  *http.Client
}

// Document is a PDF spooled to a temporary file. Close removes the file.
type Document struct {
	Path string
	Size int64
}

// Close removes the temporary file. It is safe to call more than once.
func (d *Document) Close() error {
	if d == nil || d.Path == "" {
		return nil
	}
	err := os.Remove(d.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Download fetches url and stores the body in a temporary file.
// The response must be a PDF, either by Content-Type or by its leading bytes.
func Download(ctx context.Context, url string, opts Options) (*Document, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errdefs.Download("failed to download PDF", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errdefs.Download("failed to download PDF", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errdefs.Download(fmt.Sprintf("failed to download PDF: HTTP %d", resp.StatusCode), nil)
	}
	if resp.ContentLength > 0 && opts.MaxBytes > 0 && resp.ContentLength > opts.MaxBytes {
		return nil, errdefs.Download(fmt.Sprintf("PDF exceeds %d bytes", opts.MaxBytes), nil)
	}

	ct := resp.Header.Get("Content-Type")
	br := bufio.NewReader(resp.Body)
	if !looksLikePDF(ct, br) {
		return nil, errdefs.Download(fmt.Sprintf("URL does not point to a PDF (content-type %q)", ct), nil)
	}
	doc, err := spool(br, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("pdf downloaded", "url", url, "bytes", doc.Size)
	return doc, nil
}

// FromReader spools an uploaded PDF to a temporary file.
func FromReader(r io.Reader, opts Options) (*Document, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(magic))
	if !bytes.Equal(head, magic) {
		return nil, errdefs.InvalidInput("uploaded file is not a PDF")
	}
	return spool(br, opts)
}

func looksLikePDF(contentType string, br *bufio.Reader) bool {
	mt, _, _ := mime.ParseMediaType(contentType)
	if mt == "application/pdf" || mt == "application/x-pdf" {
		return true
	}
	switch mt {
	case "", "application/octet-stream", "binary/octet-stream", "application/download":
		head, _ := br.Peek(len(magic))
		return bytes.Equal(head, magic)
	}
	return false
}

// spool copies r into a temporary file, removing it again on any failure.
func spool(r io.Reader, opts Options) (*Document, error) {
	f, err := os.CreateTemp(opts.TempDir, "pdfsum-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	doc := &Document{Path: f.Name()}

	src := r
	if opts.MaxBytes > 0 {
		src = io.LimitReader(r, opts.MaxBytes+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = doc.Close()
		return nil, errdefs.Download("failed to read PDF body", copyErr)
	case closeErr != nil:
		_ = doc.Close()
		return nil, fmt.Errorf("close temp file: %w", closeErr)
	case opts.MaxBytes > 0 && n > opts.MaxBytes:
		_ = doc.Close()
		return nil, errdefs.Download(fmt.Sprintf("PDF exceeds %d bytes", opts.MaxBytes), nil)
	case n == 0:
		_ = doc.Close()
		return nil, errdefs.Download("PDF is empty", nil)
	}
	doc.Size = n
	return doc, nil
}

// Truncate shortens text to at most max runes. A max of zero disables it.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	i := 0
	for pos := range text {
		if i == max {
			return text[:pos]
		}
		i++
	}
	return text
}

func emptyText(s string) bool {
	return strings.TrimSpace(s) == ""
}
