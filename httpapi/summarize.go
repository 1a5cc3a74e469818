package httpapi

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/pdf"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// fileFields are the multipart field names accepted for an uploaded PDF.
var fileFields = []string{"pdf", "file"}

type pageData struct {
	Summary string
	Error   string
	URL     string
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	renderPage(w, http.StatusOK, pageData{})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	s.summarizeForm(w, r, wantsJSON(r))
}

// summarizeForm handles an upload or url form and replies with HTML or
// {"summary": ...}.
func (s *Server) summarizeForm(w http.ResponseWriter, r *http.Request, asJSON bool) {
	summary, err := s.summarizeRequest(w, r)
	if err != nil {
		s.reportError(r, err)
		status := statusFor(err)
		if asJSON {
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		renderPage(w, status, pageData{Error: err.Error(), URL: r.PostForm.Get("url")})
		return
	}
	if asJSON {
		writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
		return
	}
	renderPage(w, http.StatusOK, pageData{Summary: summary, URL: r.PostForm.Get("url")})
}

func (s *Server) summarizeRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	if s.maxUploadBytes > 0 {
		if r.ContentLength > s.maxUploadBytes {
			return "", &http.MaxBytesError{Limit: s.maxUploadBytes}
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(formMemoryLimit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", err
		}
		return "", errdefs.InvalidInput("invalid form: %v", err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
		if summary, found, err := s.summarizeUpload(r); found {
			return summary, err
		}
	}

	if u := strings.TrimSpace(r.PostFormValue("url")); u != "" {
		return s.backend.SummarizeURL(r.Context(), u)
	}
	return "", errdefs.InvalidInput("Please upload a file or provide a URL.")
}

// summarizeUpload summarizes the first uploaded file field; found is false
// when the form carries none.
func (s *Server) summarizeUpload(r *http.Request) (summary string, found bool, err error) {
	for _, field := range fileFields {
		f, hdr, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return "", true, errdefs.InvalidInput("invalid upload: %v", err)
		}
		defer f.Close()
		logger.Debug("summarizing upload", "filename", hdr.Filename, "size", hdr.Size, "request_id", RequestID(r.Context()))

		doc, err := pdf.FromReader(f, s.backend.PDFOptions())
		if err != nil {
			return "", true, err
		}
		defer doc.Close()
		summary, err = s.backend.SummarizeDocument(r.Context(), doc)
		return summary, true, err
	}
	return "", false, nil
}

func wantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, data); err != nil {
		logger.Warn("failed to render page", "error", err.Error())
	}
}
