package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/mcp"
)

const (
	aliasToolList     = "toolList"
	aliasSummarizePDF = "summarize_pdf"
)

type rpcRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error rpcError `json:"error"`
}

type resultBody struct {
	Result any `json:"result"`
}

// handleMCPPost accepts the multipart summarize form, a JSON-RPC 2.0
// envelope, or the bare {"method","params"} shape served by /rpc.
func (s *Server) handleMCPPost(w http.ResponseWriter, r *http.Request) {
	if isForm(r) {
		s.summarizeForm(w, r, true)
		return
	}
	s.handleRPC(w, r)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rpcBodyLimit))
	if err != nil {
		writeRPCError(w, statusFor(err), mcp.CodeInvalidRequest, "Invalid Request: "+err.Error())
		return
	}
	body = bytes.TrimSpace(body)

	if isEnvelope(body) {
		s.serveEnvelope(w, r, body)
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeRPCError(w, http.StatusBadRequest, mcp.CodeParseError, "Parse error: "+err.Error())
		return
	}
	if req.Method == "" {
		writeRPCError(w, http.StatusBadRequest, mcp.CodeInvalidRequest, "Invalid Request: method is required")
		return
	}

	switch req.Method {
	case aliasSummarizePDF:
		s.rpcSummarizePDF(w, r, req.Params)
		return
	case aliasToolList:
		req.Method = mcp.MethodToolsList
	}

	resp := s.dispatcher.Dispatch(r.Context(), &mcp.Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage("null"),
		Method:  req.Method,
		Params:  req.Params,
	})
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if resp.Error != nil {
		writeRPCError(w, statusForCode(resp.Error.Code), resp.Error.Code, resp.Error.Message)
		return
	}
	writeJSON(w, http.StatusOK, resultBody{Result: resp.Result})
}

// rpcSummarizePDF answers summarize_pdf with the bare summary so that the
// status can follow the error kind.
func (s *Server) rpcSummarizePDF(w http.ResponseWriter, r *http.Request, raw json.RawMessage) {
	var params struct {
		URL string `json:"url"`
	}
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &params); err != nil {
			writeRPCError(w, http.StatusBadRequest, mcp.CodeInvalidParams, "Invalid params: "+err.Error())
			return
		}
	}
	if params.URL == "" {
		writeRPCError(w, http.StatusBadRequest, mcp.CodeInvalidParams, "Missing 'url'")
		return
	}
	summary, err := s.backend.SummarizeURL(r.Context(), params.URL)
	if err != nil {
		s.reportError(r, err)
		writeRPCError(w, statusFor(err), codeFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resultBody{Result: summary})
}

// serveEnvelope passes a full JSON-RPC message to the dispatcher and writes
// its response verbatim. Notifications are acknowledged with 202.
func (s *Server) serveEnvelope(w http.ResponseWriter, r *http.Request, body []byte) {
	resp := s.dispatcher.HandleMessage(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) reportError(r *http.Request, err error) {
	if errdefs.IsKnown(err) {
		logger.Debug("request failed", "path", r.URL.Path, "error", err.Error(), "request_id", RequestID(r.Context()))
		return
	}
	logger.Error("request failed", err, "path", r.URL.Path, "request_id", RequestID(r.Context()))
}

func writeRPCError(w http.ResponseWriter, status, code int, msg string) {
	writeJSON(w, status, errorBody{Error: rpcError{Code: code, Message: msg}})
}

func statusForCode(code int) int {
	switch code {
	case mcp.CodeParseError, mcp.CodeInvalidRequest, mcp.CodeInvalidParams:
		return http.StatusBadRequest
	case mcp.CodeMethodNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) int {
	if statusFor(err) == http.StatusInternalServerError {
		return mcp.CodeInternalError
	}
	return mcp.CodeInvalidParams
}

// isEnvelope reports whether body is a JSON-RPC 2.0 object rather than the
// bare {"method","params"} shape.
func isEnvelope(body []byte) bool {
	if len(body) == 0 || body[0] != '{' {
		return false
	}
	var head struct {
		JSONRPC string `json:"jsonrpc"`
	}
	return json.Unmarshal(body, &head) == nil && head.JSONRPC == "2.0"
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "multipart/form-data" || mt == "application/x-www-form-urlencoded"
}
