package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"pdf-summarizer-mcp/logger"
)

// Server runs the line-delimited JSON-RPC loop: one JSON object per line in,
// one response per line out.
type Server struct {
	d *Dispatcher
}

func NewServer(d *Dispatcher) *Server {
	return &Server{d: d}
}

type line struct {
	data []byte
	err  error
}

// Serve processes lines from r until EOF or ctx is cancelled.
// Requests are handled strictly in order; every response is flushed at once.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			data, err := br.ReadBytes('\n')
			select {
			case lines <- line{data: data, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	bw := bufio.NewWriter(w)
	logger.Info("stdio server started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("stdio server stopped", "reason", ctx.Err().Error())
			return nil
		case l, open := <-lines:
			if !open {
				return nil
			}
			if len(bytes.TrimSpace(l.data)) > 0 {
				if err := s.handle(ctx, bw, l.data); err != nil {
					return err
				}
			}
			if l.err != nil {
				if errors.Is(l.err, io.EOF) {
					logger.Info("stdio server reached end of input")
					return nil
				}
				return fmt.Errorf("read request: %w", l.err)
			}
		}
	}
}

func (s *Server) handle(ctx context.Context, w *bufio.Writer, data []byte) error {
	resp := s.d.HandleMessage(ctx, data)
	if resp == nil {
		return nil
	}
	out, err := json.Marshal(resp)
	if err != nil {
		logger.Error("encode response", err)
		out, _ = json.Marshal(errInternal(resp.ID, "Internal error: "+err.Error()))
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return w.Flush()
}
