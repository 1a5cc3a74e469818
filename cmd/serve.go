package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pdf-summarizer-mcp/httpapi"
	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/mcp"
)

const shutdownTimeout = 10 * time.Second

// StdioCmd serves line-delimited JSON-RPC on stdin/stdout.
type StdioCmd struct{}

// SDKCmd serves the same tools through the MCP Go SDK.
type SDKCmd struct{}

// HTTPCmd serves the web form and the JSON endpoints.
type HTTPCmd struct {
	Addr string `help:"Listen address (overrides http.addr and PORT)"`
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Run implements the stdio command execution
func (s *StdioCmd) Run(cli *CLI) error {
	reg, _, err := cli.registry()
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	logger.Info("serving JSON-RPC on stdio", "tools", len(reg.Names()))
	return mcp.NewServer(mcp.NewDispatcher(reg, serverInfo())).Serve(ctx, cli.in(), cli.out())
}

// Run implements the sdk command execution
func (s *SDKCmd) Run(cli *CLI) error {
	reg, _, err := cli.registry()
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	logger.Info("serving MCP over the SDK stdio transport", "tools", len(reg.Names()))
	return mcp.ServeSDK(ctx, reg, serverInfo(), nil)
}

// Run implements the http command execution
func (h *HTTPCmd) Run(cli *CLI) error {
	reg, cfg, err := cli.registry()
	if err != nil {
		return err
	}
	addr := strings.TrimSpace(h.Addr)
	if addr == "" {
		addr = cfg.HTTP.Addr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           httpapi.New(reg, serverInfo(), cfg.HTTP.MaxUploadBytes).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
	ctx, stop := signalContext()
	defer stop()
	return serveHTTP(ctx, srv, ln)
}

// serveHTTP runs srv on ln until ctx is done, then shuts it down gracefully.
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
