package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	apperrors "github.com/hdlview/hdlview/pkg/errors"
	"github.com/hdlview/hdlview/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	noCache bool   // disable the pipeline cache
}

// serveCommand creates the serve command.
//
// The server re-reads the graph file on every request, so edits to the
// design show up on refresh; the cache keyed by graph hash keeps repeat
// requests cheap.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve lowered views and diagrams over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address (default: from config, \":8745\")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the pipeline cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, graphPath string, opts *serveOpts) error {
	addr := opts.addr
	if addr == "" {
		addr = c.loadConfig().Serve.Addr
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.serveRouter(runner, graphPath),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("server listening", "addr", addr, "graph", graphPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveRouter builds the HTTP routes. Split out from runServe so tests can
// exercise the handlers without binding a socket.
func (c *CLI) serveRouter(runner *pipeline.Runner, graphPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), c.Logger)))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/api/view", func(w http.ResponseWriter, req *http.Request) {
		c.handleArtifact(w, req, runner, graphPath, pipeline.FormatJSON)
	})

	r.Get("/api/render", func(w http.ResponseWriter, req *http.Request) {
		format := req.URL.Query().Get("format")
		if format == "" {
			format = pipeline.FormatSVG
		}
		if err := pipeline.ValidateFormat(format); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		c.handleArtifact(w, req, runner, graphPath, format)
	})

	return r
}

// handleArtifact runs the pipeline for the requested root and writes the
// artifact for the given format.
func (c *CLI) handleArtifact(w http.ResponseWriter, req *http.Request, runner *pipeline.Runner, graphPath, format string) {
	logger := loggerFromContext(req.Context())

	root := req.URL.Query().Get("root")
	if root == "" {
		root = c.loadConfig().DefaultRoot
	}
	if root == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing root query parameter"))
		return
	}

	logger.Debug("handling request", "path", req.URL.Path, "root", root, "format", format)

	result, err := runner.Execute(req.Context(), pipeline.Options{
		GraphPath: graphPath,
		Root:      root,
		Formats:   []string{format},
		Refresh:   req.URL.Query().Get("refresh") == "true",
		Logger:    logger,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	_, _ = w.Write(result.Artifacts[format])
}

// contentType maps an output format to its MIME type.
func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

// statusFor maps a pipeline error to an HTTP status code.
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeRootNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperrors.ErrCodeInvalidGraph, apperrors.ErrCodeUnexpectedVertex:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]string{"error": apperrors.UserMessage(err)}
	if code := apperrors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	_ = json.NewEncoder(w).Encode(body)
}
