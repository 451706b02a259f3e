package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-yadex/yadex/config"
	"github.com/go-yadex/yadex/pkg/listing"
	"github.com/go-yadex/yadex/pkg/render"
)

// Options assembles the request-handling surface from explicit,
// immutable collaborators; nothing here is read from global state
// after startup.
type Options struct {
	Roots     *listing.Roots
	Scanner   *listing.Scanner
	Templates *render.Templates // required when TemplateIndex is set

	TemplateIndex bool
	JSONAPI       bool
	Limit         int // entries per listing, 0 = unlimited
	RateLimit     float64
	Burst         int
}

// Serve runs the HTTP server until ctx is canceled, then shuts it
// down gracefully with a 5 second drain window.
func Serve(ctx context.Context, opts Options) error {
	cfg := config.C()
	logger := log.FromContext(ctx).WithPrefix("api")

	handler := loggingMiddleware(logger)(NewHandler(opts))

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Network.Host, strconv.Itoa(cfg.Network.Port)),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("failed to shut down server: %v", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// NewHandler builds the route table from opts. Disabled surfaces are
// simply not registered, so they fall through to a plain 404.
func NewHandler(opts Options) http.Handler {
	h := &handlers{
		roots:     opts.Roots,
		scanner:   opts.Scanner,
		templates: opts.Templates,
		limit:     normalizeLimit(opts.Limit),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	if opts.JSONAPI {
		mux.HandleFunc("POST /api/files", h.handleListFiles)
	}
	if opts.TemplateIndex {
		mux.HandleFunc("GET /", h.handleIndex)
	}

	var handler http.Handler = mux
	if opts.RateLimit > 0 {
		handler = rateLimitMiddleware(opts.RateLimit, opts.Burst)(handler)
	}
	return handler
}
