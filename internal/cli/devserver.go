package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookmemo/internal/config"
	"bookmemo/internal/fakeapi"
	"bookmemo/internal/platform/openlibrary"

	"github.com/spf13/cobra"
)

const openLibraryRetries = 3

// NewDevServerCommand creates the devserver command, a local stand-in for
// the book and memo collaborator.
func NewDevServerCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "devserver",
		Short: "Run a local in-memory collaborator",
		Long: `Run an in-memory book and memo API on BOOKMEMO_DEV_ADDR.

Books are resolved from a generated catalog, or from Open Library when
BOOKMEMO_DEV_OPENLIBRARY is set. When BOOKMEMO_EMAIL and BOOKMEMO_PASSWORD
are set, that account is created at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDevServer(ctx, rootOpts, rootOpts.formatter(cmd), nil)
		},
	}
}

// NewDevHandler builds the collaborator stand-in and its health routes.
func NewDevHandler(cfg *config.Config) (http.Handler, *fakeapi.Server, error) {
	var resolver fakeapi.Resolver
	if cfg.Dev.OpenLibrary {
		resolver = openlibrary.NewClient(cfg.Dev.UserAgent, cfg.Dev.RPS, openLibraryRetries)
	} else {
		resolver = fakeapi.GenerateCatalog(cfg.Dev.SeedBooks, rand.New(rand.NewSource(cfg.Dev.SeedRandom)))
	}

	api := fakeapi.New(cfg.Dev.Secret, resolver)
	if cfg.Email != "" && cfg.Password != "" {
		if err := api.AddAccount(cfg.Email, cfg.Password); err != nil {
			return nil, nil, fmt.Errorf("seed account: %w", err)
		}
	}

	router := http.NewServeMux()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/", api)
	return router, api, nil
}

// runDevServer serves until ctx is done. ready, when set, receives the bound
// address once the listener is open.
func runDevServer(ctx context.Context, opts *RootOptions, f *OutputFormatter, ready chan<- string) error {
	cfg := opts.Config
	out := f.errWriter()
	handler, _, err := NewDevHandler(cfg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "devserver setup failed", err)
	}

	ln, err := net.Listen("tcp", cfg.Dev.Addr)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeUnreachable, "cannot listen on "+cfg.Dev.Addr, err)
	}

	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	addr := ln.Addr().String()
	writeLine(out, "Starting server on %s", addr)
	slog.Info("devserver started",
		slog.String("op", "cli.runDevServer"),
		slog.String("addr", addr),
		slog.Bool("openlibrary", cfg.Dev.OpenLibrary),
	)
	if ready != nil {
		ready <- addr
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return f.Fail(ExitFailure, ErrCodeGeneric, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Dev.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, "shutdown failed", err)
	}
	writeLine(out, "Server stopped")
	return nil
}
