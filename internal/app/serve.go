package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/five82/postboard/internal/config"
	"github.com/five82/postboard/internal/fakeapi"
	"github.com/five82/postboard/internal/logging"
)

// ServeOptions configure the mock API server.
type ServeOptions struct {
	ConfigPath string
	Listen     string // overrides the config listen address
	Latency    time.Duration
	Seed       int64
	LogLevel   string // overrides the config log level
}

const shutdownTimeout = 5 * time.Second

// Serve runs the in-memory mock API until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	listen := cfg.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := logging.NewText(os.Stderr, level)

	fake := fakeapi.New(fakeapi.Options{
		Seed:                  opts.Seed,
		Latency:               opts.Latency,
		NotificationsPerFetch: -1,
		Logger:                logger,
	})

	srv := &http.Server{
		Addr:              listen,
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock api listening", "addr", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("mock api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
