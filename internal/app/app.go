package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/five82/postboard/internal/api"
	"github.com/five82/postboard/internal/board"
	"github.com/five82/postboard/internal/config"
	"github.com/five82/postboard/internal/logging"
	"github.com/five82/postboard/internal/prefs"
	"github.com/five82/postboard/internal/state"
	"github.com/five82/postboard/internal/ui"
)

// Options configure the postboard TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/postboard/prefs.toml
	PollEvery  int    // notifications poll in seconds; zero uses the config value
}

// ErrNotTerminal is returned when stdout is not attached to a terminal.
var ErrNotTerminal = errors.New("postboard needs an interactive terminal; use `postboard serve` for headless runs")

// Run boots the postboard TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := api.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := state.NewStore()
	b := board.New(store, client, board.Options{Logger: logger})

	interval := cfg.NotificationsPoll
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if interval > 0 {
		StartPoller(ctx, b, interval, logger)
	}

	logger.Info("postboard starting",
		slog.String("api", cfg.APIBind),
		slog.Duration("notifications_poll", interval),
	)

	return ui.Run(ui.Options{
		Context:      ctx,
		Board:        b,
		Logger:       logger,
		ThemeName:    userPrefs.Theme,
		AuthorFilter: userPrefs.AuthorFilter,
		PrefsPath:    opts.PrefsPath,
	})
}
