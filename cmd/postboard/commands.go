package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/postboard/internal/app"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	ConfigPath string
}

func newRootCommand() *cobra.Command {
	root := &rootOptions{}
	opts := app.Options{}

	cmd := &cobra.Command{
		Use:   "postboard",
		Short: "Browse posts and notifications in the terminal",
		Long: `postboard is a terminal client for a small social feed API.

It lists posts newest first, lets you add, edit and react to posts, and
shows notifications from other users. Run "postboard serve" for a local
mock API to point it at.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = root.ConfigPath
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&root.ConfigPath, "config", "", "override config path (default ~/.config/postboard/config.toml)")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "override prefs path (default ~/.config/postboard/prefs.toml)")
	cmd.Flags().IntVar(&opts.PollEvery, "poll", 0, "poll notifications every N seconds (0 uses the config value)")

	cmd.AddCommand(newServeCommand(root))
	return cmd
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := app.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory mock API",
		Long: `Serve the mock API under /fakeApi with seeded users and posts.

Example:
  postboard serve --listen 127.0.0.1:7480 --latency 500ms`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = root.ConfigPath
			return app.Serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "address to listen on (default from config)")
	cmd.Flags().DurationVar(&opts.Latency, "latency", 0, "delay every response, e.g. 2s")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for generated data (0 picks one from the clock)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	return cmd
}
