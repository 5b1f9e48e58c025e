package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nomadcxx/neischeck/internal/config"
	"github.com/Nomadcxx/neischeck/internal/logging"
	"github.com/Nomadcxx/neischeck/internal/report"
	"github.com/Nomadcxx/neischeck/internal/service"
	"github.com/Nomadcxx/neischeck/internal/ui"
	"github.com/Nomadcxx/neischeck/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Check every spreadsheet saved into a folder",
		Long: `Watch an inbox folder and run a check on each spreadsheet saved into it.
Office lock files (~$name.xlsx) and hidden files are ignored.

Examples:
  neischeck watch ~/NEIS/inbox --mode dates
  neischeck watch                       # uses watch.inbox and watch.mode from config`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, checker, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			dir := cfg.Watch.Inbox
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no inbox directory (pass one or set watch.inbox in config)")
			}
			if mode == "" {
				mode = cfg.Watch.Mode
			}
			if mode != config.ModeDates && mode != config.ModeReading {
				return fmt.Errorf("unknown mode %q (want dates or reading)", mode)
			}

			h := &inboxHandler{checker: checker, mode: mode, out: cmd.OutOrStdout(), format: format(), logger: logger}
			w, err := watcher.NewWatcher(h, watcher.WithLogger(logger))
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Watch(dir); err != nil {
				return err
			}
			ui.InfoMsg("Watching %s for %s exports. Press Ctrl+C to stop.", dir, mode)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "check to run: dates or reading (default from config)")

	return cmd
}

// inboxHandler runs the configured check on each settled file.
type inboxHandler struct {
	checker *service.Checker
	mode    string
	out     io.Writer
	format  report.Format
	logger  *logging.Logger
}

func (h *inboxHandler) HandleFileEvent(_ context.Context, event watcher.FileEvent) error {
	var rep any
	var err error
	switch h.mode {
	case config.ModeReading:
		rep, err = h.checker.CheckReadingFile(event.Path, 0)
	default:
		rep, err = h.checker.CheckDatesFile(event.Path)
	}
	if err != nil {
		return err
	}

	if h.format == report.FormatText {
		fmt.Fprintf(h.out, "\n%s\n", ui.Info("▶ "+event.Path))
	}
	return report.Write(h.out, rep, h.format)
}
