package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nomadcxx/neischeck/internal/api"
	"github.com/Nomadcxx/neischeck/internal/logging"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the upload API server",
		Long: `Start the HTTP API. Uploads are checked in memory and never stored.

Examples:
  neischeck serve                  # Listen on server.addr from config (:8787)
  neischeck serve --addr :9000     # Listen on port 9000
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, checker, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Close()

			if addr != "" {
				cfg.Server.Addr = addr
			}
			server := api.NewServer(checker, cfg.Server, logger)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Starting neischeck API server on %s\n", cfg.Server.Addr)
			fmt.Fprintln(out, "Endpoints:")
			fmt.Fprintln(out, "  GET  /api/v1/health              - Health check")
			fmt.Fprintln(out, "  POST /api/v1/dates/validate      - Check 자율활동 dates (multipart field \"file\")")
			fmt.Fprintln(out, "  POST /api/v1/reading/duplicates  - Find duplicate titles (?threshold=0.8)")

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.Start()
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case sig := <-sigChan:
				logger.Info("server", "Received shutdown signal", logging.F("signal", sig.String()))
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(ctx)
			case err := <-errChan:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (overrides server.addr)")

	return cmd
}
