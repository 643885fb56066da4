package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gls-pallavi/Wellbot/internal/adapters/filewatcher"
	"github.com/gls-pallavi/Wellbot/internal/domain/usecases"
	apihttp "github.com/gls-pallavi/Wellbot/internal/infrastructure/http"
)

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat and knowledge-base API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.KB.Watch {
				watcher, err := filewatcher.NewFSNotifyWatcher(nil, logger)
				if err != nil {
					return err
				}
				defer watcher.Stop()

				monitor := usecases.NewKBMonitor(watcher, a.store, logger)
				if _, err := monitor.Run(ctx, a.store.Dir()); err != nil {
					return err
				}
			}

			server := apihttp.NewServer(a.chat, a.resolve, a.admin, apihttp.Config{
				Addr:            cfg.Addr(),
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				IdleTimeout:     cfg.Server.IdleTimeout,
				ShutdownTimeout: cfg.Server.GracefulShutdown,
				AdminToken:      cfg.Admin.Token,
				CORSOrigins:     cfg.Server.CORSOrigins,
			}, logger)

			return server.Start(ctx)
		},
	}
}
