package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/summarease/internal/config"
	"github.com/thywilljoshua/summarease/internal/server"
	"github.com/thywilljoshua/summarease/internal/session"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts, true)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			store, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			api := server.New(store, a.assistant, a.logger, server.Config{
				RequestTimeout: a.cfg.Server.RequestTimeout,
				MaxUploadBytes: a.cfg.Server.MaxUploadMB << 20,
			})
			srv := &http.Server{
				Addr:         a.cfg.Server.Addr,
				Handler:      api.Routes(),
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info().
					Str("addr", srv.Addr).
					Str("provider", a.cfg.AI.Provider).
					Str("model", a.cfg.AI.Model).
					Str("sessions", a.cfg.Session.Driver).
					Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func openStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.Session.Driver == "redis" {
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
			Prefix:   cfg.Session.Redis.Prefix,
			TTL:      cfg.Session.TTL,
		})
	}
	return session.NewMemoryStore(cfg.Session.TTL), nil
}
