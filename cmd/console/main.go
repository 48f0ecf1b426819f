package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_console/internal/adapters/hotelapi"
	server "hotel_console/internal/adapters/http_server"
	"hotel_console/internal/adapters/observability"
	"hotel_console/internal/form"
	"hotel_console/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "console")

	client, err := hotelapi.New(cfg.APIBase, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotel API client")
	}

	forms := server.NewFormStore()
	go forms.RunSweeper(ctx, time.Minute, 30*time.Minute)

	con, err := server.NewConsole(client, client, forms, form.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build console")
	}

	srv := server.New(log.Logger)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountConsole(con)

	httpSrv := &http.Server{Addr: cfg.ConsoleAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.ConsoleAddr).Str("api", cfg.APIBase).Msg("console listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("console stopped")
}
