package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facturapp/internal/config"
	"facturapp/internal/infra"
	"facturapp/internal/repository"
	"facturapp/internal/router"
	"facturapp/internal/worker"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	// Structured logger — dev: pretty, prod: JSON
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	smtpCB := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Name: "smtp"})
	mailer := infra.NewMailer(cfg, smtpCB)
	dispatcher := worker.NewDispatcher(rdb)
	svc := router.NuevosServicios(cfg, db, rdb, dispatcher)

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to the infrastructure dependencies.
	pool := worker.NewPool(rdb, dispatcher, map[string]worker.Handler{
		worker.JobDocumento: worker.NewDocumentoWorker(
			repository.NewFacturaRepository(db),
			repository.NewPagoRepository(db),
			repository.NewUsuarioRepository(db),
			dispatcher,
			cfg.PDFStoragePath,
		),
		worker.JobEmail: worker.NewEmailWorker(mailer),
	})
	pool.Start(ctx, cfg.WorkerPoolSize)

	if _, err := worker.StartVencimientoCron(ctx, cfg.OverdueCronSpec, svc.Facturas); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.OverdueCronSpec).Msg("invalid OVERDUE_CRON_SPEC")
	}

	r := router.New(cfg, db, rdb, svc, smtpCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("facturapp backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
