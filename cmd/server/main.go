package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RxSaturn/estoque-facil-sub001/internal/config"
	"github.com/RxSaturn/estoque-facil-sub001/internal/infra"
	"github.com/RxSaturn/estoque-facil-sub001/internal/router"
	"github.com/RxSaturn/estoque-facil-sub001/internal/service"
	"github.com/RxSaturn/estoque-facil-sub001/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if cfg.AutoMigrate {
		if err := infra.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable: using in-memory rate limiting and direct mail")
		rdb = nil
	}

	disjuntor := infra.NewDisjuntor(infra.DefaultConfigDisjuntor())
	mailer := infra.NewMailer(cfg, disjuntor)
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST not set: password recovery emails will not be delivered")
	}
	emailWorker := worker.NewEmailWorker(mailer, rdb)

	var notificador service.Notificador
	var workers interface{ Wait() }
	if rdb != nil {
		notificador = worker.NewDispatcher(rdb)
		workers = worker.StartWorkerPool(ctx, rdb, &worker.Handlers{Email: emailWorker}, cfg.WorkerPoolSize)
	} else {
		notificador = worker.NewEnvioDireto(emailWorker)
	}

	svcs := router.NovosServicos(cfg, db, rdb, notificador)
	if err := svcs.Locais.GarantirPadrao(ctx, cfg.NomesLocaisPadrao()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default locations")
	}
	worker.StartFlagsCron(ctx, svcs.Estoque, cfg.FlagsReconciliacao)

	r := router.New(ctx, router.Deps{Config: cfg, DB: db, Redis: rdb, Servicos: svcs, SMTP: disjuntor})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // PDF reports
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Estoque Fácil backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if workers != nil {
		workers.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
