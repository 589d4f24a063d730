package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"goldbook/internal/classify"
	"goldbook/internal/config"
	httpapi "goldbook/internal/http"
	"goldbook/internal/logger"
	"goldbook/internal/service"
	"goldbook/internal/store"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	income, err := config.LoadTaxonomy(cfg.IncomeCategoriesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("income taxonomy error")
	}
	expense, err := config.LoadTaxonomy(cfg.ExpenseCategoriesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("expense taxonomy error")
	}
	fixed, err := config.LoadFixedCosts(cfg.FixedCostsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("fixed costs error")
	}

	bands := classify.DefaultBands()
	if err := bands.Validate(); err != nil {
		log.Fatal().Err(err).Msg("purity bands error")
	}

	st := store.New()
	resolver := classify.NewResolver(income, expense)
	svc := service.New(st, resolver, service.Options{
		Bands:           bands,
		DefaultGoldRate: cfg.DefaultGoldRate,
		CurrentYearOnly: cfg.CurrentYearOnly,
	})
	svc.SetFixedCosts(fixed)

	handler := httpapi.NewHandler(svc)
	router := httpapi.NewRouter(handler, log)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("goldbook listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("force close failed")
		}
	}
}
