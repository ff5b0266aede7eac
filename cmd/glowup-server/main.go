package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowup/server/internal/analytics"
	"glowup/server/internal/api"
	"glowup/server/internal/auth"
	"glowup/server/internal/config"
	"glowup/server/internal/events"
	"glowup/server/internal/processing"
	"glowup/server/internal/store"
	"glowup/server/internal/sweep"
	"glowup/server/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:     "glowup-server",
	Short:   "GlowUp video dashboard backend",
	Version: "1.0.0",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	viper.AddConfigPath("./data")
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
}

func serve() {
	cfg := config.Load()

	logger := telemetry.NewLogger(cfg.Log)
	defer logger.Sync()

	hub := events.NewHub()
	st, err := store.Open(cfg.Database.Path, hub)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	authSvc := auth.NewService(st, cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	engine := processing.NewStubEngine(cfg.Processing.BaseDelay)
	processingSvc := processing.NewService(st, engine, logger)
	analyticsSvc := analytics.NewService(st, logger)

	var sweeper *sweep.Service
	if cfg.Sweep.Enabled {
		sweeper = sweep.NewService(st, logger, cfg.Sweep.Spec, cfg.Sweep.StuckAfter)
		if err := sweeper.Start(); err != nil {
			logger.Fatal("start sweep service", zap.Error(err))
		}
		defer sweeper.Stop()
	}

	apiSrv := api.NewServer(authSvc, st, processingSvc, analyticsSvc, hub, logger, cfg.Share.CacheTTL)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: apiSrv.Router(),
	}

	go func() {
		logger.Info("server started", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server exited", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
