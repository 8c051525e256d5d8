package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"geoverify-api/internal/config"
	"geoverify-api/internal/exifgps"
	"geoverify-api/internal/geo"
	"geoverify-api/internal/handler"
	"geoverify-api/internal/metrics"
	"geoverify-api/internal/models"
	"geoverify-api/internal/repository"
	"geoverify-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	setupLogger(config.LogLevel, config.LogPretty)

	boundaries := config.CountryBoundaries()
	if config.DBSource != "" {
		stored, err := loadStoredBoundaries(config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load boundaries from db")
		}
		boundaries = append(boundaries, stored...)
	}

	// The registry is complete before the server starts and never written again.
	registry := geo.NewRegistryFromBoundaries(boundaries)
	log.Info().Strs("countries", registry.Names()).Msg("boundary registry ready")

	// Initialize layers
	verifyService := service.NewVerifyService(exifgps.NewDecoder(), registry)
	verifyHandler := handler.NewVerifyImageHandler(verifyService, metrics.New(prometheus.DefaultRegisterer), config.MaxUploadBytes)

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(verifyHandler, config.AllowedOrigins)
	r.MaxMultipartMemory = config.MaxUploadBytes

	log.Info().Str("address", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("log_level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// loadStoredBoundaries reads boundaries imported into PostgreSQL. Stored rows
// are registered after the configured ones, so they win on name clashes.
func loadStoredBoundaries(dbSource string) ([]models.CountryBoundary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Database connection
	conn, err := pgxpool.New(ctx, dbSource)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	boundaries, err := repo.ListBoundaries(ctx)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateBoundaries(boundaries); err != nil {
		return nil, fmt.Errorf("stored boundary: %w", err)
	}
	return boundaries, nil
}
