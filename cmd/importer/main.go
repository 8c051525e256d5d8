package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"geoverify-api/internal/config"
	"geoverify-api/internal/models"
	"geoverify-api/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("file", "", "Path to the boundary CSV file to import")
	configDir := flag.String("config", "configs", "Directory containing app.yaml")
	flag.Parse()

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	log.Info().Str("file", *file).Msg("starting boundary import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open boundary file")
	}
	defer f.Close()

	boundaries, err := parseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse boundary file")
	}

	log.Info().Int("count", len(boundaries)).Msg("parsed boundaries")

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if cfg.DBSource == "" {
		log.Fatal().Msg("db_source must be configured for imports")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	if err := repo.UpsertBoundaries(ctx, boundaries); err != nil {
		log.Fatal().Err(err).Msg("cannot import boundaries")
	}

	stored, err := repo.ListBoundaries(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot verify import")
	}

	log.Info().Int("imported", len(boundaries)).Int("stored", len(stored)).Msg("boundary import complete")
}

// parseCSV reads rows of name,min_lat,max_lat,min_lon,max_lon after a header line.
func parseCSV(r io.Reader) ([]models.CountryBoundary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var boundaries []models.CountryBoundary
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		var values [4]float64
		for i := range values {
			values[i], err = strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid coordinate %q for %s: %w", record[i+1], record[0], err)
			}
		}

		boundary := models.CountryBoundary{
			Name:   strings.ToLower(strings.TrimSpace(record[0])),
			MinLat: values[0],
			MaxLat: values[1],
			MinLon: values[2],
			MaxLon: values[3],
		}
		if err := boundary.Validate(); err != nil {
			return nil, err
		}

		boundaries = append(boundaries, boundary)
	}

	return boundaries, nil
}
