package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/ayush/concert-capstone/internal/config"
	"github.com/ayush/concert-capstone/internal/logging"
	"github.com/ayush/concert-capstone/internal/middleware"
	"github.com/ayush/concert-capstone/internal/pictures"
	"github.com/ayush/concert-capstone/internal/server"
	"github.com/ayush/concert-capstone/internal/store"
)

func main() {
	cfg := config.Load()
	logging.Setup("pictures", cfg.LogLevel, cfg.LogPretty)
	ctx := context.Background()

	src := pictures.SeedSource{Object: cfg.PicturesSeedObject, File: cfg.PicturesDataFile}

	// ── MinIO (optional seed source) ─────────────────────────
	if cfg.MinioEnabled() {
		minioStore, err := store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Warn().Err(err).Msg("minio unavailable, skipping object seed")
		} else {
			src.Objects = minioStore
		}
	}

	initial, err := pictures.LoadSeed(ctx, src)
	if err != nil {
		log.Fatal().Err(err).Msg("load pictures seed")
	}
	pictureStore := pictures.NewStore(initial)
	log.Info().Int("pictures", pictureStore.Count()).Msg("pictures loaded")

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger())
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	pictures.NewHandler(pictureStore).Mount(r)

	if err := server.Run(ctx, server.New(cfg.Addr("3000"), r)); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server exited")
}
