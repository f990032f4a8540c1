package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/concert-capstone/internal/config"
	"github.com/ayush/concert-capstone/internal/logging"
	"github.com/ayush/concert-capstone/internal/middleware"
	"github.com/ayush/concert-capstone/internal/server"
	"github.com/ayush/concert-capstone/internal/songs"
	"github.com/ayush/concert-capstone/internal/store"
)

func main() {
	cfg := config.Load()
	logging.Setup("songs", cfg.LogLevel, cfg.LogPretty)
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = mongoClient.Ping(pingCtx, nil)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("mongo ping")
	}

	mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}

	// ── Seed ─────────────────────────────────────────────────
	seed, err := songs.LoadSeed(cfg.SongsDataFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load songs seed")
	}
	n, err := mongoStore.Seed(ctx, seed)
	if err != nil {
		log.Fatal().Err(err).Msg("seed songs")
	}
	log.Info().Int("inserted", n).Msg("songs seed applied")

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

	songs.NewHandler(mongoStore).Mount(r)

	if err := server.Run(ctx, server.New(cfg.Addr("8000"), r)); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server exited")
}
