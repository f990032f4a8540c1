package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/ayush/concert-capstone/internal/auth"
	"github.com/ayush/concert-capstone/internal/concerts"
	"github.com/ayush/concert-capstone/internal/config"
	"github.com/ayush/concert-capstone/internal/frontend"
	"github.com/ayush/concert-capstone/internal/logging"
	"github.com/ayush/concert-capstone/internal/middleware"
	"github.com/ayush/concert-capstone/internal/server"
	"github.com/ayush/concert-capstone/internal/store"
	"github.com/ayush/concert-capstone/internal/upstream"
	"github.com/ayush/concert-capstone/internal/web"
)

func main() {
	cfg := config.Load()
	logging.Setup("capstone", cfg.LogLevel, cfg.LogPretty)
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	// ── Concert catalog ──────────────────────────────────────
	if cfg.ConcertsFile != "" {
		catalog, err := concerts.LoadCatalog(cfg.ConcertsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load concert catalog")
		}
		n, err := concerts.SeedCatalog(ctx, pgStore, catalog)
		if err != nil {
			log.Fatal().Err(err).Msg("seed concerts")
		}
		log.Info().Int("inserted", n).Msg("concert catalog applied")
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── Upstream services ────────────────────────────────────
	songsClient := upstream.NewSongsClient(cfg.SongsURL, cfg.UpstreamTimeout)
	picturesClient := upstream.NewPicturesClient(cfg.PicturesURL, cfg.UpstreamTimeout)

	// ── Handlers ─────────────────────────────────────────────
	views, err := web.NewRenderer(auth.IsAuthenticated)
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}
	crossOrigin, err := middleware.CrossOrigin(cfg.TrustedOrigins...)
	if err != nil {
		log.Fatal().Err(err).Msg("cross-origin protection")
	}

	authHandler := auth.NewHandler(pgStore, sessions, views, cfg.SecureCookies)
	pagesHandler := frontend.NewHandler(songsClient, picturesClient, views)
	concertsHandler := concerts.NewHandler(pgStore, views)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger())
	r.Use(chimw.Recoverer)
	r.Use(crossOrigin)
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", pagesHandler.Health)
	r.Get("/", pagesHandler.Index)
	r.Get("/songs", pagesHandler.Songs)
	r.Get("/photos", pagesHandler.Photos)

	r.Get("/signup", authHandler.SignupForm)
	r.Post("/signup", authHandler.Signup)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Post("/logout", authHandler.Logout)

	concertsHandler.Mount(r)

	if err := server.Run(ctx, server.New(cfg.Addr("8080"), r)); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server exited")
}
