package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/inmohub/realty-api/internal/cache"
	"github.com/inmohub/realty-api/internal/config"
	dbpkg "github.com/inmohub/realty-api/internal/db"
	"github.com/inmohub/realty-api/internal/logging"
	"github.com/inmohub/realty-api/internal/routes"
	"github.com/inmohub/realty-api/internal/storage"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Environment)

	db := dbpkg.NewDB(cfg)

	rdb, err := cache.New(context.Background(), cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, rate limiting and stats cache disabled")
		rdb = nil
	}

	uploader := storage.New(cfg.S3)
	if uploader == nil {
		log.Warn().Msg("object storage not configured, image uploads disabled")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	routes.RegisterRoutes(r, db, cfg, rdb, uploader, log)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
