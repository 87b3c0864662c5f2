package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rescatefresco/rescate-fresco/internal/cache"
	"github.com/rescatefresco/rescate-fresco/internal/config"
	dbpkg "github.com/rescatefresco/rescate-fresco/internal/db"
	"github.com/rescatefresco/rescate-fresco/internal/payments"
	"github.com/rescatefresco/rescate-fresco/internal/routes"
	"github.com/rescatefresco/rescate-fresco/internal/storage"
	"github.com/rescatefresco/rescate-fresco/internal/sweep"
	"github.com/rescatefresco/rescate-fresco/internal/timezone"
	"github.com/rescatefresco/rescate-fresco/pkg/logger"
)

func main() {

	cfg := config.Load()

	log, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := dbpkg.NewDB(cfg, log)

	rdb := cache.NewRedis(cfg)
	catalog := cache.NewCatalog(rdb)

	var mp *payments.Client
	if cfg.MPAccessToken != "" {
		mp, err = payments.NewClient(cfg)
		if err != nil {
			log.Fatal("failed to init payments client", zap.Error(err))
		}
	} else {
		log.Warn("MP_ACCESS_TOKEN empty, payments disabled")
	}

	photos := storage.NewPhotoStore(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Cfg:     cfg,
		Catalog: catalog,
		MP:      mp,
		Photos:  photos,
		Log:     log,
	})

	// Barrido diario de lotes vencidos.
	scheduler := sweep.New(
		routes.BuildExpireLots(db, log),
		cfg.SweepHour,
		timezone.Location(timezone.DefaultTimezone),
		log,
	)
	scheduler.Start(context.Background())

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
