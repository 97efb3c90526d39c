package main

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/emzola/bookworm/clients"
	"github.com/emzola/bookworm/config"
	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/handler"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/emzola/bookworm/repository"
	"github.com/emzola/bookworm/repository/postgres"
	"github.com/emzola/bookworm/service"
	"github.com/jellydator/ttlcache/v3"
)

const (
	suggestionTTL = 30 * time.Second
	userTTL       = time.Minute
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	service service.Service
	handler *handler.Handler
}

// @title Bookworm API
// @version 1.0
// @description Book reviews: listing, search, suggestions and per-author review management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.ParseLevel(os.Getenv("LOG_LEVEL")))

	// Initialize configuration
	cfg, err := config.Decode()
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Image storage
	s3Client, err := clients.NewS3Client(context.Background(), cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	images := clients.NewS3ImageStore(s3Client, cfg)

	// Other shared resources: waitgroup and in-memory caches
	var wg sync.WaitGroup
	suggestions := ttlcache.New(ttlcache.WithTTL[string, []string](suggestionTTL))
	go suggestions.Start()
	defer suggestions.Stop()
	users := ttlcache.New(ttlcache.WithTTL[int64, *data.User](userTTL))
	go users.Start()
	defer users.Stop()

	// Application layers
	repo := repository.New(db)
	svc := service.New(cfg, &wg, logger, repo, images, suggestions)
	h := handler.New(cfg, logger, users, svc)

	app := &app{
		config:  cfg,
		service: svc,
		handler: h,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
