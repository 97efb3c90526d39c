package service

import (
	"context"
	"sync"

	"github.com/emzola/bookworm/config"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/emzola/bookworm/repository"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	reviews
	users
}

// ImageStore persists review cover images and serves them back by URL.
type ImageStore interface {
	Upload(ctx context.Context, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, imageURL string) error
	// Owns reports whether imageURL points into this store.
	Owns(imageURL string) bool
}

// service defines a service layer.
type service struct {
	config      config.Config
	wg          *sync.WaitGroup
	logger      *jsonlog.Logger
	repo        repository.Repository
	images      ImageStore
	suggestions *ttlcache.Cache[string, []string]
	inflight    singleflight.Group
}

// New creates a new instance of Service. Background image cleanup is tracked by
// wg so that shutdown can wait for it.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, images ImageStore, suggestions *ttlcache.Cache[string, []string]) *service {
	return &service{
		config:      cfg,
		wg:          wg,
		logger:      logger,
		repo:        repo,
		images:      images,
		suggestions: suggestions,
	}
}
